package light

// LightBuilderOption is a functional option applied to a Light during construction via NewLight.
type LightBuilderOption func(*Light)

// WithPosition sets the world-space light position.
func WithPosition(position [3]float32) LightBuilderOption {
	return func(l *Light) {
		l.Position = position
	}
}

// WithColor sets the linear RGB light color.
func WithColor(color [3]float32) LightBuilderOption {
	return func(l *Light) {
		l.Color = color
	}
}
