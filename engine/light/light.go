package light

// Light is the scene's single point light. The light pass draws a marker model at Position
// and the scene pass shades every instance against it.
type Light struct {
	Position [3]float32
	Color    [3]float32
}

// NewLight creates a white light at (20, 25, 20), then applies options.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(opts ...LightBuilderOption) Light {
	l := Light{
		Position: [3]float32{20, 25, 20},
		Color:    [3]float32{1, 1, 1},
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Uniform returns the GPU representation of the light.
func (l Light) Uniform() GPULightUniform {
	return GPULightUniform{
		Position: l.Position,
		Color:    l.Color,
	}
}
