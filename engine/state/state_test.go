package state

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/animation"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/light"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-3

func newTestState(t *testing.T, gpu *fakeGPU, options ...Option) *State {
	t.Helper()
	s, err := New(context.Background(), gpu, gpu.width, gpu.height, newFakeLoader(), options...)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func assertVec3(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

var framePresented = []string{
	"begin",
	"vb:1:Instances",
	"draw:light:cube-mesh:[0,1):Camera,Light",
	"draw:scene:centerpiece-mesh:[0,1):centerpiece-material,Camera,Light",
	"draw:scene:plane-mesh:[1,2):plane-material,Camera,Light",
	"end",
	"present",
}

func TestNew_InitialCamera(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	cam := s.Camera()
	assertVec3(t, [3]float32{100, 0, 0}, cam.Eye)
	assertVec3(t, [3]float32{0, 0, 0}, cam.Target)
	assert.InDelta(t, 800.0/600.0, cam.Aspect, eps)

	uniform := s.CameraUniform()
	assertVec3(t, [3]float32{100, 0, 0}, uniform.CameraPosition)
	assert.Equal(t, cam.Uniform(), uniform)

	o, radius := s.Orbit()
	assert.Equal(t, camera.Orientation{}, o)
	assert.Equal(t, DefaultRadius, radius)

	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	assert.NotNil(t, gpu.Pipeline("scene"))
	assert.NotNil(t, gpu.Pipeline("light"))
	assert.False(t, s.Scheduler().Active())
}

func TestNew_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		loader  *fakeLoader
		options []Option
		want    error
	}{
		{name: "zero height", width: 800, height: 0, loader: newFakeLoader(), want: common.ErrInvalidDimensions},
		{name: "negative width", width: -1, height: 600, loader: newFakeLoader(), want: common.ErrInvalidDimensions},
		{name: "zero radius", width: 800, height: 600, loader: newFakeLoader(), options: []Option{WithRadius(0)}, want: common.ErrInvalidRadius},
		{
			name: "nan orientation", width: 800, height: 600, loader: newFakeLoader(),
			options: []Option{WithOrientation(camera.Orientation{Elevation: float32(math.NaN())})},
			want:    common.ErrInvalidOrientation,
		},
		{
			name: "overlapping groups", width: 800, height: 600, loader: newFakeLoader(),
			options: []Option{WithGroups([]model.InstanceGroup{
				{Model: model.CenterpieceModel, Range: model.InstanceRange{First: 0, Count: 2}},
				{Model: model.PlaneModel, Range: model.InstanceRange{First: 1, Count: 1}},
			})},
			want: common.ErrInvalidInstanceRange,
		},
		{
			name: "group past the end", width: 800, height: 600, loader: newFakeLoader(),
			options: []Option{WithGroups([]model.InstanceGroup{
				{Model: model.PlaneModel, Range: model.InstanceRange{First: 1, Count: 5}},
			})},
			want: common.ErrInvalidInstanceRange,
		},
		{
			name: "plane not loaded", width: 800, height: 600,
			loader: newFakeLoader(model.LightModel, model.CenterpieceModel),
			want:   common.ErrAssetMissing,
		},
		{
			name: "light model not loaded", width: 800, height: 600,
			loader: newFakeLoader(model.CenterpieceModel, model.PlaneModel),
			want:   common.ErrAssetMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpu := newFakeGPU(800, 600)
			s, err := New(context.Background(), gpu, tt.width, tt.height, tt.loader, tt.options...)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, s)
		})
	}
}

func TestNew_LoaderError(t *testing.T) {
	loader := newFakeLoader()
	loader.err = errors.New("disk on fire")

	_, err := New(context.Background(), newFakeGPU(800, 600), 800, 600, loader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, 1, loader.loads)
}

func TestRender_CallOrder(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	require.NoError(t, s.Render())
	assert.Equal(t, framePresented, gpu.Calls())
}

func TestRender_OutdatedSurfaceRetriesOnce(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	gpu.beginErrs = []error{common.ErrSurfaceOutdated}
	s := newTestState(t, gpu)

	require.NoError(t, s.Render())

	calls := gpu.Calls()
	require.GreaterOrEqual(t, len(calls), 2)
	assert.Equal(t, []string{"begin", "resize"}, calls[:2])
	assert.Equal(t, framePresented, calls[2:])
	assert.Equal(t, [][2]int{{800, 600}}, gpu.resizes)
}

func TestRender_OutdatedTwiceSkipsFrame(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	gpu.beginErrs = []error{common.ErrSurfaceOutdated, common.ErrSurfaceOutdated}
	s := newTestState(t, gpu)

	err := s.Render()
	require.ErrorIs(t, err, common.ErrFrameSkipped)
	assert.ErrorIs(t, err, common.ErrSurfaceOutdated)
	assert.Equal(t, []string{"begin", "resize", "begin"}, gpu.Calls())

	require.NoError(t, s.Render())
}

func TestRender_AcquireFailureSkipsWithoutResize(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	gpu.beginErrs = []error{common.ErrFrameAcquire}
	s := newTestState(t, gpu)

	err := s.Render()
	require.ErrorIs(t, err, common.ErrFrameSkipped)
	assert.ErrorIs(t, err, common.ErrFrameAcquire)
	assert.Equal(t, common.KindRecoverable, common.KindOf(err))
	assert.Equal(t, []string{"begin"}, gpu.Calls())
	assert.Empty(t, gpu.resizes)

	frames, skipped := s.prof.Totals()
	assert.Zero(t, frames)
	assert.Equal(t, uint64(1), skipped)
}

func TestRender_DepthMismatchIsNotWrapped(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	gpu.beginErrs = []error{common.ErrDepthMismatch}
	s := newTestState(t, gpu)

	err := s.Render()
	require.ErrorIs(t, err, common.ErrDepthMismatch)
	assert.NotErrorIs(t, err, common.ErrFrameSkipped)
}

func TestRender_DrawErrorDiscardsFrame(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)
	gpu.drawErr = errors.New("encoder lost")

	err := s.Render()
	require.ErrorIs(t, err, common.ErrFrameSkipped)
	assert.Equal(t, []string{"begin", "vb:1:Instances", "discard"}, gpu.Calls())
	assert.Zero(t, gpu.count("present"))
}

func TestRender_SubmitErrorDiscardsFrame(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)
	gpu.endErr = errors.New("submit failed")

	err := s.Render()
	require.ErrorIs(t, err, common.ErrFrameSkipped)
	assert.Equal(t, 1, gpu.count("discard"))
	assert.Zero(t, gpu.count("present"))
}

func TestRender_MissingMaterial(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	s.mu.Lock()
	plane := s.models[model.PlaneModel]
	plane.Meshes[0].MaterialIndex = 3
	s.mu.Unlock()

	err := s.Render()
	require.ErrorIs(t, err, common.ErrFrameSkipped)
	assert.ErrorIs(t, err, common.ErrAssetMissing)
	assert.Equal(t, 1, gpu.count("discard"))
}

func TestRender_AfterRelease(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s, err := New(context.Background(), gpu, 800, 600, newFakeLoader())
	require.NoError(t, err)

	s.Release()
	s.Release()
	assert.True(t, gpu.released)
	assert.ErrorIs(t, s.Render(), common.ErrNotInitialized)
	assert.ErrorIs(t, s.Resize(640, 480), common.ErrNotInitialized)
}

func TestDisplayChange_OrbitsAndRenders(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	require.NoError(t, s.DisplayChange(800, 600, camera.Orientation{Azimuth: 1, Elevation: 0}, 100))

	cam := s.Camera()
	assertVec3(t, [3]float32{-100, 0, 0}, cam.Eye)
	uniform := s.CameraUniform()
	assertVec3(t, [3]float32{-100, 0, 0}, uniform.CameraPosition)
	assert.Equal(t, uniform.Marshal(), gpu.lastWrite(s.resources.CameraProvider()))
	assert.Equal(t, framePresented, gpu.Calls())
	assert.Empty(t, gpu.resizes)
}

func TestDisplayChange_Elevation(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	require.NoError(t, s.DisplayChange(800, 600, camera.Orientation{Azimuth: 0, Elevation: 0.25}, 10))

	r := float32(10 * math.Sqrt2 / 2)
	assertVec3(t, [3]float32{r, r, 0}, s.Camera().Eye)
}

func TestDisplayChange_ResizesSurface(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	require.NoError(t, s.DisplayChange(1024, 512, camera.Orientation{}, 100))

	assert.Equal(t, [][2]int{{1024, 512}}, gpu.resizes)
	assert.InDelta(t, 2.0, s.Camera().Aspect, eps)
	w, h := s.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
}

func TestDisplayChange_RejectsWithoutChangingState(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		o      camera.Orientation
		radius float32
		want   error
	}{
		{name: "zero height", width: 800, height: 0, o: camera.Orientation{Azimuth: 1}, radius: 100, want: common.ErrInvalidDimensions},
		{name: "zero radius", width: 800, height: 600, o: camera.Orientation{Azimuth: 1}, radius: 0, want: common.ErrInvalidRadius},
		{name: "negative radius", width: 800, height: 600, o: camera.Orientation{Azimuth: 1}, radius: -5, want: common.ErrInvalidRadius},
		{name: "nan radius", width: 800, height: 600, o: camera.Orientation{}, radius: float32(math.NaN()), want: common.ErrInvalidRadius},
		{name: "infinite azimuth", width: 800, height: 600, o: camera.Orientation{Azimuth: float32(math.Inf(1))}, radius: 100, want: common.ErrInvalidOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpu := newFakeGPU(800, 600)
			s := newTestState(t, gpu)
			before := s.Camera()

			err := s.DisplayChange(tt.width, tt.height, tt.o, tt.radius)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, common.KindDegenerateInput, common.KindOf(err))

			assert.Equal(t, before, s.Camera())
			o, radius := s.Orbit()
			assert.Equal(t, camera.Orientation{}, o)
			assert.Equal(t, DefaultRadius, radius)
			assert.Empty(t, gpu.Calls())
		})
	}
}

func TestDisplayChange_ResizeFailureKeepsState(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)
	gpu.resizeErr = common.ErrDeviceUnavailable

	err := s.DisplayChange(1024, 768, camera.Orientation{Azimuth: 1}, 100)
	require.ErrorIs(t, err, common.ErrDeviceUnavailable)

	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assertVec3(t, [3]float32{100, 0, 0}, s.Camera().Eye)
}

func TestDisplayChange_UploadFailureKeepsSurfaceAndCamera(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)
	before := s.Camera()
	beforeUniform := s.CameraUniform()
	gpu.writeErr = errors.New("write failed")

	err := s.DisplayChange(1000, 500, camera.Orientation{Azimuth: 1}, 100)
	require.ErrorContains(t, err, "write failed")

	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 800, gpu.Width())
	assert.Equal(t, 600, gpu.Height())
	assert.Zero(t, gpu.count("resize"))
	assert.Zero(t, gpu.count("begin"))

	assert.Equal(t, before, s.Camera())
	assert.Equal(t, beforeUniform, s.CameraUniform())
	o, radius := s.Orbit()
	assert.Equal(t, camera.Orientation{}, o)
	assert.Equal(t, DefaultRadius, radius)
}

func TestResize_UploadFailureKeepsSurfaceAndCamera(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)
	gpu.writeErr = errors.New("write failed")

	require.Error(t, s.Resize(1000, 500))

	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Empty(t, gpu.resizes)
	assert.InDelta(t, 800.0/600.0, s.Camera().Aspect, eps)
}

func TestDisplayChange_ResizeFailureRestoresCameraUniform(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)
	beforeUniform := s.CameraUniform()
	gpu.resizeErr = common.ErrDeviceUnavailable

	require.ErrorIs(t, s.DisplayChange(1000, 500, camera.Orientation{Azimuth: 1}, 100), common.ErrDeviceUnavailable)

	assert.Equal(t, beforeUniform.Marshal(), gpu.lastWrite(s.resources.CameraProvider()))
	assert.Equal(t, beforeUniform, s.CameraUniform())
	assert.InDelta(t, 800.0/600.0, s.Camera().Aspect, eps)
}

func TestResize_DoesNotRender(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu, WithOrientation(camera.Orientation{Azimuth: 0.5}), WithRadius(50))

	require.NoError(t, s.Resize(400, 400))
	assert.Equal(t, []string{"resize"}, gpu.Calls())
	assert.InDelta(t, 1.0, s.Camera().Aspect, eps)
	assertVec3(t, [3]float32{0, 0, 50}, s.Camera().Eye)

	require.ErrorIs(t, s.Resize(400, 0), common.ErrInvalidDimensions)
}

func TestSetInstance(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	moved := model.NewInstance(mgl32.Vec3{5, 0, 0})
	require.NoError(t, s.SetInstance(0, moved))

	got, ok := s.Instance(0)
	require.True(t, ok)
	assert.Equal(t, moved, got)

	s.mu.Lock()
	want := model.MarshalInstances(s.instances)
	s.mu.Unlock()
	assert.Equal(t, want, gpu.lastWrite(s.resources.InstanceProvider()))

	require.ErrorIs(t, s.SetInstance(2, moved), common.ErrInvalidInstanceRange)
	require.ErrorIs(t, s.SetInstance(-1, moved), common.ErrInvalidInstanceRange)
	_, ok = s.Instance(2)
	assert.False(t, ok)
}

func TestSetLight(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu)

	l := light.NewLight(light.WithPosition([3]float32{0, 40, 0}))
	require.NoError(t, s.SetLight(l))
	assert.Equal(t, l, s.Light())

	uniform := l.Uniform()
	assert.Equal(t, uniform.Marshal(), gpu.lastWrite(s.resources.LightProvider()))
}

func TestWithGroups_DrawsEachRange(t *testing.T) {
	gpu := newFakeGPU(800, 600)
	instances := []model.Instance{
		model.NewInstance(mgl32.Vec3{0, 0, 0}),
		model.NewInstance(mgl32.Vec3{0, -10, 0}),
		model.NewInstance(mgl32.Vec3{10, -10, 0}),
	}
	s := newTestState(t, gpu,
		WithInstances(instances),
		WithGroups([]model.InstanceGroup{
			{Model: model.PlaneModel, Range: model.InstanceRange{First: 1, Count: 2}},
			{Model: model.CenterpieceModel, Range: model.InstanceRange{First: 0, Count: 1}},
		}),
	)

	require.NoError(t, s.Render())
	calls := gpu.Calls()
	assert.Contains(t, calls, "draw:scene:plane-mesh:[1,3):plane-material,Camera,Light")
	assert.Contains(t, calls, "draw:scene:centerpiece-mesh:[0,1):centerpiece-material,Camera,Light")
}

type animationLog struct {
	mu     sync.Mutex
	labels []string
}

func (l *animationLog) cb(label string) animation.Callback[*State] {
	return func(*State) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.labels = append(l.labels, label)
	}
}

func (l *animationLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.labels...)
}

func TestAnimation_InsertClearInsert(t *testing.T) {
	var (
		mu      sync.Mutex
		tickers []*animation.ManualTicker
	)
	factory := func(time.Duration) animation.Ticker {
		mu.Lock()
		defer mu.Unlock()
		tk := animation.NewManualTicker()
		tickers = append(tickers, tk)
		return tk
	}

	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu, WithSchedulerOptions(animation.WithTickerFactory(factory)))
	log := &animationLog{}

	s.AnimationInsert("A", log.cb("A"))
	require.Len(t, tickers, 1)
	require.True(t, tickers[0].Fire())
	ran, err := s.Scheduler().Poll()
	require.NoError(t, err)
	require.True(t, ran)
	assert.Equal(t, []string{"A"}, log.get())
	assert.Equal(t, 1, gpu.count("present"))

	s.AnimationClear()
	require.True(t, tickers[0].Fire())
	ran, err = s.Scheduler().Poll()
	require.NoError(t, err)
	require.True(t, ran)
	assert.Equal(t, []string{"A"}, log.get())
	assert.Equal(t, 2, gpu.count("present"))

	s.AnimationInsert("B", log.cb("B"))
	assert.Len(t, tickers, 1)
	assert.Equal(t, uint64(1), s.Scheduler().TimersStarted())
	require.True(t, tickers[0].Fire())
	_, err = s.Scheduler().Poll()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, log.get())

	s.Release()
	assert.True(t, tickers[0].Stopped())
}

func TestAnimation_CallbackMutatesState(t *testing.T) {
	ticker := animation.NewManualTicker()
	gpu := newFakeGPU(800, 600)
	s := newTestState(t, gpu, WithSchedulerOptions(animation.WithTickerFactory(func(time.Duration) animation.Ticker {
		return ticker
	})))

	s.AnimationInsert("spin", func(st *State) {
		o, radius := st.Orbit()
		o.Azimuth += 0.5
		w, h := st.Size()
		require.NoError(t, st.DisplayChange(w, h, o, radius))
	})

	require.True(t, ticker.Fire())
	_, err := s.Scheduler().Poll()
	require.NoError(t, err)

	assertVec3(t, [3]float32{0, 0, 100}, s.Camera().Eye)
	// one frame from DisplayChange, one from the tick itself
	assert.Equal(t, 2, gpu.count("present"))
}

func TestAnimation_SkippedFrameDoesNotFailTick(t *testing.T) {
	ticker := animation.NewManualTicker()
	gpu := newFakeGPU(800, 600)
	gpu.beginErrs = []error{common.ErrFrameAcquire}
	s := newTestState(t, gpu, WithSchedulerOptions(animation.WithTickerFactory(func(time.Duration) animation.Ticker {
		return ticker
	})))

	s.AnimationInsert("noop", func(*State) {})
	require.True(t, ticker.Fire())
	ran, err := s.Scheduler().Poll()
	assert.True(t, ran)
	assert.NoError(t, err)
}
