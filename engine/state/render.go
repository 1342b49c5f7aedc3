package state

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/resources"
	"go.uber.org/zap"
)

// lightInstances is the range the light marker is drawn with; the light shader places it
// from the light uniform, so one instance suffices.
var lightInstances = common.InstanceRange{First: 0, Count: 1}

// Render draws one frame with the last committed camera, light and instances: the light
// marker first, then every instance group with its own range. A lost or outdated surface
// is reconfigured at the current size and the frame retried once.
//
// Returns:
//   - error: nil when the frame was presented, common.ErrDepthMismatch as-is, anything
//     else wrapped in common.ErrFrameSkipped after being logged
func (s *State) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return common.ErrNotInitialized
	}

	err := s.renderFrame()
	if errors.Is(err, common.ErrSurfaceOutdated) {
		s.log.Debug("surface outdated, reconfiguring", zap.Error(err))
		if rerr := s.gpu.Resize(s.width, s.height); rerr != nil {
			err = fmt.Errorf("reconfigure after %w: %w", err, rerr)
		} else {
			err = s.renderFrame()
		}
	}

	switch {
	case err == nil:
		s.prof.Tick()
		return nil
	case errors.Is(err, common.ErrDepthMismatch):
		s.log.Error("depth buffer does not match surface", zap.Error(err))
		return err
	default:
		s.prof.Skip()
		s.log.Warn("frame skipped", zap.Error(err))
		return fmt.Errorf("%w: %w", common.ErrFrameSkipped, err)
	}
}

// renderFrame acquires, records, submits and presents one frame. A frame that fails after
// acquisition is discarded so the next acquisition starts clean.
func (s *State) renderFrame() error {
	if err := s.gpu.BeginFrame(); err != nil {
		return err
	}
	if err := s.encodeFrame(); err != nil {
		s.gpu.DiscardFrame()
		return err
	}
	if err := s.gpu.EndFrame(); err != nil {
		s.gpu.DiscardFrame()
		return err
	}
	s.gpu.Present()
	return nil
}

func (s *State) encodeFrame() error {
	if err := s.gpu.SetVertexBuffer(model.InstanceSlot, s.resources.InstanceProvider()); err != nil {
		return err
	}

	lightModel := s.models[s.lightModel]
	for _, mesh := range lightModel.Meshes {
		if err := s.gpu.DrawCall(resources.LightPipelineKey, mesh.Provider, lightInstances, s.resources.LightBindGroups()); err != nil {
			return fmt.Errorf("light pass: %w", err)
		}
	}

	for _, g := range s.groups {
		m := s.models[g.Model]
		for _, mesh := range m.Meshes {
			mat, ok := m.MaterialFor(mesh)
			if !ok {
				return fmt.Errorf("mesh %q of %q has no material: %w", mesh.Name, g.Model, common.ErrAssetMissing)
			}
			if err := s.gpu.DrawCall(resources.ScenePipelineKey, mesh.Provider, g.Range, s.resources.SceneBindGroups(mat.Provider)); err != nil {
				return fmt.Errorf("scene pass %q: %w", g.Model, err)
			}
		}
	}
	return nil
}
