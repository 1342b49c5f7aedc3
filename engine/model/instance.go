package model

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Instance places one copy of a model in the world.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32
}

// NewInstance returns an unrotated, unit-scale instance at position.
func NewInstance(position mgl32.Vec3) Instance {
	return Instance{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    1,
	}
}

// ToRaw computes the model matrix (translate * rotate * scale) and the rotation-only
// normal matrix. Scale is uniform, so the rotation alone keeps normals correct.
//
// Returns:
//   - GPUInstanceRaw: the instance data ready for marshaling
func (i Instance) ToRaw() GPUInstanceRaw {
	rot := i.Rotation.Normalize().Mat4()
	m := mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(i.Scale, i.Scale, i.Scale))

	return GPUInstanceRaw{
		Model:  m,
		Normal: rot.Mat3(),
	}
}

// InstanceRange is a contiguous half-open range of the instance array.
type InstanceRange = common.InstanceRange

// InstanceGroup binds a named model to the range of instances it is drawn with.
type InstanceGroup struct {
	Model string
	Range InstanceRange
}

// ValidateGroups checks that every group is non-empty, lies inside an instance array of
// length total and that no two groups share an instance.
//
// Parameters:
//   - groups: the groups to check
//   - total: the number of instances in the instance buffer
//
// Returns:
//   - error: wraps common.ErrInvalidInstanceRange on the first violation
func ValidateGroups(groups []InstanceGroup, total int) error {
	sorted := slices.Clone(groups)
	slices.SortFunc(sorted, func(a, b InstanceGroup) int {
		return cmp.Compare(a.Range.First, b.Range.First)
	})

	var prev *InstanceGroup
	for i := range sorted {
		g := &sorted[i]
		if g.Range.Count == 0 {
			return fmt.Errorf("group %q is empty: %w", g.Model, common.ErrInvalidInstanceRange)
		}
		if uint64(g.Range.First)+uint64(g.Range.Count) > uint64(total) {
			return fmt.Errorf("group %q range [%d,%d) exceeds %d instances: %w",
				g.Model, g.Range.First, g.Range.End(), total, common.ErrInvalidInstanceRange)
		}
		if prev != nil && prev.Range.End() > g.Range.First {
			return fmt.Errorf("groups %q and %q overlap: %w", prev.Model, g.Model, common.ErrInvalidInstanceRange)
		}
		prev = g
	}
	return nil
}

// DefaultInstances returns the stock scene: a centerpiece at the origin and a ground
// plane ten units below it.
func DefaultInstances() []Instance {
	return []Instance{
		NewInstance(mgl32.Vec3{0, 0, 0}),
		NewInstance(mgl32.Vec3{0, -10, 0}),
	}
}

// DefaultGroups draws the centerpiece model over the first instance and the plane over the rest.
//
// Parameters:
//   - total: the number of instances, at least 2
//
// Returns:
//   - []InstanceGroup: the groups in draw order
func DefaultGroups(total int) []InstanceGroup {
	return []InstanceGroup{
		{Model: CenterpieceModel, Range: InstanceRange{First: 0, Count: 1}},
		{Model: PlaneModel, Range: InstanceRange{First: 1, Count: uint32(max(total-1, 0))}},
	}
}
