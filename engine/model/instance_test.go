package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRaw_Translation(t *testing.T) {
	raw := NewInstance(mgl32.Vec3{1, -10, 3}).ToRaw()

	assert.Equal(t, float32(1), raw.Model[12])
	assert.Equal(t, float32(-10), raw.Model[13])
	assert.Equal(t, float32(3), raw.Model[14])
	assert.Equal(t, float32(1), raw.Model[15])
	assert.Equal(t, [9]float32(mgl32.Ident3()), raw.Normal)
}

func TestToRaw_ScaleLeavesNormalMatrix(t *testing.T) {
	inst := NewInstance(mgl32.Vec3{})
	inst.Scale = 3
	raw := inst.ToRaw()

	assert.Equal(t, float32(3), raw.Model[0])
	assert.Equal(t, float32(3), raw.Model[5])
	assert.Equal(t, float32(3), raw.Model[10])
	assert.Equal(t, [9]float32(mgl32.Ident3()), raw.Normal)
}

func TestMarshalInstances(t *testing.T) {
	buf := MarshalInstances(DefaultInstances())
	require.Len(t, buf, 2*GPUInstanceRawSize)

	// translation y of the second instance
	want := common.Float32sToBytes([]float32{-10})
	off := GPUInstanceRawSize + 13*4
	assert.Equal(t, want, buf[off:off+4])
}

func TestValidateGroups(t *testing.T) {
	tests := []struct {
		name    string
		groups  []InstanceGroup
		total   int
		wantErr bool
	}{
		{"default", DefaultGroups(2), 2, false},
		{"default many", DefaultGroups(10), 10, false},
		{"unordered", []InstanceGroup{
			{Model: "b", Range: InstanceRange{First: 2, Count: 1}},
			{Model: "a", Range: InstanceRange{First: 0, Count: 2}},
		}, 3, false},
		{"empty group", []InstanceGroup{{Model: "a", Range: InstanceRange{First: 0, Count: 0}}}, 1, true},
		{"out of bounds", []InstanceGroup{{Model: "a", Range: InstanceRange{First: 1, Count: 2}}}, 2, true},
		{"overlap", []InstanceGroup{
			{Model: "a", Range: InstanceRange{First: 0, Count: 2}},
			{Model: "b", Range: InstanceRange{First: 1, Count: 1}},
		}, 3, true},
		{"no groups", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroups(tt.groups, tt.total)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidInstanceRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultGroupsCoverInstances(t *testing.T) {
	groups := DefaultGroups(len(DefaultInstances()))
	require.Len(t, groups, 2)
	assert.Equal(t, CenterpieceModel, groups[0].Model)
	assert.Equal(t, InstanceRange{First: 0, Count: 1}, groups[0].Range)
	assert.Equal(t, PlaneModel, groups[1].Model)
	assert.Equal(t, InstanceRange{First: 1, Count: 1}, groups[1].Range)
}

func TestModelMaterialFor(t *testing.T) {
	m := &Model{Materials: []Material{{Name: "only"}}}

	mat, ok := m.MaterialFor(Mesh{MaterialIndex: 0})
	assert.True(t, ok)
	assert.Equal(t, "only", mat.Name)

	_, ok = m.MaterialFor(Mesh{MaterialIndex: 1})
	assert.False(t, ok)
	_, ok = m.MaterialFor(Mesh{MaterialIndex: -1})
	assert.False(t, ok)
}
