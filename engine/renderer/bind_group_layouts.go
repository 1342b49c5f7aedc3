package renderer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// mergeBindGroupLayouts combines the per-group layouts declared by a vertex and a fragment
// shader. Groups present in both stages are merged by binding, OR-ing the visibility of
// bindings declared twice.
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(vertexLayouts)+len(fragmentLayouts))
	for g, vDesc := range vertexLayouts {
		merged[g] = vDesc
	}

	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}

		entries := slices.Clone(vDesc.Entries)
		for _, e := range fDesc.Entries {
			idx := slices.IndexFunc(entries, func(x wgpu.BindGroupLayoutEntry) bool { return x.Binding == e.Binding })
			if idx >= 0 {
				entries[idx].Visibility |= e.Visibility
				continue
			}
			entries = append(entries, e)
		}
		slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return cmp.Compare(a.Binding, b.Binding)
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}
	return merged
}

// orderedGroups flattens merged layouts into pipeline layout order. Group indices must be
// contiguous from zero.
func orderedGroups(merged map[int]wgpu.BindGroupLayoutDescriptor) ([]wgpu.BindGroupLayoutDescriptor, error) {
	out := make([]wgpu.BindGroupLayoutDescriptor, len(merged))
	for g, desc := range merged {
		if g < 0 || g >= len(merged) {
			return nil, fmt.Errorf("bind group indices must be contiguous from 0, found group %d of %d", g, len(merged))
		}
		out[g] = desc
	}
	return out, nil
}
