// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/nodewire/flow"
)

func TestTubeVertexLayout(t *testing.T) {
	layouts := TubeVertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("got %d buffers, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != TubeVertexStride {
		t.Errorf("stride = %d, want %d", l.ArrayStride, TubeVertexStride)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("step mode = %v, want per-vertex", l.StepMode)
	}

	want := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	}
	if len(l.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(l.Attributes), len(want))
	}
	for i, attr := range l.Attributes {
		if attr != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, attr, want[i])
		}
	}
}

func TestStreamVertexLayout(t *testing.T) {
	layouts := StreamVertexLayout()
	if len(layouts) != 2 {
		t.Fatalf("got %d buffers, want 2", len(layouts))
	}

	corners := layouts[CornerSlot]
	if corners.ArrayStride != CornerStride {
		t.Errorf("corner stride = %d, want %d", corners.ArrayStride, CornerStride)
	}
	if corners.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("corner step mode = %v, want per-vertex", corners.StepMode)
	}

	inst := layouts[InstanceSlot]
	if inst.ArrayStride != InstanceStride {
		t.Errorf("instance stride = %d, want %d", inst.ArrayStride, InstanceStride)
	}
	if inst.StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("instance step mode = %v, want per-instance", inst.StepMode)
	}

	want := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat16x4, Offset: 0, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat16x4, Offset: 8, ShaderLocation: 2},
		{Format: gputypes.VertexFormatFloat16x4, Offset: 16, ShaderLocation: 3},
	}
	if len(inst.Attributes) != len(want) {
		t.Fatalf("got %d instance attributes, want %d", len(inst.Attributes), len(want))
	}
	for i, attr := range inst.Attributes {
		if attr != want[i] {
			t.Errorf("instance attribute %d = %+v, want %+v", i, attr, want[i])
		}
	}
}

func TestShaderLocationsUnique(t *testing.T) {
	seen := map[uint32]bool{}
	for _, l := range StreamVertexLayout() {
		for _, attr := range l.Attributes {
			if seen[attr.ShaderLocation] {
				t.Errorf("shader location %d used twice", attr.ShaderLocation)
			}
			seen[attr.ShaderLocation] = true
		}
	}
}

// The layout constants are the wire contract; the packers must produce
// exactly those strides.
func TestStridesMatchPackers(t *testing.T) {
	in := []flow.Instance{{Size: 1, Opacity: 1}}
	if got := len(AppendInstances(nil, in)); got != InstanceStride {
		t.Errorf("packed instance = %d bytes, want %d", got, InstanceStride)
	}
	if got := len(CornerVertexData()); got != 6*CornerStride {
		t.Errorf("corner data = %d bytes, want %d", got, 6*CornerStride)
	}
	if TubeDrawVertexCount != flow.TubeIndexCount {
		t.Errorf("TubeDrawVertexCount = %d, want %d", TubeDrawVertexCount, flow.TubeIndexCount)
	}
}
