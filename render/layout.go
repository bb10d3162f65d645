// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
)

// TubeVertexStride is the byte stride per tube vertex.
// Layout per vertex:
//
//	position (vec3<f32>) = 12 bytes (location 0)
//	normal   (vec3<f32>) = 12 bytes (location 1)
//
// Total = 24 bytes per vertex.
const TubeVertexStride = 24

// CornerStride is the byte stride per sprite corner vertex.
// Layout per vertex:
//
//	corner (vec2<f32>) = 8 bytes (location 0)
const CornerStride = 8

// InstanceStride is the byte stride per packed stream instance. Records
// are half floats to keep per-frame uploads small; vertex fetch widens
// them to f32 in the shader.
// Layout per instance:
//
//	center+size (vec4<f16>) = 8 bytes (location 1): position xyz, size w
//	tangent+t   (vec4<f16>) = 8 bytes (location 2): tangent xyz, curve t w
//	color       (vec4<f16>) = 8 bytes (location 3): straight-alpha RGBA
//
// Total = 24 bytes per instance.
const InstanceStride = 24

// UniformBlockSize is the byte size of the per-draw uniform block shared
// by both pipelines: mat4x4<f32> view_proj + vec4<f32> tint + vec4<f32>
// params.
const UniformBlockSize = 96

// Vertex buffer slots used by the stream pipeline.
const (
	// CornerSlot is the per-vertex quad corner buffer.
	CornerSlot = 0

	// InstanceSlot is the per-instance record buffer.
	InstanceSlot = 1
)

// TubeVertexLayout returns the vertex buffer layout for the tube pipeline.
func TubeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: TubeVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
			},
		},
	}
}

// StreamVertexLayout returns the two-buffer layout for the stream
// pipeline: quad corners at CornerSlot, packed instance records at
// InstanceSlot.
func StreamVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: CornerStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
		{
			ArrayStride: InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat16x4, Offset: 0, ShaderLocation: 1},  // center+size
				{Format: gputypes.VertexFormatFloat16x4, Offset: 8, ShaderLocation: 2},  // tangent+t
				{Format: gputypes.VertexFormatFloat16x4, Offset: 16, ShaderLocation: 3}, // color
			},
		},
	}
}
