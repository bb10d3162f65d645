// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/x448/float16"

	"github.com/nodewire/flow"
)

// TubeDrawVertexCount is the vertex count of one expanded tube draw. The
// fixed index topology is expanded CPU-side into a flat triangle list so
// a tube renders from a single vertex buffer.
const TubeDrawVertexCount = flow.TubeIndexCount

// AppendTubeVertices packs a tube mesh into interleaved position+normal
// vertices, expanding the index topology into triangle-list order. The
// packed bytes are appended to dst; pass dst[:0] to reuse a scratch
// buffer. The result follows TubeVertexLayout.
func AppendTubeVertices(dst []byte, m *flow.TubeMesh) []byte {
	for _, idx := range m.Indices {
		dst = appendVec3(dst, m.Positions[idx])
		dst = appendVec3(dst, m.Normals[idx])
	}
	return dst
}

// AppendInstances packs stream instances into half-float records
// following the InstanceStride layout. Instance opacity is folded into
// the packed alpha channel. The packed bytes are appended to dst.
func AppendInstances(dst []byte, instances []flow.Instance) []byte {
	for i := range instances {
		in := &instances[i]
		dst = appendF16(dst, float32(in.Position.X))
		dst = appendF16(dst, float32(in.Position.Y))
		dst = appendF16(dst, float32(in.Position.Z))
		dst = appendF16(dst, float32(in.Size))
		dst = appendF16(dst, float32(in.Tangent.X))
		dst = appendF16(dst, float32(in.Tangent.Y))
		dst = appendF16(dst, float32(in.Tangent.Z))
		dst = appendF16(dst, float32(in.T))
		dst = appendF16(dst, float32(in.Color.R))
		dst = appendF16(dst, float32(in.Color.G))
		dst = appendF16(dst, float32(in.Color.B))
		dst = appendF16(dst, float32(in.Color.A*in.Opacity))
	}
	return dst
}

// CornerVertexData returns the six quad corners shared by every sprite
// draw, two triangles covering [-1, 1] in both axes.
func CornerVertexData() []byte {
	corners := [6][2]float32{
		{-1, -1}, {1, -1}, {-1, 1},
		{1, -1}, {1, 1}, {-1, 1},
	}
	dst := make([]byte, 0, len(corners)*CornerStride)
	for _, c := range corners {
		dst = appendF32(dst, c[0])
		dst = appendF32(dst, c[1])
	}
	return dst
}

func appendF32(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
}

func appendF16(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint16(dst, float16.Fromfloat32(f).Bits())
}

func appendVec3(dst []byte, v flow.Vec3) []byte {
	dst = appendF32(dst, float32(v.X))
	dst = appendF32(dst, float32(v.Y))
	dst = appendF32(dst, float32(v.Z))
	return dst
}

// Camera carries host-owned view state for one frame upload. ViewProj is
// a column-major clip transform; SizeScale converts world marker sizes to
// clip units for the stream shader.
type Camera struct {
	ViewProj  [16]float32
	Aspect    float32
	SizeScale float32
	Time      float32
}

// DefaultCamera returns an identity-projection camera with unit scales,
// useful for tests and clip-space hosts.
func DefaultCamera() Camera {
	return Camera{
		ViewProj: [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		},
		Aspect:    1,
		SizeScale: 1,
	}
}

// TubeParams matches the Uniforms struct in link_tube.wgsl.
type TubeParams struct {
	ViewProj [16]float32
	TintR    float32
	TintG    float32
	TintB    float32
	TintA    float32
	Emissive float32
	HeadT    float32
	Time     float32
	Pad      float32
}

// StreamParams matches the Uniforms struct in link_stream.wgsl.
type StreamParams struct {
	ViewProj  [16]float32
	TintR     float32
	TintG     float32
	TintB     float32
	TintA     float32
	SizeScale float32
	Aspect    float32
	Time      float32
	Pad       float32
}

// Bytes returns the raw uniform block for upload.
func (p *TubeParams) Bytes() []byte {
	return structToBytes(unsafe.Pointer(p), unsafe.Sizeof(*p)) //nolint:gosec // safe struct serialization
}

// Bytes returns the raw uniform block for upload.
func (p *StreamParams) Bytes() []byte {
	return structToBytes(unsafe.Pointer(p), unsafe.Sizeof(*p)) //nolint:gosec // safe struct serialization
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}
