// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources, compiled into the binary via go:embed.

//go:embed shaders/link_tube.wgsl
var tubeShaderSource string

//go:embed shaders/link_stream.wgsl
var streamShaderSource string

// TubeShaderSource returns the WGSL source for the tube surface shader.
func TubeShaderSource() string {
	return tubeShaderSource
}

// StreamShaderSource returns the WGSL source for the instance sprite
// shader.
func StreamShaderSource() string {
	return streamShaderSource
}

// CompileShader compiles WGSL source to SPIR-V words. Backends that
// prefer SPIR-V ingestion over WGSL can feed the result to
// hal.ShaderSource.SPIRV; it is also the validation path used by
// ValidateShaders.
func CompileShader(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("render: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// ValidateShaders runs both embedded shaders through the WGSL compiler
// without touching a device. Hosts call this at startup to fail fast on a
// broken build.
func ValidateShaders() error {
	if tubeShaderSource == "" {
		return fmt.Errorf("render: tube shader source is empty")
	}
	if streamShaderSource == "" {
		return fmt.Errorf("render: stream shader source is empty")
	}
	if _, err := CompileShader(tubeShaderSource); err != nil {
		return fmt.Errorf("render: tube shader: %w", err)
	}
	if _, err := CompileShader(streamShaderSource); err != nil {
		return fmt.Errorf("render: stream shader: %w", err)
	}
	return nil
}
