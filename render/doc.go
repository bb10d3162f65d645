// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the integration layer between flow and GPU hosts.
//
// This package defines the stable GPU contract for frame output: vertex
// layouts for tube meshes and instance streams, the WGSL shader pair that
// consumes them, and an upload helper that turns a flow.Frame into bound
// draws on a wgpu/hal device.
//
// # Key Principle
//
// flow RECEIVES a GPU device from the host application, it does NOT create
// its own. The host passes its gpucontext.DeviceProvider; render binds the
// underlying hal.Device and hal.Queue from it. Hosts that run their own
// shaders can use only the layouts and packers and skip the pipelines
// entirely.
//
// # Data Contract
//
//   - Tube meshes upload as a pre-expanded triangle list of interleaved
//     position+normal float32 vertices (TubeVertexLayout). Revision
//     counters on flow.TubeMesh gate re-uploads.
//   - Stream instances upload as half-float records (StreamVertexLayout):
//     center+size, tangent+parameter, color. A shared six-vertex quad
//     buffer provides the sprite corners.
//   - Per-draw uniforms are 96-byte blocks (TubeParams, StreamParams)
//     matching the Uniforms struct in the WGSL sources.
//
// # Usage
//
//	pl, err := render.NewPipelines(host.DeviceProvider(), render.DefaultPipelineConfig())
//	if err != nil {
//	    // CPU-only host: keep using the preview renderer.
//	}
//	defer pl.Destroy()
//
//	frame := eng.Advance(clk)
//	fr, err := pl.UploadFrame(frame, cam)
//	if err != nil {
//	    return err
//	}
//	fr.Record(renderPass)
//	// submit, wait, then:
//	fr.Release()
//
// # Thread Safety
//
// Pipelines and FrameResources are NOT thread-safe. Use them from the
// goroutine that owns the device queue, or add external synchronization.
package render
