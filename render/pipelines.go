// Copyright 2026 The nodewire Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nodewire/flow"
)

// PipelineConfig describes the render target the link pipelines draw
// into. The host owns the pass; the config only has to match its
// attachment formats.
type PipelineConfig struct {
	// ColorFormat is the color attachment format.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the depth attachment format. Use
	// TextureFormatUndefined for passes without a depth attachment.
	DepthFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count, 1 for no multisampling.
	SampleCount uint32
}

// DefaultPipelineConfig returns the config for a plain BGRA8 pass
// without depth or MSAA.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ColorFormat: gputypes.TextureFormatBGRA8Unorm,
		DepthFormat: gputypes.TextureFormatUndefined,
		SampleCount: 1,
	}
}

// Pipelines holds the GPU objects for drawing link frames: the tube and
// stream render pipelines, the shared uniform layout, the sprite corner
// buffer, and per-link tube vertex buffers cached across frames by mesh
// revision.
type Pipelines struct {
	binding *HALBinding

	tubeShader     hal.ShaderModule
	streamShader   hal.ShaderModule
	uniformLayout  hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	tubePipeline   hal.RenderPipeline
	streamPipeline hal.RenderPipeline

	corners hal.Buffer
	tubes   map[flow.LinkID]*tubeBuffers
	scratch []byte
}

// tubeBuffers is the cached vertex buffer of one tube link, with the
// mesh revisions it was packed from.
type tubeBuffers struct {
	vertices hal.Buffer
	geomRev  uint64
	topoRev  uint64
}

// NewPipelines binds the host device and creates the link render
// pipelines. Zero-valued config fields fall back to
// DefaultPipelineConfig values.
func NewPipelines(handle DeviceHandle, cfg PipelineConfig) (*Pipelines, error) {
	binding, err := BindHAL(handle)
	if err != nil {
		return nil, err
	}
	if cfg.ColorFormat == gputypes.TextureFormatUndefined {
		cfg.ColorFormat = gputypes.TextureFormatBGRA8Unorm
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = 1
	}

	p := &Pipelines{
		binding: binding,
		tubes:   make(map[flow.LinkID]*tubeBuffers),
	}
	if err := p.createPipelines(cfg); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// createPipelines compiles both shaders and builds the two render
// pipelines plus the shared corner buffer.
func (p *Pipelines) createPipelines(cfg PipelineConfig) error {
	device := p.binding.Device()

	tubeShader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "link_tube_shader",
		Source: hal.ShaderSource{WGSL: tubeShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile link_tube shader: %w", err)
	}
	p.tubeShader = tubeShader

	streamShader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "link_stream_shader",
		Source: hal.ShaderSource{WGSL: streamShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile link_stream shader: %w", err)
	}
	p.streamShader = streamShader

	uniformLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "link_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "link_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	colorTargets := []gputypes.ColorTargetState{
		{
			Format:    cfg.ColorFormat,
			Blend:     &premulBlend,
			WriteMask: gputypes.ColorWriteMaskAll,
		},
	}
	multisample := gputypes.MultisampleState{
		Count: cfg.SampleCount,
		Mask:  0xFFFFFFFF,
	}

	tubePipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "link_tube_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.tubeShader,
			EntryPoint: "vs_main",
			Buffers:    TubeVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.tubeShader,
			EntryPoint: "fs_main",
			Targets:    colorTargets,
		},
		DepthStencil: depthStencilState(cfg.DepthFormat, true),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create tube pipeline: %w", err)
	}
	p.tubePipeline = tubePipeline

	// Sprites test depth but never write it, so particles behind a tube
	// clip correctly without punching holes in each other.
	streamPipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "link_stream_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.streamShader,
			EntryPoint: "vs_main",
			Buffers:    StreamVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.streamShader,
			EntryPoint: "fs_main",
			Targets:    colorTargets,
		},
		DepthStencil: depthStencilState(cfg.DepthFormat, false),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: multisample,
	})
	if err != nil {
		return fmt.Errorf("create stream pipeline: %w", err)
	}
	p.streamPipeline = streamPipeline

	corners, err := p.createAndUploadBuffer("link_corner_vertices",
		CornerVertexData(), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.corners = corners

	return nil
}

// depthStencilState returns the depth state for the given attachment
// format, or nil when the pass has no depth attachment. Stencil faces
// are pass-through so combined depth+stencil formats work unchanged.
func depthStencilState(format gputypes.TextureFormat, depthWrite bool) *hal.DepthStencilState {
	if format == gputypes.TextureFormatUndefined {
		return nil
	}
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: depthWrite,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *Pipelines) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.binding.Device().CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.binding.Queue().WriteBuffer(buf, 0, data)
	return buf, nil
}

// createDrawBinding uploads one uniform block and binds it.
func (p *Pipelines) createDrawBinding(label string, uniforms []byte) (hal.Buffer, hal.BindGroup, error) {
	ub, err := p.createAndUploadBuffer(label, uniforms,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, nil, err
	}
	bg, err := p.binding.Device().CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "link_frame_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(uniforms))}},
		},
	})
	if err != nil {
		p.binding.Device().DestroyBuffer(ub)
		return nil, nil, fmt.Errorf("create bind group: %w", err)
	}
	return ub, bg, nil
}

// ensureTubeBuffer returns the cached vertex buffer for a tube mesh,
// re-packing and re-uploading only when the mesh revisions moved.
func (p *Pipelines) ensureTubeBuffer(m *flow.TubeMesh) (*tubeBuffers, error) {
	tb := p.tubes[m.Link]
	if tb == nil {
		buf, err := p.binding.Device().CreateBuffer(&hal.BufferDescriptor{
			Label: "link_tube_vertices",
			Size:  uint64(len(m.Indices)) * TubeVertexStride,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create link_tube_vertices: %w", err)
		}
		tb = &tubeBuffers{vertices: buf}
		p.tubes[m.Link] = tb
	}
	if tb.geomRev != m.GeomRevision || tb.topoRev != m.TopoRevision {
		p.scratch = AppendTubeVertices(p.scratch[:0], m)
		p.binding.Queue().WriteBuffer(tb.vertices, 0, p.scratch)
		tb.geomRev = m.GeomRevision
		tb.topoRev = m.TopoRevision
	}
	return tb, nil
}

// UploadFrame uploads one frame's geometry and uniforms and returns the
// draw set. Tube vertex buffers persist inside Pipelines across frames;
// everything else in the result is transient and freed by Release.
//
// Strokes are not uploaded here. Solid and dashed curves are thin
// ribbons the host flattens with its own line renderer (or the preview
// package on the CPU path).
func (p *Pipelines) UploadFrame(f *flow.Frame, cam Camera) (*FrameResources, error) {
	fr := &FrameResources{pipelines: p}

	for _, m := range f.Tubes {
		tb, err := p.ensureTubeBuffer(m)
		if err != nil {
			fr.Release()
			return nil, err
		}
		params := TubeParams{
			ViewProj: cam.ViewProj,
			TintR:    float32(m.Color.R),
			TintG:    float32(m.Color.G),
			TintB:    float32(m.Color.B),
			TintA:    float32(m.Color.A),
			Emissive: float32(m.Emissive),
			HeadT:    float32(m.HeadT),
			Time:     cam.Time,
		}
		ub, bg, err := p.createDrawBinding("link_tube_uniforms", params.Bytes())
		if err != nil {
			fr.Release()
			return nil, err
		}
		fr.buffers = append(fr.buffers, ub)
		fr.bindGroups = append(fr.bindGroups, bg)
		fr.draws = append(fr.draws, frameDraw{
			pipeline:      p.tubePipeline,
			bindGroup:     bg,
			vertexBuf:     tb.vertices,
			vertexCount:   uint32(len(m.Indices)),
			instanceCount: 1,
		})
	}

	for i := range f.Streams {
		s := &f.Streams[i]
		if len(s.Instances) == 0 {
			continue
		}
		p.scratch = AppendInstances(p.scratch[:0], s.Instances)
		instBuf, err := p.createAndUploadBuffer("link_stream_instances",
			p.scratch, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			fr.Release()
			return nil, err
		}
		fr.buffers = append(fr.buffers, instBuf)

		params := StreamParams{
			ViewProj:  cam.ViewProj,
			TintR:     1,
			TintG:     1,
			TintB:     1,
			TintA:     1,
			SizeScale: cam.SizeScale,
			Aspect:    cam.Aspect,
			Time:      cam.Time,
		}
		ub, bg, err := p.createDrawBinding("link_stream_uniforms", params.Bytes())
		if err != nil {
			fr.Release()
			return nil, err
		}
		fr.buffers = append(fr.buffers, ub)
		fr.bindGroups = append(fr.bindGroups, bg)
		fr.draws = append(fr.draws, frameDraw{
			pipeline:      p.streamPipeline,
			bindGroup:     bg,
			vertexBuf:     p.corners,
			instanceBuf:   instBuf,
			vertexCount:   6,
			instanceCount: uint32(len(s.Instances)),
		})
	}

	return fr, nil
}

// DropLink frees the cached tube vertex buffer of a removed link. Safe
// to call for links that never rendered as tubes.
func (p *Pipelines) DropLink(id flow.LinkID) {
	if tb, ok := p.tubes[id]; ok {
		p.binding.Device().DestroyBuffer(tb.vertices)
		delete(p.tubes, id)
	}
}

// Destroy releases all GPU resources in reverse creation order. Safe to
// call on a partially constructed value.
func (p *Pipelines) Destroy() {
	if p.binding == nil {
		return
	}
	device := p.binding.Device()
	for id, tb := range p.tubes {
		device.DestroyBuffer(tb.vertices)
		delete(p.tubes, id)
	}
	if p.corners != nil {
		device.DestroyBuffer(p.corners)
		p.corners = nil
	}
	if p.streamPipeline != nil {
		device.DestroyRenderPipeline(p.streamPipeline)
		p.streamPipeline = nil
	}
	if p.tubePipeline != nil {
		device.DestroyRenderPipeline(p.tubePipeline)
		p.tubePipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.streamShader != nil {
		device.DestroyShaderModule(p.streamShader)
		p.streamShader = nil
	}
	if p.tubeShader != nil {
		device.DestroyShaderModule(p.tubeShader)
		p.tubeShader = nil
	}
}

// FrameResources is one uploaded frame: the draw list plus the transient
// buffers and bind groups backing it.
type FrameResources struct {
	pipelines  *Pipelines
	draws      []frameDraw
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
}

// frameDraw is one recorded draw call.
type frameDraw struct {
	pipeline      hal.RenderPipeline
	bindGroup     hal.BindGroup
	vertexBuf     hal.Buffer
	instanceBuf   hal.Buffer
	vertexCount   uint32
	instanceCount uint32
}

// DrawCount returns the number of draws in the frame.
func (fr *FrameResources) DrawCount() int {
	return len(fr.draws)
}

// Record replays the frame's draws into a render pass. The pass's
// attachments must match the PipelineConfig the pipelines were built
// with.
func (fr *FrameResources) Record(rp hal.RenderPassEncoder) {
	for i := range fr.draws {
		d := &fr.draws[i]
		rp.SetPipeline(d.pipeline)
		rp.SetBindGroup(0, d.bindGroup, nil)
		rp.SetVertexBuffer(0, d.vertexBuf, 0)
		if d.instanceBuf != nil {
			rp.SetVertexBuffer(InstanceSlot, d.instanceBuf, 0)
		}
		rp.Draw(d.vertexCount, d.instanceCount, 0, 0)
	}
}

// Release destroys the frame's transient buffers and bind groups. Call
// it after the GPU finished the frame's command buffer; cached tube
// vertex buffers stay alive inside Pipelines.
func (fr *FrameResources) Release() {
	device := fr.pipelines.binding.Device()
	for _, bg := range fr.bindGroups {
		if bg != nil {
			device.DestroyBindGroup(bg)
		}
	}
	for _, b := range fr.buffers {
		if b != nil {
			device.DestroyBuffer(b)
		}
	}
	fr.bindGroups = nil
	fr.buffers = nil
	fr.draws = nil
}
