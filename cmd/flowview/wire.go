package main

import "github.com/nodewire/flow"

// The wire form mirrors [flow.Frame] with compact array vectors and
// lowercase keys, so a browser client can consume the stream without
// knowing the Go types.

type wireVec [3]float64

type wireColor [4]float64

type wireFrame struct {
	Version uint64       `json:"version"`
	Elapsed float64      `json:"elapsed"`
	Strokes []wireStroke `json:"strokes,omitempty"`
	Streams []wireStream `json:"streams,omitempty"`
	Tubes   []wireTube   `json:"tubes,omitempty"`
}

type wireStroke struct {
	Link    string    `json:"link"`
	Start   wireVec   `json:"start"`
	Control wireVec   `json:"control"`
	End     wireVec   `json:"end"`
	Color   wireColor `json:"color"`
	Width   float64   `json:"width"`
	Opacity float64   `json:"opacity"`
	Dash    *wireDash `json:"dash,omitempty"`
}

type wireDash struct {
	Length float64 `json:"length"`
	Gap    float64 `json:"gap"`
	Offset float64 `json:"offset"`
}

type wireInstance struct {
	Position wireVec   `json:"p"`
	Tangent  wireVec   `json:"tan"`
	T        float64   `json:"t"`
	Size     float64   `json:"size"`
	Color    wireColor `json:"color"`
	Opacity  float64   `json:"opacity"`
}

type wireStream struct {
	Link      string         `json:"link"`
	Shape     string         `json:"shape"`
	Glyph     string         `json:"glyph,omitempty"`
	Instances []wireInstance `json:"instances"`
}

type wireTube struct {
	Link         string    `json:"link"`
	Color        wireColor `json:"color"`
	Emissive     float64   `json:"emissive"`
	HasHead      bool      `json:"has_head"`
	HeadT        float64   `json:"head_t,omitempty"`
	HeadPosition wireVec   `json:"head_position"`
	HeadTangent  wireVec   `json:"head_tangent"`
	GeomRevision uint64    `json:"geom_revision"`
	TopoRevision uint64    `json:"topo_revision"`
	Positions    []wireVec `json:"positions,omitempty"`
	Normals      []wireVec `json:"normals,omitempty"`
	Indices      []uint32  `json:"indices,omitempty"`
}

// wireEncoder translates engine frames into the wire form. Tube vertex
// data rides only on frames where the mesh revision moved since the
// encoder last saw the link, so a static tube costs its geometry once
// per connection while heads and pulses stay per-frame.
type wireEncoder struct {
	geom map[flow.LinkID]uint64
	topo map[flow.LinkID]uint64
}

func (e *wireEncoder) frame(f *flow.Frame, elapsed float64) wireFrame {
	wf := wireFrame{Version: f.Version(), Elapsed: elapsed}

	for i := range f.Strokes {
		s := &f.Strokes[i]
		ws := wireStroke{
			Link:    string(s.Link),
			Start:   vec(s.Start),
			Control: vec(s.Control),
			End:     vec(s.End),
			Color:   col(s.Color),
			Width:   s.Width,
			Opacity: s.Opacity,
		}
		if s.Dash.IsDashed() {
			ws.Dash = &wireDash{
				Length: s.Dash.Length,
				Gap:    s.Dash.Gap,
				Offset: s.Dash.NormalizedOffset(),
			}
		}
		wf.Strokes = append(wf.Strokes, ws)
	}

	for i := range f.Streams {
		st := &f.Streams[i]
		ws := wireStream{
			Link:      string(st.Link),
			Shape:     st.Shape.String(),
			Instances: make([]wireInstance, len(st.Instances)),
		}
		if st.Glyph != 0 {
			ws.Glyph = string(st.Glyph)
		}
		for j, in := range st.Instances {
			ws.Instances[j] = wireInstance{
				Position: vec(in.Position),
				Tangent:  vec(in.Tangent),
				T:        in.T,
				Size:     in.Size,
				Color:    col(in.Color),
				Opacity:  in.Opacity,
			}
		}
		wf.Streams = append(wf.Streams, ws)
	}

	for _, m := range f.Tubes {
		wt := wireTube{
			Link:         string(m.Link),
			Color:        col(m.Color),
			Emissive:     m.Emissive,
			HasHead:      m.HasHead,
			HeadT:        m.HeadT,
			HeadPosition: vec(m.HeadPosition),
			HeadTangent:  vec(m.HeadTangent),
			GeomRevision: m.GeomRevision,
			TopoRevision: m.TopoRevision,
		}
		if e.topo == nil {
			e.geom = make(map[flow.LinkID]uint64)
			e.topo = make(map[flow.LinkID]uint64)
		}
		if e.topo[m.Link] != m.TopoRevision {
			e.topo[m.Link] = m.TopoRevision
			wt.Indices = m.Indices
		}
		if e.geom[m.Link] != m.GeomRevision {
			e.geom[m.Link] = m.GeomRevision
			wt.Positions = vecs(m.Positions)
			wt.Normals = vecs(m.Normals)
		}
		wf.Tubes = append(wf.Tubes, wt)
	}

	return wf
}

func vec(v flow.Vec3) wireVec { return wireVec{v.X, v.Y, v.Z} }

func col(c flow.RGBA) wireColor { return wireColor{c.R, c.G, c.B, c.A} }

func vecs(vs []flow.Vec3) []wireVec {
	out := make([]wireVec, len(vs))
	for i, v := range vs {
		out[i] = wireVec{v.X, v.Y, v.Z}
	}
	return out
}
