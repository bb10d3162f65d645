// Package sceneio loads and saves link scenes as YAML or TOML documents.
//
// A scene document declares nodes with world positions and the links
// between them, each with an optional per-style configuration section:
//
//	nodes:
//	  - id: api
//	    position: [0, 0, 0]
//	  - id: db
//	    position: [4, 0, 2]
//	links:
//	  - id: queries
//	    from: api
//	    to: db
//	    style: particles
//	    curve: {mode: up, bend: 0.3}
//	    particles: {count: 16, shape: octa}
//
// The format is chosen by file extension. Loading validates the document
// and rejects unknown keys, unknown names and dangling node references;
// numeric range clamping is left to the engine.
package sceneio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nodewire/flow"
)

// Scene is a parsed scene document.
type Scene struct {
	Nodes []NodeSpec `yaml:"nodes" toml:"nodes"`
	Links []LinkSpec `yaml:"links" toml:"links"`
}

// Load reads and validates a scene document. The format is chosen by the
// file extension: .yaml, .yml or .toml.
func Load(path string) (*Scene, error) {
	var s Scene
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open scene: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse scene %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, &s)
		if err != nil {
			return nil, fmt.Errorf("parse scene %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("parse scene %s: unknown key %s", path, undec[0])
		}
	default:
		return nil, fmt.Errorf("scene %s: unsupported extension %q", path, ext)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the scene in the format chosen by the file extension.
func (s *Scene) Save(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode scene: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	case ".toml":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("save scene: %w", err)
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(s)
	default:
		return fmt.Errorf("scene %s: unsupported extension %q", path, ext)
	}
}

// Validate checks referential integrity and name validity. It does not
// clamp numeric ranges; the engine does that on admission.
func (s *Scene) Validate() error {
	nodes := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
		if nodes[n.ID] {
			return fmt.Errorf("node %q: duplicate id", n.ID)
		}
		nodes[n.ID] = true
		if !flow.V(n.Position[0], n.Position[1], n.Position[2]).IsFinite() {
			return fmt.Errorf("node %q: non-finite position", n.ID)
		}
		if !validColor(n.Color) {
			return fmt.Errorf("node %q: bad color %q", n.ID, n.Color)
		}
		if o := n.Orbit; o != nil {
			if o.Radius < 0 || !flow.V(o.Radius, o.Speed, o.Phase).IsFinite() {
				return fmt.Errorf("node %q: bad orbit", n.ID)
			}
		}
	}

	links := make(map[string]bool, len(s.Links))
	for i, l := range s.Links {
		name := l.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if l.ID != "" {
			if links[l.ID] {
				return fmt.Errorf("link %q: duplicate id", l.ID)
			}
			links[l.ID] = true
		}
		if !nodes[l.From] {
			return fmt.Errorf("link %s: unknown from node %q", name, l.From)
		}
		if !nodes[l.To] {
			return fmt.Errorf("link %s: unknown to node %q", name, l.To)
		}
		if _, ok := flow.ParseStyle(l.Style); !ok && l.Style != "" {
			return fmt.Errorf("link %s: unknown style %q", name, l.Style)
		}
		if !validColor(l.Color) {
			return fmt.Errorf("link %s: bad color %q", name, l.Color)
		}
		if c := l.Curve; c != nil {
			if _, ok := flow.ParseCurveMode(c.Mode); !ok && c.Mode != "" {
				return fmt.Errorf("link %s: unknown curve mode %q", name, c.Mode)
			}
		}
		if p := l.Particles; p != nil {
			if _, ok := flow.ParseMarkerShape(p.Shape); !ok && p.Shape != "" {
				return fmt.Errorf("link %s: unknown marker shape %q", name, p.Shape)
			}
		}
		if ic := l.Icons; ic != nil && !validColor(ic.Color) {
			return fmt.Errorf("link %s: bad icon color %q", name, ic.Color)
		}
		if tb := l.Tube; tb != nil && !validColor(tb.Color) {
			return fmt.Errorf("link %s: bad tube color %q", name, tb.Color)
		}
	}
	return nil
}

// validColor accepts the empty string and the hex forms #RGB, #RGBA,
// #RRGGBB and #RRGGBBAA, with or without the leading hash.
func validColor(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
		if !ok {
			return false
		}
	}
	return true
}
