// Package layers is a file-backed stand-in for a host application's layer
// model: a YAML document listing layers with their transform properties
// and which of them are selected.
package layers

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"anchor-grid/src/atomicfile"
	"anchor-grid/src/transform"
)

var ErrNoSelection = errors.New("no layers selected")

type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Box struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Layer is one entry of the document. Rotation is in degrees and scale in
// percent, as a compositing application shows them.
type Layer struct {
	Name     string         `yaml:"name"`
	Selected bool           `yaml:"selected,omitempty"`
	Bounds   Box            `yaml:"bounds"`
	Anchor   []float64      `yaml:"anchor,flow"`
	Position []float64      `yaml:"position,flow"`
	Scale    []float64      `yaml:"scale,omitempty,flow"`
	Rotation float64        `yaml:"rotation,omitempty"`
	Masks    [][][2]float64 `yaml:"masks,omitempty"`
}

type Document struct {
	Composition Size    `yaml:"composition"`
	Layers      []Layer `yaml:"layers"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layers: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document back with an atomic replace.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode layers: %w", err)
	}
	return atomicfile.WriteFile(path, data, 0)
}

// Selected returns pointers to the selected layers, in document order.
func (d *Document) Selected() []*Layer {
	var out []*Layer
	for i := range d.Layers {
		if d.Layers[i].Selected {
			out = append(out, &d.Layers[i])
		}
	}
	return out
}

// CompFrame is the composition rectangle in its own coordinates.
func (d *Document) CompFrame() transform.Rect {
	return transform.Rect{Width: d.Composition.Width, Height: d.Composition.Height}
}

// Geometry converts the layer to transform inputs. A missing scale means
// 100%.
func (l *Layer) Geometry() (transform.Layer, error) {
	if len(l.Anchor) != 2 {
		return transform.Layer{}, fmt.Errorf("layer %q: anchor needs 2 components, has %d", l.Name, len(l.Anchor))
	}
	if len(l.Position) < 2 || len(l.Position) > 3 {
		return transform.Layer{}, fmt.Errorf("layer %q: position needs 2 or 3 components, has %d", l.Name, len(l.Position))
	}
	scale := transform.Vec2{X: 100, Y: 100}
	switch len(l.Scale) {
	case 0:
	case 2, 3:
		scale = transform.Vec2{X: l.Scale[0], Y: l.Scale[1]}
	default:
		return transform.Layer{}, fmt.Errorf("layer %q: scale needs 2 components, has %d", l.Name, len(l.Scale))
	}
	return transform.Layer{
		Bounds:   transform.Rect{Left: l.Bounds.Left, Top: l.Bounds.Top, Width: l.Bounds.Width, Height: l.Bounds.Height},
		Anchor:   transform.Vec2{X: l.Anchor[0], Y: l.Anchor[1]},
		Position: append([]float64(nil), l.Position...),
		Scale:    scale,
		Rotation: transform.Degrees(l.Rotation),
	}, nil
}

// SetGeometry stores the anchor and position of g back into the layer.
func (l *Layer) SetGeometry(g transform.Layer) {
	l.Anchor = []float64{g.Anchor.X, g.Anchor.Y}
	l.Position = append(l.Position[:0], g.Position...)
}

// MaskPaths returns the mask vertices as transform vectors.
func (l *Layer) MaskPaths() [][]transform.Vec2 {
	paths := make([][]transform.Vec2, 0, len(l.Masks))
	for _, m := range l.Masks {
		path := make([]transform.Vec2, len(m))
		for i, v := range m {
			path[i] = transform.Vec2{X: v[0], Y: v[1]}
		}
		paths = append(paths, path)
	}
	return paths
}
