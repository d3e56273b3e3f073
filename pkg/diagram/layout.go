package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/plot"
)

// =============================================================================
// Layout - Renderer Hand-off Format
// =============================================================================

// Layout is a fully positioned, colored and labeled tree diagram.
//
// Renderers draw two layers from it: the edge lines (non-interactive, in
// LineColor) and one marker per node in the node's color with its Text as
// hover text. Coordinates are in layout units; renderers scale them into the
// Width x Height figure minus Margin.
type Layout struct {
	Orientation plot.Orientation `json:"orientation" msgpack:"orientation"`
	Width       int              `json:"width" msgpack:"width"`
	Height      int              `json:"height" msgpack:"height"`
	Margin      Margin           `json:"margin" msgpack:"margin"`
	LineColor   string           `json:"line_color" msgpack:"line_color"`
	Nodes       []Node           `json:"nodes" msgpack:"nodes"`
	Edges       []Edge           `json:"edges" msgpack:"edges"`
}

// Node is one positioned node. Nodes are stored in index order.
type Node struct {
	Index    int     `json:"index" msgpack:"index"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Depth    int     `json:"depth" msgpack:"depth"`
	Color    string  `json:"color" msgpack:"color"`
	Text     string  `json:"text" msgpack:"text"`
	Category string  `json:"category,omitempty" msgpack:"category,omitempty"`
}

// Edge is one parent → child line.
type Edge struct {
	Parent int           `json:"parent" msgpack:"parent"`
	Child  int           `json:"child" msgpack:"child"`
	Points [2]plot.Point `json:"points" msgpack:"points"`
}

// Margin is the figure padding in pixels.
type Margin struct {
	Top    int `json:"top" msgpack:"top"`
	Right  int `json:"right" msgpack:"right"`
	Bottom int `json:"bottom" msgpack:"bottom"`
	Left   int `json:"left" msgpack:"left"`
}

// Bounds returns the smallest box containing every node.
func (l *Layout) Bounds() (lo, hi plot.Point) {
	for i, n := range l.Nodes {
		if i == 0 {
			lo, hi = plot.Point{X: n.X, Y: n.Y}, plot.Point{X: n.X, Y: n.Y}
			continue
		}
		lo.X, lo.Y = min(lo.X, n.X), min(lo.Y, n.Y)
		hi.X, hi.Y = max(hi.X, n.X), max(hi.Y, n.Y)
	}
	return lo, hi
}

// Validate checks that the layout can be rendered: a known orientation, node
// indices matching their position and edges that reference existing nodes.
func (l *Layout) Validate() error {
	if _, err := plot.ParseOrientation(string(l.Orientation)); err != nil {
		return err
	}
	if len(l.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout has no nodes")
	}
	for i, n := range l.Nodes {
		if n.Index != i {
			return errors.New(errors.ErrCodeInvalidInput, "layout node %d has index %d", i, n.Index)
		}
	}
	for _, e := range l.Edges {
		if e.Parent < 0 || e.Parent >= len(l.Nodes) || e.Child < 0 || e.Child >= len(l.Nodes) {
			return errors.New(errors.ErrCodeInvalidInput, "layout edge (%d,%d) references a missing node", e.Parent, e.Child)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes and validates JSON bytes into a Layout.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}
	if l.Orientation == "" {
		l.Orientation = plot.DefaultOrientation
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// EncodeMsgpack serializes a Layout to MessagePack.
func EncodeMsgpack(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMsgpack deserializes and validates a Layout produced by [EncodeMsgpack].
func DecodeMsgpack(data []byte) (Layout, error) {
	var l Layout
	if err := msgpack.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
