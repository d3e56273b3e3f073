package diagram

import (
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/palette"
	"github.com/matzehuels/asttree/pkg/plot"
)

func testDiagram(t *testing.T) *Diagram {
	t.Helper()
	doc := ast.Document{NodesCount: 3, Nodes: []ast.Node{
		{Index: 1, Category: "function", Children: []ast.Node{{Index: 2, Category: "variable"}}},
		{Index: 3, Category: "require"},
	}}
	tree, err := ast.Build(doc, palette.Default())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return New(tree, palette.Default())
}

func TestPositionsAreCopies(t *testing.T) {
	d := testDiagram(t)
	pos, err := d.Positions()
	if err != nil {
		t.Fatalf("Positions() error: %v", err)
	}
	pos[0].Order = 42

	again, _ := d.Positions()
	if again[0].Order != 0 {
		t.Error("mutating Positions() result changed the cached layout")
	}
}

func TestCoordinatesPerOrientation(t *testing.T) {
	d := testDiagram(t)
	v, err := d.Coordinates(plot.Vertical)
	if err != nil {
		t.Fatal(err)
	}
	h, err := d.Coordinates(plot.Horizontal)
	if err != nil {
		t.Fatal(err)
	}
	if v.Orientation != plot.Vertical || h.Orientation != plot.Horizontal {
		t.Errorf("orientations = %q, %q", v.Orientation, h.Orientation)
	}
	for i := range v.Nodes {
		if v.Nodes[i].X != h.Nodes[i].Y || v.Nodes[i].Y != h.Nodes[i].X {
			t.Errorf("node %d not an axis swap: %v vs %v", i, v.Nodes[i], h.Nodes[i])
		}
	}

	v.Nodes[0].X = 99
	again, _ := d.Coordinates(plot.Vertical)
	if again.Nodes[0].X != 0 {
		t.Error("mutating Coordinates() result changed the cache")
	}
}

func TestExport(t *testing.T) {
	d := testDiagram(t)
	l, err := d.Export(plot.Vertical, ExportOptions{})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	if l.Width != DefaultWidth || l.Height != DefaultVerticalHeight {
		t.Errorf("size = %dx%d, want %dx%d", l.Width, l.Height, DefaultWidth, DefaultVerticalHeight)
	}
	if l.LineColor != palette.Default().Line {
		t.Errorf("LineColor = %q", l.LineColor)
	}
	if len(l.Nodes) != 4 || len(l.Edges) != 3 {
		t.Fatalf("got %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}

	root := l.Nodes[0]
	if root.Text != ast.RootLabel || root.Color != palette.Default().Root || root.Depth != 0 {
		t.Errorf("root = %+v", root)
	}
	if n := l.Nodes[2]; n.Text != "(2, variable)" || n.Depth != 2 || n.Category != "variable" {
		t.Errorf("node 2 = %+v", n)
	}

	e := l.Edges[1]
	if e.Parent != 1 || e.Child != 2 {
		t.Errorf("edge 1 = (%d,%d)", e.Parent, e.Child)
	}
	if e.Points[0] != (plot.Point{X: l.Nodes[1].X, Y: l.Nodes[1].Y}) || e.Points[1] != (plot.Point{X: l.Nodes[2].X, Y: l.Nodes[2].Y}) {
		t.Errorf("edge points %v do not match nodes", e.Points)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestExportSizing(t *testing.T) {
	d := testDiagram(t)

	h, _ := d.Export(plot.Horizontal, ExportOptions{})
	if h.Width != DefaultWidth || h.Height != DefaultHeight {
		t.Errorf("horizontal size = %dx%d", h.Width, h.Height)
	}
	if h.Margin.Left != 40 {
		t.Errorf("horizontal margin = %+v", h.Margin)
	}

	custom, _ := d.Export(plot.Vertical, ExportOptions{Width: 300, Height: 200})
	if custom.Width != 300 || custom.Height != 200 {
		t.Errorf("custom size = %dx%d", custom.Width, custom.Height)
	}
}

func TestDiagramConcurrentUse(t *testing.T) {
	d := testDiagram(t)
	want, err := d.Export(plot.Horizontal, ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(o plot.Orientation) {
			defer wg.Done()
			l, err := d.Export(o, ExportOptions{})
			if err != nil {
				t.Error(err)
				return
			}
			if o == plot.Horizontal && !reflect.DeepEqual(l, want) {
				t.Error("concurrent export differs")
			}
		}(plot.Orientations[i%2])
	}
	wg.Wait()
}

func TestMarshalRoundTrip(t *testing.T) {
	l, err := testDiagram(t).Export(plot.Vertical, ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}

	data, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, l)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	l, err := testDiagram(t).Export(plot.Horizontal, ExportOptions{Width: 800})
	if err != nil {
		t.Fatal(err)
	}

	data, err := EncodeMsgpack(l)
	if err != nil {
		t.Fatalf("EncodeMsgpack() error: %v", err)
	}
	got, err := DecodeMsgpack(data)
	if err != nil {
		t.Fatalf("DecodeMsgpack() error: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, l)
	}
}

func TestDecodeMsgpackValidates(t *testing.T) {
	bad := Layout{
		Orientation: plot.Vertical,
		Nodes:       []Node{{Index: 0}},
		Edges:       []Edge{{Parent: 0, Child: 4}},
	}
	data, err := EncodeMsgpack(bad)
	if err != nil {
		t.Fatalf("EncodeMsgpack() error: %v", err)
	}
	if _, err := DecodeMsgpack(data); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("DecodeMsgpack() error = %v, want invalid input", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	l, _ := testDiagram(t).Export(plot.Vertical, ExportOptions{})
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteFile(l, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Error("file round trip mismatch")
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"nodes": [`},
		{"no nodes", `{"orientation": "vertical", "nodes": []}`},
		{"bad orientation", `{"orientation": "diagonal", "nodes": [{"index": 0}]}`},
		{"index mismatch", `{"nodes": [{"index": 1}]}`},
		{"dangling edge", `{"nodes": [{"index": 0}], "edges": [{"parent": 0, "child": 3}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("Unmarshal() should fail")
			}
		})
	}
}

func TestUnmarshalDefaultsOrientation(t *testing.T) {
	l, err := Unmarshal([]byte(`{"nodes": [{"index": 0}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if l.Orientation != plot.Vertical {
		t.Errorf("Orientation = %q, want vertical", l.Orientation)
	}
}

func TestLayoutBounds(t *testing.T) {
	l := Layout{Nodes: []Node{{X: 0, Y: 0}, {X: 2, Y: -1}, {X: 1, Y: 3}}}
	lo, hi := l.Bounds()
	if lo != (plot.Point{X: 0, Y: -1}) || hi != (plot.Point{X: 2, Y: 3}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}
