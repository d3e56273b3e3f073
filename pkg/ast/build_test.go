package ast

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/palette"
)

// scenarioA is a function with one variable child next to a require.
func scenarioA() Document {
	return Document{
		NodesCount: 3,
		Nodes: []Node{
			{Index: 1, Category: "function", Children: []Node{{Index: 2, Category: "variable"}}},
			{Index: 3, Category: "require"},
		},
	}
}

func TestBuildScenarioA(t *testing.T) {
	p := palette.Default()
	tree, err := Build(scenarioA(), p)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	wantEdges := []Edge{{0, 1}, {1, 2}, {0, 3}}
	if got := tree.Edges(); !reflect.DeepEqual(got, wantEdges) {
		t.Errorf("Edges() = %v, want %v", got, wantEdges)
	}

	if c, _ := tree.Color(1); c != p.Categories[palette.CategoryFunction] {
		t.Errorf("Color(1) = %q, want function color", c)
	}
	if c, _ := tree.Color(3); c != p.Categories[palette.CategoryRequire] {
		t.Errorf("Color(3) = %q, want require color", c)
	}
	if s, _ := tree.Text(2); s != "(2, variable)" {
		t.Errorf("Text(2) = %q, want %q", s, "(2, variable)")
	}
	if s, _ := tree.Text(0); s != RootLabel {
		t.Errorf("Text(0) = %q, want %q", s, RootLabel)
	}
	if c, _ := tree.Color(0); c != p.Root {
		t.Errorf("Color(0) = %q, want root tint %q", c, p.Root)
	}
	if tree.Category(2) != "variable" {
		t.Errorf("Category(2) = %q", tree.Category(2))
	}
}

func TestBuildNoGaps(t *testing.T) {
	tree, err := Build(scenarioA(), palette.Default())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if tree.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", tree.EdgeCount())
	}
	for i := 0; i < tree.NodeCount(); i++ {
		if c, ok := tree.Color(i); !ok || c == "" {
			t.Errorf("Color(%d) missing", i)
		}
		if s, ok := tree.Text(i); !ok || s == "" {
			t.Errorf("Text(%d) missing", i)
		}
	}
	if got := len(tree.Colors()); got != 4 {
		t.Errorf("len(Colors()) = %d, want 4", got)
	}
}

func TestBuildSingleLeaf(t *testing.T) {
	tree, err := Build(Document{NodesCount: 1, Nodes: []Node{{Index: 1, Category: "variable"}}}, palette.Default())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tree.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", tree.NodeCount())
	}
	if got := tree.Edges(); !reflect.DeepEqual(got, []Edge{{0, 1}}) {
		t.Errorf("Edges() = %v", got)
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	tree, err := Build(Document{NodesCount: 0, Nodes: []Node{}}, palette.Default())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tree.NodeCount() != 1 || tree.EdgeCount() != 0 {
		t.Errorf("NodeCount=%d EdgeCount=%d, want 1 and 0", tree.NodeCount(), tree.EdgeCount())
	}
}

func TestBuildLeafEquivalence(t *testing.T) {
	absent := Document{NodesCount: 1, Nodes: []Node{{Index: 1, Category: "other"}}}
	empty := Document{NodesCount: 1, Nodes: []Node{{Index: 1, Category: "other", Children: []Node{}}}}

	a, err := Build(absent, palette.Default())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(empty, palette.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("nil and empty children should build identical trees")
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build(scenarioA(), palette.Default())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(scenarioA(), palette.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Edges(), b.Edges()) || !reflect.DeepEqual(a.Colors(), b.Colors()) || !reflect.DeepEqual(a.Texts(), b.Texts()) {
		t.Error("building the same document twice should give identical output")
	}
}

func TestBuildEdgesAreCopies(t *testing.T) {
	tree, err := Build(scenarioA(), palette.Default())
	if err != nil {
		t.Fatal(err)
	}
	edges := tree.Edges()
	edges[0] = Edge{Parent: 9, Child: 9}
	if tree.Edges()[0] != (Edge{0, 1}) {
		t.Error("mutating Edges() result changed the tree")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name       string
		doc        Document
		wantSchema bool
		wantLayout bool
	}{
		{
			name: "count smaller than indices",
			doc: Document{NodesCount: 2, Nodes: []Node{
				{Index: 1, Category: "function"},
				{Index: 2, Category: "variable"},
				{Index: 3, Category: "require"},
			}},
			wantSchema: true,
		},
		{
			name:       "count larger than indices",
			doc:        Document{NodesCount: 3, Nodes: []Node{{Index: 1, Category: "function"}}},
			wantSchema: true,
		},
		{
			name:       "huge count",
			doc:        Document{NodesCount: 1 << 62, Nodes: []Node{{Index: 1, Category: "function"}}},
			wantSchema: true,
		},
		{
			name:       "max int count",
			doc:        Document{NodesCount: math.MaxInt, Nodes: []Node{{Index: 1, Category: "function"}}},
			wantSchema: true,
		},
		{
			name:       "huge count without nodes",
			doc:        Document{NodesCount: math.MaxInt},
			wantSchema: true,
		},
		{
			name:       "index zero",
			doc:        Document{NodesCount: 1, Nodes: []Node{{Index: 0, Category: "function"}}},
			wantSchema: true,
		},
		{
			name:       "negative count",
			doc:        Document{NodesCount: -1},
			wantSchema: true,
		},
		{
			name: "duplicate sibling index",
			doc: Document{NodesCount: 2, Nodes: []Node{
				{Index: 1, Category: "function"},
				{Index: 1, Category: "variable"},
			}},
			wantSchema: true,
		},
		{
			name:       "empty category",
			doc:        Document{NodesCount: 1, Nodes: []Node{{Index: 1}}},
			wantSchema: true,
		},
		{
			name: "child repeats ancestor",
			doc: Document{NodesCount: 2, Nodes: []Node{
				{Index: 1, Category: "function", Children: []Node{
					{Index: 2, Category: "variable", Children: []Node{{Index: 1, Category: "function"}}},
				}},
			}},
			wantLayout: true,
		},
		{
			name: "child repeats itself",
			doc: Document{NodesCount: 1, Nodes: []Node{
				{Index: 1, Category: "function", Children: []Node{{Index: 1, Category: "function"}}},
			}},
			wantLayout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Build(tt.doc, palette.Default())
			if err == nil {
				t.Fatal("Build() should fail")
			}
			if tree != nil {
				t.Error("Build() returned a partial tree")
			}
			if got := errors.IsSchemaError(err); got != tt.wantSchema {
				t.Errorf("IsSchemaError(%v) = %v, want %v", err, got, tt.wantSchema)
			}
			if got := errors.IsLayoutError(err); got != tt.wantLayout {
				t.Errorf("IsLayoutError(%v) = %v, want %v", err, got, tt.wantLayout)
			}
		})
	}
}

func TestBuildInvalidPalette(t *testing.T) {
	_, err := Build(scenarioA(), palette.Palette{})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Build() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(12, "interface"); got != "(12, interface)" {
		t.Errorf("Label() = %q", got)
	}
}
