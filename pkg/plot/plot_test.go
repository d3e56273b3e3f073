package plot

import (
	"reflect"
	"testing"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/tidy"
)

func sample() (tidy.Positions, []ast.Edge) {
	pos := tidy.Positions{{Depth: 0, Order: 0}, {Depth: 1, Order: -0.5}, {Depth: 2, Order: -0.5}, {Depth: 1, Order: 0.5}}
	edges := []ast.Edge{{Parent: 0, Child: 1}, {Parent: 1, Child: 2}, {Parent: 0, Child: 3}}
	return pos, edges
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"", Vertical, false},
		{"vertical", Vertical, false},
		{"Horizontal", Horizontal, false},
		{" horizontal ", Horizontal, false},
		{"diagonal", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidOrientation) {
				t.Errorf("ParseOrientation(%q) error = %v, want INVALID_ORIENTATION", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseOrientation(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestTransformVertical(t *testing.T) {
	pos, edges := sample()
	c := Transform(pos, edges, Vertical)

	if c.Orientation != Vertical {
		t.Errorf("Orientation = %q", c.Orientation)
	}
	want := []Point{{0, 0}, {1, -0.5}, {2, -0.5}, {1, 0.5}}
	if !reflect.DeepEqual(c.Nodes, want) {
		t.Errorf("Nodes = %v, want %v", c.Nodes, want)
	}

	lo, _ := c.Bounds()
	if c.Nodes[0].X != lo.X {
		t.Errorf("root x = %v, want minimal x %v", c.Nodes[0].X, lo.X)
	}
	if c.Nodes[1].Y >= c.Nodes[3].Y {
		t.Error("siblings should increase along y")
	}
}

func TestTransformHorizontal(t *testing.T) {
	pos, edges := sample()
	c := Transform(pos, edges, Horizontal)

	lo, _ := c.Bounds()
	if c.Nodes[0].Y != lo.Y {
		t.Errorf("root y = %v, want minimal y %v", c.Nodes[0].Y, lo.Y)
	}
	if c.Nodes[1].X >= c.Nodes[3].X {
		t.Error("siblings should increase along x")
	}
}

func TestTransformAxisSwap(t *testing.T) {
	pos, edges := sample()
	v := Transform(pos, edges, Vertical)
	h := Transform(pos, edges, Horizontal)

	for i := range v.Nodes {
		if v.Nodes[i].X != h.Nodes[i].Y || v.Nodes[i].Y != h.Nodes[i].X {
			t.Errorf("node %d: vertical %v is not the swap of horizontal %v", i, v.Nodes[i], h.Nodes[i])
		}
	}
	for i := range v.Segments {
		vs, hs := v.Segments[i], h.Segments[i]
		if vs.From.X != hs.From.Y || vs.To.Y != hs.To.X {
			t.Errorf("segment %d not swapped: %v vs %v", i, vs, hs)
		}
	}
}

func TestTransformSegments(t *testing.T) {
	pos, edges := sample()
	c := Transform(pos, edges, Vertical)

	if len(c.Segments) != len(edges) {
		t.Fatalf("got %d segments, want %d", len(c.Segments), len(edges))
	}
	for i, s := range c.Segments {
		if s.Parent != edges[i].Parent || s.Child != edges[i].Child {
			t.Errorf("segment %d = (%d,%d), want %s", i, s.Parent, s.Child, edges[i])
		}
		if s.From != c.Nodes[s.Parent] || s.To != c.Nodes[s.Child] {
			t.Errorf("segment %d endpoints do not match node coordinates", i)
		}
	}
}

func TestTransformDoesNotMutate(t *testing.T) {
	pos, edges := sample()
	wantPos, wantEdges := pos.Clone(), append([]ast.Edge(nil), edges...)

	_ = Transform(pos, edges, Vertical)
	_ = Transform(pos, edges, Horizontal)

	if !reflect.DeepEqual(pos, wantPos) || !reflect.DeepEqual(edges, wantEdges) {
		t.Error("Transform modified its inputs")
	}
}

func TestTransformUnknownOrientation(t *testing.T) {
	pos, edges := sample()
	got := Transform(pos, edges, "sideways")
	want := Transform(pos, edges, Vertical)
	if !reflect.DeepEqual(got, want) {
		t.Error("unknown orientation should fall back to vertical")
	}
}

func TestTrace(t *testing.T) {
	pos, edges := sample()
	xs, ys := Transform(pos, edges, Vertical).Trace()

	if len(xs) != 9 || len(ys) != 9 {
		t.Fatalf("len = %d, %d; want 9", len(xs), len(ys))
	}
	for i := 2; i < len(xs); i += 3 {
		if xs[i] != nil || ys[i] != nil {
			t.Errorf("entry %d should be a separator", i)
		}
	}
	if *xs[3] != 1 || *ys[3] != -0.5 || *xs[4] != 2 {
		t.Errorf("second segment = (%v,%v)-(%v,%v)", *xs[3], *ys[3], *xs[4], *ys[4])
	}
}

func TestBoundsEmpty(t *testing.T) {
	lo, hi := Coordinates{}.Bounds()
	if lo != (Point{}) || hi != (Point{}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}
