package layout

import (
	"fmt"
	"testing"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

func box(id string, x, y float64) mindmap.Node {
	return mindmap.Node{ID: id, X: x, Y: y, Width: mindmap.NodeWidth, Height: mindmap.MinNodeHeight, ChildrenIDs: []string{}}
}

func TestPolicy_PlaceChildVertical(t *testing.T) {
	parent := box("p", 0, 0)
	p := &Policy{Orientation: mindmap.Vertical}

	x, y := p.PlaceChild(parent, 0, []mindmap.Node{parent})
	if x != 200 || y != 220 {
		t.Errorf("first child: got (%v, %v)", x, y)
	}
	x, y = p.PlaceChild(parent, 1, []mindmap.Node{parent})
	if x != -200 || y != 220 {
		t.Errorf("second child: got (%v, %v)", x, y)
	}
}

func TestPolicy_PlaceChildHorizontal(t *testing.T) {
	parent := box("p", 0, 0)
	p := &Policy{Orientation: mindmap.Horizontal}

	x, y := p.PlaceChild(parent, 0, []mindmap.Node{parent})
	if x != 620 || y != 420 {
		t.Errorf("first child: got (%v, %v)", x, y)
	}
	x, y = p.PlaceChild(parent, 1, []mindmap.Node{parent})
	if x != 620 || y != 20 {
		t.Errorf("second child: got (%v, %v)", x, y)
	}
}

func TestPolicy_PlaceChildPushesPastOverlaps(t *testing.T) {
	parent := box("p", 0, 0)
	blocker := box("b", 200, 220)
	p := &Policy{Orientation: mindmap.Vertical}

	_, y := p.PlaceChild(parent, 0, []mindmap.Node{parent, blocker})
	if y != 340 {
		t.Errorf("y: got %v, want 340", y)
	}
	if Overlaps(Rect{200, y, mindmap.NodeWidth, mindmap.MinNodeHeight}, NodeRect(blocker)) {
		t.Error("placed child still overlaps the blocker")
	}
}

func TestPolicy_PlaceChildUsesParentHeight(t *testing.T) {
	parent := box("p", 0, 0)
	parent.Height = 180
	p := &Policy{}
	_, y := p.PlaceChild(parent, 0, []mindmap.Node{parent})
	if y != 300 {
		t.Errorf("y: got %v", y)
	}
}

func TestExpansionChild(t *testing.T) {
	parent := box("p", 100, 100)
	tests := []struct {
		o     mindmap.Orientation
		index int
		x, y  float64
	}{
		{mindmap.Vertical, 0, 300, 320},
		{mindmap.Vertical, 1, -300, 320},
		{mindmap.Horizontal, 0, 500, 300},
		{mindmap.Horizontal, 1, 500, -300},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%d", tc.o, tc.index), func(t *testing.T) {
			x, y := ExpansionChild(Context{Parent: parent, SiblingIndex: tc.index, Orientation: tc.o})
			if x != tc.x || y != tc.y {
				t.Errorf("got (%v, %v), want (%v, %v)", x, y, tc.x, tc.y)
			}
		})
	}
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func TestImportTree(t *testing.T) {
	idea := mindmap.Idea{
		Text: "Root",
		Children: []mindmap.Idea{
			{Text: "A", Type: mindmap.Action, Children: []mindmap.Idea{{Text: "A1"}}},
			{Text: "B", Type: mindmap.Problem},
		},
	}
	nodes := ImportTree(idea, 0, 120, mindmap.Vertical, seqIDs())
	if len(nodes) != 4 {
		t.Fatalf("nodes: got %d", len(nodes))
	}
	if err := mindmap.Validate(nodes); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	byText := map[string]mindmap.Node{}
	for _, n := range nodes {
		byText[n.Text] = n
	}
	root := byText["Root"]
	if !root.IsRoot() || root.X != 0 || root.Y != 120 {
		t.Errorf("root: %+v", root)
	}
	// spread 540 at level 0: offsets -270 and +270.
	if a := byText["A"]; a.X != -270 || a.Y != 340 || a.Color != mindmap.Action.DefaultColor() {
		t.Errorf("A: %+v", a)
	}
	if b := byText["B"]; b.X != 270 || b.Y != 340 {
		t.Errorf("B: %+v", b)
	}
	// single child sits straight below its parent.
	if a1 := byText["A1"]; a1.X != -270 || a1.Y != 560 || a1.ParentID != byText["A"].ID {
		t.Errorf("A1: %+v", a1)
	}
}

func TestImportTree_Horizontal(t *testing.T) {
	idea := mindmap.Idea{Text: "Root", Children: []mindmap.Idea{{Text: "A"}, {Text: "B"}}}
	nodes := ImportTree(idea, 0, 0, mindmap.Horizontal, seqIDs())
	if nodes[1].X != 360 || nodes[1].Y != -165 {
		t.Errorf("A: got (%v, %v)", nodes[1].X, nodes[1].Y)
	}
	if nodes[2].X != 360 || nodes[2].Y != 165 {
		t.Errorf("B: got (%v, %v)", nodes[2].X, nodes[2].Y)
	}
}

func TestImportTree_ClipsFanout(t *testing.T) {
	idea := mindmap.Idea{Text: "Root", Children: []mindmap.Idea{{Text: "A"}, {Text: "B"}, {Text: "C"}}}
	nodes := ImportTree(idea, 0, 0, mindmap.Vertical, seqIDs())
	if len(nodes) != 3 {
		t.Fatalf("nodes: got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Text == "C" {
			t.Error("third child should have been dropped")
		}
	}
	if err := mindmap.Validate(nodes); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestTreeOrigin(t *testing.T) {
	x, y := TreeOrigin(1000)
	if x != 370 || y != 120 {
		t.Errorf("got (%v, %v)", x, y)
	}
}

func TestOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"same", a, true},
		{"inside", Rect{2, 2, 2, 2}, true},
		{"shared edge", Rect{10, 0, 10, 10}, false},
		{"below", Rect{0, 10, 10, 10}, false},
		{"apart", Rect{50, 50, 1, 1}, false},
		{"corner", Rect{9, 9, 10, 10}, true},
	}
	for _, tc := range tests {
		if got := Overlaps(a, tc.b); got != tc.want {
			t.Errorf("%s: got %v", tc.name, got)
		}
	}
}
