package layout

import (
	"testing"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

func TestConnector_Vertical(t *testing.T) {
	parent := box("p", 0, 0)
	child := box("c", 200, 220)
	child.ParentID = "p"

	c := Connector(child, parent, mindmap.Vertical)
	if c.Start != [2]float64{330, 220} || c.End != [2]float64{130, 100} {
		t.Errorf("endpoints: %v -> %v", c.Start, c.End)
	}
	if got := c.Path(); got != "M 330 220 C 330 160, 130 160, 130 100" {
		t.Errorf("Path: got %q", got)
	}
}

func TestConnector_Horizontal(t *testing.T) {
	parent := box("p", 0, 0)
	child := box("c", 620, 420)

	c := Connector(child, parent, mindmap.Horizontal)
	if c.Start != [2]float64{620, 470} || c.End != [2]float64{260, 50} {
		t.Errorf("endpoints: %v -> %v", c.Start, c.End)
	}
}

func TestCurve_Sample(t *testing.T) {
	c := Connector(box("c", 0, 300), box("p", 0, 0), mindmap.Vertical)
	pts := c.Sample(4)
	if len(pts) != 5 {
		t.Fatalf("points: got %d", len(pts))
	}
	if pts[0] != c.Start || pts[4] != c.End {
		t.Errorf("endpoints not sampled: %v %v", pts[0], pts[4])
	}
	for i := 1; i < len(pts); i++ {
		if pts[i][1] > pts[i-1][1] {
			t.Errorf("point %d moved away from the parent: %v", i, pts[i])
		}
	}
}

func TestEdges_SkipsHiddenParents(t *testing.T) {
	root := box("r", 0, 0)
	a := box("a", 0, 300)
	a.ParentID = "r"
	orphan := box("o", 0, 600)
	orphan.ParentID = "gone"

	edges := Edges([]mindmap.Node{root, a, orphan}, mindmap.Vertical)
	if len(edges) != 1 {
		t.Errorf("edges: got %d", len(edges))
	}
}
