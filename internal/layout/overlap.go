package layout

import "github.com/yash-srivastava19/canopy/internal/mindmap"

// Rect is an axis-aligned box in world space.
type Rect struct {
	X, Y, W, H float64
}

func NodeRect(n mindmap.Node) Rect {
	h := n.Height
	if h <= 0 {
		h = mindmap.MinNodeHeight
	}
	w := n.Width
	if w <= 0 {
		w = mindmap.NodeWidth
	}
	return Rect{X: n.X, Y: n.Y, W: w, H: h}
}

// Overlaps reports whether a and b intersect. Boxes that only share an edge
// do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X &&
		a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

func overlapsAny(r Rect, nodes []mindmap.Node) bool {
	for _, n := range nodes {
		if Overlaps(r, NodeRect(n)) {
			return true
		}
	}
	return false
}
