package layout

import (
	"fmt"
	"strings"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

// curveReach is how far the control points pull away from the endpoints.
const curveReach = 60.0

// Curve is a cubic Bézier from Start (on the child) to End (on the parent).
type Curve struct {
	Start, C1, C2, End [2]float64
}

// Connector returns the curve joining child to parent. Vertical layouts run
// from the child's top centre to the parent's bottom centre; horizontal ones
// from the child's left edge to the parent's right edge, both at mid height.
func Connector(child, parent mindmap.Node, o mindmap.Orientation) Curve {
	cr, pr := NodeRect(child), NodeRect(parent)
	switch o {
	case mindmap.Horizontal:
		sx, sy := cr.X, cr.Y+cr.H/2
		ex, ey := pr.X+pr.W, pr.Y+pr.H/2
		return Curve{
			Start: [2]float64{sx, sy},
			C1:    [2]float64{sx - curveReach, sy},
			C2:    [2]float64{ex + curveReach, ey},
			End:   [2]float64{ex, ey},
		}
	default:
		sx, sy := cr.X+cr.W/2, cr.Y
		ex, ey := pr.X+pr.W/2, pr.Y+pr.H
		return Curve{
			Start: [2]float64{sx, sy},
			C1:    [2]float64{sx, sy - curveReach},
			C2:    [2]float64{ex, ey + curveReach},
			End:   [2]float64{ex, ey},
		}
	}
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) (float64, float64) {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return a*c.Start[0] + b*c.C1[0] + cc*c.C2[0] + d*c.End[0],
		a*c.Start[1] + b*c.C1[1] + cc*c.C2[1] + d*c.End[1]
}

// Sample returns n+1 evenly spaced points along the curve, endpoints included.
func (c Curve) Sample(n int) [][2]float64 {
	if n < 1 {
		n = 1
	}
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		x, y := c.At(float64(i) / float64(n))
		pts = append(pts, [2]float64{x, y})
	}
	return pts
}

// Path renders the curve as SVG path data.
func (c Curve) Path() string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s C %s %s, %s %s, %s %s",
		num(c.Start[0]), num(c.Start[1]),
		num(c.C1[0]), num(c.C1[1]),
		num(c.C2[0]), num(c.C2[1]),
		num(c.End[0]), num(c.End[1]))
	return b.String()
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// Edges returns one curve per visible parent-child pair.
func Edges(visible []mindmap.Node, o mindmap.Orientation) []Curve {
	byID := make(map[string]mindmap.Node, len(visible))
	for _, n := range visible {
		byID[n.ID] = n
	}
	var out []Curve
	for _, n := range visible {
		if n.IsRoot() {
			continue
		}
		p, ok := byID[n.ParentID]
		if !ok {
			continue
		}
		out = append(out, Connector(n, p, o))
	}
	return out
}
