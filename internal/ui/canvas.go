package ui

import (
	"fmt"
	"math"
	"strings"

	reflowtruncate "github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/yash-srivastava19/canopy/internal/canvas"
	"github.com/yash-srivastava19/canopy/internal/layout"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

// One terminal cell covers CellW x CellH screen units. Screen units map to
// world units through the canvas transform, so at zoom 1 a standard node is
// 26 columns by 5 rows.
const (
	CellW = 10.0
	CellH = 20.0

	gridSpacing = 40.0
)

// cellAt maps a screen point to the cell containing it.
func cellAt(p canvas.Point) (int, int) {
	return int(math.Floor(p.X / CellW)), int(math.Floor(p.Y / CellH))
}

// cellCenter maps a cell back to the screen point at its middle.
func cellCenter(col, row int) canvas.Point {
	return canvas.Point{X: (float64(col) + 0.5) * CellW, Y: (float64(row) + 0.5) * CellH}
}

type paintOptions struct {
	design      mindmap.Design
	orientation mindmap.Orientation
	selected    string
	editing     string
	spinner     string
}

// drawOrder is the collection order with the selected node moved last, so it
// is painted on top and wins hit tests.
func drawOrder(visible []mindmap.Node, selected string) []mindmap.Node {
	out := make([]mindmap.Node, 0, len(visible))
	var top *mindmap.Node
	for i := range visible {
		if visible[i].ID == selected {
			top = &visible[i]
			continue
		}
		out = append(out, visible[i])
	}
	if top != nil {
		out = append(out, *top)
	}
	return out
}

// nodeAt returns the topmost visible node under a screen point.
func nodeAt(visible []mindmap.Node, st canvas.State, screen canvas.Point, selected string) (string, bool) {
	world := st.ScreenToWorld(screen)
	order := drawOrder(visible, selected)
	for i := len(order) - 1; i >= 0; i-- {
		if layout.NodeRect(order[i]).Contains(world.X, world.Y) {
			return order[i].ID, true
		}
	}
	return "", false
}

// paintCanvas draws the background grid, the connectors and the node boxes
// of one frame.
func paintCanvas(visible []mindmap.Node, st canvas.State, cols, rows int, opt paintOptions) *grid {
	d := opt.design
	g := newGrid(cols, rows, d.BackgroundColor)

	paintGridDots(g, st, d)
	for _, c := range layout.Edges(visible, opt.orientation) {
		paintCurve(g, c, st, d)
	}
	for _, n := range drawOrder(visible, opt.selected) {
		paintNode(g, n, st, opt)
	}
	return g
}

func paintGridDots(g *grid, st canvas.State, d mindmap.Design) {
	step := gridSpacing * st.Zoom
	if step < 2*CellW {
		return
	}
	origin := st.ScreenToWorld(canvas.Point{})
	startX := math.Ceil(origin.X/gridSpacing) * gridSpacing
	startY := math.Ceil(origin.Y/gridSpacing) * gridSpacing
	for wy := startY; ; wy += gridSpacing {
		sy := st.WorldToScreen(canvas.Point{Y: wy}).Y
		if sy >= float64(g.h)*CellH {
			break
		}
		for wx := startX; ; wx += gridSpacing {
			sx := st.WorldToScreen(canvas.Point{X: wx}).X
			if sx >= float64(g.w)*CellW {
				break
			}
			col, row := cellAt(canvas.Point{X: sx, Y: sy})
			g.set(col, row, '·', d.GridColor)
		}
	}
}

func paintCurve(g *grid, c layout.Curve, st canvas.State, d mindmap.Design) {
	dx := (c.End[0] - c.Start[0]) * st.Zoom / CellW
	dy := (c.End[1] - c.Start[1]) * st.Zoom / CellH
	n := int(math.Hypot(dx, dy) * 2)
	n = min(max(n, 8), 600)

	for i, p := range c.Sample(n) {
		if d.LineStyle == mindmap.Dashed && (i/2)%2 == 1 {
			continue
		}
		col, row := cellAt(st.WorldToScreen(canvas.Point{X: p[0], Y: p[1]}))
		g.set(col, row, '·', d.LineColor)
	}
}

type boxRunes struct {
	tl, tr, bl, br, h, v rune
}

var (
	roundBox = boxRunes{'╭', '╮', '╰', '╯', '─', '│'}
	thickBox = boxRunes{'┏', '┓', '┗', '┛', '━', '┃'}
)

// nodeBox is the cell rectangle a node occupies at the current transform.
func nodeBox(n mindmap.Node, st canvas.State) (x, y, w, h int) {
	r := layout.NodeRect(n)
	x0, y0 := cellAt(st.WorldToScreen(canvas.Point{X: r.X, Y: r.Y}))
	x1, y1 := cellAt(st.WorldToScreen(canvas.Point{X: r.X + r.W, Y: r.Y + r.H}))
	return x0, y0, x1 - x0, y1 - y0
}

func paintNode(g *grid, n mindmap.Node, st canvas.State, opt paintOptions) {
	d := opt.design
	x, y, w, h := nodeBox(n, st)
	if w < 6 || h < 3 {
		g.set(x, y, '●', n.Color)
		return
	}

	border := roundBox
	borderColor := n.Color
	if n.ID == opt.selected {
		border = thickBox
	}
	if n.ID == opt.editing {
		borderColor = d.AccentColor
	}

	g.fill(x, y, w, h, d.SurfaceColor)
	g.set(x, y, border.tl, borderColor)
	g.set(x+w-1, y, border.tr, borderColor)
	g.set(x, y+h-1, border.bl, borderColor)
	g.set(x+w-1, y+h-1, border.br, borderColor)
	for col := x + 1; col < x+w-1; col++ {
		g.set(col, y, border.h, borderColor)
		g.set(col, y+h-1, border.h, borderColor)
	}
	for row := y + 1; row < y+h-1; row++ {
		g.set(x, row, border.v, borderColor)
		g.set(x+w-1, row, border.v, borderColor)
	}

	inner := w - 4
	label := strings.ToUpper(n.Type.String())
	g.text(x+2, y+1, reflowtruncate.StringWithTail(label, uint(inner), "…"), n.Color, true, inner)
	if n.SubLabel != "" && len(label)+3 < inner {
		sub := reflowtruncate.StringWithTail(n.SubLabel, uint(inner-len(label)-3), "…")
		g.text(x+2+len(label)+1, y+1, "· "+sub, d.LineColor, false, inner-len(label)-1)
	}

	lines := strings.Split(wordwrap.String(n.Text, inner), "\n")
	room := h - 3
	if n.Loading {
		room--
	}
	for i, l := range lines {
		if i >= room {
			break
		}
		if i == room-1 && len(lines) > room {
			l = reflowtruncate.StringWithTail(l+" …", uint(inner), "…")
		}
		g.text(x+2, y+2+i, reflowtruncate.StringWithTail(l, uint(inner), "…"), d.TextColor, i == 0, inner)
	}

	if n.Loading {
		g.text(x+2, y+h-2, opt.spinner+" thinking…", d.AccentColor, false, inner)
	}
	if n.IsCollapsed && len(n.ChildrenIDs) > 0 {
		tag := fmt.Sprintf(" +%d ", len(n.ChildrenIDs))
		g.text(x+w-1-len(tag)-1, y+h-1, tag, n.Color, true, len(tag))
	}
	if n.ID == opt.editing {
		g.text(x+w-4, y, " ✎ ", d.AccentColor, true, 3)
	}
}
