package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/yash-srivastava19/canopy/internal/layout"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

const svgMargin = 40.0

// WriteSVG draws the visible part of the canvas with the given design.
func WriteSVG(w io.Writer, doc Document, d mindmap.Design) error {
	visible := mindmap.Visible(doc.Nodes)
	if len(visible) == 0 {
		return ErrEmptyDocument
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range visible {
		r := layout.NodeRect(n)
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}
	width := int(math.Ceil(maxX - minX + 2*svgMargin))
	height := int(math.Ceil(maxY - minY + 2*svgMargin))
	dx, dy := svgMargin-minX, svgMargin-minY

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(doc.ProjectName)
	canvas.Rect(0, 0, width, height, "fill:"+d.BackgroundColor)

	dash := ""
	if d.LineStyle == mindmap.Dashed {
		dash = ";stroke-dasharray:6 4"
	}
	canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f)", dx, dy))
	for _, c := range layout.Edges(visible, doc.Orientation) {
		canvas.Path(c.Path(), fmt.Sprintf("fill:none;stroke:%s;stroke-width:2.5%s", d.LineColor, dash))
	}

	for _, n := range visible {
		drawNodeSVG(canvas, n, d)
	}
	canvas.Gend()
	canvas.End()
	return nil
}

func drawNodeSVG(canvas *svg.SVG, n mindmap.Node, d mindmap.Design) {
	r := layout.NodeRect(n)
	x, y, w, h := int(r.X), int(r.Y), int(r.W), int(r.H)

	canvas.Roundrect(x, y, w, h, 16, 16,
		fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:2", d.SurfaceColor, d.NodeOpacity, n.Color))
	canvas.Rect(x, y, 6, h, "fill:"+n.Color)

	text := fmt.Sprintf("fill:%s;font-size:14px;font-family:system-ui,sans-serif", d.TextColor)
	label := n.SubLabel
	if label == "" {
		label = n.Type.String()
	}
	canvas.Text(x+24, y+24, label, fmt.Sprintf("fill:%s;font-size:10px;font-family:system-ui,sans-serif;text-transform:uppercase", n.Color))
	for i, line := range mindmap.WrapText(n.Text, r.W) {
		canvas.Text(x+24, y+48+i*20, line, text)
	}
	if len(n.ChildrenIDs) > 0 && n.IsCollapsed {
		canvas.Text(x+w-24, y+h-12, fmt.Sprintf("+%d", len(n.ChildrenIDs)), text+";text-anchor:end")
	}
}
