// Package layout decides where new nodes go on the canvas and how
// parent-child connectors are drawn.
package layout

import (
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

const (
	// ChildGap is the vertical gap between a parent's bottom edge and a new child.
	ChildGap = 120.0
	// SiblingShift is the sideways offset used to alternate siblings.
	SiblingShift = 200.0
	// CollisionStep is how far a manually added child is pushed per overlap.
	CollisionStep = 120.0
	// ExpansionGap separates a horizontally expanded child from its parent.
	ExpansionGap = 140.0
	// TopMargin is the world y of an imported tree's root.
	TopMargin = 120.0

	spreadFactor = 1.5
	// maxCollisionSteps bounds the overlap search on pathological canvases.
	maxCollisionSteps = 10000
)

// Context is what every placement rule sees about the spot being filled.
type Context struct {
	Parent       mindmap.Node
	SiblingIndex int
	SiblingCount int
	Level        int
	Orientation  mindmap.Orientation
}

// Policy places manually added children. It implements mindmap.Placer.
type Policy struct {
	Orientation mindmap.Orientation
}

// PlaceChild alternates siblings either side of the parent and then pushes
// the candidate down until it clears every existing node.
func (p *Policy) PlaceChild(parent mindmap.Node, siblingIndex int, nodes []mindmap.Node) (float64, float64) {
	x := parent.X
	y := parent.Y + parentHeight(parent) + ChildGap
	shift := alternate(siblingIndex, SiblingShift)

	switch p.Orientation {
	case mindmap.Vertical:
		x += shift
	case mindmap.Horizontal:
		x += mindmap.NodeWidth + mindmap.HorizontalSpacing
		y += shift
	}

	for i := 0; i < maxCollisionSteps; i++ {
		if !overlapsAny(Rect{X: x, Y: y, W: mindmap.NodeWidth, H: mindmap.MinNodeHeight}, nodes) {
			break
		}
		y += CollisionStep
	}
	return x, y
}

// ExpansionChild positions the next AI-suggested child. Siblings step
// further out the more there already are; there is no collision search.
func ExpansionChild(c Context) (float64, float64) {
	d := alternate(c.SiblingIndex, float64(c.SiblingIndex+1)*SiblingShift)
	switch c.Orientation {
	case mindmap.Horizontal:
		return c.Parent.X + mindmap.NodeWidth + ExpansionGap, c.Parent.Y + d
	default:
		return c.Parent.X + d, c.Parent.Y + parentHeight(c.Parent) + ChildGap
	}
}

// TreeOrigin is where an imported tree's root goes for a viewport width.
func TreeOrigin(viewportWidth float64) (float64, float64) {
	return viewportWidth/2 - mindmap.NodeWidth/2, TopMargin
}

// ImportChild positions child idx of n siblings at the given depth relative
// to its parent's position. Spread narrows with depth.
func ImportChild(c Context) (float64, float64) {
	spread := spreadFactor * mindmap.HorizontalSpacing
	if c.Orientation == mindmap.Horizontal {
		spread = spreadFactor * mindmap.VerticalSpacing
	}
	offset := (float64(c.SiblingIndex) - float64(c.SiblingCount-1)/2) * (spread / float64(c.Level+1))
	switch c.Orientation {
	case mindmap.Horizontal:
		return c.Parent.X + mindmap.HorizontalSpacing, c.Parent.Y + offset
	default:
		return c.Parent.X + offset, c.Parent.Y + mindmap.VerticalSpacing
	}
}

// ImportTree lays out a whole generated tree depth-first starting at
// (originX, originY) and returns the resulting nodes, root first. Each idea
// keeps at most mindmap.MaxChildren children. newID allocates node ids.
func ImportTree(root mindmap.Idea, originX, originY float64, o mindmap.Orientation, newID func() string) []mindmap.Node {
	var out []mindmap.Node
	var walk func(idea mindmap.Idea, x, y float64, level int, parentID string) string
	walk = func(idea mindmap.Idea, x, y float64, level int, parentID string) string {
		n := mindmap.Node{
			ID:          newID(),
			Text:        idea.Text,
			Type:        idea.Type,
			Color:       idea.Type.DefaultColor(),
			X:           x,
			Y:           y,
			Width:       mindmap.NodeWidth,
			Height:      mindmap.HeightForText(idea.Text, mindmap.NodeWidth),
			ParentID:    parentID,
			ChildrenIDs: []string{},
		}
		pos := len(out)
		out = append(out, n)

		kids := idea.Children
		if len(kids) > mindmap.MaxChildren {
			kids = kids[:mindmap.MaxChildren]
		}
		ids := make([]string, 0, len(kids))
		for i, child := range kids {
			cx, cy := ImportChild(Context{
				Parent:       n,
				SiblingIndex: i,
				SiblingCount: len(kids),
				Level:        level,
				Orientation:  o,
			})
			ids = append(ids, walk(child, cx, cy, level+1, n.ID))
		}
		out[pos].ChildrenIDs = ids
		return n.ID
	}
	walk(root, originX, originY, 0, "")
	return out
}

func alternate(index int, d float64) float64 {
	if index%2 == 0 {
		return d
	}
	return -d
}

func parentHeight(n mindmap.Node) float64 {
	if n.Height <= 0 {
		return mindmap.MinNodeHeight
	}
	return n.Height
}
