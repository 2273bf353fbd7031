package canvas

// NodeMover is the slice of the node store the engine needs while dragging.
type NodeMover interface {
	NodePosition(id string) (x, y float64, ok bool)
	MoveNode(id string, x, y float64) bool
}

// Hit describes what a pointer-down landed on. NodeID is empty for the
// background. Editing is set when the pointer is on the node's active text
// editor, which must not start a drag.
type Hit struct {
	NodeID  string
	Editing bool
}

// Engine is the pointer state machine. Exactly one of panning or dragging
// can be active; node hits win over the background.
type Engine struct {
	state State
	mode  Mode
	nodes NodeMover

	last       Point
	dragNodeID string
	dragOffset Point
}

func NewEngine(nodes NodeMover) *Engine {
	return &Engine{state: DefaultState(), nodes: nodes}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Mode() Mode { return e.mode }

// DraggedID is the node being dragged, or empty.
func (e *Engine) DraggedID() string { return e.dragNodeID }

// SetNodes swaps the store the engine drags nodes in, e.g. after a project load.
func (e *Engine) SetNodes(nodes NodeMover) {
	e.nodes = nodes
	e.endInteraction()
}

// Reset restores the default transform.
func (e *Engine) Reset() {
	e.state = DefaultState()
}

// PointerDown starts a drag when a node was hit and a pan otherwise. A hit
// on an active text editor starts nothing.
func (e *Engine) PointerDown(screen Point, hit Hit) Mode {
	e.endInteraction()
	e.last = screen

	if hit.NodeID != "" {
		if hit.Editing {
			return e.mode
		}
		x, y, ok := e.nodes.NodePosition(hit.NodeID)
		if !ok {
			return e.mode
		}
		world := e.state.ScreenToWorld(screen)
		e.dragNodeID = hit.NodeID
		e.dragOffset = Point{world.X - x, world.Y - y}
		e.mode = Dragging
		return e.mode
	}

	e.mode = Panning
	return e.mode
}

// PointerMove pans by the raw screen delta, or writes the dragged node's new
// world position straight into the store.
func (e *Engine) PointerMove(screen Point) {
	delta := screen.Sub(e.last)
	e.last = screen

	switch e.mode {
	case Panning:
		e.state.Offset = e.state.Offset.Add(delta)
	case Dragging:
		world := e.state.ScreenToWorld(screen)
		pos := world.Sub(e.dragOffset)
		if !e.nodes.MoveNode(e.dragNodeID, pos.X, pos.Y) {
			// The node vanished mid-drag.
			e.endInteraction()
		}
	case Idle:
	}
}

func (e *Engine) PointerUp() {
	e.endInteraction()
}

func (e *Engine) PointerLeave() {
	e.endInteraction()
}

func (e *Engine) endInteraction() {
	e.mode = Idle
	e.dragNodeID = ""
	e.dragOffset = Point{}
}

// Wheel zooms around the canvas origin. Negative deltaY zooms in.
func (e *Engine) Wheel(deltaY float64) {
	e.state.Zoom = clampZoom(e.state.Zoom - deltaY*WheelFactor)
}

// PanBy shifts the view by a screen-space delta.
func (e *Engine) PanBy(dx, dy float64) {
	e.state.Offset = e.state.Offset.Add(Point{dx, dy})
}

// ZoomBy adds step to the zoom factor, clamped.
func (e *Engine) ZoomBy(step float64) {
	e.state.Zoom = clampZoom(e.state.Zoom + step)
}

// CenterOn pans so that the world point lands in the middle of a viewport of
// the given screen size. Zoom is unchanged.
func (e *Engine) CenterOn(world Point, viewportW, viewportH float64) {
	e.state.Offset = Point{
		X: viewportW/2 - world.X*e.state.Zoom,
		Y: viewportH/2 - world.Y*e.state.Zoom,
	}
}
