// Package canvas owns pan, zoom and drag state and the mapping between
// screen space (pointer events) and world space (stored node positions).
package canvas

import (
	"fmt"
	"math"
)

const (
	MinZoom = 0.15
	MaxZoom = 3.0

	// WheelFactor converts wheel delta to a zoom step.
	WheelFactor = 0.001
)

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// State is the active transform: world = (screen - Offset) / Zoom.
type State struct {
	Offset Point
	Zoom   float64
}

func DefaultState() State {
	return State{Zoom: 1}
}

func (s State) ScreenToWorld(p Point) Point {
	return Point{(p.X - s.Offset.X) / s.Zoom, (p.Y - s.Offset.Y) / s.Zoom}
}

func (s State) WorldToScreen(p Point) Point {
	return Point{p.X*s.Zoom + s.Offset.X, p.Y*s.Zoom + s.Offset.Y}
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Mode is the interaction currently in progress.
type Mode int

const (
	Idle Mode = iota
	Panning
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
