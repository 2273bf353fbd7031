package mindmap

import (
	"fmt"
	"strings"
)

// LineStyle is how connectors are stroked.
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
)

func (l LineStyle) String() string {
	switch l {
	case Solid:
		return "solid"
	case Dashed:
		return "dashed"
	}
	return fmt.Sprintf("LineStyle(%d)", int(l))
}

// Design is a named theme. Presets are swapped wholesale; nothing edits one
// in place.
type Design struct {
	Name            string
	BackgroundColor string
	SurfaceColor    string
	TextColor       string
	AccentColor     string
	LineColor       string
	GridColor       string
	NodeOpacity     float64
	LineStyle       LineStyle
}

// Palette is the set of colours a node can be repainted with.
var Palette = []string{
	"#38bdf8", "#4ade80", "#f87171", "#fbbf24", "#a78bfa",
	"#f472b6", "#2dd4bf", "#a3e635", "#fcd34d", "#ffffff",
	"#94a3b8", "#0f172a", "#1e293b", "#334155", "#475569",
}

var presets = []Design{
	{
		Name:            "Snowfall",
		BackgroundColor: "#f8fafc",
		SurfaceColor:    "#ffffff",
		TextColor:       "#0f172a",
		AccentColor:     "#38bdf8",
		LineColor:       "#d4d6d9",
		GridColor:       "#eceef1",
		NodeOpacity:     1,
		LineStyle:       Solid,
	},
	{
		Name:            "Midnight",
		BackgroundColor: "#020617",
		SurfaceColor:    "#0f172a",
		TextColor:       "#f8fafc",
		AccentColor:     "#38bdf8",
		LineColor:       "#3a3f4b",
		GridColor:       "#0b1020",
		NodeOpacity:     0.9,
		LineStyle:       Dashed,
	},
}

// Designs returns a copy of the preset list.
func Designs() []Design {
	return append([]Design(nil), presets...)
}

// DefaultDesign is the first preset.
func DefaultDesign() Design {
	return presets[0]
}

// DesignByName looks a preset up case-insensitively.
func DesignByName(name string) (Design, bool) {
	for _, d := range presets {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Design{}, false
}

// NextDesign returns the preset after current, wrapping around.
func NextDesign(current Design) Design {
	for i, d := range presets {
		if d.Name == current.Name {
			return presets[(i+1)%len(presets)]
		}
	}
	return presets[0]
}

// NextColor returns the palette colour after c, wrapping around.
func NextColor(c string) string {
	for i, p := range Palette {
		if strings.EqualFold(p, c) {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}
