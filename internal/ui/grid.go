package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one terminal character with its colours. Empty colour strings
// mean the terminal default.
type cell struct {
	r    rune
	fg   string
	bg   string
	bold bool
}

// grid is an off-screen character buffer the canvas is painted into before
// it is turned into styled text.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int, bg string) *grid {
	w, h = max(w, 0), max(h, 0)
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i] = cell{r: ' ', bg: bg}
	}
	return g
}

func (g *grid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

func (g *grid) at(x, y int) cell {
	if !g.in(x, y) {
		return cell{}
	}
	return g.cells[y*g.w+x]
}

// set writes a rune and foreground, keeping the cell's background.
func (g *grid) set(x, y int, r rune, fg string) {
	if !g.in(x, y) {
		return
	}
	c := &g.cells[y*g.w+x]
	c.r, c.fg, c.bold = r, fg, false
}

// fill paints a rectangle with blanks on bg.
func (g *grid) fill(x, y, w, h int, bg string) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if g.in(col, row) {
				g.cells[row*g.w+col] = cell{r: ' ', bg: bg}
			}
		}
	}
}

// text writes s from (x, y), clipped to maxW columns.
func (g *grid) text(x, y int, s, fg string, bold bool, maxW int) {
	col := 0
	for _, r := range s {
		if col >= maxW {
			return
		}
		if g.in(x+col, y) {
			c := &g.cells[y*g.w+x+col]
			c.r, c.fg, c.bold = r, fg, bold
		}
		col++
	}
}

// plain returns the buffer without any styling, one line per row.
func (g *grid) plain() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.w; x++ {
			b.WriteRune(g.cells[y*g.w+x].r)
		}
	}
	return b.String()
}

type styleKey struct {
	fg, bg string
	bold   bool
}

// render turns the buffer into styled lines. Runs of cells sharing a style
// are rendered together.
func (g *grid) render() string {
	cache := make(map[styleKey]lipgloss.Style)
	styleFor := func(k styleKey) lipgloss.Style {
		if s, ok := cache[k]; ok {
			return s
		}
		s := lipgloss.NewStyle().Bold(k.bold)
		if k.fg != "" {
			s = s.Foreground(lipgloss.Color(k.fg))
		}
		if k.bg != "" {
			s = s.Background(lipgloss.Color(k.bg))
		}
		cache[k] = s
		return s
	}

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var cur styleKey
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			k := styleKey{c.fg, c.bg, c.bold}
			if x > 0 && k != cur {
				b.WriteString(styleFor(cur).Render(run.String()))
				run.Reset()
			}
			cur = k
			run.WriteRune(c.r)
		}
		if run.Len() > 0 {
			b.WriteString(styleFor(cur).Render(run.String()))
			run.Reset()
		}
	}
	return b.String()
}
