package mindmap

import (
	"math"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Text metrics in world units. A node reserves room for its sub-label and
// padding; the remainder grows one line height per wrapped line.
const (
	charWidth     = 8.0
	lineHeight    = 20.0
	innerPadding  = 24.0
	chromeHeight  = 60.0
	minCharsWidth = 4
)

// CharsPerLine is how many characters fit across a node of the given width.
func CharsPerLine(width float64) int {
	n := int(math.Floor((width - 2*innerPadding) / charWidth))
	if n < minCharsWidth {
		return minCharsWidth
	}
	return n
}

// WrapText wraps text to the node's inner width.
func WrapText(text string, width float64) []string {
	wrapped := wordwrap.String(text, CharsPerLine(width))
	lines := strings.Split(wrapped, "\n")
	// wordwrap leaves overlong words intact; hard-split them.
	limit := CharsPerLine(width)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		r := []rune(l)
		for len(r) > limit {
			out = append(out, string(r[:limit]))
			r = r[limit:]
		}
		out = append(out, string(r))
	}
	return out
}

// HeightForText returns the box height needed to show text, never below
// MinNodeHeight.
func HeightForText(text string, width float64) float64 {
	if width <= 0 {
		width = NodeWidth
	}
	lines := len(WrapText(text, width))
	return ClampHeight(chromeHeight + float64(lines)*lineHeight)
}

// ClampHeight floors h at MinNodeHeight.
func ClampHeight(h float64) float64 {
	return math.Max(MinNodeHeight, h)
}
