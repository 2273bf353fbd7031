package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

// WriteMarkdown renders the tree as a nested bullet outline under a
// heading. Collapsed branches are still written out.
func WriteMarkdown(w io.Writer, doc Document) error {
	var b strings.Builder
	name := doc.ProjectName
	if name == "" {
		name = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	byID := make(map[string]mindmap.Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		byID[n.ID] = n
	}

	type frame struct {
		id    string
		depth int
	}
	var stack []frame
	for i := len(doc.Nodes) - 1; i >= 0; i-- {
		if doc.Nodes[i].IsRoot() {
			stack = append(stack, frame{doc.Nodes[i].ID, 0})
		}
	}
	seen := make(map[string]bool, len(doc.Nodes))
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := byID[f.id]
		if !ok || seen[f.id] {
			continue
		}
		seen[f.id] = true

		fmt.Fprintf(&b, "%s- **%s** _(%s)_", strings.Repeat("  ", f.depth), oneLine(n.Text), n.Type)
		if n.SubLabel != "" {
			fmt.Fprintf(&b, " %s", oneLine(n.SubLabel))
		}
		b.WriteString("\n")

		for i := len(n.ChildrenIDs) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.ChildrenIDs[i], f.depth + 1})
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "…"
	}
	return strings.NewReplacer("*", `\*`, "_", `\_`).Replace(s)
}
