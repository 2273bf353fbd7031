package templates

import (
	"strings"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

const Blank = "blank"

// Names returns all available template names.
var Names = []string{Blank, "problem", "plan", "brainstorm"}

var trees = map[string]mindmap.Idea{
	Blank: {Text: "Start Your Journey", Type: mindmap.Concept},

	"problem": {
		Text: "{{title}}",
		Type: mindmap.Problem,
		Children: []mindmap.Idea{
			{Text: "Root cause", Type: mindmap.Concept, Children: []mindmap.Idea{
				{Text: "Evidence", Type: mindmap.Concept},
			}},
			{Text: "Proposed fix", Type: mindmap.Solution, Children: []mindmap.Idea{
				{Text: "First step", Type: mindmap.Action},
				{Text: "Risks", Type: mindmap.Problem},
			}},
		},
	},

	"plan": {
		Text: "{{title}}",
		Type: mindmap.Concept,
		Children: []mindmap.Idea{
			{Text: "Now", Type: mindmap.Action, Children: []mindmap.Idea{
				{Text: "Next action", Type: mindmap.Action},
			}},
			{Text: "Later", Type: mindmap.Action, Children: []mindmap.Idea{
				{Text: "Blockers", Type: mindmap.Problem},
			}},
		},
	},

	"brainstorm": {
		Text: "{{title}}",
		Type: mindmap.Concept,
		Children: []mindmap.Idea{
			{Text: "Keep", Type: mindmap.Solution},
			{Text: "Discard", Type: mindmap.Problem},
		},
	},
}

// Get returns the starter tree for name with {{title}} replaced. Unknown
// names fall back to the blank template.
func Get(name, title string) mindmap.Idea {
	tree, ok := trees[name]
	if !ok {
		tree = trees[Blank]
	}
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	return substitute(tree, title)
}

// IsBlank reports whether name resolves to the blank template.
func IsBlank(name string) bool {
	_, ok := trees[name]
	return !ok || name == Blank
}

func substitute(i mindmap.Idea, title string) mindmap.Idea {
	out := mindmap.Idea{
		Text: strings.ReplaceAll(i.Text, "{{title}}", title),
		Type: i.Type,
	}
	for _, c := range i.Children {
		out.Children = append(out.Children, substitute(c, title))
	}
	return out
}
