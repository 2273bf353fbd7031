// Package assistant answers simple questions about a mind map without any
// network access.
package assistant

import (
	"fmt"
	"strings"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

const (
	Greeting = "Hello! Ask me about your mind map."

	tooVague = `Please ask more specifically about your mind map. For example, "what is practical implementation?" or "list all concepts".`
	noMatch  = "I can help with questions about your mind map. Try asking about the main topic, concepts, actions, problems, or solutions, or search for specific terms."
)

var (
	explainPrefixes = []string{"explain ", "describe "}
	searchPrefixes  = []string{"what is ", "what are ", "tell me about ", "show me ", "find ", "give me ", "list ", "what's ", "how ", "why "}
	vagueTerms      = map[string]bool{"it": true, "this": true, "that": true, "them": true, "here": true, "there": true}
)

// Message is one line of the conversation.
type Message struct {
	FromUser bool
	Text     string
}

// Assistant keeps a transcript and answers against whatever nodes it is
// handed per question.
type Assistant struct {
	history []Message
}

func New() *Assistant {
	return &Assistant{history: []Message{{Text: Greeting}}}
}

func (a *Assistant) History() []Message {
	return a.history
}

// Ask records the question and the answer and returns the answer. Blank
// questions are ignored.
func (a *Assistant) Ask(question string, nodes []mindmap.Node) (string, bool) {
	if strings.TrimSpace(question) == "" {
		return "", false
	}
	answer := Answer(question, nodes)
	a.history = append(a.history, Message{FromUser: true, Text: question}, Message{Text: answer})
	return answer, true
}

type rule struct {
	keywords []string
	answer   func(q string, nodes []mindmap.Node) string
}

// rules are tried in order; the first whose keyword appears in the
// lower-cased question answers it.
var rules = []rule{
	{[]string{"explain", "describe"}, explain},
	{[]string{"summar"}, summary},
	{[]string{"main", "root", "topic"}, mainTopic},
	{[]string{"concept"}, byType(mindmap.Concept, "Concepts", "concepts")},
	{[]string{"action"}, byType(mindmap.Action, "Actions", "actions")},
	{[]string{"problem"}, byType(mindmap.Problem, "Problems", "problems")},
	{[]string{"solution"}, byType(mindmap.Solution, "Solutions", "solutions")},
	{[]string{"count", "how many"}, count},
	{[]string{"list", "all"}, listAll},
}

// Answer replies to a single question about nodes.
func Answer(question string, nodes []mindmap.Node) string {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(q, k) {
				return r.answer(q, nodes)
			}
		}
	}
	return search(q, nodes)
}

func explain(q string, nodes []mindmap.Node) string {
	term := strings.TrimSpace(trimAnyPrefix(q, explainPrefixes))
	var matches []mindmap.Node
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Text), term) {
			matches = append(matches, n)
		}
	}
	if len(matches) != 1 {
		return "Please specify which node to explain."
	}
	return describe(matches[0], nodes, "Sub-nodes", true)
}

func summary(_ string, nodes []mindmap.Node) string {
	counts := make(map[mindmap.NodeType]int)
	for _, n := range nodes {
		counts[n.Type]++
	}
	return fmt.Sprintf("Mind map summary: Main topic %q. Total %d nodes (%d concepts, %d actions, %d problems, %d solutions).",
		rootText(nodes), len(nodes),
		counts[mindmap.Concept], counts[mindmap.Action], counts[mindmap.Problem], counts[mindmap.Solution])
}

func mainTopic(_ string, nodes []mindmap.Node) string {
	for _, n := range nodes {
		if n.IsRoot() {
			return "The main topic is: " + n.Text
		}
	}
	return "No main topic found."
}

func byType(t mindmap.NodeType, title, plural string) func(string, []mindmap.Node) string {
	return func(_ string, nodes []mindmap.Node) string {
		var texts []string
		for _, n := range nodes {
			if n.Type == t {
				texts = append(texts, n.Text)
			}
		}
		if len(texts) == 0 {
			return "No " + plural + " found."
		}
		return title + ": " + strings.Join(texts, ", ")
	}
}

func count(_ string, nodes []mindmap.Node) string {
	return fmt.Sprintf("There are %d nodes in your mind map.", len(nodes))
}

func listAll(_ string, nodes []mindmap.Node) string {
	return "All nodes: " + labelled(nodes)
}

func search(q string, nodes []mindmap.Node) string {
	term := strings.TrimSpace(trimAnyPrefix(q, searchPrefixes))
	if len(term) < 3 || vagueTerms[term] {
		return tooVague
	}

	var matches []mindmap.Node
	for _, n := range nodes {
		text := strings.ToLower(n.Text)
		first := ""
		if f := strings.Fields(text); len(f) > 0 {
			first = f[0]
		}
		if strings.Contains(text, term) || (first != "" && strings.Contains(term, first)) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return noMatch
	case 1:
		return describe(matches[0], nodes, "Children", false)
	}
	return "Found nodes: " + labelled(matches)
}

func describe(n mindmap.Node, nodes []mindmap.Node, childLabel string, withTypes bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node: %q (%s)", n.Text, n.Type)

	var children []string
	for _, c := range nodes {
		if c.ID == n.ID {
			continue
		}
		if c.ParentID == n.ID {
			if withTypes {
				children = append(children, fmt.Sprintf("%s (%s)", c.Text, c.Type))
			} else {
				children = append(children, c.Text)
			}
		}
		if !n.IsRoot() && c.ID == n.ParentID {
			fmt.Fprintf(&b, ". Parent: %q", c.Text)
		}
	}
	if len(children) > 0 {
		fmt.Fprintf(&b, ". %s: %s", childLabel, strings.Join(children, ", "))
	}
	return b.String()
}

func labelled(nodes []mindmap.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = fmt.Sprintf("%s (%s)", n.Text, n.Type)
	}
	return strings.Join(parts, ", ")
}

func rootText(nodes []mindmap.Node) string {
	for _, n := range nodes {
		if n.IsRoot() && n.Text != "" {
			return n.Text
		}
	}
	return "Untitled"
}

func trimAnyPrefix(s string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimPrefix(s, p)
		}
	}
	return s
}
