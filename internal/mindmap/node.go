package mindmap

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	NodeWidth         = 260.0
	MinNodeHeight     = 100.0
	VerticalSpacing   = 220.0
	HorizontalSpacing = 360.0

	// MaxChildren is the fanout limit for every node.
	MaxChildren = 2
)

// NodeType is the semantic category of a node. It decides the default colour.
type NodeType int

const (
	Concept NodeType = iota
	Action
	Problem
	Solution
)

// NodeTypes lists every type in display order.
var NodeTypes = []NodeType{Concept, Action, Problem, Solution}

func (t NodeType) String() string {
	switch t {
	case Concept:
		return "concept"
	case Action:
		return "action"
	case Problem:
		return "problem"
	case Solution:
		return "solution"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// DefaultColor returns the colour a freshly typed node is painted with.
func (t NodeType) DefaultColor() string {
	switch t {
	case Concept:
		return "#38bdf8"
	case Action:
		return "#4ade80"
	case Problem:
		return "#f87171"
	case Solution:
		return "#fbbf24"
	}
	return "#38bdf8"
}

// Next cycles through the types, wrapping after Solution.
func (t NodeType) Next() NodeType {
	return NodeTypes[(int(t)+1)%len(NodeTypes)]
}

func ParseNodeType(s string) (NodeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concept":
		return Concept, nil
	case "action":
		return Action, nil
	case "problem":
		return Problem, nil
	case "solution":
		return Solution, nil
	}
	return Concept, fmt.Errorf("unknown node type %q", s)
}

func (t NodeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *NodeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseNodeType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Orientation is the axis children grow along.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Toggle flips between vertical and horizontal.
func (o Orientation) Toggle() Orientation {
	switch o {
	case Vertical:
		return Horizontal
	case Horizontal:
		return Vertical
	}
	return Vertical
}

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown orientation %q", s)
}

func (o Orientation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Orientation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOrientation(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Node is one box on the canvas. X and Y are the top-left corner in world space.
type Node struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	SubLabel    string   `json:"subLabel,omitempty"`
	Type        NodeType `json:"type"`
	Color       string   `json:"color"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	ParentID    string   `json:"parentId,omitempty"`
	ChildrenIDs []string `json:"childrenIds"`
	IsCollapsed bool     `json:"isCollapsed"`
	Loading     bool     `json:"loading,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// HasChild reports whether id is one of the node's direct children.
func (n Node) HasChild(id string) bool {
	for _, c := range n.ChildrenIDs {
		if c == id {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no slice memory with n.
func (n Node) clone() Node {
	c := n
	c.ChildrenIDs = append([]string(nil), n.ChildrenIDs...)
	if c.ChildrenIDs == nil {
		c.ChildrenIDs = []string{}
	}
	return c
}

// Idea is a generated concept with optional sub-concepts. The generative
// gateway returns these; the placement policy turns them into nodes.
type Idea struct {
	Text     string   `json:"text"`
	Type     NodeType `json:"type"`
	Children []Idea   `json:"children,omitempty"`
}

// UnmarshalJSON accepts unknown types and maps them to Concept, since model
// output is not trusted to stay inside the closed set.
func (i *Idea) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text     string `json:"text"`
		Type     string `json:"type"`
		Children []Idea `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := ParseNodeType(raw.Type)
	if err != nil {
		t = Concept
	}
	i.Text = raw.Text
	i.Type = t
	i.Children = raw.Children
	return nil
}

// Count returns the number of ideas in the tree rooted at i.
func (i Idea) Count() int {
	n := 1
	for _, c := range i.Children {
		n += c.Count()
	}
	return n
}
