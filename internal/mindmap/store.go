package mindmap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrFanoutLimit      = fmt.Errorf("node already has %d children", MaxChildren)
	ErrCannotDeleteRoot = errors.New("cannot delete root node")
)

// Placer chooses the world position of a new child. siblingIndex is the
// number of children the parent has before the new one is appended.
type Placer interface {
	PlaceChild(parent Node, siblingIndex int, nodes []Node) (x, y float64)
}

// PlacerFunc adapts a function to the Placer interface.
type PlacerFunc func(parent Node, siblingIndex int, nodes []Node) (x, y float64)

func (f PlacerFunc) PlaceChild(parent Node, siblingIndex int, nodes []Node) (float64, float64) {
	return f(parent, siblingIndex, nodes)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Text        *string
	SubLabel    *string
	Type        *NodeType
	Color       *string
	X, Y        *float64
	Height      *float64
	IsCollapsed *bool
	Loading     *bool
}

// Store holds the authoritative node collection of the open project.
//
// Every mutation builds a new slice and swaps it in, so a snapshot handed out
// earlier never changes underneath its reader. Store is not safe for
// concurrent use; it belongs to the UI event loop.
type Store struct {
	nodes  []Node
	index  map[string]int
	placer Placer
	newID  func() string
}

// NewStore returns an empty store that positions manual children with placer.
func NewStore(placer Placer) *Store {
	s := &Store{
		placer: placer,
		newID:  uuid.NewString,
	}
	s.swap(nil)
	return s
}

// DefaultRoot is the node a fresh canvas starts with, centred horizontally in
// a viewport of the given width.
func DefaultRoot(viewportWidth float64) Node {
	return Node{
		ID:          "root",
		Text:        "Start Your Journey",
		SubLabel:    "Root Concept",
		Type:        Concept,
		Color:       Concept.DefaultColor(),
		X:           viewportWidth/2 - NodeWidth/2,
		Y:           120,
		Width:       NodeWidth,
		Height:      MinNodeHeight,
		ChildrenIDs: []string{},
	}
}

func (s *Store) swap(nodes []Node) {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
	}
	s.nodes = nodes
	s.index = idx
}

// Snapshot returns the current collection. Callers must treat it as read-only.
func (s *Store) Snapshot() []Node {
	return s.nodes
}

func (s *Store) Len() int {
	return len(s.nodes)
}

func (s *Store) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Root returns the first node without a parent.
func (s *Store) Root() (Node, bool) {
	for _, n := range s.nodes {
		if n.IsRoot() {
			return n, true
		}
	}
	return Node{}, false
}

// Replace swaps in a whole new collection, as when a project is loaded or a
// generated tree is imported.
func (s *Store) Replace(nodes []Node) {
	next := make([]Node, len(nodes))
	for i, n := range nodes {
		next[i] = n.clone()
	}
	s.swap(next)
}

// AddChild creates a "New Idea" child under parentID at the position chosen
// by the store's Placer. The parent is expanded so the child is visible.
func (s *Store) AddChild(parentID string) (Node, error) {
	parent, ok := s.Node(parentID)
	if !ok {
		return Node{}, fmt.Errorf("add child to %s: %w", parentID, ErrNodeNotFound)
	}
	if len(parent.ChildrenIDs) >= MaxChildren {
		return Node{}, fmt.Errorf("add child to %s: %w", parentID, ErrFanoutLimit)
	}

	var x, y float64
	if s.placer != nil {
		x, y = s.placer.PlaceChild(parent, len(parent.ChildrenIDs), s.nodes)
	}
	child := Node{
		Text:   "New Idea",
		Type:   Concept,
		Color:  Concept.DefaultColor(),
		X:      x,
		Y:      y,
		Width:  NodeWidth,
		Height: MinNodeHeight,
	}
	return s.AppendChild(parentID, child)
}

// AppendChild links child under parentID. A missing ID is allocated; width
// and height default to the standard box. The fanout limit applies.
func (s *Store) AppendChild(parentID string, child Node) (Node, error) {
	pi, ok := s.index[parentID]
	if !ok {
		return Node{}, fmt.Errorf("append child to %s: %w", parentID, ErrNodeNotFound)
	}
	if len(s.nodes[pi].ChildrenIDs) >= MaxChildren {
		return Node{}, fmt.Errorf("append child to %s: %w", parentID, ErrFanoutLimit)
	}

	if child.ID == "" {
		child.ID = s.newID()
	}
	if child.Width <= 0 {
		child.Width = NodeWidth
	}
	child.Height = ClampHeight(child.Height)
	child.ParentID = parentID
	child.ChildrenIDs = []string{}
	child.IsCollapsed = false

	next := make([]Node, len(s.nodes), len(s.nodes)+1)
	copy(next, s.nodes)
	parent := next[pi].clone()
	parent.ChildrenIDs = append(parent.ChildrenIDs, child.ID)
	parent.IsCollapsed = false
	next[pi] = parent
	next = append(next, child)
	s.swap(next)
	return child, nil
}

// Update merges p into the node with the given id. An unknown id is ignored
// and reported through the return value only.
func (s *Store) Update(id string, p Patch) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	n := s.nodes[i].clone()
	if p.Text != nil {
		n.Text = *p.Text
		n.Height = HeightForText(n.Text, n.Width)
	}
	if p.SubLabel != nil {
		n.SubLabel = *p.SubLabel
	}
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Height != nil {
		n.Height = *p.Height
	}
	n.Height = ClampHeight(n.Height)
	if p.IsCollapsed != nil {
		n.IsCollapsed = *p.IsCollapsed
	}
	if p.Loading != nil {
		n.Loading = *p.Loading
	}

	next := make([]Node, len(s.nodes))
	copy(next, s.nodes)
	next[i] = n
	s.swap(next)
	return true
}

func (s *Store) SetText(id, text string) bool {
	return s.Update(id, Patch{Text: &text})
}

func (s *Store) SetSubLabel(id, label string) bool {
	return s.Update(id, Patch{SubLabel: &label})
}

// SetType changes the node's type and repaints it with the type's default colour.
func (s *Store) SetType(id string, t NodeType) bool {
	c := t.DefaultColor()
	return s.Update(id, Patch{Type: &t, Color: &c})
}

func (s *Store) SetColor(id, color string) bool {
	return s.Update(id, Patch{Color: &color})
}

// NodePosition and MoveNode satisfy canvas.NodeMover.
func (s *Store) NodePosition(id string) (float64, float64, bool) {
	n, ok := s.Node(id)
	return n.X, n.Y, ok
}

func (s *Store) MoveNode(id string, x, y float64) bool {
	return s.Update(id, Patch{X: &x, Y: &y})
}

func (s *Store) SetLoading(id string, loading bool) bool {
	return s.Update(id, Patch{Loading: &loading})
}

func (s *Store) ToggleCollapse(id string) bool {
	n, ok := s.Node(id)
	if !ok {
		return false
	}
	collapsed := !n.IsCollapsed
	return s.Update(id, Patch{IsCollapsed: &collapsed})
}

// Delete removes id and its whole subtree, and strips the removed ids from
// every surviving node's children. It returns the removed ids. An unknown id
// removes nothing.
func (s *Store) Delete(id string) ([]string, error) {
	target, ok := s.Node(id)
	if !ok {
		return nil, nil
	}
	if target.IsRoot() {
		return nil, ErrCannotDeleteRoot
	}

	removed := make(map[string]bool)
	var order []string
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if removed[cur] {
			continue
		}
		removed[cur] = true
		order = append(order, cur)
		if n, ok := s.Node(cur); ok {
			stack = append(stack, n.ChildrenIDs...)
		}
	}

	next := make([]Node, 0, len(s.nodes)-len(order))
	for _, n := range s.nodes {
		if removed[n.ID] {
			continue
		}
		stripped := false
		for _, c := range n.ChildrenIDs {
			if removed[c] {
				stripped = true
				break
			}
		}
		if stripped {
			n = n.clone()
			kept := n.ChildrenIDs[:0]
			for _, c := range n.ChildrenIDs {
				if !removed[c] {
					kept = append(kept, c)
				}
			}
			n.ChildrenIDs = kept
		}
		next = append(next, n)
	}
	s.swap(next)
	return order, nil
}

// Descendants returns every id below id, not including id itself.
func (s *Store) Descendants(id string) []string {
	var out []string
	n, ok := s.Node(id)
	if !ok {
		return nil
	}
	stack := append([]string(nil), n.ChildrenIDs...)
	seen := map[string]bool{id: true}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		if c, ok := s.Node(cur); ok {
			stack = append(stack, c.ChildrenIDs...)
		}
	}
	return out
}

// Validate reports structural inconsistencies in the current collection.
func (s *Store) Validate() error {
	return Validate(s.nodes)
}

// Normalize returns a copy of nodes ready to become a canvas. Loading flags
// are cleared, since no request survives a reload. Missing widths and child
// lists get defaults and heights are clamped. A nil slice stays nil.
func Normalize(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Loading = false
		if n.ChildrenIDs == nil {
			n.ChildrenIDs = []string{}
		}
		if n.Width <= 0 {
			n.Width = NodeWidth
		}
		n.Height = ClampHeight(n.Height)
		out[i] = n
	}
	return out
}

// Validate checks that nodes form a single tree whose parent and child edges
// agree. Every problem found is joined into the returned error.
func Validate(nodes []Node) error {
	var errs []error
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byID[n.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate node id %s", n.ID))
		}
		byID[n.ID] = n
	}

	var roots []string
	for _, n := range nodes {
		if n.IsRoot() {
			roots = append(roots, n.ID)
			continue
		}
		p, ok := byID[n.ParentID]
		if !ok {
			errs = append(errs, fmt.Errorf("node %s: parent %s does not exist", n.ID, n.ParentID))
		} else if !p.HasChild(n.ID) {
			errs = append(errs, fmt.Errorf("node %s: parent %s does not list it as a child", n.ID, n.ParentID))
		}
	}
	for _, n := range nodes {
		if len(n.ChildrenIDs) > MaxChildren {
			errs = append(errs, fmt.Errorf("node %s: %d children exceeds fanout %d", n.ID, len(n.ChildrenIDs), MaxChildren))
		}
		for _, c := range n.ChildrenIDs {
			child, ok := byID[c]
			if !ok {
				errs = append(errs, fmt.Errorf("node %s: dangling child %s", n.ID, c))
			} else if child.ParentID != n.ID {
				errs = append(errs, fmt.Errorf("node %s: child %s points at parent %q", n.ID, c, child.ParentID))
			}
		}
	}
	if len(nodes) > 0 && len(roots) != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one root, found %d", len(roots)))
	}

	if len(roots) == 1 {
		seen := map[string]bool{}
		stack := []string{roots[0]}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[cur] {
				errs = append(errs, fmt.Errorf("node %s reached twice", cur))
				continue
			}
			seen[cur] = true
			stack = append(stack, byID[cur].ChildrenIDs...)
		}
		for _, n := range nodes {
			if !seen[n.ID] {
				errs = append(errs, fmt.Errorf("node %s is not reachable from the root", n.ID))
			}
		}
	}
	return errors.Join(errs...)
}
