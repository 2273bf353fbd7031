package mindmap

// Visible returns the nodes that should be drawn, in collection order. The
// root is always visible; any other node is visible only when its parent is
// visible and expanded. A parent id that resolves to nothing hides the node.
func Visible(nodes []Node) []Node {
	r := NewResolver(nodes)
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if r.IsVisible(n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// Resolver answers visibility questions against one snapshot. It memoises
// per id so a full pass costs O(n) after the first walk up each branch.
type Resolver struct {
	byID map[string]Node
	memo map[string]bool
}

func NewResolver(nodes []Node) *Resolver {
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return &Resolver{byID: byID, memo: make(map[string]bool, len(nodes))}
}

// IsVisible walks the ancestor chain iteratively.
func (r *Resolver) IsVisible(id string) bool {
	if v, ok := r.memo[id]; ok {
		return v
	}

	var chain []string
	visible := false
	cur := id
	for steps := 0; ; steps++ {
		if v, ok := r.memo[cur]; ok {
			visible = v
			break
		}
		n, ok := r.byID[cur]
		if !ok {
			break
		}
		chain = append(chain, cur)
		if n.IsRoot() {
			visible = true
			break
		}
		parent, ok := r.byID[n.ParentID]
		if !ok || parent.IsCollapsed {
			break
		}
		// A cycle in parent links never reaches a root.
		if steps > len(r.byID) {
			break
		}
		cur = parent.ID
	}

	// Everything on a chain that ended at a collapsed or missing parent is
	// hidden; a chain that reached a visible ancestor is visible throughout.
	for _, c := range chain {
		r.memo[c] = visible
	}
	if len(chain) == 0 {
		r.memo[id] = visible
	}
	return visible
}
