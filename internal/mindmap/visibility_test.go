package mindmap

import "testing"

func ids(nodes []Node) map[string]bool {
	m := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		m[n.ID] = true
	}
	return m
}

// tree: root -> a -> (a1, a2), root -> b -> b1
func sampleTree() []Node {
	return []Node{
		{ID: "root", ChildrenIDs: []string{"a", "b"}},
		{ID: "a", ParentID: "root", ChildrenIDs: []string{"a1", "a2"}},
		{ID: "b", ParentID: "root", ChildrenIDs: []string{"b1"}},
		{ID: "a1", ParentID: "a"},
		{ID: "a2", ParentID: "a"},
		{ID: "b1", ParentID: "b"},
	}
}

func TestVisible_allExpanded(t *testing.T) {
	got := Visible(sampleTree())
	if len(got) != 6 {
		t.Errorf("got %d visible, want 6", len(got))
	}
}

func TestVisible_collapsedRootHidesEverythingElse(t *testing.T) {
	nodes := sampleTree()
	nodes[0].IsCollapsed = true
	got := ids(Visible(nodes))
	if len(got) != 1 || !got["root"] {
		t.Errorf("got %v", got)
	}
}

func TestVisible_collapsedMidNodeHidesOnlyItsDescendants(t *testing.T) {
	nodes := sampleTree()
	nodes[1].IsCollapsed = true // a
	got := ids(Visible(nodes))
	for _, id := range []string{"root", "a", "b", "b1"} {
		if !got[id] {
			t.Errorf("%s should be visible", id)
		}
	}
	for _, id := range []string{"a1", "a2"} {
		if got[id] {
			t.Errorf("%s should be hidden", id)
		}
	}
}

func TestVisible_brokenParentFailsClosed(t *testing.T) {
	nodes := append(sampleTree(), Node{ID: "orphan", ParentID: "gone"}, Node{ID: "orphan-kid", ParentID: "orphan"})
	got := ids(Visible(nodes))
	if got["orphan"] || got["orphan-kid"] {
		t.Errorf("orphans should be hidden: %v", got)
	}
	if len(got) != 6 {
		t.Errorf("got %d visible", len(got))
	}
}

func TestResolver_cycleDoesNotHang(t *testing.T) {
	nodes := []Node{
		{ID: "root"},
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}
	r := NewResolver(nodes)
	if r.IsVisible("x") || r.IsVisible("y") {
		t.Error("cyclic nodes should be hidden")
	}
	if !r.IsVisible("root") {
		t.Error("root should be visible")
	}
}

func TestVisible_deepChain(t *testing.T) {
	const depth = 5000
	nodes := []Node{{ID: "n0"}}
	for i := 1; i < depth; i++ {
		nodes = append(nodes, Node{ID: nodeName(i), ParentID: nodeName(i - 1)})
	}
	if got := len(Visible(nodes)); got != depth {
		t.Errorf("got %d visible, want %d", got, depth)
	}
}

func nodeName(i int) string {
	if i == 0 {
		return "n0"
	}
	b := []byte{}
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	return "n" + string(b)
}
