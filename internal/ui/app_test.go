package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yash-srivastava19/canopy/internal/ai"
	"github.com/yash-srivastava19/canopy/internal/config"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/projects"
)

func newTestApp(t *testing.T, opts Options) (*App, *projects.Gateway) {
	t.Helper()
	store, err := projects.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	gw := projects.NewGateway(store, nil)
	a := New(config.Default(), gw, ai.NewClient("", ""), opts)
	a.autosaveDelay = time.Millisecond
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, gw
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

func rootOf(t *testing.T, a *App) mindmap.Node {
	t.Helper()
	root, ok := a.session.Store.Root()
	if !ok {
		t.Fatal("no root")
	}
	return root
}

func TestResizeCentresFreshRoot(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	root := rootOf(t, a)
	// 120 columns of 10 units: root centred at 600.
	if root.X != 600-mindmap.NodeWidth/2 || root.Y != 120 {
		t.Errorf("root position: got (%v, %v)", root.X, root.Y)
	}
	if a.selected != root.ID {
		t.Errorf("selection: got %q", a.selected)
	}
}

func TestAddChildNavigateAndDelete(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	root := rootOf(t, a)

	press(a, "a")
	first := a.selected
	if a.session.Store.Len() != 2 || first == root.ID {
		t.Fatalf("add child: len %d, selected %q", a.session.Store.Len(), first)
	}
	press(a, "k", "a")
	second := a.selected
	if second == first {
		t.Fatal("second child not selected")
	}

	press(a, "h")
	if a.selected != first {
		t.Errorf("previous sibling: got %q, want %q", a.selected, first)
	}

	press(a, "k", "a")
	if a.session.Store.Len() != 3 {
		t.Errorf("fanout: got %d nodes", a.session.Store.Len())
	}
	if !a.statusIsError || !strings.Contains(a.statusMsg, "at most 2") {
		t.Errorf("fanout status: got %q", a.statusMsg)
	}

	press(a, "j", "d")
	if a.state != stateConfirmDeleteNode {
		t.Fatalf("state: got %v", a.state)
	}
	press(a, "y")
	if a.session.Store.Len() != 2 {
		t.Errorf("after delete: got %d nodes", a.session.Store.Len())
	}
	if a.selected != root.ID {
		t.Errorf("selection after delete: got %q", a.selected)
	}
}

func TestDeleteRootRefused(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	press(a, "d")
	if a.state != stateCanvas {
		t.Errorf("state: got %v", a.state)
	}
	if a.statusMsg != mindmap.ErrCannotDeleteRoot.Error() {
		t.Errorf("status: got %q", a.statusMsg)
	}
}

func TestEditNodeText(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	press(a, "e")
	if a.state != stateEditNode {
		t.Fatalf("state: got %v", a.state)
	}
	a.editInput.SetValue("Launch plan")
	press(a, "enter")
	if got := rootOf(t, a).Text; got != "Launch plan" {
		t.Errorf("text: got %q", got)
	}

	press(a, "s")
	a.editInput.SetValue("changed")
	press(a, "esc")
	if got := rootOf(t, a).SubLabel; got != "Root Concept" {
		t.Errorf("cancelled edit: got %q", got)
	}
}

func TestCollapseTypeAndColour(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	press(a, "a", "k", " ")
	root := rootOf(t, a)
	if !root.IsCollapsed {
		t.Error("collapse: root not collapsed")
	}
	if got := len(a.session.Visible()); got != 1 {
		t.Errorf("visible after collapse: got %d", got)
	}

	press(a, "t")
	root = rootOf(t, a)
	if root.Type != mindmap.Action || root.Color != mindmap.Action.DefaultColor() {
		t.Errorf("type cycle: got %v %s", root.Type, root.Color)
	}
	press(a, "C")
	if got := rootOf(t, a).Color; got != mindmap.NextColor(mindmap.Action.DefaultColor()) {
		t.Errorf("colour cycle: got %s", got)
	}
}

func TestMouseDragMovesNode(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	// Root spans world (470,120)-(730,220): cells 47..73, rows 6..11,
	// one terminal row lower because of the header.
	a.Update(tea.MouseMsg{X: 50, Y: 7, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if a.session.Canvas.Mode().String() != "dragging" {
		t.Fatalf("mode: got %v", a.session.Canvas.Mode())
	}
	a.Update(tea.MouseMsg{X: 60, Y: 9, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	a.Update(tea.MouseMsg{X: 60, Y: 9, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	root := rootOf(t, a)
	if root.X != 570 || root.Y != 160 {
		t.Errorf("dragged position: got (%v, %v), want (570, 160)", root.X, root.Y)
	}
	if a.session.Canvas.Mode().String() != "idle" {
		t.Errorf("mode after release: got %v", a.session.Canvas.Mode())
	}
}

func TestMousePanAndWheel(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.Update(tea.MouseMsg{X: 5, Y: 30, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	a.Update(tea.MouseMsg{X: 8, Y: 31, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	st := a.session.Canvas.State()
	if st.Offset.X != 30 || st.Offset.Y != 20 {
		t.Errorf("pan offset: got %+v", st.Offset)
	}
	a.Update(tea.BlurMsg{})
	if a.session.Canvas.Mode().String() != "idle" {
		t.Errorf("blur should end the pan, got %v", a.session.Canvas.Mode())
	}

	a.Update(tea.MouseMsg{X: 5, Y: 30, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if z := a.session.Canvas.State().Zoom; z < 1.099 || z > 1.101 {
		t.Errorf("wheel zoom: got %v", z)
	}
}

func TestFeedOpensInitialProject(t *testing.T) {
	a, gw := newTestApp(t, Options{ProjectID: "p1"})
	ctx := context.Background()
	nodes := []mindmap.Node{mindmap.DefaultRoot(800)}
	if _, err := gw.Save(ctx, "p1", "Roadmap", nodes, mindmap.Horizontal); err != nil {
		t.Fatal(err)
	}
	list, err := gw.List(ctx)
	if err != nil {
		t.Fatal(err)
	}

	a.Update(FeedMsg{Projects: list})
	if a.session.ProjectID() != "p1" || a.session.ProjectName() != "Roadmap" {
		t.Errorf("opened: got %q %q", a.session.ProjectID(), a.session.ProjectName())
	}
	if a.session.Orientation() != mindmap.Horizontal {
		t.Errorf("orientation: got %v", a.session.Orientation())
	}
	if len(a.filtered) != 1 {
		t.Errorf("sidebar list: got %d", len(a.filtered))
	}
}

func TestAutosaveDebounce(t *testing.T) {
	a, gw := newTestApp(t, Options{})
	id, err := a.session.NewProject("Plan", "blank")
	if err != nil {
		t.Fatal(err)
	}

	stale := press(a, "a")
	latest := press(a, "k", "a")
	if !a.session.Syncing() {
		t.Error("expected syncing after edits")
	}

	// The first tick belongs to an older generation and saves nothing.
	if _, cmd := a.Update(stale()); cmd != nil {
		t.Error("stale autosave produced a save")
	}

	_, save := a.Update(latest())
	if save == nil {
		t.Fatal("due autosave produced no save")
	}
	a.Update(save())
	if a.session.Syncing() {
		t.Error("still syncing after save")
	}

	p, err := gw.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("saved project: %v", err)
	}
	if p.Name != "Plan" || len(p.Nodes) != 3 {
		t.Errorf("saved: name %q, %d nodes", p.Name, len(p.Nodes))
	}
}

func TestExpandWithoutKeyRevealsFallback(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	root := rootOf(t, a)

	if cmd := press(a, "x"); cmd == nil {
		t.Fatal("expand produced no command")
	}
	if !rootOf(t, a).Loading {
		t.Error("root not loading")
	}
	press(a, "x")
	if !a.statusIsError {
		t.Error("second expand should be refused")
	}

	gen := a.session.CanvasGen()
	a.Update(expandResultMsg{id: root.ID, canvas: gen, ideas: ai.Fallback(), err: ai.ErrUnavailable})
	if !strings.Contains(a.statusMsg, "not configured") {
		t.Errorf("status: got %q", a.statusMsg)
	}
	if rootOf(t, a).Loading {
		t.Error("loading not cleared")
	}
	if got := a.session.Pending(root.ID); got != 2 {
		t.Errorf("queued: got %d, want 2", got)
	}
	for i := 0; i < 3; i++ {
		a.Update(revealMsg{id: root.ID, canvas: gen})
	}
	if got := a.session.Store.Len(); got != 3 {
		t.Errorf("revealed: got %d nodes", got)
	}
	if got := len(rootOf(t, a).ChildrenIDs); got != 2 {
		t.Errorf("children: got %d", got)
	}
}

func TestExpandResultAfterProjectSwitchIsDropped(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.session.NewProject("First", "blank")
	a.selectRoot()
	press(a, "x")
	stale := a.session.CanvasGen()

	a.session.NewProject("Second", "blank")
	a.selectRoot()
	if cmd := a.finishExpand(expandResultMsg{id: "root", canvas: stale, ideas: ai.Fallback()}); cmd != nil {
		t.Error("stale result scheduled reveals")
	}
	a.Update(revealMsg{id: "root", canvas: stale})
	if a.session.Store.Len() != 1 || a.session.Pending("root") != 0 {
		t.Errorf("second project changed: %d nodes, %d queued", a.session.Store.Len(), a.session.Pending("root"))
	}
}

func TestExpandErrorStatus(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	press(a, "x")
	a.Update(expandResultMsg{id: "root", canvas: a.session.CanvasGen(), ideas: ai.Fallback(), err: errors.New("quota exceeded")})
	if strings.Contains(a.statusMsg, "not configured") || !a.statusIsError {
		t.Errorf("status: got %q", a.statusMsg)
	}
	if got := a.session.Pending("root"); got != 2 {
		t.Errorf("fallback still queued: got %d", got)
	}
}

func TestGenerateResult(t *testing.T) {
	a, _ := newTestApp(t, Options{})

	a.Update(generateResultMsg{prompt: "x", err: errors.New("boom")})
	if a.statusMsg != ai.ErrUnavailable.Error() || !a.statusIsError {
		t.Errorf("failure status: got %q", a.statusMsg)
	}

	idea := mindmap.Idea{Text: "Trip", Children: []mindmap.Idea{{Text: "Flights"}, {Text: "Hotels"}}}
	_, cmd := a.Update(generateResultMsg{prompt: "Japan trip", idea: idea})
	if a.session.ProjectID() == "" || a.session.ProjectName() != "Japan trip" {
		t.Errorf("project: got %q %q", a.session.ProjectID(), a.session.ProjectName())
	}
	if a.session.Store.Len() != 3 {
		t.Errorf("nodes: got %d", a.session.Store.Len())
	}
	if cmd == nil {
		t.Error("generated map was not saved")
	}
}

func TestNewProjectDialog(t *testing.T) {
	a, gw := newTestApp(t, Options{})
	press(a, "N", "right")
	if a.state != stateTemplatePicker {
		t.Fatalf("state: got %v", a.state)
	}
	press(a, "enter")
	if a.state != stateProjectName {
		t.Fatalf("state: got %v", a.state)
	}
	a.nameInput.SetValue("Outage")
	cmd := press(a, "enter")
	if a.session.ProjectName() != "Outage" || a.session.ProjectID() == "" {
		t.Fatalf("project: got %q %q", a.session.ProjectName(), a.session.ProjectID())
	}
	if a.session.Store.Len() < 2 {
		t.Errorf("problem template: got %d nodes", a.session.Store.Len())
	}
	if cmd == nil {
		t.Fatal("new project was not saved")
	}
	// tea.Batch wraps the save; run every command it holds.
	runAll(a, cmd)
	if _, err := gw.Get(context.Background(), a.session.ProjectID()); err != nil {
		t.Errorf("saved: %v", err)
	}
}

func runAll(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			runAll(a, c)
		}
	case nil:
	default:
		a.Update(msg)
	}
}

func TestSidebarSearch(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.Update(FeedMsg{Projects: []projects.Project{
		{ID: "1", Name: "Alpha launch"},
		{ID: "2", Name: "Beta plan"},
	}})
	a.runSearch("bpl")
	if len(a.filtered) != 1 || a.filtered[0].ID != "2" {
		t.Errorf("fuzzy: got %+v", a.filtered)
	}
	a.runSearch("")
	if len(a.filtered) != 2 {
		t.Errorf("cleared: got %d", len(a.filtered))
	}
}

func TestProjectDeletedResetsCanvas(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	id, _ := a.session.NewProject("Doomed", "plan")
	a.Update(projectDeletedMsg{id: id, name: "Doomed"})
	if a.session.ProjectID() != "" || a.session.Store.Len() != 1 {
		t.Errorf("after delete: id %q, %d nodes", a.session.ProjectID(), a.session.Store.Len())
	}
}

func TestViewRendersCanvas(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	v := a.View()
	if !strings.Contains(v, "canopy") || !strings.Contains(v, "Journey") {
		t.Errorf("view missing title or root text")
	}
	if got := strings.Count(v, "\n"); got != 39 {
		t.Errorf("view height: got %d lines", got+1)
	}
}
