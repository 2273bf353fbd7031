package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yash-srivastava19/canopy/internal/ai"
	"github.com/yash-srivastava19/canopy/internal/assistant"
	"github.com/yash-srivastava19/canopy/internal/config"
	"github.com/yash-srivastava19/canopy/internal/editor"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/projects"
	"github.com/yash-srivastava19/canopy/internal/templates"
)

type appState int

const (
	stateCanvas appState = iota
	stateEditNode
	stateConfirmDeleteNode
	stateSidebar
	stateSearch
	stateTemplatePicker
	stateProjectName
	stateGenerate
	stateConfirmDeleteProject
	stateOutline
	stateAssistant
	stateHelp
)

// nameDialog says what the project name prompt is for.
type nameDialog int

const (
	dialogNew nameDialog = iota
	dialogSaveAs
	dialogRename
)

type editField int

const (
	fieldText editField = iota
	fieldSubLabel
)

const (
	sidebarWidth   = 32
	gatewayTimeout = 15 * time.Second
)

// ── Messages ──────────────────────────────────────────────────────────────────

// FeedMsg carries a project list from the gateway subscription. The caller
// forwards subscription callbacks with Program.Send.
type FeedMsg struct {
	Projects []projects.Project
}

type autosaveMsg struct {
	gen       uint64
	projectID string
}

type saveResultMsg struct {
	gen uint64
	err error
}

// expandResultMsg and revealMsg carry the canvas generation they were
// issued under; a replaced canvas ignores them.
type expandResultMsg struct {
	id     string
	canvas uint64
	ideas  []mindmap.Idea
	err    error
}

type revealMsg struct {
	id     string
	canvas uint64
}

type generateResultMsg struct {
	prompt string
	idea   mindmap.Idea
	err    error
}

type projectDeletedMsg struct {
	id, name string
	err      error
}

type projectRenamedMsg struct {
	id, name string
	err      error
}

type clipboardMsg struct {
	what string
	err  error
}

// Options tune how the editor starts.
type Options struct {
	// ProjectID is opened as soon as the feed delivers it.
	ProjectID string
}

// ── App struct ────────────────────────────────────────────────────────────────

// App is the main Bubble Tea model.
type App struct {
	cfg       *config.Config
	gw        *projects.Gateway
	ai        *ai.Client
	assistant *assistant.Assistant
	session   *editor.Session
	opts      Options

	state     appState
	prevState appState
	width     int
	height    int
	sized     bool

	// Canvas
	selected  string
	dragMoved bool

	// Node editing
	editInput textinput.Model
	editField editField
	editingID string

	deleteNodeID string

	// Sidebar
	sidebarOpen bool
	searchInput textinput.Model
	searchQuery string
	filtered    []projects.Project
	cursor      int

	// Project dialogs
	nameInput      textinput.Model
	nameDialog     nameDialog
	renameTarget   string
	templateCursor int
	template       string
	deleteProject  *projects.Project

	// AI
	promptInput textinput.Model
	generating  bool
	spinner     spinner.Model
	spinning    bool

	// Panels
	outline        viewport.Model
	outlineText    string
	assistantInput textinput.Model

	autosaveDelay time.Duration

	// Status
	statusMsg     string
	statusIsError bool
}

func New(cfg *config.Config, gw *projects.Gateway, aiClient *ai.Client, opts Options) *App {
	ei := textinput.New()
	ei.CharLimit = 500

	si := textinput.New()
	si.Placeholder = "search projects..."
	si.CharLimit = 200

	ni := textinput.New()
	ni.Placeholder = "project name..."
	ni.CharLimit = 200

	pi := textinput.New()
	pi.Placeholder = "what should the map be about?"
	pi.CharLimit = 500

	qi := textinput.New()
	qi.Placeholder = "ask about this map..."
	qi.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	delay := editor.AutosaveDelay
	if cfg.Editor.AutosaveMillis > 0 {
		delay = time.Duration(cfg.Editor.AutosaveMillis) * time.Millisecond
	}

	session := editor.New(80 * CellW)
	if d, ok := mindmap.DesignByName(cfg.Editor.Theme); ok {
		session.SetDesign(d)
	}
	if o, err := mindmap.ParseOrientation(cfg.Editor.Orientation); err == nil {
		session.SetOrientation(o)
	}

	a := &App{
		cfg:            cfg,
		gw:             gw,
		ai:             aiClient,
		assistant:      assistant.New(),
		session:        session,
		opts:           opts,
		editInput:      ei,
		searchInput:    si,
		nameInput:      ni,
		promptInput:    pi,
		assistantInput: qi,
		spinner:        sp,
		outline:        viewport.New(80, 20),
		autosaveDelay:  delay,
		template:       cfg.Editor.Template,
	}
	a.selectRoot()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("canopy")
}

// Session exposes the editing session, mainly for tests and the CLI.
func (a *App) Session() *editor.Session {
	return a.session
}

// ── Commands ──────────────────────────────────────────────────────────────────

func (a *App) cmdSave(req editor.SaveRequest) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		_, err := gw.Save(ctx, req.ID, req.Name, req.Nodes, req.Orientation)
		return saveResultMsg{gen: req.Gen, err: err}
	}
}

// touch records an edit and schedules the debounced autosave check.
func (a *App) touch() tea.Cmd {
	gen := a.session.Touch()
	if gen == 0 {
		return nil
	}
	id := a.session.ProjectID()
	return tea.Tick(a.autosaveDelay, func(time.Time) tea.Msg {
		return autosaveMsg{gen: gen, projectID: id}
	})
}

// saveNow persists the open project without waiting for the debounce.
func (a *App) saveNow() tea.Cmd {
	if a.session.Touch() == 0 {
		return nil
	}
	req, ok := a.session.PendingSave()
	if !ok {
		return nil
	}
	return a.cmdSave(req)
}

// flush saves edits still waiting on the debounce, before the canvas is
// replaced by another project.
func (a *App) flush() tea.Cmd {
	if !a.session.Syncing() {
		return nil
	}
	req, ok := a.session.PendingSave()
	if !ok {
		return nil
	}
	return a.cmdSave(req)
}

func (a *App) cmdExpand(id, text string) tea.Cmd {
	client := a.ai
	gen := a.session.CanvasGen()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		ideas, err := client.Expand(ctx, text)
		return expandResultMsg{id: id, canvas: gen, ideas: ideas, err: err}
	}
}

func (a *App) cmdGenerate(prompt string) tea.Cmd {
	client := a.ai
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		idea, err := client.GenerateTree(ctx, prompt)
		return generateResultMsg{prompt: prompt, idea: idea, err: err}
	}
}

func (a *App) cmdDeleteProject(p projects.Project) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		err := gw.Delete(ctx, p.ID)
		return projectDeletedMsg{id: p.ID, name: p.Name, err: err}
	}
}

func (a *App) cmdRename(id, name string) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		_, err := gw.Rename(ctx, id, name)
		return projectRenamedMsg{id: id, name: name, err: err}
	}
}

func revealAfter(id string, gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return revealMsg{id: id, canvas: gen}
	})
}

// startSpinner ticks the spinner while AI work is in flight.
func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) busy() bool {
	if a.generating {
		return true
	}
	for _, n := range a.session.Store.Snapshot() {
		if n.Loading {
			return true
		}
	}
	return false
}

// ── Update ────────────────────────────────────────────────────────────────────

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case FeedMsg:
		if a.session.ApplyFeed(msg.Projects, a.opts.ProjectID) {
			a.selectRoot()
			a.setStatus("opened "+a.session.ProjectName(), false)
		}
		a.runSearch(a.searchQuery)

	case autosaveMsg:
		if msg.projectID != a.session.ProjectID() || !a.session.SaveDue(msg.gen) {
			return a, nil
		}
		if req, ok := a.session.PendingSave(); ok {
			return a, a.cmdSave(req)
		}

	case saveResultMsg:
		a.session.SaveDone(msg.gen)
		if msg.err != nil {
			log.Printf("ui: autosave: %v", msg.err)
			a.setStatus("save failed: "+msg.err.Error(), true)
		}

	case expandResultMsg:
		return a, a.finishExpand(msg)

	case revealMsg:
		if msg.canvas != a.session.CanvasGen() {
			return a, nil
		}
		if child, ok := a.session.RevealNext(msg.id); ok {
			log.Printf("ui: revealed %q under %s", child.Text, msg.id)
			return a, a.touch()
		}

	case generateResultMsg:
		a.generating = false
		if msg.err != nil {
			log.Printf("ui: generate %q: %v", msg.prompt, msg.err)
			a.setStatus(ai.ErrUnavailable.Error(), true)
			return a, nil
		}
		a.session.ApplyGeneratedTree(msg.prompt, msg.idea)
		a.selectRoot()
		a.setStatus("generated "+a.session.ProjectName(), false)
		return a, a.saveNow()

	case projectDeletedMsg:
		if msg.err != nil {
			log.Printf("ui: delete project %s: %v", msg.id, msg.err)
			a.setStatus("delete failed: "+msg.err.Error(), true)
			return a, nil
		}
		if a.session.ProjectDeleted(msg.id) {
			a.selectRoot()
		}
		a.setStatus("deleted "+msg.name, false)

	case projectRenamedMsg:
		if msg.err != nil {
			log.Printf("ui: rename project %s: %v", msg.id, msg.err)
			a.setStatus("rename failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.setStatus("renamed to "+msg.name, false)

	case clipboardMsg:
		if msg.err != nil {
			a.setStatus("clipboard: "+msg.err.Error(), true)
		} else {
			a.setStatus("copied "+msg.what, false)
		}

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.BlurMsg:
		return a, a.pointerLeave()

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		a.statusMsg = ""

		switch a.state {
		case stateCanvas:
			return a.updateCanvas(msg)
		case stateEditNode:
			return a.updateEditNode(msg)
		case stateConfirmDeleteNode:
			return a.updateConfirmDeleteNode(msg)
		case stateSidebar:
			return a.updateSidebar(msg)
		case stateSearch:
			return a.updateSearch(msg)
		case stateTemplatePicker:
			return a.updateTemplatePicker(msg)
		case stateProjectName:
			return a.updateProjectName(msg)
		case stateGenerate:
			return a.updateGenerate(msg)
		case stateConfirmDeleteProject:
			return a.updateConfirmDeleteProject(msg)
		case stateOutline:
			return a.updateOutline(msg)
		case stateAssistant:
			return a.updateAssistant(msg)
		case stateHelp:
			return a.updateHelp(msg)
		}
	}

	return a, nil
}

func (a *App) resize(w, h int) {
	a.width = w
	a.height = h
	cols, _ := a.canvasSize()
	vw := float64(cols) * CellW
	a.session.SetViewportWidth(vw)
	a.outline.Width = w - 2
	a.outline.Height = h - 4

	// The fresh canvas was laid out before the terminal size was known.
	if !a.sized && a.session.ProjectID() == "" && a.session.Store.Len() == 1 {
		a.session.Store.Replace([]mindmap.Node{mindmap.DefaultRoot(vw)})
		a.selectRoot()
	}
	a.sized = true
}

func (a *App) finishExpand(msg expandResultMsg) tea.Cmd {
	if msg.canvas != a.session.CanvasGen() {
		log.Printf("ui: dropped expansion of %s from a closed canvas", msg.id)
		return nil
	}
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, ai.ErrUnavailable):
		a.setStatus("Gemini is not configured, added starter ideas instead", false)
	default:
		log.Printf("ui: expand %s: %v", msg.id, msg.err)
		a.setStatus("expansion failed, added starter ideas instead", true)
	}
	n := a.session.FinishExpand(msg.id, msg.ideas)
	gen := a.session.CanvasGen()
	cmds := make([]tea.Cmd, 0, n)
	for i := 0; i < n; i++ {
		cmds = append(cmds, revealAfter(msg.id, gen, time.Duration(i)*editor.RevealInterval))
	}
	return tea.Batch(cmds...)
}

// ── Selection ─────────────────────────────────────────────────────────────────

func (a *App) selectRoot() {
	if root, ok := a.session.Store.Root(); ok {
		a.selected = root.ID
	} else {
		a.selected = ""
	}
}

// selectedNode returns the selection, falling back to the root when the
// selected node is gone or hidden under a collapsed ancestor.
func (a *App) selectedNode() (mindmap.Node, bool) {
	if n, ok := a.session.Store.Node(a.selected); ok {
		if mindmap.NewResolver(a.session.Store.Snapshot()).IsVisible(n.ID) {
			return n, true
		}
	}
	a.selectRoot()
	return a.session.Store.Node(a.selected)
}

func (a *App) setStatus(msg string, isErr bool) {
	a.statusMsg = msg
	a.statusIsError = isErr
}

// newProjectTemplate is the starter used by "n"; "N" picks one explicitly.
func (a *App) newProjectTemplate() string {
	if a.template == "" {
		return templates.Blank
	}
	return a.template
}
