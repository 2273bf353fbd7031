package ui

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yash-srivastava19/canopy/internal/canvas"
	"github.com/yash-srivastava19/canopy/internal/editor"
	"github.com/yash-srivastava19/canopy/internal/export"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

const (
	panStepCols = 4
	panStepRows = 2
	zoomStep    = 0.1
	wheelDelta  = 100.0
)

// ── Mouse ─────────────────────────────────────────────────────────────────────

// canvasOrigin is the terminal cell where the canvas area starts.
func (a *App) canvasOrigin() (int, int) {
	if a.sidebarOpen {
		return sidebarWidth, 1
	}
	return 0, 1
}

// canvasSize is the canvas area in cells.
func (a *App) canvasSize() (int, int) {
	x, y := a.canvasOrigin()
	return max(a.width-x, 0), max(a.height-y-1, 0)
}

func (a *App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.state != stateCanvas && a.state != stateEditNode && a.state != stateSidebar {
		return a, nil
	}
	ox, oy := a.canvasOrigin()
	cols, rows := a.canvasSize()
	col, row := msg.X-ox, msg.Y-oy
	inside := col >= 0 && row >= 0 && col < cols && row < rows
	screen := cellCenter(col, row)
	eng := a.session.Canvas

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if inside {
			if msg.Button == tea.MouseButtonWheelUp {
				eng.Wheel(-wheelDelta)
			} else {
				eng.Wheel(wheelDelta)
			}
		}
		return a, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		if !inside {
			return a, a.clickSidebar(msg.Y)
		}
		var cmds []tea.Cmd
		id, _ := nodeAt(a.session.Visible(), eng.State(), screen, a.selected)
		if a.state == stateEditNode && id != a.editingID {
			cmds = append(cmds, a.commitEdit())
		}
		if a.state == stateSidebar {
			a.state = stateCanvas
		}
		if id != "" {
			a.selected = id
		}
		a.dragMoved = false
		eng.PointerDown(screen, canvas.Hit{
			NodeID:  id,
			Editing: a.state == stateEditNode && id == a.editingID,
		})
		return a, tea.Batch(cmds...)

	case tea.MouseActionMotion:
		if eng.Mode() == canvas.Idle {
			return a, nil
		}
		if !inside {
			return a, a.pointerLeave()
		}
		eng.PointerMove(screen)
		if eng.Mode() == canvas.Dragging {
			a.dragMoved = true
		}

	case tea.MouseActionRelease:
		return a, a.pointerUp()
	}
	return a, nil
}

func (a *App) pointerUp() tea.Cmd {
	moved := a.session.Canvas.Mode() == canvas.Dragging && a.dragMoved
	a.session.Canvas.PointerUp()
	a.dragMoved = false
	if moved {
		return a.touch()
	}
	return nil
}

func (a *App) pointerLeave() tea.Cmd {
	moved := a.session.Canvas.Mode() == canvas.Dragging && a.dragMoved
	a.session.Canvas.PointerLeave()
	a.dragMoved = false
	if moved {
		return a.touch()
	}
	return nil
}

// clickSidebar opens the project on the clicked sidebar row.
func (a *App) clickSidebar(y int) tea.Cmd {
	if !a.sidebarOpen {
		return nil
	}
	i := y - sidebarListTop
	if i < 0 || i >= len(a.filtered) {
		return nil
	}
	a.cursor = i
	return a.openProject(a.filtered[i].ID)
}

// ── Canvas keys ───────────────────────────────────────────────────────────────

func (a *App) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := a.session.Canvas
	cols, rows := a.canvasSize()

	switch msg.String() {
	case "q", "ctrl+c":
		if cmd := a.flush(); cmd != nil {
			return a, tea.Sequence(cmd, tea.Quit)
		}
		return a, tea.Quit

	case "up", "k":
		a.navigate(0, -1)
	case "down", "j":
		a.navigate(0, 1)
	case "left", "h":
		a.navigate(-1, 0)
	case "right", "l":
		a.navigate(1, 0)

	case "K", "shift+up":
		eng.PanBy(0, panStepRows*CellH)
	case "J", "shift+down":
		eng.PanBy(0, -panStepRows*CellH)
	case "H", "shift+left":
		eng.PanBy(panStepCols*CellW, 0)
	case "L", "shift+right":
		eng.PanBy(-panStepCols*CellW, 0)

	case "+", "=":
		eng.ZoomBy(zoomStep)
	case "-", "_":
		eng.ZoomBy(-zoomStep)
	case "0":
		eng.Reset()
	case "c":
		if n, ok := a.selectedNode(); ok {
			eng.CenterOn(canvas.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}, float64(cols)*CellW, float64(rows)*CellH)
		}

	case "a", "tab":
		return a, a.addChild()

	case "enter", "e":
		return a, a.startEdit(fieldText)
	case "s":
		return a, a.startEdit(fieldSubLabel)

	case "d", "delete":
		n, ok := a.selectedNode()
		if !ok {
			return a, nil
		}
		if n.IsRoot() {
			a.setStatus(mindmap.ErrCannotDeleteRoot.Error(), true)
			return a, nil
		}
		a.deleteNodeID = n.ID
		a.state = stateConfirmDeleteNode

	case " ":
		if n, ok := a.selectedNode(); ok && len(n.ChildrenIDs) > 0 {
			a.session.Store.ToggleCollapse(n.ID)
			return a, a.touch()
		}

	case "t":
		if n, ok := a.selectedNode(); ok {
			a.session.Store.SetType(n.ID, n.Type.Next())
			return a, a.touch()
		}
	case "C":
		if n, ok := a.selectedNode(); ok {
			a.session.Store.SetColor(n.ID, mindmap.NextColor(n.Color))
			return a, a.touch()
		}

	case "x":
		return a, a.expandSelected()
	case "G":
		a.state = stateGenerate
		a.promptInput.SetValue("")
		a.promptInput.Focus()
		return a, textinput.Blink

	case "o":
		o := a.session.ToggleOrientation()
		a.setStatus("layout: "+o.String(), false)
		return a, a.touch()
	case "T":
		d := a.session.CycleDesign()
		a.setStatus("theme: "+d.Name, false)

	case "y":
		if n, ok := a.selectedNode(); ok {
			return a, copyToClipboard(n.Text, "node text")
		}
	case "Y":
		md, err := a.outlineMarkdown()
		if err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		return a, copyToClipboard(md, "outline")

	case "p":
		a.sidebarOpen = !a.sidebarOpen
		if a.sidebarOpen {
			a.state = stateSidebar
			a.runSearch(a.searchQuery)
		}
		a.resize(a.width, a.height)
	case "/":
		return a, a.startSearch()

	case "n":
		return a, a.startNameDialog(dialogNew, "")
	case "N":
		a.templateCursor = 0
		a.state = stateTemplatePicker
	case "S":
		return a, a.startNameDialog(dialogSaveAs, a.session.ProjectName()+" copy")
	case "R":
		if a.session.ProjectID() == "" {
			a.setStatus("save the map first (S)", true)
			return a, nil
		}
		a.renameTarget = a.session.ProjectID()
		return a, a.startNameDialog(dialogRename, a.session.ProjectName())
	case "D":
		if p, ok := a.session.FindProject(a.session.ProjectID()); ok {
			a.deleteProject = &p
			a.prevState = stateCanvas
			a.state = stateConfirmDeleteProject
		}

	case "O":
		a.openOutline()
	case "A", "i":
		a.state = stateAssistant
		a.assistantInput.SetValue("")
		a.assistantInput.Focus()
		return a, textinput.Blink
	case "?":
		a.prevState = stateCanvas
		a.state = stateHelp
	}

	return a, nil
}

// navigate moves the selection through the tree. Along the growth axis it
// goes to the parent or the first child; across it, to the neighbouring
// sibling.
func (a *App) navigate(dx, dy int) {
	n, ok := a.selectedNode()
	if !ok {
		return
	}
	along, across := dy, dx
	if a.session.Orientation() == mindmap.Horizontal {
		along, across = dx, dy
	}

	switch {
	case along < 0:
		if !n.IsRoot() {
			a.selected = n.ParentID
		}
	case along > 0:
		if !n.IsCollapsed && len(n.ChildrenIDs) > 0 {
			a.selected = n.ChildrenIDs[0]
		}
	case across != 0:
		parent, ok := a.session.Store.Node(n.ParentID)
		if !ok {
			return
		}
		for i, c := range parent.ChildrenIDs {
			if c != n.ID {
				continue
			}
			j := i + across
			if j >= 0 && j < len(parent.ChildrenIDs) {
				a.selected = parent.ChildrenIDs[j]
			}
			return
		}
	}
}

func (a *App) addChild() tea.Cmd {
	n, ok := a.selectedNode()
	if !ok {
		return nil
	}
	child, err := a.session.Store.AddChild(n.ID)
	if err != nil {
		if errors.Is(err, mindmap.ErrFanoutLimit) {
			a.setStatus(fmt.Sprintf("a node can have at most %d children", mindmap.MaxChildren), true)
		} else {
			a.setStatus(err.Error(), true)
		}
		return nil
	}
	a.selected = child.ID
	return a.touch()
}

func (a *App) expandSelected() tea.Cmd {
	n, ok := a.selectedNode()
	if !ok {
		return nil
	}
	text, err := a.session.BeginExpand(n.ID)
	if err != nil {
		switch {
		case errors.Is(err, editor.ErrExpansionInFlight):
			a.setStatus("already thinking about this one", true)
		case errors.Is(err, mindmap.ErrFanoutLimit):
			a.setStatus("this node already has two children", true)
		default:
			a.setStatus(err.Error(), true)
		}
		return nil
	}
	return tea.Batch(a.cmdExpand(n.ID, text), a.startSpinner())
}

func (a *App) outlineMarkdown() (string, error) {
	var buf bytes.Buffer
	if err := export.WriteMarkdown(&buf, a.session.ExportDocument()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// ── Node editing ──────────────────────────────────────────────────────────────

func (a *App) startEdit(field editField) tea.Cmd {
	n, ok := a.selectedNode()
	if !ok {
		return nil
	}
	a.editingID = n.ID
	a.editField = field
	a.editInput.Prompt = "text: "
	a.editInput.SetValue(n.Text)
	if field == fieldSubLabel {
		a.editInput.Prompt = "label: "
		a.editInput.SetValue(n.SubLabel)
	}
	a.editInput.CursorEnd()
	a.editInput.Focus()
	a.state = stateEditNode
	return textinput.Blink
}

// commitEdit writes the edit back to the node and leaves edit mode.
func (a *App) commitEdit() tea.Cmd {
	id, value := a.editingID, a.editInput.Value()
	a.endEdit()
	var changed bool
	switch a.editField {
	case fieldText:
		changed = a.session.Store.SetText(id, value)
	case fieldSubLabel:
		changed = a.session.Store.SetSubLabel(id, value)
	}
	if !changed {
		return nil
	}
	return a.touch()
}

func (a *App) endEdit() {
	a.editingID = ""
	a.editInput.Blur()
	a.state = stateCanvas
}

func (a *App) updateEditNode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.endEdit()
		return a, nil
	case "enter":
		return a, a.commitEdit()
	}
	var cmd tea.Cmd
	a.editInput, cmd = a.editInput.Update(msg)
	return a, cmd
}

func (a *App) updateConfirmDeleteNode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := a.deleteNodeID
		a.deleteNodeID = ""
		a.state = stateCanvas
		n, _ := a.session.Store.Node(id)
		removed, err := a.session.DeleteNode(id)
		if err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		if len(removed) == 0 {
			return a, nil
		}
		a.selected = n.ParentID
		a.setStatus(fmt.Sprintf("deleted %d node(s)", len(removed)), false)
		return a, a.touch()

	case "n", "N", "esc", "q":
		a.deleteNodeID = ""
		a.state = stateCanvas
	}
	return a, nil
}
