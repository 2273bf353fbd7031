package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/yash-srivastava19/canopy/internal/projects"
	"github.com/yash-srivastava19/canopy/internal/templates"
)

// sidebarListTop is the terminal row of the first project in the sidebar:
// the header line, the sidebar title and the search line come first.
const sidebarListTop = 3

// ── Sidebar ───────────────────────────────────────────────────────────────────

// openProject loads id from the latest feed, saving pending edits to the
// project being left.
func (a *App) openProject(id string) tea.Cmd {
	p, ok := a.session.FindProject(id)
	if !ok {
		a.setStatus("project not found", true)
		return nil
	}
	if p.ID == a.session.ProjectID() {
		a.state = stateCanvas
		return nil
	}
	flush := a.flush()
	a.session.LoadProject(p)
	a.selectRoot()
	a.state = stateCanvas
	a.setStatus("opened "+a.session.ProjectName(), false)
	return flush
}

func (a *App) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a.updateCanvas(msg)

	case "esc", "tab":
		a.state = stateCanvas

	case "p":
		a.sidebarOpen = false
		a.state = stateCanvas
		a.resize(a.width, a.height)

	case "j", "down":
		if a.cursor < len(a.filtered)-1 {
			a.cursor++
		}

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}

	case "enter", "l":
		if a.cursor < len(a.filtered) {
			return a, a.openProject(a.filtered[a.cursor].ID)
		}

	case "/":
		return a, a.startSearch()

	case "n":
		return a, a.startNameDialog(dialogNew, "")

	case "r":
		if a.cursor < len(a.filtered) {
			p := a.filtered[a.cursor]
			a.renameTarget = p.ID
			return a, a.startNameDialog(dialogRename, p.Name)
		}

	case "d":
		if a.cursor < len(a.filtered) {
			p := a.filtered[a.cursor]
			a.deleteProject = &p
			a.prevState = stateSidebar
			a.state = stateConfirmDeleteProject
		}
	}
	return a, nil
}

func (a *App) startSearch() tea.Cmd {
	if !a.sidebarOpen {
		a.sidebarOpen = true
		a.resize(a.width, a.height)
	}
	a.state = stateSearch
	a.searchInput.SetValue(a.searchQuery)
	a.searchInput.Focus()
	return textinput.Blink
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searchQuery = ""
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.runSearch("")
		a.state = stateSidebar
		return a, nil

	case "enter":
		a.searchInput.Blur()
		a.state = stateSidebar
		if len(a.filtered) > 0 {
			return a, a.openProject(a.filtered[a.cursor].ID)
		}
		return a, nil

	case "ctrl+n", "down":
		if a.cursor < len(a.filtered)-1 {
			a.cursor++
		}
		return a, nil

	case "ctrl+p", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if q := a.searchInput.Value(); q != a.searchQuery {
		a.searchQuery = q
		a.cursor = 0
		a.runSearch(q)
	}
	return a, cmd
}

// runSearch filters the feed by fuzzy match on the project name, best
// matches first. An empty query shows everything, newest first.
func (a *App) runSearch(query string) {
	all := a.session.Projects()
	if query == "" {
		a.filtered = all
	} else {
		names := make([]string, len(all))
		for i, p := range all {
			names[i] = p.Name
		}
		matches := fuzzy.Find(query, names)
		result := make([]projects.Project, 0, len(matches))
		for _, m := range matches {
			result = append(result, all[m.Index])
		}
		a.filtered = result
	}
	if a.cursor >= len(a.filtered) {
		a.cursor = max(0, len(a.filtered)-1)
	}
}

// ── Template picker ───────────────────────────────────────────────────────────

func (a *App) updateTemplatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.state = stateCanvas
		return a, nil

	case "j", "down", "l", "right", "tab":
		if a.templateCursor < len(templates.Names)-1 {
			a.templateCursor++
		}

	case "k", "up", "h", "left", "shift+tab":
		if a.templateCursor > 0 {
			a.templateCursor--
		}

	case "enter":
		a.template = templates.Names[a.templateCursor]
		return a, a.startNameDialog(dialogNew, "")
	}
	return a, nil
}

// ── Project name dialog ───────────────────────────────────────────────────────

func (a *App) startNameDialog(kind nameDialog, value string) tea.Cmd {
	if a.state != stateProjectName {
		a.prevState = a.state
		if a.prevState == stateTemplatePicker {
			a.prevState = stateCanvas
		}
	}
	a.nameDialog = kind
	a.nameInput.SetValue(value)
	a.nameInput.CursorEnd()
	a.nameInput.Focus()
	a.state = stateProjectName
	return textinput.Blink
}

func (a *App) updateProjectName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.nameInput.Blur()
		a.state = a.prevState
		return a, nil

	case "enter":
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			return a, nil
		}
		a.nameInput.Blur()
		a.state = stateCanvas
		return a, a.submitName(name)
	}

	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func (a *App) submitName(name string) tea.Cmd {
	switch a.nameDialog {
	case dialogNew:
		flush := a.flush()
		template := a.newProjectTemplate()
		a.template = a.cfg.Editor.Template
		if _, err := a.session.NewProject(name, template); err != nil {
			a.setStatus(err.Error(), true)
			return flush
		}
		a.selectRoot()
		a.setStatus("created "+name, false)
		return tea.Batch(flush, a.saveNow())

	case dialogSaveAs:
		if _, err := a.session.SaveAs(name); err != nil {
			a.setStatus(err.Error(), true)
			return nil
		}
		a.setStatus("saved as "+name, false)
		return a.saveNow()

	case dialogRename:
		id := a.renameTarget
		a.renameTarget = ""
		if a.session.Rename(id, name) {
			a.setStatus("renamed to "+name, false)
			return a.saveNow()
		}
		return a.cmdRename(id, name)
	}
	return nil
}

// ── Delete project ────────────────────────────────────────────────────────────

func (a *App) updateConfirmDeleteProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		p := a.deleteProject
		a.deleteProject = nil
		a.state = a.prevState
		if p == nil {
			return a, nil
		}
		return a, a.cmdDeleteProject(*p)

	case "n", "N", "esc", "q":
		a.deleteProject = nil
		a.state = a.prevState
	}
	return a, nil
}

// ── Generate ──────────────────────────────────────────────────────────────────

func (a *App) updateGenerate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.promptInput.Blur()
		a.state = stateCanvas
		return a, nil

	case "enter":
		prompt := strings.TrimSpace(a.promptInput.Value())
		if prompt == "" || a.generating {
			return a, nil
		}
		a.promptInput.Blur()
		a.state = stateCanvas
		a.generating = true
		a.setStatus("generating a map for "+prompt, false)
		return a, tea.Batch(a.cmdGenerate(prompt), a.startSpinner())
	}

	var cmd tea.Cmd
	a.promptInput, cmd = a.promptInput.Update(msg)
	return a, cmd
}
