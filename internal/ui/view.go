package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yash-srivastava19/canopy/internal/templates"
)

func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}
	switch a.state {
	case stateOutline:
		return a.viewOutline()
	case stateAssistant:
		return a.viewAssistant()
	case stateHelp:
		return a.viewHelp()
	}

	body := a.viewCanvas()
	if a.sidebarOpen {
		_, rows := a.canvasSize()
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.viewSidebar(rows), body)
	}
	return a.viewHeader() + "\n" + body + "\n" + a.viewStatus()
}

func (a *App) viewCanvas() string {
	cols, rows := a.canvasSize()
	if cols == 0 || rows == 0 {
		return ""
	}
	editing := ""
	if a.state == stateEditNode {
		editing = a.editingID
	}
	g := paintCanvas(a.session.Visible(), a.session.Canvas.State(), cols, rows, paintOptions{
		design:      a.session.Design(),
		orientation: a.session.Orientation(),
		selected:    a.selected,
		editing:     editing,
		spinner:     a.spinner.View(),
	})
	return g.render()
}

func (a *App) viewHeader() string {
	name := styleTitle.Render("canopy") + styleDivider.Render("  ·  ") + styleNormalItem.Render(truncate(a.session.ProjectName(), 40))

	var sync string
	switch {
	case a.session.ProjectID() == "":
		sync = styleDimItem.Render("unsaved")
	case a.session.Syncing():
		sync = styleSyncing.Render("● syncing")
	default:
		sync = styleSuccess.Render("✓ saved")
	}
	if a.generating {
		sync = styleAILabel.Render(a.spinner.View()+" generating") + "  " + sync
	}

	st := a.session.Canvas.State()
	info := styleDimItem.Render(fmt.Sprintf("%s · %s · %d%%",
		a.session.Orientation(), a.session.Design().Name, int(st.Zoom*100+0.5)))

	right := sync + "  " + info
	pad := a.width - lipgloss.Width(name) - lipgloss.Width(right) - 1
	if pad < 1 {
		pad = 1
	}
	return name + strings.Repeat(" ", pad) + right
}

func (a *App) viewStatus() string {
	switch a.state {
	case stateEditNode:
		return "  " + styleInputActive.Render(a.editInput.View())
	case stateProjectName:
		label := map[nameDialog]string{
			dialogNew:    "new project",
			dialogSaveAs: "save as",
			dialogRename: "rename",
		}[a.nameDialog]
		return "  " + styleAILabel.Render(label+" ") + a.nameInput.View()
	case stateGenerate:
		return "  " + styleAILabel.Render("generate ") + a.promptInput.View()
	case stateSearch:
		return "  " + styleHint.Render("type to filter  Enter open  ↑/↓ move  Esc clear")
	case stateTemplatePicker:
		parts := make([]string, len(templates.Names))
		for i, name := range templates.Names {
			if i == a.templateCursor {
				parts[i] = styleSelectedItem.Render("‹" + name + "›")
			} else {
				parts[i] = styleNormalItem.Render(" " + name + " ")
			}
		}
		return "  " + styleHint.Render("template ") + strings.Join(parts, " ") + styleHint.Render("   ←/→ choose  Enter next  Esc cancel")
	case stateConfirmDeleteNode:
		n, _ := a.session.Store.Node(a.deleteNodeID)
		below := len(a.session.Store.Descendants(n.ID))
		q := fmt.Sprintf("  Delete %q", truncate(n.Text, 40))
		if below > 0 {
			q += fmt.Sprintf(" and %d node(s) below it", below)
		}
		return styleConfirm.Render(q+"?") + styleHint.Render("  y yes · n cancel")
	case stateConfirmDeleteProject:
		name := ""
		if a.deleteProject != nil {
			name = a.deleteProject.Name
		}
		return styleConfirm.Render(fmt.Sprintf("  Delete project %q?", name)) + styleHint.Render("  y yes · n cancel")
	}

	if a.statusMsg != "" {
		sty := styleSuccess
		if a.statusIsError {
			sty = styleError
		}
		return sty.Render("  " + a.statusMsg)
	}
	if a.state == stateSidebar {
		return styleHint.Render("  j/k · Enter open · / search · n new · r rename · d delete · Esc canvas · p hide")
	}
	return styleHint.Render("  a add · e edit · d del · space fold · x AI · G generate · p projects · ? help · q quit")
}

func (a *App) viewSidebar(rows int) string {
	w := sidebarWidth - 1
	lines := make([]string, 0, rows)

	title := fmt.Sprintf("projects (%d)", len(a.session.Projects()))
	lines = append(lines, " "+styleTitle.Render(title))
	switch {
	case a.state == stateSearch:
		lines = append(lines, " "+a.searchInput.View())
	case a.searchQuery != "":
		lines = append(lines, " "+styleDimItem.Render("/"+truncate(a.searchQuery, w-3)))
	default:
		lines = append(lines, "")
	}

	focused := a.state == stateSidebar || a.state == stateSearch
	if len(a.filtered) == 0 {
		msg := "no projects yet, press n"
		if a.searchQuery != "" {
			msg = "no matches"
		}
		lines = append(lines, " "+styleDimItem.Render(msg))
	}
	for i, p := range a.filtered {
		if len(lines) >= rows {
			break
		}
		age := HumanTime(time.UnixMilli(p.UpdatedAt))
		name := truncate(p.Name, w-len(age)-4)
		pad := max(w-3-len([]rune(name))-len(age), 1)
		var line string
		switch {
		case focused && i == a.cursor:
			line = styleSelectedItem.Render("▸ "+name) + strings.Repeat(" ", pad) + styleDimItem.Render(age)
		case p.ID == a.session.ProjectID():
			line = styleCurrentItem.Render("• "+name) + strings.Repeat(" ", pad) + styleDimItem.Render(age)
		default:
			line = "  " + styleNormalItem.Render(name) + strings.Repeat(" ", pad) + styleDimItem.Render(age)
		}
		lines = append(lines, line)
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return styleSidebar.Width(w).Height(rows).MaxHeight(rows).Render(strings.Join(lines[:rows], "\n"))
}

// HumanTime formats how long ago t was, compactly.
func HumanTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw", int(d.Hours()/(24*7)))
	default:
		return t.Format("Jan 2")
	}
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
