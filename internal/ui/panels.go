package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// ── Outline ───────────────────────────────────────────────────────────────────

func (a *App) openOutline() {
	md, err := a.outlineMarkdown()
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.outlineText = md

	rendered := md
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(a.outline.Width-2, 20)),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			rendered = out
		}
	}
	a.outline.SetContent(rendered)
	a.outline.GotoTop()
	a.state = stateOutline
}

func (a *App) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "O":
		a.state = stateCanvas
	case "j", "down":
		a.outline.ScrollDown(1)
	case "k", "up":
		a.outline.ScrollUp(1)
	case "d", "ctrl+d":
		a.outline.ScrollDown(a.outline.Height / 2)
	case "u", "ctrl+u":
		a.outline.ScrollUp(a.outline.Height / 2)
	case "g":
		a.outline.GotoTop()
	case "G":
		a.outline.GotoBottom()
	case "y":
		return a, copyToClipboard(a.outlineText, "outline")
	}
	return a, nil
}

// ── Assistant ─────────────────────────────────────────────────────────────────

func (a *App) updateAssistant(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.assistantInput.Blur()
		a.state = stateCanvas
		return a, nil

	case "enter":
		q := strings.TrimSpace(a.assistantInput.Value())
		if _, ok := a.assistant.Ask(q, a.session.Store.Snapshot()); ok {
			a.assistantInput.SetValue("")
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.assistantInput, cmd = a.assistantInput.Update(msg)
	return a, cmd
}

// ── Help ──────────────────────────────────────────────────────────────────────

func (a *App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "?":
		a.state = a.prevState
	}
	return a, nil
}

func (a *App) viewOutline() string {
	var b strings.Builder
	w := a.width
	b.WriteString("  " + styleTitle.Render(truncate(a.session.ProjectName(), w-30)) + "  " + styleDimItem.Render("[outline]") + "\n")
	b.WriteString(styleDivider.Render(strings.Repeat("─", w)) + "\n")
	b.WriteString(a.outline.View() + "\n")
	b.WriteString(styleDivider.Render(strings.Repeat("─", w)) + "\n")
	b.WriteString(styleHint.Render("  j/k  d/u  g/G  y copy markdown  q back"))
	return b.String()
}

func (a *App) viewAssistant() string {
	var b strings.Builder
	w := a.width

	b.WriteString("  " + styleTitle.Render(truncate(a.session.ProjectName(), w-20)) + "  " + styleAILabel.Render("[ assistant ]") + "\n")
	b.WriteString(styleDivider.Render(strings.Repeat("─", w)) + "\n")

	innerH := a.height - 9
	if innerH < 3 {
		innerH = 3
	}

	r, _ := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(w-12, 20)))
	var lines []string
	for _, m := range a.assistant.History() {
		if m.FromUser {
			lines = append(lines, styleAILabel.Render("  Q: ")+styleNormalItem.Render(m.Text))
			continue
		}
		rendered := m.Text
		if r != nil {
			if out, err := r.Render(m.Text); err == nil {
				rendered = strings.TrimRight(out, "\n")
			}
		}
		lines = append(lines, strings.Split(rendered, "\n")...)
		lines = append(lines, "")
	}
	if len(lines) > innerH {
		lines = lines[len(lines)-innerH:]
	}

	panel := stylePanelBorder.Width(w - 6).Height(innerH).Render(strings.Join(lines, "\n"))
	b.WriteString(panel + "\n")
	b.WriteString("  " + a.assistantInput.View() + "\n")
	b.WriteString(styleDivider.Render(strings.Repeat("─", w)) + "\n")
	b.WriteString(styleHint.Render("  Enter ask  Esc back to canvas  try: summary · list all · what is <topic>"))
	return b.String()
}

func (a *App) viewHelp() string {
	help := lipgloss.JoinVertical(lipgloss.Left,
		styleDivider.Render("  CANVAS"),
		"    arrows / hjkl     move selection (parent, child, sibling)",
		"    shift+arrows/HJKL pan",
		"    + / -  wheel      zoom",
		"    0                 reset view",
		"    c                 centre on selection",
		"    mouse drag        move a node, or pan on the background",
		"",
		styleDivider.Render("  NODES"),
		"    a / tab           add child",
		"    enter / e         edit text",
		"    s                 edit sub-label",
		"    d                 delete with its subtree",
		"    space             collapse / expand",
		"    t                 cycle type",
		"    C                 cycle colour",
		"    y / Y             copy text / copy outline",
		"",
		styleDivider.Render("  AI"),
		"    x                 suggest children for the selection",
		"    G                 generate a whole map from a prompt",
		"    A                 ask the offline assistant",
		"",
		styleDivider.Render("  PROJECTS"),
		"    p                 project sidebar",
		"    /                 fuzzy search projects",
		"    n / N             new project / new from template",
		"    S                 save as",
		"    R                 rename",
		"    D                 delete current project",
		"",
		styleDivider.Render("  VIEW"),
		"    o                 vertical / horizontal layout",
		"    T                 cycle theme",
		"    O                 outline view",
		"    q                 quit",
	)

	var b strings.Builder
	b.WriteString(styleTitle.Render("canopy") + styleDivider.Render("  ·  ") + styleSubtitle.Render("help") + "\n")
	b.WriteString(styleDivider.Render(strings.Repeat("─", a.width)) + "\n\n")
	b.WriteString(help + "\n\n")
	b.WriteString(styleDivider.Render(strings.Repeat("─", a.width)) + "\n")
	b.WriteString(styleHint.Render("  q / Esc / ? to close"))
	return b.String()
}
