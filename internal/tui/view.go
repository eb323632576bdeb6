package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmaier/crate/internal/domain"
	"github.com/kmaier/crate/internal/player"
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.mode == modeHelp {
		return m.helpView()
	}

	sidebarWidth := m.width / 4
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	listWidth := m.width - sidebarWidth - 6
	bodyHeight := m.height - 5

	sidebar := m.paneStyle(paneCategories).
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(m.categoriesView(bodyHeight))
	list := m.paneStyle(paneTracks).
		Width(listWidth).
		Height(bodyHeight).
		Render(m.tracksView(bodyHeight))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, list)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.transportView(), m.footerView())
}

func (m Model) paneStyle(p pane) lipgloss.Style {
	if m.focus == p && m.mode == modeBrowse {
		return activePane
	}
	return inactivePane
}

func (m Model) categoriesView(height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Folders"))
	b.WriteString("\n\n")

	rows := []string{fmt.Sprintf("All (%d)", m.lib.CategoryCount(domain.CategoryAll))}
	ids := []string{domain.CategoryAll}
	for _, c := range m.lib.Categories() {
		rows = append(rows, fmt.Sprintf("%s (%d)", c.Name, m.lib.CategoryCount(c.ID)))
		ids = append(ids, c.ID)
	}

	active := m.lib.ActiveCategory()
	for i, row := range rows {
		prefix := "  "
		if i == m.catCursor {
			prefix = cursorStyle.Render("> ")
		}
		line := row
		if ids[i] == active {
			line = selectedStyle.Render(row)
		}
		b.WriteString(prefix + line + "\n")
	}
	return b.String()
}

func (m Model) tracksView(height int) string {
	var b strings.Builder
	visible := m.lib.Filtered()

	header := fmt.Sprintf("Tracks (%d)", len(visible))
	if n := m.lib.SelectionCount(); n > 0 {
		header += dimStyle.Render(fmt.Sprintf("  %d selected", n))
	}
	if q := m.lib.Query(); q != "" {
		header += dimStyle.Render("  /" + q)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("no tracks, press i to import files or I for a folder"))
		return b.String()
	}

	// Scroll the cursor into the visible window.
	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.trackCursor >= rows {
		start = m.trackCursor - rows + 1
	}

	current := m.ctrl.Current()
	for i := start; i < len(visible) && i < start+rows; i++ {
		t := visible[i]
		prefix := "  "
		if i == m.trackCursor {
			prefix = cursorStyle.Render("> ")
		}
		mark := "  "
		if m.lib.IsSelected(t.ID) {
			mark = selectedStyle.Render("* ")
		}
		line := t.DisplayName()
		if size := t.FormattedSize(); size != "" {
			line += dimStyle.Render("  " + size)
		}
		if current != nil && current.ID == t.ID {
			line = cursorStyle.Render("♪ ") + line
		}
		b.WriteString(prefix + mark + line + "\n")
	}
	return b.String()
}

func (m Model) transportView() string {
	status := m.ctrl.Status()
	if status == player.StatusIdle {
		return transportStyle.Render(" ■ idle")
	}

	current := m.ctrl.Current()
	name := ""
	if current != nil {
		name = current.DisplayName()
	}
	icon := "▶"
	if status == player.StatusPaused {
		icon = "❚❚"
	} else if status == player.StatusLoading {
		icon = "…"
	}

	snap := m.ctrl.Snapshot()
	pos := formatSeconds(snap.Position)
	dur := formatSeconds(snap.Duration)
	return transportStyle.Render(fmt.Sprintf(" %s %s  %s / %s", icon, name, pos, dur))
}

func (m Model) footerView() string {
	switch m.mode {
	case modeSearch, modeJump, modeNewCategory, modeImportFiles, modeImportDir:
		return " " + m.input.View()
	case modeConfirmDelete:
		if m.confirmCat != nil {
			return errorStyle.Render(fmt.Sprintf(" delete folder %q? tracks stay in the library (y/n)", m.confirmCat.Name))
		}
		return errorStyle.Render(fmt.Sprintf(" delete %d selected tracks? (y/n)", m.lib.SelectionCount()))
	}
	if m.status != "" {
		return " " + m.status
	}
	return dimStyle.Render(" ?: help  q: quit")
}

func (m Model) helpView() string {
	lines := []struct{ keys, desc string }{
		{"j/k, ↓/↑", "move cursor"},
		{"tab", "switch pane"},
		{"enter", "play track / set folder filter"},
		{"/", "search (live)"},
		{"f", "jump to best-matching track"},
		{"space", "select track"},
		{"a", "select all visible / clear"},
		{"i", "import files"},
		{"I", "import a folder"},
		{"n", "new folder"},
		{"m / u", "file / unfile selection into folder under cursor"},
		{"d", "delete (selection, or folder under cursor)"},
		{"p", "play/pause"},
		{"[ / ]", "previous / next track"},
		{"h / l", "seek -10s / +10s"},
		{"s", "stop"},
		{"esc", "clear search and selection"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Crate keys"))
	b.WriteString("\n\n")
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", l.keys, l.desc))
	}
	b.WriteString("\n" + dimStyle.Render("press any key to close"))
	return b.String()
}

func formatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(s)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
