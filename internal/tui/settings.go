package tui

import (
	"fmt"
	"strings"

	"github.com/dohr-michael/taskdeck/internal/config"
)

// Settings rows are laid out as workstreams, a synthetic add-workstream
// slot, goals, then a synthetic add-goal slot. The row kinds below let the
// key handlers switch without re-deriving index arithmetic.
type settingsRow int

const (
	rowWorkstream settingsRow = iota
	rowAddWorkstream
	rowGoal
	rowAddGoal
)

func settingsRowCount(cfg *config.Config) int {
	return len(cfg.Workstreams) + len(cfg.Goals) + 2
}

// settingsRowAt classifies a cursor position and yields the index within
// its section.
func settingsRowAt(cfg *config.Config, cursor int) (settingsRow, int) {
	n := len(cfg.Workstreams)
	switch {
	case cursor < n:
		return rowWorkstream, cursor
	case cursor == n:
		return rowAddWorkstream, 0
	case cursor < n+1+len(cfg.Goals):
		return rowGoal, cursor - n - 1
	default:
		return rowAddGoal, 0
	}
}

func (m Model) renderSettings(v settingsView) string {
	th := m.theme
	var b strings.Builder
	b.WriteString(m.renderHeader("Settings"))

	cursorMark := func(selected bool) string {
		if selected {
			return " " + th.Accent.Render("▸") + " "
		}
		return "   "
	}

	b.WriteString("  " + th.Accent.Render("Workstreams") + th.Dim.Render("  (digit filters tasks)") + "\n\n")
	for i, ws := range m.cfg.Workstreams {
		selected := v.cursor == i
		label := fmt.Sprintf("[%c] %s", ws.Key, ws.Name)
		if selected {
			b.WriteString(cursorMark(true) + th.Highlight.Render(label) + "\n")
		} else {
			b.WriteString(cursorMark(false) + th.Normal.Render(label) + "\n")
		}
	}
	addWS := v.cursor == len(m.cfg.Workstreams)
	if addWS {
		b.WriteString(cursorMark(true) + th.Highlight.Render("[+] Add workstream") + "\n")
	} else {
		b.WriteString(cursorMark(false) + th.Dim.Render("[+] Add workstream") + "\n")
	}

	b.WriteString("\n  " + th.Accent.Render("Goals") + th.Dim.Render("  (context for task parsing)") + "\n\n")
	goalBase := len(m.cfg.Workstreams) + 1
	for i, g := range m.cfg.Goals {
		selected := v.cursor == goalBase+i
		check := "[ ]"
		if g.Active {
			check = "[x]"
		}
		stars := strings.Repeat("★", 6-g.Priority)
		label := fmt.Sprintf("%s %s [%s] %s", check, stars, g.Area, g.Description)
		if selected {
			b.WriteString(cursorMark(true) + th.Highlight.Render(label) + "\n")
		} else if g.Active {
			b.WriteString(cursorMark(false) + th.Normal.Render(label) + "\n")
		} else {
			b.WriteString(cursorMark(false) + th.Dim.Render(label) + "\n")
		}
	}
	addGoal := v.cursor == goalBase+len(m.cfg.Goals)
	if addGoal {
		b.WriteString(cursorMark(true) + th.Highlight.Render("[+] Add goal") + "\n")
	} else {
		b.WriteString(cursorMark(false) + th.Dim.Render("[+] Add goal") + "\n")
	}

	b.WriteString(m.renderFooter("j/k nav  enter edit/add  d delete  p goal priority  space goal on/off  esc back"))
	return b.String()
}
