package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/taskdeck/internal/task"
)

// doneCap bounds the done group shown at the tail of the compact list.
const doneCap = 3

// compactRows builds the flat list: active, then next, then at most
// doneCap done items. Waiting and archived items never appear here. Each
// group is ordered by priority, newest first.
func compactRows(items []*task.Item, filter string) []*task.Item {
	var rows []*task.Item
	rows = append(rows, statusGroup(items, filter, task.StatusActive)...)
	rows = append(rows, statusGroup(items, filter, task.StatusNext)...)
	done := statusGroup(items, filter, task.StatusDone)
	if len(done) > doneCap {
		done = done[:doneCap]
	}
	return append(rows, done...)
}

// statusGroup selects one status, honoring the single-tag workstream
// filter, sorted for display.
func statusGroup(items []*task.Item, filter string, status task.Status) []*task.Item {
	var out []*task.Item
	for _, it := range items {
		if it.Status != status || it.IsProject() {
			continue
		}
		if filter != "" && !it.HasTag(filter) {
			continue
		}
		out = append(out, it)
	}
	task.Sort(out)
	return out
}

func (m Model) renderCompact(v compactView) string {
	th := m.theme
	rows := compactRows(m.items, m.filter)

	var b strings.Builder
	b.WriteString(m.renderHeader("Tasks"))

	sidebar := m.renderFilterSidebar()
	var list strings.Builder

	next := statusGroup(m.items, m.filter, task.StatusNext)
	done := statusGroup(m.items, m.filter, task.StatusDone)
	activeCount := len(rows) - len(next) - min(len(done), doneCap)

	writeSection := func(label string, group []*task.Item, offset int) {
		if len(group) == 0 {
			return
		}
		list.WriteString("  " + th.Accent.Render(label) + th.Border.Render("  ━━━━━━━━━━━━") + "\n\n")
		for i, it := range group {
			list.WriteString(m.renderTaskRow(it, offset+i == v.cursor))
		}
		list.WriteString("\n")
	}

	writeSection("Active", rows[:activeCount], 0)
	writeSection("Next", next, activeCount)
	capped := done
	if len(capped) > doneCap {
		capped = capped[:doneCap]
	}
	writeSection("Done", capped, activeCount+len(next))

	if len(rows) == 0 {
		list.WriteString("  " + th.Dim.Render("No tasks. Press 'n' to capture one.") + "\n")
	}

	b.WriteString(joinColumns(sidebar, list.String()))
	b.WriteString(m.renderFooter("j/k nav  n new  space status  x done  e archive  tab board  s settings  p projects  q quit"))
	return b.String()
}

// renderTaskRow renders one task as a title line plus a dim info line.
func (m Model) renderTaskRow(it *task.Item, selected bool) string {
	th := m.theme
	var b strings.Builder

	title := it.Title
	if selected {
		b.WriteString(" " + th.Accent.Render("▸") + " " + priorityDot(th, it.Priority) + " " + th.Highlight.Render(title) + "\n")
	} else {
		b.WriteString("   " + priorityDot(th, it.Priority) + " " + th.Normal.Render(title) + "\n")
	}

	var info []string
	if len(it.Tags) > 0 {
		info = append(info, th.Tag.Render("#"+strings.Join(it.Tags, " #")))
	}
	if it.DueDate != "" {
		info = append(info, th.Dim.Render("due "+it.DueDate))
	}
	if p := it.EffectiveProgress(); p > 0 && it.Status != task.StatusDone {
		info = append(info, th.Dim.Render(fmt.Sprintf("%d%%", p)))
	}
	if len(info) > 0 {
		b.WriteString("      " + strings.Join(info, "  ") + "\n")
	}
	return b.String()
}

// renderFilterSidebar lists the workstreams with the active one marked.
func (m Model) renderFilterSidebar() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Accent.Render("Filters") + "\n\n")

	mark := func(active bool, label string) string {
		if active {
			return th.Title.Render("● " + label)
		}
		return th.Dim.Render("○ " + label)
	}
	b.WriteString(mark(m.filter == "", "All") + "\n")
	for _, ws := range m.cfg.Workstreams {
		b.WriteString(mark(m.filter == ws.Name, fmt.Sprintf("%s (%c)", ws.Name, ws.Key)) + "\n")
	}
	return b.String()
}

// joinColumns puts the sidebar next to the main list.
func joinColumns(sidebar, main string) string {
	side := lipgloss.NewStyle().Width(16).Render(sidebar)
	return lipgloss.JoinHorizontal(lipgloss.Top, side, main)
}
