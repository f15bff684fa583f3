package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/taskdeck/internal/task"
)

// kanbanColumns is the fixed column order of the board.
var kanbanColumns = [4]task.Status{
	task.StatusActive,
	task.StatusNext,
	task.StatusWaiting,
	task.StatusDone,
}

var kanbanTitles = [4]string{"ACTIVE", "NEXT", "WAITING", "DONE"}

// columnItems is the task list backing one board column.
func columnItems(items []*task.Item, filter string, col int) []*task.Item {
	return statusGroup(items, filter, kanbanColumns[col])
}

// moveColumn wraps col+delta across the four columns and clamps the row
// to the new column's count.
func moveColumn(items []*task.Item, filter string, v kanbanView, delta int) kanbanView {
	v.col = (v.col + delta + len(kanbanColumns)) % len(kanbanColumns)
	count := len(columnItems(items, filter, v.col))
	if v.row >= count {
		v.row = count - 1
		if v.row < 0 {
			v.row = 0
		}
	}
	return v
}

// moveRow wraps the row cursor within the current column.
func moveRow(items []*task.Item, filter string, v kanbanView, delta int) kanbanView {
	count := len(columnItems(items, filter, v.col))
	if count == 0 {
		v.row = 0
		return v
	}
	v.row = (v.row + delta + count) % count
	return v
}

func (m Model) renderKanban(v kanbanView) string {
	th := m.theme

	colWidth := m.width/len(kanbanColumns) - 4
	if colWidth < 16 {
		colWidth = 16
	}

	rendered := make([]string, len(kanbanColumns))
	for col := range kanbanColumns {
		items := columnItems(m.items, m.filter, col)

		var body strings.Builder
		title := fmt.Sprintf("%s (%d)", kanbanTitles[col], len(items))
		if col == v.col {
			body.WriteString(th.Accent.Render(title))
		} else {
			body.WriteString(th.Dim.Render(title))
		}
		body.WriteString("\n\n")

		for row, it := range items {
			selected := col == v.col && row == v.row
			body.WriteString(m.renderCard(it, selected, colWidth))
		}
		if len(items) == 0 {
			body.WriteString(th.Dim.Render("—") + "\n")
		}

		style := th.Column.Width(colWidth)
		if col == v.col {
			style = style.BorderForeground(colorPrimary)
		}
		rendered[col] = style.Render(body.String())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader("Board"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")
	b.WriteString(m.renderFooter("h/l column  j/k card  space status  x done  e archive  tab list  q quit"))
	return b.String()
}

// renderCard renders one board card: marker, title, then tags and due.
func (m Model) renderCard(it *task.Item, selected bool, width int) string {
	th := m.theme
	var b strings.Builder

	title := truncate(it.Title, width-4)
	if selected {
		b.WriteString(th.Accent.Render("▸ ") + priorityDot(th, it.Priority) + " " + th.Highlight.Render(title) + "\n")
	} else {
		b.WriteString("  " + priorityDot(th, it.Priority) + " " + th.Normal.Render(title) + "\n")
	}
	if len(it.Tags) > 0 {
		b.WriteString("  " + th.Tag.Render(truncate("#"+strings.Join(it.Tags, " #"), width-4)) + "\n")
	}
	if it.DueDate != "" {
		b.WriteString("  " + th.Dim.Render("due "+it.DueDate) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens a string to max runes, ellipsized.
func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
