package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dohr-michael/taskdeck/internal/task"
	"github.com/dohr-michael/taskdeck/internal/timeline"
)

// taskNameWidth is the fixed left column of the gantt grid.
const taskNameWidth = 20

func (m Model) renderGantt(v ganttView) string {
	th := m.theme
	project := task.FindByID(m.items, v.projectID)
	title := "Unknown Project"
	if project != nil {
		title = project.Title
	}

	children := projectChildren(m.items, v.projectID)
	gridWidth := m.width - taskNameWidth - 4
	if gridWidth < 10 {
		gridWidth = 10
	}
	layout := timeline.Compute(time.Now(), children, v.scrollDays, gridWidth)

	var b strings.Builder
	b.WriteString(m.renderHeader(title + " — Timeline"))

	pad := strings.Repeat(" ", taskNameWidth)
	b.WriteString(pad + th.Border.Render("│") + th.Dim.Render(layout.MonthHeader) + "\n")

	if len(children) == 0 {
		b.WriteString("  " + th.Dim.Render("No tasks in this project yet.") + "\n")
	}

	for i, bar := range layout.Bars {
		name := truncate(bar.Item.Title, taskNameWidth-3)
		row := timeline.RenderBar(bar, layout.Width, layout.TodayCol)
		if i == v.cursor {
			b.WriteString(" " + th.Accent.Render("▸") + " " + th.Highlight.Render(padCell(name, taskNameWidth-3)))
		} else {
			b.WriteString("   " + th.Normal.Render(padCell(name, taskNameWidth-3)))
		}
		b.WriteString(th.Border.Render("│") + th.Accent.Render(row) + "\n")
	}

	if layout.TodayCol >= 0 {
		b.WriteString(pad + th.Border.Render("│") +
			strings.Repeat(" ", layout.TodayCol) + th.Dim.Render("|← today") + "\n")
	}
	b.WriteString("\n" + pad + " " + th.Dim.Render(fmt.Sprintf("window %s … %s",
		layout.WindowStart.Format("2006-01-02"), layout.WindowEnd.Format("2006-01-02"))) + "\n")

	b.WriteString(m.renderFooter("j/k nav  H/L scroll ±7d  space status  esc back"))
	return b.String()
}

// padCell pads a plain string to a fixed rune width.
func padCell(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
