package tui

import (
	"fmt"
	"strings"

	"github.com/dohr-michael/taskdeck/internal/task"
	"github.com/dohr-michael/taskdeck/internal/timeline"
)

// projectRows is the ordered project subset of the task set.
func projectRows(items []*task.Item) []*task.Item {
	var out []*task.Item
	for _, it := range items {
		if it.IsProject() {
			out = append(out, it)
		}
	}
	task.Sort(out)
	return out
}

// projectChildren selects the tasks assigned to a project. The parent
// reference is resolved by id on every call; a dangling reference simply
// yields no children.
func projectChildren(items []*task.Item, projectID string) []*task.Item {
	var out []*task.Item
	for _, it := range items {
		if it.ParentGoalID == projectID && !it.IsProject() {
			out = append(out, it)
		}
	}
	task.Sort(out)
	return out
}

func (m Model) renderProjects(v projectsView) string {
	th := m.theme
	projects := projectRows(m.items)

	var b strings.Builder
	b.WriteString(m.renderHeader("Projects"))

	if len(projects) == 0 {
		b.WriteString("  " + th.Dim.Render("No projects yet. Press 'n' to create one.") + "\n")
	}

	for i, p := range projects {
		children := projectChildren(m.items, p.ID)
		progress := timeline.ProjectProgress(children)
		counts := timeline.StatusCounts(children)
		doneCount := counts[task.StatusDone] + counts[task.StatusArchived]
		activeCount := counts[task.StatusActive] + counts[task.StatusNext]

		if i == v.cursor {
			b.WriteString(" " + th.Accent.Render("▸") + " " + th.Highlight.Render(p.Title) + "\n")
		} else {
			b.WriteString("   " + th.Normal.Render(p.Title) + "\n")
		}

		bar := progressBar(progress)
		barStyle := th.Dim
		if progress >= 100 {
			barStyle = th.Accent
		}
		due := p.EndDate
		if due == "" {
			due = p.DueDate
		}
		if due == "" {
			due = "no due date"
		}
		b.WriteString(fmt.Sprintf("     %s %s   %s\n",
			barStyle.Render(bar),
			th.Dim.Render(fmt.Sprintf("%d%%", progress)),
			th.Dim.Render("due: "+due)))
		b.WriteString("     " + th.Dim.Render(fmt.Sprintf("%d tasks  •  %d done  •  %d active",
			len(children), doneCount, activeCount)) + "\n\n")
	}

	b.WriteString(m.renderFooter("j/k nav  enter timeline  n new project  esc back  q back"))
	return b.String()
}

// progressBar renders a ten-cell completion bar.
func progressBar(progress int) string {
	filled := progress / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + "]"
}
