package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/taskdeck/internal/task"
)

// overlay is a modal input surface. While one is open it receives every
// key; Update returns nil when the overlay closed itself.
type overlay interface {
	Update(msg tea.Msg) (overlay, tea.Cmd)
	View(th Theme, width int) string
}

// captureSubmittedMsg carries the raw text of a confirmed new-task dialog.
type captureSubmittedMsg struct {
	raw string
}

// projectSubmittedMsg carries the title of a confirmed new-project dialog.
type projectSubmittedMsg struct {
	title string
}

// settingsSubmittedMsg carries the edit buffer of a confirmed settings
// dialog along with the row the dialog was opened for, so a cursor move
// during editing cannot retarget the mutation.
type settingsSubmittedMsg struct {
	target settingsRow
	index  int
	text   string
}

func newDialogInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.SetValue(value)
	ti.Focus()
	return ti
}

// taskDialog captures a natural-language task description. After confirm
// it stays open in a waiting state until the enrichment result arrives;
// esc cancels at any point.
type taskDialog struct {
	input   textinput.Model
	waiting bool
}

func newTaskDialog() taskDialog {
	return taskDialog{input: newDialogInput("call mom tomorrow about the trip", "")}
}

func (d taskDialog) Update(msg tea.Msg) (overlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		return nil, nil
	case tea.KeyEnter:
		if d.waiting {
			return d, nil
		}
		raw := strings.TrimSpace(d.input.Value())
		if raw == "" {
			return nil, nil
		}
		d.waiting = true
		return d, func() tea.Msg { return captureSubmittedMsg{raw: raw} }
	}

	if d.waiting {
		return d, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d taskDialog) View(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.Accent.Render("New Task"))
	b.WriteString("\n\n")
	b.WriteString(d.input.View())
	if d.waiting {
		b.WriteString("\n\n")
		b.WriteString(th.Dim.Render("parsing…"))
	} else {
		b.WriteString("\n\n")
		b.WriteString(th.Dim.Render("enter: create  esc: cancel"))
	}
	return th.Dialog.Width(dialogWidth(width)).Render(b.String())
}

// projectDialog captures a project title; no enrichment is involved.
type projectDialog struct {
	input textinput.Model
}

func newProjectDialog() projectDialog {
	return projectDialog{input: newDialogInput("Website redesign", "")}
}

func (d projectDialog) Update(msg tea.Msg) (overlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		return nil, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(d.input.Value())
		if title == "" {
			return nil, nil
		}
		return nil, func() tea.Msg { return projectSubmittedMsg{title: title} }
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d projectDialog) View(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.Accent.Render("New Project"))
	b.WriteString("\n\n")
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	b.WriteString(th.Dim.Render("enter: create  esc: cancel"))
	return th.Dialog.Width(dialogWidth(width)).Render(b.String())
}

// editDialog is the generic settings text prompt, used for renaming and
// adding workstreams and for goal descriptions.
type editDialog struct {
	title  string
	target settingsRow
	index  int
	input  textinput.Model
}

func newEditDialog(title, value string, target settingsRow, index int) editDialog {
	return editDialog{
		title:  title,
		target: target,
		index:  index,
		input:  newDialogInput("", value),
	}
}

func (d editDialog) Update(msg tea.Msg) (overlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		return nil, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(d.input.Value())
		if text == "" {
			return nil, nil
		}
		return nil, func() tea.Msg {
			return settingsSubmittedMsg{target: d.target, index: d.index, text: text}
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d editDialog) View(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.Accent.Render(d.title))
	b.WriteString("\n\n")
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	b.WriteString(th.Dim.Render("enter: save  esc: cancel"))
	return th.Dialog.Width(dialogWidth(width)).Render(b.String())
}

// detailOverlay shows one task's full content with the body rendered as
// markdown. Any of esc, q or g closes it.
type detailOverlay struct {
	item *task.Item
}

func (d detailOverlay) Update(msg tea.Msg) (overlay, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch keyMsg.String() {
	case "esc", "q", "g", "enter":
		return nil, nil
	}
	return d, nil
}

func (d detailOverlay) View(th Theme, width int) string {
	w := dialogWidth(width)
	var b strings.Builder

	b.WriteString(priorityDot(th, d.item.Priority))
	b.WriteString(" ")
	b.WriteString(th.Title.Render(d.item.Title))
	b.WriteString("\n\n")

	meta := []string{
		fmt.Sprintf("status: %s", d.item.Status),
		fmt.Sprintf("priority: %s", d.item.Priority),
	}
	if d.item.DueDate != "" {
		meta = append(meta, "due: "+d.item.DueDate)
	}
	if len(d.item.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(d.item.Tags, " #"))
	}
	b.WriteString(th.Dim.Render(strings.Join(meta, "   ")))

	if d.item.Body != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(d.item.Body, w-4))
	}
	b.WriteString("\n\n")
	b.WriteString(th.Dim.Render("esc: close"))

	return th.Dialog.Width(w).Render(b.String())
}

func dialogWidth(width int) int {
	w := width - 8
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// centerOverlay places a rendered dialog in the middle of the screen.
func centerOverlay(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
