package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/taskdeck/internal/config"
	"github.com/dohr-michael/taskdeck/internal/enrich"
	"github.com/dohr-michael/taskdeck/internal/gitsync"
	"github.com/dohr-michael/taskdeck/internal/storage"
	"github.com/dohr-michael/taskdeck/internal/task"
)

// Options carries the collaborators the model needs. Enricher and Syncer
// may be nil-valued wrappers; both degrade to no-ops.
type Options struct {
	Store    *storage.Store
	Config   *config.Config
	DataDir  string
	Enricher *enrich.Enricher
	Syncer   *gitsync.Syncer
	Activity *storage.ActivityLog
}

// Model is the root bubbletea model. The event loop owns the full task
// set; views index into slices derived from it on every render.
type Model struct {
	store    *storage.Store
	cfg      *config.Config
	dataDir  string
	enricher *enrich.Enricher
	syncer   *gitsync.Syncer
	activity *storage.ActivityLog
	theme    Theme

	items   []*task.Item
	view    viewState
	overlay overlay
	filter  string // active workstream tag, "" shows everything

	width  int
	height int
	status string

	// pendingCapture is the raw text whose enrichment is in flight; a
	// result for any other text is stale and dropped.
	pendingCapture string
	quitting       bool
}

// enrichedMsg resumes the new-task flow with the parse result.
type enrichedMsg struct {
	raw    string
	fields enrich.Enriched
}

// syncDoneMsg reports the outcome of a background git sync.
type syncDoneMsg struct {
	err error
}

// NewModel loads the task set and builds the initial model.
func NewModel(opts Options) (Model, error) {
	items, err := opts.Store.LoadAll()
	if err != nil {
		return Model{}, fmt.Errorf("load tasks: %w", err)
	}
	return Model{
		store:    opts.Store,
		cfg:      opts.Config,
		dataDir:  opts.DataDir,
		enricher: opts.Enricher,
		syncer:   opts.Syncer,
		activity: opts.Activity,
		theme:    DefaultTheme(),
		items:    items,
		view:     compactView{},
		width:    80,
		height:   24,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case captureSubmittedMsg:
		m.pendingCapture = msg.raw
		enricher := m.enricher
		return m, func() tea.Msg {
			return enrichedMsg{raw: msg.raw, fields: enricher.Enrich(context.Background(), msg.raw)}
		}

	case enrichedMsg:
		return m.finishCapture(msg)

	case projectSubmittedMsg:
		return m.createProject(msg.title)

	case settingsSubmittedMsg:
		return m.applySettingsEdit(msg)

	case syncDoneMsg:
		if msg.err != nil {
			m.status = "sync failed: " + msg.err.Error()
		} else {
			m.status = "synced"
		}
		return m, nil
	}

	// An open overlay captures everything else, keys included.
	if m.overlay != nil {
		ov, cmd := m.overlay.Update(msg)
		m.overlay = ov
		if ov == nil {
			m.pendingCapture = ""
		}
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.overlay != nil {
		return centerOverlay(m.overlay.View(m.theme, m.width), m.width, m.height)
	}
	switch v := m.view.(type) {
	case compactView:
		return m.renderCompact(v)
	case kanbanView:
		return m.renderKanban(v)
	case settingsView:
		return m.renderSettings(v)
	case projectsView:
		return m.renderProjects(v)
	case ganttView:
		return m.renderGantt(v)
	}
	return ""
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch v := m.view.(type) {
	case compactView:
		return m.handleCompactKey(v, key)
	case kanbanView:
		return m.handleKanbanKey(v, key)
	case settingsView:
		return m.handleSettingsKey(v, key)
	case projectsView:
		return m.handleProjectsKey(v, key)
	case ganttView:
		return m.handleGanttKey(v, key)
	}
	return m, nil
}

func (m Model) handleCompactKey(v compactView, key string) (tea.Model, tea.Cmd) {
	rows := compactRows(m.items, m.filter)

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.view = kanbanView{}
		return m, nil
	case "s":
		m.view = settingsView{}
		return m, nil
	case "p":
		m.view = projectsView{}
		return m, nil
	case "j", "down":
		if len(rows) > 0 {
			v.cursor = (v.cursor + 1) % len(rows)
		}
		m.view = v
		return m, nil
	case "k", "up":
		if len(rows) > 0 {
			v.cursor = (v.cursor - 1 + len(rows)) % len(rows)
		}
		m.view = v
		return m, nil
	case "n":
		m.overlay = newTaskDialog()
		return m, textinput.Blink
	case "N":
		m.overlay = newProjectDialog()
		return m, textinput.Blink
	}
	return m.handleSharedKey(key)
}

func (m Model) handleKanbanKey(v kanbanView, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.view = compactView{}
		return m, nil
	case "s":
		m.view = settingsView{}
		return m, nil
	case "p":
		m.view = projectsView{}
		return m, nil
	case "h", "left":
		m.view = moveColumn(m.items, m.filter, v, -1)
		return m, nil
	case "l", "right":
		m.view = moveColumn(m.items, m.filter, v, +1)
		return m, nil
	case "j", "down":
		m.view = moveRow(m.items, m.filter, v, +1)
		return m, nil
	case "k", "up":
		m.view = moveRow(m.items, m.filter, v, -1)
		return m, nil
	case "n":
		m.overlay = newTaskDialog()
		return m, textinput.Blink
	case "N":
		m.overlay = newProjectDialog()
		return m, textinput.Blink
	}
	return m.handleSharedKey(key)
}

func (m Model) handleProjectsKey(v projectsView, key string) (tea.Model, tea.Cmd) {
	projects := projectRows(m.items)

	switch key {
	case "esc", "q":
		m.view = compactView{}
		return m, nil
	case "j", "down":
		if len(projects) > 0 {
			v.cursor = (v.cursor + 1) % len(projects)
		}
		m.view = v
		return m, nil
	case "k", "up":
		if len(projects) > 0 {
			v.cursor = (v.cursor - 1 + len(projects)) % len(projects)
		}
		m.view = v
		return m, nil
	case "enter":
		if v.cursor < len(projects) {
			m.view = ganttView{projectID: projects[v.cursor].ID}
		}
		return m, nil
	case "n":
		m.overlay = newProjectDialog()
		return m, textinput.Blink
	case "e", "X", "g", "r", "G":
		return m.handleSharedKey(key)
	}
	return m, nil
}

func (m Model) handleGanttKey(v ganttView, key string) (tea.Model, tea.Cmd) {
	children := projectChildren(m.items, v.projectID)

	switch key {
	case "esc", "q":
		m.view = projectsView{cursor: projectIndex(m.items, v.projectID)}
		return m, nil
	case "j", "down":
		if len(children) > 0 {
			v.cursor = (v.cursor + 1) % len(children)
		}
		m.view = v
		return m, nil
	case "k", "up":
		if len(children) > 0 {
			v.cursor = (v.cursor - 1 + len(children)) % len(children)
		}
		m.view = v
		return m, nil
	case "H", "left":
		v.scrollDays -= 7
		m.view = v
		return m, nil
	case "L", "right":
		v.scrollDays += 7
		m.view = v
		return m, nil
	}
	return m.handleSharedKey(key)
}

func (m Model) handleSettingsKey(v settingsView, key string) (tea.Model, tea.Cmd) {
	count := settingsRowCount(m.cfg)
	row, idx := settingsRowAt(m.cfg, v.cursor)

	switch key {
	case "esc", "q":
		m.view = compactView{}
		return m, nil
	case "j", "down":
		v.cursor = (v.cursor + 1) % count
		m.view = v
		return m, nil
	case "k", "up":
		v.cursor = (v.cursor - 1 + count) % count
		m.view = v
		return m, nil
	case "enter", "a":
		switch row {
		case rowWorkstream:
			m.overlay = newEditDialog("Rename Workstream", m.cfg.Workstreams[idx].Name, rowWorkstream, idx)
		case rowAddWorkstream:
			m.overlay = newEditDialog("New Workstream", "", rowAddWorkstream, 0)
		case rowGoal:
			m.overlay = newEditDialog("Edit Goal", m.cfg.Goals[idx].Description, rowGoal, idx)
		case rowAddGoal:
			m.overlay = newEditDialog("New Goal", "", rowAddGoal, 0)
		}
		return m, textinput.Blink
	case "d":
		switch row {
		case rowWorkstream:
			name := m.cfg.Workstreams[idx].Name
			m.cfg.DeleteWorkstream(idx)
			if m.filter == name {
				m.filter = ""
			}
			m = m.saveConfig()
		case rowGoal:
			m.cfg.DeleteGoal(idx)
			m = m.saveConfig()
		}
		return m.reclamp(), nil
	case "p":
		if row == rowGoal {
			m.cfg.CycleGoalPriority(idx)
			m = m.saveConfig()
		}
		return m, nil
	case " ":
		if row == rowGoal {
			m.cfg.ToggleGoalActive(idx)
			m = m.saveConfig()
		}
		return m, nil
	}
	return m, nil
}

// handleSharedKey covers the mutations and actions available from every
// task-bearing view.
func (m Model) handleSharedKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case " ", "enter":
		return m.mutateSelected(storage.OpUpdate, func(it *task.Item) {
			it.Status = it.Status.Cycle()
		})
	case "x":
		return m.mutateSelected(storage.OpDone, func(it *task.Item) {
			it.Status = task.StatusDone
		})
	case "e":
		return m.mutateSelected(storage.OpArchive, func(it *task.Item) {
			it.Status = task.StatusArchived
		})
	case "X":
		return m.deleteSelected()
	case "+", "=":
		return m.mutateSelected(storage.OpUpdate, func(it *task.Item) {
			if it.Priority != task.PriorityHigh {
				it.Priority = it.Priority.Next()
			}
		})
	case "-":
		return m.mutateSelected(storage.OpUpdate, func(it *task.Item) {
			if it.Priority != task.PriorityLow {
				it.Priority = it.Priority.Prev()
			}
		})
	case "P":
		return m.mutateSelected(storage.OpUpdate, func(it *task.Item) {
			it.Priority = it.Priority.Next()
		})
	case "g":
		if it := m.selectedItem(); it != nil {
			m.overlay = detailOverlay{item: it}
		}
		return m, nil
	case "r":
		return m.refresh()
	case "G":
		return m.startSync()
	}

	if r := singleRune(key); r >= '0' && r <= '9' {
		return m.toggleFilter(r), nil
	}
	return m, nil
}

// selectedItem resolves the cursor of the current view to an item.
func (m Model) selectedItem() *task.Item {
	switch v := m.view.(type) {
	case compactView:
		rows := compactRows(m.items, m.filter)
		if v.cursor >= 0 && v.cursor < len(rows) {
			return rows[v.cursor]
		}
	case kanbanView:
		items := columnItems(m.items, m.filter, v.col)
		if v.row >= 0 && v.row < len(items) {
			return items[v.row]
		}
	case projectsView:
		projects := projectRows(m.items)
		if v.cursor >= 0 && v.cursor < len(projects) {
			return projects[v.cursor]
		}
	case ganttView:
		children := projectChildren(m.items, v.projectID)
		if v.cursor >= 0 && v.cursor < len(children) {
			return children[v.cursor]
		}
	}
	return nil
}

// mutateSelected applies a field change to the selected item, persists it
// and reclamps the cursor. The mutation is skipped entirely when nothing
// is selected.
func (m Model) mutateSelected(op string, mutate func(*task.Item)) (tea.Model, tea.Cmd) {
	it := m.selectedItem()
	if it == nil {
		return m, nil
	}
	mutate(it)
	if _, err := m.store.Write(it); err != nil {
		m.status = "write failed: " + err.Error()
		return m, nil
	}
	m.record(op, it)
	return m.reclamp(), nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	it := m.selectedItem()
	if it == nil {
		return m, nil
	}
	if err := m.store.Delete(it); err != nil {
		m.status = "delete failed: " + err.Error()
		return m, nil
	}
	m.record(storage.OpDelete, it)
	m.items = removeItem(m.items, it.ID)
	m.status = "deleted: " + it.Title
	return m.reclamp(), nil
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	items, err := m.store.LoadAll()
	if err != nil {
		m.status = "refresh failed: " + err.Error()
		return m, nil
	}
	m.items = items
	m.status = fmt.Sprintf("%d items", len(items))
	return m.reclamp(), nil
}

func (m Model) startSync() (tea.Model, tea.Cmd) {
	m.status = "syncing…"
	syncer := m.syncer
	return m, func() tea.Msg {
		ctx := context.Background()
		if err := syncer.InitIfNeeded(ctx); err != nil {
			return syncDoneMsg{err: err}
		}
		return syncDoneMsg{err: syncer.Sync(ctx, "Update tasks")}
	}
}

// finishCapture applies the enrichment result of the new-task dialog. A
// result for a cancelled dialog carries a stale raw and is dropped.
func (m Model) finishCapture(msg enrichedMsg) (tea.Model, tea.Cmd) {
	if m.pendingCapture == "" || msg.raw != m.pendingCapture {
		return m, nil
	}
	m.pendingCapture = ""
	m.overlay = nil

	it := task.New(msg.fields.Title, task.TypeTask)
	msg.fields.Apply(it)

	if _, err := m.store.Write(it); err != nil {
		m.status = "write failed: " + err.Error()
		return m, nil
	}
	m.record(storage.OpCreate, it)
	m.items = append(m.items, it)
	m.status = "created: " + it.Title
	return m.selectItem(it.ID), nil
}

func (m Model) createProject(title string) (tea.Model, tea.Cmd) {
	it := task.NewProject(title)
	if _, err := m.store.Write(it); err != nil {
		m.status = "write failed: " + err.Error()
		return m, nil
	}
	m.record(storage.OpCreate, it)
	m.items = append(m.items, it)
	m.status = "created project: " + it.Title

	if _, ok := m.view.(projectsView); ok {
		m.view = projectsView{cursor: projectIndex(m.items, it.ID)}
	}
	return m, nil
}

func (m Model) applySettingsEdit(msg settingsSubmittedMsg) (tea.Model, tea.Cmd) {
	switch msg.target {
	case rowWorkstream:
		old := ""
		if msg.index < len(m.cfg.Workstreams) {
			old = m.cfg.Workstreams[msg.index].Name
		}
		if m.cfg.RenameWorkstream(msg.index, msg.text) && m.filter == old {
			m.filter = msg.text
		}
	case rowAddWorkstream:
		if key := m.cfg.AddWorkstream(msg.text); key == 0 {
			m.status = "no free workstream keys"
			return m, nil
		}
	case rowGoal:
		m.cfg.UpdateGoal(msg.index, msg.text)
	case rowAddGoal:
		m.cfg.AddGoal(msg.text, "general")
	}
	m = m.saveConfig()
	return m.reclamp(), nil
}

// selectItem moves the current view's cursor onto the given id, when the
// view can show it.
func (m Model) selectItem(id string) Model {
	switch v := m.view.(type) {
	case compactView:
		for i, it := range compactRows(m.items, m.filter) {
			if it.ID == id {
				v.cursor = i
				m.view = v
				return m
			}
		}
	case kanbanView:
		for col := range kanbanColumns {
			for row, it := range columnItems(m.items, m.filter, col) {
				if it.ID == id {
					m.view = kanbanView{col: col, row: row}
					return m
				}
			}
		}
	}
	return m.reclamp()
}

// toggleFilter switches the single-tag workstream filter; the same key
// again, or 0, clears it. Cursors restart from the top of the narrowed
// slices.
func (m Model) toggleFilter(r rune) Model {
	if r == '0' {
		m.filter = ""
		return m.resetCursor()
	}
	ws := m.cfg.WorkstreamByKey(r)
	if ws == nil {
		return m
	}
	if m.filter == ws.Name {
		m.filter = ""
	} else {
		m.filter = ws.Name
	}
	return m.resetCursor()
}

func (m Model) resetCursor() Model {
	switch v := m.view.(type) {
	case compactView:
		v.cursor = 0
		m.view = v
	case kanbanView:
		v.row = 0
		m.view = v
	}
	return m
}

// reclamp pulls every cursor back into the bounds of its freshly derived
// slice. Any mutation that can shrink a backing slice runs through here
// before the next render.
func (m Model) reclamp() Model {
	switch v := m.view.(type) {
	case compactView:
		v.cursor = clampIndex(v.cursor, len(compactRows(m.items, m.filter)))
		m.view = v
	case kanbanView:
		count := len(columnItems(m.items, m.filter, v.col))
		v.row = clampIndex(v.row, count)
		m.view = v
	case projectsView:
		v.cursor = clampIndex(v.cursor, len(projectRows(m.items)))
		m.view = v
	case ganttView:
		if task.FindByID(m.items, v.projectID) == nil {
			m.view = projectsView{}
			return m
		}
		v.cursor = clampIndex(v.cursor, len(projectChildren(m.items, v.projectID)))
		m.view = v
	case settingsView:
		v.cursor = clampIndex(v.cursor, settingsRowCount(m.cfg))
		m.view = v
	}
	return m
}

func (m Model) saveConfig() Model {
	if err := config.Save(m.cfg, config.ConfigPath(m.dataDir)); err != nil {
		m.status = "config save failed: " + err.Error()
	}
	return m
}

func (m *Model) record(op string, it *task.Item) {
	if m.activity != nil {
		m.activity.Record(op, it)
	}
}

func (m Model) renderHeader(sub string) string {
	th := m.theme
	title := th.Title.Render("▍taskdeck") + "  " + th.Dim.Render(sub)
	if m.filter != "" {
		title += "  " + th.Tag.Render("#"+m.filter)
	}
	return title + "\n" + th.Border.Render(strings.Repeat("─", max(m.width, 20))) + "\n"
}

func (m Model) renderFooter(help string) string {
	th := m.theme
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(th.Border.Render(strings.Repeat("─", max(m.width, 20))) + "\n")
	if m.status != "" {
		b.WriteString(th.Status.Render(m.status) + "\n")
	}
	b.WriteString(th.Dim.Render(help))
	return b.String()
}

func clampIndex(i, count int) int {
	if count == 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func projectIndex(items []*task.Item, id string) int {
	for i, it := range projectRows(items) {
		if it.ID == id {
			return i
		}
	}
	return 0
}

func removeItem(items []*task.Item, id string) []*task.Item {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func singleRune(key string) rune {
	runes := []rune(key)
	if len(runes) != 1 {
		return 0
	}
	return runes[0]
}
