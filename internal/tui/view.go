package tui

// viewState is the current view with its private cursor state. Exactly one
// variant is held at a time, so a kanban cursor cannot exist while the
// compact list is shown.
type viewState interface {
	isView()
}

// compactView is the flat list: one linear cursor over the concatenation
// of the active, next and capped done groups.
type compactView struct {
	cursor int
}

// kanbanView is the four-column board. col indexes the fixed status
// columns, row indexes the current column's tasks.
type kanbanView struct {
	col int
	row int
}

// settingsView hosts the workstream and goal rows plus their synthetic
// add-new slots.
type settingsView struct {
	cursor int
}

// projectsView lists project items with child rollups.
type projectsView struct {
	cursor int
}

// ganttView is one project's timeline. scrollDays shifts the window in
// whole days and is independent of the cursor.
type ganttView struct {
	projectID  string
	cursor     int
	scrollDays int
}

func (compactView) isView()  {}
func (kanbanView) isView()   {}
func (settingsView) isView() {}
func (projectsView) isView() {}
func (ganttView) isView()    {}
