// Package task defines the task item model shared by every view and
// interface: statuses, types, priorities, tags and the filter engine.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an item. There is no enforced
// transition graph: any status may be set by any mutation.
type Status string

const (
	StatusActive   Status = "active"
	StatusNext     Status = "next"
	StatusWaiting  Status = "waiting"
	StatusDone     Status = "done"
	StatusArchived Status = "archived"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusActive, StatusNext, StatusWaiting, StatusDone, StatusArchived}

// Cycle advances through the working statuses: active → next → waiting →
// done → active. Archived is outside the cycle and maps to itself.
func (s Status) Cycle() Status {
	switch s {
	case StatusActive:
		return StatusNext
	case StatusNext:
		return StatusWaiting
	case StatusWaiting:
		return StatusDone
	case StatusDone:
		return StatusActive
	default:
		return s
	}
}

// ItemType distinguishes what kind of record an item is. Projects live in
// the same store as tasks and are discovered by this predicate alone.
type ItemType string

const (
	TypeTask    ItemType = "task"
	TypeGoal    ItemType = "goal"
	TypeNote    ItemType = "note"
	TypeProject ItemType = "project"
)

// Priority is ordered: Low < Medium < High.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the sort weight of a priority (higher sorts first).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Next cycles low → medium → high → low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Prev cycles in the other direction: high → medium → low → high.
func (p Priority) Prev() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

// ValidationError reports an invalid field value supplied for a mutation.
// The mutation is rejected as a whole; no partial state is applied.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusNext:
		return StatusNext, nil
	case StatusWaiting:
		return StatusWaiting, nil
	case StatusDone:
		return StatusDone, nil
	case StatusArchived:
		return StatusArchived, nil
	}
	return "", &ValidationError{Field: "status", Value: s}
}

// ParseItemType converts a user-supplied string into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeTask:
		return TypeTask, nil
	case TypeGoal:
		return TypeGoal, nil
	case TypeNote:
		return TypeNote, nil
	case TypeProject:
		return TypeProject, nil
	}
	return "", &ValidationError{Field: "type", Value: s}
}

// ParsePriority converts a user-supplied string into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", &ValidationError{Field: "priority", Value: s}
}

// Item is the unit entity: a task, goal, note or project, stored as one
// file whose name derives from ID. Dates are opaque ISO-like strings and
// are not validated here; consumers parse them lazily.
type Item struct {
	ID           string    `yaml:"id"`
	Type         ItemType  `yaml:"type"`
	Title        string    `yaml:"title"`
	Status       Status    `yaml:"status"`
	Priority     Priority  `yaml:"priority"`
	Tags         []string  `yaml:"tags,omitempty"`
	DueDate      string    `yaml:"due_date,omitempty"`
	StartDate    string    `yaml:"start_date,omitempty"`
	EndDate      string    `yaml:"end_date,omitempty"`
	Progress     *int      `yaml:"progress,omitempty"`
	ParentGoalID string    `yaml:"parent_goal_id,omitempty"`
	CreatedAt    time.Time `yaml:"created_at"`

	// Body is the free-form markdown below the header; it is stored in the
	// same file but is not part of the structured header.
	Body string `yaml:"-"`
}

// New creates an item with a fresh id, status active and medium priority.
func New(title string, typ ItemType) *Item {
	return &Item{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Status:    StatusActive,
		Priority:  PriorityMedium,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// NewProject creates a project item.
func NewProject(title string) *Item {
	return New(title, TypeProject)
}

// IsProject reports whether the item acts as a project.
func (it *Item) IsProject() bool { return it.Type == TypeProject }

// HasTag reports whether the item carries the tag, case-sensitively.
// This single-tag exact match is the policy of the interactive
// workstream filter; programmatic listing uses Filter.Matches, which
// applies AND semantics across multiple tags instead.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasTagFold is the case-insensitive variant used only by the workstream
// grouping counts.
func (it *Item) HasTagFold(tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DueOn reports whether the stored due date falls on the given day. The
// comparison is textual, so opaque date strings never match.
func (it *Item) DueOn(day time.Time) bool {
	return it.DueDate != "" && strings.HasPrefix(it.DueDate, day.Format("2006-01-02"))
}

// AddTag appends the tag unless already present.
func (it *Item) AddTag(tag string) {
	if !it.HasTag(tag) {
		it.Tags = append(it.Tags, tag)
	}
}

// RemoveTag deletes the tag if present.
func (it *Item) RemoveTag(tag string) {
	out := it.Tags[:0]
	for _, t := range it.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		it.Tags = nil
		return
	}
	it.Tags = out
}

// EffectiveProgress returns the stored percentage, with items in status
// done or archived forced to 100 regardless of the stored value.
func (it *Item) EffectiveProgress() int {
	if it.Status == StatusDone || it.Status == StatusArchived {
		return 100
	}
	if it.Progress == nil {
		return 0
	}
	p := *it.Progress
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// FindByID resolves an id to an item in the given set, or nil. Parent
// references are association only and may dangle after a project is
// deleted, so resolution happens per lookup, never via stored pointers.
func FindByID(items []*Item, id string) *Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// ChildrenOf returns the items whose parent reference equals the given
// project id, preserving input order.
func ChildrenOf(items []*Item, projectID string) []*Item {
	var out []*Item
	for _, it := range items {
		if it.ParentGoalID == projectID {
			out = append(out, it)
		}
	}
	return out
}
