package task

import "sort"

// Filter selects and bounds a listing. It is a pure value recreated per
// query. Tags use AND semantics: an item matches only when it carries
// every listed tag, case-sensitively. This is intentionally different
// from the interactive single-tag policy of Item.HasTag.
type Filter struct {
	Status *Status
	Type   *ItemType
	Tags   []string
	Limit  int
}

// Matches reports whether a single item passes the filter, ignoring Limit.
func (f Filter) Matches(it *Item) bool {
	if f.Status != nil && it.Status != *f.Status {
		return false
	}
	if f.Type != nil && it.Type != *f.Type {
		return false
	}
	for _, tag := range f.Tags {
		if !it.HasTag(tag) {
			return false
		}
	}
	return true
}

// Apply filters, sorts and truncates the given set. The input slice is
// not mutated. Order: priority descending, then created_at descending,
// stable for equal keys. Limit truncates strictly after sorting.
func Apply(items []*Item, f Filter) []*Item {
	var out []*Item
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	Sort(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// Sort orders items in place: high priority first, newest first within
// equal priority.
func Sort(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority.Rank() != items[j].Priority.Rank() {
			return items[i].Priority.Rank() > items[j].Priority.Rank()
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
