package task

import (
	"errors"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	it := New("write report", TypeTask)
	if it.ID == "" {
		t.Fatal("expected generated id")
	}
	if it.Status != StatusActive {
		t.Errorf("status = %q, want %q", it.Status, StatusActive)
	}
	if it.Priority != PriorityMedium {
		t.Errorf("priority = %q, want %q", it.Priority, PriorityMedium)
	}
	if it.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"active", StatusActive, true},
		{"Next", StatusNext, true},
		{"  waiting ", StatusWaiting, true},
		{"DONE", StatusDone, true},
		{"archived", StatusArchived, true},
		{"paused", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("ParseStatus(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ParseStatus(%q): expected ValidationError, got %v", tc.in, err)
		}
	}
}

func TestParsePriorityAndType(t *testing.T) {
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
	p, err := ParsePriority("High")
	if err != nil || p != PriorityHigh {
		t.Errorf("ParsePriority(High) = %q, %v", p, err)
	}
	if _, err := ParseItemType("epic"); err == nil {
		t.Error("expected error for unknown type")
	}
	typ, err := ParseItemType("project")
	if err != nil || typ != TypeProject {
		t.Errorf("ParseItemType(project) = %q, %v", typ, err)
	}
}

func TestPriorityOrdering(t *testing.T) {
	if !(PriorityLow.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityHigh.Rank()) {
		t.Error("priority rank order broken")
	}
	if PriorityHigh.Next() != PriorityLow {
		t.Errorf("Next(high) = %q, want low", PriorityHigh.Next())
	}
	if PriorityLow.Next() != PriorityMedium {
		t.Errorf("Next(low) = %q, want medium", PriorityLow.Next())
	}
}

func itemWithTags(title string, tags ...string) *Item {
	it := New(title, TypeTask)
	it.Tags = tags
	return it
}

func TestFilterTagsAllRequired(t *testing.T) {
	a := itemWithTags("a", "work")
	b := itemWithTags("b", "work", "urgent")
	c := itemWithTags("c", "personal", "urgent")

	got := Apply([]*Item{a, b, c}, Filter{Tags: []string{"work", "urgent"}})
	if len(got) != 1 || got[0] != b {
		t.Fatalf("tags AND filter returned %d items, want exactly b", len(got))
	}
}

func TestFilterTagsCaseSensitive(t *testing.T) {
	a := itemWithTags("a", "Work")
	got := Apply([]*Item{a}, Filter{Tags: []string{"work"}})
	if len(got) != 0 {
		t.Fatal("tag filter must not fold case")
	}
}

func TestSortPriorityBeforeRecency(t *testing.T) {
	now := time.Now()
	x := New("x", TypeTask)
	x.Priority = PriorityHigh
	x.CreatedAt = now.Add(-24 * time.Hour)
	y := New("y", TypeTask)
	y.Priority = PriorityMedium
	y.CreatedAt = now

	items := []*Item{y, x}
	Sort(items)
	if items[0] != x || items[1] != y {
		t.Fatalf("sort order = [%s %s], want [x y]", items[0].Title, items[1].Title)
	}
}

func TestSortStableWithinEqualKeys(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var items []*Item
	for _, title := range []string{"one", "two", "three"} {
		it := New(title, TypeTask)
		it.CreatedAt = at
		items = append(items, it)
	}
	Sort(items)
	if items[0].Title != "one" || items[1].Title != "two" || items[2].Title != "three" {
		t.Fatalf("equal-key order changed: %s %s %s", items[0].Title, items[1].Title, items[2].Title)
	}
}

func TestApplyLimitAfterSort(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var items []*Item
	for i := 0; i < 5; i++ {
		it := New("t", TypeTask)
		it.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		items = append(items, it)
	}
	items[3].Priority = PriorityHigh

	got := Apply(items, Filter{Limit: 2})
	if len(got) != 2 {
		t.Fatalf("limit 2 returned %d items", len(got))
	}
	// Highest priority first, then the newest of the rest.
	if got[0] != items[3] || got[1] != items[4] {
		t.Errorf("limit returned wrong prefix: %v %v", got[0].CreatedAt, got[1].CreatedAt)
	}
}

func TestFilterStatusAndType(t *testing.T) {
	a := New("a", TypeTask)
	a.Status = StatusDone
	b := New("b", TypeProject)

	st := StatusDone
	got := Apply([]*Item{a, b}, Filter{Status: &st})
	if len(got) != 1 || got[0] != a {
		t.Fatalf("status filter returned %d items", len(got))
	}

	typ := TypeProject
	got = Apply([]*Item{a, b}, Filter{Type: &typ})
	if len(got) != 1 || got[0] != b {
		t.Fatalf("type filter returned %d items", len(got))
	}
}

func TestSingleTagPolicy(t *testing.T) {
	it := itemWithTags("t", "Work")
	if it.HasTag("work") {
		t.Error("HasTag must be case-sensitive")
	}
	if !it.HasTag("Work") {
		t.Error("HasTag missed exact tag")
	}
	if !it.HasTagFold("work") {
		t.Error("HasTagFold should fold case")
	}
}

func TestAddRemoveTag(t *testing.T) {
	it := New("t", TypeTask)
	it.AddTag("work")
	it.AddTag("work")
	if len(it.Tags) != 1 {
		t.Fatalf("duplicate tag added: %v", it.Tags)
	}
	it.RemoveTag("work")
	if it.Tags != nil {
		t.Fatalf("expected nil tags after removal, got %v", it.Tags)
	}
}

func TestEffectiveProgressForcedOnCompletion(t *testing.T) {
	p := 30
	it := New("t", TypeTask)
	it.Progress = &p
	if got := it.EffectiveProgress(); got != 30 {
		t.Errorf("EffectiveProgress = %d, want 30", got)
	}
	it.Status = StatusDone
	if got := it.EffectiveProgress(); got != 100 {
		t.Errorf("done item progress = %d, want 100", got)
	}
	it.Status = StatusArchived
	if got := it.EffectiveProgress(); got != 100 {
		t.Errorf("archived item progress = %d, want 100", got)
	}
}

func TestChildrenOfAndFindByID(t *testing.T) {
	proj := NewProject("launch")
	child := New("child", TypeTask)
	child.ParentGoalID = proj.ID
	other := New("other", TypeTask)

	items := []*Item{proj, child, other}
	kids := ChildrenOf(items, proj.ID)
	if len(kids) != 1 || kids[0] != child {
		t.Fatalf("ChildrenOf returned %d items", len(kids))
	}
	if FindByID(items, proj.ID) != proj {
		t.Error("FindByID missed project")
	}
	if FindByID(items, "missing") != nil {
		t.Error("FindByID should return nil for dangling id")
	}
}
