package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dohr-michael/taskdeck/internal/task"
)

func sampleItem() *task.Item {
	progress := 40
	return &task.Item{
		ID:           "2f1f9c3a-8f64-4a27-9d3e-0c1b2a3d4e5f",
		Type:         task.TypeTask,
		Title:        "Write onboarding doc",
		Status:       task.StatusActive,
		Priority:     task.PriorityHigh,
		Tags:         []string{"work", "docs"},
		DueDate:      "2026-09-01",
		StartDate:    "2026-08-20",
		EndDate:      "2026-09-01",
		Progress:     &progress,
		ParentGoalID: "11111111-2222-3333-4444-555555555555",
		CreatedAt:    time.Date(2026, 8, 18, 9, 30, 0, 0, time.UTC),
		Body:         "First draft lives in the shared folder.\n\nPing Sam for review.",
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleItem()
	data, err := Serialize(want)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Parse(data, "sample.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	got.Body, want.Body = "", ""
	got.CreatedAt, want.CreatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRoundTripBody(t *testing.T) {
	want := sampleItem()
	data, err := Serialize(want)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Parse(data, "sample.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Body != want.Body {
		t.Errorf("body = %q, want %q", got.Body, want.Body)
	}
}

func TestParseDefaultsPriority(t *testing.T) {
	raw := "---\nid: abc\ntype: task\ntitle: t\nstatus: active\ncreated_at: 2026-08-18T09:30:00Z\n---\n\nbody\n"
	it, err := Parse([]byte(raw), "t.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if it.Priority != task.PriorityMedium {
		t.Errorf("priority = %q, want medium", it.Priority)
	}
	if len(it.Tags) != 0 {
		t.Errorf("tags = %v, want empty", it.Tags)
	}
}

func TestParseOpaqueDates(t *testing.T) {
	raw := "---\nid: abc\ntype: task\ntitle: t\nstatus: active\ndue_date: next tuesday-ish\ncreated_at: 2026-08-18T09:30:00Z\n---\n\n"
	it, err := Parse([]byte(raw), "t.md")
	if err != nil {
		t.Fatalf("Parse rejected opaque date: %v", err)
	}
	if it.DueDate != "next tuesday-ish" {
		t.Errorf("due_date = %q", it.DueDate)
	}
}

func TestParseMissingDelimiters(t *testing.T) {
	_, err := Parse([]byte("---\nid: abc\ntitle: no closing marker\n"), "t.md")
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing id", "---\ntype: task\ntitle: t\nstatus: active\ncreated_at: 2026-08-18T09:30:00Z\n---\n\n"},
		{"missing title", "---\nid: abc\ntype: task\nstatus: active\ncreated_at: 2026-08-18T09:30:00Z\n---\n\n"},
		{"missing created_at", "---\nid: abc\ntype: task\ntitle: t\nstatus: active\n---\n\n"},
		{"unknown status", "---\nid: abc\ntype: task\ntitle: t\nstatus: paused\ncreated_at: 2026-08-18T09:30:00Z\n---\n\n"},
		{"unknown type", "---\nid: abc\ntype: epic\ntitle: t\nstatus: active\ncreated_at: 2026-08-18T09:30:00Z\n---\n\n"},
		{"not a mapping", "---\n- just\n- a list\n---\n\n"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.raw), "t.md")
		var serr *SchemaError
		if !errors.As(err, &serr) {
			t.Errorf("%s: expected SchemaError, got %v", tc.name, err)
		}
	}
}

func TestLoadAllTolerant(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	good := sampleItem()
	if _, err := store.Write(good); err != nil {
		t.Fatalf("Write: %v", err)
	}
	bad := "---\nid: broken\ntitle: missing closing delimiter\n"
	if err := os.WriteFile(filepath.Join(dir, "broken.md"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write txt file: %v", err)
	}

	items, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("LoadAll returned %d items, want 1", len(items))
	}
	if items[0].ID != good.ID {
		t.Errorf("loaded id = %q, want %q", items[0].ID, good.ID)
	}
}

func TestLoadAllMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))
	items, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll on missing dir: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d", len(items))
	}
}

func TestWriteGetDelete(t *testing.T) {
	store := NewStore(t.TempDir())
	it := sampleItem()

	path, err := store.Write(it)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != it.ID+".md" {
		t.Errorf("path = %q, want filename derived from id", path)
	}

	got, err := store.Get(it.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != it.Title {
		t.Errorf("Get title = %q, want %q", got.Title, it.Title)
	}

	if _, err := store.Get("missing-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}

	if err := store.Delete(it); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(it); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestWriteOverwrites(t *testing.T) {
	store := NewStore(t.TempDir())
	it := sampleItem()
	if _, err := store.Write(it); err != nil {
		t.Fatalf("Write: %v", err)
	}
	it.Title = "Rewritten"
	it.Status = task.StatusDone
	if _, err := store.Write(it); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	got, err := store.Get(it.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Rewritten" || got.Status != task.StatusDone {
		t.Errorf("overwrite lost fields: %+v", got)
	}
}

func TestListAppliesFilter(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, tags := range [][]string{{"work"}, {"work", "urgent"}, {"personal", "urgent"}} {
		it := task.New("t", task.TypeTask)
		it.Tags = tags
		if _, err := store.Write(it); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	got, err := store.List(task.Filter{Tags: []string{"work", "urgent"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List returned %d items, want 1", len(got))
	}
}

func TestActivityLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	log := NewActivityLog(path)

	it := sampleItem()
	log.Record(OpCreate, it)
	log.Record(OpDone, it)

	// A torn line must not poison later reads.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("{\"at\": torn\n"); err != nil {
		t.Fatalf("append torn line: %v", err)
	}
	f.Close()
	log.Record(OpArchive, it)

	entries, err := log.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ReadAll returned %d entries, want 3", len(entries))
	}
	if entries[0].Op != OpCreate || entries[2].Op != OpArchive {
		t.Errorf("ops = %s..%s, want create..archive", entries[0].Op, entries[2].Op)
	}
	if entries[0].TaskID != it.ID {
		t.Errorf("task_id = %q, want %q", entries[0].TaskID, it.ID)
	}
}

func TestActivityLogMissingFile(t *testing.T) {
	log := NewActivityLog(filepath.Join(t.TempDir(), "none.jsonl"))
	entries, err := log.ReadAll()
	if err != nil || entries != nil {
		t.Fatalf("ReadAll on missing file = %v, %v", entries, err)
	}
}
