package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/taskdeck/internal/storage"
	"github.com/dohr-michael/taskdeck/internal/task"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewStore(filepath.Join(dir, "tasks"))
	activity := storage.NewActivityLog(filepath.Join(dir, "activity.jsonl"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(store, nil, activity, logger)
}

func mustCreate(t *testing.T, s *Server, input CreateTaskInput) CreateTaskOutput {
	t.Helper()
	_, out, err := s.handleCreateTask(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("create_task: %v", err)
	}
	return out
}

func TestCreateTaskStructured(t *testing.T) {
	s := newTestServer(t)
	out := mustCreate(t, s, CreateTaskInput{
		Title:    "Call Mom",
		Context:  "She mentioned the garden.",
		DueDate:  "2026-08-26",
		Priority: "high",
		Tags:     []string{"personal"},
	})

	if out.ID == "" || out.Status != "created" {
		t.Fatalf("output = %+v", out)
	}

	it, err := s.store.Get(out.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if it.Title != "Call Mom" || it.Priority != task.PriorityHigh || it.DueDate != "2026-08-26" {
		t.Errorf("stored item = %+v", it)
	}
	if it.Body != "She mentioned the garden." {
		t.Errorf("body = %q", it.Body)
	}
	if it.Status != task.StatusActive || it.Type != task.TypeTask {
		t.Errorf("defaults = %s/%s", it.Status, it.Type)
	}
}

func TestCreateTaskRawInputWithoutEnricher(t *testing.T) {
	s := newTestServer(t)
	out := mustCreate(t, s, CreateTaskInput{RawInput: "call mom tomorrow"})
	it, err := s.store.Get(out.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// No enrichment configured: the capture is stored verbatim.
	if it.Title != "call mom tomorrow" {
		t.Errorf("title = %q", it.Title)
	}
}

func TestCreateTaskExplicitOverridesParsed(t *testing.T) {
	s := newTestServer(t)
	out := mustCreate(t, s, CreateTaskInput{
		RawInput: "call mom tomorrow",
		Priority: "low",
		Tags:     []string{"family"},
	})
	it, _ := s.store.Get(out.ID)
	if it.Priority != task.PriorityLow {
		t.Errorf("priority = %q, want explicit low", it.Priority)
	}
	if len(it.Tags) != 1 || it.Tags[0] != "family" {
		t.Errorf("tags = %v", it.Tags)
	}
}

func TestCreateTaskRequiresInput(t *testing.T) {
	s := newTestServer(t)
	if _, _, err := s.handleCreateTask(context.Background(), nil, CreateTaskInput{}); err == nil {
		t.Fatal("expected error without raw_input or title")
	}
}

func TestCreateTaskRejectsBadEnums(t *testing.T) {
	s := newTestServer(t)
	var ve *task.ValidationError

	_, _, err := s.handleCreateTask(context.Background(), nil, CreateTaskInput{Title: "t", Priority: "urgent"})
	if !errors.As(err, &ve) {
		t.Errorf("priority error = %v, want validation error", err)
	}
	_, _, err = s.handleCreateTask(context.Background(), nil, CreateTaskInput{Title: "t", Type: "epic"})
	if !errors.As(err, &ve) {
		t.Errorf("type error = %v, want validation error", err)
	}
}

func TestUpdateTaskFields(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateTaskInput{Title: "Draft report", Context: "First note"}).ID

	steps := []UpdateTaskInput{
		{ID: id, Field: "title", Value: "Draft quarterly report"},
		{ID: id, Field: "status", Value: "waiting"},
		{ID: id, Field: "priority", Value: "low"},
		{ID: id, Field: "due_date", Value: "2026-09-01"},
		{ID: id, Field: "start_date", Value: "2026-08-20"},
		{ID: id, Field: "end_date", Value: "2026-09-05"},
		{ID: id, Field: "progress", Value: "42"},
		{ID: id, Field: "notes", Value: "Second note"},
	}
	for _, in := range steps {
		if _, _, err := s.handleUpdateTask(ctx, nil, in); err != nil {
			t.Fatalf("update %s: %v", in.Field, err)
		}
	}

	it, err := s.store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if it.Title != "Draft quarterly report" || it.Status != task.StatusWaiting || it.Priority != task.PriorityLow {
		t.Errorf("item = %+v", it)
	}
	if it.DueDate != "2026-09-01" || it.StartDate != "2026-08-20" || it.EndDate != "2026-09-05" {
		t.Errorf("dates = %q/%q/%q", it.DueDate, it.StartDate, it.EndDate)
	}
	if it.Progress == nil || *it.Progress != 42 {
		t.Errorf("progress = %v", it.Progress)
	}
	if it.Body != "First note\n\nSecond note" {
		t.Errorf("body = %q", it.Body)
	}
}

func TestUpdateTaskRejectsUnknownField(t *testing.T) {
	s := newTestServer(t)
	id := mustCreate(t, s, CreateTaskInput{Title: "t"}).ID

	var ve *task.ValidationError
	_, _, err := s.handleUpdateTask(context.Background(), nil, UpdateTaskInput{ID: id, Field: "color", Value: "red"})
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestUpdateTaskInvalidValueLeavesTaskUntouched(t *testing.T) {
	s := newTestServer(t)
	id := mustCreate(t, s, CreateTaskInput{Title: "t"}).ID

	if _, _, err := s.handleUpdateTask(context.Background(), nil, UpdateTaskInput{ID: id, Field: "status", Value: "paused"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
	it, _ := s.store.Get(id)
	if it.Status != task.StatusActive {
		t.Errorf("status mutated to %q despite invalid value", it.Status)
	}
}

func TestUpdateTaskProgressBounds(t *testing.T) {
	s := newTestServer(t)
	id := mustCreate(t, s, CreateTaskInput{Title: "t"}).ID

	for _, v := range []string{"150", "-1", "abc", ""} {
		if _, _, err := s.handleUpdateTask(context.Background(), nil, UpdateTaskInput{ID: id, Field: "progress", Value: v}); err == nil {
			t.Errorf("progress %q accepted", v)
		}
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleUpdateTask(context.Background(), nil, UpdateTaskInput{ID: "nope", Field: "title", Value: "x"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	mustCreate(t, s, CreateTaskInput{Title: "A", Tags: []string{"work"}})
	mustCreate(t, s, CreateTaskInput{Title: "B", Tags: []string{"work", "urgent"}})
	idC := mustCreate(t, s, CreateTaskInput{Title: "C", Tags: []string{"personal"}}).ID
	if _, _, err := s.handleCompleteTask(ctx, nil, CompleteTaskInput{ID: idC}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, out, err := s.handleListTasks(ctx, nil, ListTasksInput{Status: "active"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("active count = %d, want 2", out.Count)
	}

	_, out, err = s.handleListTasks(ctx, nil, ListTasksInput{Tags: []string{"work", "urgent"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Count != 1 || out.Tasks[0].Title != "B" {
		t.Errorf("AND tags = %+v", out.Tasks)
	}

	result, out, err := s.handleListTasks(ctx, nil, ListTasksInput{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("limited count = %d", out.Count)
	}
	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("content type = %T", result.Content[0])
	}
	if !strings.Contains(tc.Text, "TITLE") {
		t.Errorf("table missing header: %q", tc.Text)
	}
}

func TestListTasksRejectsBadStatus(t *testing.T) {
	s := newTestServer(t)
	if _, _, err := s.handleListTasks(context.Background(), nil, ListTasksInput{Status: "paused"}); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}

func TestReadTaskRoundTrip(t *testing.T) {
	s := newTestServer(t)
	id := mustCreate(t, s, CreateTaskInput{Title: "Call Mom", Context: "notes here", DueDate: "2026-08-26"}).ID

	_, out, err := s.handleReadTask(context.Background(), nil, ReadTaskInput{ID: id})
	if err != nil {
		t.Fatalf("read_task: %v", err)
	}
	if out.Title != "Call Mom" || out.Body != "notes here" || out.DueDate != "2026-08-26" {
		t.Errorf("output = %+v", out)
	}
	if out.Status != "active" || out.Type != "task" || out.CreatedAt == "" {
		t.Errorf("output meta = %+v", out)
	}
}

func TestCompleteTaskAndActivityTrail(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateTaskInput{Title: "t"}).ID

	_, out, err := s.handleCompleteTask(ctx, nil, CompleteTaskInput{ID: id})
	if err != nil {
		t.Fatalf("complete_task: %v", err)
	}
	if out.Status != "completed" {
		t.Errorf("output = %+v", out)
	}

	it, _ := s.store.Get(id)
	if it.Status != task.StatusDone {
		t.Errorf("status = %q", it.Status)
	}

	entries, err := s.activity.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 || entries[0].Op != storage.OpCreate || entries[1].Op != storage.OpDone {
		t.Errorf("activity trail = %+v", entries)
	}
}

func TestRenderDailySummary(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	due := task.New("Call Mom", task.TypeTask)
	due.DueDate = "2026-08-25"
	doneDue := task.New("Old chore", task.TypeTask)
	doneDue.DueDate = "2026-08-25"
	doneDue.Status = task.StatusDone
	later := task.New("Plan trip", task.TypeTask)
	later.DueDate = "2026-09-01"

	out := renderDailySummary([]*task.Item{due, doneDue, later}, now)

	if !strings.Contains(out, "active: 2") || !strings.Contains(out, "done: 1") {
		t.Errorf("counts wrong:\n%s", out)
	}
	if !strings.Contains(out, "Due today (1):") || !strings.Contains(out, "Call Mom") {
		t.Errorf("due list wrong:\n%s", out)
	}
	if strings.Contains(out, "Old chore") {
		t.Errorf("finished task listed as due:\n%s", out)
	}
}

func TestRenderTaskTableEmpty(t *testing.T) {
	if got := renderTaskTable(nil); got != "no tasks" {
		t.Errorf("empty table = %q", got)
	}
}
