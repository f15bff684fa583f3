package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/taskdeck/internal/enrich"
	"github.com/dohr-michael/taskdeck/internal/storage"
	"github.com/dohr-michael/taskdeck/internal/task"
)

// CreateTaskInput defines the input for the create_task tool.
type CreateTaskInput struct {
	RawInput     string   `json:"raw_input,omitempty" jsonschema:"Natural language capture (e.g. 'call mom tomorrow high priority'); parsed into title, due date, priority and tags when enrichment is configured"`
	Title        string   `json:"title,omitempty" jsonschema:"Task title, used verbatim when raw_input is not given"`
	Type         string   `json:"type,omitempty" jsonschema:"Item type: task, goal, note or project (default task)"`
	Context      string   `json:"context,omitempty" jsonschema:"Free-form notes stored as the task body"`
	DueDate      string   `json:"due_date,omitempty" jsonschema:"Due date in YYYY-MM-DD format"`
	Priority     string   `json:"priority,omitempty" jsonschema:"Priority: low, medium or high"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Tags for categorizing the task"`
	ParentGoalID string   `json:"parent_goal_id,omitempty" jsonschema:"ID of the project or goal this task belongs to"`
}

// CreateTaskOutput defines the output for the create_task tool.
type CreateTaskOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func createTaskTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "create_task",
		Description: "Create a new task. Use raw_input for natural language (e.g. 'call mom tomorrow high priority'), or provide structured fields directly. Explicit fields override parsed ones.",
	}
}

func (s *Server) handleCreateTask(ctx context.Context, req *mcpsdk.CallToolRequest, input CreateTaskInput) (*mcpsdk.CallToolResult, CreateTaskOutput, error) {
	var enriched enrich.Enriched
	switch {
	case strings.TrimSpace(input.RawInput) != "":
		enriched = s.enricher.Enrich(ctx, strings.TrimSpace(input.RawInput))
	case strings.TrimSpace(input.Title) != "":
		enriched = enrich.Simple(input.Title)
	default:
		return nil, CreateTaskOutput{}, fmt.Errorf("raw_input or title is required")
	}

	typ := task.TypeTask
	if input.Type != "" {
		var err error
		if typ, err = task.ParseItemType(input.Type); err != nil {
			return nil, CreateTaskOutput{}, err
		}
	}

	it := task.New(enriched.Title, typ)
	enriched.Apply(it)

	// Explicit arguments win over parsed fields.
	if input.Context != "" {
		it.Body = input.Context
	}
	if input.DueDate != "" {
		it.DueDate = input.DueDate
	}
	if input.Priority != "" {
		p, err := task.ParsePriority(input.Priority)
		if err != nil {
			return nil, CreateTaskOutput{}, err
		}
		it.Priority = p
	}
	if len(input.Tags) > 0 {
		it.Tags = input.Tags
	}
	if input.ParentGoalID != "" {
		it.ParentGoalID = input.ParentGoalID
	}

	if _, err := s.store.Write(it); err != nil {
		return nil, CreateTaskOutput{}, fmt.Errorf("write task: %w", err)
	}
	s.record(storage.OpCreate, it)
	s.logger.Info("create_task", "id", it.ID, "title", it.Title)

	return nil, CreateTaskOutput{ID: it.ID, Title: it.Title, Status: "created"}, nil
}

// UpdateTaskInput defines the input for the update_task tool.
type UpdateTaskInput struct {
	ID    string `json:"id" jsonschema:"required,Task id"`
	Field string `json:"field" jsonschema:"required,Field to update: title, status, priority, due_date, start_date, end_date, progress or notes"`
	Value string `json:"value" jsonschema:"required,New value; notes appends to the task body"`
}

// UpdateTaskOutput defines the output for the update_task tool.
type UpdateTaskOutput struct {
	ID     string `json:"id"`
	Field  string `json:"field"`
	Status string `json:"status"`
}

func updateTaskTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "update_task",
		Description: "Update a single task field or append notes to its body.",
	}
}

func (s *Server) handleUpdateTask(ctx context.Context, req *mcpsdk.CallToolRequest, input UpdateTaskInput) (*mcpsdk.CallToolResult, UpdateTaskOutput, error) {
	it, err := s.store.Get(input.ID)
	if err != nil {
		return nil, UpdateTaskOutput{}, err
	}

	op := storage.OpUpdate
	switch input.Field {
	case "title":
		if strings.TrimSpace(input.Value) == "" {
			return nil, UpdateTaskOutput{}, &task.ValidationError{Field: "title", Value: input.Value}
		}
		it.Title = input.Value
	case "status":
		st, err := task.ParseStatus(input.Value)
		if err != nil {
			return nil, UpdateTaskOutput{}, err
		}
		it.Status = st
		switch st {
		case task.StatusDone:
			op = storage.OpDone
		case task.StatusArchived:
			op = storage.OpArchive
		}
	case "priority":
		p, err := task.ParsePriority(input.Value)
		if err != nil {
			return nil, UpdateTaskOutput{}, err
		}
		it.Priority = p
	case "due_date":
		it.DueDate = input.Value
	case "start_date":
		it.StartDate = input.Value
	case "end_date":
		it.EndDate = input.Value
	case "progress":
		n, err := strconv.Atoi(strings.TrimSpace(input.Value))
		if err != nil || n < 0 || n > 100 {
			return nil, UpdateTaskOutput{}, &task.ValidationError{Field: "progress", Value: input.Value}
		}
		it.Progress = &n
	case "notes":
		it.Body += "\n\n" + input.Value
	default:
		return nil, UpdateTaskOutput{}, &task.ValidationError{Field: "field", Value: input.Field}
	}

	if _, err := s.store.Write(it); err != nil {
		return nil, UpdateTaskOutput{}, fmt.Errorf("write task: %w", err)
	}
	s.record(op, it)
	s.logger.Info("update_task", "id", it.ID, "field", input.Field)

	return nil, UpdateTaskOutput{ID: it.ID, Field: input.Field, Status: "updated"}, nil
}

// ListTasksInput defines the input for the list_tasks tool.
type ListTasksInput struct {
	Status string   `json:"status,omitempty" jsonschema:"Filter by status: active, next, waiting, done or archived"`
	Type   string   `json:"type,omitempty" jsonschema:"Filter by item type: task, goal, note or project"`
	Tags   []string `json:"tags,omitempty" jsonschema:"Keep only tasks carrying every listed tag"`
	Limit  int      `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// TaskSummary is one list_tasks row.
type TaskSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags,omitempty"`
	DueDate  string   `json:"due_date,omitempty"`
}

// ListTasksOutput defines the output for the list_tasks tool.
type ListTasksOutput struct {
	Count int           `json:"count"`
	Tasks []TaskSummary `json:"tasks"`
}

func listTasksTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_tasks",
		Description: "List tasks sorted by priority then recency, with optional status, type and tag filters.",
	}
}

func (s *Server) handleListTasks(ctx context.Context, req *mcpsdk.CallToolRequest, input ListTasksInput) (*mcpsdk.CallToolResult, ListTasksOutput, error) {
	var f task.Filter
	if input.Status != "" {
		st, err := task.ParseStatus(input.Status)
		if err != nil {
			return nil, ListTasksOutput{}, err
		}
		f.Status = &st
	}
	if input.Type != "" {
		typ, err := task.ParseItemType(input.Type)
		if err != nil {
			return nil, ListTasksOutput{}, err
		}
		f.Type = &typ
	}
	f.Tags = input.Tags
	f.Limit = input.Limit

	items, err := s.store.List(f)
	if err != nil {
		return nil, ListTasksOutput{}, fmt.Errorf("list tasks: %w", err)
	}

	out := ListTasksOutput{Count: len(items), Tasks: make([]TaskSummary, 0, len(items))}
	for _, it := range items {
		out.Tasks = append(out.Tasks, TaskSummary{
			ID:       it.ID,
			Title:    it.Title,
			Status:   string(it.Status),
			Priority: string(it.Priority),
			Tags:     it.Tags,
			DueDate:  it.DueDate,
		})
	}

	result := &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: renderTaskTable(items)}},
	}
	return result, out, nil
}

// renderTaskTable formats tasks as a compact aligned text table.
func renderTaskTable(items []*task.Item) string {
	if len(items) == 0 {
		return "no tasks"
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRI\tDUE\tTITLE")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(it.ID), it.Status, it.Priority, it.DueDate, it.Title)
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ReadTaskInput defines the input for the read_task tool.
type ReadTaskInput struct {
	ID string `json:"id" jsonschema:"required,Task id"`
}

// ReadTaskOutput defines the output for the read_task tool.
type ReadTaskOutput struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Tags         []string `json:"tags,omitempty"`
	DueDate      string   `json:"due_date,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Progress     *int     `json:"progress,omitempty"`
	ParentGoalID string   `json:"parent_goal_id,omitempty"`
	CreatedAt    string   `json:"created_at"`
	Body         string   `json:"body,omitempty"`
}

func readTaskTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "read_task",
		Description: "Get the full frontmatter and body of a task.",
	}
}

func (s *Server) handleReadTask(ctx context.Context, req *mcpsdk.CallToolRequest, input ReadTaskInput) (*mcpsdk.CallToolResult, ReadTaskOutput, error) {
	it, err := s.store.Get(input.ID)
	if err != nil {
		return nil, ReadTaskOutput{}, err
	}

	return nil, ReadTaskOutput{
		ID:           it.ID,
		Title:        it.Title,
		Type:         string(it.Type),
		Status:       string(it.Status),
		Priority:     string(it.Priority),
		Tags:         it.Tags,
		DueDate:      it.DueDate,
		StartDate:    it.StartDate,
		EndDate:      it.EndDate,
		Progress:     it.Progress,
		ParentGoalID: it.ParentGoalID,
		CreatedAt:    it.CreatedAt.Format(time.RFC3339),
		Body:         it.Body,
	}, nil
}

// CompleteTaskInput defines the input for the complete_task tool.
type CompleteTaskInput struct {
	ID string `json:"id" jsonschema:"required,Task id"`
}

// CompleteTaskOutput defines the output for the complete_task tool.
type CompleteTaskOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func completeTaskTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "complete_task",
		Description: "Mark a task as done.",
	}
}

func (s *Server) handleCompleteTask(ctx context.Context, req *mcpsdk.CallToolRequest, input CompleteTaskInput) (*mcpsdk.CallToolResult, CompleteTaskOutput, error) {
	it, err := s.store.Get(input.ID)
	if err != nil {
		return nil, CompleteTaskOutput{}, err
	}

	it.Status = task.StatusDone
	if _, err := s.store.Write(it); err != nil {
		return nil, CompleteTaskOutput{}, fmt.Errorf("write task: %w", err)
	}
	s.record(storage.OpDone, it)
	s.logger.Info("complete_task", "id", it.ID)

	return nil, CompleteTaskOutput{ID: it.ID, Status: "completed"}, nil
}

func (s *Server) record(op string, it *task.Item) {
	if s.activity != nil {
		s.activity.Record(op, it)
	}
}
