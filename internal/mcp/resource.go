package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/taskdeck/internal/task"
)

const dailySummaryURI = "taskdeck://daily_summary"

func dailySummaryResource() *mcpsdk.Resource {
	return &mcpsdk.Resource{
		URI:         dailySummaryURI,
		Name:        "Daily Summary",
		Description: "Counts by status plus the tasks due today",
		MIMEType:    "text/plain",
	}
}

func (s *Server) handleDailySummary(ctx context.Context, req *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
	items, err := s.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return &mcpsdk.ReadResourceResult{
		Contents: []*mcpsdk.ResourceContents{{
			URI:      dailySummaryURI,
			MIMEType: "text/plain",
			Text:     renderDailySummary(items, time.Now().UTC()),
		}},
	}, nil
}

// renderDailySummary writes status counts and today's due tasks. Finished
// work (done, archived) never shows up in the due list.
func renderDailySummary(items []*task.Item, now time.Time) string {
	counts := make(map[task.Status]int)
	var dueToday []*task.Item
	for _, it := range items {
		counts[it.Status]++
		if it.Status == task.StatusDone || it.Status == task.StatusArchived {
			continue
		}
		if it.DueOn(now) {
			dueToday = append(dueToday, it)
		}
	}

	var sb strings.Builder
	sb.WriteString("Tasks by status:\n")
	for _, st := range task.Statuses {
		fmt.Fprintf(&sb, "  %s: %d\n", st, counts[st])
	}

	fmt.Fprintf(&sb, "Due today (%d):\n", len(dueToday))
	if len(dueToday) == 0 {
		sb.WriteString("  nothing due\n")
	}
	for _, it := range dueToday {
		fmt.Fprintf(&sb, "  - [%s] %s\n", shortID(it.ID), it.Title)
	}
	return sb.String()
}
