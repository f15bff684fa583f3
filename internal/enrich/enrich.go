// Package enrich turns raw natural-language captures into structured task
// fields using a chat model. Enrichment is strictly best-effort: whatever
// goes wrong (no driver, bad credentials, network, junk output) the caller
// gets the raw text back as a plain title.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/taskdeck/internal/config"
	"github.com/dohr-michael/taskdeck/internal/task"
)

// Enriched is the structured result parsed from a capture.
type Enriched struct {
	Title    string   `json:"title"`
	DueDate  string   `json:"due_date,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Context  string   `json:"context,omitempty"`
}

// Simple wraps a raw capture as a bare title, the fallback for every
// enrichment failure.
func Simple(raw string) Enriched {
	return Enriched{Title: strings.TrimSpace(raw)}
}

// Apply copies the parsed fields onto an item. The title is not touched;
// callers build the item from Title themselves.
func (e Enriched) Apply(it *task.Item) {
	if e.DueDate != "" {
		it.DueDate = e.DueDate
	}
	switch strings.ToLower(e.Priority) {
	case "":
	case string(task.PriorityHigh):
		it.Priority = task.PriorityHigh
	case string(task.PriorityLow):
		it.Priority = task.PriorityLow
	default:
		it.Priority = task.PriorityMedium
	}
	if len(e.Tags) > 0 {
		it.Tags = e.Tags
	}
	if e.Context != "" {
		it.Body = e.Context
	}
}

// Enricher drives a chat model to parse captures. A nil or disabled
// Enricher is valid and always falls back.
type Enricher struct {
	chat    model.BaseChatModel
	goals   string
	timeout time.Duration
}

// New builds an Enricher from the enrichment config. Construction never
// fails: an empty driver, a missing credential or a provider error all
// produce a disabled enricher that answers with the fallback.
func New(ctx context.Context, cfg config.EnrichmentConfig, goals, keyPath string) *Enricher {
	e := &Enricher{goals: goals, timeout: 60 * time.Second}
	if cfg.TimeoutSeconds > 0 {
		e.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.Driver == "" {
		return e
	}
	chat, err := newChatModel(ctx, cfg, keyPath)
	if err != nil {
		slog.Warn("enrichment disabled", "driver", cfg.Driver, "error", err)
		return e
	}
	e.chat = chat
	return e
}

// Available reports whether a chat model is wired up.
func (e *Enricher) Available() bool {
	return e != nil && e.chat != nil
}

// Enrich parses a raw capture into structured fields. It never returns an
// error: on any failure the capture itself becomes the title.
func (e *Enricher) Enrich(ctx context.Context, raw string) Enriched {
	if !e.Available() {
		return Simple(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	msgs := []*schema.Message{
		{Role: schema.System, Content: buildSystemPrompt(time.Now().UTC(), e.goals)},
		{Role: schema.User, Content: buildUserPrompt(raw)},
	}

	result, err := e.chat.Generate(ctx, msgs)
	if err != nil {
		slog.Warn("enrich: generate failed, keeping raw capture", "error", err)
		return Simple(raw)
	}

	enriched, err := parseResponse(result.Content)
	if err != nil {
		slog.Warn("enrich: unusable model output, keeping raw capture", "error", err)
		return Simple(raw)
	}
	return enriched
}
