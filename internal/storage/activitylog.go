package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dohr-michael/taskdeck/internal/task"
)

// Activity log operations.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDone    = "done"
	OpArchive = "archive"
	OpDelete  = "delete"
)

// ActivityEntry is one JSONL line in the activity log.
type ActivityEntry struct {
	At     time.Time `json:"at"`
	Op     string    `json:"op"`
	TaskID string    `json:"task_id"`
	Title  string    `json:"title,omitempty"`
}

// ActivityLog appends task mutations to a JSONL file. Logging is
// best-effort: failures are warned about and never fail the mutation.
type ActivityLog struct {
	mu   sync.Mutex
	path string
}

// NewActivityLog creates a logger writing to path.
func NewActivityLog(path string) *ActivityLog {
	return &ActivityLog{path: path}
}

// Record appends one entry for the given operation and item.
func (l *ActivityLog) Record(op string, it *task.Item) {
	entry := ActivityEntry{
		At:     time.Now().UTC(),
		Op:     op,
		TaskID: it.ID,
		Title:  it.Title,
	}
	if err := l.append(entry); err != nil {
		slog.Warn("activity log write failed", "op", op, "task", it.ID, "error", err)
	}
}

func (l *ActivityLog) append(entry ActivityEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// ReadAll returns every decodable entry, oldest first. Undecodable lines
// are skipped so a torn append never poisons the log. An absent file
// yields an empty result.
func (l *ActivityLog) ReadAll() ([]ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []ActivityEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e ActivityEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
