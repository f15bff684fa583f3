package storage

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/taskdeck/internal/task"
)

const delimiter = "---"

// Parse decodes one task file: a YAML header between two delimiter lines,
// then the free-form body. The body is trimmed, so Parse(Serialize(t)) is
// exact for every structured field and equal modulo incidental whitespace
// for the body.
func Parse(data []byte, path string) (*task.Item, error) {
	parts := strings.SplitN(string(data), delimiter, 3)
	if len(parts) < 3 {
		return nil, &FormatError{Path: path, Reason: "missing frontmatter delimiters"}
	}

	var it task.Item
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(parts[1])), &it); err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	if err := checkHeader(&it); err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	if it.Priority == "" {
		it.Priority = task.PriorityMedium
	}

	it.Body = strings.TrimSpace(parts[2])
	return &it, nil
}

// checkHeader enforces presence and shape of the mandatory fields. Date
// strings stay opaque here.
func checkHeader(it *task.Item) error {
	if it.ID == "" {
		return fmt.Errorf("missing id")
	}
	if it.Title == "" {
		return fmt.Errorf("missing title")
	}
	if it.CreatedAt.IsZero() {
		return fmt.Errorf("missing created_at")
	}
	if _, err := task.ParseItemType(string(it.Type)); err != nil {
		if it.Type == "" {
			return fmt.Errorf("missing type")
		}
		return err
	}
	if _, err := task.ParseStatus(string(it.Status)); err != nil {
		if it.Status == "" {
			return fmt.Errorf("missing status")
		}
		return err
	}
	if it.Priority != "" {
		if _, err := task.ParsePriority(string(it.Priority)); err != nil {
			return err
		}
	}
	return nil
}

// Serialize renders the canonical on-disk form: header, blank line, body.
func Serialize(it *task.Item) ([]byte, error) {
	header, err := yaml.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.Write(header)
	b.WriteString(delimiter)
	b.WriteString("\n\n")
	b.WriteString(it.Body)
	if it.Body != "" {
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
