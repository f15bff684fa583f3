package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema constrains what the model may answer. Anything outside it
// is treated as no answer at all.
var responseSchema = jsonschema.MustCompileString("enriched.json", `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "due_date": {"type": ["string", "null"]},
    "priority": {"enum": ["high", "medium", "low", null]},
    "tags": {"type": ["array", "null"], "items": {"type": "string"}},
    "context": {"type": ["string", "null"]}
  }
}`)

// parseResponse extracts, validates and decodes the model output.
func parseResponse(content string) (Enriched, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return Enriched{}, err
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Enriched{}, fmt.Errorf("decode response: %w", err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return Enriched{}, fmt.Errorf("validate response: %w", err)
	}

	var e Enriched
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Enriched{}, fmt.Errorf("decode response: %w", err)
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return Enriched{}, errors.New("empty title")
	}
	return e, nil
}

// extractJSON digs the JSON object out of a reply that may wrap it in
// markdown fences or chatter.
func extractJSON(s string) (string, error) {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		rest := trimmed[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), nil
		}
	}

	if idx := strings.Index(trimmed, "```"); idx >= 0 {
		rest := trimmed[idx+3:]
		// Skip an optional language tag on the fence line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), nil
		}
	}

	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start >= 0 && end > start {
		return trimmed[start : end+1], nil
	}

	return "", errors.New("no JSON object in response")
}
