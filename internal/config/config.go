// Package config holds the on-disk configuration: workstreams with their
// quick-filter keys, high-level goals, and the enrichment provider.
package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration, stored as YAML in the data directory.
type Config struct {
	Workstreams []Workstream     `yaml:"workstreams"`
	Goals       []Goal           `yaml:"goals,omitempty"`
	Enrichment  EnrichmentConfig `yaml:"enrichment,omitempty"`
}

// Workstream is a tag grouping with a single-digit keyboard shortcut.
type Workstream struct {
	Name string `yaml:"name"`
	Key  Key    `yaml:"key"`
}

// Key is a one-rune keyboard shortcut, stored as a one-character string.
type Key rune

func (k Key) MarshalYAML() (interface{}, error) {
	return string(k), nil
}

func (k *Key) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Value == "" {
		return fmt.Errorf("workstream key must be a single character")
	}
	runes := []rune(value.Value)
	if len(runes) != 1 {
		return fmt.Errorf("workstream key must be a single character, got %q", value.Value)
	}
	*k = Key(runes[0])
	return nil
}

// Goal is a standing priority used as context for enrichment.
type Goal struct {
	Description string `yaml:"description"`
	Area        string `yaml:"area"`
	Priority    int    `yaml:"priority"` // 1-5, 1 is highest
	Active      bool   `yaml:"active"`
}

// EnrichmentConfig selects and configures the enrichment driver. An empty
// driver disables enrichment entirely.
type EnrichmentConfig struct {
	Driver         string `yaml:"driver,omitempty"` // openai, anthropic, mistral, ollama or ""
	APIKey         string `yaml:"api_key,omitempty"`
	Model          string `yaml:"model,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Default returns the initial configuration written on first run.
func Default() *Config {
	return &Config{
		Workstreams: []Workstream{
			{Name: "work", Key: '1'},
			{Name: "personal", Key: '2'},
		},
	}
}

// AddWorkstream appends a workstream on the next free key in '3'..'9'.
// It returns the assigned key, or 0 when all keys are taken.
func (c *Config) AddWorkstream(name string) rune {
	used := make(map[Key]bool, len(c.Workstreams))
	for _, ws := range c.Workstreams {
		used[ws.Key] = true
	}
	for key := Key('3'); key <= '9'; key++ {
		if !used[key] {
			c.Workstreams = append(c.Workstreams, Workstream{Name: name, Key: key})
			return rune(key)
		}
	}
	return 0
}

// RenameWorkstream renames the workstream at index, keeping its key.
func (c *Config) RenameWorkstream(index int, name string) bool {
	if index < 0 || index >= len(c.Workstreams) {
		return false
	}
	c.Workstreams[index].Name = name
	return true
}

// DeleteWorkstream removes the workstream at index, freeing its key.
func (c *Config) DeleteWorkstream(index int) bool {
	if index < 0 || index >= len(c.Workstreams) {
		return false
	}
	c.Workstreams = append(c.Workstreams[:index], c.Workstreams[index+1:]...)
	return true
}

// WorkstreamByKey resolves a pressed digit to its workstream.
func (c *Config) WorkstreamByKey(key rune) *Workstream {
	for i := range c.Workstreams {
		if c.Workstreams[i].Key == Key(key) {
			return &c.Workstreams[i]
		}
	}
	return nil
}

// AddGoal appends a goal with medium priority, active.
func (c *Config) AddGoal(description, area string) {
	c.Goals = append(c.Goals, Goal{
		Description: description,
		Area:        area,
		Priority:    3,
		Active:      true,
	})
}

// UpdateGoal replaces the description of the goal at index.
func (c *Config) UpdateGoal(index int, description string) {
	if index >= 0 && index < len(c.Goals) {
		c.Goals[index].Description = description
	}
}

// CycleGoalPriority advances 1→2→3→4→5→1.
func (c *Config) CycleGoalPriority(index int) {
	if index < 0 || index >= len(c.Goals) {
		return
	}
	if c.Goals[index].Priority >= 5 {
		c.Goals[index].Priority = 1
	} else {
		c.Goals[index].Priority++
	}
}

// ToggleGoalActive flips the active flag of the goal at index.
func (c *Config) ToggleGoalActive(index int) {
	if index >= 0 && index < len(c.Goals) {
		c.Goals[index].Active = !c.Goals[index].Active
	}
}

// DeleteGoal removes the goal at index.
func (c *Config) DeleteGoal(index int) {
	if index >= 0 && index < len(c.Goals) {
		c.Goals = append(c.Goals[:index], c.Goals[index+1:]...)
	}
}

// ActiveGoals returns the active goals, highest priority first.
func (c *Config) ActiveGoals() []Goal {
	var out []Goal
	for _, g := range c.Goals {
		if g.Active {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// GoalsContext renders the active goals as prompt context. Empty when no
// goal is active.
func (c *Config) GoalsContext() string {
	active := c.ActiveGoals()
	if len(active) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Current priorities and goals:\n")
	for _, g := range active {
		stars := strings.Repeat("★", 6-g.Priority)
		b.WriteString("- [" + g.Area + "] " + stars + ": " + g.Description + "\n")
	}
	return b.String()
}
