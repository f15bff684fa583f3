package config

import (
	"os"
	"path/filepath"
)

// DataPath returns the root directory for taskdeck data.
// It uses $TASKDECK_PATH if set, otherwise defaults to ~/.taskdeck.
func DataPath() string {
	if v := os.Getenv("TASKDECK_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".taskdeck")
	}
	return filepath.Join(home, ".taskdeck")
}

// TasksDir returns the flat directory holding one `<id>.md` per task.
func TasksDir(dataDir string) string {
	return filepath.Join(dataDir, "tasks")
}

// ConfigPath returns the path to the config file.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// DotenvPath returns the path to the .env file.
func DotenvPath(dataDir string) string {
	return filepath.Join(dataDir, ".env")
}

// ActivityLogPath returns the path to the mutation log.
func ActivityLogPath(dataDir string) string {
	return filepath.Join(dataDir, "activity.jsonl")
}
