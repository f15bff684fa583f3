// Package gitsync versions the data directory by shelling out to git. The
// tracker does not link a git library: plain commands keep the repository
// fully interoperable with whatever the user does by hand.
package gitsync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const commandTimeout = 60 * time.Second

// Syncer runs git commands inside one directory.
type Syncer struct {
	dir string
}

// New creates a Syncer for the given directory.
func New(dir string) *Syncer {
	return &Syncer{dir: dir}
}

// Dir returns the synced directory.
func (s *Syncer) Dir() string { return s.dir }

// IsRepo reports whether the directory is inside a git work tree.
func (s *Syncer) IsRepo(ctx context.Context) bool {
	res, err := execGit(ctx, s.dir, "rev-parse", "--git-dir")
	return err == nil && res.exitCode == 0
}

// InitIfNeeded initializes a repository when the directory has none. A
// fresh repository gets an ignore file so key material and local env files
// never reach a remote.
func (s *Syncer) InitIfNeeded(ctx context.Context) error {
	if s.IsRepo(ctx) {
		return nil
	}
	res, err := execGit(ctx, s.dir, "init")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return fmt.Errorf("git init: %s", res.output)
	}
	return s.writeIgnoreFile()
}

func (s *Syncer) writeIgnoreFile() error {
	path := filepath.Join(s.dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := ".age-key\n.env\ndebug.log\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write gitignore: %w", err)
	}
	return nil
}

// Pull rebases local work on the remote state, autostashing dirty files.
// A branch with no upstream is tolerated with a warning.
func (s *Syncer) Pull(ctx context.Context) error {
	res, err := execGit(ctx, s.dir, "pull", "--rebase", "--autostash")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		if noRemote(res.output) {
			slog.Warn("git pull skipped: no remote configured")
			return nil
		}
		return fmt.Errorf("git pull: %s", strings.TrimSpace(res.output))
	}
	return nil
}

// CommitAndPush stages everything, commits with the given message and
// pushes. An empty commit is not an error; a missing remote downgrades the
// push to a warning.
func (s *Syncer) CommitAndPush(ctx context.Context, message string) error {
	res, err := execGit(ctx, s.dir, "add", ".")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return fmt.Errorf("git add: %s", strings.TrimSpace(res.output))
	}

	res, err = execGit(ctx, s.dir, "commit", "-m", message)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		out := res.output
		if !strings.Contains(out, "nothing to commit") && !strings.Contains(out, "no changes added") {
			slog.Warn("git commit had issues", "output", strings.TrimSpace(out))
		}
	}

	res, err = execGit(ctx, s.dir, "push")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		if noRemote(res.output) {
			slog.Warn("git push skipped: no remote configured")
			return nil
		}
		return fmt.Errorf("git push: %s", strings.TrimSpace(res.output))
	}
	return nil
}

// Sync pulls first, then commits and pushes local changes.
func (s *Syncer) Sync(ctx context.Context, message string) error {
	if err := s.Pull(ctx); err != nil {
		return fmt.Errorf("pre-sync pull: %w", err)
	}
	if err := s.CommitAndPush(ctx, message); err != nil {
		return fmt.Errorf("post-sync push: %w", err)
	}
	return nil
}

func noRemote(output string) bool {
	out := strings.ToLower(output)
	for _, marker := range []string{
		"no tracking information",
		"no configured push destination",
		"no remote repository specified",
		"does not appear to be a git repository",
	} {
		if strings.Contains(out, marker) {
			return true
		}
	}
	return false
}

type gitResult struct {
	output   string
	exitCode int
}

// execGit runs a git command and captures its output.
func execGit(ctx context.Context, dir string, args ...string) (gitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return gitResult{}, fmt.Errorf("git: exec: %w", err)
		}
	}

	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}

	return gitResult{output: output, exitCode: exitCode}, nil
}
