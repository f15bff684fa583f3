package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/tui"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive task views",
		Action: runTUI,
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	// stderr would draw over the alt screen; keep logs in a file when
	// debugging, drop them otherwise.
	logW := io.Discard
	if cmd.Bool("debug") {
		f, err := os.OpenFile(filepath.Join(rt.dataDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logW = f
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logW, nil)))

	return tui.Run(ctx, tui.Options{
		Store:    rt.store,
		Config:   rt.cfg,
		DataDir:  rt.dataDir,
		Enricher: rt.enricher(ctx),
		Syncer:   rt.syncer(),
		Activity: rt.activity,
	})
}
