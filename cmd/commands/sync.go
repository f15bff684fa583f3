package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/gitsync"
)

// NewSyncCommand returns the sync subcommand.
func NewSyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Commit local changes and sync the data directory with git",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Commit message",
				Value:   "Update tasks",
			},
		},
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	s := gitsync.New(cmd.String("data-dir"))
	if err := s.InitIfNeeded(ctx); err != nil {
		return err
	}
	if err := s.Sync(ctx, cmd.String("message")); err != nil {
		return err
	}
	fmt.Println("Synced.")
	return nil
}
