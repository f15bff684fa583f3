package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "taskdeck",
		Usage: "A file-backed personal task tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding tasks, config and logs",
				Value:   config.DataPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewTUICommand(),
			NewTasksCommand(),
			NewMCPServeCommand(),
			NewSyncCommand(),
			NewSecretCommand(),
		},
		DefaultCommand: "tui",
	}
}
