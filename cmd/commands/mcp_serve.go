package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/mcp"
)

// NewMCPServeCommand returns the mcp-serve subcommand.
func NewMCPServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp-serve",
		Usage: "Expose the task store as an MCP server (stdio)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "http",
				Usage: "Serve streamable HTTP on this address instead of stdio",
			},
		},
		Action: runMCPServe,
	}
}

func runMCPServe(ctx context.Context, cmd *cli.Command) error {
	// Logging goes to stderr: stdout carries the stdio transport.
	level := slog.LevelWarn
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	server := mcp.NewServer(rt.store, rt.enricher(ctx), rt.activity, logger)
	if addr := cmd.String("http"); addr != "" {
		return server.ServeHTTP(ctx, addr)
	}
	return server.Run(ctx)
}
