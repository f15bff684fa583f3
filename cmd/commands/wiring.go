package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/config"
	"github.com/dohr-michael/taskdeck/internal/enrich"
	"github.com/dohr-michael/taskdeck/internal/gitsync"
	"github.com/dohr-michael/taskdeck/internal/secrets"
	"github.com/dohr-michael/taskdeck/internal/storage"
)

// runtime bundles the collaborators every command builds from the
// --data-dir flag.
type runtime struct {
	dataDir  string
	cfg      *config.Config
	store    *storage.Store
	activity *storage.ActivityLog
}

func newRuntime(cmd *cli.Command) (*runtime, error) {
	dataDir := cmd.String("data-dir")
	cfg, err := config.Load(config.ConfigPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &runtime{
		dataDir:  dataDir,
		cfg:      cfg,
		store:    storage.NewStore(config.TasksDir(dataDir)),
		activity: storage.NewActivityLog(config.ActivityLogPath(dataDir)),
	}, nil
}

func (r *runtime) enricher(ctx context.Context) *enrich.Enricher {
	return enrich.New(ctx, r.cfg.Enrichment, r.cfg.GoalsContext(), secrets.KeyPath(r.dataDir))
}

func (r *runtime) syncer() *gitsync.Syncer {
	return gitsync.New(r.dataDir)
}
