package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/abhisek/ivrit/internal/app"
	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/store"
)

// deps is the constructed dependency graph shared by the TUI and the
// subcommands.
type deps = services.Services

// openDeps opens the store and builds every service from appConfig.
func openDeps(ctx context.Context) (*deps, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cfg := appConfig
	return services.Build(ctx, st, services.Options{
		Fs:        afero.NewOsFs(),
		LevelsDir: cfg.LevelsDir,
		AudioDir:  cfg.AudioDir,
		Seed:      cfg.Seed,
		Game: game.Config{
			SettleDelay:   cfg.Game.SettleDelay,
			ReadBackDelay: cfg.Game.ReadBackDelay,
		},
		WordPause:    cfg.Game.WordPause,
		ClipLength:   2 * time.Second,
		RuneDuration: 80 * time.Millisecond,
	}), nil
}

// runApp builds dependencies and launches the TUI. A non-zero levelID opens
// that level directly.
func runApp(cmd *cobra.Command, levelID int) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(ctx, d, levelID)
}
