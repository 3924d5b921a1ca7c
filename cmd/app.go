package cmd

import (
	"context"
	"errors"
	"fmt"

	"dlc-updater/core/config"
	"dlc-updater/core/database"
	"dlc-updater/core/logger"
	"dlc-updater/core/steam"
	"dlc-updater/core/steamcmd"
	"dlc-updater/core/storage"
	"dlc-updater/feature/archive"
	"dlc-updater/feature/dlc"
	"dlc-updater/feature/history"
	"dlc-updater/feature/inventory"

	"go.uber.org/zap"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	steam   *steam.Client
	service *inventory.Service
}

// newApp loads configuration and wires every component. Optional backends
// (object store, database) that fail to initialize are logged and skipped.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	client := steam.NewClient(cfg.Steam, logg)

	var tool dlc.ToolRunner
	if cfg.Discovery.SkipHidden {
		logg.Info("Hidden DLC discovery disabled")
	} else {
		tool = steamcmd.NewRunner(cfg.SteamCMD, logg)
		logg.Info("Using SteamCMD", zap.String("path", cfg.SteamCMD.Path))
	}
	logg.Info("Using Steam store API", zap.String("url", cfg.Steam.BaseURL))

	engine := dlc.NewEngine(client, tool, dlc.DefaultFallbackNames(), cfg.Discovery, logg)

	opts := []inventory.Option{inventory.WithGameConcurrency(cfg.Discovery.GameConcurrency)}

	if cfg.Archive.Enabled {
		arch := archive.New(cfg.Archive, cfg.Inventory.PatchDirs(), logg)
		store, err := storage.NewClient(cfg.Storage)
		switch {
		case err == nil:
			arch.WithUpload(store, cfg.Storage)
			logg.Info("Archive upload enabled", zap.String("bucket", cfg.Storage.Bucket))
		case !errors.Is(err, storage.ErrDisabled):
			logg.Warn("Optional storage client failed, archives stay local", zap.Error(err))
		}
		opts = append(opts, inventory.WithArchiver(arch))
	}

	if db, err := database.Connect(cfg.Database); err != nil {
		if !errors.Is(err, database.ErrDisabled) {
			logg.Warn("Optional database connection failed", zap.Error(err))
		}
	} else {
		hist := history.NewStore(db, logg)
		if err := hist.Migrate(ctx); err != nil {
			logg.Warn("Run history disabled", zap.Error(err))
		} else {
			opts = append(opts, inventory.WithHistory(hist))
			logg.Info("Run history enabled", zap.String("driver", cfg.Database.Driver))
		}
	}

	svc := inventory.NewService(cfg.Inventory, dlc.DefaultGames(), engine, logg, opts...)

	return &app{cfg: cfg, logger: logg, steam: client, service: svc}, nil
}

func (a *app) close() {
	a.steam.Close()
	_ = a.logger.Sync()
}
