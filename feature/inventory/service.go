package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"dlc-updater/core/reconcile"
	"dlc-updater/feature/archive"
	"dlc-updater/feature/dlc"
	"dlc-updater/feature/history"
	"dlc-updater/feature/inventory/block"
	"dlc-updater/feature/inventory/flat"

	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when a reconciliation is already running.
	ErrBusy = errors.New("reconciliation already running")
	// ErrUnknownStore is returned for a store name that is not configured.
	ErrUnknownStore = errors.New("unknown store")
	// ErrUnknownGame is returned for a game that is not in the registry.
	ErrUnknownGame = errors.New("unknown game")
	// ErrHistoryDisabled is returned when no history store is configured.
	ErrHistoryDisabled = errors.New("run history disabled")
)

// RunOptions controls one reconciliation run.
type RunOptions struct {
	// DryRun computes the plan without writing any store.
	DryRun bool `json:"dry_run"`
	// NoArchive skips the archive even when a store changed.
	NoArchive bool `json:"no_archive"`
}

// Outcome is the result of Service.Run.
type Outcome struct {
	*reconcile.ReconcileResult
	Archive *archive.Result `json:"archive,omitempty"`
	RunID   string          `json:"run_id,omitempty"`
}

// GameInventory lists the ids recorded for one game in a store.
type GameInventory struct {
	Game  string   `json:"game"`
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// Option configures a Service.
type Option func(*Service)

// WithArchiver builds an archive after every run that changed a store.
func WithArchiver(a *archive.Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithHistory records every run.
func WithHistory(h *history.Store) Option {
	return func(s *Service) { s.history = h }
}

// WithGameConcurrency bounds concurrent per-game discovery.
func WithGameConcurrency(n int) Option {
	return func(s *Service) { s.gameConcurrency = n }
}

// Service runs reconciliations against the configured stores and serves
// read-only views of them.
type Service struct {
	cfg             Config
	games           []reconcile.Game
	discoverer      reconcile.Discoverer
	stores          []reconcile.Adapter
	gameConcurrency int

	archiver *archive.Archiver
	history  *history.Store
	logger   *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a service for games backed by the block and flat stores under cfg.
func NewService(cfg Config, games []reconcile.Game, discoverer reconcile.Discoverer, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cfg:        cfg,
		games:      games,
		discoverer: discoverer,
		stores: []reconcile.Adapter{
			block.New(cfg.BlockPath(), logger),
			flat.New(cfg.FlatPath(), logger),
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Games returns the registry in output order.
func (s *Service) Games() []reconcile.Game {
	return s.games
}

// Stores returns the configured store adapters.
func (s *Service) Stores() []reconcile.Adapter {
	return s.stores
}

// Run reconciles every store, then archives and records the run.
// Only one run executes at a time; a concurrent call returns ErrBusy.
// Archive and history failures are logged and do not fail the run.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Outcome, error) {
	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	defer s.mu.Unlock()

	started := s.now()
	for _, a := range s.stores {
		s.logger.Info("Data source", zap.String("store", a.Name()), zap.String("path", a.Path()))
	}

	spec := &reconcile.Spec{
		Games:           s.games,
		Discoverer:      s.discoverer,
		Adapters:        s.stores,
		GameConcurrency: s.gameConcurrency,
		Logger:          s.logger,
	}

	result, err := reconcile.Run(ctx, spec, reconcile.ReconcileOptions{DryRun: opts.DryRun})
	if err != nil {
		return nil, err
	}
	out := &Outcome{ReconcileResult: result}

	switch {
	case !result.Changed:
		s.logger.Info("No store changed, skipping archive")
	case opts.NoArchive || s.archiver == nil:
		s.logger.Info("Archive disabled")
	default:
		ar, err := s.archiver.Run(ctx)
		if err != nil {
			s.logger.Error("Failed to archive patches", zap.Error(err))
		}
		if ar != nil {
			out.Archive = ar
			s.logger.Info("Archive created", zap.String("path", ar.Path), zap.String("object", ar.Object))
		}
	}

	if s.history != nil {
		archivePath := ""
		if out.Archive != nil {
			archivePath = out.Archive.Path
		}
		run, err := s.history.Record(ctx, result, started, s.now(), archivePath)
		if err != nil {
			s.logger.Error("Failed to record run", zap.Error(err))
		} else {
			out.RunID = run.ID
		}
	}

	s.logger.Info("All tasks complete",
		zap.Bool("changed", result.Changed),
		zap.Bool("dry_run", result.DryRun),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	return out, nil
}

// Discover returns the merged DLC set of one registry game.
func (s *Service) Discover(ctx context.Context, name string) (reconcile.MergedSet, error) {
	game, ok := dlc.LookupGame(s.games, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, name)
	}
	return s.discoverer.Discover(ctx, game)
}

// Inventory returns the ids recorded in the named store. Registry games come
// first in registry order, followed by any other sections by name.
func (s *Service) Inventory(name string) ([]GameInventory, error) {
	var adapter reconcile.Adapter
	for _, a := range s.stores {
		if a.Name() == name {
			adapter = a
			break
		}
	}
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}

	snap, err := reconcile.LoadSnapshot(adapter)
	if err != nil {
		return nil, err
	}

	out := make([]GameInventory, 0, len(snap))
	seen := make(map[string]bool, len(s.games))
	for _, g := range s.games {
		seen[g.Name] = true
		if _, ok := snap[g.Name]; ok {
			out = append(out, gameInventory(g.Name, snap[g.Name]))
		}
	}

	var extra []string
	for game := range snap {
		if !seen[game] {
			extra = append(extra, game)
		}
	}
	sort.Strings(extra)
	for _, game := range extra {
		out = append(out, gameInventory(game, snap[game]))
	}
	return out, nil
}

// History returns the latest recorded runs.
func (s *Service) History(ctx context.Context, limit int) ([]history.Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Latest(ctx, limit)
}

func gameInventory(game string, ids map[string]struct{}) GameInventory {
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Slice(list, func(i, j int) bool { return reconcile.LessID(list[i], list[j]) })
	return GameInventory{Game: game, Count: len(list), IDs: list}
}
