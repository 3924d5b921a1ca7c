package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dlc-updater/core/database"
	"dlc-updater/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store persists run summaries.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	newID  func() string
}

// NewStore creates a history store on db.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger, newID: uuid.NewString}
}

// Migrate creates or updates the history tables and reports columns that are
// still missing afterwards.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}, &RunGame{}); err != nil {
		return fmt.Errorf("failed to migrate history tables: %w", err)
	}

	tables := make([]string, 0, len(expectedColumns))
	for table := range expectedColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		missing, err := database.MissingColumns(s.db.WithContext(ctx), table, expectedColumns[table])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("history table %s is missing columns %v", table, missing)
		}
	}
	return nil
}

// Record stores the outcome of one run. archive is the archive path, if one was built.
func (s *Store) Record(ctx context.Context, result *reconcile.ReconcileResult, started, finished time.Time, archive string) (*Run, error) {
	run := NewRun(s.newID(), result, started, finished, archive)

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("Recorded run", zap.String("run_id", run.ID), zap.Bool("changed", run.Changed))
	return run, nil
}

// Latest returns the most recent runs, newest first, with their per-game rows.
func (s *Store) Latest(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	var runs []Run
	err := s.db.WithContext(ctx).
		Preload("GameResults", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	return runs, nil
}

// NewRun converts a reconcile result into a history row.
func NewRun(id string, result *reconcile.ReconcileResult, started, finished time.Time, archive string) *Run {
	run := &Run{
		ID:         id,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		DryRun:     result.DryRun,
		Changed:    result.Changed,
		Archive:    archive,
	}

	plan := result.Plan
	if plan == nil {
		return run
	}

	run.Games = plan.Summary.Games
	run.FailedGames = plan.Summary.FailedGames
	run.Discovered = plan.Summary.DiscoveredDLC
	for _, n := range plan.Summary.NewRecords {
		run.NewRecords += n
	}

	for _, r := range plan.Reports {
		added := 0
		for _, delta := range plan.Deltas {
			added += len(delta[r.Game])
		}
		run.GameResults = append(run.GameResults, RunGame{
			Game:        r.Game,
			Discovered:  r.Discovered,
			Official:    r.Official,
			Hidden:      r.Hidden,
			Fallback:    r.Fallback,
			Placeholder: r.Placeholder,
			NewRecords:  added,
			Error:       r.Error,
		})
	}
	return run
}
