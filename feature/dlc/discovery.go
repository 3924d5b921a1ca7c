package dlc

import (
	"context"
	"fmt"
	"time"

	"dlc-updater/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MetadataClient resolves DLC names and a game's declared DLC list.
type MetadataClient interface {
	DLCList(ctx context.Context, appID int) ([]string, error)
	Resolve(ctx context.Context, id string) (string, error)
}

// ToolRunner lists every DLC id the external discovery tool knows for a game.
type ToolRunner interface {
	ListDLC(ctx context.Context, appID int) ([]string, error)
}

// Engine merges the official and hidden DLC listings of a game.
type Engine struct {
	client   MetadataClient
	tool     ToolRunner
	fallback FallbackTable
	cfg      Config
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ reconcile.Discoverer = (*Engine)(nil)

// NewEngine creates a discovery engine. A nil tool disables the hidden path.
func NewEngine(client MetadataClient, tool ToolRunner, fallback FallbackTable, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = FallbackTable{}
	}
	return &Engine{
		client:   client,
		tool:     tool,
		fallback: fallback,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Discover returns the merged DLC set of game. Soft failures are logged and leave
// the set partial. An error is returned only when discovery was cancelled or
// panicked; the partial set is returned alongside it.
func (e *Engine) Discover(ctx context.Context, game reconcile.Game) (set reconcile.MergedSet, err error) {
	set = make(reconcile.MergedSet)
	log := e.logger.With(zap.String("game", game.Name), zap.Int("app_id", game.AppID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Discovery panicked", zap.Any("panic", r))
			err = fmt.Errorf("discovery of %s panicked: %v", game.Name, r)
		}
	}()

	// Step 1: Official listing
	for _, rec := range e.official(ctx, game, log) {
		set.Put(rec)
	}
	if err := ctx.Err(); err != nil {
		return set, err
	}

	// Step 2: Hidden listing, official records win
	officialCount := len(set)
	for _, rec := range e.hidden(ctx, game, set, log) {
		set.Put(rec)
	}
	if err := ctx.Err(); err != nil {
		return set, err
	}

	log.Info("Merged DLC listing",
		zap.Int("official", officialCount),
		zap.Int("hidden", len(set)-officialCount),
		zap.Int("total", len(set)),
	)
	return set, nil
}

// official resolves the game's declared DLC ids with a bounded worker pool.
// Unresolvable ids are omitted.
func (e *Engine) official(ctx context.Context, game reconcile.Game, log *zap.Logger) []reconcile.Record {
	ids, err := e.client.DLCList(ctx, game.AppID)
	if err != nil {
		log.Warn("Official DLC list unavailable", zap.Error(err))
		return nil
	}
	log.Info("Found official DLC, resolving names", zap.Int("count", len(ids)))

	names := make([]string, len(ids))
	resolved := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(e.cfg.workers())

	for i, id := range ids {
		if i > 0 {
			if err := e.sleep(ctx, e.cfg.pacing()); err != nil {
				break
			}
		}
		g.Go(func() error {
			name, err := e.resolveSafe(ctx, id)
			if err != nil {
				log.Warn("Failed to resolve official DLC", zap.String("dlc_id", id), zap.Error(err))
				return nil
			}
			names[i] = name
			resolved[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]reconcile.Record, 0, len(ids))
	for i, id := range ids {
		if resolved[i] {
			out = append(out, reconcile.Record{ID: id, Name: names[i], Origin: reconcile.OriginOfficial})
		}
	}
	return out
}

// hidden names every tool-listed id that known does not already hold.
func (e *Engine) hidden(ctx context.Context, game reconcile.Game, known reconcile.MergedSet, log *zap.Logger) []reconcile.Record {
	if e.tool == nil || e.cfg.SkipHidden {
		return nil
	}

	ids, err := e.tool.ListDLC(ctx, game.AppID)
	if err != nil {
		log.Warn("Hidden DLC discovery unavailable", zap.Error(err))
		return nil
	}
	if len(ids) == 0 {
		log.Warn("Discovery tool returned no DLC")
		return nil
	}
	log.Info("Discovery tool listed DLC", zap.Int("count", len(ids)))

	var out []reconcile.Record
	first := true
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		if !first {
			if err := e.sleep(ctx, e.cfg.pacing()); err != nil {
				break
			}
		}
		first = false

		rec := e.nameHidden(ctx, id, log)
		log.Debug("Named hidden DLC",
			zap.String("dlc_id", id),
			zap.String("name", rec.Name),
			zap.Stringer("origin", rec.Origin),
		)
		out = append(out, rec)
	}
	return out
}

// nameHidden applies the naming chain: metadata service, fallback table, placeholder.
func (e *Engine) nameHidden(ctx context.Context, id string, log *zap.Logger) reconcile.Record {
	name, err := e.resolveSafe(ctx, id)
	if err == nil {
		return reconcile.Record{ID: id, Name: name, Origin: reconcile.OriginHidden}
	}
	if name, ok := e.fallback.Lookup(id); ok {
		log.Info("Using fallback name", zap.String("dlc_id", id), zap.String("name", name))
		return reconcile.Record{ID: id, Name: name, Origin: reconcile.OriginFallback}
	}
	return reconcile.Record{ID: id, Name: Placeholder(id), Origin: reconcile.OriginPlaceholder}
}

// resolveSafe turns a panicking client into an ordinary resolution failure.
func (e *Engine) resolveSafe(ctx context.Context, id string) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolve %s panicked: %v", id, r)
		}
	}()
	return e.client.Resolve(ctx, id)
}

// Placeholder is the synthesized name of a DLC nobody could name.
func Placeholder(id string) string {
	return "DLC " + id
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
