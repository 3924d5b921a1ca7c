package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DiscoverAll runs the discoverer for every game with at most spec.GameConcurrency
// games in flight. Each task writes only its own slot; results are read after Wait.
// A failing game never cancels the others.
func DiscoverAll(ctx context.Context, spec *Spec) ([]MergedSet, []error) {
	sets := make([]MergedSet, len(spec.Games))
	errs := make([]error, len(spec.Games))

	limit := spec.GameConcurrency
	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, game := range spec.Games {
		g.Go(func() error {
			sets[i], errs[i] = discoverOne(ctx, spec.Discoverer, game)
			return nil
		})
	}
	_ = g.Wait()

	return sets, errs
}

// discoverOne shields the run from a panicking discoverer.
func discoverOne(ctx context.Context, d Discoverer, game Game) (set MergedSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			set = nil
			err = fmt.Errorf("discovery panicked for %s: %v", game.Name, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Discover(ctx, game)
}

// ComputeDelta returns, per game, the discovered records absent from snap.
// Games with nothing new are omitted.
func ComputeDelta(games []Game, discovered map[string]MergedSet, snap Snapshot) Delta {
	delta := make(Delta)
	for _, game := range games {
		for id, rec := range discovered[game.Name] {
			if snap.Has(game.Name, id) {
				continue
			}
			delta.Add(game.Name, id, rec.Name)
		}
	}
	return delta
}

// buildReport converts a merged set into per-origin statistics.
func buildReport(game Game, set MergedSet, err error) GameReport {
	report := GameReport{Game: game.Name}
	if err != nil {
		report.Error = err.Error()
		return report
	}
	counts := set.CountByOrigin()
	report.Discovered = len(set)
	report.Official = counts[OriginOfficial]
	report.Hidden = counts[OriginHidden]
	report.Fallback = counts[OriginFallback]
	report.Placeholder = counts[OriginPlaceholder]
	return report
}

func logReport(l *zap.Logger, r GameReport) {
	if r.Error != "" {
		l.Error("Failed to process game DLC", zap.String("game", r.Game), zap.String("error", r.Error))
		return
	}
	l.Info("Discovered game DLC",
		zap.String("game", r.Game),
		zap.Int("total", r.Discovered),
		zap.Int("official", r.Official),
		zap.Int("hidden", r.Hidden),
		zap.Int("fallback", r.Fallback),
		zap.Int("placeholder", r.Placeholder),
	)
}
