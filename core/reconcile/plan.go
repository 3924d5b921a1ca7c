package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ReconcileWithPlan hashes and parses every store, discovers every game and
// computes one delta per store. It does NOT write anything; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec) (*ReconcilePlan, error) {
	if spec.Discoverer == nil {
		return nil, errors.New("reconcile spec has no discoverer")
	}
	l := spec.logger()

	plan := &ReconcilePlan{
		HashesBefore: make(map[string]string, len(spec.Adapters)),
		Snapshots:    make(map[string]Snapshot, len(spec.Adapters)),
		Discovered:   make(map[string]MergedSet, len(spec.Games)),
		Deltas:       make(map[string]Delta, len(spec.Adapters)),
		Reports:      make([]GameReport, 0, len(spec.Games)),
		Summary: PlanSummary{
			Games:      len(spec.Games),
			NewRecords: make(map[string]int, len(spec.Adapters)),
		},
	}

	// Step 1: Hash and parse every store before anything is discovered
	for _, a := range spec.Adapters {
		hash, err := HashFile(a.Path())
		if err != nil {
			l.Warn("Failed to hash store", zap.String("store", a.Name()), zap.Error(err))
		}
		plan.HashesBefore[a.Name()] = hash

		snap, err := LoadSnapshot(a)
		if err != nil {
			l.Error("Failed to parse store", zap.String("store", a.Name()), zap.Error(err))
		}
		if hash == "" && err == nil {
			l.Warn("Store file not found", zap.String("store", a.Name()), zap.String("path", a.Path()))
		}
		plan.Snapshots[a.Name()] = snap
	}

	// Step 2: Discover games
	sets, errs := DiscoverAll(ctx, spec)
	for i, game := range spec.Games {
		report := buildReport(game, sets[i], errs[i])
		logReport(l, report)
		plan.Reports = append(plan.Reports, report)

		if errs[i] != nil {
			plan.Summary.FailedGames++
			continue
		}
		plan.Discovered[game.Name] = sets[i]
		plan.Summary.DiscoveredDLC += len(sets[i])
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconcile cancelled: %w", err)
	}

	// Step 3: One delta per store, each against its own snapshot
	for _, a := range spec.Adapters {
		delta := ComputeDelta(spec.Games, plan.Discovered, plan.Snapshots[a.Name()])
		plan.Deltas[a.Name()] = delta
		plan.Summary.NewRecords[a.Name()] = delta.Len()
	}

	return plan, nil
}

// ApplyPlan writes every non-empty delta to its store and reports whether any
// store changed. Store failures are logged and do not stop the other stores.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (*ReconcileResult, error) {
	l := spec.logger()
	result := &ReconcileResult{
		Plan:        plan,
		Applied:     make(map[string]int, len(spec.Adapters)),
		HashesAfter: make(map[string]string, len(spec.Adapters)),
		DryRun:      opts.DryRun,
	}

	for _, a := range spec.Adapters {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("apply cancelled: %w", err)
		}

		delta := plan.Deltas[a.Name()]
		if delta.Len() == 0 || opts.DryRun {
			continue
		}

		for _, game := range spec.Games {
			if n := len(delta[game.Name]); n > 0 {
				l.Info("Appending new DLC",
					zap.String("store", a.Name()),
					zap.String("game", game.Name),
					zap.Int("count", n),
				)
			}
		}

		applied, err := ApplyDelta(a, delta)
		if err != nil {
			l.Error("Failed to update store", zap.String("store", a.Name()), zap.Error(err))
			continue
		}
		if applied < delta.Len() {
			l.Warn("Some new DLC had no matching game section",
				zap.String("store", a.Name()),
				zap.Int("skipped", delta.Len()-applied),
			)
		}
		result.Applied[a.Name()] = applied
	}

	for _, a := range spec.Adapters {
		hash, err := HashFile(a.Path())
		if err != nil {
			l.Warn("Failed to hash store", zap.String("store", a.Name()), zap.Error(err))
		}
		result.HashesAfter[a.Name()] = hash
		if hash != plan.HashesBefore[a.Name()] {
			result.Changed = true
		}
	}

	return result, nil
}

// Run is a convenience wrapper that plans and applies in one call.
func Run(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcileResult, error) {
	plan, err := ReconcileWithPlan(ctx, spec)
	if err != nil {
		return nil, err
	}
	return ApplyPlan(ctx, spec, plan, opts)
}
