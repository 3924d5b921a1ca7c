// Package reconcile brings text inventory stores up to date with a freshly
// discovered set of DLC records.
//
// A run never deletes or renames what a store already records. It only appends
// ids the store is missing, section by section, and every store is reconciled
// against its own snapshot so the stores can drift apart and still converge.
//
// # Architecture
//
// The reconcile system consists of three main components:
//
// 1. Discoverer: produces the merged DLC set for one game. Games are discovered
//    through a bounded errgroup; each task writes only its own result slot.
//
// 2. Adapter: format-specific implementations with pure Parse and Rewrite
//    functions. File handling (read, atomic replace, hashing) lives in this
//    package so adapters stay testable on byte slices.
//
// 3. Plan/apply: ReconcileWithPlan hashes and parses every store, discovers every
//    game and computes per-store deltas without writing anything. ApplyPlan
//    writes each non-empty delta and re-hashes to tell whether anything changed.
//
// # Failure model
//
// Nothing short of a cancelled context aborts a run. A failing game yields no
// delta, a missing store is logged and skipped, and an unreadable hash is
// treated as a change.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Games:      dlc.DefaultGames(),
//	    Discoverer: engine,
//	    Adapters:   []reconcile.Adapter{blockStore, flatStore},
//	    Logger:     log,
//	}
//
//	result, err := reconcile.Run(ctx, spec, reconcile.ReconcileOptions{})
//	if err == nil && result.Changed {
//	    // archive the patch directories
//	}
package reconcile
