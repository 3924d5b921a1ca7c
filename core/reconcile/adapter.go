package reconcile

import "context"

// Adapter defines the interface for a store format.
// Each adapter owns one file and knows how to read ids out of it and how to
// splice new records into it. Parse and Rewrite are pure so they can be tested
// without touching the filesystem; file handling lives in LoadSnapshot and ApplyDelta.
type Adapter interface {
	// Name returns the unique name of this store (e.g., "block", "flat").
	Name() string

	// Path returns the store file location.
	Path() string

	// Parse returns the ids recorded per game in data.
	Parse(data []byte) Snapshot

	// Rewrite returns data with the records of delta inserted into the matching game
	// sections, plus the number of records actually inserted. Records whose id is
	// already present and games without a section are skipped. Untouched content
	// must be preserved.
	Rewrite(data []byte, delta Delta) ([]byte, int)
}

// Discoverer produces the merged DLC set for a single game.
// Implementations are best-effort: soft failures are logged and yield partial sets.
// A non-nil error means the game's discovery failed and its results must be ignored.
type Discoverer interface {
	Discover(ctx context.Context, game Game) (MergedSet, error)
}
