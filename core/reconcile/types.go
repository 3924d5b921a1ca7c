package reconcile

import (
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// Game is one entry of the static game registry. Name is also the section key in
// every store format.
type Game struct {
	// Name is the human-readable game name.
	Name string `json:"name"`
	// AppID is the store catalog id of the base game.
	AppID int `json:"app_id"`
}

// Origin records how a DLC name was obtained. It is never persisted.
type Origin int

const (
	// OriginOfficial marks DLC declared by the game's own store record.
	OriginOfficial Origin = iota
	// OriginHidden marks DLC found by the discovery tool and named by the store.
	OriginHidden
	// OriginFallback marks DLC named from the static fallback table.
	OriginFallback
	// OriginPlaceholder marks DLC whose name was synthesized.
	OriginPlaceholder
)

// String returns the lowercase origin label used in logs and API output.
func (o Origin) String() string {
	switch o {
	case OriginOfficial:
		return "official"
	case OriginHidden:
		return "hidden"
	case OriginFallback:
		return "fallback"
	case OriginPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Record is a single discovered DLC.
type Record struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Origin Origin `json:"-"`
}

// MergedSet maps DLC id to record for one game. Ids are unique and official
// records take precedence over any other origin.
type MergedSet map[string]Record

// Put adds rec unless the id is already present; it reports whether rec was added.
func (m MergedSet) Put(rec Record) bool {
	if _, exists := m[rec.ID]; exists {
		return false
	}
	m[rec.ID] = rec
	return true
}

// CountByOrigin tallies records per origin.
func (m MergedSet) CountByOrigin() map[Origin]int {
	counts := make(map[Origin]int)
	for _, rec := range m {
		counts[rec.Origin]++
	}
	return counts
}

// Sorted returns the records ordered by numeric id.
func (m MergedSet) Sorted() []Record {
	out := make([]Record, 0, len(m))
	for _, rec := range m {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return LessID(out[i].ID, out[j].ID)
	})
	return out
}

// Snapshot maps game name to the set of DLC ids already recorded in a store.
type Snapshot map[string]map[string]struct{}

// Add records id under game.
func (s Snapshot) Add(game, id string) {
	ids, ok := s[game]
	if !ok {
		ids = make(map[string]struct{})
		s[game] = ids
	}
	ids[id] = struct{}{}
}

// Has reports whether id is recorded under game.
func (s Snapshot) Has(game, id string) bool {
	_, ok := s[game][id]
	return ok
}

// Count returns the total number of recorded ids across all games.
func (s Snapshot) Count() int {
	n := 0
	for _, ids := range s {
		n += len(ids)
	}
	return n
}

// Delta maps game name to the new DLC id → name pairs a store is missing.
type Delta map[string]map[string]string

// Add records a new id for game.
func (d Delta) Add(game, id, name string) {
	recs, ok := d[game]
	if !ok {
		recs = make(map[string]string)
		d[game] = recs
	}
	recs[id] = name
}

// Len returns the total number of new records across all games.
func (d Delta) Len() int {
	n := 0
	for _, recs := range d {
		n += len(recs)
	}
	return n
}

// SortedIDs returns the ids of one game's delta in ascending numeric order.
func (d Delta) SortedIDs(game string) []string {
	ids := make([]string, 0, len(d[game]))
	for id := range d[game] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return LessID(ids[i], ids[j])
	})
	return ids
}

// LessID orders DLC ids numerically. Non-numeric ids sort after numeric ones, by text.
func LessID(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

// GameReport summarizes discovery for one game.
type GameReport struct {
	Game        string `json:"game"`
	Discovered  int    `json:"discovered"`
	Official    int    `json:"official"`
	Hidden      int    `json:"hidden"`
	Fallback    int    `json:"fallback"`
	Placeholder int    `json:"placeholder"`
	Error       string `json:"error,omitempty"`
}

// Spec bundles everything a reconciliation run needs.
type Spec struct {
	// Games is the registry, in output order.
	Games []Game

	// Discoverer produces the merged DLC set for one game.
	Discoverer Discoverer

	// Adapters are the store formats to reconcile, each against its own file.
	Adapters []Adapter

	// GameConcurrency bounds concurrent per-game discovery. Zero means one.
	GameConcurrency int

	// Logger receives progress and failure logs. Nil means no logging.
	Logger *zap.Logger
}

func (s *Spec) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ReconcilePlan holds everything computed before any store is written.
type ReconcilePlan struct {
	// HashesBefore maps adapter name to the store content hash ("" when absent).
	HashesBefore map[string]string `json:"hashes_before"`

	// Snapshots maps adapter name to the ids already recorded in that store.
	Snapshots map[string]Snapshot `json:"-"`

	// Discovered maps game name to its merged DLC set. Failed games are absent.
	Discovered map[string]MergedSet `json:"-"`

	// Deltas maps adapter name to the records that store is missing.
	Deltas map[string]Delta `json:"deltas"`

	// Reports holds per-game discovery statistics in registry order.
	Reports []GameReport `json:"reports"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Games is the number of registry games processed.
	Games int `json:"games"`

	// FailedGames counts games whose discovery failed entirely.
	FailedGames int `json:"failed_games"`

	// DiscoveredDLC is the total size of all merged sets.
	DiscoveredDLC int `json:"discovered_dlc"`

	// NewRecords maps adapter name to the number of records it is missing.
	NewRecords map[string]int `json:"new_records"`
}

// ReconcileOptions controls how a plan is applied.
type ReconcileOptions struct {
	// DryRun computes the plan without writing any store.
	DryRun bool
}

// ReconcileResult is the outcome of a full run.
type ReconcileResult struct {
	Plan *ReconcilePlan `json:"plan"`

	// Applied maps adapter name to the number of records written.
	Applied map[string]int `json:"applied"`

	// HashesAfter maps adapter name to the store content hash after writing.
	HashesAfter map[string]string `json:"hashes_after"`

	// Changed is true iff any store's content hash differs from before the run.
	Changed bool `json:"changed"`

	// DryRun echoes the option the run was applied with.
	DryRun bool `json:"dry_run"`
}
