package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// lineAdapter is a minimal store format used by the tests:
//
//	# Game
//	Game/id=name
type lineAdapter struct {
	name string
	path string
}

func (a *lineAdapter) Name() string { return a.name }
func (a *lineAdapter) Path() string { return a.path }

func (a *lineAdapter) Parse(data []byte) Snapshot {
	snap := Snapshot{}
	for _, line := range strings.Split(string(data), "\n") {
		game, rest, ok := strings.Cut(strings.TrimSpace(line), "/")
		if !ok || strings.HasPrefix(game, "#") {
			continue
		}
		id, _, ok := strings.Cut(rest, "=")
		if ok {
			snap.Add(game, id)
		}
	}
	return snap
}

func (a *lineAdapter) Rewrite(data []byte, delta Delta) ([]byte, int) {
	text := string(data)
	snap := a.Parse(data)

	games := make([]string, 0, len(delta))
	for game := range delta {
		games = append(games, game)
	}
	sort.Strings(games)

	var b strings.Builder
	b.WriteString(text)
	applied := 0
	for _, game := range games {
		if !strings.Contains(text, "# "+game+"\n") {
			continue
		}
		for _, id := range delta.SortedIDs(game) {
			if snap.Has(game, id) {
				continue
			}
			b.WriteString(game + "/" + id + "=" + delta[game][id] + "\n")
			applied++
		}
	}
	return []byte(b.String()), applied
}

// fakeDiscoverer returns canned sets, errors or panics per game.
type fakeDiscoverer struct {
	sets   map[string]MergedSet
	errs   map[string]error
	panics map[string]bool

	mu       sync.Mutex
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeDiscoverer) Discover(ctx context.Context, game Game) (MergedSet, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, game.Name)
	f.mu.Unlock()

	if f.panics[game.Name] {
		panic("boom")
	}
	if err := f.errs[game.Name]; err != nil {
		return nil, err
	}
	set := MergedSet{}
	for id, rec := range f.sets[game.Name] {
		set[id] = rec
	}
	return set, nil
}

func official(ids ...string) MergedSet {
	set := MergedSet{}
	for _, id := range ids {
		set.Put(Record{ID: id, Name: "DLC " + id, Origin: OriginOfficial})
	}
	return set
}

func writeStore(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readStore(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
