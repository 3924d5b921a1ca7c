package inventory

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"dlc-updater/core/reconcile"

	"github.com/stretchr/testify/require"
)

var stellaris = reconcile.Game{Name: "Stellaris", AppID: 281990}

// stubDiscoverer returns the same canned set for every call.
type stubDiscoverer struct {
	sets map[string]reconcile.MergedSet

	// gate, when set, blocks Discover until it is closed; entered is signalled first.
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (d *stubDiscoverer) Discover(ctx context.Context, game reconcile.Game) (reconcile.MergedSet, error) {
	if d.gate != nil {
		d.once.Do(func() { close(d.entered) })
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	set := reconcile.MergedSet{}
	for id, rec := range d.sets[game.Name] {
		set[id] = rec
	}
	return set, nil
}

func stellarisSet(ids ...string) map[string]reconcile.MergedSet {
	names := map[string]string{"100": "A", "200": "B", "300": "C"}
	set := reconcile.MergedSet{}
	for _, id := range ids {
		set[id] = reconcile.Record{ID: id, Name: names[id], Origin: reconcile.OriginOfficial}
	}
	return map[string]reconcile.MergedSet{stellaris.Name: set}
}

// newPatchTree lays out both patch directories under a temp dir. An empty
// content string leaves that store file absent.
func newPatchTree(t *testing.T, blockContent, flatContent string) Config {
	t.Helper()
	cfg := Config{
		BaseDir:  t.TempDir(),
		BlockDir: "正版DLC破解补丁",
		FlatDir:  "局域网DLC破解补丁",
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.BlockPath()), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.FlatPath()), 0o755))
	if blockContent != "" {
		require.NoError(t, os.WriteFile(cfg.BlockPath(), []byte(blockContent), 0o644))
	}
	if flatContent != "" {
		require.NoError(t, os.WriteFile(cfg.FlatPath(), []byte(flatContent), 0o644))
	}
	return cfg
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
