package dlc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dlc-updater/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClient serves canned listings and names.
type fakeClient struct {
	lists   map[int][]string
	listErr error
	names   map[string]string
	panicOn string

	mu       sync.Mutex
	resolved []string
}

func (f *fakeClient) DLCList(ctx context.Context, appID int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.lists[appID], nil
}

func (f *fakeClient) Resolve(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	f.resolved = append(f.resolved, id)
	f.mu.Unlock()

	if id == f.panicOn {
		panic("client exploded")
	}
	if name, ok := f.names[id]; ok {
		return name, nil
	}
	return "", errors.New("not resolved")
}

type mockTool struct {
	mock.Mock
}

func (m *mockTool) ListDLC(ctx context.Context, appID int) ([]string, error) {
	args := m.Called(ctx, appID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

var stellaris = reconcile.Game{Name: "Stellaris", AppID: 281990}

func newTestEngine(client MetadataClient, tool ToolRunner, fallback FallbackTable) *Engine {
	return NewEngine(client, tool, fallback, Config{Workers: 3}, zap.NewNop())
}

func TestDiscover_MergesOfficialAndHidden(t *testing.T) {
	client := &fakeClient{
		lists: map[int][]string{281990: {"100", "200"}},
		names: map[string]string{
			"100": "Stellaris: Utopia",
			"200": "Stellaris: Leviathans",
			"300": "Stellaris: Hidden Pack",
		},
	}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Return([]string{"200", "300", "400", "999"}, nil)

	engine := newTestEngine(client, tool, FallbackTable{400: "Stellaris: Fallback Pack"})
	set, err := engine.Discover(context.Background(), stellaris)
	require.NoError(t, err)

	assert.Equal(t, reconcile.MergedSet{
		"100": {ID: "100", Name: "Stellaris: Utopia", Origin: reconcile.OriginOfficial},
		"200": {ID: "200", Name: "Stellaris: Leviathans", Origin: reconcile.OriginOfficial},
		"300": {ID: "300", Name: "Stellaris: Hidden Pack", Origin: reconcile.OriginHidden},
		"400": {ID: "400", Name: "Stellaris: Fallback Pack", Origin: reconcile.OriginFallback},
		"999": {ID: "999", Name: "DLC 999", Origin: reconcile.OriginPlaceholder},
	}, set)
	tool.AssertExpectations(t)
}

func TestDiscover_SupersetOfResolvedOfficial(t *testing.T) {
	client := &fakeClient{
		lists: map[int][]string{281990: {"1", "2", "3", "4", "5", "6", "7"}},
		names: map[string]string{"1": "a", "2": "b", "4": "d", "5": "e", "7": "g"},
	}

	set, err := newTestEngine(client, nil, nil).Discover(context.Background(), stellaris)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "4", "5", "7"} {
		assert.Contains(t, set, id)
		assert.Equal(t, reconcile.OriginOfficial, set[id].Origin)
	}
	assert.Len(t, set, 5, "unresolvable official ids are omitted")
}

func TestDiscover_OfficialNameWinsOverHidden(t *testing.T) {
	client := &fakeClient{
		lists: map[int][]string{281990: {"100"}},
		names: map[string]string{"100": "Official Name"},
	}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Return([]string{"100"}, nil)

	set, err := newTestEngine(client, tool, FallbackTable{100: "Fallback Name"}).Discover(context.Background(), stellaris)
	require.NoError(t, err)

	assert.Equal(t, "Official Name", set["100"].Name)
	assert.Equal(t, reconcile.OriginOfficial, set["100"].Origin)
	assert.Equal(t, []string{"100"}, client.resolved, "hidden path must not re-resolve official ids")
}

func TestDiscover_ToolUnavailable(t *testing.T) {
	client := &fakeClient{
		lists: map[int][]string{281990: {"100"}},
		names: map[string]string{"100": "Utopia"},
	}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Return(nil, errors.New("steamcmd unavailable"))

	set, err := newTestEngine(client, tool, nil).Discover(context.Background(), stellaris)
	require.NoError(t, err)
	assert.Len(t, set, 1)
}

func TestDiscover_SkipHidden(t *testing.T) {
	tool := &mockTool{}
	engine := NewEngine(&fakeClient{}, tool, nil, Config{SkipHidden: true}, zap.NewNop())

	set, err := engine.Discover(context.Background(), stellaris)
	require.NoError(t, err)
	assert.Empty(t, set)
	tool.AssertNotCalled(t, "ListDLC", mock.Anything, mock.Anything)
}

func TestDiscover_OfficialListFailure(t *testing.T) {
	client := &fakeClient{listErr: errors.New("503"), names: map[string]string{"5": "Five"}}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Return([]string{"5"}, nil)

	set, err := newTestEngine(client, tool, nil).Discover(context.Background(), stellaris)
	require.NoError(t, err)
	assert.Equal(t, reconcile.MergedSet{"5": {ID: "5", Name: "Five", Origin: reconcile.OriginHidden}}, set)
}

func TestDiscover_PlaceholderWhenEverythingFails(t *testing.T) {
	client := &fakeClient{listErr: errors.New("down")}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Return([]string{"999"}, nil)

	set, err := newTestEngine(client, tool, DefaultFallbackNames()).Discover(context.Background(), stellaris)
	require.NoError(t, err)
	assert.Equal(t, "DLC 999", set["999"].Name)
	assert.Equal(t, reconcile.OriginPlaceholder, set["999"].Origin)
}

func TestDiscover_PanickingResolveIsContained(t *testing.T) {
	client := &fakeClient{
		lists:   map[int][]string{281990: {"1", "2"}},
		names:   map[string]string{"1": "One", "2": "Two"},
		panicOn: "2",
	}

	set, err := newTestEngine(client, nil, nil).Discover(context.Background(), stellaris)
	require.NoError(t, err)
	assert.Equal(t, reconcile.MergedSet{"1": {ID: "1", Name: "One", Origin: reconcile.OriginOfficial}}, set)
}

func TestDiscover_PanickingToolReturnsPartialSet(t *testing.T) {
	client := &fakeClient{
		lists: map[int][]string{281990: {"1"}},
		names: map[string]string{"1": "One"},
	}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Panic("tool exploded")

	set, err := newTestEngine(client, tool, nil).Discover(context.Background(), stellaris)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Contains(t, set, "1")
}

func TestDiscover_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{listErr: context.Canceled}
	_, err := newTestEngine(client, nil, nil).Discover(ctx, stellaris)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_PacesSubmissions(t *testing.T) {
	client := &fakeClient{
		lists: map[int][]string{281990: {"1", "2", "3"}},
		names: map[string]string{"1": "a", "2": "b", "3": "c", "4": "d"},
	}
	tool := &mockTool{}
	tool.On("ListDLC", mock.Anything, 281990).Return([]string{"3", "4", "5"}, nil)

	engine := NewEngine(client, tool, nil, Config{PacingMillis: 300}, zap.NewNop())
	var pauses int
	engine.sleep = func(ctx context.Context, d time.Duration) error {
		assert.Equal(t, 300*time.Millisecond, d)
		pauses++
		return nil
	}

	_, err := engine.Discover(context.Background(), stellaris)
	require.NoError(t, err)
	// two between official submissions, one between the two new hidden ids
	assert.Equal(t, 3, pauses)
}
