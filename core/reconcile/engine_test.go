package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDelta(t *testing.T) {
	games := []Game{{Name: "Stellaris", AppID: 281990}, {Name: "Victoria 3", AppID: 529340}}

	tests := []struct {
		name       string
		discovered map[string]MergedSet
		snapshot   Snapshot
		expected   Delta
	}{
		{
			name:       "only missing ids",
			discovered: map[string]MergedSet{"Stellaris": official("100", "200")},
			snapshot:   Snapshot{"Stellaris": {"100": {}}},
			expected:   Delta{"Stellaris": {"200": "DLC 200"}},
		},
		{
			name:       "everything known",
			discovered: map[string]MergedSet{"Stellaris": official("100")},
			snapshot:   Snapshot{"Stellaris": {"100": {}}},
			expected:   Delta{},
		},
		{
			name:       "same id under another game is still new",
			discovered: map[string]MergedSet{"Victoria 3": official("100")},
			snapshot:   Snapshot{"Stellaris": {"100": {}}},
			expected:   Delta{"Victoria 3": {"100": "DLC 100"}},
		},
		{
			name:       "failed game contributes nothing",
			discovered: map[string]MergedSet{},
			snapshot:   Snapshot{},
			expected:   Delta{},
		},
		{
			name:       "unknown game ignored",
			discovered: map[string]MergedSet{"Other": official("1")},
			snapshot:   Snapshot{},
			expected:   Delta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeDelta(games, tt.discovered, tt.snapshot))
		})
	}
}

func TestDiscoverAll_IsolatesFailures(t *testing.T) {
	games := []Game{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	d := &fakeDiscoverer{
		sets:   map[string]MergedSet{"A": official("1"), "C": official("3")},
		errs:   map[string]error{"B": errors.New("down")},
		panics: map[string]bool{"C": true},
	}

	sets, errs := DiscoverAll(context.Background(), &Spec{Games: games, Discoverer: d, GameConcurrency: 3})

	require.Len(t, sets, 3)
	assert.NoError(t, errs[0])
	assert.Equal(t, official("1"), sets[0])
	assert.EqualError(t, errs[1], "down")
	require.Error(t, errs[2])
	assert.Contains(t, errs[2].Error(), "panicked")
	assert.Nil(t, sets[2])
}

func TestDiscoverAll_DefaultsToOneGameAtATime(t *testing.T) {
	games := []Game{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	d := &fakeDiscoverer{}

	_, errs := DiscoverAll(context.Background(), &Spec{Games: games, Discoverer: d})

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), d.peak.Load())
	assert.Equal(t, []string{"A", "B", "C", "D"}, d.calls)
}

func TestDiscoverAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &fakeDiscoverer{}
	_, errs := DiscoverAll(ctx, &Spec{Games: []Game{{Name: "A"}}, Discoverer: d})

	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Empty(t, d.calls)
}

func TestBuildReport(t *testing.T) {
	set := MergedSet{
		"1": {ID: "1", Origin: OriginOfficial},
		"2": {ID: "2", Origin: OriginOfficial},
		"3": {ID: "3", Origin: OriginHidden},
		"4": {ID: "4", Origin: OriginFallback},
		"5": {ID: "5", Origin: OriginPlaceholder},
	}

	report := buildReport(Game{Name: "Stellaris"}, set, nil)
	assert.Equal(t, GameReport{Game: "Stellaris", Discovered: 5, Official: 2, Hidden: 1, Fallback: 1, Placeholder: 1}, report)

	failed := buildReport(Game{Name: "Stellaris"}, nil, errors.New("x"))
	assert.Equal(t, "x", failed.Error)
	assert.Zero(t, failed.Discovered)
}
