package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hctree/pkg/bench"
)

func TestResultStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := OpenResultStore(path)
	require.NoError(t, err)

	runAt := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	in := &bench.Result{
		Mode: bench.ModeHCTree, Workload: "zipf", Theta: 1.1, NKeys: 100, NQueries: 500,
		HotThreshold: 8, DecayAlpha: 0.9, HotFraction: 0.05, Seed: 42,
		Elapsed: 1500 * time.Millisecond, QPS: 333.3, HotHits: 200, ColdHits: 300,
		HotKeys: 5, ColdKeys: 100, AvgHotNodesPerQ: 1, AvgColdNodesPerQ: 1.2,
		RangeQueries: 3, RangeKeys: 30, RangeElapsed: time.Millisecond, RunAt: runAt,
	}
	require.NoError(t, store.Save(in))
	base := *in
	base.Mode = bench.ModeBaseline
	require.NoError(t, store.Save(&base))
	require.NoError(t, store.Close())

	// reopen to make sure rows survive
	store, err = OpenResultStore(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, runAt.Equal(got[0].RunAt))
	got[0].RunAt = in.RunAt
	assert.Equal(t, in, got[0])
	assert.Equal(t, bench.ModeBaseline, got[1].Mode)

	require.NoError(t, store.Truncate())
	got, err = store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, got)
}
