package bench

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hctree/pkg/config"
)

func testConfig(mode string) *config.Config {
	cfg := config.Default()
	cfg.Index.Mode = mode
	cfg.Index.Degree = 4
	cfg.Workload.NKeys = 1000
	cfg.Workload.NQueries = 5000
	cfg.Workload.RangeQueries = 20
	cfg.Workload.RangeWidth = 10
	return cfg
}

func fakeClock() func() time.Time {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t0 = t0.Add(time.Second)
		return t0
	}
}

func runMode(t *testing.T, mode string) *Result {
	t.Helper()
	r := NewRunner(testConfig(mode), zap.NewNop())
	r.now = fakeClock()
	res, err := r.Run()
	require.NoError(t, err)
	return res
}

func TestRunHCTree(t *testing.T) {
	res := runMode(t, ModeHCTree)

	assert.Equal(t, "hctree", res.Mode)
	assert.Equal(t, "zipf", res.Workload)
	assert.Equal(t, time.Second, res.Elapsed)
	assert.InDelta(t, 5000.0, res.QPS, 1e-9)
	assert.Zero(t, res.NotFound)
	assert.Equal(t, uint64(5000), res.HotHits+res.ColdHits)
	assert.Greater(t, res.HotHits, uint64(0))
	assert.Greater(t, res.HotKeys, 0)
	assert.LessOrEqual(t, res.HotKeys, 50)
	assert.Equal(t, 1000, res.ColdKeys)
	assert.Greater(t, res.AvgHotNodesPerQ, 0.0)
	assert.Greater(t, res.AvgColdNodesPerQ, 0.0)
	assert.Equal(t, int64(20), res.RangeQueries)
	assert.Greater(t, res.RangeKeys, int64(0))
}

func TestRunBaselineAndGBTree(t *testing.T) {
	hc := runMode(t, ModeHCTree)

	for _, mode := range []string{ModeBaseline, ModeGBTree} {
		res := runMode(t, mode)
		assert.Equal(t, mode, res.Mode)
		assert.Zero(t, res.HotHits)
		assert.Zero(t, res.HotKeys)
		assert.Zero(t, res.NotFound)
		assert.Equal(t, uint64(5000), res.ColdHits)
		assert.Equal(t, 1000, res.ColdKeys)
		assert.Zero(t, res.AvgHotNodesPerQ)
		// same seed, same key stream, same range answers
		assert.Equal(t, hc.RangeKeys, res.RangeKeys, mode)
	}

	base := runMode(t, ModeBaseline)
	assert.Greater(t, base.AvgColdNodesPerQ, 1.0)
	gb := runMode(t, ModeGBTree)
	assert.Zero(t, gb.AvgColdNodesPerQ)
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := testConfig("lsm")
	_, err := NewRunner(cfg, nil).Run()
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestTieredParamsDefaultsInclusive(t *testing.T) {
	p := TieredParams(config.IndexConfig{DecayAlpha: 0.5, HotThreshold: 2, MaxHotFraction: 0.1})
	assert.True(t, p.Inclusive)
	assert.Equal(t, 0.5, p.DecayAlpha)
	assert.Equal(t, 2.0, p.HotThreshold)
	assert.Equal(t, 0.1, p.MaxHotFraction)
}
