package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hctree/pkg/bench"
)

func sample(mode string) *bench.Result {
	return &bench.Result{
		Mode:             mode,
		Workload:         "zipf",
		Theta:            1.1,
		NKeys:            1000,
		NQueries:         4000,
		HotThreshold:     8,
		DecayAlpha:       0.9,
		HotFraction:      0.05,
		Seed:             42,
		Elapsed:          2 * time.Second,
		QPS:              2000,
		HotHits:          1000,
		ColdHits:         3000,
		HotKeys:          50,
		ColdKeys:         1000,
		AvgHotNodesPerQ:  1.5,
		AvgColdNodesPerQ: 2.25,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, true, sample(bench.ModeHCTree)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "mode,workload,theta,nkeys,nqueries,hot_threshold,decay_alpha,hot_fraction,seed,"+
		"elapsed_sec,qps,hot_hits,cold_hits,not_found,hot_keys,cold_keys,"+
		"avg_hot_nodes_per_q,avg_cold_nodes_per_q", lines[0])
	assert.Equal(t, "hctree,zipf,1.10000,1000,4000,8.00000,0.90000,0.05000,42,"+
		"2.000000,2000.00,1000,3000,0,50,1000,1.500000,2.250000", lines[1])
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sample(bench.ModeHCTree)))
	out := buf.String()
	assert.Contains(t, out, "Mode:       HCIndex (hot/cold)")
	assert.Contains(t, out, "Theta:      1.100")
	assert.Contains(t, out, "Hot hits:         1000")
	assert.Contains(t, out, "Avg cold nodes/q: 2.250")

	buf.Reset()
	base := sample(bench.ModeBaseline)
	base.Workload = "uniform"
	require.NoError(t, WriteText(&buf, base))
	out = buf.String()
	assert.Contains(t, out, "=== Results (Baseline) ===")
	assert.NotContains(t, out, "Theta:")
	assert.NotContains(t, out, "Hot hits:")
	assert.Contains(t, out, "Avg nodes/q:      2.250")
}

func TestCompare(t *testing.T) {
	hc := sample(bench.ModeHCTree)
	base := sample(bench.ModeBaseline)
	base.QPS = 1500
	base.AvgColdNodesPerQ = 3
	lonely := sample(bench.ModeHCTree)
	lonely.Workload = "uniform"

	cs := Compare([]*bench.Result{hc, lonely, base})
	require.Len(t, cs, 1)
	c := cs[0]
	assert.Equal(t, "zipf", c.Workload)
	assert.Equal(t, 1500.0, c.QPSBaseline)
	assert.Equal(t, 2000.0, c.QPSHCTree)
	assert.Equal(t, 3.0, c.NodesBaseline)
	assert.InDelta(t, 3.75, c.NodesHCTree, 1e-9)
	assert.InDelta(t, 0.05, c.HotKeysFrac, 1e-9)
	assert.InDelta(t, 0.25, c.HotHitsFrac, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, cs))
	assert.Contains(t, buf.String(), "zipf,1.100,1000,4000,1500.0,2000.0,3.000,3.750,0.0500,0.2500")
}

func TestReadCSVRoundTrip(t *testing.T) {
	hc := sample(bench.ModeHCTree)
	base := sample(bench.ModeBaseline)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, true, hc, base))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, hc, got[0])
	assert.Equal(t, bench.ModeBaseline, got[1].Mode)

	_, err = ReadCSV(strings.NewReader("mode,workload\nhctree,zipf\n"))
	assert.Error(t, err)

	bad := strings.Join(Header, ",") + "\n" + strings.Repeat("x,", len(Header)-1) + "x\n"
	_, err = ReadCSV(strings.NewReader(bad))
	assert.Error(t, err)
}
