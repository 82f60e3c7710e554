// Package report renders benchmark results as text, CSV and a baseline-versus-
// tiered comparison.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"hctree/pkg/bench"
)

var Header = []string{
	"mode", "workload", "theta", "nkeys", "nqueries", "hot_threshold", "decay_alpha", "hot_fraction", "seed",
	"elapsed_sec", "qps", "hot_hits", "cold_hits", "not_found", "hot_keys", "cold_keys",
	"avg_hot_nodes_per_q", "avg_cold_nodes_per_q",
}

func f(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Row renders r in Header order.
func Row(r *bench.Result) []string {
	return []string{
		r.Mode,
		r.Workload,
		f(r.Theta, 5),
		strconv.FormatInt(r.NKeys, 10),
		strconv.FormatInt(r.NQueries, 10),
		f(r.HotThreshold, 5),
		f(r.DecayAlpha, 5),
		f(r.HotFraction, 5),
		strconv.FormatUint(r.Seed, 10),
		f(r.Elapsed.Seconds(), 6),
		f(r.QPS, 2),
		strconv.FormatUint(r.HotHits, 10),
		strconv.FormatUint(r.ColdHits, 10),
		strconv.FormatUint(r.NotFound, 10),
		strconv.Itoa(r.HotKeys),
		strconv.Itoa(r.ColdKeys),
		f(r.AvgHotNodesPerQ, 6),
		f(r.AvgColdNodesPerQ, 6),
	}
}

func WriteCSV(w io.Writer, header bool, results ...*bench.Result) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(Header); err != nil {
			return errors.Wrap(err, "write csv header")
		}
	}
	for _, r := range results {
		if err := cw.Write(Row(r)); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText prints the run parameters and results in the aligned text layout.
func WriteText(w io.Writer, r *bench.Result) error {
	ew := &errWriter{w: w}
	switch r.Mode {
	case bench.ModeHCTree:
		ew.printf("Mode:       HCIndex (hot/cold)\n")
	case bench.ModeGBTree:
		ew.printf("Mode:       Reference (google/btree)\n")
	default:
		ew.printf("Mode:       Baseline (single B-tree)\n")
	}
	ew.printf("Workload:   %s\n", r.Workload)
	if r.Workload == "zipf" {
		ew.printf("Theta:      %.3f\n", r.Theta)
	}
	ew.printf("nkeys:      %d\n", r.NKeys)
	ew.printf("nqueries:   %d\n", r.NQueries)

	if r.Mode == bench.ModeHCTree {
		ew.printf("HotThresh:  %.3f\n", r.HotThreshold)
		ew.printf("Decay alpha:%.3f\n", r.DecayAlpha)
		ew.printf("Hot frac:   %.3f\n", r.HotFraction)
		ew.printf("\n=== Results (HCIndex) ===\n")
	} else {
		ew.printf("\n=== Results (Baseline) ===\n")
	}
	ew.printf("Elapsed (sec):    %.6f\n", r.Elapsed.Seconds())
	ew.printf("Throughput (Q/s): %.2f\n", r.QPS)
	if r.Mode == bench.ModeHCTree {
		ew.printf("Hot hits:         %d\n", r.HotHits)
	}
	ew.printf("Cold hits:        %d\n", r.ColdHits)
	ew.printf("Not found:        %d\n", r.NotFound)
	if r.Mode == bench.ModeHCTree {
		ew.printf("Hot keys:         %d\n", r.HotKeys)
	}
	ew.printf("Cold keys:        %d\n", r.ColdKeys)
	if r.Mode == bench.ModeHCTree {
		ew.printf("Avg hot nodes/q:  %.3f\n", r.AvgHotNodesPerQ)
		ew.printf("Avg cold nodes/q: %.3f\n", r.AvgColdNodesPerQ)
	} else {
		ew.printf("Avg nodes/q:      %.3f\n", r.AvgColdNodesPerQ)
	}
	if r.RangeQueries > 0 {
		ew.printf("Range queries:    %d (%d keys, %.6f sec)\n", r.RangeQueries, r.RangeKeys, r.RangeElapsed.Seconds())
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Comparison pairs a baseline and an hctree run of the same workload.
type Comparison struct {
	Workload      string
	Theta         float64
	NKeys         int64
	NQueries      int64
	QPSBaseline   float64
	QPSHCTree     float64
	NodesBaseline float64
	NodesHCTree   float64
	HotKeysFrac   float64
	HotHitsFrac   float64
}

type groupKey struct {
	workload string
	theta    float64
	nkeys    int64
	nqueries int64
}

// Compare groups results by workload, theta, nkeys and nqueries. The latest
// run of each mode wins; groups missing either mode are dropped.
func Compare(results []*bench.Result) []Comparison {
	type pair struct{ base, hc *bench.Result }
	groups := map[groupKey]*pair{}
	var order []groupKey
	for _, r := range results {
		k := groupKey{r.Workload, r.Theta, r.NKeys, r.NQueries}
		p, ok := groups[k]
		if !ok {
			p = &pair{}
			groups[k] = p
			order = append(order, k)
		}
		switch r.Mode {
		case bench.ModeBaseline:
			p.base = r
		case bench.ModeHCTree:
			p.hc = r
		}
	}

	var out []Comparison
	for _, k := range order {
		p := groups[k]
		if p.base == nil || p.hc == nil {
			continue
		}
		c := Comparison{
			Workload:      k.workload,
			Theta:         k.theta,
			NKeys:         k.nkeys,
			NQueries:      k.nqueries,
			QPSBaseline:   p.base.QPS,
			QPSHCTree:     p.hc.QPS,
			NodesBaseline: p.base.AvgColdNodesPerQ,
			NodesHCTree:   p.hc.AvgHotNodesPerQ + p.hc.AvgColdNodesPerQ,
		}
		if k.nkeys > 0 {
			c.HotKeysFrac = float64(p.hc.HotKeys) / float64(k.nkeys)
		}
		if k.nqueries > 0 {
			c.HotHitsFrac = float64(p.hc.HotHits) / float64(k.nqueries)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Workload != out[j].Workload {
			return out[i].Workload < out[j].Workload
		}
		return out[i].Theta < out[j].Theta
	})
	return out
}

func WriteComparison(w io.Writer, cs []Comparison) error {
	ew := &errWriter{w: w}
	ew.printf("\n=== Comparison summary (baseline vs hctree) ===\n")
	ew.printf("workload,theta,nkeys,nqueries,qps_baseline,qps_hctree,nodes_baseline,nodes_hctree,hot_keys_frac,hc_hot_hits_frac\n")
	for _, c := range cs {
		ew.printf("%s,%.3f,%d,%d,%.1f,%.1f,%.3f,%.3f,%.4f,%.4f\n",
			c.Workload, c.Theta, c.NKeys, c.NQueries,
			c.QPSBaseline, c.QPSHCTree,
			c.NodesBaseline, c.NodesHCTree,
			c.HotKeysFrac, c.HotHitsFrac)
	}
	return ew.err
}

// ReadCSV parses rows written by WriteCSV. The header row is required.
func ReadCSV(r io.Reader) ([]*bench.Result, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, nil
	}
	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, errors.Errorf("csv: missing column %q", name)
		}
	}

	var out []*bench.Result
	for line, rec := range records[1:] {
		p := &rowParser{rec: rec, col: col}
		res := &bench.Result{
			Mode:             p.str("mode"),
			Workload:         p.str("workload"),
			Theta:            p.float("theta"),
			NKeys:            p.int("nkeys"),
			NQueries:         p.int("nqueries"),
			HotThreshold:     p.float("hot_threshold"),
			DecayAlpha:       p.float("decay_alpha"),
			HotFraction:      p.float("hot_fraction"),
			Seed:             uint64(p.int("seed")),
			Elapsed:          time.Duration(p.float("elapsed_sec") * float64(time.Second)),
			QPS:              p.float("qps"),
			HotHits:          uint64(p.int("hot_hits")),
			ColdHits:         uint64(p.int("cold_hits")),
			NotFound:         uint64(p.int("not_found")),
			HotKeys:          int(p.int("hot_keys")),
			ColdKeys:         int(p.int("cold_keys")),
			AvgHotNodesPerQ:  p.float("avg_hot_nodes_per_q"),
			AvgColdNodesPerQ: p.float("avg_cold_nodes_per_q"),
		}
		if p.err != nil {
			return nil, errors.Wrapf(p.err, "csv line %d", line+2)
		}
		out = append(out, res)
	}
	return out, nil
}

type rowParser struct {
	rec []string
	col map[string]int
	err error
}

func (p *rowParser) str(name string) string {
	i := p.col[name]
	if i >= len(p.rec) {
		if p.err == nil {
			p.err = errors.Errorf("short row, no %s", name)
		}
		return ""
	}
	return p.rec[i]
}

func (p *rowParser) float(name string) float64 {
	v, err := strconv.ParseFloat(p.str(name), 64)
	if err != nil && p.err == nil {
		p.err = errors.Wrap(err, name)
	}
	return v
}

func (p *rowParser) int(name string) int64 {
	v, err := strconv.ParseInt(p.str(name), 10, 64)
	if err != nil && p.err == nil {
		p.err = errors.Wrap(err, name)
	}
	return v
}
