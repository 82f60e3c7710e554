// Package bench runs a point-query workload (plus optional range scans)
// against one index mode and reports throughput and node-visit costs.
package bench

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hctree/pkg/common"
	"hctree/pkg/config"
	"hctree/pkg/core"
	"hctree/pkg/core/btree"
	"hctree/pkg/core/memory"
	"hctree/pkg/core/tiered"
	"hctree/pkg/workload"
)

const (
	ModeHCTree   = "hctree"
	ModeBaseline = "baseline"
	ModeGBTree   = "gbtree"
)

// Result is one benchmark run. Field order follows the CSV columns.
type Result struct {
	Mode         string
	Workload     string
	Theta        float64
	NKeys        int64
	NQueries     int64
	HotThreshold float64
	DecayAlpha   float64
	HotFraction  float64
	Seed         uint64

	Elapsed          time.Duration
	QPS              float64
	HotHits          uint64
	ColdHits         uint64
	NotFound         uint64
	HotKeys          int
	ColdKeys         int
	AvgHotNodesPerQ  float64
	AvgColdNodesPerQ float64

	RangeQueries int64
	RangeKeys    int64
	RangeElapsed time.Duration

	RunAt time.Time
}

// pointRunner issues one lookup and reports whether it hit.
type pointRunner func(key common.KeyType) bool

type Runner struct {
	cfg *config.Config
	log *zap.Logger
	now func() time.Time
}

func NewRunner(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log.Named("bench"), now: time.Now}
}

// TieredParams maps the index section of the config onto tiered.Params.
func TieredParams(c config.IndexConfig) tiered.Params {
	inclusive := c.Inclusive == nil || *c.Inclusive
	return tiered.Params{
		DecayAlpha:     c.DecayAlpha,
		HotThreshold:   c.HotThreshold,
		MaxHotFraction: c.MaxHotFraction,
		Inclusive:      inclusive,
	}
}

// Run builds the index for the configured mode with keys 0..nkeys-1, then
// times the point-query loop and, if configured, the range phase.
func (r *Runner) Run() (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	ic, wc := r.cfg.Index, r.cfg.Workload

	gen, err := workload.New(wc.Type, wc.NKeys, wc.Theta, wc.Seed)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Mode:         ic.Mode,
		Workload:     wc.Type,
		Theta:        wc.Theta,
		NKeys:        wc.NKeys,
		NQueries:     wc.NQueries,
		HotThreshold: ic.HotThreshold,
		DecayAlpha:   ic.DecayAlpha,
		HotFraction:  ic.MaxHotFraction,
		Seed:         wc.Seed,
		RunAt:        r.now(),
	}

	var (
		idx     core.Index[common.KeyType]
		lookup  pointRunner
		collect func()
	)

	switch ic.Mode {
	case ModeHCTree:
		hc, err := tiered.New[common.KeyType](common.KeyType(wc.NKeys-1), ic.Degree, TieredParams(ic), tiered.WithLogger(r.log))
		if err != nil {
			return nil, errors.Wrap(err, "create tiered index")
		}
		idx = hc
		lookup = func(k common.KeyType) bool {
			_, ok := hc.Search(k)
			return ok
		}
		collect = func() {
			s := hc.Stats()
			res.HotHits, res.ColdHits, res.NotFound = s.HotHits, s.ColdHits, s.NotFound
			res.HotKeys, res.ColdKeys = s.HotKeys, s.ColdKeys
			res.AvgHotNodesPerQ = s.AvgHotNodesPerQuery()
			res.AvgColdNodesPerQ = s.AvgColdNodesPerQuery()
		}

	case ModeBaseline:
		bt, err := btree.New[common.KeyType](ic.Degree)
		if err != nil {
			return nil, errors.Wrap(err, "create btree")
		}
		var st btree.Stats
		idx = bt
		lookup = func(k common.KeyType) bool {
			_, ok := bt.Search(k, &st)
			return ok
		}
		collect = func() {
			res.ColdKeys = bt.CountKeys()
			if wc.NQueries > 0 {
				res.AvgColdNodesPerQ = float64(st.NodeVisits) / float64(wc.NQueries)
			}
		}

	case ModeGBTree:
		mt := memory.NewMemTable[common.KeyType](ic.Degree)
		idx = mt
		lookup = func(k common.KeyType) bool {
			_, ok := mt.Get(k)
			return ok
		}
		collect = func() {
			res.ColdKeys = mt.Len()
		}
	}

	for k := common.KeyType(0); k < common.KeyType(wc.NKeys); k++ {
		idx.Insert(k, k)
	}
	r.log.Debug("index built", zap.String("mode", ic.Mode), zap.Int("keys", idx.Len()))

	var misses uint64
	start := r.now()
	for q := int64(0); q < wc.NQueries; q++ {
		if !lookup(gen.Next()) {
			misses++
		}
	}
	res.Elapsed = r.now().Sub(start)
	if secs := res.Elapsed.Seconds(); secs > 0 {
		res.QPS = float64(wc.NQueries) / secs
	}

	collect()
	if ic.Mode != ModeHCTree {
		res.NotFound = misses
		res.ColdHits = uint64(wc.NQueries) - misses
	}

	if wc.RangeQueries > 0 {
		start = r.now()
		for q := int64(0); q < wc.RangeQueries; q++ {
			lo := gen.Next()
			idx.Range(lo, lo+common.KeyType(wc.RangeWidth)-1, func(common.KeyType, common.KeyType) {
				res.RangeKeys++
			})
		}
		res.RangeElapsed = r.now().Sub(start)
		res.RangeQueries = wc.RangeQueries
	}

	r.log.Info("run finished",
		zap.String("mode", res.Mode),
		zap.String("workload", res.Workload),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("qps", res.QPS),
		zap.Uint64("hot_hits", res.HotHits),
		zap.Uint64("cold_hits", res.ColdHits))
	return res, nil
}
