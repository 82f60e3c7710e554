// Package tiered layers a small "hot" B-tree over a complete "cold" B-tree.
// Keys that keep getting hit in cold are copied into hot, where lookups are
// shallower. Promotion is one-way; hot is always a subset of cold.
package tiered

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hctree/pkg/common"
	"hctree/pkg/core/btree"
	"hctree/pkg/core/structure"
	"hctree/pkg/monitor"
)

type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger routes diagnostics to l instead of the global zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Index is a hot/cold tiered index over the key domain [0, maxKey]. It is not
// safe for concurrent use.
type Index[V any] struct {
	hot    *btree.Tree[V]
	cold   *btree.Tree[V]
	maxKey common.KeyType
	score  []float64
	params Params
	hotCap int
	stats  *monitor.TierStats
	seen   *structure.SeenSet
	hotBuf []common.Record[V]
	log    *zap.Logger
}

func New[V any](maxKey common.KeyType, degree int, params Params, opts ...Option) (*Index[V], error) {
	if maxKey < 0 {
		return nil, errors.Wrapf(ErrInvalidDomain, "got %d", maxKey)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	hot, err := btree.New[V](degree)
	if err != nil {
		return nil, errors.Wrap(err, "hot tier")
	}
	cold, err := btree.New[V](degree)
	if err != nil {
		return nil, errors.Wrap(err, "cold tier")
	}

	o := options{logger: zap.L()}
	for _, opt := range opts {
		opt(&o)
	}

	domain := int64(maxKey) + 1
	return &Index[V]{
		hot:    hot,
		cold:   cold,
		maxKey: maxKey,
		score:  make([]float64, domain),
		params: params,
		hotCap: int(math.Floor(params.MaxHotFraction * float64(domain))),
		stats:  monitor.NewTierStats(),
		seen:   structure.NewSeenSet(maxKey),
		log:    o.logger.Named("tiered"),
	}, nil
}

func (idx *Index[V]) inDomain(key common.KeyType) bool {
	return key >= 0 && key <= idx.maxKey
}

// Insert writes key into the cold tier, and overwrites the hot copy if the key
// was already promoted. Keys outside the domain are dropped with a warning.
func (idx *Index[V]) Insert(key common.KeyType, val V) {
	if !idx.inDomain(key) {
		idx.log.Warn("key out of range",
			zap.Int64("key", int64(key)),
			zap.Int64("max_key", int64(idx.maxKey)))
		return
	}
	idx.cold.Insert(key, val)
	// keep a promoted copy in step with cold
	if _, ok := idx.hot.Get(key); ok {
		idx.hot.Insert(key, val)
	}
}

// Search looks in hot, then cold. Every hit bumps the key's decayed score; a
// cold hit whose new score reaches the threshold tries to promote the key.
func (idx *Index[V]) Search(key common.KeyType) (V, bool) {
	idx.stats.RecordQuery()

	var hs btree.Stats
	v, ok := idx.hot.Search(key, &hs)
	idx.stats.AddVisits(hs.NodeVisits, 0)
	if ok {
		idx.stats.RecordHotHit()
		idx.bump(key)
		return v, true
	}

	var cs btree.Stats
	v, ok = idx.cold.Search(key, &cs)
	idx.stats.AddVisits(0, cs.NodeVisits)
	if ok {
		idx.stats.RecordColdHit()
		if s := idx.bump(key); s >= idx.params.HotThreshold {
			idx.promote(key)
		}
		return v, true
	}

	idx.stats.RecordNotFound()
	var zero V
	return zero, false
}

// Get is Search.
func (idx *Index[V]) Get(key common.KeyType) (V, bool) {
	return idx.Search(key)
}

func (idx *Index[V]) bump(key common.KeyType) float64 {
	if !idx.inDomain(key) {
		return 0
	}
	s := idx.params.DecayAlpha*idx.score[key] + 1.0
	idx.score[key] = s
	return s
}

// promote copies key from cold into hot. Full capacity, an existing hot entry
// or a missing cold entry leave everything unchanged; the next cold hit tries
// again.
func (idx *Index[V]) promote(key common.KeyType) {
	if idx.hot.Len() >= idx.hotCap {
		return
	}
	if _, ok := idx.hot.Get(key); ok {
		return
	}
	v, ok := idx.cold.Get(key)
	if !ok {
		return
	}
	idx.hot.Insert(key, v)
	idx.log.Debug("promoted",
		zap.Int64("key", int64(key)),
		zap.Float64("score", idx.score[key]))
}

// RangeSearch reports every key in [lo, hi] exactly once, in ascending order.
// Keys present in hot are reported with the hot payload.
func (idx *Index[V]) RangeSearch(lo, hi common.KeyType, fn func(key common.KeyType, val V)) {
	if lo > hi {
		return
	}
	idx.seen.Reset()
	idx.hotBuf = idx.hotBuf[:0]

	var hs, cs btree.Stats
	idx.hot.RangeSearch(lo, hi, func(k common.KeyType, v V) {
		if idx.seen.Mark(k) {
			idx.hotBuf = append(idx.hotBuf, common.Record[V]{Key: k, Value: v})
		}
	}, &hs)

	next := 0
	idx.cold.RangeSearch(lo, hi, func(k common.KeyType, v V) {
		if !idx.inDomain(k) {
			return
		}
		if idx.seen.Has(k) && next < len(idx.hotBuf) && idx.hotBuf[next].Key == k {
			fn(k, idx.hotBuf[next].Value)
			next++
			return
		}
		fn(k, v)
	}, &cs)

	idx.stats.AddVisits(hs.NodeVisits, cs.NodeVisits)

	var zero V
	for i := range idx.hotBuf {
		idx.hotBuf[i].Value = zero
	}
}

// Range is RangeSearch.
func (idx *Index[V]) Range(lo, hi common.KeyType, fn func(common.KeyType, V)) {
	idx.RangeSearch(lo, hi, fn)
}

// Stats snapshots the counters. Tier sizes come from full tree walks.
func (idx *Index[V]) Stats() monitor.Snapshot {
	return idx.stats.Snapshot(idx.hot.CountKeys(), idx.cold.CountKeys())
}

// Score returns the decayed hit score of key, 0 outside the domain.
func (idx *Index[V]) Score(key common.KeyType) float64 {
	if !idx.inDomain(key) {
		return 0
	}
	return idx.score[key]
}

// IsHot reports whether key has been promoted. It does not count as a query.
func (idx *Index[V]) IsHot(key common.KeyType) bool {
	_, ok := idx.hot.Get(key)
	return ok
}

// HotCapacity is the most keys the hot tier will accept.
func (idx *Index[V]) HotCapacity() int {
	return idx.hotCap
}

func (idx *Index[V]) MaxKey() common.KeyType {
	return idx.maxKey
}

func (idx *Index[V]) Params() Params {
	return idx.params
}

// Len is the number of keys in the cold tier.
func (idx *Index[V]) Len() int {
	return idx.cold.Len()
}

func (idx *Index[V]) HotLen() int {
	return idx.hot.Len()
}

func (idx *Index[V]) Type() string {
	return "HCTree"
}
