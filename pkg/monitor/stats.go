package monitor

import (
	"sync/atomic"
)

// TierStats counts lookups and node visits per tier of a hot/cold index.
type TierStats struct {
	Queries        uint64
	HotHits        uint64
	ColdHits       uint64
	NotFound       uint64
	HotNodeVisits  uint64
	ColdNodeVisits uint64
}

func NewTierStats() *TierStats {
	return &TierStats{}
}

func (ts *TierStats) RecordQuery() {
	atomic.AddUint64(&ts.Queries, 1)
}

func (ts *TierStats) RecordHotHit() {
	atomic.AddUint64(&ts.HotHits, 1)
}

func (ts *TierStats) RecordColdHit() {
	atomic.AddUint64(&ts.ColdHits, 1)
}

func (ts *TierStats) RecordNotFound() {
	atomic.AddUint64(&ts.NotFound, 1)
}

func (ts *TierStats) AddVisits(hot, cold int64) {
	if hot > 0 {
		atomic.AddUint64(&ts.HotNodeVisits, uint64(hot))
	}
	if cold > 0 {
		atomic.AddUint64(&ts.ColdNodeVisits, uint64(cold))
	}
}

// Snapshot copies the counters and attaches the current tier sizes.
func (ts *TierStats) Snapshot(hotKeys, coldKeys int) Snapshot {
	return Snapshot{
		Queries:        atomic.LoadUint64(&ts.Queries),
		HotHits:        atomic.LoadUint64(&ts.HotHits),
		ColdHits:       atomic.LoadUint64(&ts.ColdHits),
		NotFound:       atomic.LoadUint64(&ts.NotFound),
		HotNodeVisits:  atomic.LoadUint64(&ts.HotNodeVisits),
		ColdNodeVisits: atomic.LoadUint64(&ts.ColdNodeVisits),
		HotKeys:        hotKeys,
		ColdKeys:       coldKeys,
	}
}

type Snapshot struct {
	Queries        uint64
	HotHits        uint64
	ColdHits       uint64
	NotFound       uint64
	HotNodeVisits  uint64
	ColdNodeVisits uint64
	HotKeys        int
	ColdKeys       int
}

func (s Snapshot) AvgHotNodesPerQuery() float64 {
	if s.Queries == 0 {
		return 0
	}
	return float64(s.HotNodeVisits) / float64(s.Queries)
}

func (s Snapshot) AvgColdNodesPerQuery() float64 {
	if s.Queries == 0 {
		return 0
	}
	return float64(s.ColdNodeVisits) / float64(s.Queries)
}

// HotHitRatio is the share of queries answered by the hot tier.
func (s Snapshot) HotHitRatio() float64 {
	if s.Queries == 0 {
		return 0
	}
	return float64(s.HotHits) / float64(s.Queries)
}
