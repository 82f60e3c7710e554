package storage

import (
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"hctree/pkg/bench"
)

// ResultStore keeps benchmark runs in a SQLite table so they can be compared
// across invocations.
type ResultStore struct {
	db *sql.DB
	mu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at               INTEGER NOT NULL,
	mode                 TEXT    NOT NULL,
	workload             TEXT    NOT NULL,
	theta                REAL    NOT NULL,
	nkeys                INTEGER NOT NULL,
	nqueries             INTEGER NOT NULL,
	hot_threshold        REAL    NOT NULL,
	decay_alpha          REAL    NOT NULL,
	hot_fraction         REAL    NOT NULL,
	seed                 INTEGER NOT NULL,
	elapsed_ns           INTEGER NOT NULL,
	qps                  REAL    NOT NULL,
	hot_hits             INTEGER NOT NULL,
	cold_hits            INTEGER NOT NULL,
	not_found            INTEGER NOT NULL,
	hot_keys             INTEGER NOT NULL,
	cold_keys            INTEGER NOT NULL,
	avg_hot_nodes_per_q  REAL    NOT NULL,
	avg_cold_nodes_per_q REAL    NOT NULL,
	range_queries        INTEGER NOT NULL DEFAULT 0,
	range_keys           INTEGER NOT NULL DEFAULT 0,
	range_elapsed_ns     INTEGER NOT NULL DEFAULT 0
);`

func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init runs table")
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Save(r *bench.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO runs (
		run_at, mode, workload, theta, nkeys, nqueries, hot_threshold, decay_alpha, hot_fraction, seed,
		elapsed_ns, qps, hot_hits, cold_hits, not_found, hot_keys, cold_keys,
		avg_hot_nodes_per_q, avg_cold_nodes_per_q, range_queries, range_keys, range_elapsed_ns
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunAt.UnixNano(), r.Mode, r.Workload, r.Theta, r.NKeys, r.NQueries,
		r.HotThreshold, r.DecayAlpha, r.HotFraction, int64(r.Seed),
		int64(r.Elapsed), r.QPS, int64(r.HotHits), int64(r.ColdHits), int64(r.NotFound),
		r.HotKeys, r.ColdKeys, r.AvgHotNodesPerQ, r.AvgColdNodesPerQ,
		r.RangeQueries, r.RangeKeys, int64(r.RangeElapsed))
	return errors.Wrap(err, "insert run")
}

// LoadAll returns every stored run, oldest first.
func (s *ResultStore) LoadAll() ([]*bench.Result, error) {
	rows, err := s.db.Query(`SELECT
		run_at, mode, workload, theta, nkeys, nqueries, hot_threshold, decay_alpha, hot_fraction, seed,
		elapsed_ns, qps, hot_hits, cold_hits, not_found, hot_keys, cold_keys,
		avg_hot_nodes_per_q, avg_cold_nodes_per_q, range_queries, range_keys, range_elapsed_ns
		FROM runs ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var out []*bench.Result
	for rows.Next() {
		var (
			r                             bench.Result
			runAt, seed, elapsed, rangeNs int64
			hotHits, coldHits, notFound   int64
		)
		if err := rows.Scan(&runAt, &r.Mode, &r.Workload, &r.Theta, &r.NKeys, &r.NQueries,
			&r.HotThreshold, &r.DecayAlpha, &r.HotFraction, &seed,
			&elapsed, &r.QPS, &hotHits, &coldHits, &notFound, &r.HotKeys, &r.ColdKeys,
			&r.AvgHotNodesPerQ, &r.AvgColdNodesPerQ, &r.RangeQueries, &r.RangeKeys, &rangeNs); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		r.RunAt = time.Unix(0, runAt)
		r.Seed = uint64(seed)
		r.Elapsed = time.Duration(elapsed)
		r.RangeElapsed = time.Duration(rangeNs)
		r.HotHits, r.ColdHits, r.NotFound = uint64(hotHits), uint64(coldHits), uint64(notFound)
		out = append(out, &r)
	}
	return out, errors.Wrap(rows.Err(), "iterate runs")
}

func (s *ResultStore) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM runs")
	return errors.Wrap(err, "truncate runs")
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}
