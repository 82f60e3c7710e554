package sql

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrSyntax = errors.New("syntax: expected SELECT * FROM <index> [WHERE key <op> <int> | WHERE key BETWEEN <int> AND <int>] [LIMIT <n>]")

// SelectStmt represents a parsed SELECT * FROM index statement.
type SelectStmt struct {
	Table string
	Where *WhereClause
	Limit int
}

// WhereClause restricts the key. Op is one of = != > < >= <= BETWEEN; Upper is
// only set for BETWEEN.
type WhereClause struct {
	Field string
	Op    string
	Value int64
	Upper int64
}

var selectRe = regexp.MustCompile(`(?i)^SELECT\s+\*\s+FROM\s+([a-zA-Z_][a-zA-Z0-9_]*)` +
	`(?:\s+WHERE\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:(=|!=|>=|<=|>|<)\s*(-?\d+)|\s+BETWEEN\s+(-?\d+)\s+AND\s+(-?\d+)))?` +
	`(?:\s+LIMIT\s+(\d+))?\s*$`)

// Parse parses simple SQL:
// "SELECT * FROM idx"
// "SELECT * FROM idx WHERE key = 42"
// "SELECT * FROM idx WHERE key BETWEEN 10 AND 20"
// "SELECT * FROM idx WHERE key >= 100 LIMIT 10"
func Parse(s string) (*SelectStmt, error) {
	orig := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
	if orig == "" {
		return nil, errors.Wrap(ErrSyntax, "empty query")
	}

	matches := selectRe.FindStringSubmatch(orig)
	if matches == nil {
		return nil, ErrSyntax
	}

	stmt := &SelectStmt{
		Table: matches[1],
		Limit: -1,
	}

	if matches[2] != "" {
		field := strings.ToLower(matches[2])
		if field != "key" && field != "id" {
			return nil, errors.Wrapf(ErrSyntax, "unknown column %q, only key is indexed", matches[2])
		}
		w := &WhereClause{Field: "key"}
		var err error
		if matches[3] != "" {
			w.Op = matches[3]
			w.Value, err = strconv.ParseInt(matches[4], 10, 64)
		} else {
			w.Op = "BETWEEN"
			w.Value, err = strconv.ParseInt(matches[5], 10, 64)
			if err == nil {
				w.Upper, err = strconv.ParseInt(matches[6], 10, 64)
			}
		}
		if err != nil {
			return nil, errors.Wrap(ErrSyntax, "invalid WHERE value")
		}
		stmt.Where = w
	}

	if matches[7] != "" {
		limitVal, err := strconv.ParseInt(matches[7], 10, 64)
		if err != nil || limitVal > math.MaxInt32 {
			return nil, errors.Wrap(ErrSyntax, "invalid LIMIT value")
		}
		stmt.Limit = int(limitVal)
	}

	return stmt, nil
}

// IsPoint reports whether the statement names a single key.
func (stmt *SelectStmt) IsPoint() bool {
	return stmt.Where != nil && stmt.Where.Op == "="
}

// Bounds returns the inclusive key range to scan within [minKey, maxKey].
// ok is false when the range is empty.
func (stmt *SelectStmt) Bounds(minKey, maxKey int64) (lo, hi int64, ok bool) {
	lo, hi = minKey, maxKey
	if w := stmt.Where; w != nil {
		switch w.Op {
		case "=":
			lo, hi = w.Value, w.Value
		case ">":
			if w.Value == math.MaxInt64 {
				return 0, 0, false
			}
			lo = max(lo, w.Value+1)
		case ">=":
			lo = max(lo, w.Value)
		case "<":
			if w.Value == math.MinInt64 {
				return 0, 0, false
			}
			hi = min(hi, w.Value-1)
		case "<=":
			hi = min(hi, w.Value)
		case "BETWEEN":
			lo, hi = max(lo, w.Value), min(hi, w.Upper)
		}
	}
	if lo < minKey {
		lo = minKey
	}
	if hi > maxKey {
		hi = maxKey
	}
	return lo, hi, lo <= hi
}

func (stmt *SelectStmt) MatchKey(key int64) bool {
	if stmt.Where == nil {
		return true
	}
	v := stmt.Where.Value
	switch stmt.Where.Op {
	case "=":
		return key == v
	case "!=":
		return key != v
	case ">":
		return key > v
	case "<":
		return key < v
	case ">=":
		return key >= v
	case "<=":
		return key <= v
	case "BETWEEN":
		return key >= v && key <= stmt.Where.Upper
	default:
		return false
	}
}
