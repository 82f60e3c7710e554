package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hctree/pkg/common"
	"hctree/pkg/core/tiered"
	"hctree/pkg/logging"
	"hctree/pkg/sql"
)

const Prompt = "hctree> "

type shell struct {
	idx *tiered.Index[string]
	out io.Writer
}

func main() {
	maxKey := flag.Int64("maxkey", 999, "largest key of the domain [0, maxkey]")
	degree := flag.Int("degree", 4, "B-tree minimum degree")
	decay := flag.Float64("decay", 0.9, "decay alpha")
	thresh := flag.Float64("hot_thresh", 3.0, "hot threshold")
	frac := flag.Float64("hot_frac", 0.05, "max hot fraction")
	preload := flag.Bool("preload", true, "insert every key of the domain with payload v<key>")
	verbose := flag.Bool("v", false, "debug logging (shows promotions)")
	flag.Parse()

	logger, err := logging.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	params := tiered.Params{DecayAlpha: *decay, HotThreshold: *thresh, MaxHotFraction: *frac, Inclusive: true}
	idx, err := tiered.New[string](common.KeyType(*maxKey), *degree, params, tiered.WithLogger(logger))
	if err != nil {
		logger.Fatal("create index", zap.Error(err))
	}
	if *preload {
		for k := common.KeyType(0); k <= idx.MaxKey(); k++ {
			idx.Insert(k, "v"+strconv.FormatInt(int64(k), 10))
		}
	}

	fmt.Printf("HCTree CLI (domain [0, %d], hot capacity %d)\n", *maxKey, idx.HotCapacity())
	fmt.Println("Type 'help' for commands.")

	sh := &shell{idx: idx, out: os.Stdout}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			break
		}
		if !sh.exec(scanner.Text()) {
			fmt.Println("Bye!")
			return
		}
	}
}

// exec runs one input line and reports whether the shell should continue.
func (sh *shell) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case "put", "set":
		sh.handlePut(parts)
	case "get":
		sh.handleGet(parts)
	case "scan":
		sh.handleScan(parts)
	case "select":
		sh.handleSelect(line)
	case "stats":
		sh.handleStats()
	case "help":
		sh.printHelp()
	case "exit", "quit":
		return false
	default:
		fmt.Fprintf(sh.out, "Unknown command: '%s'. Type 'help'.\n", parts[0])
	}
	return true
}

func (sh *shell) handlePut(parts []string) {
	if len(parts) < 3 {
		fmt.Fprintln(sh.out, "Usage: put <key_int> <value_string>")
		return
	}
	key, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Fprintln(sh.out, "Error: Key must be an integer (e.g., 1001)")
		return
	}
	k := common.KeyType(key)
	if k < 0 || k > sh.idx.MaxKey() {
		fmt.Fprintf(sh.out, "Error: key %d outside [0, %d]\n", key, sh.idx.MaxKey())
		return
	}
	sh.idx.Insert(k, strings.Join(parts[2:], " "))
	fmt.Fprintln(sh.out, "OK")
}

func (sh *shell) handleGet(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(sh.out, "Usage: get <key_int>")
		return
	}
	key, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Fprintln(sh.out, "Error: Key must be an integer")
		return
	}
	sh.get(common.KeyType(key))
}

func (sh *shell) get(k common.KeyType) {
	wasHot := sh.idx.IsHot(k)
	start := time.Now()
	val, ok := sh.idx.Search(k)
	duration := time.Since(start)
	if !ok {
		fmt.Fprintf(sh.out, "(not found) (%v)\n", duration)
		return
	}
	tier := "cold"
	if wasHot {
		tier = "hot"
	}
	note := ""
	if !wasHot && sh.idx.IsHot(k) {
		note = ", promoted"
	}
	fmt.Fprintf(sh.out, "\"%s\" [%s, score %.3f%s] (%v)\n", val, tier, sh.idx.Score(k), note, duration)
}

func (sh *shell) handleScan(parts []string) {
	if len(parts) < 3 {
		fmt.Fprintln(sh.out, "Usage: scan <start_key> <end_key>")
		return
	}
	lo, err1 := strconv.ParseInt(parts[1], 10, 64)
	hi, err2 := strconv.ParseInt(parts[2], 10, 64)
	if err1 != nil || err2 != nil {
		fmt.Fprintln(sh.out, "Error: Keys must be integers")
		return
	}
	sh.scan(common.KeyType(lo), common.KeyType(hi), -1, nil)
}

func (sh *shell) scan(lo, hi common.KeyType, limit int, match func(int64) bool) {
	fmt.Fprintf(sh.out, "Scanning range [%d, %d]...\n", lo, hi)
	var records []common.Record[string]
	start := time.Now()
	sh.idx.RangeSearch(lo, hi, func(k common.KeyType, v string) {
		if match != nil && !match(int64(k)) {
			return
		}
		if limit >= 0 && len(records) >= limit {
			return
		}
		records = append(records, common.Record[string]{Key: k, Value: v})
	})
	duration := time.Since(start)

	fmt.Fprintf(sh.out, "Found %d records (%v):\n", len(records), duration)
	for i, rec := range records {
		if i >= 20 {
			fmt.Fprintf(sh.out, "... and %d more\n", len(records)-20)
			break
		}
		fmt.Fprintf(sh.out, "  [%d] -> %s\n", rec.Key, rec.Value)
	}
}

func (sh *shell) handleSelect(line string) {
	stmt, err := sql.Parse(line)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if stmt.IsPoint() && stmt.Limit != 0 {
		sh.get(common.KeyType(stmt.Where.Value))
		return
	}
	lo, hi, ok := stmt.Bounds(0, int64(sh.idx.MaxKey()))
	if !ok {
		fmt.Fprintln(sh.out, "Found 0 records")
		return
	}
	sh.scan(common.KeyType(lo), common.KeyType(hi), stmt.Limit, stmt.MatchKey)
}

func (sh *shell) handleStats() {
	s := sh.idx.Stats()
	fmt.Fprintf(sh.out, "queries=%d hot_hits=%d cold_hits=%d not_found=%d\n", s.Queries, s.HotHits, s.ColdHits, s.NotFound)
	fmt.Fprintf(sh.out, "hot_node_visits=%d cold_node_visits=%d\n", s.HotNodeVisits, s.ColdNodeVisits)
	fmt.Fprintf(sh.out, "hot_keys=%d/%d cold_keys=%d\n", s.HotKeys, sh.idx.HotCapacity(), s.ColdKeys)
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, `
Commands:
  put <key> <value>      Insert/Update record
  get <key>              Point lookup (hot first, then cold)
  scan <start> <end>     Range query (inclusive)
  SELECT * FROM idx [WHERE key = n | WHERE key BETWEEN a AND b | WHERE key <op> n] [LIMIT n]
  stats                  Hit and node-visit counters
  exit                   Exit CLI
	`)
}
