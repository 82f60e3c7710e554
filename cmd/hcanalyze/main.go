package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hctree/pkg/bench"
	"hctree/pkg/logging"
	"hctree/pkg/report"
	"hctree/pkg/storage"
)

func main() {
	dbPath := flag.String("db", "", "SQLite results database written by hcbench -db")
	csvPath := flag.String("csv", "", "CSV results file (header + rows from hcbench -csv)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger, err := logging.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	results, err := load(*dbPath, *csvPath)
	if err != nil {
		logger.Fatal("load results", zap.Error(err))
	}
	logger.Info("results loaded", zap.Int("runs", len(results)))

	if err := report.WriteComparison(os.Stdout, report.Compare(results)); err != nil {
		logger.Fatal("write comparison", zap.Error(err))
	}
}

func load(dbPath, csvPath string) ([]*bench.Result, error) {
	switch {
	case dbPath != "":
		store, err := storage.OpenResultStore(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadAll()
	case csvPath != "":
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return report.ReadCSV(f)
	default:
		return nil, errors.New("one of -db or -csv is required")
	}
}
