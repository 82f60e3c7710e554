package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"hctree/pkg/bench"
	"hctree/pkg/config"
	"hctree/pkg/logging"
	"hctree/pkg/report"
	"hctree/pkg/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "YAML config file (default: configs/hctree.yaml or hctree.yaml if present)")
	nkeys := flag.Int64("nkeys", 0, "number of distinct keys")
	nqueries := flag.Int64("nqueries", 0, "number of point queries")
	workloadType := flag.String("workload", "", "'uniform' or 'zipf'")
	theta := flag.Float64("theta", 0, "zipf exponent")
	hotThresh := flag.Float64("hot_thresh", 0, "hot threshold")
	decay := flag.Float64("decay", 0, "decay alpha")
	hotFrac := flag.Float64("hot_frac", 0, "max hot fraction")
	seed := flag.Uint64("seed", 0, "RNG seed")
	mode := flag.String("mode", "", "'hctree', 'baseline' or 'gbtree'")
	disableHot := flag.Bool("disable_hot", false, "alias for -mode baseline")
	degree := flag.Int("degree", 0, "B-tree minimum degree")
	rangeQueries := flag.Int64("range_queries", 0, "number of range scans after the point queries")
	rangeWidth := flag.Int64("range_width", 0, "keys covered by each range scan")
	csvOut := flag.Bool("csv", false, "output one line of CSV instead of human-readable text")
	csvHeader := flag.Bool("csv_header", false, "print CSV header and exit")
	dbPath := flag.String("db", "", "append the result to this SQLite results database")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *csvHeader {
		if err := report.WriteCSV(os.Stdout, true); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nkeys":
			cfg.Workload.NKeys = *nkeys
		case "nqueries":
			cfg.Workload.NQueries = *nqueries
		case "workload":
			cfg.Workload.Type = *workloadType
		case "theta":
			cfg.Workload.Theta = *theta
		case "hot_thresh":
			cfg.Index.HotThreshold = *hotThresh
		case "decay":
			cfg.Index.DecayAlpha = *decay
		case "hot_frac":
			cfg.Index.MaxHotFraction = *hotFrac
		case "seed":
			cfg.Workload.Seed = *seed
		case "mode":
			cfg.Index.Mode = *mode
		case "degree":
			cfg.Index.Degree = *degree
		case "range_queries":
			cfg.Workload.RangeQueries = *rangeQueries
		case "range_width":
			cfg.Workload.RangeWidth = *rangeWidth
		case "csv":
			cfg.Output.CSV = *csvOut
		case "db":
			cfg.Output.ResultsDB = *dbPath
		case "v":
			cfg.Output.Verbose = *verbose
		}
	})
	if *disableHot {
		cfg.Index.Mode = bench.ModeBaseline
	}
	if cfg.Workload.RangeQueries > 0 && cfg.Workload.RangeWidth <= 0 {
		cfg.Workload.RangeWidth = 100
	}

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Error("bad configuration", zap.Error(err))
		flag.Usage()
		return 1
	}

	res, err := bench.NewRunner(cfg, logger).Run()
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}

	if cfg.Output.CSV {
		err = report.WriteCSV(os.Stdout, false, res)
	} else {
		err = report.WriteText(os.Stdout, res)
	}
	if err != nil {
		logger.Error("write report", zap.Error(err))
		return 1
	}

	if cfg.Output.ResultsDB != "" {
		store, err := storage.OpenResultStore(cfg.Output.ResultsDB)
		if err != nil {
			logger.Error("open results db", zap.Error(err))
			return 1
		}
		defer store.Close()
		if err := store.Save(res); err != nil {
			logger.Error("save result", zap.Error(err))
			return 1
		}
		logger.Info("result stored", zap.String("db", cfg.Output.ResultsDB))
	}
	return 0
}
