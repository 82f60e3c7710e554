package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Index    IndexConfig    `yaml:"index"`
	Workload WorkloadConfig `yaml:"workload"`
	Output   OutputConfig   `yaml:"output"`
}

type IndexConfig struct {
	Mode           string  `yaml:"mode"`   // hctree | baseline | gbtree
	Degree         int     `yaml:"degree"` // B-tree minimum degree
	DecayAlpha     float64 `yaml:"decay_alpha"`
	HotThreshold   float64 `yaml:"hot_threshold"`
	MaxHotFraction float64 `yaml:"max_hot_fraction"`
	Inclusive      *bool   `yaml:"inclusive"`
}

type WorkloadConfig struct {
	Type         string  `yaml:"type"` // uniform | zipf
	NKeys        int64   `yaml:"nkeys"`
	NQueries     int64   `yaml:"nqueries"`
	Theta        float64 `yaml:"theta"`
	Seed         uint64  `yaml:"seed"`
	RangeQueries int64   `yaml:"range_queries"`
	RangeWidth   int64   `yaml:"range_width"`
}

type OutputConfig struct {
	CSV       bool   `yaml:"csv"`
	ResultsDB string `yaml:"results_db"`
	Verbose   bool   `yaml:"verbose"`
}

func Default() *Config {
	inclusive := true
	return &Config{
		Index: IndexConfig{
			Mode:           "hctree",
			Degree:         32,
			DecayAlpha:     0.9,
			HotThreshold:   8.0,
			MaxHotFraction: 0.05,
			Inclusive:      &inclusive,
		},
		Workload: WorkloadConfig{
			Type:     "zipf",
			NKeys:    100000,
			NQueries: 500000,
			Theta:    1.1,
			Seed:     42,
		},
	}
}

// Load reads configPath over the defaults. An empty path searches the usual
// locations and falls back to defaults when none exists.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range []string{"configs/hctree.yaml", "hctree.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, errors.Wrapf(err, "parse %s", p)
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", configPath)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Index.Mode == "" {
		cfg.Index.Mode = "hctree"
	}
	if cfg.Index.Degree == 0 {
		cfg.Index.Degree = 32
	}
	if cfg.Index.Inclusive == nil {
		inclusive := true
		cfg.Index.Inclusive = &inclusive
	}
	if cfg.Workload.Type == "" {
		cfg.Workload.Type = "zipf"
	}
	if cfg.Workload.RangeQueries > 0 && cfg.Workload.RangeWidth <= 0 {
		cfg.Workload.RangeWidth = 100
	}
}

// Validate rejects settings the runner cannot honour.
func (c *Config) Validate() error {
	switch c.Index.Mode {
	case "hctree", "baseline", "gbtree":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown mode %q", c.Index.Mode)
	}
	if c.Index.Degree < 2 {
		return errors.Wrapf(ErrInvalidConfig, "degree %d < 2", c.Index.Degree)
	}
	if c.Index.Inclusive != nil && !*c.Index.Inclusive {
		return errors.Wrap(ErrInvalidConfig, "inclusive: false is not supported")
	}
	switch c.Workload.Type {
	case "uniform", "zipf":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown workload %q", c.Workload.Type)
	}
	if c.Workload.NKeys <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "nkeys %d must be positive", c.Workload.NKeys)
	}
	if c.Workload.NQueries < 0 || c.Workload.RangeQueries < 0 {
		return errors.Wrap(ErrInvalidConfig, "query counts must not be negative")
	}
	if c.Workload.Type == "zipf" && c.Workload.Theta <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "theta %v must be positive", c.Workload.Theta)
	}
	return nil
}
