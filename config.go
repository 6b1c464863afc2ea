package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive integer sweep: Start, Start+Step, ... <= Stop.
type Range struct {
	Start int `yaml:"start"`
	Stop  int `yaml:"stop"`
	Step  int `yaml:"step"`
}

func (r Range) Values() []int {
	if r.Step <= 0 || r.Start > r.Stop {
		return nil
	}
	var vals []int
	for v := r.Start; ; v += r.Step {
		vals = append(vals, v)
		// v+Step may overflow near MaxInt; the remaining distance does not.
		if r.Stop-v < r.Step {
			return vals
		}
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d:%d", r.Start, r.Stop, r.Step)
}

func (r Range) validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("range %s: step must be positive", r)
	}
	if r.Start > r.Stop {
		return fmt.Errorf("range %s: start is after stop", r)
	}
	return nil
}

// ParseRange accepts "start:stop:step", "start:stop" (step 1) or a single
// value.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return Range{}, fmt.Errorf("invalid range %q: want start:stop:step", s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
		nums[i] = n
	}
	r := Range{Start: nums[0], Stop: nums[0], Step: 1}
	if len(nums) > 1 {
		r.Stop = nums[1]
	}
	if len(nums) > 2 {
		r.Step = nums[2]
	}
	return r, r.validate()
}

type SweepConfig struct {
	MaxPeriod  int   `yaml:"max_period"`
	Thresholds Range `yaml:"thresholds"`
	Cases      int   `yaml:"cases"`
	Controls   int   `yaml:"controls"`
}

type RuntimeConfig struct {
	MaxPeriod int   `yaml:"max_period"`
	Threshold int   `yaml:"threshold"`
	Sizes     []int `yaml:"sizes"`
	Seed      int64 `yaml:"seed"`
}

// Config is the full benchmark configuration. Every subcommand reads the
// shared top-level fields plus its own section.
type Config struct {
	Binary    string        `yaml:"binary"`
	FileList  string        `yaml:"files"`
	OutputDir string        `yaml:"output_dir"`
	DPI       int           `yaml:"dpi"`
	Jobs      int           `yaml:"jobs"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`

	Sweep   SweepConfig   `yaml:"sweep"`
	PerGene SweepConfig   `yaml:"per_gene"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

func DefaultConfig() Config {
	thresholds := Range{Start: 0, Stop: 50, Step: 5}
	return Config{
		Binary:    "./target/release/trf_disease_repeats",
		FileList:  "files.txt",
		OutputDir: ".",
		DPI:       300,
		Jobs:      1,
		LogLevel:  "info",
		LogFormat: "text",
		Sweep: SweepConfig{
			MaxPeriod:  3,
			Thresholds: thresholds,
			Cases:      10,
			Controls:   10,
		},
		PerGene: SweepConfig{
			MaxPeriod:  50,
			Thresholds: thresholds,
			Cases:      10,
			Controls:   10,
		},
		Runtime: RuntimeConfig{
			MaxPeriod: 50,
			Threshold: 50,
			Sizes: []int{
				1_000,
				5_000,
				10_000,
				25_000,
				50_000,
				100_000,
				250_000,
				500_000,
				1_000_000,
			},
		},
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys absent from
// the file keep their current values.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Binary == "" {
		errs = append(errs, errors.New("binary must not be empty"))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.DPI))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat))
	}
	for name, s := range map[string]SweepConfig{"sweep": c.Sweep, "per_gene": c.PerGene} {
		if err := s.Thresholds.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		if s.Cases < 0 || s.Controls < 0 {
			errs = append(errs, fmt.Errorf("%s: cases and controls must not be negative", name))
		}
	}
	if len(c.Runtime.Sizes) == 0 {
		errs = append(errs, errors.New("runtime: at least one size is required"))
	}
	for _, n := range c.Runtime.Sizes {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("runtime: size must be positive, got %d", n))
		}
	}
	return errors.Join(errs...)
}
