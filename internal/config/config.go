// Package config holds the application configuration. Values are resolved
// with the precedence command-line flags > environment variables (SIGVALID_
// prefix) > YAML config file > defaults.
package config

import (
	"errors"
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/agbru/sigvalid/internal/comparison"
	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/logging"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "SIGVALID_"

// Defaults.
const (
	DefaultTimeout  = 5 * time.Minute
	DefaultLogLevel = "warn"
)

// AppConfig aggregates every option of the validate command.
type AppConfig struct {
	// Candidate is the CSV file holding our own processed signal.
	Candidate string `yaml:"candidate"`
	// Source is the CSV file handed to the reference provider. Empty means
	// the candidate itself.
	Source string `yaml:"source"`
	// Reference is a precomputed reference CSV.
	Reference string `yaml:"reference"`
	// ReferenceCmd is a command computing the reference from stdin.
	ReferenceCmd string `yaml:"reference_cmd"`
	// SampleRate is the sampling rate in Hz.
	SampleRate float64 `yaml:"rate"`
	// Channels overrides the channel names read from the candidate header.
	Channels []string `yaml:"channels"`
	// Output is where the report text is saved, if set.
	Output  string        `yaml:"output"`
	Timeout time.Duration `yaml:"timeout"`
	// Workers bounds concurrent channel comparisons; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// MinVerdict makes the command fail when the verdict is worse.
	MinVerdict  string `yaml:"min_verdict"`
	Quiet       bool   `yaml:"quiet"`
	NoColor     bool   `yaml:"no_color"`
	TUI         bool   `yaml:"tui"`
	LogLevel    string `yaml:"log_level"`
	MetricsFile string `yaml:"metrics_file"`
	// TraceFile receives the run's OpenTelemetry spans as JSON.
	TraceFile string `yaml:"trace_file"`
	History   string `yaml:"history"`
}

// Default returns the configuration used when nothing else is given.
func Default() AppConfig {
	return AppConfig{
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}
}

// BindFlags registers the validate flags on fs, bound to cfg. The current
// values of cfg become the flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVarP(&cfg.Candidate, "candidate", "c", cfg.Candidate, "CSV file with the candidate (our processed) signal")
	fs.StringVar(&cfg.Source, "source", cfg.Source, "CSV file handed to the reference provider (default: the candidate)")
	fs.StringVarP(&cfg.Reference, "reference", "r", cfg.Reference, "CSV file with a precomputed reference")
	fs.StringVar(&cfg.ReferenceCmd, "reference-cmd", cfg.ReferenceCmd, "command computing the reference (CSV on stdin and stdout)")
	fs.Float64Var(&cfg.SampleRate, "rate", cfg.SampleRate, "sampling rate in Hz")
	fs.StringSliceVar(&cfg.Channels, "channels", cfg.Channels, "comma-separated channel names (default: CSV header)")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "save the report text to this file")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "maximum duration of the validation (0 disables)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "channels compared concurrently (0 = one per CPU)")
	fs.StringVar(&cfg.MinVerdict, "min-verdict", cfg.MinVerdict, "fail with exit code 3 below this verdict (EXCELLENT, GOOD, MODERATE, POOR)")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "print only the verdict token")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "show the interactive terminal UI")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile")
	fs.StringVar(&cfg.TraceFile, "trace-file", cfg.TraceFile, "write OpenTelemetry spans of the run to this file")
	fs.StringVar(&cfg.History, "history", cfg.History, "record the run in this SQLite history database")
}

// LoadFile decodes the YAML file at path over cfg. Keys absent from the
// file keep their current value; unknown keys are an error.
func LoadFile(path string, cfg *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewConfigError("cannot open config file: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewConfigError("invalid config file %s: %v", path, err)
	}
	return nil
}

// Resolve completes cfg, whose explicitly set flags are already parsed in
// fs, with the config file at configPath (if any) and the environment, then
// validates it.
func Resolve(cfg *AppConfig, fs *pflag.FlagSet, configPath string) error {
	if configPath != "" {
		fromFile := Default()
		if err := LoadFile(configPath, &fromFile); err != nil {
			return err
		}
		for _, o := range options {
			if !fs.Changed(o.flag) {
				copyField(o.field(cfg), o.field(&fromFile))
			}
		}
	}
	if err := applyEnvOverrides(cfg, fs); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks option values and combinations.
func (c AppConfig) Validate() error {
	switch {
	case c.Candidate == "":
		return apperrors.NewConfigError("--candidate is required")
	case c.Reference == "" && c.ReferenceCmd == "":
		return apperrors.NewConfigError("one of --reference or --reference-cmd is required")
	case c.Reference != "" && c.ReferenceCmd != "":
		return apperrors.NewConfigError("--reference and --reference-cmd are mutually exclusive")
	case c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0):
		return apperrors.NewConfigError("--rate must be a positive number of Hz, got %v", c.SampleRate)
	case c.Timeout < 0:
		return apperrors.NewConfigError("--timeout must not be negative, got %s", c.Timeout)
	case c.Workers < 0:
		return apperrors.NewConfigError("--workers must not be negative, got %d", c.Workers)
	case c.Quiet && c.TUI:
		return apperrors.NewConfigError("--quiet and --tui are mutually exclusive")
	}
	if c.MinVerdict != "" {
		if _, err := comparison.ParseVerdict(c.MinVerdict); err != nil {
			return apperrors.NewConfigError("--min-verdict: %v", err)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("--log-level: %v", err)
	}
	return nil
}

// MinimumVerdict returns the verdict gate and whether one is configured.
func (c AppConfig) MinimumVerdict() (comparison.Verdict, bool) {
	if c.MinVerdict == "" {
		return comparison.Poor, false
	}
	v, err := comparison.ParseVerdict(c.MinVerdict)
	return v, err == nil
}

// EffectiveWorkers returns the worker bound to use: Workers when set,
// otherwise the number of CPUs.
func (c AppConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
