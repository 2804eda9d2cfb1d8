// This file contains the environment variable overrides.

package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

// option ties a flag to its environment key and to the AppConfig field it
// sets. field returns a pointer into the given config.
type option struct {
	flag  string
	env   string
	field func(*AppConfig) any
}

// options is the declarative table of every overridable setting.
var options = []option{
	{"candidate", "CANDIDATE", func(c *AppConfig) any { return &c.Candidate }},
	{"source", "SOURCE", func(c *AppConfig) any { return &c.Source }},
	{"reference", "REFERENCE", func(c *AppConfig) any { return &c.Reference }},
	{"reference-cmd", "REFERENCE_CMD", func(c *AppConfig) any { return &c.ReferenceCmd }},
	{"rate", "RATE", func(c *AppConfig) any { return &c.SampleRate }},
	{"channels", "CHANNELS", func(c *AppConfig) any { return &c.Channels }},
	{"output", "OUTPUT", func(c *AppConfig) any { return &c.Output }},
	{"timeout", "TIMEOUT", func(c *AppConfig) any { return &c.Timeout }},
	{"workers", "WORKERS", func(c *AppConfig) any { return &c.Workers }},
	{"min-verdict", "MIN_VERDICT", func(c *AppConfig) any { return &c.MinVerdict }},
	{"quiet", "QUIET", func(c *AppConfig) any { return &c.Quiet }},
	{"no-color", "NO_COLOR", func(c *AppConfig) any { return &c.NoColor }},
	{"tui", "TUI", func(c *AppConfig) any { return &c.TUI }},
	{"log-level", "LOG_LEVEL", func(c *AppConfig) any { return &c.LogLevel }},
	{"metrics-file", "METRICS_FILE", func(c *AppConfig) any { return &c.MetricsFile }},
	{"trace-file", "TRACE_FILE", func(c *AppConfig) any { return &c.TraceFile }},
	{"history", "HISTORY", func(c *AppConfig) any { return &c.History }},
}

// applyEnvOverrides applies SIGVALID_* environment variables to every option
// whose flag was not set explicitly. Unparsable values are a ConfigError.
func applyEnvOverrides(cfg *AppConfig, fs *pflag.FlagSet) error {
	for _, o := range options {
		if fs != nil && fs.Changed(o.flag) {
			continue
		}
		val, ok := os.LookupEnv(EnvPrefix + o.env)
		if !ok || val == "" {
			continue
		}
		if err := setFromString(o.field(cfg), val); err != nil {
			return apperrors.NewConfigError("%s%s=%q: %v", EnvPrefix, o.env, val, err)
		}
	}
	return nil
}

func setFromString(dst any, val string) error {
	switch p := dst.(type) {
	case *string:
		*p = val
	case *[]string:
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		*p = parts
	case *float64:
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*p = v
	case *time.Duration:
		v, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*p = v
	case *bool:
		v, ok := parseBoolEnv(val)
		if !ok {
			return strconv.ErrSyntax
		}
		*p = v
	}
	return nil
}

// parseBoolEnv accepts "true", "1", "yes" as true and "false", "0", "no" as
// false (case-insensitive).
func parseBoolEnv(val string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// copyField copies *src into *dst; both are pointers to the same field type.
func copyField(dst, src any) {
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(src).Elem())
}
