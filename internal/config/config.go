// Package config loads CLI settings from flags, HARDWAREID_* environment
// variables and an optional YAML config file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/slashdevops/hardwareid"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyLogLevel      = "log-level"
	KeyOutput        = "output"
	KeyTimeout       = "timeout"
	KeyQueryFallback = "query-fallback"
	KeyStrategies    = "strategies"
	KeyDiagnostics   = "diagnostics"
)

// EnvPrefix is prepended to every environment variable, e.g. HARDWAREID_TIMEOUT.
const EnvPrefix = "HARDWAREID"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the resolved CLI configuration.
type Config struct {
	LogLevel      string
	Output        string
	Timeout       time.Duration
	QueryFallback bool
	Strategies    []hardwareid.StrategyName
	Diagnostics   bool
}

// New returns a viper instance reading HARDWAREID_* variables.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyOutput, OutputText)
	v.SetDefault(KeyTimeout, 5*time.Second)

	return v
}

// BindFlags binds every flag in fs that has a matching config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyLogLevel, KeyOutput, KeyTimeout, KeyQueryFallback, KeyStrategies, KeyDiagnostics} {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", key, err)
		}
	}

	return nil
}

// ReadFile reads path when set. Otherwise it looks for hardwareid.yaml in
// the working directory and the user config directory; a missing file is
// not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}

		return nil
	}

	v.SetConfigName("hardwareid")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "hardwareid"))
	}

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

// Load validates and returns the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		LogLevel:      v.GetString(KeyLogLevel),
		Output:        strings.ToLower(v.GetString(KeyOutput)),
		Timeout:       v.GetDuration(KeyTimeout),
		QueryFallback: v.GetBool(KeyQueryFallback),
		Diagnostics:   v.GetBool(KeyDiagnostics),
	}

	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return Config{}, fmt.Errorf("unsupported output %q; valid values are text, json, yaml", cfg.Output)
	}

	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	for _, raw := range splitList(v.GetStringSlice(KeyStrategies)) {
		name, err := hardwareid.ParseStrategyName(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.Strategies = append(cfg.Strategies, name)
	}

	return cfg, nil
}

// NewResolver builds a resolver from cfg.
func (c Config) NewResolver() *hardwareid.Resolver {
	r := hardwareid.New().WithTimeout(c.Timeout)
	if c.QueryFallback {
		r.WithQueryFallback()
	}
	if len(c.Strategies) > 0 {
		r.WithStrategies(c.Strategies...)
	}

	return r
}

// splitList flattens comma-separated entries; environment variables arrive
// as a single "uuid,mac" string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
