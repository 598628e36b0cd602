package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	kenv "github.com/knadh/koanf/providers/env"
	kfile "github.com/knadh/koanf/providers/file"
	kfn "github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
// Example: CANLOG_OUTPUT=parsed.csv
const EnvPrefix = "CANLOG_"

// Config holds the resolved settings of a parse run.
type Config struct {
	Input    string `koanf:"input" validate:"required"`
	Output   string `koanf:"output" default:"log.csv" validate:"required"`
	Format   string `koanf:"format" default:"csv" validate:"oneof=csv cbor"`
	Summary  bool   `koanf:"summary"`
	LogLevel string `koanf:"log_level" default:"info" validate:"oneof=debug info warn error"`
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load builds a Config from defaults, the optional YAML file at path and
// CANLOG_ environment variables, in increasing priority. The result is not
// validated, so command line flags can still be applied on top.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set default values: %w", err)
	}

	k := kfn.New(".")
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("error opening config file: %w", err)
		}
		ext := strings.ToLower(filepath.Ext(absPath))
		if ext != ".yaml" && ext != ".yml" {
			return nil, &UnsupportedExtensionError{Extension: ext}
		}
		slog.Debug("loading configuration file", "path", absPath)
		if err := k.Load(kfile.Provider(absPath), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	if err := k.Load(kenv.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, kfn.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps CANLOG_LOG_LEVEL to log_level.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

type UnsupportedExtensionError struct {
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	return "unsupported config file extension: " + e.Extension
}
