package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Setup creates the launcher's structured logger. Level and format come from
// configuration ("debug"|"info"|"warn"|"error", "json"|"console"); an
// unrecognized level never blocks a launch and falls back to info. An
// optional YAML config file overlays individual settings; a missing file
// falls back to the flag-driven defaults, while a malformed one is an error.
func Setup(level, format, configFile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	if format == "console" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if configFile != "" {
		if err := applyFileConfig(&cfg, configFile); err != nil {
			return nil, err
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// fileConfig mirrors the subset of zap's configuration the logging file may
// set. Everything omitted keeps the base value, so the bool fields are
// pointers to tell an explicit false apart from absence.
type fileConfig struct {
	Level             string   `yaml:"level"`
	Encoding          string   `yaml:"encoding"`
	Development       *bool    `yaml:"development"`
	DisableCaller     *bool    `yaml:"disable_caller"`
	DisableStacktrace *bool    `yaml:"disable_stacktrace"`
	OutputPaths       []string `yaml:"output_paths"`
	ErrorOutputPaths  []string `yaml:"error_output_paths"`
}

// applyFileConfig overlays settings from the YAML logging config file.
func applyFileConfig(cfg *zap.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read logging config: %w", err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse logging config: %w", err)
	}

	if fileCfg.Level != "" {
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(fileCfg.Level))
	}
	if fileCfg.Encoding != "" {
		cfg.Encoding = fileCfg.Encoding
	}
	if fileCfg.Development != nil {
		cfg.Development = *fileCfg.Development
	}
	if fileCfg.DisableCaller != nil {
		cfg.DisableCaller = *fileCfg.DisableCaller
	}
	if fileCfg.DisableStacktrace != nil {
		cfg.DisableStacktrace = *fileCfg.DisableStacktrace
	}
	if len(fileCfg.OutputPaths) > 0 {
		cfg.OutputPaths = fileCfg.OutputPaths
	}
	if len(fileCfg.ErrorOutputPaths) > 0 {
		cfg.ErrorOutputPaths = fileCfg.ErrorOutputPaths
	}

	return nil
}

// parseLevel maps a level name to zap's scale, defaulting to info.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
