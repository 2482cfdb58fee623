package config

import (
	"fmt"
	"os"

	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/JuliusMieliauskas/poly-market-maker/internal/environ"
)

// Engine holds the nine values handed to the market-making engine on its
// command line. The seven address-like fields are opaque strings the launcher
// passes through verbatim, even when empty. The two interval fields stay
// strings here too; they are coerced to integers only when the argument
// vector is built, so a garbled value degrades the same way at every source.
type Engine struct {
	PrivateKey       string `env:"PRIVATE_KEY"`
	ClobAPIURL       string `env:"CLOB_API_URL"`
	ConditionID      string `env:"CONDITION_ID"`
	Strategy         string `env:"STRATEGY"`
	StrategyConfig   string `env:"CONFIG"`
	FunderAddress    string `env:"FUNDER_ADDRESS"`
	WalletAddress    string `env:"WALLET_ADDRESS"`
	RefreshFrequency string `env:"REFRESH_FREQUENCY" default:"20"`
	SyncInterval     string `env:"SYNC_INTERVAL" default:"17"`
}

// Settings holds the launcher's own knobs. None of these reach the engine's
// command line.
type Settings struct {
	EngineBin         string `env:"ENGINE_BIN" default:"poly-market-maker"`
	LogLevel          string `env:"LOG_LEVEL" default:"info"`
	LogFormat         string `env:"LOG_FORMAT" default:"json"`
	LoggingConfigFile string `env:"LOGGING_CONFIG_FILE"`
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > environment > env file > profile > built-in defaults
type Config struct {
	Engine   Engine
	Settings Settings

	// DryRun prints the engine invocation instead of executing it.
	DryRun bool

	// Environ is the merged environment the engine process inherits,
	// captured once at load time.
	Environ []string
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	EnvFile   string
	Profile   string
	EngineBin *string
	DryRun    *bool
}

// Load resolves configuration from multiple sources with precedence:
// CLI flags > environment > env file > profile > built-in defaults.
// A value that is set but empty counts as unset at every source, so defaults
// still apply to fields that carry one.
func Load(overrides *CLIOverrides) (Config, error) {
	envFile := ""
	if overrides != nil {
		envFile = overrides.EnvFile
	}
	if envFile == "" {
		path, err := environ.DefaultPath()
		if err != nil {
			return Config{}, fmt.Errorf("locate env file: %w", err)
		}
		envFile = path
	}

	snapshot, err := environ.Capture(os.Environ(), envFile)
	if err != nil {
		return Config{}, err
	}

	var profile map[string]string
	if overrides != nil && overrides.Profile != "" {
		profile, err = loadProfile(overrides.Profile)
		if err != nil {
			return Config{}, fmt.Errorf("load launch profile: %w", err)
		}
	}

	source := &lookupSource{snapshot: snapshot, profile: profile}

	var cfg Config
	if err := env.Load(&cfg.Engine, &env.Options{Source: source}); err != nil {
		return Config{}, fmt.Errorf("resolve engine fields: %w", err)
	}
	if err := env.Load(&cfg.Settings, &env.Options{Source: source}); err != nil {
		return Config{}, fmt.Errorf("resolve launcher settings: %w", err)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	cfg.Environ = snapshot.Environ()

	return cfg, nil
}

// lookupSource layers the captured environment snapshot over the optional
// launch profile so struct resolution sees a single ordered view.
type lookupSource struct {
	snapshot *environ.Snapshot
	profile  map[string]string
}

// LookupEnv implements env.Source.
func (s *lookupSource) LookupEnv(key string) (string, bool) {
	if value, ok := s.snapshot.LookupEnv(key); ok {
		return value, true
	}
	if value, ok := s.profile[key]; ok && value != "" {
		return value, true
	}
	return "", false
}

// loadProfile reads a launch profile, a flat YAML mapping of environment-style
// assignments. Every value is taken as its literal scalar text, never as
// YAML's typed reading of it: an unquoted 0x-prefixed identifier must reach
// the engine as written, not as a decimal re-rendering of a hex integer.
// Profiles sit below the env file in precedence, so a profile value only
// shows through for fields nothing else sets.
func loadProfile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	profile := make(map[string]string, len(raw))
	for key, node := range raw {
		if node.Kind == 0 || node.Tag == "!!null" {
			continue
		}
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("profile key %q must be a scalar", key)
		}
		profile[key] = node.Value
	}

	return profile, nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.EngineBin != nil && *overrides.EngineBin != "" {
		cfg.Settings.EngineBin = *overrides.EngineBin
	}

	if overrides.DryRun != nil {
		cfg.DryRun = *overrides.DryRun
	}
}
