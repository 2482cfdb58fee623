package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/JuliusMieliauskas/poly-market-maker/internal/config"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/launcher"
)

// clearAmbient blanks every variable the pipeline reads so host values cannot
// leak into assertions. Blank counts as unset during resolution.
func clearAmbient(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRIVATE_KEY", "CLOB_API_URL", "CONDITION_ID", "STRATEGY", "CONFIG",
		"FUNDER_ADDRESS", "WALLET_ADDRESS", "REFRESH_FREQUENCY", "SYNC_INTERVAL",
		"ENGINE_BIN", "LOG_LEVEL", "LOG_FORMAT", "LOGGING_CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func installStubEngine(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return path
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".env")
}

// dryRunCommand resolves configuration through the full pipeline and returns
// the command line a real launch would exec.
func dryRunCommand(t *testing.T, overrides *config.CLIOverrides) string {
	t.Helper()

	dryRun := true
	overrides.DryRun = &dryRun

	cfg, err := config.Load(overrides)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	var out bytes.Buffer
	l := launcher.New(cfg, zaptest.NewLogger(t), launcher.WithStdout(&out), launcher.WithRunID("integration"))
	if err := l.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	return strings.TrimSpace(out.String())
}

func TestLaunchFlow(t *testing.T) {
	stub := installStubEngine(t, "poly-market-maker")
	clearAmbient(t)
	t.Setenv("PRIVATE_KEY", "0xkey")
	t.Setenv("CONDITION_ID", "0xcondition")
	t.Setenv("REFRESH_FREQUENCY", "5")
	envFile := writeEnvFile(t, "STRATEGY=amm\nCLOB_API_URL=https://clob.example.com\n")

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: envFile})

	want := stub +
		" --private-key 0xkey" +
		" --clob-api-url https://clob.example.com" +
		" --condition-id 0xcondition" +
		" --strategy amm" +
		" --strategy-config ''" +
		" --funder-address ''" +
		" --wallet-address ''" +
		" --refresh-frequency 5" +
		" --sync-interval 17"
	if command != want {
		t.Fatalf("unexpected command line:\n got %s\nwant %s", command, want)
	}
}

func TestLaunchWithoutEnvFile(t *testing.T) {
	stub := installStubEngine(t, "poly-market-maker")
	clearAmbient(t)
	t.Setenv("PRIVATE_KEY", "test-key")
	t.Setenv("CLOB_API_URL", "test-url")
	t.Setenv("CONDITION_ID", "test-condition")
	t.Setenv("STRATEGY", "test-strategy")
	t.Setenv("CONFIG", "test-config")
	t.Setenv("FUNDER_ADDRESS", "test-funder")
	t.Setenv("WALLET_ADDRESS", "test-wallet")
	t.Setenv("REFRESH_FREQUENCY", "5")

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: missingEnvFile(t)})

	want := stub +
		" --private-key test-key" +
		" --clob-api-url test-url" +
		" --condition-id test-condition" +
		" --strategy test-strategy" +
		" --strategy-config test-config" +
		" --funder-address test-funder" +
		" --wallet-address test-wallet" +
		" --refresh-frequency 5" +
		" --sync-interval 17"
	if command != want {
		t.Fatalf("unexpected command line:\n got %s\nwant %s", command, want)
	}
}

func TestLaunchAllFieldsEmptyStillEmitsEveryPair(t *testing.T) {
	installStubEngine(t, "poly-market-maker")
	clearAmbient(t)

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: missingEnvFile(t)})

	for _, flag := range []string{
		"--private-key ''", "--clob-api-url ''", "--condition-id ''",
		"--strategy ''", "--strategy-config ''", "--funder-address ''",
		"--wallet-address ''",
	} {
		if !strings.Contains(command, flag) {
			t.Fatalf("expected %s pair to survive empty, got: %s", flag, command)
		}
	}
	if !strings.Contains(command, "--refresh-frequency 20") || !strings.Contains(command, "--sync-interval 17") {
		t.Fatalf("expected defaulted intervals, got: %s", command)
	}
}

func TestLaunchEnvFileSuppliesStrategy(t *testing.T) {
	installStubEngine(t, "poly-market-maker")
	clearAmbient(t)
	envFile := writeEnvFile(t, "STRATEGY=amm\n")

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: envFile})

	if !strings.Contains(command, "--strategy amm") {
		t.Fatalf("expected strategy from env file, got: %s", command)
	}
}

func TestLaunchBlankSyncIntervalUsesDefault(t *testing.T) {
	installStubEngine(t, "poly-market-maker")
	clearAmbient(t)
	// clearAmbient left SYNC_INTERVAL present but blank.

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: missingEnvFile(t)})

	if !strings.Contains(command, "--sync-interval 17") {
		t.Fatalf("expected blank sync interval to fall back to default, got: %s", command)
	}
}

func TestLaunchFractionalRefreshTruncates(t *testing.T) {
	installStubEngine(t, "poly-market-maker")
	clearAmbient(t)
	t.Setenv("REFRESH_FREQUENCY", "15.9")

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: missingEnvFile(t)})

	if !strings.Contains(command, "--refresh-frequency 15") {
		t.Fatalf("expected truncated refresh frequency, got: %s", command)
	}
}

func TestLaunchProfileSitsBelowEnvFile(t *testing.T) {
	installStubEngine(t, "poly-market-maker")
	clearAmbient(t)
	envFile := writeEnvFile(t, "REFRESH_FREQUENCY=9\n")
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(profile, []byte("REFRESH_FREQUENCY: 3\nWALLET_ADDRESS: \"0xprofile\"\nCONDITION_ID: 0xdeadbeef\n"), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	command := dryRunCommand(t, &config.CLIOverrides{EnvFile: envFile, Profile: profile})

	if !strings.Contains(command, "--refresh-frequency 9") {
		t.Fatalf("expected env file to win over profile, got: %s", command)
	}
	if !strings.Contains(command, "--wallet-address 0xprofile") {
		t.Fatalf("expected profile to fill unset field, got: %s", command)
	}
	// Unquoted hex-like identifiers must reach the engine as written.
	if !strings.Contains(command, "--condition-id 0xdeadbeef") {
		t.Fatalf("expected condition id verbatim from profile, got: %s", command)
	}
}

func TestLaunchEngineOverride(t *testing.T) {
	stub := installStubEngine(t, "custom-engine")
	clearAmbient(t)
	engineBin := "custom-engine"

	command := dryRunCommand(t, &config.CLIOverrides{
		EnvFile:   missingEnvFile(t),
		EngineBin: &engineBin,
	})

	if !strings.HasPrefix(command, stub+" ") {
		t.Fatalf("expected overridden engine binary, got: %s", command)
	}
}
