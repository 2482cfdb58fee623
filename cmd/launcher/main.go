package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/JuliusMieliauskas/poly-market-maker/internal/config"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/launcher"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/logging"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/version"
)

func main() {
	kingpinApp := kingpin.New("launcher", "Poly market maker launcher - resolves keeper configuration and hands the process to the trading engine")
	envFile := kingpinApp.Flag("env-file", "Path to the env file (defaults to .env beside the launcher binary)").String()
	profile := kingpinApp.Flag("profile", "Path to a YAML launch profile supplying lowest-precedence defaults").String()
	engineBin := kingpinApp.Flag("engine", "Engine binary to execute, looked up on PATH").String()
	dryRun := kingpinApp.Flag("dry-run", "Print the engine command line, secrets included, instead of executing it").Bool()
	kingpinApp.Version(version.String())

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(buildOverrides(*envFile, *profile, *engineBin, *dryRun))
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.Setup(cfg.Settings.LogLevel, cfg.Settings.LogFormat, cfg.Settings.LoggingConfigFile)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := launcher.New(cfg, logger).Run(); err != nil {
		logger.Fatal("failed to launch engine", zap.Error(err))
	}
}

// buildOverrides converts parsed flag values into config overrides, leaving
// pointers nil for flags the user did not set.
func buildOverrides(envFile, profile, engineBin string, dryRun bool) *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		EnvFile: envFile,
		Profile: profile,
	}

	if engineBin != "" {
		overrides.EngineBin = &engineBin
	}

	if dryRun {
		overrides.DryRun = &dryRun
	}

	return overrides
}
