package launcher

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JuliusMieliauskas/poly-market-maker/internal/coerce"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/config"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/engine"
)

// execInvocation is swapped out in tests.
var execInvocation = func(inv *engine.Invocation) error {
	return inv.Exec()
}

// Launcher performs a single engine launch from resolved configuration.
type Launcher struct {
	cfg    config.Config
	logger *zap.Logger

	stdout io.Writer
	runID  string
}

// Option configures Launcher behaviour.
type Option func(*Launcher)

// WithStdout overrides the dry-run output destination, primarily for tests.
func WithStdout(w io.Writer) Option {
	return func(l *Launcher) {
		l.stdout = w
	}
}

// WithRunID pins the run identifier, primarily for tests.
func WithRunID(id string) Option {
	return func(l *Launcher) {
		l.runID = id
	}
}

// New constructs a Launcher from resolved configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *Launcher {
	l := &Launcher{
		cfg:    cfg,
		logger: logger,
		stdout: os.Stdout,
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run builds the engine invocation and hands the process over to it. In dry
// run mode the command line is printed instead and Run returns nil. A non-nil
// error means the engine is not running and the launcher should exit
// non-zero; after a successful handover Run never returns at all.
func (l *Launcher) Run() error {
	logger := l.logger.With(zap.String("run_id", l.runID))

	inv, err := engine.NewInvocation(l.cfg)
	if err != nil {
		return err
	}

	// The private key never reaches the log, only whether it was resolved.
	logger.Info("engine invocation resolved",
		zap.String("engine", inv.Path),
		zap.String("strategy", l.cfg.Engine.Strategy),
		zap.String("strategy_config", l.cfg.Engine.StrategyConfig),
		zap.String("condition_id", l.cfg.Engine.ConditionID),
		zap.String("clob_api_url", l.cfg.Engine.ClobAPIURL),
		zap.String("funder_address", l.cfg.Engine.FunderAddress),
		zap.String("wallet_address", l.cfg.Engine.WalletAddress),
		zap.String("refresh_frequency", coerce.IntString(l.cfg.Engine.RefreshFrequency)),
		zap.String("sync_interval", coerce.IntString(l.cfg.Engine.SyncInterval)),
		zap.Bool("private_key_set", l.cfg.Engine.PrivateKey != ""),
		zap.Bool("dry_run", l.cfg.DryRun),
	)

	if l.cfg.DryRun {
		// Dry run prints the full command, secrets included; that is the
		// point of the flag and its help text says so.
		fmt.Fprintln(l.stdout, inv.Command())
		return nil
	}

	logger.Info("replacing process with engine", zap.String("engine", inv.Path))

	// Flush buffered log output before the process image goes away.
	_ = logger.Sync()

	return execInvocation(inv)
}
