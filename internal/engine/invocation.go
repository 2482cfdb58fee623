package engine

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/JuliusMieliauskas/poly-market-maker/internal/config"
)

// execve is the process replacement primitive, swapped out in tests.
// unix.Exec never returns on success.
var execve = unix.Exec

// Invocation is a fully resolved engine launch: the absolute binary path, the
// complete argument vector, and the environment the engine inherits.
type Invocation struct {
	Path string
	Args []string
	Env  []string
}

// NewInvocation resolves the engine binary on PATH and pairs it with the
// argument vector and child environment. There is no fallback binary; a
// lookup failure surfaces as an error for the caller to report.
func NewInvocation(cfg config.Config) (*Invocation, error) {
	path, err := exec.LookPath(cfg.Settings.EngineBin)
	if err != nil {
		return nil, fmt.Errorf("locate engine binary %q: %w", cfg.Settings.EngineBin, err)
	}

	return &Invocation{
		Path: path,
		Args: Arguments(cfg.Engine),
		Env:  cfg.Environ,
	}, nil
}

// Exec replaces the current process image with the engine. On success it does
// not return and every subsequent observable exit code is the engine's own.
// A returned error always means the replacement did not happen.
func (inv *Invocation) Exec() error {
	argv := append([]string{inv.Path}, inv.Args...)
	if err := execve(inv.Path, argv, inv.Env); err != nil {
		return fmt.Errorf("exec %s: %w", inv.Path, err)
	}
	return nil
}

// Command renders the invocation as a single shell-ready line for dry runs.
func (inv *Invocation) Command() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, quote(inv.Path))
	for _, arg := range inv.Args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

// quote single-quotes a token when a shell would otherwise interpret it, so
// dry-run output can be copied back into a terminal unchanged.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$&|;<>()*?[]#~%!{}`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
