// Package launcher wires resolved configuration into a single engine launch.
// It builds the invocation, logs a redacted summary of what was resolved, and
// either prints the command line (dry run) or replaces the launcher process
// with the engine. There is exactly one launch per process: no retries, no
// supervision, no respawn.
package launcher
