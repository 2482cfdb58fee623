// Package config resolves the launcher's runtime configuration from multiple
// sources (CLI flags, process environment, optional env file, optional launch
// profile) with precedence: CLI flags > environment > env file > profile >
// built-in defaults. Engine-facing fields are opaque pass-through values; the
// launcher never validates them, that is the market maker's own job.
package config
