package environ

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileName is the well-known name of the optional env source.
const EnvFileName = ".env"

// Snapshot is a read-only view of the resolved environment. It implements the
// LookupEnv source contract used by the config loader.
type Snapshot struct {
	ambient map[string]string
	file    map[string]string
}

// Capture builds a snapshot from the ambient environment (entries in KEY=VALUE
// form, usually os.Environ()) and the env file at envFile. A missing env file
// is not an error; the launcher then proceeds on the ambient environment
// alone. A file that exists but cannot be parsed is an error, since the
// operator clearly intended it to take effect.
func Capture(ambient []string, envFile string) (*Snapshot, error) {
	snap := &Snapshot{
		ambient: parseAssignments(ambient),
		file:    map[string]string{},
	}

	if envFile == "" {
		return snap, nil
	}

	entries, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snap, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}
	snap.file = entries

	return snap, nil
}

// LookupEnv resolves key with the documented precedence: a non-empty ambient
// value first, then a non-empty env file value. Empty values report as unset.
func (s *Snapshot) LookupEnv(key string) (string, bool) {
	if v := s.ambient[key]; v != "" {
		return v, true
	}
	if v := s.file[key]; v != "" {
		return v, true
	}
	return "", false
}

// Environ returns the merged environment for the launched engine: every
// ambient entry plus every env file entry not shadowed by an ambient one,
// sorted for determinism. The returned slice is a fresh copy on every call.
func (s *Snapshot) Environ() []string {
	merged := make(map[string]string, len(s.ambient)+len(s.file))
	for k, v := range s.file {
		merged[k] = v
	}
	for k, v := range s.ambient {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+merged[k])
	}
	return out
}

// DefaultPath locates the conventional env source: a .env file in the
// directory holding the launcher executable itself.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate launcher executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), EnvFileName), nil
}

func parseAssignments(entries []string) map[string]string {
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
