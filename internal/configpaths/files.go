// Package configpaths locates the on-disk family table used by the
// registry package, following XDG-style search order. Adapted from the
// teacher's config-path discovery helper (originally multi-format,
// multi-binary); this module only ever loads one YAML family table, so
// the format fan-out and the server/proxy binary names are dropped.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigDir returns the platform-specific configuration directory
// for gohidpp.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, "gohidpp"), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "gohidpp"), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", "gohidpp"), nil
		}
		return "", errors.New("HOME not set")
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// FamilyTableCandidates builds an ordered list of candidate paths for the
// registry's family table: an explicit userPath first, then the working
// directory, then the per-user config directory, then (on non-Windows)
// the system-wide /etc/gohidpp directory.
func FamilyTableCandidates(userPath string) []string {
	var out []string
	if userPath != "" {
		out = append(out, userPath)
	}

	const name = "families.yaml"

	if wd, err := os.Getwd(); err == nil {
		out = append(out, filepath.Join(wd, name))
	}
	if dir, err := DefaultConfigDir(); err == nil {
		out = append(out, filepath.Join(dir, name))
	}
	if runtime.GOOS != "windows" {
		out = append(out, filepath.Join("/etc/gohidpp", name))
	}
	return out
}
