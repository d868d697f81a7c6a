// Package ttstore persists a transposition cache's contents to an embedded
// on-disk store (BadgerDB) so a host can retain learned positions across
// process restarts. It never touches the cache's check/update/set/age
// surface directly; it only reads and writes cache.RawEntry snapshots.
package ttstore

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gametree"

// DataDir returns the platform-specific data directory this package's
// default store lives under.
//   - macOS: ~/Library/Application Support/gametree/
//   - Linux: ~/.local/share/gametree/ (or $XDG_DATA_HOME/gametree)
//   - Windows: %APPDATA%/gametree/
func DataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// CacheDir returns the directory the default Badger-backed store opens,
// creating it if necessary.
func CacheDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, "ttcache")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
