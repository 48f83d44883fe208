// Package paths resolves the configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "stockpile"

// Environment variables that override the directory defaults.
const (
	EnvConfigDir = "STOCKPILE_CONFIG_DIR"
	EnvDataDir   = "STOCKPILE_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/stockpile (fallback ~/.config/stockpile)
// macOS:   ~/Library/Application Support/stockpile
// Windows: %APPDATA%/stockpile
func DefaultConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory. On macOS and Windows
// it is the same as the configuration directory.
//
// Linux:   $XDG_DATA_HOME/stockpile (fallback ~/.local/share/stockpile)
func DefaultDataDir() (string, error) {
	return appDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// appDir applies the XDG rules on Linux and os.UserConfigDir elsewhere.
func appDir(xdgVar, homeFallback string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > STOCKPILE_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > STOCKPILE_DATA_DIR > data_dir from config.yaml > DefaultDataDir().
func ResolveDataDir(flag, configured string) (string, error) {
	for _, dir := range []string{flag, os.Getenv(EnvDataDir), configured} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return DefaultDataDir()
}
