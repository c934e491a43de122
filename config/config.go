// Package config handles application configuration.
//
// Settlement rules (validation checks, conflict resolution) are fixed in
// code and must match across all deployments; only operational settings
// live here.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config holds runtime configuration.
type Config struct {
	// Core
	DataDir string `conf:"datadir"`

	// Logging
	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.opencoin
//	macOS:   ~/Library/Application Support/Opencoin
//	Windows: %APPDATA%\Opencoin
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".opencoin"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Opencoin")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Opencoin")
		}
		return filepath.Join(home, "AppData", "Roaming", "Opencoin")
	default:
		return filepath.Join(home, ".opencoin")
	}
}

// UTXODir returns the UTXO database directory.
func (c *Config) UTXODir() string {
	return filepath.Join(c.DataDir, "utxo")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "opencoin.conf")
}
