// Package where resolves the directories subgate reads from and writes to.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "SUBGATE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory.
// SUBGATE_CONFIG_PATH takes precedence over the platform user config dir.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Subgate))
}

// Cache is the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Subgate))
}

// Logs is the directory holding daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Captures is where raw intercepted bodies are dumped when they cannot be decoded.
func Captures() string {
	return ensureDir(filepath.Join(Cache(), "captures"))
}

// VersionCache is the gache file holding the last latest-version answer.
func VersionCache() string {
	return filepath.Join(Cache(), "version.json")
}

// Temp is a volatile directory for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Subgate))
}

// History is the journal of confirmed subscriptions and relays.
func History() string {
	return filepath.Join(Config(), "history.json")
}
