package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "mdlmirror"

// File returns the config file path (~/.config/mdlmirror/config.toml on
// Linux, the platform equivalent elsewhere).
func File() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.toml")
}

// DataDir returns the directory holding the database and logs
// (~/.local/share/mdlmirror on Linux).
func DataDir() string {
	return filepath.Join(xdg.DataHome, appDir)
}

// DatabasePath returns the SQLite database path.
func DatabasePath() string {
	return filepath.Join(DataDir(), "mdlmirror.db")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}
