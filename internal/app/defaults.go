package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - NOTES_CONFIG_PATH: config file location (default: ~/.config/notes.toml)
//   - NOTES_HOME: base directory for notes data (default: ~/.local/share/notes)
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome("NOTES_CONFIG_PATH", ".config", "notes.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome("NOTES_HOME", ".local", "share", "notes")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns the value of env if set, otherwise the path made of
// elems under the user's home directory.
func envOrHome(env string, elems ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elems...)...), nil
}
