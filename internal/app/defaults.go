package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - OP_CONFIG_PATH: config file location (default: ~/.config/organize-pictures.toml)
//   - OP_HOME: base directory for application data (default: ~/.local/share/organize-pictures)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"database":    filepath.Join(baseDir, "index.db"),
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv("OP_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "organize-pictures.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("OP_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "organize-pictures"), nil
}
