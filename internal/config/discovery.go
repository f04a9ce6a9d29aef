package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "CV_TERMINAL_CONFIG"

// Discover resolves which config file to load.
// Priority order: explicit flag, $CV_TERMINAL_CONFIG, ~/.config/cv-terminal/config.yaml, ./config.yaml.
// An explicit or environment path that does not exist is an error. An empty result with a nil
// error means no file was found and defaults apply.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		if !exists(explicit) {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if path := os.Getenv(EnvConfigPath); path != "" {
		if !exists(path) {
			return "", fmt.Errorf("$%s points at a missing file: %s", EnvConfigPath, path)
		}
		return path, nil
	}

	for _, candidate := range candidatePaths() {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func candidatePaths() []string {
	var paths []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "cv-terminal", "config.yaml"))
	}
	return append(paths, "config.yaml")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
