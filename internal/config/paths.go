package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigNames are the project config file names, in lookup order.
var ProjectConfigNames = []string{
	"gitpaper.config.yml",
	"gitpaper.config.yaml",
	"gitpaper.config.json",
	"gitpaper.config.toml",
}

// UserConfigPath returns the path to the user-level config file
// (os.UserConfigDir, which honours XDG_CONFIG_HOME on Linux).
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitpaper", "config.yml"), nil
}

// DefaultCachePath returns the identity cache file location.
func DefaultCachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "gitpaper", "identities.yml"), nil
}

// FindProjectConfig returns the first project config file in dir, or "".
func FindProjectConfig(dir string) string {
	for _, name := range ProjectConfigNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}
