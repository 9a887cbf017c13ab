package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ubersicht-tools/widgetset/internal/i18n"
)

// GetAbsolutePath resolves a given path to its absolute form, handling ~ and symlinks.
func GetAbsolutePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(i18n.T("util_error_path_is_empty"))
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New(i18n.T("util_error_resolve_home_directory"))
		}
		path = filepath.Join(home, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New(i18n.T("util_error_get_absolute_path"))
	}

	// Resolve symlinks, but allow non-existent paths
	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolvedPath, nil
	}
	if os.IsNotExist(err) {
		return absPath, nil
	}

	return "", fmt.Errorf(i18n.T("util_error_resolve_symlinks"), err)
}

// ConfigDir returns ~/.config/widgetset.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf(i18n.T("util_error_determine_home_directory"), err)
	}
	return filepath.Join(homeDir, ".config", "widgetset"), nil
}

// GetDefaultConfigPath returns the default path for the configuration file
// if it exists, otherwise returns an empty string.
func GetDefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	defaultConfigPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(defaultConfigPath); err != nil {
		if os.IsNotExist(err) {
			return "", nil // Return no error for non-existent config path
		}
		return "", fmt.Errorf(i18n.T("util_error_accessing_config_path"), err)
	}
	return defaultConfigPath, nil
}

// FileExists reports whether path exists, regardless of its type.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
