// Package pathutil validates user-supplied file paths before they are opened.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// absolute rejects traversal patterns in the raw path and returns its clean
// absolute form.
func absolute(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path contains directory traversal pattern: %s", path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}
	return absPath, nil
}

func requireExt(absPath string, exts ...string) error {
	ext := strings.ToLower(filepath.Ext(absPath))
	if !slices.Contains(exts, ext) {
		return fmt.Errorf("file must have %s extension, got %q", strings.Join(exts, " or "), ext)
	}
	return nil
}

// ValidatePath returns the absolute form of a path that is safe to read.
func ValidatePath(path string) (string, error) {
	return absolute(path)
}

// ValidateConfigPath validates a YAML configuration file path.
func ValidateConfigPath(path string) (string, error) {
	absPath, err := absolute(path)
	if err != nil {
		return "", err
	}
	if err := requireExt(absPath, ".yaml", ".yml"); err != nil {
		return "", fmt.Errorf("config %w", err)
	}
	return absPath, nil
}

// ValidateCredentialsPath validates a service-account key file path.
func ValidateCredentialsPath(path string) (string, error) {
	absPath, err := absolute(path)
	if err != nil {
		return "", err
	}
	if err := requireExt(absPath, ".json"); err != nil {
		return "", fmt.Errorf("credentials %w", err)
	}
	return absPath, nil
}

// ValidateOutputPath validates a path a rendered record will be written to.
// The parent directory must already exist.
func ValidateOutputPath(path string) (string, error) {
	absPath, err := absolute(path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(absPath)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("parent directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("parent is not a directory: %s", dir)
	}
	return absPath, nil
}
