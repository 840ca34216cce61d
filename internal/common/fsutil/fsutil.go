// Package fsutil resolves user supplied paths for config files and model
// directories.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDir is returned by ResolveDir when the path exists but is a file.
var ErrNotDir = errors.New("not a directory")

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other paths, including "~user" forms, are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
}

// PathExists reports whether path exists. Errors other than "not exist"
// (permission denied, for one) count as existing so the caller's open fails
// with the real reason.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// IsFile reports whether path is a regular file, following symlinks.
func IsFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ResolveDir expands "~", makes dir absolute and checks that it is a
// directory.
func ResolveDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("empty directory path")
	}
	expanded, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s: %w", abs, ErrNotDir)
	}
	return abs, nil
}
