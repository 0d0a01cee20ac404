// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExportStore implements secondary.FileStore for export and import documents.
type ExportStore struct {
	baseDir string
}

// NewExportStore creates an export store. Relative and empty paths resolve
// against baseDir; an empty baseDir means the working directory.
func NewExportStore(baseDir string) (*ExportStore, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	return &ExportStore{baseDir: baseDir}, nil
}

// WriteFile writes data and returns the path written. An empty path or an
// existing directory receives defaultName. The file is replaced atomically.
func (s *ExportStore) WriteFile(ctx context.Context, path, defaultName string, data []byte) (string, error) {
	target := s.resolve(path)
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, defaultName)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".shiftlog-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("failed to set permissions on %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return target, nil
}

// ReadFile reads an import document.
func (s *ExportStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (s *ExportStore) resolve(path string) string {
	if path == "" {
		return s.baseDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}
