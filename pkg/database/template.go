package database

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PrepareOutputFile copies the schema template into destDir under fileName,
// replacing any database left by a previous run, and returns the new path.
func PrepareOutputFile(templatePath, destDir, fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("database: output file name required")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	destPath := filepath.Join(destDir, fileName)
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove existing database: %w", err)
	}

	// No template: the caller applies the schema migration to a fresh file.
	if templatePath == "" {
		return destPath, nil
	}

	src, err := os.Open(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to open template: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create database file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy template: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize database file: %w", err)
	}

	return destPath, nil
}
