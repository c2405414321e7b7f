package services

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"fileweb/internal/metrics"
	"fileweb/internal/models"

	"go.uber.org/zap"
)

// List returns the immediate children of a directory in enumeration order.
// An empty path lists the home directory, or the root when confined.
// Children that vanish or cannot be inspected mid-listing are skipped.
func (e *Explorer) List(ctx context.Context, rawPath string) (listing *models.DirectoryListing, err error) {
	defer e.observe(OpList, time.Now(), &err)

	if rawPath == "" {
		rawPath, err = e.defaultDirectory()
		if err != nil {
			return nil, err
		}
	}

	dir, err := e.sanitizer.Sanitize(rawPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, classify(OpList, dir, err)
	}
	if !info.IsDir() {
		return nil, newOpError(OpList, dir, KindNotFound, ErrNotDirectory)
	}

	// Opening first surfaces permission problems before any child is touched
	f, err := os.Open(dir)
	if err != nil {
		return nil, classify(OpList, dir, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		if len(entries) == 0 {
			return nil, classify(OpList, dir, err)
		}
		e.logger.Warn("Directory enumeration incomplete",
			zap.String("path", dir), zap.Int("entries", len(entries)), zap.Error(err))
	}

	items := make([]models.DirectoryEntry, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, classify(OpList, dir, err)
		}

		full := filepath.Join(dir, entry.Name())
		child, err := os.Stat(full)
		if err != nil {
			e.logger.Warn("Skipping unreadable entry", zap.String("path", full), zap.Error(err))
			metrics.RecordSkippedEntry()
			continue
		}

		size := child.Size()
		if child.IsDir() {
			size = 0
		}
		items = append(items, models.DirectoryEntry{
			Name:        entry.Name(),
			Path:        full,
			IsDirectory: child.IsDir(),
			Size:        size,
			Modified:    child.ModTime(),
		})
	}

	return &models.DirectoryListing{CurrentPath: dir, Items: items}, nil
}

// defaultDirectory is where a listing without a path starts
func (e *Explorer) defaultDirectory() (string, error) {
	home, err := e.locations.Home()
	if e.sanitizer.Confined() {
		if err != nil || !e.sanitizer.Contains(filepath.Clean(home)) {
			return e.sanitizer.Root(), nil
		}
	}
	if err != nil {
		return "", err
	}
	return home, nil
}
