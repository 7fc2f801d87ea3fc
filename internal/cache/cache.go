// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache stores raw source archives partitioned by calendar date.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a date-partitioned archive store under a base directory.
// Layout: <dir>/<year>/<yyyy-mm-dd>.<ext>. Archive contents for a past
// date never change, so the same date always maps to the same file and
// concurrent writers racing on one date are harmless.
type Cache struct {
	dir string
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// StoreDated writes data for the given date. Writes are best-effort
// caching: callers treat the returned error as a warning, never a failure.
func (c *Cache) StoreDated(date time.Time, ext string, data []byte) error {
	path := c.pathFor(date, ext)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache data: %w", err)
	}
	return nil
}

// LoadDated reads the cached data for the given date.
func (c *Cache) LoadDated(date time.Time, ext string) ([]byte, error) {
	return os.ReadFile(c.pathFor(date, ext))
}

// ExistsDated reports whether a cached file for the given date is present.
func (c *Cache) ExistsDated(date time.Time, ext string) bool {
	_, err := os.Stat(c.pathFor(date, ext))
	return err == nil
}

func (c *Cache) pathFor(date time.Time, ext string) string {
	d := date.UTC()
	return filepath.Join(c.dir, d.Format("2006"), d.Format("2006-01-02")+"."+ext)
}
