// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndLoadDated(t *testing.T) {
	c := New(t.TempDir())
	date := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	payload := []byte("archive bytes")

	require.NoError(t, c.StoreDated(date, "zip", payload))

	assert.True(t, c.ExistsDated(date, "zip"))
	got, err := c.LoadDated(date, "zip")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDatePartitionedLayout(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.StoreDated(date, "zip", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "2026", "2026-03-09.zip"))
	assert.NoError(t, err)
}

func TestSameDateOverwriteIsIdempotent(t *testing.T) {
	c := New(t.TempDir())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.StoreDated(date, "zip", []byte("first")))
	require.NoError(t, c.StoreDated(date, "zip", []byte("second")))

	got, err := c.LoadDated(date, "zip")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestMissingDate(t *testing.T) {
	c := New(t.TempDir())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.False(t, c.ExistsDated(date, "zip"))
	_, err := c.LoadDated(date, "zip")
	assert.Error(t, err)
}
