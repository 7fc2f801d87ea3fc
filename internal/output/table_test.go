// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/report"
	"github.com/secnotes/dailycve/internal/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		{
			ID:             "CVE-2024-0001",
			Description:    "Remote code execution in the widget server allowing full host takeover",
			CVSSScore:      9.8,
			EPSSScore:      0.95,
			KnownExploited: true,
			Vendors:        []string{"apache"},
			Published:      "2026-03-09T10:00:00Z",
			Kind:           types.EntryPublished,
			Source:         "nvd",
		},
		{
			ID:          "CVE-2024-0002",
			Description: "Privilege escalation",
			CVSSScore:   7.5,
			EPSSScore:   0.02,
			Vendors:     []string{"nginx", "apache"},
			Published:   "2026-03-08T10:00:00Z",
			Kind:        types.EntryModified,
			Source:      "cvelist",
		},
	}
}

func TestWriteTable(t *testing.T) {
	records := sampleRecords()
	stats := report.Build(records, classify.DefaultThresholds())

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records, stats, TableConfig{}))
	out := buf.String()

	assert.Contains(t, out, "CVE-2024-0001")
	assert.Contains(t, out, "CVE-2024-0002")
	assert.Contains(t, out, "critical")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, "Top vendors: apache (2), nginx (1)")
	// No ANSI styling when not writing to a terminal.
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteTable_SortByCVE(t *testing.T) {
	records := []types.Record{
		{ID: "CVE-2024-0002", Published: "2026-03-09T00:00:00Z"},
		{ID: "CVE-2024-0001", Published: "2026-03-08T00:00:00Z"},
	}
	stats := report.Build(records, classify.DefaultThresholds())

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records, stats, TableConfig{SortBy: "cve"}))
	out := buf.String()

	assert.Less(t, strings.Index(out, "CVE-2024-0001"), strings.Index(out, "CVE-2024-0002"))
}

func TestWriteTable_DoesNotReorderInput(t *testing.T) {
	records := []types.Record{
		{ID: "CVE-2024-0002"},
		{ID: "CVE-2024-0001"},
	}
	stats := report.Build(records, classify.DefaultThresholds())

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records, stats, TableConfig{SortBy: "cve"}))

	// The display sort works on a copy; the pipeline's ordering survives.
	assert.Equal(t, "CVE-2024-0002", records[0].ID)
	assert.Equal(t, "CVE-2024-0001", records[1].ID)
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "short text", truncateWords("short text", 5))
	assert.Equal(t, "one two three...", truncateWords("one two three four five", 3))
	assert.Empty(t, truncateWords("", 3))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "-", formatScore(0))
	assert.Equal(t, "9.8", formatScore(9.8))
}
