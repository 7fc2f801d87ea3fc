// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/secnotes/dailycve/internal/types"
)

func TestSort_MostRecentActivityFirst(t *testing.T) {
	records := []types.Record{
		{ID: "CVE-2024-0001", Published: "2026-03-01T00:00:00Z"},
		{ID: "CVE-2024-0002", Published: "2026-03-03T00:00:00Z"},
		// Older publication but a fresh modification outranks both.
		{ID: "CVE-2024-0003", Published: "2026-01-01T00:00:00Z", Modified: "2026-03-05T00:00:00Z"},
	}

	Sort(records)

	assert.Equal(t, "CVE-2024-0003", records[0].ID)
	assert.Equal(t, "CVE-2024-0002", records[1].ID)
	assert.Equal(t, "CVE-2024-0001", records[2].ID)
}

func TestSort_NonIncreasing(t *testing.T) {
	records := []types.Record{
		{ID: "CVE-2024-0001", Published: "2026-02-10T00:00:00Z"},
		{ID: "CVE-2024-0002", Modified: "2026-02-15T00:00:00Z"},
		{ID: "CVE-2024-0003"},
		{ID: "CVE-2024-0004", Published: "2026-02-12T08:00:00Z", Modified: "2026-02-11T00:00:00Z"},
	}

	Sort(records)

	for i := 1; i < len(records); i++ {
		prev := records[i-1].LastActivity()
		cur := records[i].LastActivity()
		assert.False(t, cur.After(prev), "record %d is newer than record %d", i, i-1)
	}
}

func TestSort_UnparsableSortsLast(t *testing.T) {
	records := []types.Record{
		{ID: "CVE-2024-0001", Published: "garbage"},
		{ID: "CVE-2024-0002", Published: "2026-03-01T00:00:00Z"},
	}

	Sort(records)

	assert.Equal(t, "CVE-2024-0002", records[0].ID)
	assert.Equal(t, "CVE-2024-0001", records[1].ID)
}

func TestSort_TiesKeepEncounterOrder(t *testing.T) {
	records := []types.Record{
		{ID: "CVE-2024-0005", Published: "2026-03-01T00:00:00Z"},
		{ID: "CVE-2024-0001", Published: "2026-03-01T00:00:00Z"},
		{ID: "CVE-2024-0003", Published: "2026-03-01T00:00:00Z"},
	}

	Sort(records)

	ids := []string{records[0].ID, records[1].ID, records[2].ID}
	assert.Equal(t, []string{"CVE-2024-0005", "CVE-2024-0001", "CVE-2024-0003"}, ids)
}
