// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package report derives display-only statistics from the final record
// set. The rendering layer consumes these; nothing here feeds back into
// collection or classification.
package report

import (
	"sort"

	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/types"
)

// Severity display buckets derived from the CVSS score.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// SeverityBucket maps a CVSS score to its display bucket.
func SeverityBucket(score float64) string {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Stats summarizes a record set for reporting.
type Stats struct {
	Total          int            `json:"total"`
	HighCVSSCount  int            `json:"high_cvss_count"`
	KEVCount       int            `json:"kev_count"`
	HighEPSSCount  int            `json:"high_epss_count"`
	PublishedCount int            `json:"published_count"`
	ModifiedCount  int            `json:"modified_count"`
	VendorCounts   map[string]int `json:"vendor_counts"`
}

// Build counts the display statistics for records under the given
// thresholds. Each record's vendor set contributes one count per vendor.
func Build(records []types.Record, thresholds classify.Thresholds) Stats {
	stats := Stats{
		Total:        len(records),
		VendorCounts: make(map[string]int),
	}

	for _, rec := range records {
		if rec.CVSSScore > thresholds.CVSS {
			stats.HighCVSSCount++
		}
		if rec.KnownExploited {
			stats.KEVCount++
		}
		if rec.EPSSScore > thresholds.EPSS {
			stats.HighEPSSCount++
		}
		switch rec.Kind {
		case types.EntryModified:
			stats.ModifiedCount++
		default:
			stats.PublishedCount++
		}
		for _, vendor := range rec.Vendors {
			stats.VendorCounts[vendor]++
		}
	}
	return stats
}

// TopVendors returns up to n vendors ordered by descending count, ties
// broken alphabetically for a stable display.
func (s Stats) TopVendors(n int) []string {
	names := make([]string, 0, len(s.VendorCounts))
	for name := range s.VendorCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.VendorCounts[names[i]] != s.VendorCounts[names[j]] {
			return s.VendorCounts[names[i]] > s.VendorCounts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
