// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve deduplicates records emitted by different sources.
package resolve

import "github.com/secnotes/dailycve/internal/types"

// Resolve merges records keyed by identifier, first-seen-wins. The first
// record for an identifier is retained verbatim; later records sharing it
// are discarded entirely, with no field blending. Input order therefore
// decides which source's copy survives — callers must feed records in the
// fixed adapter precedence order.
//
// The result preserves first-seen encounter order. The second return value
// is the number of discarded duplicates.
func Resolve(records []types.Record) ([]types.Record, int) {
	seen := make(map[string]struct{}, len(records))
	resolved := make([]types.Record, 0, len(records))
	dropped := 0

	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			dropped++
			continue
		}
		seen[rec.ID] = struct{}{}
		resolved = append(resolved, rec)
	}
	return resolved, dropped
}
