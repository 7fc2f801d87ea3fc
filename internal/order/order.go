// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package order sorts the final record set for presentation.
package order

import (
	"sort"

	"github.com/secnotes/dailycve/internal/types"
)

// Sort orders records in place by most recent activity (the later of the
// published and modified timestamps), newest first. Unparsable or empty
// timestamps sort as the zero time. Ties keep their pre-sort order.
func Sort(records []types.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastActivity().After(records[j].LastActivity())
	})
}
