// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package enrich replaces record descriptions with external summaries.
package enrich

import (
	"fmt"
	"os"

	"github.com/secnotes/dailycve/internal/types"
)

// Summarizer rewrites a vulnerability description. Implementations must
// bound their own timeouts; a call may fail but must not block forever.
type Summarizer interface {
	Summarize(id, text string) (string, error)
}

// Apply runs the summarizer over every record exactly once, in place,
// between deduplication and ordering. On any failure the original
// description is kept unchanged. A nil summarizer leaves all records
// untouched.
func Apply(records []types.Record, s Summarizer) {
	if s == nil {
		return
	}
	for i := range records {
		if records[i].Description == "" {
			continue
		}
		summary, err := s.Summarize(records[i].ID, records[i].Description)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: summarizing %s failed (%v), keeping original description\n", records[i].ID, err)
			continue
		}
		if summary != "" {
			records[i].Description = summary
		}
	}
}
