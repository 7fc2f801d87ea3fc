// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/secnotes/dailycve/internal/report"
	"github.com/secnotes/dailycve/internal/types"
)

// Envelope is the JSON output document: the ordered record set plus the
// derived display statistics.
type Envelope struct {
	GeneratedAt string         `json:"generated_at"`
	Stats       report.Stats   `json:"stats"`
	Records     []types.Record `json:"records"`
}

// WriteJSON writes the record set and statistics as indented JSON.
func WriteJSON(w io.Writer, records []types.Record, stats report.Stats) error {
	if records == nil {
		records = []types.Record{}
	}
	env := Envelope{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:       stats,
		Records:     records,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
