// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"regexp"
	"sort"
	"time"
)

// EntryKind marks which part of the lookback window produced a record.
type EntryKind string

const (
	// EntryPublished marks a record first published inside the window.
	EntryPublished EntryKind = "published"
	// EntryModified marks an older record whose last modification falls
	// inside the window.
	EntryModified EntryKind = "modified"
)

// Record is the canonical shape every source is normalized into.
// Vendors and Products are lower-cased sets, built once at creation and
// never merged across duplicates from different sources.
type Record struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	CVSSScore      float64   `json:"cvss_score"`
	EPSSScore      float64   `json:"epss_score"`
	KnownExploited bool      `json:"known_exploited"`
	Vendors        []string  `json:"vendors"`
	Products       []string  `json:"products"`
	Published      string    `json:"published_date,omitempty"`
	Modified       string    `json:"last_modified,omitempty"`
	Kind           EntryKind `json:"entry_kind"`
	Source         string    `json:"source"`
}

var idPattern = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)

// ValidID reports whether s matches the canonical identifier grammar.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// timestamp layouts seen across the upstream feeds: NVD emits fractional
// seconds without a zone, CVE v5 and Atom use RFC 3339.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseTime parses an upstream timestamp string. Empty or unparsable
// values yield the zero time rather than an error.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// LastActivity returns the later of the record's published and modified
// timestamps. Missing timestamps count as the zero time.
func (r Record) LastActivity() time.Time {
	pub := ParseTime(r.Published)
	mod := ParseTime(r.Modified)
	if mod.After(pub) {
		return mod
	}
	return pub
}

// SetToSlice converts a string set into a sorted slice.
func SetToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
