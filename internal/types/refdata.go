// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package types

// KEVEntry is a single entry in the CISA KEV catalog JSON.
type KEVEntry struct {
	CVEID         string `json:"cveID"`
	VendorProject string `json:"vendorProject"`
	Product       string `json:"product"`
	DateAdded     string `json:"dateAdded"`
}

// KEVCatalog is the CISA KEV catalog JSON structure.
type KEVCatalog struct {
	CatalogVersion  string     `json:"catalogVersion"`
	DateReleased    string     `json:"dateReleased"`
	Count           int        `json:"count"`
	Vulnerabilities []KEVEntry `json:"vulnerabilities"`
}

// KnownExploited is the set of identifiers with confirmed real-world
// exploitation. The zero value (nil map) is a valid empty set.
type KnownExploited map[string]struct{}

// Contains reports whether id is in the known-exploited set.
func (k KnownExploited) Contains(id string) bool {
	_, ok := k[id]
	return ok
}

// EPSSScores maps an identifier to its exploitation probability in [0,1].
// Absent identifiers score 0.
type EPSSScores map[string]float64

// Lookup returns the score for id, or 0 when absent.
func (e EPSSScores) Lookup(id string) float64 {
	return e[id]
}

// RefData bundles the two reference datasets loaded once per run. Both
// fields degrade to empty when their feeds are unavailable; adapters and
// the classifier must treat that as "no signal", never as an error.
type RefData struct {
	KEV  KnownExploited
	EPSS EPSSScores
}
