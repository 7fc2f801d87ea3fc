// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package classify decides whether a vulnerability counts as high-risk.
package classify

// Default classification thresholds.
const (
	DefaultCVSSThreshold = 7.0
	DefaultEPSSThreshold = 0.10
)

// Thresholds holds the cutoffs for high-risk classification. Injected into
// every adapter so synthetic thresholds can be used in tests.
type Thresholds struct {
	CVSS float64
	EPSS float64
}

// DefaultThresholds returns the standard production cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{CVSS: DefaultCVSSThreshold, EPSS: DefaultEPSSThreshold}
}

// IsHighRisk reports whether a vulnerability clears any of the three
// signals: severity score above the CVSS threshold, membership in the
// known-exploited set, or exploitation probability above the EPSS
// threshold. Records failing this predicate are discarded inside the
// adapters and never reach deduplication.
func (t Thresholds) IsHighRisk(score float64, knownExploited bool, epss float64) bool {
	return score > t.CVSS || knownExploited || epss > t.EPSS
}
