// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package ghsa adapts the GitHub security advisories Atom feed to
// canonical records.
package ghsa

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/source"
	"github.com/secnotes/dailycve/internal/types"
	"github.com/secnotes/dailycve/internal/vendors"
)

const (
	defaultFeedURL  = "https://github.com/advisories.atom"
	maxResponseSize = 20 * 1024 * 1024 // 20 MB
)

// cveInTitle matches the canonical identifier grammar inside advisory
// titles, case-insensitively.
var cveInTitle = regexp.MustCompile(`(?i)CVE-\d{4}-\d{4,}`)

// Adapter fetches the advisories feed and keeps entries published inside
// the lookback window. The feed carries no severity data, so every entry
// scores 0 and classification rests entirely on the known-exploited and
// exploitation-probability signals.
type Adapter struct {
	FeedURL    string
	Client     *http.Client
	Ref        types.RefData
	Thresholds classify.Thresholds

	now func() time.Time
}

// New creates an advisory-feed adapter.
func New(ref types.RefData, thresholds classify.Thresholds) *Adapter {
	return &Adapter{
		FeedURL:    defaultFeedURL,
		Client:     &http.Client{Timeout: 60 * time.Second},
		Ref:        ref,
		Thresholds: thresholds,
		now:        time.Now,
	}
}

func (a *Adapter) Name() string { return source.NameGHSA }

// Fetch downloads the single feed document (the feed has no date-ranged
// query support) and filters entries to the window client-side. Entries
// without a recognizable identifier in the title are dropped.
func (a *Adapter) Fetch(windowDays int) ([]types.Record, error) {
	data, err := a.download()
	if err != nil {
		return nil, err
	}

	var parsed feed
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing advisories feed: %w", err)
	}

	cutoff := a.now().UTC().AddDate(0, 0, -windowDays).Truncate(24 * time.Hour)

	var records []types.Record
	for _, e := range parsed.Entries {
		published := types.ParseTime(e.Published)
		if published.IsZero() || published.Before(cutoff) {
			continue
		}

		id := strings.ToUpper(cveInTitle.FindString(e.Title))
		if id == "" {
			continue
		}

		knownExploited := a.Ref.KEV.Contains(id)
		epss := a.Ref.EPSS.Lookup(id)
		if !a.Thresholds.IsHighRisk(0, knownExploited, epss) {
			continue
		}

		vendorSet := make(map[string]struct{})
		for _, v := range vendors.Match(e.Title) {
			vendorSet[v] = struct{}{}
		}

		records = append(records, types.Record{
			ID:             id,
			Description:    e.Summary,
			CVSSScore:      0, // unknown for this source
			EPSSScore:      epss,
			KnownExploited: knownExploited,
			Vendors:        types.SetToSlice(vendorSet),
			Published:      published.Format(time.RFC3339),
			Kind:           types.EntryPublished,
			Source:         source.NameGHSA,
		})
	}
	return records, nil
}

func (a *Adapter) download() ([]byte, error) {
	resp, err := a.Client.Get(a.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, a.FeedURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// feed is the subset of the Atom document the adapter reads.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Summary   string `xml:"summary"`
}
