// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package nvd adapts the NVD REST API (CVE API 2.0) to canonical records.
package nvd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/source"
	"github.com/secnotes/dailycve/internal/types"
	"github.com/secnotes/dailycve/internal/vendors"
)

const (
	defaultBaseURL  = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	resultsPerPage  = 2000 // API maximum
	queryTimeFormat = "2006-01-02T15:04:05"
	maxResponseSize = 100 * 1024 * 1024 // 100 MB
)

// Adapter fetches recently published and recently modified CVEs from NVD.
type Adapter struct {
	BaseURL    string
	Client     *http.Client
	Ref        types.RefData
	Thresholds classify.Thresholds

	now func() time.Time
}

// New creates an NVD adapter using the injected reference data and
// thresholds.
func New(ref types.RefData, thresholds classify.Thresholds) *Adapter {
	return &Adapter{
		BaseURL:    defaultBaseURL,
		Client:     &http.Client{Timeout: 60 * time.Second},
		Ref:        ref,
		Thresholds: thresholds,
		now:        time.Now,
	}
}

func (a *Adapter) Name() string { return source.NameNVD }

// Fetch issues two windowed queries: one over publication timestamps, one
// over last-modified timestamps (the latter captures corrections to older
// entries). Items from the publication query are tagged as published;
// modification-query items are tagged as modified only when the
// publication query did not already produce them. Only high-risk records
// are emitted.
func (a *Adapter) Fetch(windowDays int) ([]types.Record, error) {
	end := a.now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	pubItems, pubErr := a.query(url.Values{
		"pubStartDate":   {start.Format(queryTimeFormat)},
		"pubEndDate":     {end.Format(queryTimeFormat)},
		"resultsPerPage": {fmt.Sprint(resultsPerPage)},
	})
	modItems, modErr := a.query(url.Values{
		"lastModStartDate": {start.Format(queryTimeFormat)},
		"lastModEndDate":   {end.Format(queryTimeFormat)},
		"resultsPerPage":   {fmt.Sprint(resultsPerPage)},
	})
	if pubErr != nil && modErr != nil {
		return nil, fmt.Errorf("published query: %w; modified query: %v", pubErr, modErr)
	}
	if pubErr != nil {
		fmt.Fprintf(os.Stderr, "warning: nvd published-window query failed (%v)\n", pubErr)
	}
	if modErr != nil {
		fmt.Fprintf(os.Stderr, "warning: nvd modified-window query failed (%v)\n", modErr)
	}

	var records []types.Record
	seen := make(map[string]struct{})

	for _, item := range pubItems {
		if rec, ok := a.record(item, types.EntryPublished); ok {
			records = append(records, rec)
		}
		if item.ID != "" {
			seen[item.ID] = struct{}{}
		}
	}
	for _, item := range modItems {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		if rec, ok := a.record(item, types.EntryModified); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// record normalizes one API item into a canonical record. Returns false
// when the item has no valid identifier or fails high-risk classification.
func (a *Adapter) record(item cveItem, kind types.EntryKind) (types.Record, bool) {
	if !types.ValidID(item.ID) {
		return types.Record{}, false
	}

	score := severityScore(item.Metrics)
	knownExploited := a.Ref.KEV.Contains(item.ID)
	epss := a.Ref.EPSS.Lookup(item.ID)
	if !a.Thresholds.IsHighRisk(score, knownExploited, epss) {
		return types.Record{}, false
	}

	description := englishDescription(item.Descriptions)
	vendorSet, productSet := cpeVendorsProducts(item.Configurations)
	if len(vendorSet) == 0 && len(productSet) == 0 {
		for _, v := range vendors.Match(item.ID + " " + description) {
			vendorSet[v] = struct{}{}
		}
	}

	return types.Record{
		ID:             item.ID,
		Description:    description,
		CVSSScore:      score,
		EPSSScore:      epss,
		KnownExploited: knownExploited,
		Vendors:        types.SetToSlice(vendorSet),
		Products:       types.SetToSlice(productSet),
		Published:      item.Published,
		Modified:       item.LastModified,
		Kind:           kind,
		Source:         source.NameNVD,
	}, true
}

func (a *Adapter) query(params url.Values) ([]cveItem, error) {
	resp, err := a.Client.Get(a.BaseURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, a.BaseURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling NVD response: %w", err)
	}

	items := make([]cveItem, 0, len(parsed.Vulnerabilities))
	for _, wrapper := range parsed.Vulnerabilities {
		items = append(items, wrapper.CVE)
	}
	return items, nil
}

// severityScore scans the metric schema versions newest first and returns
// the first base score found. Versions are never averaged or combined.
func severityScore(m metrics) float64 {
	for _, list := range [][]metric{m.V40, m.V31, m.V30, m.V2} {
		if len(list) > 0 {
			return list[0].CVSSData.BaseScore
		}
	}
	return 0
}

// englishDescription returns the first description tagged "en", or "".
func englishDescription(descs []langValue) string {
	for _, d := range descs {
		if d.Lang == "en" {
			return d.Value
		}
	}
	return ""
}

// cpeVendorsProducts walks the configuration node tree and extracts vendor
// and product tokens from each vulnerable CPE match criteria string.
// CPE 2.3 format: cpe:2.3:<part>:<vendor>:<product>:<version>:...
func cpeVendorsProducts(configs []configuration) (map[string]struct{}, map[string]struct{}) {
	vendorSet := make(map[string]struct{})
	productSet := make(map[string]struct{})

	var walk func(nodes []node)
	walk = func(nodes []node) {
		for _, n := range nodes {
			for _, match := range n.CPEMatch {
				if !match.Vulnerable {
					continue
				}
				parts := strings.Split(match.Criteria, ":")
				if len(parts) < 6 {
					continue
				}
				if v := cpeToken(parts[3]); v != "" {
					vendorSet[v] = struct{}{}
				}
				if p := cpeToken(parts[4]); p != "" {
					productSet[p] = struct{}{}
				}
			}
			walk(n.Children)
		}
	}
	for _, cfg := range configs {
		walk(cfg.Nodes)
	}
	return vendorSet, productSet
}

// cpeToken lower-cases a CPE field, discarding wildcard and empty tokens.
func cpeToken(s string) string {
	if s == "" || s == "*" || s == "-" {
		return ""
	}
	return strings.ToLower(s)
}
