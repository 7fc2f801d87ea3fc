// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package cvelist adapts the CVE List V5 daily delta archives to canonical
// records.
package cvelist

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/secnotes/dailycve/internal/cache"
	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/source"
	"github.com/secnotes/dailycve/internal/types"
)

const (
	defaultBaseURL   = "https://github.com/CVEProject/cvelistV5/releases/download"
	defaultMirrorURL = "https://mirror.cvelistv5.org/releases/download"
	maxArchiveSize   = 200 * 1024 * 1024 // 200 MB
	maxDocSize       = 10 * 1024 * 1024  // 10 MB per contained document
)

// Adapter fetches the dated CVE v5 delta archive and normalizes every
// contained document.
type Adapter struct {
	BaseURL    string
	MirrorURL  string
	Client     *http.Client
	Cache      *cache.Cache // nil disables the best-effort raw archive cache
	Ref        types.RefData
	Thresholds classify.Thresholds

	now func() time.Time
}

// New creates a CVE List adapter. archiveCache may be nil.
func New(ref types.RefData, thresholds classify.Thresholds, archiveCache *cache.Cache) *Adapter {
	return &Adapter{
		BaseURL:    defaultBaseURL,
		MirrorURL:  defaultMirrorURL,
		Client:     &http.Client{Timeout: 120 * time.Second},
		Cache:      archiveCache,
		Ref:        ref,
		Thresholds: thresholds,
		now:        time.Now,
	}
}

func (a *Adapter) Name() string { return source.NameCVEList }

// Fetch resolves the lookback window to a single target calendar date and
// downloads that day's delta archive. A target date that is today or in the
// future (clock skew) is stepped back a day at a time until strictly past.
// If the target date's archive is entirely unavailable the adapter tries
// exactly one day further back before giving up.
func (a *Adapter) Fetch(windowDays int) ([]types.Record, error) {
	today := a.now().UTC().Truncate(24 * time.Hour)
	target := today.AddDate(0, 0, -windowDays)
	for !target.Before(today) {
		target = target.AddDate(0, 0, -1)
	}

	data, err := a.fetchArchive(target)
	if err != nil {
		fallback := target.AddDate(0, 0, -1)
		fmt.Fprintf(os.Stderr, "warning: cvelist archive for %s unavailable (%v), trying %s\n",
			target.Format("2006-01-02"), err, fallback.Format("2006-01-02"))
		target = fallback
		data, err = a.fetchArchive(target)
		if err != nil {
			return nil, fmt.Errorf("archive for %s: %w", target.Format("2006-01-02"), err)
		}
	}

	if a.Cache != nil {
		if err := a.Cache.StoreDated(target, "zip", data); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to cache cvelist archive: %v\n", err)
		}
	}

	return a.parseArchive(data, target)
}

// fetchArchive downloads the delta zip for date, retrying once through the
// mirror path when the direct fetch fails.
func (a *Adapter) fetchArchive(date time.Time) ([]byte, error) {
	data, err := a.download(archiveURL(a.BaseURL, date))
	if err == nil {
		return data, nil
	}
	data, err2 := a.download(archiveURL(a.MirrorURL, date))
	if err2 == nil {
		return data, nil
	}
	return nil, fmt.Errorf("direct: %w; mirror: %v", err, err2)
}

func archiveURL(base string, date time.Time) string {
	d := date.Format("2006-01-02")
	return fmt.Sprintf("%s/cve_%s_at_end_of_day/%s_delta_CVEs_at_end_of_day.zip", base, d, d)
}

func (a *Adapter) download(url string) ([]byte, error) {
	resp, err := a.Client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// parseArchive iterates every JSON document in the zip. A malformed
// document is skipped without aborting the rest of the archive.
func (a *Adapter) parseArchive(data []byte, target time.Time) ([]types.Record, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var records []types.Record
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		doc, err := readDoc(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s in cvelist archive: %v\n", f.Name, err)
			continue
		}
		if rec, ok := a.record(doc, target); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readDoc(f *zip.File) (cveDocument, error) {
	var doc cveDocument
	rc, err := f.Open()
	if err != nil {
		return doc, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDocSize))
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// record normalizes one CVE v5 document. Returns false when the document
// has no valid identifier or fails high-risk classification.
func (a *Adapter) record(doc cveDocument, target time.Time) (types.Record, bool) {
	id := doc.CVEMetadata.CVEID
	if !types.ValidID(id) {
		return types.Record{}, false
	}

	score := severityScore(doc.Containers.CNA.Metrics)
	knownExploited := a.Ref.KEV.Contains(id)
	epss := a.Ref.EPSS.Lookup(id)
	if !a.Thresholds.IsHighRisk(score, knownExploited, epss) {
		return types.Record{}, false
	}

	vendorSet, productSet := affectedVendorsProducts(doc.Containers.CNA.Affected)

	return types.Record{
		ID:             id,
		Description:    englishDescription(doc.Containers.CNA.Descriptions),
		CVSSScore:      score,
		EPSSScore:      epss,
		KnownExploited: knownExploited,
		Vendors:        types.SetToSlice(vendorSet),
		Products:       types.SetToSlice(productSet),
		Published:      doc.CVEMetadata.DatePublished,
		Modified:       doc.CVEMetadata.DateUpdated,
		Kind:           entryKind(doc.CVEMetadata, target),
		Source:         source.NameCVEList,
	}, true
}

// entryKind derives the entry kind from the document's dates relative to
// the target archive date: published on the target date is a new entry;
// published earlier (or not at all) with an update on the target date is a
// modification; anything else defaults to a new entry.
func entryKind(meta cveMetadata, target time.Time) types.EntryKind {
	pub := types.ParseTime(meta.DatePublished)
	upd := types.ParseTime(meta.DateUpdated)

	switch {
	case !pub.IsZero() && sameDay(pub, target):
		return types.EntryPublished
	case !pub.IsZero() && pub.Before(target) && sameDay(upd, target):
		return types.EntryModified
	case pub.IsZero() && sameDay(upd, target):
		return types.EntryModified
	default:
		return types.EntryPublished
	}
}

func sameDay(t, day time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// severityScore scans the metric schema versions newest first and returns
// the first base score found.
func severityScore(entries []metricEntry) float64 {
	for _, pick := range []func(metricEntry) *cvssData{
		func(e metricEntry) *cvssData { return e.CVSSV40 },
		func(e metricEntry) *cvssData { return e.CVSSV31 },
		func(e metricEntry) *cvssData { return e.CVSSV30 },
		func(e metricEntry) *cvssData { return e.CVSSV20 },
	} {
		for _, e := range entries {
			if d := pick(e); d != nil {
				return d.BaseScore
			}
		}
	}
	return 0
}

func englishDescription(descs []langValue) string {
	for _, d := range descs {
		if d.Lang == "en" || strings.HasPrefix(d.Lang, "en-") {
			return d.Value
		}
	}
	return ""
}

// affectedVendorsProducts reads the explicit affected-entity list. The
// schema is explicit here, so no heuristic fallback is needed: vendor
// fields feed the vendor set; product, package, module, and platform
// fields feed the product set.
func affectedVendorsProducts(affected []affectedEntry) (map[string]struct{}, map[string]struct{}) {
	vendorSet := make(map[string]struct{})
	productSet := make(map[string]struct{})

	for _, entry := range affected {
		if v := affectedToken(entry.Vendor); v != "" {
			vendorSet[v] = struct{}{}
		}
		for _, p := range []string{entry.Product, entry.PackageName} {
			if p = affectedToken(p); p != "" {
				productSet[p] = struct{}{}
			}
		}
		for _, m := range entry.Modules {
			if m = affectedToken(m); m != "" {
				productSet[m] = struct{}{}
			}
		}
		for _, p := range entry.Platforms {
			if p = affectedToken(p); p != "" {
				productSet[p] = struct{}{}
			}
		}
	}
	return vendorSet, productSet
}

// affectedToken lower-cases a field, discarding placeholder values the CNA
// schema allows.
func affectedToken(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "n/a" || s == "*" || s == "-" {
		return ""
	}
	return s
}
