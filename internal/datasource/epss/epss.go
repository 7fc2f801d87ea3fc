// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package epss loads the daily EPSS exploitation-probability scores.
package epss

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/secnotes/dailycve/internal/types"
)

const (
	baseURL             = "https://epss.empiricalsecurity.com"
	maxDecompressedSize = 100 * 1024 * 1024 // 100 MB
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// LoadScores fetches the EPSS CSV published for the day before asOf.
// Yesterday's file is used because today's publication may not exist yet.
// The gzip-compressed variant is tried first, then the plain CSV once; on
// continued failure an empty map is returned with a warning on stderr.
func LoadScores(asOf time.Time) types.EPSSScores {
	date := asOf.UTC().AddDate(0, 0, -1).Format("2006-01-02")
	return loadForDate(date, baseURL)
}

func loadForDate(date, base string) types.EPSSScores {
	scores := make(types.EPSSScores)

	data, err := downloadGzip(fmt.Sprintf("%s/epss_scores-%s.csv.gz", base, date))
	if err != nil {
		var err2 error
		data, err2 = downloadPlain(fmt.Sprintf("%s/epss_scores-%s.csv", base, date))
		if err2 != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load EPSS scores for %s (gzip: %v; plain: %v), continuing without them\n", date, err, err2)
			return scores
		}
	}

	parseCSV(data, scores)
	return scores
}

// parseCSV reads lines of "id,score,..." into scores. The header row and
// any malformed line are skipped individually; a bad line never aborts the
// rest of the load.
func parseCSV(data []byte, scores types.EPSSScores) {
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i == 0 || strings.HasPrefix(line, "cve,") {
			continue // header
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		id := strings.TrimSpace(parts[0])
		score, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || id == "" {
			continue
		}
		scores[id] = score
	}
}

func downloadGzip(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	data, err := io.ReadAll(io.LimitReader(gz, maxDecompressedSize))
	if err != nil {
		return nil, fmt.Errorf("reading gzip data: %w", err)
	}
	return data, nil
}

func downloadPlain(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDecompressedSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}
