// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package kev loads the CISA Known Exploited Vulnerabilities catalog.
package kev

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/secnotes/dailycve/internal/types"
)

const (
	primaryURL      = "https://www.cisa.gov/sites/default/files/feeds/known_exploited_vulnerabilities.json"
	fallbackURL     = "https://raw.githubusercontent.com/cisagov/kev-data/main/known_exploited_vulnerabilities.json"
	maxResponseSize = 50 * 1024 * 1024 // 50 MB
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// LoadKnownExploited fetches the KEV catalog and returns the set of listed
// identifiers. Any failure (network, non-2xx, malformed body) degrades to an
// empty set with a warning on stderr; classification then falls back to the
// remaining signals.
func LoadKnownExploited() types.KnownExploited {
	return loadFrom(primaryURL, fallbackURL)
}

func loadFrom(urls ...string) types.KnownExploited {
	set := make(types.KnownExploited)

	data, err := download(urls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load KEV catalog (%v), continuing without it\n", err)
		return set
	}

	var catalog types.KEVCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		fmt.Fprintf(os.Stderr, "warning: malformed KEV catalog (%v), continuing without it\n", err)
		return set
	}

	for _, vuln := range catalog.Vulnerabilities {
		if vuln.CVEID != "" {
			set[vuln.CVEID] = struct{}{}
		}
	}
	return set
}

// download fetches the catalog from the first URL that succeeds.
func download(urls []string) ([]byte, error) {
	var lastErr error
	for _, url := range urls {
		data, err := downloadFrom(url)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func downloadFrom(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}
