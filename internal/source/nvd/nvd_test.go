// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package nvd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/source"
	"github.com/secnotes/dailycve/internal/types"
)

// pubResponse: one critical CVE with CPE data.
const pubResponse = `{
  "vulnerabilities": [
    {
      "cve": {
        "id": "CVE-2024-1111",
        "published": "2026-03-09T10:00:00.000",
        "lastModified": "2026-03-09T10:00:00.000",
        "descriptions": [
          {"lang": "de", "value": "Etwas auf Deutsch"},
          {"lang": "en", "value": "Remote code execution in the widget server"}
        ],
        "metrics": {
          "cvssMetricV31": [{"cvssData": {"baseScore": 9.8}}],
          "cvssMetricV2": [{"cvssData": {"baseScore": 5.0}}]
        },
        "configurations": [
          {
            "nodes": [
              {
                "cpeMatch": [
                  {"vulnerable": true, "criteria": "cpe:2.3:a:apache:http_server:2.4.1:*:*:*:*:*:*:*"},
                  {"vulnerable": false, "criteria": "cpe:2.3:a:ignored:ignored:1.0:*:*:*:*:*:*:*"}
                ],
                "children": [
                  {
                    "cpeMatch": [
                      {"vulnerable": true, "criteria": "cpe:2.3:o:Canonical:Ubuntu_Linux:22.04:*:*:*:*:*:*:*"}
                    ]
                  }
                ]
              }
            ]
          }
        ]
      }
    }
  ]
}`

// modResponse: the same CVE again (must be skipped), one KEV-listed CVE
// with no CVSS data, and one low-risk CVE (must be dropped).
const modResponse = `{
  "vulnerabilities": [
    {
      "cve": {
        "id": "CVE-2024-1111",
        "published": "2026-03-09T10:00:00.000",
        "lastModified": "2026-03-09T11:00:00.000",
        "descriptions": [{"lang": "en", "value": "Duplicate of the published entry"}]
      }
    },
    {
      "cve": {
        "id": "CVE-2024-2222",
        "published": "2026-01-15T08:00:00.000",
        "lastModified": "2026-03-09T09:00:00.000",
        "descriptions": [{"lang": "en", "value": "Privilege escalation in nginx worker"}]
      }
    },
    {
      "cve": {
        "id": "CVE-2024-3333",
        "published": "2026-02-01T08:00:00.000",
        "lastModified": "2026-03-09T09:30:00.000",
        "descriptions": [{"lang": "en", "value": "Low impact issue"}],
        "metrics": {"cvssMetricV31": [{"cvssData": {"baseScore": 3.1}}]}
      }
    }
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Has("pubStartDate"):
			assert.Equal(t, "2000", q.Get("resultsPerPage"))
			_, _ = w.Write([]byte(pubResponse))
		case q.Has("lastModStartDate"):
			_, _ = w.Write([]byte(modResponse))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func newTestAdapter(url string) *Adapter {
	ref := types.RefData{
		KEV:  types.KnownExploited{"CVE-2024-2222": {}},
		EPSS: types.EPSSScores{"CVE-2024-1111": 0.55},
	}
	a := New(ref, classify.DefaultThresholds())
	a.BaseURL = url
	return a
}

func TestFetch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	records, err := newTestAdapter(srv.URL).Fetch(1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Publication-window item, fully structured.
	pub := records[0]
	assert.Equal(t, "CVE-2024-1111", pub.ID)
	assert.Equal(t, types.EntryPublished, pub.Kind)
	assert.Equal(t, "Remote code execution in the widget server", pub.Description)
	assert.InEpsilon(t, 9.8, pub.CVSSScore, 1e-9)
	assert.InEpsilon(t, 0.55, pub.EPSSScore, 1e-9)
	assert.False(t, pub.KnownExploited)
	assert.Equal(t, []string{"apache", "canonical"}, pub.Vendors)
	assert.Equal(t, []string{"http_server", "ubuntu_linux"}, pub.Products)
	assert.Equal(t, source.NameNVD, pub.Source)

	// Modification-window item: no CVSS, kept on the KEV signal alone;
	// structural extraction is empty so the dictionary heuristic applies.
	mod := records[1]
	assert.Equal(t, "CVE-2024-2222", mod.ID)
	assert.Equal(t, types.EntryModified, mod.Kind)
	assert.Zero(t, mod.CVSSScore)
	assert.True(t, mod.KnownExploited)
	assert.Equal(t, []string{"nginx"}, mod.Vendors)
}

func TestFetch_PublicationQueryTakesPrecedence(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	records, err := newTestAdapter(srv.URL).Fetch(1)
	require.NoError(t, err)

	// CVE-2024-1111 appears in both query results but must be emitted once,
	// tagged from the publication pass.
	var copies int
	for _, rec := range records {
		if rec.ID == "CVE-2024-1111" {
			copies++
			assert.Equal(t, types.EntryPublished, rec.Kind)
		}
	}
	assert.Equal(t, 1, copies)
}

func TestFetch_LowRiskDropped(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	records, err := newTestAdapter(srv.URL).Fetch(1)
	require.NoError(t, err)

	for _, rec := range records {
		assert.NotEqual(t, "CVE-2024-3333", rec.ID)
	}
}

func TestFetch_BothQueriesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	records, err := newTestAdapter(srv.URL).Fetch(1)
	assert.Error(t, err)
	assert.Empty(t, records)
}

func TestSeverityScore_PriorityOrder(t *testing.T) {
	m := metrics{
		V31: []metric{{CVSSData: cvssData{BaseScore: 8.8}}},
		V2:  []metric{{CVSSData: cvssData{BaseScore: 4.0}}},
	}
	// Newest schema present wins; versions are never combined.
	assert.InEpsilon(t, 8.8, severityScore(m), 1e-9)

	assert.Zero(t, severityScore(metrics{}))
}

func TestCPEToken(t *testing.T) {
	assert.Equal(t, "apache", cpeToken("Apache"))
	assert.Empty(t, cpeToken("*"))
	assert.Empty(t, cpeToken("-"))
	assert.Empty(t, cpeToken(""))
}

func TestRecord_InvalidID(t *testing.T) {
	a := newTestAdapter("http://unused")
	_, ok := a.record(cveItem{ID: "not-a-cve"}, types.EntryPublished)
	assert.False(t, ok)
}
