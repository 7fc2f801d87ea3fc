// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package cvelist

// Wire types for CVE Record Format v5 documents. Only the fields the
// adapter reads are declared.

type cveDocument struct {
	CVEMetadata cveMetadata `json:"cveMetadata"`
	Containers  struct {
		CNA cnaContainer `json:"cna"`
	} `json:"containers"`
}

type cveMetadata struct {
	CVEID         string `json:"cveId"`
	DatePublished string `json:"datePublished"`
	DateUpdated   string `json:"dateUpdated"`
}

type cnaContainer struct {
	Descriptions []langValue     `json:"descriptions"`
	Metrics      []metricEntry   `json:"metrics"`
	Affected     []affectedEntry `json:"affected"`
}

type langValue struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type metricEntry struct {
	CVSSV40 *cvssData `json:"cvssV4_0"`
	CVSSV31 *cvssData `json:"cvssV3_1"`
	CVSSV30 *cvssData `json:"cvssV3_0"`
	CVSSV20 *cvssData `json:"cvssV2_0"`
}

type cvssData struct {
	BaseScore float64 `json:"baseScore"`
}

type affectedEntry struct {
	Vendor      string   `json:"vendor"`
	Product     string   `json:"product"`
	PackageName string   `json:"packageName"`
	Modules     []string `json:"modules"`
	Platforms   []string `json:"platforms"`
}
