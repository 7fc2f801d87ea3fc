// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package nvd

// Wire types for the NVD CVE API 2.0 response. Only the fields the
// adapter reads are declared.

type response struct {
	Vulnerabilities []struct {
		CVE cveItem `json:"cve"`
	} `json:"vulnerabilities"`
}

type cveItem struct {
	ID             string          `json:"id"`
	Published      string          `json:"published"`
	LastModified   string          `json:"lastModified"`
	Descriptions   []langValue     `json:"descriptions"`
	Metrics        metrics         `json:"metrics"`
	Configurations []configuration `json:"configurations"`
}

type langValue struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type metrics struct {
	V40 []metric `json:"cvssMetricV40"`
	V31 []metric `json:"cvssMetricV31"`
	V30 []metric `json:"cvssMetricV30"`
	V2  []metric `json:"cvssMetricV2"`
}

type metric struct {
	CVSSData cvssData `json:"cvssData"`
}

type cvssData struct {
	BaseScore float64 `json:"baseScore"`
}

type configuration struct {
	Nodes []node `json:"nodes"`
}

type node struct {
	CPEMatch []cpeMatch `json:"cpeMatch"`
	Children []node     `json:"children"`
}

type cpeMatch struct {
	Vulnerable bool   `json:"vulnerable"`
	Criteria   string `json:"criteria"`
}
