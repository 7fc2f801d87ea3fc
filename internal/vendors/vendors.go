// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package vendors provides the heuristic vendor-name lookup table shared by
// all source adapters.
//
// Matching is a lower-cased substring scan against a fixed dictionary. It is
// best-effort, not authoritative: it can produce false positives (a vendor
// name appearing incidentally in prose) and misses any vendor not in the
// table. Adapters use it only when a source carries no structured
// vendor/product data.
package vendors

import "strings"

// TableVersion identifies the dictionary revision in effect.
const TableVersion = "2026-08"

// dictionary lists common vendor, project, and platform names in lower case.
var dictionary = []string{
	"adobe", "amazon", "amd", "android", "apache", "apple", "atlassian",
	"avast", "avaya", "aws", "azure", "bitdefender", "centos", "checkpoint",
	"chrome", "cisco", "citrix", "debian", "dell", "docker", "drupal",
	"edge", "exchange", "facebook", "fedora", "firefox", "fortinet", "gcp",
	"google", "hp", "huawei", "ibm", "intel", "ios", "jenkins", "joomla",
	"jquery", "juniper", "kaspersky", "kubernetes", "linkedin", "linux",
	"macos", "magento", "mcafee", "meta", "microsoft", "mssql", "mysql",
	"nginx", "nvidia", "onedrive", "opensuse", "oracle", "outlook",
	"paypal", "postgresql", "prestashop", "red hat", "salesforce",
	"samsung", "sap", "sharepoint", "shopify", "slack", "stripe",
	"symantec", "teams", "telegram", "trendmicro", "twitter", "ubuntu",
	"vmware", "webex", "whatsapp", "windows", "woocommerce", "wordpress",
	"xiaomi", "zendesk", "zoom",
}

// Match scans text for known vendor names and returns every match, lower
// cased. The scan is case-insensitive; the result order follows the
// dictionary, not the text.
func Match(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, vendor := range dictionary {
		if strings.Contains(lower, vendor) {
			found = append(found, vendor)
		}
	}
	return found
}
