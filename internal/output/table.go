// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	aqtable "github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/secnotes/dailycve/internal/report"
	"github.com/secnotes/dailycve/internal/types"
)

const (
	maxDescriptionWords = 16
	maxTopVendors       = 10
)

// TableConfig controls row ordering and styling.
type TableConfig struct {
	SortBy     string // "date" (default, preserves pipeline order), "cvss", "epss", "cve"
	IsTerminal bool   // true when output goes to a terminal (enables ANSI styling)
}

// IsOutputToTerminal returns true if the writer is stdout connected to a
// character device (TTY).
func IsOutputToTerminal(output io.Writer) bool {
	return output == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// WriteTable renders the ordered record set and its statistics as a table.
func WriteTable(w io.Writer, records []types.Record, stats report.Stats, cfg TableConfig) error {
	writeHeader(w, stats, cfg.IsTerminal)

	rows := make([]types.Record, len(records))
	copy(rows, records)
	sortRows(rows, cfg.SortBy)

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("CVE", "Severity", "CVSS", "EPSS", "KEV", "Kind", "Vendors", "Last Activity", "Description")
	for i := range rows {
		tw.AddRow(rowCells(&rows[i], cfg.IsTerminal)...)
	}
	tw.Render()

	writeTopVendors(w, stats)
	return nil
}

// writeHeader writes the run summary line, e.g.:
// Total: 5 (CVSS>threshold: 2, KEV: 1, EPSS>threshold: 3, new: 4, updated: 1)
func writeHeader(w io.Writer, stats report.Stats, isTerminal bool) {
	title := "High-Risk Vulnerabilities"
	if isTerminal {
		_ = tml.Fprintf(w, "<underline><bold>%s</bold></underline>\n", title)
	} else {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", len(title)))
	}
	fmt.Fprintf(w, "Total: %d (CVSS>threshold: %d, KEV: %d, EPSS>threshold: %d, new: %d, updated: %d)\n\n",
		stats.Total, stats.HighCVSSCount, stats.KEVCount, stats.HighEPSSCount,
		stats.PublishedCount, stats.ModifiedCount)
}

// writeTopVendors lists the most frequent vendors across the record set.
func writeTopVendors(w io.Writer, stats report.Stats) {
	top := stats.TopVendors(maxTopVendors)
	if len(top) == 0 {
		return
	}
	parts := make([]string, 0, len(top))
	for _, vendor := range top {
		parts = append(parts, fmt.Sprintf("%s (%d)", vendor, stats.VendorCounts[vendor]))
	}
	fmt.Fprintf(w, "\nTop vendors: %s\n", strings.Join(parts, ", "))
}

// newTableWriter creates a table writer with borders, auto-merge, and row
// separators. When isTerminal is true, header and line styles use ANSI
// formatting.
func newTableWriter(w io.Writer, isTerminal bool) *aqtable.Table {
	tw := aqtable.New(w)
	if isTerminal {
		tw.SetHeaderStyle(aqtable.StyleBold)
		tw.SetLineStyle(aqtable.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetAutoMerge(true)
	tw.SetRowLines(true)
	return tw
}

// rowCells returns the cell values for a single record row.
func rowCells(r *types.Record, isTerminal bool) []string {
	severity := report.SeverityBucket(r.CVSSScore)
	if isTerminal {
		severity = colorizeSeverity(severity)
	}
	return []string{
		r.ID,
		severity,
		formatScore(r.CVSSScore),
		fmt.Sprintf("%.2f", r.EPSSScore),
		formatKEV(r.KnownExploited),
		string(r.Kind),
		strings.Join(r.Vendors, ", "),
		r.LastActivity().Format("2006-01-02"),
		truncateWords(r.Description, maxDescriptionWords),
	}
}

// severityColors maps severity buckets to color functions.
var severityColors = map[string]func(a ...any) string{
	report.SeverityLow:      color.New(color.FgBlue).SprintFunc(),
	report.SeverityMedium:   color.New(color.FgYellow).SprintFunc(),
	report.SeverityHigh:     color.New(color.FgHiRed).SprintFunc(),
	report.SeverityCritical: color.New(color.FgRed).SprintFunc(),
}

// colorizeSeverity returns the severity string wrapped in ANSI color codes.
func colorizeSeverity(severity string) string {
	if fn, ok := severityColors[severity]; ok {
		return fn(severity)
	}
	return severity
}

// sortRows reorders rows for display. The default keeps the pipeline's
// recency ordering.
func sortRows(rows []types.Record, sortBy string) {
	switch sortBy {
	case "cvss":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].CVSSScore > rows[j].CVSSScore
		})
	case "epss":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].EPSSScore > rows[j].EPSSScore
		})
	case "cve":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].ID < rows[j].ID
		})
	default:
		// preserve pipeline order
	}
}

func formatScore(score float64) string {
	if score == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", score)
}

func formatKEV(listed bool) string {
	if listed {
		return "YES"
	}
	return "NO"
}

// truncateWords limits text to maxWords words, appending "..." if truncated.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
