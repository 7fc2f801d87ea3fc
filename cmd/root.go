// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/secnotes/dailycve/internal/cache"
	"github.com/secnotes/dailycve/internal/classify"
	"github.com/secnotes/dailycve/internal/datasource/epss"
	"github.com/secnotes/dailycve/internal/datasource/kev"
	"github.com/secnotes/dailycve/internal/enrich"
	"github.com/secnotes/dailycve/internal/order"
	"github.com/secnotes/dailycve/internal/output"
	"github.com/secnotes/dailycve/internal/report"
	"github.com/secnotes/dailycve/internal/resolve"
	"github.com/secnotes/dailycve/internal/source"
	"github.com/secnotes/dailycve/internal/source/cvelist"
	"github.com/secnotes/dailycve/internal/source/ghsa"
	"github.com/secnotes/dailycve/internal/source/nvd"
	"github.com/secnotes/dailycve/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ExitError signals a non-zero exit code with an optional message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Options holds all CLI flag values.
type Options struct {
	Days          int
	Format        string
	Output        string
	SortBy        string
	CacheDir      string
	NoKEV         bool
	NoEPSS        bool
	NoSummary     bool
	CVSSThreshold float64
	EPSSThreshold float64
}

// NewRootCommand creates the root cobra command with all flags.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "dailycve",
		Short:   "Collect high-risk vulnerability disclosures from NVD, the CVE List archives, and GitHub advisories",
		Version: Version,
		Long: `dailycve pulls recent vulnerability disclosures from the NVD API, the
daily CVE List V5 delta archives, and the GitHub security advisories feed,
keeps only the high-risk ones (CVSS, CISA KEV, or EPSS signal), deduplicates
them across sources, and emits a recency-ordered record set.

Sources are merged in a fixed precedence order (nvd, cvelist, ghsa): when two
sources report the same identifier, the earlier source's record survives.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.Days, "days", 1, "Lookback window in days")
	flags.StringVar(&opts.Format, "format", "json", "Output format: json, table")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")
	flags.StringVar(&opts.SortBy, "sort-by", "date", "Sort table by: date, cvss, epss, cve")
	flags.StringVar(&opts.CacheDir, "cache-dir", "", "Override archive cache directory")
	flags.BoolVar(&opts.NoKEV, "no-kev", false, "Skip loading the CISA KEV catalog")
	flags.BoolVar(&opts.NoEPSS, "no-epss", false, "Skip loading EPSS scores")
	flags.BoolVar(&opts.NoSummary, "no-summary", false, "Disable AI description summaries")
	flags.Float64Var(&opts.CVSSThreshold, "cvss-threshold", classify.DefaultCVSSThreshold, "High-risk CVSS cutoff (exclusive)")
	flags.Float64Var(&opts.EPSSThreshold, "epss-threshold", classify.DefaultEPSSThreshold, "High-risk EPSS cutoff (exclusive)")

	return cmd
}

// run orchestrates the full collection pipeline.
func run(opts *Options) error {
	// Pick up OPENAI_API_KEY and friends from a local .env, if present.
	_ = godotenv.Load()

	if opts.Days < 1 {
		return &ExitError{Code: 2, Message: "--days must be at least 1"}
	}

	thresholds := classify.Thresholds{CVSS: opts.CVSSThreshold, EPSS: opts.EPSSThreshold}

	// Load the two reference datasets once. Both fail soft to empty.
	ref := types.RefData{
		KEV:  make(types.KnownExploited),
		EPSS: make(types.EPSSScores),
	}
	if !opts.NoKEV {
		ref.KEV = kev.LoadKnownExploited()
	}
	if !opts.NoEPSS {
		ref.EPSS = epss.LoadScores(time.Now())
	}

	cacheDir, err := resolveCacheDir(opts.CacheDir)
	if err != nil {
		return err
	}
	archiveCache := cache.New(filepath.Join(cacheDir, "archives"))

	adapters := source.OrderByPrecedence(source.DefaultPrecedence, map[string]source.Adapter{
		source.NameNVD:     nvd.New(ref, thresholds),
		source.NameCVEList: cvelist.New(ref, thresholds, archiveCache),
		source.NameGHSA:    ghsa.New(ref, thresholds),
	})

	records := source.Collect(adapters, opts.Days)
	resolved, dropped := resolve.Resolve(records)
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "deduplicated %d record(s) reported by multiple sources\n", dropped)
	}

	enrich.Apply(resolved, newSummarizer(opts))
	order.Sort(resolved)
	stats := report.Build(resolved, thresholds)

	// Determine output writer.
	var w io.Writer
	if opts.Output != "" && opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	switch opts.Format {
	case "json":
		return output.WriteJSON(w, resolved, stats)
	case "table":
		cfg := output.TableConfig{
			SortBy:     opts.SortBy,
			IsTerminal: output.IsOutputToTerminal(w),
		}
		return output.WriteTable(w, resolved, stats, cfg)
	default:
		return &ExitError{
			Code:    2,
			Message: fmt.Sprintf("unsupported output format: %s", opts.Format),
		}
	}
}

// newSummarizer returns the configured summarizer, or nil when disabled or
// no API key is available (descriptions then pass through unchanged).
func newSummarizer(opts *Options) enrich.Summarizer {
	if opts.NoSummary {
		return nil
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil
	}
	return enrich.NewOpenAISummarizer(apiKey)
}

// resolveCacheDir picks the archive cache location: the flag value,
// $XDG_DATA_HOME/dailycve, or ~/.dailycve.
func resolveCacheDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "dailycve"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".dailycve"), nil
}
