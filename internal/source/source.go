// SPDX-FileCopyrightText: 2026 SecNotes Authors
// SPDX-License-Identifier: Apache-2.0

// Package source defines the adapter contract shared by every upstream
// vulnerability source and the merge step that combines their output.
package source

import (
	"fmt"
	"os"
	"sync"

	"github.com/secnotes/dailycve/internal/types"
)

// Adapter names, also used as Record.Source values.
const (
	NameNVD     = "nvd"
	NameCVEList = "cvelist"
	NameGHSA    = "ghsa"
)

// DefaultPrecedence is the fixed adapter ordering applied when merging
// results. It is part of the pipeline's external contract: deduplication is
// first-seen-wins, so this list decides which source's copy of a shared
// identifier survives.
var DefaultPrecedence = []string{NameNVD, NameCVEList, NameGHSA}

// OrderByPrecedence arranges adapters by the given precedence list. Names
// missing from the map are skipped; adapters not named are left out.
func OrderByPrecedence(precedence []string, byName map[string]Adapter) []Adapter {
	ordered := make([]Adapter, 0, len(precedence))
	for _, name := range precedence {
		if a, ok := byName[name]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// Adapter fetches raw upstream data for a lookback window and emits zero or
// more canonical records that already passed high-risk classification.
// Implementations must confine failures to their own result: a network or
// parse error degrades to an empty slice plus an error, never a panic.
type Adapter interface {
	Name() string
	Fetch(windowDays int) ([]types.Record, error)
}

// Collect runs every adapter and concatenates their records in the order
// the adapters are listed. That list order is load-bearing: deduplication
// is first-seen-wins, so an identifier emitted by two sources survives as
// the copy from the earlier-listed adapter. Adapters run in parallel
// workers, but results are merged by list position, not completion order.
//
// A failing adapter contributes nothing and is logged; it never aborts its
// siblings or the run.
func Collect(adapters []Adapter, windowDays int) []types.Record {
	results := make([][]types.Record, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			records, err := a.Fetch(windowDays)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: source %s returned nothing (%v)\n", a.Name(), err)
				return
			}
			results[i] = records
		}(i, a)
	}
	wg.Wait()

	var merged []types.Record
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged
}
