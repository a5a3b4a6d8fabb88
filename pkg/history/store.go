// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package history persists benchmark runs as append-only JSONL.

Each completed run becomes one JSON line holding the run parameters and
the per-variant timing summaries. The file is the whole database: no
daemon, no schema migrations, and trivially greppable.

# Design Rationale

Benchmark numbers are only useful against earlier numbers. A JSONL file
gives us durable history with nothing but the standard library's
encoding and an append-mode file handle:
  - Appends are a single write, safe to interleave with other tooling
  - One corrupt line loses one run, not the file
  - Records are human-readable and can be processed with jq

Nothing here runs unless a history file is explicitly configured.
A store is only constructed when the caller opts in, so a plain
benchmark invocation touches no files.
*/
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/framebench/pkg/bench"
)

// =============================================================================
// STRUCT DEFINITIONS
// =============================================================================

// VariantResult is one benchmark variant's timing summary.
//
// Durations are stored as float64 seconds so records stay readable and
// line up with the units the benchmark prints.
type VariantResult struct {
	// Name identifies the variant ("eager" or "lazy").
	Name string `json:"name"`

	// MeanSeconds is the average trial duration.
	MeanSeconds float64 `json:"mean_seconds"`

	// TotalSeconds is the summed duration of all trials.
	TotalSeconds float64 `json:"total_seconds"`

	// MinSeconds is the fastest trial.
	MinSeconds float64 `json:"min_seconds"`

	// MaxSeconds is the slowest trial.
	MaxSeconds float64 `json:"max_seconds"`

	// OpsPerSecond is the throughput implied by the total.
	OpsPerSecond float64 `json:"ops_per_second"`
}

// RunRecord is a single persisted benchmark run.
//
// # Description
//
// Captures everything needed to compare a run against later runs:
// the workload shape (trials, rows, pipeline steps) and the measured
// results per variant.
//
// # Examples
//
//	rec := history.RunRecord{
//	    Trials:  100000,
//	    Rows:    500,
//	    Steps:   []string{"filter"},
//	    Results: []history.VariantResult{history.Variant(eager), history.Variant(lazy)},
//	}
//
// # Assumptions
//
//   - ID is unique across all records; Append assigns one when empty
type RunRecord struct {
	// ID is a unique identifier for this run.
	ID string `json:"id"`

	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp"`

	// Trials is the per-variant trial count.
	Trials int `json:"trials"`

	// Rows is the frame row count used for each trial.
	Rows int `json:"rows"`

	// Steps lists the enabled pipeline steps, in execution order.
	Steps []string `json:"steps"`

	// Results holds one summary per variant, in execution order.
	Results []VariantResult `json:"results"`

	// CreatedAt is when this record was written.
	CreatedAt time.Time `json:"created_at"`
}

// Store reads and writes run records in a single JSONL file.
//
// # Description
//
// Append adds one record per line; List reads them all back. The store
// holds no open file handle between operations, so a Store value is
// cheap and needs no Close.
//
// # Thread Safety
//
// Safe for concurrent use within a process only through the atomicity
// of single append writes. Concurrent Prune and Append from separate
// processes can race; the benchmark CLI never does that.
//
// # Limitations
//
//   - List loads the whole file into memory
//   - No file locking across processes
type Store struct {
	path string
}

// =============================================================================
// CONSTRUCTOR FUNCTIONS
// =============================================================================

// NewStore creates a store backed by the given JSONL path.
//
// The file is not created until the first Append, so constructing a
// store has no filesystem effect.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Variant converts a measured benchmark result into its stored form.
func Variant(r bench.Result) VariantResult {
	return VariantResult{
		Name:         r.Name,
		MeanSeconds:  r.Mean.Seconds(),
		TotalSeconds: r.Total.Seconds(),
		MinSeconds:   r.Min.Seconds(),
		MaxSeconds:   r.Max.Seconds(),
		OpsPerSecond: r.OpsPerSecond,
	}
}

// =============================================================================
// Store METHODS
// =============================================================================

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes one run record as a single JSON line.
//
// # Description
//
// Assigns an ID and CreatedAt when missing, creates the parent
// directory if needed, and appends the encoded record. The file is
// opened in append mode so existing history is never rewritten.
//
// # Inputs
//
//   - rec: The run to persist
//
// # Outputs
//
//   - error: If the directory, open, or encode fails
//
// # Examples
//
//	if err := store.Append(rec); err != nil {
//	    log.Warn("history not saved", "error", err)
//	}
func (s *Store) Append(rec RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(rec); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// List returns all stored runs, newest first.
//
// # Description
//
// Reads the JSONL file line by line. Malformed lines are skipped
// rather than failing the whole read; the count of skipped lines is
// returned so callers can surface a warning.
//
// # Outputs
//
//   - []RunRecord: Records in reverse append order (newest first)
//   - int: Number of malformed lines skipped
//   - error: If the file cannot be read (a missing file is not an
//     error; it reads as empty history)
//
// # Examples
//
//	records, skipped, err := store.List()
//	if skipped > 0 {
//	    ux.Warning(fmt.Sprintf("skipped %d corrupt history lines", skipped))
//	}
func (s *Store) List() ([]RunRecord, int, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var records []RunRecord
	skipped := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec RunRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to read history file: %w", err)
	}

	// Reverse append order so the latest run lists first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, skipped, nil
}

// Prune removes records older than the retention period.
//
// # Description
//
// Rewrites the file keeping only records whose timestamp falls within
// the retention window. Malformed lines are dropped as part of the
// rewrite.
//
// # Inputs
//
//   - olderThan: Maximum age of records to keep
//
// # Outputs
//
//   - int: Number of records removed
//   - error: If the rewrite fails
//
// # Examples
//
//	removed, _ := store.Prune(30 * 24 * time.Hour)
//	fmt.Printf("Pruned %d old runs\n", removed)
func (s *Store) Prune(olderThan time.Duration) (int, error) {
	records, skipped, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 && skipped == 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-olderThan)
	var kept []RunRecord
	removed := skipped
	for _, rec := range records {
		if rec.Timestamp.After(cutoff) {
			kept = append(kept, rec)
		} else {
			removed++
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite history file: %w", err)
	}
	defer file.Close()

	// List returned newest first; write back in append order
	encoder := json.NewEncoder(file)
	for i := len(kept) - 1; i >= 0; i-- {
		if err := encoder.Encode(kept[i]); err != nil {
			return removed, fmt.Errorf("failed to write run record: %w", err)
		}
	}
	return removed, nil
}
