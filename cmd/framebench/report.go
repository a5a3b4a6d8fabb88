// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AleutianAI/framebench/cmd/framebench/config"
	"github.com/AleutianAI/framebench/pkg/bench"
)

// statsConfidence is the confidence level for --stats intervals.
const statsConfidence = 0.95

// printReference writes the canonical two-line report. The trailing
// double space after "lazy time:" column-aligns the numbers; scripts
// parse these lines, so the format never changes.
func printReference(w io.Writer, eager, lazy bench.Result) {
	fmt.Fprintf(w, "Average eager time: %.6f seconds\n", eager.Seconds())
	fmt.Fprintf(w, "Average lazy time:  %.6f seconds\n", lazy.Seconds())
}

// runReport is the machine-readable form of a completed run, emitted
// on stdout by --json.
type runReport struct {
	Timestamp time.Time       `json:"timestamp"`
	Trials    int             `json:"trials"`
	Warmup    int             `json:"warmup,omitempty"`
	Rows      int             `json:"rows"`
	Threshold int             `json:"threshold"`
	Steps     []string        `json:"steps"`
	Variants  []variantReport `json:"variants"`
}

type variantReport struct {
	Name         string       `json:"name"`
	MeanSeconds  float64      `json:"mean_seconds"`
	TotalSeconds float64      `json:"total_seconds"`
	MinSeconds   float64      `json:"min_seconds"`
	MaxSeconds   float64      `json:"max_seconds"`
	OpsPerSecond float64      `json:"ops_per_second"`
	Stats        *statsReport `json:"stats,omitempty"`
}

type statsReport struct {
	MedianSeconds float64  `json:"median_seconds"`
	LoSeconds     float64  `json:"lo_seconds"`
	HiSeconds     float64  `json:"hi_seconds"`
	Confidence    float64  `json:"confidence"`
	Warnings      []string `json:"warnings,omitempty"`
}

// newRunReport assembles the JSON report from the merged parameters
// and the variant results. Stats blocks are attached only when the run
// retained samples and the caller asked for them.
func newRunReport(cfg config.Config, startedAt time.Time, results []bench.Result) runReport {
	rep := runReport{
		Timestamp: startedAt,
		Trials:    cfg.Benchmark.Trials,
		Warmup:    cfg.Benchmark.Warmup,
		Rows:      cfg.Benchmark.Rows,
		Threshold: cfg.Benchmark.Threshold,
		Steps:     cfg.Benchmark.Steps,
		Variants:  make([]variantReport, 0, len(results)),
	}

	for _, res := range results {
		v := variantReport{
			Name:         res.Name,
			MeanSeconds:  res.Seconds(),
			TotalSeconds: res.Total.Seconds(),
			MinSeconds:   res.Min.Seconds(),
			MaxSeconds:   res.Max.Seconds(),
			OpsPerSecond: res.OpsPerSecond,
		}
		if cfg.Output.Stats {
			if st, err := res.Stats(statsConfidence); err == nil {
				v.Stats = &statsReport{
					MedianSeconds: st.Center.Seconds(),
					LoSeconds:     st.Lo.Seconds(),
					HiSeconds:     st.Hi.Seconds(),
					Confidence:    st.Confidence,
					Warnings:      st.Warnings,
				}
			}
		}
		rep.Variants = append(rep.Variants, v)
	}
	return rep
}

// writeJSONReport emits the report as indented JSON.
func writeJSONReport(w io.Writer, rep runReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}
	return nil
}

// writeStatsSummary prints the extended per-variant summary. One line
// per variant; benchmath sample warnings follow indented.
func writeStatsSummary(w io.Writer, results []bench.Result) error {
	for _, res := range results {
		st, err := res.Stats(statsConfidence)
		if err != nil {
			return fmt.Errorf("stats for %s: %w", res.Name, err)
		}
		fmt.Fprintf(w, "%s: median %s [%s, %s] @ %.0f%% confidence, min %s, max %s, %.0f ops/sec\n",
			res.Name, st.Center, st.Lo, st.Hi, st.Confidence*100,
			res.Min, res.Max, res.OpsPerSecond)
		for _, warning := range st.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}
	return nil
}

// comparisonLine describes the lazy/eager mean ratio for the styled
// summary box. Empty when either mean is zero, which only happens on
// sub-resolution trials.
func comparisonLine(eager, lazy bench.Result) string {
	if eager.Mean <= 0 || lazy.Mean <= 0 {
		return ""
	}
	ratio := lazy.Seconds() / eager.Seconds()
	switch {
	case ratio > 1:
		return fmt.Sprintf("lazy is %.2fx slower than eager", ratio)
	case ratio < 1:
		return fmt.Sprintf("lazy is %.2fx faster than eager", 1/ratio)
	default:
		return "lazy and eager are equal"
	}
}
