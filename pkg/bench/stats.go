// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package bench

import (
	"time"

	"golang.org/x/perf/benchmath"
)

// Stats is a distribution-free summary of retained per-trial samples.
//
// Center is the sample median; Lo and Hi bound the confidence interval
// for the median at the requested confidence level. Micro-benchmark
// samples are rarely normal (GC pauses, scheduler noise), so the
// summary makes no distributional assumptions.
type Stats struct {
	Center     time.Duration `json:"center_ns"`
	Lo         time.Duration `json:"lo_ns"`
	Hi         time.Duration `json:"hi_ns"`
	Confidence float64       `json:"confidence"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// Stats summarizes the retained samples at the given confidence level
// (e.g., 0.95). Returns ErrNoSamples when the Result was produced
// without Options.KeepSamples.
func (r Result) Stats(confidence float64) (Stats, error) {
	if len(r.Samples) == 0 {
		return Stats{}, ErrNoSamples
	}

	vals := make([]float64, len(r.Samples))
	for i, d := range r.Samples {
		vals[i] = d.Seconds()
	}

	thresholds := benchmath.DefaultThresholds
	sample := benchmath.NewSample(vals, &thresholds)
	summary := benchmath.AssumeNothing.Summary(sample, confidence)

	st := Stats{
		Center:     secondsToDuration(summary.Center),
		Lo:         secondsToDuration(summary.Lo),
		Hi:         secondsToDuration(summary.Hi),
		Confidence: summary.Confidence,
	}
	for _, w := range sample.Warnings {
		st.Warnings = append(st.Warnings, w.Error())
	}
	for _, w := range summary.Warnings {
		st.Warnings = append(st.Warnings, w.Error())
	}
	return st, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
