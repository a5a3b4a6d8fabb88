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
Package bench provides a repeated-trial wall-clock timing harness.

The harness runs a zero-argument operation a fixed number of times,
accumulates the elapsed wall-clock duration of each trial, and reports
the arithmetic mean alongside min/max and throughput figures. It is the
measurement core behind the framebench CLI, but it knows nothing about
dataframes: any operation that fits the Op contract can be measured.

# Design Rationale

Timing uses time.Now/time.Since, which carry Go's monotonic clock
reading, so samples are immune to wall-clock adjustments and never
negative. Accumulation happens in locals scoped to a single Run call;
there is no package-level state, so concurrent Run calls on unrelated
operations cannot contaminate each other's aggregates.

The harness is deliberately strict about failure: an operation error on
any trial aborts the run with no partial aggregate. A mean over an
unknown number of successful trials is not a number worth reporting.
*/
package bench

import (
	"errors"
	"fmt"
	"time"
)

// Op is a single measurable operation.
//
// An Op must perform the complete unit of work being measured on every
// call, including any setup that is part of the measured cost, and must
// not return until all deferred work has been forced. The harness calls
// it sequentially from one goroutine.
type Op func() error

// Sentinel errors returned by Run.
var (
	// ErrNoTrials is returned when Options.Trials is zero or negative.
	// Running zero trials has no meaningful mean, so the harness refuses
	// rather than reporting a fabricated zero.
	ErrNoTrials = errors.New("bench: trial count must be positive")

	// ErrNilOp is returned when Run is given a nil operation.
	ErrNilOp = errors.New("bench: operation is nil")

	// ErrNoSamples is returned by Result.Stats when per-trial samples
	// were not retained (Options.KeepSamples was false).
	ErrNoSamples = errors.New("bench: no retained samples")
)

// Options controls a single Run invocation.
type Options struct {
	// Trials is the number of measured invocations. Must be positive.
	Trials int

	// Warmup is the number of unmeasured invocations executed before
	// measurement begins. Zero means no warmup.
	Warmup int

	// KeepSamples retains every per-trial duration on the Result,
	// enabling Result.Stats. Costs O(Trials) memory.
	KeepSamples bool

	// OnProgress, when non-nil, is invoked after each measured trial
	// completes with the number of finished trials and the total. It is
	// called outside the timed region, so slow callbacks do not inflate
	// samples, but they do stretch total run duration.
	OnProgress func(done, total int)
}

// Result holds the aggregate of one Run invocation.
//
// Mean is always Total divided by Trials. Min and Max are the extreme
// single-trial durations. Samples is nil unless Options.KeepSamples was
// set.
type Result struct {
	Name         string          `json:"name"`
	Trials       int             `json:"trials"`
	Total        time.Duration   `json:"total_ns"`
	Mean         time.Duration   `json:"mean_ns"`
	Min          time.Duration   `json:"min_ns"`
	Max          time.Duration   `json:"max_ns"`
	OpsPerSecond float64         `json:"ops_per_second"`
	Samples      []time.Duration `json:"-"`
}

// Seconds returns the mean trial duration in seconds.
func (r Result) Seconds() float64 {
	return r.Mean.Seconds()
}

// Run measures op over the configured number of trials.
//
// # Description
//
// Executes op opts.Warmup times unmeasured, then opts.Trials times with
// a monotonic timestamp taken immediately before and after each call.
// The elapsed durations accumulate into a local total; the returned
// Result carries the arithmetic mean (total / trials) plus min, max,
// and operations-per-second derived from the same total.
//
// Trials run strictly sequentially on the calling goroutine. The
// harness performs no I/O and touches no shared state, so the only
// costs inside the timed region are op itself and two clock reads.
//
// # Inputs
//
//   - name: Label attached to the Result (e.g., "eager", "lazy")
//   - op: The operation to measure; see the Op contract
//   - opts: Trial count, warmup, sample retention, progress callback
//
// # Outputs
//
//   - Result: Populated aggregate on success
//   - error: ErrNilOp, ErrNoTrials, or the op's error wrapped with the
//     failing trial index; on error the Result is the zero value
//
// # Examples
//
//	res, err := bench.Run("eager", func() error {
//	    df := frame.RangeFrame(500)
//	    _, err := frame.ApplyEager(df, steps)
//	    return err
//	}, bench.Options{Trials: 100000})
//
// # Limitations
//
//   - Wall-clock trials measure everything the op does, including
//     allocation and GC pauses landing inside the timed region. That
//     is intentional for end-to-end comparisons but makes single
//     samples noisy; compare means, not individual trials.
//
// # Assumptions
//
//   - op is deterministic enough that a mean is meaningful
//   - The caller does not mutate Result.Samples while reading Stats
func Run(name string, op Op, opts Options) (Result, error) {
	if op == nil {
		return Result{}, ErrNilOp
	}
	if opts.Trials <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrNoTrials, opts.Trials)
	}

	for i := 0; i < opts.Warmup; i++ {
		if err := op(); err != nil {
			return Result{}, fmt.Errorf("warmup %d of %d for %s: %w", i+1, opts.Warmup, name, err)
		}
	}

	var (
		total   time.Duration
		minimum time.Duration
		maximum time.Duration
		samples []time.Duration
	)
	if opts.KeepSamples {
		samples = make([]time.Duration, 0, opts.Trials)
	}

	for i := 0; i < opts.Trials; i++ {
		start := time.Now()
		err := op()
		elapsed := time.Since(start)
		if err != nil {
			return Result{}, fmt.Errorf("trial %d of %d for %s: %w", i+1, opts.Trials, name, err)
		}

		total += elapsed
		if i == 0 || elapsed < minimum {
			minimum = elapsed
		}
		if elapsed > maximum {
			maximum = elapsed
		}
		if opts.KeepSamples {
			samples = append(samples, elapsed)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, opts.Trials)
		}
	}

	res := Result{
		Name:    name,
		Trials:  opts.Trials,
		Total:   total,
		Mean:    total / time.Duration(opts.Trials),
		Min:     minimum,
		Max:     maximum,
		Samples: samples,
	}
	if total > 0 {
		res.OpsPerSecond = float64(opts.Trials) / total.Seconds()
	}
	return res, nil
}
