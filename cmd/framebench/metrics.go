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
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AleutianAI/framebench/pkg/bench"
)

const (
	// metricsNamespace is the prefix for all framebench metrics.
	metricsNamespace = "framebench"

	// metricsSubsystem groups run-level metrics.
	metricsSubsystem = "run"
)

// benchMetrics holds the per-run Prometheus collectors. A one-shot CLI
// has no scrape endpoint, so the collectors live on a private registry
// that is serialized to a textfile when the run completes.
type benchMetrics struct {
	// trialsTotal counts completed measured trials per variant.
	trialsTotal *prometheus.CounterVec

	// trialDuration is the distribution of per-trial wall-clock
	// durations per variant.
	trialDuration *prometheus.HistogramVec

	// meanSeconds is the arithmetic mean trial duration per variant.
	meanSeconds *prometheus.GaugeVec
}

// newBenchMetrics registers the run collectors on the given registry.
func newBenchMetrics(reg prometheus.Registerer) *benchMetrics {
	factory := promauto.With(reg)

	return &benchMetrics{
		trialsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "trials_total",
				Help:      "Completed measured trials per variant.",
			},
			[]string{"variant"},
		),
		trialDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "trial_duration_seconds",
				Help:      "Wall-clock duration of individual trials.",
				// 1µs up to ~0.5s, covering sub-millisecond pipelines
				// and pathological outliers alike
				Buckets: prometheus.ExponentialBuckets(1e-6, 2, 20),
			},
			[]string{"variant"},
		),
		meanSeconds: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "mean_trial_seconds",
				Help:      "Arithmetic mean trial duration per variant.",
			},
			[]string{"variant"},
		),
	}
}

// observe records one variant's aggregate and every retained sample.
func (m *benchMetrics) observe(res bench.Result) {
	labels := prometheus.Labels{"variant": res.Name}
	m.trialsTotal.With(labels).Add(float64(res.Trials))
	m.meanSeconds.With(labels).Set(res.Seconds())
	for _, d := range res.Samples {
		m.trialDuration.With(labels).Observe(d.Seconds())
	}
}

// writeMetricsFile serializes the run's metrics to path in Prometheus
// textfile exposition format, suitable for the node_exporter textfile
// collector or offline diffing.
func writeMetricsFile(path string, results []bench.Result) error {
	reg := prometheus.NewRegistry()
	metrics := newBenchMetrics(reg)
	for _, res := range results {
		metrics.observe(res)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
