// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"github.com/go-playground/validator/v10"
)

// configValidate checks struct tags on loaded configs.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// Config is the full benchmark configuration.
//
// Every field mirrors a run flag. A config file never loads unless the
// user passes --config, and flags set explicitly on the command line
// win over file values.
type Config struct {
	// Benchmark controls the workload shape.
	Benchmark BenchmarkConfig `yaml:"benchmark"`

	// Output controls how results are reported.
	Output OutputConfig `yaml:"output"`

	// Sinks are optional places to persist run artifacts. Empty paths
	// mean the sink stays off.
	Sinks SinkConfig `yaml:"sinks"`
}

type BenchmarkConfig struct {
	// Trials is the per-variant trial count.
	Trials int `yaml:"trials" validate:"gt=0"`

	// Warmup runs before measurement begins. Not measured.
	Warmup int `yaml:"warmup" validate:"gte=0"`

	// Rows is the frame row count built inside each trial.
	Rows int `yaml:"rows" validate:"gte=0"`

	// Threshold is the filter step's comparison value.
	Threshold int `yaml:"threshold"`

	// Steps lists the pipeline steps to run, in order.
	Steps []string `yaml:"steps" validate:"omitempty,dive,oneof=filter with_columns group_by_agg"`
}

type OutputConfig struct {
	// JSON replaces the two-line result format with a JSON report.
	JSON bool `yaml:"json"`

	// Stats adds an extended statistics summary on stderr.
	Stats bool `yaml:"stats"`
}

type SinkConfig struct {
	// HistoryFile appends a JSONL run record after each run.
	HistoryFile string `yaml:"history_file,omitempty"`

	// MetricsFile writes a Prometheus textfile after each run.
	MetricsFile string `yaml:"metrics_file,omitempty"`

	// TraceFile writes OpenTelemetry spans for the run.
	TraceFile string `yaml:"trace_file,omitempty"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return configValidate.Struct(c)
}

// Default returns the reference benchmark configuration: 100000 trials
// over a 500-row frame with only the filter step enabled, plain
// two-line output, and every sink off.
func Default() Config {
	return Config{
		Benchmark: BenchmarkConfig{
			Trials:    100000,
			Warmup:    0,
			Rows:      500,
			Threshold: 500,
			Steps:     []string{"filter"},
		},
		Output: OutputConfig{
			JSON:  false,
			Stats: false,
		},
		Sinks: SinkConfig{},
	}
}
