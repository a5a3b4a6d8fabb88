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
	"testing"
)

// TestDefault verifies the reference benchmark shape.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Benchmark.Trials != 100000 {
		t.Errorf("Trials = %d, want 100000", cfg.Benchmark.Trials)
	}
	if cfg.Benchmark.Warmup != 0 {
		t.Errorf("Warmup = %d, want 0", cfg.Benchmark.Warmup)
	}
	if cfg.Benchmark.Rows != 500 {
		t.Errorf("Rows = %d, want 500", cfg.Benchmark.Rows)
	}
	if cfg.Benchmark.Threshold != 500 {
		t.Errorf("Threshold = %d, want 500", cfg.Benchmark.Threshold)
	}
	if len(cfg.Benchmark.Steps) != 1 || cfg.Benchmark.Steps[0] != "filter" {
		t.Errorf("Steps = %v, want [filter]", cfg.Benchmark.Steps)
	}
	if cfg.Output.JSON || cfg.Output.Stats {
		t.Errorf("Output = %+v, want plain two-line default", cfg.Output)
	}
	if cfg.Sinks.HistoryFile != "" || cfg.Sinks.MetricsFile != "" || cfg.Sinks.TraceFile != "" {
		t.Errorf("Sinks = %+v, want all off by default", cfg.Sinks)
	}
}

// TestDefault_Validates verifies the default passes its own checks.
func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got: %v", err)
	}
}

// TestValidate_StepNames verifies the step whitelist.
func TestValidate_StepNames(t *testing.T) {
	tests := []struct {
		name    string
		steps   []string
		wantErr bool
	}{
		{"empty", nil, false},
		{"filter only", []string{"filter"}, false},
		{"all known", []string{"filter", "with_columns", "group_by_agg"}, false},
		{"unknown", []string{"pivot"}, true},
		{"mixed", []string{"filter", "pivot"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Benchmark.Steps = tt.steps
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Validate() should reject steps %v", tt.steps)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() rejected valid steps %v: %v", tt.steps, err)
			}
		})
	}
}

// TestValidate_TrialBounds verifies trial count constraints.
func TestValidate_TrialBounds(t *testing.T) {
	cfg := Default()
	cfg.Benchmark.Trials = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject zero trials")
	}

	cfg.Benchmark.Trials = 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should allow one trial: %v", err)
	}
}
