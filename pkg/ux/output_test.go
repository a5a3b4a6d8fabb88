// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// withPersonality runs f under the given level, restoring afterwards.
func withPersonality(level PersonalityLevel, f func()) {
	old := GetPersonality()
	SetPersonalityLevel(level)
	defer SetPersonality(old)
	f()
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render_Success(t *testing.T) {
	result := IconSuccess.Render()
	if !strings.Contains(result, "✓") {
		t.Errorf("expected checkmark in %q", result)
	}
}

func TestIcon_Render_Warning(t *testing.T) {
	result := IconWarning.Render()
	if !strings.Contains(result, "⚠") {
		t.Errorf("expected warning sign in %q", result)
	}
}

func TestIcon_Render_Error(t *testing.T) {
	result := IconError.Render()
	if !strings.Contains(result, "✗") {
		t.Errorf("expected cross in %q", result)
	}
}

func TestIcon_Render_Default(t *testing.T) {
	result := IconArrow.Render()
	if result != "→" {
		t.Errorf("expected plain arrow, got %q", result)
	}
}

// =============================================================================
// Stream Discipline Tests
// =============================================================================

// Every helper must leave stdout untouched; the benchmark result
// contract owns that stream.
func TestHelpers_NeverWriteToStdout(t *testing.T) {
	for _, level := range []PersonalityLevel{PersonalityFull, PersonalityMinimal, PersonalityMachine} {
		t.Run(string(level), func(t *testing.T) {
			out := captureStdout(func() {
				captureStderr(func() {
					withPersonality(level, func() {
						Title("title")
						Success("success")
						Warning("warning")
						Error("error")
						Info("info")
						Muted("muted")
						Box("box", "content")
						KeyValue("key", "value")
						StepStatus("filter", true, "keep rows above threshold")
						VariantSummary("eager", time.Millisecond, 100)
					})
				})
			})
			if out != "" {
				t.Errorf("stdout contaminated in %s mode: %q", level, out)
			}
		})
	}
}

// =============================================================================
// Message Helper Tests
// =============================================================================

func TestTitle_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Title("Benchmark") })
	})
	if output != "" {
		t.Errorf("machine mode should suppress titles, got %q", output)
	}
}

func TestTitle_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() { Title("Benchmark") })
	})
	if !strings.Contains(output, "Benchmark") {
		t.Errorf("expected title text in %q", output)
	}
}

func TestSuccess_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Success("run complete") })
	})
	if output != "OK: run complete\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestSuccess_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() { Success("run complete") })
	})
	if !strings.Contains(output, "run complete") || !strings.Contains(output, "✓") {
		t.Errorf("expected styled success in %q", output)
	}
}

func TestWarning_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Warning("low sample count") })
	})
	if output != "WARN: low sample count\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestError_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Error("trial failed") })
	})
	if output != "ERROR: trial failed\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestError_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() { Error("trial failed") })
	})
	if !strings.Contains(output, "trial failed") || !strings.Contains(output, "✗") {
		t.Errorf("expected styled error in %q", output)
	}
}

func TestInfo_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Info("100000 trials per variant") })
	})
	if output != "100000 trials per variant\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestMuted_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Muted("aside") })
	})
	if output != "" {
		t.Errorf("machine mode should suppress muted text, got %q", output)
	}
}

func TestBox_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { Box("Results", "eager faster") })
	})
	if output != "Results: eager faster\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestBox_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() { Box("Results", "eager faster") })
	})
	if !strings.Contains(output, "Results") || !strings.Contains(output, "eager faster") {
		t.Errorf("expected boxed content in %q", output)
	}
}

func TestKeyValue_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() { KeyValue("trials", "100000") })
	})
	if output != "trials=100000\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestKeyValue_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() { KeyValue("trials", "100000") })
	})
	if !strings.Contains(output, "trials:") || !strings.Contains(output, "100000") {
		t.Errorf("expected labeled value in %q", output)
	}
}

// =============================================================================
// StepStatus Tests
// =============================================================================

func TestStepStatus_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() {
			StepStatus("filter", true, "keep rows above threshold")
		})
	})
	if output != "filter\tenabled\tkeep rows above threshold\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestStepStatus_MachineMode_Disabled(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() {
			StepStatus("group_by_agg", false, "per-group mean")
		})
	})
	if output != "group_by_agg\tdisabled\tper-group mean\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestStepStatus_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() {
			StepStatus("filter", true, "keep rows above threshold")
		})
	})
	if !strings.Contains(output, "filter") || !strings.Contains(output, "✓") {
		t.Errorf("expected enabled icon in %q", output)
	}
}

func TestStepStatus_FullMode_NoDescription(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() { StepStatus("filter", false, "") })
	})
	if !strings.Contains(output, "filter") || !strings.Contains(output, "○") {
		t.Errorf("expected disabled icon in %q", output)
	}
	if strings.Contains(output, "(") {
		t.Errorf("unexpected empty description parens in %q", output)
	}
}

// =============================================================================
// VariantSummary Tests
// =============================================================================

func TestVariantSummary_MachineMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityMachine, func() {
			VariantSummary("eager", 1500*time.Microsecond, 100000)
		})
	})
	if output != "SUMMARY: variant=eager mean=1.5ms trials=100000\n" {
		t.Errorf("unexpected machine output %q", output)
	}
}

func TestVariantSummary_FullMode(t *testing.T) {
	output := captureStderr(func() {
		withPersonality(PersonalityFull, func() {
			VariantSummary("lazy", time.Millisecond, 500)
		})
	})
	for _, want := range []string{"lazy", "1ms", "500"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}
}

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBar_MachineMode(t *testing.T) {
	withPersonality(PersonalityMachine, func() {
		bar := ProgressBar(5, 10, 20)
		if bar != "5/10" {
			t.Errorf("expected plain counter, got %q", bar)
		}
	})
}

func TestProgressBar_FullMode_HalfFull(t *testing.T) {
	withPersonality(PersonalityFull, func() {
		bar := ProgressBar(5, 10, 20)
		if !strings.Contains(bar, "50%") {
			t.Errorf("expected 50%% in %q", bar)
		}
	})
}

func TestProgressBar_FullMode_Full(t *testing.T) {
	withPersonality(PersonalityFull, func() {
		bar := ProgressBar(10, 10, 20)
		if !strings.Contains(bar, "100%") {
			t.Errorf("expected 100%% in %q", bar)
		}
	})
}

// =============================================================================
// repeatChar Tests
// =============================================================================

func TestRepeatChar(t *testing.T) {
	tests := []struct {
		c    rune
		n    int
		want string
	}{
		{'x', 3, "xxx"},
		{'x', 0, ""},
		{'x', -1, ""},
		{'█', 2, "██"},
	}

	for _, tt := range tests {
		got := repeatChar(tt.c, tt.n)
		if got != tt.want {
			t.Errorf("repeatChar(%q, %d) = %q, want %q", tt.c, tt.n, got, tt.want)
		}
	}
}
