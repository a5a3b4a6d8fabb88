// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got := tt.level.toSlogLevel()
			if got != tt.want {
				t.Errorf("toSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.name)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLevel_Constants(t *testing.T) {
	// Ordering matters for filtering; Debug must be lowest.
	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Error("log levels are not strictly ordered")
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{})
	defer logger.Close()

	if logger == nil {
		t.Fatal("New returned nil")
	}
	if logger.slog == nil {
		t.Error("underlying slog.Logger is nil")
	}
}

func TestNew_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	defer logger.Close()

	logger.Info("trial batch complete", "variant", "eager")

	out := buf.String()
	if !strings.Contains(out, "trial batch complete") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "variant=eager") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestNew_WithService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Service: "framebench"})
	defer logger.Close()

	logger.Info("hello")

	if !strings.Contains(buf.String(), "service=framebench") {
		t.Errorf("output missing service attribute: %q", buf.String())
	}
}

func TestNew_WithJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, JSON: true})
	defer logger.Close()

	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestNew_QuietMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Quiet: true})
	defer logger.Close()

	logger.Info("should not appear")
	logger.Error("should not appear either")

	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestNew_WithLogDir(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Service: "bench", Quiet: true})

	logger.Info("persist me", "run_id", "abc123")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	filename := "bench_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file is not JSON: %v", err)
	}
	if entry["msg"] != "persist me" {
		t.Errorf("msg = %v, want persist me", entry["msg"])
	}
	if entry["run_id"] != "abc123" {
		t.Errorf("run_id = %v, want abc123", entry["run_id"])
	}
	if entry["service"] != "bench" {
		t.Errorf("service = %v, want bench", entry["service"])
	}
}

func TestNew_WithLogDir_DefaultServiceName(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Quiet: true})

	logger.Info("hello")
	logger.Close()

	filename := "framebench_" + time.Now().Format("2006-01-02") + ".log"
	if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
		t.Errorf("expected log file %s: %v", filename, err)
	}
}

func TestNew_WithLogDir_InvalidPath(t *testing.T) {
	// A file, not a directory; MkdirAll fails and file logging is
	// skipped without failing the program.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := New(Config{LogDir: filepath.Join(blocker, "logs"), Output: &buf})
	defer logger.Close()

	logger.Info("still works")
	if !strings.Contains(buf.String(), "still works") {
		t.Error("stream output lost when file logging failed")
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	defer logger.Close()

	if logger.config.Level != LevelInfo {
		t.Errorf("Default level = %v, want Info", logger.config.Level)
	}
	if logger.config.Service != "framebench" {
		t.Errorf("Default service = %q, want framebench", logger.config.Service)
	}
}

// =============================================================================
// Logging Method Tests
// =============================================================================

func TestLogger_LevelMethods(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *Logger)
		want string
	}{
		{"debug", func(l *Logger) { l.Debug("msg-debug") }, "msg-debug"},
		{"info", func(l *Logger) { l.Info("msg-info") }, "msg-info"},
		{"warn", func(l *Logger) { l.Warn("msg-warn") }, "msg-warn"},
		{"error", func(l *Logger) { l.Error("msg-error") }, "msg-error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Output: &buf, Level: LevelDebug})
			defer logger.Close()

			tt.log(logger)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Level: LevelWarn})
	defer logger.Close()

	logger.Debug("filtered")
	logger.Info("filtered")
	logger.Warn("kept-warn")
	logger.Error("kept-error")

	out := buf.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("below-threshold messages leaked: %q", out)
	}
	if !strings.Contains(out, "kept-warn") || !strings.Contains(out, "kept-error") {
		t.Errorf("above-threshold messages missing: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	defer logger.Close()

	child := logger.With("run_id", "r1")
	child.Info("child message")

	if !strings.Contains(buf.String(), "run_id=r1") {
		t.Errorf("child attribute missing: %q", buf.String())
	}

	buf.Reset()
	logger.Info("parent message")
	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("parent gained child attribute: %q", buf.String())
	}
}

func TestLogger_Slog(t *testing.T) {
	logger := New(Config{})
	defer logger.Close()

	if logger.Slog() == nil {
		t.Error("Slog() returned nil")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestLogger_Close_NoResources(t *testing.T) {
	logger := New(Config{})
	if err := logger.Close(); err != nil {
		t.Errorf("Close without file returned %v", err)
	}
}

func TestLogger_Close_Idempotent(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Quiet: true})
	logger.Info("hello")

	if err := logger.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestLogger_ConcurrentUse(t *testing.T) {
	var buf syncBuffer
	logger := New(Config{Output: &buf})
	defer logger.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.Info("concurrent", "goroutine", n, "iteration", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Count(buf.String(), "\n")
	if lines != 200 {
		t.Errorf("expected 200 log lines, got %d", lines)
	}
}

// syncBuffer is a goroutine-safe bytes.Buffer for concurrency tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// =============================================================================
// MultiHandler Tests
// =============================================================================

func TestMultiHandler_Enabled(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled should be true when any handler accepts the level")
	}
}

func TestMultiHandler_Enabled_NoneEnabled(t *testing.T) {
	var a bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled should be false when no handler accepts the level")
	}
}

func TestMultiHandler_Handle_LevelFiltering(t *testing.T) {
	var strict, loose bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&strict, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&loose, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "info message", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if strict.Len() != 0 {
		t.Errorf("error-level handler received info record: %q", strict.String())
	}
	if !strings.Contains(loose.String(), "info message") {
		t.Errorf("debug-level handler missing record: %q", loose.String())
	}
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	}}

	derived := h.WithAttrs([]slog.Attr{slog.String("k", "v")})
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := derived.Handle(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	for name, buf := range map[string]*bytes.Buffer{"first": &a, "second": &b} {
		if !strings.Contains(buf.String(), "k=v") {
			t.Errorf("%s handler missing attribute: %q", name, buf.String())
		}
	}
}

func TestMultiHandler_WithGroup(t *testing.T) {
	var a bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{slog.NewTextHandler(&a, nil)}}

	derived := h.WithGroup("grp")
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	r.AddAttrs(slog.String("k", "v"))
	if err := derived.Handle(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(a.String(), "grp.k=v") {
		t.Errorf("grouped attribute missing: %q", a.String())
	}
}

func TestMultiHandler_Empty(t *testing.T) {
	h := &multiHandler{}
	if h.Enabled(context.Background(), slog.LevelError) {
		t.Error("empty multiHandler should not be enabled")
	}
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Errorf("empty multiHandler Handle: %v", err)
	}
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/logs", filepath.Join(home, "logs")},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := expandPath(tt.in)
			if got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
