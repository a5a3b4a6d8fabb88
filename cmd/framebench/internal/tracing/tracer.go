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
Package tracing provides OpenTelemetry span export for benchmark runs.

Two implementations share one interface:

  - NoOpTracer: generates valid W3C trace IDs for log correlation but
    exports nothing. The default; a bare run touches no files.
  - FileTracer: a real OTel SDK TracerProvider whose exporter writes
    span JSON to a local file. Opted into with --trace-file.

A benchmark CLI has no collector to ship spans to, so the file exporter
replaces the usual OTLP endpoint: the span timeline of a run lands next
to the results where it can be inspected or diffed.

Spans wrap whole run phases, never individual trials. Starting a span
inside the measured region would bill exporter overhead to the
operation under test.

# Trace ID Format

Both implementations produce W3C-compatible 32-character hex trace IDs
and 16-character hex span IDs.
*/
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// -----------------------------------------------------------------------------
// Tracer Interface
// -----------------------------------------------------------------------------

// Tracer abstracts span creation so the run path works identically
// whether spans are exported or discarded.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
type Tracer interface {
	// StartSpan opens a span with the given name and attributes.
	//
	// # Inputs
	//
	//   - ctx: Parent context (may carry an enclosing span)
	//   - name: Span name (e.g., "framebench.run")
	//   - attrs: String attributes to attach
	//
	// # Outputs
	//
	//   - context.Context: Context carrying the span for child spans
	//   - func(error): End the span; pass nil for success
	//
	// # Examples
	//
	//	ctx, finish := tracer.StartSpan(ctx, "framebench.run", nil)
	//	defer finish(nil)
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, func(error))

	// AddAttributes attaches attributes to the span in ctx. Results
	// computed after StartSpan (a mean, a sample count) go on the span
	// this way before its finish func runs.
	AddAttributes(ctx context.Context, attrs map[string]string)

	// GetTraceID returns the 32-character hex trace ID from the
	// context, or an empty string when no span is active.
	GetTraceID(ctx context.Context) string

	// Shutdown flushes pending spans and releases resources. Call it
	// before exit; the file exporter only guarantees complete output
	// after Shutdown returns.
	Shutdown(ctx context.Context) error
}

// -----------------------------------------------------------------------------
// NoOpTracer
// -----------------------------------------------------------------------------

// NoOpTracer satisfies Tracer without exporting anything.
//
// It still generates cryptographically random IDs so a run can be
// correlated across log lines even when tracing is off.
type NoOpTracer struct{}

// NewNoOpTracer creates the default, non-exporting tracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

type noOpTraceIDKey struct{}

// StartSpan stores a fresh trace ID in the context and nothing else.
func (t *NoOpTracer) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, func(error)) {
	// Reuse the enclosing ID so nested spans correlate
	if _, ok := ctx.Value(noOpTraceIDKey{}).(string); !ok {
		ctx = context.WithValue(ctx, noOpTraceIDKey{}, newHexID(16))
	}
	return ctx, func(err error) {}
}

// AddAttributes discards the attributes.
func (t *NoOpTracer) AddAttributes(ctx context.Context, attrs map[string]string) {}

// GetTraceID returns the ID stored by StartSpan.
func (t *NoOpTracer) GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(noOpTraceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Shutdown has nothing to flush.
func (t *NoOpTracer) Shutdown(ctx context.Context) error {
	return nil
}

// newHexID returns n random bytes hex-encoded, falling back to a
// timestamp when entropy is unavailable.
func newHexID(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%016x%016x", time.Now().UnixNano(), os.Getpid())[:n*2]
	}
	return hex.EncodeToString(bytes)
}

// -----------------------------------------------------------------------------
// FileTracer
// -----------------------------------------------------------------------------

// FileTracer exports spans to a local file through the OTel SDK.
//
// # Description
//
// Wraps a real TracerProvider whose exporter serializes each span as
// JSON to the configured file. Spans batch in memory; Shutdown flushes
// them and closes the file.
//
// # Thread Safety
//
// Safe for concurrent use.
type FileTracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	file     *os.File
}

// FileTracerConfig configures the file-exporting tracer.
type FileTracerConfig struct {
	// Path is where span JSON is written. The file is truncated.
	Path string

	// ServiceName identifies the process in span resources.
	// Default: "framebench"
	ServiceName string

	// ServiceVersion is recorded on the span resource.
	ServiceVersion string
}

// NewFileTracer creates a tracer exporting spans to config.Path.
//
// # Inputs
//
//   - ctx: Context for resource detection
//   - config: File path and service identity
//
// # Outputs
//
//   - *FileTracer: Ready-to-use tracer
//   - error: If the file or exporter cannot be created
//
// # Examples
//
//	tracer, err := tracing.NewFileTracer(ctx, tracing.FileTracerConfig{
//	    Path: "trace.json",
//	})
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
func NewFileTracer(ctx context.Context, config FileTracerConfig) (*FileTracer, error) {
	if config.ServiceName == "" {
		config.ServiceName = "framebench"
	}

	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	// One JSON object per line, same shape the history sink uses
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	return &FileTracer{
		tracer:   provider.Tracer(config.ServiceName),
		provider: provider,
		file:     file,
	}, nil
}

// StartSpan creates an exported span with the given attributes.
func (t *FileTracer) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, func(error)) {
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(otelAttrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	finish := func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
	return ctx, finish
}

// AddAttributes attaches string attributes to the span in ctx. A
// context without a span gets a no-op span, so this is always safe.
func (t *FileTracer) AddAttributes(ctx context.Context, attrs map[string]string) {
	span := trace.SpanFromContext(ctx)
	for k, v := range attrs {
		span.SetAttributes(attribute.String(k, v))
	}
}

// GetTraceID extracts the trace ID from the span in context.
func (t *FileTracer) GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// Shutdown flushes batched spans and closes the trace file.
func (t *FileTracer) Shutdown(ctx context.Context) error {
	err := t.provider.Shutdown(ctx)
	if closeErr := t.file.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}
