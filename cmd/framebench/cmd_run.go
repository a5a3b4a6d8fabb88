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
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/framebench/cmd/framebench/config"
	"github.com/AleutianAI/framebench/cmd/framebench/internal/tracing"
	"github.com/AleutianAI/framebench/pkg/bench"
	"github.com/AleutianAI/framebench/pkg/frame"
	"github.com/AleutianAI/framebench/pkg/history"
	"github.com/AleutianAI/framebench/pkg/logging"
	"github.com/AleutianAI/framebench/pkg/ux"
)

// runBenchmark executes the eager-then-lazy comparison. Both the bare
// root invocation and the run subcommand land here; the root has no
// run flags, so it always measures with the reference parameters.
func runBenchmark(cmd *cobra.Command, args []string) {
	logger := newRunLogger()

	cfg, err := mergedConfig(cmd)
	if err != nil {
		failRun(logger, nil, err)
	}

	pipeline := frame.DefaultPipeline()
	pipeline.Threshold = cfg.Benchmark.Threshold
	steps, err := pipeline.Build(cfg.Benchmark.Steps)
	if err != nil {
		failRun(logger, nil, err)
	}

	tracer, err := newRunTracer(cfg)
	if err != nil {
		failRun(logger, nil, err)
	}

	ctx, finishRun := tracer.StartSpan(context.Background(), "framebench.run", map[string]string{
		"trials": strconv.Itoa(cfg.Benchmark.Trials),
		"rows":   strconv.Itoa(cfg.Benchmark.Rows),
		"steps":  strings.Join(cfg.Benchmark.Steps, ","),
	})

	printPreamble(cfg, steps)
	logger.Debug("benchmark starting",
		"trials", cfg.Benchmark.Trials,
		"rows", cfg.Benchmark.Rows,
		"trace_id", tracer.GetTraceID(ctx))

	// Stats and the metrics histogram both need per-trial samples
	keepSamples := cfg.Output.Stats || cfg.Sinks.MetricsFile != ""
	startedAt := time.Now().UTC()

	variants := []struct {
		name string
		op   bench.Op
	}{
		{"eager", frame.EagerOp(cfg.Benchmark.Rows, steps)},
		{"lazy", frame.LazyOp(cfg.Benchmark.Rows, steps)},
	}

	results := make([]bench.Result, 0, len(variants))
	for _, variant := range variants {
		vctx, finishVariant := tracer.StartSpan(ctx, "framebench.variant", map[string]string{
			"variant": variant.name,
			"trials":  strconv.Itoa(cfg.Benchmark.Trials),
		})

		res, err := runVariant(variant.name, variant.op, cfg, keepSamples)
		if err != nil {
			finishVariant(err)
			finishRun(err)
			failRun(logger, tracer, err)
		}

		tracer.AddAttributes(vctx, map[string]string{
			"mean_seconds": fmt.Sprintf("%.9f", res.Seconds()),
		})
		finishVariant(nil)

		logger.Debug("variant complete",
			"variant", res.Name,
			"mean_seconds", res.Seconds(),
			"trials", res.Trials)
		results = append(results, res)
	}
	finishRun(nil)

	eager, lazy := results[0], results[1]

	if cfg.Output.JSON {
		if err := writeJSONReport(os.Stdout, newRunReport(cfg, startedAt, results)); err != nil {
			failRun(logger, tracer, err)
		}
	} else {
		printReference(os.Stdout, eager, lazy)
	}

	if cfg.Output.Stats {
		if err := writeStatsSummary(os.Stderr, results); err != nil {
			failRun(logger, tracer, err)
		}
	}

	printSummary(eager, lazy)

	if err := writeSinks(cfg, startedAt, results, logger); err != nil {
		failRun(logger, tracer, err)
	}

	if err := tracer.Shutdown(context.Background()); err != nil {
		failRun(logger, nil, fmt.Errorf("failed to flush trace file: %w", err))
	}
	logger.Close()
}

// mergedConfig resolves the effective parameters: built-in defaults,
// overlaid by --config when given, overlaid by any flag the user set
// explicitly. An untouched flag never shadows a file value.
func mergedConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Benchmark.Trials = trialCount
	}
	if flags.Changed("warmup") {
		cfg.Benchmark.Warmup = warmupCount
	}
	if flags.Changed("rows") {
		cfg.Benchmark.Rows = rowCount
	}
	if flags.Changed("threshold") {
		cfg.Benchmark.Threshold = thresholdValue
	}
	if flags.Changed("steps") {
		cfg.Benchmark.Steps = stepNames
	}
	if flags.Changed("json") {
		cfg.Output.JSON = jsonOutput
	}
	if flags.Changed("stats") {
		cfg.Output.Stats = statsOutput
	}
	if flags.Changed("history-file") {
		cfg.Sinks.HistoryFile = historyFilePath
	}
	if flags.Changed("metrics-file") {
		cfg.Sinks.MetricsFile = metricsFilePath
	}
	if flags.Changed("trace-file") {
		cfg.Sinks.TraceFile = traceFilePath
	}
	return cfg, nil
}

// newRunLogger builds the stderr logger. Machine personality raises
// the default floor to warnings so scripted runs stay quiet, but an
// explicit --log-level always wins.
func newRunLogger() *logging.Logger {
	level := logging.LevelInfo
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		level = logging.LevelWarn
	}
	if logLevelName != "" {
		level = logging.ParseLevel(logLevelName)
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  logDir,
		Service: "framebench",
	})
}

// newRunTracer picks the span destination: discard by default, the
// OTel file exporter when --trace-file is set.
func newRunTracer(cfg config.Config) (tracing.Tracer, error) {
	if cfg.Sinks.TraceFile == "" {
		return tracing.NewNoOpTracer(), nil
	}
	return tracing.NewFileTracer(context.Background(), tracing.FileTracerConfig{
		Path:           cfg.Sinks.TraceFile,
		ServiceVersion: CLIVersion,
	})
}

// runVariant measures one variant, drawing a throttled progress line
// when the personality allows it.
func runVariant(name string, op bench.Op, cfg config.Config, keepSamples bool) (bench.Result, error) {
	opts := bench.Options{
		Trials:      cfg.Benchmark.Trials,
		Warmup:      cfg.Benchmark.Warmup,
		KeepSamples: keepSamples,
	}

	if !ux.ShouldShowProgress() {
		return bench.Run(name, op, opts)
	}

	spinner := ux.NewProgressSpinner(fmt.Sprintf("running %s trials", name), opts.Trials)
	spinner.Start()

	// Redraw at ~1% increments; 100k trials must not spend their
	// wall-clock repainting the terminal
	stride := opts.Trials / 100
	if stride < 1 {
		stride = 1
	}
	opts.OnProgress = func(done, total int) {
		if done%stride == 0 || done == total {
			spinner.SetProgress(done)
		}
	}

	res, err := bench.Run(name, op, opts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("%s trials failed", name))
		return bench.Result{}, err
	}
	spinner.Stop()
	return res, nil
}

// printPreamble shows the run parameters and the step roster before
// measurement. Full personality only; everything here is decoration.
func printPreamble(cfg config.Config, steps []frame.Step) {
	if ux.GetPersonality().Level != ux.PersonalityFull {
		return
	}

	ux.Title("Framebench")
	ux.KeyValue("trials", strconv.Itoa(cfg.Benchmark.Trials))
	ux.KeyValue("rows", strconv.Itoa(cfg.Benchmark.Rows))
	ux.KeyValue("threshold", strconv.Itoa(cfg.Benchmark.Threshold))
	if cfg.Benchmark.Warmup > 0 {
		ux.KeyValue("warmup", strconv.Itoa(cfg.Benchmark.Warmup))
	}

	enabled := make(map[string]bool, len(steps))
	for _, s := range steps {
		enabled[s.Name()] = true
	}
	for _, name := range frame.KnownStepNames() {
		ux.StepStatus(name, enabled[name], stepDescription(name))
	}
}

// printSummary shows the styled per-variant recap after the results
// have gone to stdout.
func printSummary(eager, lazy bench.Result) {
	if ux.GetPersonality().Level != ux.PersonalityFull {
		return
	}

	ux.VariantSummary(eager.Name, eager.Mean, eager.Trials)
	ux.VariantSummary(lazy.Name, lazy.Mean, lazy.Trials)
	if line := comparisonLine(eager, lazy); line != "" {
		ux.Box("Comparison", line)
	}
}

// writeSinks persists the run to every explicitly requested
// destination. A sink the user asked for that cannot be written is an
// error, not a shrug.
func writeSinks(cfg config.Config, startedAt time.Time, results []bench.Result, logger *logging.Logger) error {
	if cfg.Sinks.HistoryFile != "" {
		store := history.NewStore(cfg.Sinks.HistoryFile)
		rec := history.RunRecord{
			Timestamp: startedAt,
			Trials:    cfg.Benchmark.Trials,
			Rows:      cfg.Benchmark.Rows,
			Steps:     cfg.Benchmark.Steps,
		}
		for _, res := range results {
			rec.Results = append(rec.Results, history.Variant(res))
		}
		if err := store.Append(rec); err != nil {
			return err
		}
		logger.Debug("run recorded", "history_file", store.Path())
	}

	if cfg.Sinks.MetricsFile != "" {
		if err := writeMetricsFile(cfg.Sinks.MetricsFile, results); err != nil {
			return err
		}
		logger.Debug("metrics written", "metrics_file", cfg.Sinks.MetricsFile)
	}
	return nil
}

// failRun reports the error on stderr and exits non-zero. The tracer,
// when present, is shut down so already-finished spans still flush.
func failRun(logger *logging.Logger, tracer tracing.Tracer, err error) {
	ux.Error(err.Error())
	logger.Error("run failed", "error", err)
	logger.Close()
	if tracer != nil {
		tracer.Shutdown(context.Background())
	}
	os.Exit(1)
}
