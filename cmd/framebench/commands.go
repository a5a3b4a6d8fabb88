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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/framebench/cmd/framebench/config"
	"github.com/AleutianAI/framebench/pkg/frame"
	"github.com/AleutianAI/framebench/pkg/ux"
)

// CLIVersion is the version reported by --version and the version
// subcommand.
const CLIVersion = "0.1.0"

// --- Global Command Variables ---
var (
	trialCount       int
	warmupCount      int
	rowCount         int
	thresholdValue   int
	stepNames        []string
	jsonOutput       bool
	statsOutput      bool
	configPath       string
	historyFilePath  string
	metricsFilePath  string
	traceFilePath    string
	historyLimit     int
	historyJSON      bool
	pruneOlderThan   time.Duration
	forceInit        bool
	logDir           string
	logLevelName     string // Minimum log level (debug/info/warn/error)
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	rootCmd = &cobra.Command{
		Use:   "framebench",
		Short: "Compare eager and lazy dataframe pipeline execution",
		Long: `Framebench measures what deferring dataframe work costs. It runs
				the same pipeline many times in two modes, applying each step
				immediately (eager) and recording steps to materialize at the end
				(lazy), then reports the mean wall-clock time per trial.

				Run with no arguments for the reference comparison: 100000 trials
				of a 500-row dataset filtered on a > 500.`,
		Version: CLIVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or terminal detection
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
		},
		Run: runBenchmark, // Defined in cmd_run.go
	}

	// --- Benchmark ---
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the eager vs. lazy benchmark",
		Run:   runBenchmark, // Defined in cmd_run.go
	}

	stepsCmd = &cobra.Command{
		Use:   "steps",
		Short: "List the available pipeline steps",
		Run:   runSteps, // Defined in cmd_steps.go
	}

	// --- History ---
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show past runs recorded with --history-file",
		Run:   runHistory, // Defined in cmd_history.go
	}

	// --- Setup ---
	initCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented default config file",
		Args:  cobra.MaximumNArgs(1),
		Run:   runInit, // Defined in cmd_init.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the framebench version",
		Run:   runVersion, // Defined in cmd_version.go
	}
)

// init runs when the Go program starts
func init() {
	defaults := config.Default()

	// Global UX personality flag
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default on a terminal), standard, minimal, or machine (scripting)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Also write JSON logs to files in this directory")
	rootCmd.PersistentFlags().StringVar(&logLevelName, "log-level", "",
		"Minimum log level: debug, info, warn, or error")

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&trialCount, "trials", "n", defaults.Benchmark.Trials,
		"Number of measured trials per variant")
	runCmd.Flags().IntVar(&warmupCount, "warmup", defaults.Benchmark.Warmup,
		"Unmeasured trials to run before measurement begins")
	runCmd.Flags().IntVar(&rowCount, "rows", defaults.Benchmark.Rows,
		"Rows in the dataset constructed for every trial")
	runCmd.Flags().IntVar(&thresholdValue, "threshold", defaults.Benchmark.Threshold,
		"Filter keeps rows where column a exceeds this value")
	runCmd.Flags().StringSliceVar(&stepNames, "steps", frame.DefaultStepNames(),
		"Pipeline steps to run (filter, with_columns, group_by_agg)")
	runCmd.Flags().BoolVar(&jsonOutput, "json", defaults.Output.JSON,
		"Emit a JSON report on stdout instead of the two-line format")
	runCmd.Flags().BoolVar(&statsOutput, "stats", defaults.Output.Stats,
		"Print min/max/throughput and a confidence interval to stderr")
	runCmd.Flags().StringVar(&configPath, "config", "",
		"Load benchmark parameters from this YAML file")
	runCmd.Flags().StringVar(&historyFilePath, "history-file", "",
		"Append the run record to this JSONL file")
	runCmd.Flags().StringVar(&metricsFilePath, "metrics-file", "",
		"Write Prometheus textfile metrics to this path")
	runCmd.Flags().StringVar(&traceFilePath, "trace-file", "",
		"Write OpenTelemetry span JSON to this path")

	rootCmd.AddCommand(stepsCmd)

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyFilePath, "history-file", "",
		"The JSONL file runs were recorded to")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0,
		"Show at most this many records, newest first (0 shows all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false,
		"Emit records as JSON on stdout")
	historyCmd.Flags().DurationVar(&pruneOlderThan, "prune", 0,
		"Instead of listing, delete records older than this (e.g. 720h)")

	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&forceInit, "force", false,
		"Overwrite the config file if it already exists")

	rootCmd.AddCommand(versionCmd)
}
