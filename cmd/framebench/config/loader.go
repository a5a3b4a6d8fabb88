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
Package config loads the benchmark's YAML configuration.

# Design Rationale

A benchmark must be reproducible from its command line alone, so there
is no implicit config path, no home-directory dotfile, and no
auto-creation on first run. Load only runs when the user names a file,
and a missing file is an error rather than an invitation to create one.
Partial files are fine: unmarshalling starts from Default(), so a file
that only sets benchmark.trials inherits everything else.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates the config file at path.
//
// The returned config starts from Default(), so absent keys keep their
// reference values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Write marshals the config to path, creating parent directories.
// Nothing calls this implicitly; settings only persist when a caller
// decides they should.
func Write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create the config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal the config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultYAML is the commented scaffold written by the init command.
// It must parse back to Default(); the loader tests hold it to that.
const DefaultYAML = `# framebench configuration
#
# Load with: framebench run --config <this file>
# Flags set explicitly on the command line override these values.

benchmark:
  # Measured trials per variant
  trials: 100000
  # Unmeasured trials before measurement begins
  warmup: 0
  # Rows in the dataset constructed inside every trial
  rows: 500
  # The filter step keeps rows where column a exceeds this
  threshold: 500
  # Pipeline steps, applied in order.
  # Known steps: filter, with_columns, group_by_agg
  steps:
    - filter

output:
  # Emit a JSON report on stdout instead of the two-line format
  json: false
  # Print extended statistics to stderr
  stats: false

# Sinks stay off until a path is set.
sinks:
  # Append each run to this JSONL file
  history_file: ""
  # Write Prometheus textfile metrics here
  metrics_file: ""
  # Write OpenTelemetry span JSON here
  trace_file: ""
`

// WriteDefault writes the commented scaffold to path, creating parent
// directories. Unlike Write, the output keeps its comments.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create the config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(DefaultYAML), 0o644)
}
