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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/framebench/pkg/history"
	"github.com/AleutianAI/framebench/pkg/ux"
)

// runHistory lists or prunes records from a history file. Record lines
// go to stdout; warnings and confirmations go to stderr.
func runHistory(cmd *cobra.Command, args []string) {
	if historyFilePath == "" {
		ux.Error("history needs --history-file (runs are never recorded implicitly)")
		os.Exit(1)
	}

	store := history.NewStore(historyFilePath)

	if cmd.Flags().Changed("prune") {
		removed, err := store.Prune(pruneOlderThan)
		if err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		ux.Success(fmt.Sprintf("pruned %d records from %s", removed, store.Path()))
		return
	}

	records, skipped, err := store.List()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	if skipped > 0 {
		ux.Warning(fmt.Sprintf("skipped %d corrupt history lines", skipped))
	}
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[:historyLimit]
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			ux.Error(fmt.Sprintf("failed to encode history: %v", err))
			os.Exit(1)
		}
		return
	}

	if len(records) == 0 {
		ux.Info("no recorded runs")
		return
	}
	for _, rec := range records {
		fmt.Fprintln(os.Stdout, formatHistoryLine(rec))
	}
}

// formatHistoryLine renders one run as a single greppable line.
func formatHistoryLine(rec history.RunRecord) string {
	return fmt.Sprintf("%s  trials=%d rows=%d steps=%s eager=%s lazy=%s  %s",
		rec.Timestamp.Format(time.RFC3339), rec.Trials, rec.Rows,
		strings.Join(rec.Steps, ","),
		variantMean(rec, "eager"), variantMean(rec, "lazy"), rec.ID)
}

// variantMean formats the named variant's mean, or "-" when the record
// does not carry that variant.
func variantMean(rec history.RunRecord, name string) string {
	for _, v := range rec.Results {
		if v.Name == name {
			return fmt.Sprintf("%.6fs", v.MeanSeconds)
		}
	}
	return "-"
}
