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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/framebench/pkg/frame"
	"github.com/AleutianAI/framebench/pkg/ux"
)

// runSteps lists every pipeline step with its default state. The
// listing is tab-separated data on stdout so it pipes cleanly; any
// decoration stays on stderr.
func runSteps(cmd *cobra.Command, args []string) {
	defaults := make(map[string]bool)
	for _, name := range frame.DefaultStepNames() {
		defaults[name] = true
	}

	if ux.GetPersonality().Level == ux.PersonalityFull {
		ux.Title("Pipeline Steps")
		ux.Muted("Pass --steps to the run command to change the roster")
	}

	for _, name := range frame.KnownStepNames() {
		state := "optional"
		if defaults[name] {
			state = "default"
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", name, state, stepDescription(name))
	}
}

// stepDescription is the one-line summary shown by the steps listing
// and the run preamble.
func stepDescription(name string) string {
	switch frame.StepKind(name) {
	case frame.KindFilter:
		return "keep rows where a exceeds the threshold"
	case frame.KindWithColumn:
		return "alias column b as b_double"
	case frame.KindGroupByAgg:
		return "group by a, mean of b"
	default:
		return ""
	}
}
