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

	"github.com/AleutianAI/framebench/cmd/framebench/config"
	"github.com/AleutianAI/framebench/pkg/ux"
)

// runInit scaffolds a commented config file at the given path. This is
// the only code path that ever writes configuration; the benchmark
// itself reads a file solely through an explicit --config.
func runInit(cmd *cobra.Command, args []string) {
	path := "framebench.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		ux.Error(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
		os.Exit(1)
	}

	if err := config.WriteDefault(path); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	ux.Success("wrote " + path)
	ux.Muted("Use it with: framebench run --config " + path)
}
