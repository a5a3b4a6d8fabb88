// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package frame

import (
	"github.com/AleutianAI/framebench/pkg/bench"
)

// EagerOp returns a measurable operation that constructs the range
// dataset and applies the steps immediately. Construction happens
// inside the operation, so every trial pays the full end-to-end cost
// on fresh storage; nothing carries over between invocations.
func EagerOp(rows int, steps []Step) bench.Op {
	return func() error {
		_, err := ApplyEager(RangeFrame(rows), steps)
		return err
	}
}

// LazyOp returns a measurable operation that constructs the range
// dataset, records the steps as a deferred plan, and materializes it
// with Collect. Plan construction and materialization are both inside
// the timed call, mirroring the eager variant's construction cost.
func LazyOp(rows int, steps []Step) bench.Op {
	return func() error {
		_, err := Lazy(RangeFrame(rows)).ApplyAll(steps...).Collect()
		return err
	}
}
