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
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// LazyFrame is a deferred pipeline over a source frame.
//
// # Description
//
// Apply records steps without touching the data; Collect replays them
// in order through the same code paths ApplyEager uses. Until Collect
// runs, no row is read and no error is surfaced, including errors
// already present on the source frame.
//
// # Thread Safety
//
// LazyFrame values are immutable. Apply returns a derived plan sharing
// no step storage with its parent, so plans can be extended from
// multiple goroutines as long as each goroutine works on its own
// derivation.
//
// # Examples
//
//	out, err := frame.Lazy(frame.RangeFrame(500)).
//	    Apply(frame.Filter("a", 500)).
//	    Collect()
//
// # Limitations
//
//   - No plan optimization of any kind; steps run exactly as recorded
//   - The source frame is captured by value at Lazy time
type LazyFrame struct {
	src   dataframe.DataFrame
	steps []Step
}

// Lazy starts an empty plan over the given source frame.
func Lazy(df dataframe.DataFrame) *LazyFrame {
	return &LazyFrame{src: df}
}

// Apply returns a new plan with one more step recorded. The receiver
// is unchanged.
func (lf *LazyFrame) Apply(step Step) *LazyFrame {
	steps := make([]Step, len(lf.steps)+1)
	copy(steps, lf.steps)
	steps[len(lf.steps)] = step
	return &LazyFrame{src: lf.src, steps: steps}
}

// ApplyAll records the given steps in order.
func (lf *LazyFrame) ApplyAll(steps ...Step) *LazyFrame {
	out := lf
	for _, s := range steps {
		out = out.Apply(s)
	}
	return out
}

// StepNames returns the recorded step names in execution order.
func (lf *LazyFrame) StepNames() []string {
	names := make([]string, len(lf.steps))
	for i, s := range lf.steps {
		names[i] = s.Name()
	}
	return names
}

// Collect materializes the plan. This is the only method that performs
// row work; every deferred failure surfaces here.
func (lf *LazyFrame) Collect() (dataframe.DataFrame, error) {
	if err := lf.src.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("collect: source frame: %w", err)
	}
	df := lf.src
	for i, s := range lf.steps {
		out, err := s.Apply(df)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("collect: step %d (%s): %w", i+1, s.Name(), err)
		}
		df = out
	}
	return df, nil
}
