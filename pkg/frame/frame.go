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
Package frame builds the benchmark datasets and pipelines on top of the
gota dataframe library.

All tabular computation is delegated to gota. This package contributes
three things: the reference dataset constructor (two integer columns
over a contiguous range), an enumerable set of pipeline steps that can
be toggled independently, and a deferred-execution wrapper (LazyFrame)
that captures steps without running them until Collect.

# Design Rationale

LazyFrame is deliberately not a query planner. It records steps in the
order given and replays them verbatim at Collect time through the same
gota calls the eager path uses. No reordering, no predicate pushdown,
no optimization. The point is to measure the cost of deferral itself,
so the two paths must perform identical work and differ only in when
it happens.
*/
package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Reference dataset column names.
const (
	ColA = "a"
	ColB = "b"
)

// RangeFrame constructs the reference dataset: integer columns "a" and
// "b", each holding 0..rows-1. Every call allocates fresh series
// storage, so frames from separate calls never alias each other.
func RangeFrame(rows int) dataframe.DataFrame {
	if rows < 0 {
		return dataframe.DataFrame{Err: fmt.Errorf("range frame: row count %d is negative", rows)}
	}
	a := make([]int, rows)
	b := make([]int, rows)
	for i := 0; i < rows; i++ {
		a[i] = i
		b[i] = i
	}
	return dataframe.New(
		series.New(a, series.Int, ColA),
		series.New(b, series.Int, ColB),
	)
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
