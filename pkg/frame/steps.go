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
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// StepKind names a supported pipeline transformation. The names are
// the wire format used by flags and config files.
type StepKind string

const (
	KindFilter     StepKind = "filter"
	KindWithColumn StepKind = "with_columns"
	KindGroupByAgg StepKind = "group_by_agg"
)

// ErrUnknownStep is returned by Pipeline.Build for a step name outside
// the supported set.
var ErrUnknownStep = errors.New("frame: unknown pipeline step")

// Step is a single dataframe transformation. Implementations are value
// types: Apply derives a new frame and never mutates its input, so a
// Step can be replayed any number of times.
type Step interface {
	// Name returns the step's wire name.
	Name() string

	// Apply runs the transformation, returning the derived frame or an
	// error describing why gota rejected it.
	Apply(df dataframe.DataFrame) (dataframe.DataFrame, error)
}

// Filter returns a step keeping rows where column > threshold.
func Filter(column string, threshold int) Step {
	return filterStep{column: column, threshold: threshold}
}

// WithColumn returns a step copying the source column under a new
// name, leaving the source in place.
func WithColumn(source, alias string) Step {
	return withColumnStep{source: source, alias: alias}
}

// GroupByMean returns a step grouping by one column and aggregating
// another to its per-group mean. The aggregate column is named
// "<mean>_MEAN" following gota's convention.
func GroupByMean(group, mean string) Step {
	return groupByMeanStep{group: group, mean: mean}
}

type filterStep struct {
	column    string
	threshold int
}

func (s filterStep) Name() string { return string(KindFilter) }

func (s filterStep) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	out := df.Filter(dataframe.F{
		Colname:    s.column,
		Comparator: series.Greater,
		Comparando: s.threshold,
	})
	if err := out.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter %s > %d: %w", s.column, s.threshold, err)
	}
	return out, nil
}

type withColumnStep struct {
	source string
	alias  string
}

func (s withColumnStep) Name() string { return string(KindWithColumn) }

func (s withColumnStep) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	col := df.Col(s.source)
	if col.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("with_columns: source %q: %w", s.source, col.Err)
	}
	col.Name = s.alias
	out := df.Mutate(col)
	if err := out.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("with_columns: alias %q: %w", s.alias, err)
	}
	return out, nil
}

type groupByMeanStep struct {
	group string
	mean  string
}

func (s groupByMeanStep) Name() string { return string(KindGroupByAgg) }

func (s groupByMeanStep) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !hasColumn(df, s.group) {
		return dataframe.DataFrame{}, fmt.Errorf("group_by_agg: unknown group column %q", s.group)
	}
	if !hasColumn(df, s.mean) {
		return dataframe.DataFrame{}, fmt.Errorf("group_by_agg: unknown aggregate column %q", s.mean)
	}

	// Grouping zero rows yields zero groups, not an error. gota's
	// Aggregation cannot represent an empty result, so shape it here.
	if df.Nrow() == 0 {
		return dataframe.New(
			series.New([]int{}, series.Int, s.group),
			series.New([]float64{}, series.Float, s.mean+"_MEAN"),
		), nil
	}

	out := df.GroupBy(s.group).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{s.mean},
	)
	if err := out.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("group_by_agg: group %q mean %q: %w", s.group, s.mean, err)
	}
	return out, nil
}

// Pipeline carries the parameters referenced by named steps. Build
// turns a list of step names into runnable Steps, so callers toggle
// transformations by listing which names they want.
type Pipeline struct {
	FilterColumn string
	Threshold    int
	Source       string
	Alias        string
	GroupColumn  string
	MeanColumn   string
}

// DefaultPipeline returns the reference parameters: filter a > 500,
// alias b as b_double, group by a with the mean of b.
func DefaultPipeline() Pipeline {
	return Pipeline{
		FilterColumn: ColA,
		Threshold:    500,
		Source:       ColB,
		Alias:        "b_double",
		GroupColumn:  ColA,
		MeanColumn:   ColB,
	}
}

// Build resolves step names into Steps, in the order given. Unknown
// names abort with ErrUnknownStep; blank entries are skipped so comma
// lists with trailing separators parse cleanly.
func (p Pipeline) Build(names []string) ([]Step, error) {
	steps := make([]Step, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		switch StepKind(name) {
		case KindFilter:
			steps = append(steps, Filter(p.FilterColumn, p.Threshold))
		case KindWithColumn:
			steps = append(steps, WithColumn(p.Source, p.Alias))
		case KindGroupByAgg:
			steps = append(steps, GroupByMean(p.GroupColumn, p.MeanColumn))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStep, name)
		}
	}
	return steps, nil
}

// KnownStepNames returns every name Build accepts, in reference
// pipeline order.
func KnownStepNames() []string {
	return []string{string(KindFilter), string(KindWithColumn), string(KindGroupByAgg)}
}

// DefaultStepNames returns the steps enabled when none are requested.
// Only the filter runs by default; the other transformations exist in
// the reference pipeline but start disabled.
func DefaultStepNames() []string {
	return []string{string(KindFilter)}
}

// ParseSteps builds the named steps with the reference pipeline's
// column bindings. Callers needing a different shape build a Pipeline
// themselves.
func ParseSteps(names []string) ([]Step, error) {
	return DefaultPipeline().Build(names)
}

// ApplyEager runs the steps immediately, in order, aborting on the
// first failure.
func ApplyEager(df dataframe.DataFrame, steps []Step) (dataframe.DataFrame, error) {
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("apply: source frame: %w", err)
	}
	for i, s := range steps {
		out, err := s.Apply(df)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("apply: step %d (%s): %w", i+1, s.Name(), err)
		}
		df = out
	}
	return df, nil
}
