package golden

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/f3rmion/bazi/internal/batch"
	"github.com/f3rmion/bazi/internal/engine"
)

// Result is the verdict for one case.
type Result struct {
	Name string
	Diff string // empty when the analysis still matches
	Err  error  // the case could not be recomputed
}

// OK reports whether the case still matches.
func (r Result) OK() bool { return r.Err == nil && r.Diff == "" }

// Verify recomputes every case with r and compares it to the stored
// analysis. Results follow List order.
func Verify(ctx context.Context, s *Store, r *batch.Runner) ([]Result, error) {
	cases, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	inputs := make([]engine.Input, len(cases))
	for i, c := range cases {
		inputs[i] = c.Input
	}
	items := r.Collect(ctx, inputs)

	results := make([]Result, len(cases))
	for i, c := range cases {
		results[i] = Result{Name: c.Name}
		if items[i].Err != nil {
			results[i].Err = items[i].Err
			continue
		}
		got, err := Canonical(items[i].Analysis)
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].Diff, results[i].Err = diff(c.Expected, got)
	}
	return results, nil
}

// diff compares two canonical documents structurally so the report points at
// the fields that moved.
func diff(want, got []byte) (string, error) {
	var w, g any
	if err := json.Unmarshal(want, &w); err != nil {
		return "", fmt.Errorf("parsing stored analysis: %w", err)
	}
	if err := json.Unmarshal(got, &g); err != nil {
		return "", fmt.Errorf("parsing analysis: %w", err)
	}
	return cmp.Diff(w, g), nil
}

// Failures counts results that are not OK.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
