// Package batch analyzes many birth inputs in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/bazi/internal/engine"
)

// Item is the outcome for one input. Exactly one of Analysis and Err is set.
type Item struct {
	Index    int
	Input    engine.Input
	Analysis *engine.ChartAnalysis
	Err      error
}

// ItemError ties a failure to the position of its input.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return fmt.Sprintf("input %d: %v", e.Index, e.Err) }

func (e *ItemError) Unwrap() error { return e.Err }

// Runner fans inputs out over a bounded number of workers.
type Runner struct {
	Engine  *engine.Engine
	Workers int // 0 means runtime.NumCPU()
	Logger  *zap.Logger
}

func (r *Runner) limit() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.NumCPU()
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Run analyzes every input and stops at the first failure, which is returned
// as an *ItemError. Results are in input order.
func (r *Runner) Run(ctx context.Context, inputs []engine.Input) ([]*engine.ChartAnalysis, error) {
	results := make([]*engine.ChartAnalysis, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit())
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := r.Engine.Analyze(in)
			if err != nil {
				return &ItemError{Index: i, Err: err}
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Collect analyzes every input regardless of failures. Only cancellation of
// ctx ends it early; inputs not reached carry ctx's error.
func (r *Runner) Collect(ctx context.Context, inputs []engine.Input) []Item {
	items := make([]Item, len(inputs))

	var g errgroup.Group
	g.SetLimit(r.limit())
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			items[i] = Item{Index: i, Input: in}
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			a, err := r.Engine.Analyze(in)
			if err != nil {
				r.logger().Warn("analysis failed", zap.Int("index", i), zap.String("input", in.DateTime), zap.Error(err))
				items[i].Err = err
				return nil
			}
			items[i].Analysis = a
			return nil
		})
	}
	_ = g.Wait() // errors captured in Item.Err
	return items
}

// Failed counts items with an error.
func Failed(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// ErrNoInputs is returned for an input file with nothing to analyze.
var ErrNoInputs = errors.New("no inputs")

// LoadFile reads a YAML (or JSON) list of inputs. A mapping with an "inputs"
// key is accepted too.
func LoadFile(path string) ([]engine.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a list of inputs.
func Parse(data []byte) ([]engine.Input, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrNoInputs
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		var wrapped struct {
			Inputs []engine.Input `yaml:"inputs"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("parsing batch file: %w", err)
		}
		if len(wrapped.Inputs) == 0 {
			return nil, ErrNoInputs
		}
		return wrapped.Inputs, nil
	}

	var inputs []engine.Input
	if err := root.Decode(&inputs); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	return inputs, nil
}
