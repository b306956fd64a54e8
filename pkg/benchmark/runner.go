package benchmark

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/christophwitzko/csvbench/pkg/logger"
)

// ErrNoMeasurement is returned when a case was skipped or failed before producing a result.
var ErrNoMeasurement = errors.New("no measurement")

type Runner struct {
	Log    *logger.Logger
	Writer ResultWriter
	// Count is the number of times every case is executed.
	Count int
	// Shuffle randomizes the case order of every execution.
	Shuffle bool
	// Seed for the shuffle, zero uses the current time.
	Seed int64
}

// RunCase executes a single case once. It reports false if the case did not produce a
// measurement because it was skipped or failed.
func RunCase(c Case, run, index int) (Result, bool) {
	testing.Init()
	b := testing.Benchmark(c.Fn)
	if b.N == 0 {
		return Result{}, false
	}
	return NewResult(c, run, index, b), true
}

func (r *Runner) order(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if r.Shuffle {
		rng.Shuffle(n, func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
	}
	return idx
}

func (r *Runner) Run(ctx context.Context, cases []Case) error {
	count := r.Count
	if count < 1 {
		count = 1
	}
	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	failed := make(map[string]struct{})
	var failedNames []string
	for run := 1; run <= count; run++ {
		r.Log.Infof("suite run: %d/%d", run, count)
		for _, i := range r.order(rng, len(cases)) {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := cases[i]
			r.Log.Infof("--| benchmarking: %s", c.label())
			res, ok := RunCase(c, run, i+1)
			if !ok {
				r.Log.Warnf("  |--> %s: no measurement", c.Name)
				if _, seen := failed[c.Name]; !seen {
					failed[c.Name] = struct{}{}
					failedNames = append(failedNames, c.Name)
				}
				continue
			}
			r.Log.Infof("  |--> %s", res)
			if err := r.Writer.Write(res); err != nil {
				return fmt.Errorf("failed to write result of %s: %w", c.Name, err)
			}
		}
	}
	if len(failedNames) > 0 {
		return fmt.Errorf("%w: %s", ErrNoMeasurement, strings.Join(failedNames, ", "))
	}
	return nil
}
