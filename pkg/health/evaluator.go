// Package health runs the applicable subset of the check registry for a
// resolved context and aggregates results into a report.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dskarbrevik/devhand/pkg/checks"
	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// Report is the ordered outcome of one evaluation. Results appear in
// registry order regardless of execution order, and reports are never
// cached across invocations.
type Report struct {
	Mode    checks.Mode
	Results []checks.Result
	Overall checks.Status
}

// Counts returns the number of pass/warn/fail results.
func (r *Report) Counts() (pass, warn, fail int) {
	for _, res := range r.Results {
		switch res.Status {
		case checks.StatusPass:
			pass++
		case checks.StatusWarn:
			warn++
		case checks.StatusFail:
			fail++
		}
	}
	return pass, warn, fail
}

// Evaluator executes checks with bounded concurrency. Checks are mutually
// independent, which is what makes concurrent execution safe; the bound is
// purely a latency optimization.
type Evaluator struct {
	registry     *checks.Registry
	maxWorkers   int
	checkTimeout time.Duration
}

const (
	defaultMaxWorkers   = 4
	defaultCheckTimeout = 15 * time.Second
)

// NewEvaluator builds an evaluator over a registry.
func NewEvaluator(registry *checks.Registry) *Evaluator {
	return &Evaluator{
		registry:     registry,
		maxWorkers:   defaultMaxWorkers,
		checkTimeout: defaultCheckTimeout,
	}
}

// WithTimeout overrides the per-check timeout.
func (e *Evaluator) WithTimeout(d time.Duration) *Evaluator {
	e.checkTimeout = d
	return e
}

// WithWorkers overrides the concurrency bound.
func (e *Evaluator) WithWorkers(n int) *Evaluator {
	if n > 0 {
		e.maxWorkers = n
	}
	return e
}

// Evaluate runs every check applicable to the context's role and the given
// mode. A panicking or timed-out check becomes a fail result and never
// aborts the batch.
func (e *Evaluator) Evaluate(ctx context.Context, pc *workspace.ProjectContext, mode checks.Mode) *Report {
	selected := e.registry.Select(pc.Role(), mode)
	results := make([]checks.Result, len(selected))

	sem := make(chan struct{}, e.maxWorkers)
	var wg sync.WaitGroup
	for i, def := range selected {
		wg.Add(1)
		go func(i int, def checks.Definition) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = e.runOne(ctx, def, pc)
		}(i, def)
	}
	wg.Wait()

	report := &Report{Mode: mode, Results: results, Overall: checks.StatusPass}
	for _, res := range results {
		report.Overall = report.Overall.Worst(res.Status)
	}
	return report
}

// runOne executes a single check, converting panics and timeouts into fail
// results so the caller always gets a report entry per selected check.
func (e *Evaluator) runOne(ctx context.Context, def checks.Definition, pc *workspace.ProjectContext) checks.Result {
	done := make(chan checks.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- checks.Result{
					Name:    def.Name,
					Status:  checks.StatusFail,
					Message: fmt.Sprintf("check panicked: %v", r),
				}
			}
		}()
		done <- def.Run(pc)
	}()

	select {
	case res := <-done:
		return res
	case <-time.After(e.checkTimeout):
		return checks.Result{
			Name:    def.Name,
			Status:  checks.StatusFail,
			Message: fmt.Sprintf("check timed out after %s", e.checkTimeout),
		}
	case <-ctx.Done():
		return checks.Result{
			Name:    def.Name,
			Status:  checks.StatusFail,
			Message: fmt.Sprintf("check canceled: %v", ctx.Err()),
		}
	}
}
