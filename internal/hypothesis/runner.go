// Package hypothesis runs classical significance tests over enriched rental
// records: two-sample t, one-way ANOVA and chi-square independence.
//
// A Runner holds only its significance level and is safe for concurrent use.
// Tests never read the event log or any other shared state.
package hypothesis

import (
	"context"
	"fmt"
	"math"

	"bikestats/domain/core"
	"bikestats/domain/rental"

	"golang.org/x/sync/errgroup"
)

// DefaultAlpha is the significance level used when none is configured.
const DefaultAlpha = 0.05

// Runner executes TestSpecs at a fixed significance level.
type Runner struct {
	alpha float64
	dist  *Distributions
}

// Option configures a Runner.
type Option func(*Runner)

// WithAlpha overrides the significance level.
func WithAlpha(alpha float64) Option {
	return func(r *Runner) {
		r.alpha = alpha
	}
}

// NewRunner creates a runner. Alpha must lie strictly between 0 and 1.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{alpha: DefaultAlpha, dist: NewDistributions()}
	for _, opt := range opts {
		opt(r)
	}
	if err := ValidateAlpha(r.alpha); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateAlpha checks that alpha is a usable significance level.
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return core.NewInvalidSpecError("alpha", alpha, "must lie in (0,1)")
	}
	return nil
}

// Alpha returns the runner's significance level.
func (r *Runner) Alpha() float64 {
	return r.alpha
}

// Run executes a single test against the records.
func (r *Runner) Run(records []rental.EnrichedRecord, spec TestSpec) (*TestResult, error) {
	if spec == nil {
		return nil, core.NewInvalidSpecError("spec", nil, "missing")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, core.ErrEmptyInput
	}

	var (
		res *TestResult
		err error
	)
	switch s := spec.(type) {
	case TwoSampleComparison:
		res, err = r.runTwoSample(records, s)
	case MultiGroupVarianceComparison:
		res, err = r.runMultiGroup(records, s)
	case IndependenceTest:
		res, err = r.runIndependence(records, s)
	default:
		return nil, core.NewInvalidSpecError("spec", fmt.Sprintf("%T", spec), "unsupported test")
	}
	if err != nil {
		return nil, err
	}
	if res.Rejected() {
		res.Conclusion = fmt.Sprintf("Reject the null hypothesis at alpha=%g: %s.", r.alpha, res.AltHypothesis)
	} else {
		res.Conclusion = fmt.Sprintf("Fail to reject the null hypothesis at alpha=%g.", r.alpha)
	}
	return res, nil
}

// RunPreset executes a named preset and attaches its hypotheses and
// conclusion.
func (r *Runner) RunPreset(records []rental.EnrichedRecord, name string) (*TestResult, error) {
	preset, err := LookupPreset(name)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(records, preset.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	preset.annotate(res)
	return res, nil
}

// RunAll executes the named presets concurrently, or every preset when no
// names are given. Results are returned in the order requested; the first
// failure cancels tests not yet started.
func (r *Runner) RunAll(ctx context.Context, records []rental.EnrichedRecord, names ...string) ([]*TestResult, error) {
	if len(names) == 0 {
		names = PresetNames()
	}
	for _, name := range names {
		if _, err := LookupPreset(name); err != nil {
			return nil, err
		}
	}

	results := make([]*TestResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.RunPreset(records, name)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
