package hypothesis

import (
	"fmt"
	"math"

	"bikestats/domain/core"
	"bikestats/domain/rental"
)

func (r *Runner) runMultiGroup(records []rental.EnrichedRecord, spec MultiGroupVarianceComparison) (*TestResult, error) {
	levels, groups := rental.Partition(records, spec.Factor, spec.Measure)
	if len(levels) < 2 {
		return nil, core.NewInsufficientGroupsError(string(spec.Factor), "need at least two levels")
	}
	summaries := make([]GroupSummary, len(levels))
	for i, g := range groups {
		if len(g) == 0 {
			return nil, core.NewEmptyGroupError(string(spec.Factor), levels[i])
		}
		summaries[i] = summarize(levels[i], g)
	}

	f, dfBetween, dfWithin, err := oneWay(string(spec.Factor), groups)
	if err != nil {
		return nil, err
	}

	p := r.dist.FTestPValue(f, dfBetween, dfWithin)
	return &TestResult{
		Name:             specName(spec),
		Kind:             KindMultiGroup,
		Statistic:        f,
		PValue:           p,
		DegreesOfFreedom: floatPtr(dfBetween),
		DenominatorDF:    floatPtr(dfWithin),
		Decision:         decide(p, r.alpha),
		Alpha:            r.alpha,
		Groups:           summaries,
		NullHypothesis:   fmt.Sprintf("mean %s is the same across every %s", spec.Measure, spec.Factor),
		AltHypothesis:    fmt.Sprintf("mean %s differs across %s", spec.Measure, spec.Factor),
	}, nil
}

// oneWay computes the one-way ANOVA F statistic over non-empty groups.
// F = (SSB/(k-1)) / (SSW/(N-k)).
func oneWay(factor string, groups [][]float64) (f, dfBetween, dfWithin float64, err error) {
	k := len(groups)
	var n int
	var total float64
	for _, g := range groups {
		n += len(g)
		for _, v := range g {
			total += v
		}
	}
	if n-k < 1 {
		return 0, 0, 0, core.NewInsufficientGroupsError(factor, "need more observations than groups")
	}
	grand := total / float64(n)

	var ssb, ssw float64
	var firstMean float64
	sameMeans := true
	for i, g := range groups {
		mean, _ := meanVariance(g)
		if i == 0 {
			firstMean = mean
		} else if mean != firstMean {
			sameMeans = false
		}
		d := mean - grand
		ssb += float64(len(g)) * d * d
		for _, v := range g {
			e := v - mean
			ssw += e * e
		}
	}
	dfBetween = float64(k - 1)
	dfWithin = float64(n - k)
	if ssw == 0 {
		// Constant groups: distinct means separate perfectly, equal means are 0/0.
		if sameMeans {
			return 0, 0, 0, core.ErrZeroVariance
		}
		return math.Inf(1), dfBetween, dfWithin, nil
	}
	f = (ssb / dfBetween) / (ssw / dfWithin)
	return f, dfBetween, dfWithin, nil
}
