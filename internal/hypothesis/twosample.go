package hypothesis

import (
	"fmt"
	"math"

	"bikestats/domain/core"
	"bikestats/domain/rental"

	"github.com/montanaflynn/stats"
)

func (r *Runner) runTwoSample(records []rental.EnrichedRecord, spec TwoSampleComparison) (*TestResult, error) {
	levels := spec.comparedLevels()
	declared, partitioned := rental.Partition(records, spec.Factor, spec.Measure)
	index := make(map[string]int, len(declared))
	for i, l := range declared {
		index[l] = i
	}
	a, b := partitioned[index[levels[0]]], partitioned[index[levels[1]]]

	for i, g := range [][]float64{a, b} {
		if len(g) == 0 {
			return nil, core.NewInsufficientGroupsError(string(spec.Factor),
				fmt.Sprintf("level %q has no observations", levels[i]))
		}
	}

	ga, gb := summarize(levels[0], a), summarize(levels[1], b)
	var (
		t, df float64
		err   error
	)
	if spec.Welch {
		t, df, err = welchT(spec.Factor, a, b)
	} else {
		t, df, err = pooledT(spec.Factor, a, b)
	}
	if err != nil {
		return nil, err
	}

	p := r.dist.TTestPValue(t, df)
	res := &TestResult{
		Name:             specName(spec),
		Kind:             KindTwoSample,
		Statistic:        t,
		PValue:           p,
		DegreesOfFreedom: floatPtr(df),
		Decision:         decide(p, r.alpha),
		Alpha:            r.alpha,
		Groups:           []GroupSummary{ga, gb},
		NullHypothesis:   fmt.Sprintf("mean %s is the same for %s = %s and %s = %s", spec.Measure, spec.Factor, levels[0], spec.Factor, levels[1]),
		AltHypothesis:    fmt.Sprintf("mean %s differs between %s = %s and %s = %s", spec.Measure, spec.Factor, levels[0], spec.Factor, levels[1]),
	}

	if !spec.Welch {
		if w, ok := r.equalVarianceWarning([][]float64{a, b}); ok {
			res.Warnings = append(res.Warnings, w)
		}
	}
	return res, nil
}

// pooledT is Student's t with a pooled variance estimate, df = n1+n2-2.
func pooledT(factor rental.Factor, a, b []float64) (float64, float64, error) {
	n1, n2 := float64(len(a)), float64(len(b))
	df := n1 + n2 - 2
	if df < 1 {
		return 0, 0, core.NewInsufficientGroupsError(string(factor), "need at least three observations in total")
	}
	m1, v1 := meanVariance(a)
	m2, v2 := meanVariance(b)

	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		t, err := degenerateT(m1, m2)
		return t, df, err
	}
	return (m1 - m2) / se, df, nil
}

// welchT is the unequal-variance t with Welch-Satterthwaite df.
func welchT(factor rental.Factor, a, b []float64) (float64, float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, core.NewInsufficientGroupsError(string(factor), "welch needs at least two observations per group")
	}
	n1, n2 := float64(len(a)), float64(len(b))
	m1, v1 := meanVariance(a)
	m2, v2 := meanVariance(b)

	q1, q2 := v1/n1, v2/n2
	se := math.Sqrt(q1 + q2)
	if se == 0 {
		// Welch-Satterthwaite is 0/0 here; fall back to the pooled df.
		t, err := degenerateT(m1, m2)
		return t, n1 + n2 - 2, err
	}
	df := (q1 + q2) * (q1 + q2) / (q1*q1/(n1-1) + q2*q2/(n2-1))
	return (m1 - m2) / se, df, nil
}

// degenerateT handles two constant groups. Distinct means give an infinite
// statistic signed like m1-m2; equal means leave t undefined.
func degenerateT(m1, m2 float64) (float64, error) {
	switch {
	case m1 > m2:
		return math.Inf(1), nil
	case m1 < m2:
		return math.Inf(-1), nil
	}
	return 0, core.ErrZeroVariance
}

// meanVariance returns the mean and the unbiased sample variance; the
// variance of a single observation is 0.
func meanVariance(values []float64) (float64, float64) {
	mean, _ := stats.Mean(values)
	if len(values) < 2 {
		return mean, 0
	}
	variance, _ := stats.SampleVariance(values)
	return mean, variance
}

func summarize(level string, values []float64) GroupSummary {
	mean, variance := meanVariance(values)
	return GroupSummary{
		Level:  level,
		N:      len(values),
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}
}
