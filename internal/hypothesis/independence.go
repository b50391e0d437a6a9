package hypothesis

import (
	"fmt"
	"math"

	"bikestats/domain/core"
	"bikestats/domain/rental"
)

func (r *Runner) runIndependence(records []rental.EnrichedRecord, spec IndependenceTest) (*TestResult, error) {
	rows, cols, observed := rental.Crosstab(records, spec.FactorA, spec.FactorB)
	if len(rows) < 2 || len(cols) < 2 {
		return nil, core.NewInsufficientGroupsError(string(spec.FactorA), "both factors need at least two levels")
	}

	rowTotals := make([]float64, len(rows))
	colTotals := make([]float64, len(cols))
	var n float64
	for i := range observed {
		for j, c := range observed[i] {
			rowTotals[i] += float64(c)
			colTotals[j] += float64(c)
			n += float64(c)
		}
	}
	for i, t := range rowTotals {
		if t == 0 {
			return nil, core.NewEmptyGroupError(string(spec.FactorA), rows[i])
		}
	}
	for j, t := range colTotals {
		if t == 0 {
			return nil, core.NewEmptyGroupError(string(spec.FactorB), cols[j])
		}
	}

	df := float64((len(rows) - 1) * (len(cols) - 1))
	yates := spec.Correction && df == 1

	expected := make([][]float64, len(rows))
	var chi2 float64
	var below5, below1 int
	for i := range rows {
		expected[i] = make([]float64, len(cols))
		for j := range cols {
			e := rowTotals[i] * colTotals[j] / n
			expected[i][j] = e
			if e < 5 {
				below5++
			}
			if e < 1 {
				below1++
			}

			o := float64(observed[i][j])
			if yates {
				o = yatesAdjust(o, e)
			}
			d := o - e
			chi2 += d * d / e
		}
	}

	p := r.dist.ChiSquarePValue(chi2, df)
	res := &TestResult{
		Name:             specName(spec),
		Kind:             KindIndependence,
		Statistic:        chi2,
		PValue:           p,
		DegreesOfFreedom: floatPtr(df),
		Decision:         decide(p, r.alpha),
		Alpha:            r.alpha,
		Contingency: &Contingency{
			Rows:     rows,
			Cols:     cols,
			Observed: observed,
			Expected: expected,
		},
		NullHypothesis: fmt.Sprintf("%s is independent of %s", spec.FactorB, spec.FactorA),
		AltHypothesis:  fmt.Sprintf("%s depends on %s", spec.FactorB, spec.FactorA),
	}

	cells := len(rows) * len(cols)
	if below5 > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d of %d expected counts are below 5; the chi-square approximation may be unreliable", below5, cells))
	}
	if below1 > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d of %d expected counts are below 1; the chi-square approximation is not valid", below1, cells))
	}
	if yates {
		res.Warnings = append(res.Warnings, "Yates' continuity correction applied")
	}
	return res, nil
}

// yatesAdjust moves an observed count toward its expectation by at most 0.5.
func yatesAdjust(observed, expected float64) float64 {
	d := expected - observed
	step := math.Min(0.5, math.Abs(d))
	if d < 0 {
		return observed - step
	}
	return observed + step
}
