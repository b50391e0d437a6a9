package hypothesis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// brownForsythe runs Levene's test centred on group medians and returns the
// F statistic and p-value.
func (r *Runner) brownForsythe(groups [][]float64) (float64, float64, error) {
	deviations := make([][]float64, len(groups))
	for i, g := range groups {
		median, err := stats.Median(g)
		if err != nil {
			return 0, 0, err
		}
		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - median)
		}
		deviations[i] = z
	}
	f, dfBetween, dfWithin, err := oneWay("levene", deviations)
	if err != nil {
		return 0, 0, err
	}
	return f, r.dist.FTestPValue(f, dfBetween, dfWithin), nil
}

// equalVarianceWarning returns a warning when the groups' variances differ
// at the runner's alpha. Inconclusive checks produce no warning.
func (r *Runner) equalVarianceWarning(groups [][]float64) (string, bool) {
	f, p, err := r.brownForsythe(groups)
	if err != nil || p >= r.alpha {
		return "", false
	}
	return fmt.Sprintf("group variances differ (Brown-Forsythe F=%.4f, p=%.4g); consider the Welch variant", f, p), true
}
