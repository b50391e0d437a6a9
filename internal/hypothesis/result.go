package hypothesis

import (
	"encoding/json"
	"math"
)

// Decision is the verdict of a test at its significance level.
type Decision string

const (
	RejectNull   Decision = "reject_null"
	FailToReject Decision = "fail_to_reject"
)

// decide rejects when p < alpha.
func decide(pValue, alpha float64) Decision {
	if pValue < alpha {
		return RejectNull
	}
	return FailToReject
}

// GroupSummary describes one group of a two-sample or ANOVA test.
type GroupSummary struct {
	Level  string  `json:"level"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Contingency is the observed and expected table of an independence test.
type Contingency struct {
	Rows     []string    `json:"rows"`
	Cols     []string    `json:"cols"`
	Observed [][]int     `json:"observed"`
	Expected [][]float64 `json:"expected"`
}

// TestResult is the outcome of a single test.
//
// DegreesOfFreedom is the t or chi-square df, or the numerator df of an F
// test; DenominatorDF is only set for F tests.
type TestResult struct {
	Name             string         `json:"name"`
	Kind             Kind           `json:"kind"`
	Statistic        float64        `json:"statistic"`
	PValue           float64        `json:"p_value"`
	DegreesOfFreedom *float64       `json:"degrees_of_freedom,omitempty"`
	DenominatorDF    *float64       `json:"denominator_df,omitempty"`
	Decision         Decision       `json:"decision"`
	Alpha            float64        `json:"alpha"`
	Groups           []GroupSummary `json:"groups,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
	Contingency      *Contingency   `json:"contingency,omitempty"`

	NullHypothesis string `json:"null_hypothesis,omitempty"`
	AltHypothesis  string `json:"alternative_hypothesis,omitempty"`
	Conclusion     string `json:"conclusion,omitempty"`
}

// Rejected reports whether the null hypothesis was rejected.
func (r *TestResult) Rejected() bool {
	return r.Decision == RejectNull
}

// MarshalJSON writes an infinite statistic as "Infinity" or "-Infinity";
// JSON numbers cannot hold it.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	return json.Marshal(struct {
		plain
		Statistic interface{} `json:"statistic"`
	}{plain(r), JSONFloat(r.Statistic)})
}

// JSONFloat returns v unchanged when it is finite and its name otherwise.
func JSONFloat(v float64) interface{} {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return v
}

func floatPtr(v float64) *float64 {
	return &v
}
