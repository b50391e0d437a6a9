package hypothesis

import (
	"encoding/json"
	"fmt"
	"strings"

	"bikestats/domain/core"
	"bikestats/domain/rental"
)

// Kind identifies the family of a test.
type Kind string

const (
	KindTwoSample    Kind = "two_sample"
	KindMultiGroup   Kind = "multi_group_variance"
	KindIndependence Kind = "independence"
)

// TestSpec is one of TwoSampleComparison, MultiGroupVarianceComparison or
// IndependenceTest. The set is closed.
type TestSpec interface {
	Kind() Kind
	Validate() error
	isTestSpec()
}

// TwoSampleComparison compares a measure between two levels of a factor.
// Levels, when set, names the two levels to compare and their order;
// otherwise the factor must have exactly two declared levels.
type TwoSampleComparison struct {
	Name    string         `json:"name,omitempty"`
	Factor  rental.Factor  `json:"factor"`
	Measure rental.Measure `json:"measure"`
	Levels  []string       `json:"levels,omitempty"`
	Welch   bool           `json:"welch,omitempty"`
}

// MultiGroupVarianceComparison is a one-way ANOVA of a measure over every
// declared level of a factor.
type MultiGroupVarianceComparison struct {
	Name    string         `json:"name,omitempty"`
	Factor  rental.Factor  `json:"factor"`
	Measure rental.Measure `json:"measure"`
}

// IndependenceTest is a chi-square test of independence between two
// factors. FactorA indexes contingency rows, FactorB columns.
type IndependenceTest struct {
	Name       string        `json:"name,omitempty"`
	FactorA    rental.Factor `json:"factor_a"`
	FactorB    rental.Factor `json:"factor_b"`
	Correction bool          `json:"correction"`
}

func (TwoSampleComparison) Kind() Kind          { return KindTwoSample }
func (MultiGroupVarianceComparison) Kind() Kind { return KindMultiGroup }
func (IndependenceTest) Kind() Kind             { return KindIndependence }

func (TwoSampleComparison) isTestSpec()          {}
func (MultiGroupVarianceComparison) isTestSpec() {}
func (IndependenceTest) isTestSpec()             {}

func (s TwoSampleComparison) Validate() error {
	if err := checkFactor("factor", s.Factor); err != nil {
		return err
	}
	if err := checkMeasure(s.Measure); err != nil {
		return err
	}
	if len(s.Levels) == 0 {
		if n := len(s.Factor.Levels()); n != 2 {
			return core.NewInvalidSpecError("factor", s.Factor,
				fmt.Sprintf("has %d levels; name two of them in levels", n))
		}
		return nil
	}
	if len(s.Levels) != 2 {
		return core.NewInvalidSpecError("levels", s.Levels, "exactly two levels required")
	}
	if s.Levels[0] == s.Levels[1] {
		return core.NewInvalidSpecError("levels", s.Levels, "levels must differ")
	}
	declared := s.Factor.Levels()
	for _, l := range s.Levels {
		if !contains(declared, l) {
			return core.NewInvalidSpecError("levels", l, fmt.Sprintf("not a level of %s", s.Factor))
		}
	}
	return nil
}

func (s MultiGroupVarianceComparison) Validate() error {
	if err := checkFactor("factor", s.Factor); err != nil {
		return err
	}
	if err := checkMeasure(s.Measure); err != nil {
		return err
	}
	return nil
}

func (s IndependenceTest) Validate() error {
	if err := checkFactor("factor_a", s.FactorA); err != nil {
		return err
	}
	if err := checkFactor("factor_b", s.FactorB); err != nil {
		return err
	}
	if s.FactorA == s.FactorB {
		return core.NewInvalidSpecError("factor_b", s.FactorB, "must differ from factor_a")
	}
	return nil
}

// comparedLevels returns the two levels a two-sample test compares.
func (s TwoSampleComparison) comparedLevels() []string {
	if len(s.Levels) == 2 {
		return s.Levels
	}
	return s.Factor.Levels()
}

func checkFactor(field string, f rental.Factor) error {
	for _, known := range rental.Factors {
		if f == known {
			return nil
		}
	}
	return core.NewInvalidSpecError(field, f, "unknown factor")
}

func checkMeasure(m rental.Measure) error {
	for _, known := range rental.Measures {
		if m == known {
			return nil
		}
	}
	return core.NewInvalidSpecError("measure", m, "unknown measure")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// specEnvelope is the JSON form accepted by DecodeSpec.
type specEnvelope struct {
	Kind       Kind     `json:"kind"`
	Name       string   `json:"name"`
	Factor     string   `json:"factor"`
	Measure    string   `json:"measure"`
	Levels     []string `json:"levels"`
	Welch      bool     `json:"welch"`
	FactorA    string   `json:"factor_a"`
	FactorB    string   `json:"factor_b"`
	Correction *bool    `json:"correction"`
}

// DecodeSpec parses a JSON test spec of the form
//
//	{"kind":"two_sample","factor":"workingday","measure":"count"}
//
// Factor and measure names are case-insensitive. A missing measure defaults
// to count; a missing correction defaults to true.
func DecodeSpec(data []byte) (TestSpec, error) {
	var env specEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, core.NewInvalidSpecError("body", nil, err.Error())
	}

	measure := rental.MeasureCount
	if strings.TrimSpace(env.Measure) != "" {
		m, err := rental.ParseMeasure(env.Measure)
		if err != nil {
			return nil, err
		}
		measure = m
	}

	var spec TestSpec
	switch Kind(strings.ToLower(string(env.Kind))) {
	case KindTwoSample:
		f, err := rental.ParseFactor(env.Factor)
		if err != nil {
			return nil, err
		}
		spec = TwoSampleComparison{Name: env.Name, Factor: f, Measure: measure, Levels: env.Levels, Welch: env.Welch}
	case KindMultiGroup:
		f, err := rental.ParseFactor(env.Factor)
		if err != nil {
			return nil, err
		}
		spec = MultiGroupVarianceComparison{Name: env.Name, Factor: f, Measure: measure}
	case KindIndependence:
		a, err := rental.ParseFactor(env.FactorA)
		if err != nil {
			return nil, err
		}
		b, err := rental.ParseFactor(env.FactorB)
		if err != nil {
			return nil, err
		}
		correction := true
		if env.Correction != nil {
			correction = *env.Correction
		}
		spec = IndependenceTest{Name: env.Name, FactorA: a, FactorB: b, Correction: correction}
	default:
		return nil, core.NewInvalidSpecError("kind", env.Kind, "expected two_sample, multi_group_variance or independence")
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// specName returns the spec's explicit name or a descriptive default.
func specName(spec TestSpec) string {
	switch s := spec.(type) {
	case TwoSampleComparison:
		if s.Name != "" {
			return s.Name
		}
		return fmt.Sprintf("%s by %s (two-sample t)", s.Measure, s.Factor)
	case MultiGroupVarianceComparison:
		if s.Name != "" {
			return s.Name
		}
		return fmt.Sprintf("%s by %s (one-way ANOVA)", s.Measure, s.Factor)
	case IndependenceTest:
		if s.Name != "" {
			return s.Name
		}
		return fmt.Sprintf("%s vs %s (chi-square)", s.FactorA, s.FactorB)
	}
	return "unknown"
}
