package hypothesis

import (
	"fmt"

	"bikestats/domain/core"
	"bikestats/domain/rental"
)

// Preset is a named test from the dashboard together with its hypotheses
// and the conclusions shown for each decision.
type Preset struct {
	Name             string
	Title            string
	Spec             TestSpec
	NullHypothesis   string
	AltHypothesis    string
	RejectConclusion string
	RetainConclusion string
}

var presets = []Preset{
	{
		Name:  "workingday-ttest",
		Title: "Working Day Effect on Rentals",
		Spec: TwoSampleComparison{
			Name:    "workingday-ttest",
			Factor:  rental.FactorWorkingDay,
			Measure: rental.MeasureCount,
			Levels:  []string{"Yes", "No"},
		},
		NullHypothesis:   "Working day has no effect on bike rentals",
		AltHypothesis:    "Working day has an effect on bike rentals",
		RejectConclusion: "Working day has a statistically significant effect on bike rentals.",
		RetainConclusion: "No statistically significant effect of working day on bike rentals.",
	},
	{
		Name:  "season-anova",
		Title: "Season Effect on Rentals",
		Spec: MultiGroupVarianceComparison{
			Name:    "season-anova",
			Factor:  rental.FactorSeason,
			Measure: rental.MeasureCount,
		},
		NullHypothesis:   "Mean rentals are the same across all seasons",
		AltHypothesis:    "Mean rentals differ across seasons",
		RejectConclusion: "Bike rentals differ significantly across seasons.",
		RetainConclusion: "No significant difference in rentals across seasons.",
	},
	{
		Name:  "weather-anova",
		Title: "Weather Effect on Rentals",
		Spec: MultiGroupVarianceComparison{
			Name:    "weather-anova",
			Factor:  rental.FactorWeather,
			Measure: rental.MeasureCount,
		},
		NullHypothesis:   "Mean rentals are the same across all weather conditions",
		AltHypothesis:    "Mean rentals differ across weather conditions",
		RejectConclusion: "Bike rentals differ significantly across weather conditions.",
		RetainConclusion: "No significant difference in rentals across weather conditions.",
	},
	{
		Name:  "weather-season-chi2",
		Title: "Weather and Season Association",
		Spec: IndependenceTest{
			Name:       "weather-season-chi2",
			FactorA:    rental.FactorSeason,
			FactorB:    rental.FactorWeather,
			Correction: true,
		},
		NullHypothesis:   "Weather is independent of season",
		AltHypothesis:    "Weather depends on season",
		RejectConclusion: "Weather is significantly dependent on season.",
		RetainConclusion: "Weather is independent of season.",
	},
}

// Presets returns the built-in tests in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetNames returns the names of the built-in tests in display order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// LookupPreset finds a built-in test by name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: test %q", core.ErrNotFound, name)
}

func (p Preset) annotate(res *TestResult) {
	res.NullHypothesis = p.NullHypothesis
	res.AltHypothesis = p.AltHypothesis
	if res.Rejected() {
		res.Conclusion = p.RejectConclusion
	} else {
		res.Conclusion = p.RetainConclusion
	}
}
