// Package dataset turns raw hourly rental observations into enriched
// records: calendar fields plus the categorical labels and buckets the
// hypothesis tests and summaries partition on.
//
// Derivation is pure and all-or-nothing. The first record that cannot be
// mapped aborts the whole batch with an error naming the row and field.
package dataset

import (
	"fmt"
	"math"

	"bikestats/domain/core"
	"bikestats/domain/rental"
)

// Derive enriches every raw record, preserving input order and length.
func Derive(raw []rental.RawRecord) ([]rental.EnrichedRecord, error) {
	if len(raw) == 0 {
		return nil, core.ErrEmptyInput
	}

	out := make([]rental.EnrichedRecord, len(raw))
	for i := range raw {
		rec, err := DeriveRecord(raw[i])
		if err != nil {
			return nil, core.AtRow(err, i)
		}
		out[i] = rec
	}
	return out, nil
}

// DeriveRecord enriches a single observation.
func DeriveRecord(r rental.RawRecord) (rental.EnrichedRecord, error) {
	if err := checkCounts(r); err != nil {
		return rental.EnrichedRecord{}, err
	}

	e := rental.EnrichedRecord{RawRecord: r}
	ts := r.Timestamp
	e.DayName = ts.Weekday().String()
	e.Hour = ts.Hour()
	e.Month = int(ts.Month())
	e.MonthName = ts.Month().String()
	e.Year = ts.Year()
	e.Date = ts.Format(rental.DateLayout)

	var err error
	if e.SeasonLabel, err = rental.SeasonLabel(r.Season); err != nil {
		return rental.EnrichedRecord{}, err
	}
	if e.WeatherLabel, err = rental.WeatherLabel(r.Weather); err != nil {
		return rental.EnrichedRecord{}, err
	}
	if e.HolidayLabel, err = rental.FlagLabel("holiday", r.Holiday); err != nil {
		return rental.EnrichedRecord{}, err
	}
	if e.WorkingDayLabel, err = rental.FlagLabel("workingday", r.WorkingDay); err != nil {
		return rental.EnrichedRecord{}, err
	}
	if e.TemperatureBand, err = rental.TemperatureBand(r.ATemp); err != nil {
		return rental.EnrichedRecord{}, err
	}
	if e.HumidityBucket, err = rental.HumidityBucket(r.Humidity); err != nil {
		return rental.EnrichedRecord{}, err
	}
	if e.WindspeedBand, err = rental.WindspeedBand(r.Windspeed); err != nil {
		return rental.EnrichedRecord{}, err
	}
	return e, nil
}

func checkCounts(r rental.RawRecord) error {
	if math.IsNaN(r.Temp) || math.IsInf(r.Temp, 0) {
		return core.NewDomainError("temp", r.Temp, "not a finite number")
	}
	if r.Casual < 0 {
		return core.NewDomainError("casual", float64(r.Casual), "must be non-negative")
	}
	if r.Registered < 0 {
		return core.NewDomainError("registered", float64(r.Registered), "must be non-negative")
	}
	if r.Count != r.Casual+r.Registered {
		return core.NewDomainError("count", float64(r.Count),
			fmt.Sprintf("expected casual+registered=%d", r.Casual+r.Registered))
	}
	return nil
}
