package summary

import (
	"bikestats/domain/core"
	"bikestats/domain/rental"
)

// Insights are the headline numbers of the overview page.
type Insights struct {
	Records         int     `json:"records"`
	TotalRentals    int     `json:"total_rentals"`
	MeanHourly      float64 `json:"mean_hourly"`
	CasualShare     float64 `json:"casual_share"`
	RegisteredShare float64 `json:"registered_share"`
	FirstDate       string  `json:"first_date"`
	LastDate        string  `json:"last_date"`

	PeakHour     int       `json:"peak_hour"`
	PeakHourMean float64   `json:"peak_hour_mean"`
	BestSeason   LevelMean `json:"best_season"`
	WorstSeason  LevelMean `json:"worst_season"`
	BestWeather  LevelMean `json:"best_weather"`
	WorstWeather LevelMean `json:"worst_weather"`
}

// ComputeInsights derives the overview figures, ranking by mean count.
func ComputeInsights(records []rental.EnrichedRecord) (*Insights, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyInput
	}

	in := &Insights{Records: len(records), FirstDate: records[0].Date, LastDate: records[0].Date}
	var casual, registered int
	for i := range records {
		r := &records[i]
		in.TotalRentals += r.Count
		casual += r.Casual
		registered += r.Registered
		if r.Date < in.FirstDate {
			in.FirstDate = r.Date
		}
		if r.Date > in.LastDate {
			in.LastDate = r.Date
		}
	}
	in.MeanHourly = float64(in.TotalRentals) / float64(len(records))
	if in.TotalRentals > 0 {
		in.CasualShare = float64(casual) / float64(in.TotalRentals)
		in.RegisteredShare = float64(registered) / float64(in.TotalRentals)
	}

	hours, err := GroupMean(records, rental.FactorHour, rental.MeasureCount)
	if err != nil {
		return nil, err
	}
	peak, _ := extremes(hours)
	in.PeakHourMean = peak.Mean
	for h, l := range rental.FactorHour.Levels() {
		if l == peak.Level {
			in.PeakHour = h
		}
	}

	seasons, err := GroupMean(records, rental.FactorSeason, rental.MeasureCount)
	if err != nil {
		return nil, err
	}
	in.BestSeason, in.WorstSeason = extremes(seasons)

	weather, err := GroupMean(records, rental.FactorWeather, rental.MeasureCount)
	if err != nil {
		return nil, err
	}
	in.BestWeather, in.WorstWeather = extremes(weather)
	return in, nil
}

// extremes returns the highest and lowest means; ties keep the earlier level.
func extremes(means []LevelMean) (best, worst LevelMean) {
	for i, m := range means {
		if i == 0 || m.Mean > best.Mean {
			best = m
		}
		if i == 0 || m.Mean < worst.Mean {
			worst = m
		}
	}
	return best, worst
}
