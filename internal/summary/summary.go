// Package summary computes the descriptive tables shown alongside the
// hypothesis tests: describe(), value counts, group means, the
// casual/registered split, daily totals and the correlation matrix.
package summary

import (
	"math"
	"sort"

	"bikestats/domain/core"
	"bikestats/domain/rental"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DescribeRow holds the pandas-style describe() statistics of one measure.
type DescribeRow struct {
	Measure rental.Measure `json:"measure"`
	Count   int            `json:"count"`
	Mean    float64        `json:"mean"`
	Std     float64        `json:"std"`
	Min     float64        `json:"min"`
	Q25     float64        `json:"q25"`
	Median  float64        `json:"median"`
	Q75     float64        `json:"q75"`
	Max     float64        `json:"max"`
}

// Describe summarises each measure. Std is the sample standard deviation.
// An empty measures list describes every measure.
func Describe(records []rental.EnrichedRecord, measures []rental.Measure) ([]DescribeRow, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyInput
	}
	if len(measures) == 0 {
		measures = rental.Measures
	}

	rows := make([]DescribeRow, len(measures))
	for i, m := range measures {
		data := m.Values(records)
		mean, _ := stats.Mean(data)
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		median, _ := stats.Median(data)
		sorted := append([]float64(nil), data...)
		sort.Float64s(sorted)
		q25, q75 := quantile(sorted, 0.25), quantile(sorted, 0.75)
		var std float64
		if len(data) > 1 {
			std, _ = stats.StandardDeviationSample(data)
		}
		rows[i] = DescribeRow{
			Measure: m,
			Count:   len(data),
			Mean:    mean,
			Std:     std,
			Min:     min,
			Q25:     q25,
			Median:  median,
			Q75:     q75,
			Max:     max,
		}
	}
	return rows, nil
}

// quantile interpolates linearly between the order statistics around
// (n-1)*p, the default of pandas and numpy. sorted must be ascending and
// non-empty.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// LevelCount is the number of records at one level of a factor.
type LevelCount struct {
	Level string  `json:"level"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// Counts is the distribution of a factor over its declared levels.
type Counts struct {
	Factor rental.Factor `json:"factor"`
	Levels []LevelCount  `json:"levels"`
	Mode   string        `json:"mode"`
}

// ValueCounts counts records per declared level, in declared order. Mode
// is the first level with the highest count.
func ValueCounts(records []rental.EnrichedRecord, factor rental.Factor) (*Counts, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyInput
	}
	levels := factor.Levels()
	if levels == nil {
		return nil, core.NewInvalidSpecError("factor", factor, "unknown factor")
	}
	index := indexOf(levels)
	counts := make([]int, len(levels))
	for i := range records {
		if j, ok := index[factor.Level(&records[i])]; ok {
			counts[j]++
		}
	}

	out := &Counts{Factor: factor, Levels: make([]LevelCount, len(levels))}
	best := -1
	for i, l := range levels {
		out.Levels[i] = LevelCount{Level: l, Count: counts[i], Share: float64(counts[i]) / float64(len(records))}
		if counts[i] > best {
			best = counts[i]
			out.Mode = l
		}
	}
	return out, nil
}

// LevelMean is the mean of a measure at one level of a factor.
type LevelMean struct {
	Level string  `json:"level"`
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
}

// GroupMean averages a measure per declared level. Levels without records
// are omitted.
func GroupMean(records []rental.EnrichedRecord, factor rental.Factor, measure rental.Measure) ([]LevelMean, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyInput
	}
	if factor.Levels() == nil {
		return nil, core.NewInvalidSpecError("factor", factor, "unknown factor")
	}
	levels, groups := rental.Partition(records, factor, measure)
	out := make([]LevelMean, 0, len(levels))
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		mean, _ := stats.Mean(g)
		out = append(out, LevelMean{Level: levels[i], N: len(g), Mean: mean})
	}
	return out, nil
}

// UserSplitRow is the mean casual and registered rentals at one level.
type UserSplitRow struct {
	Level      string  `json:"level"`
	Casual     float64 `json:"casual"`
	Registered float64 `json:"registered"`
}

// UserSplit compares casual and registered users across a factor.
func UserSplit(records []rental.EnrichedRecord, factor rental.Factor) ([]UserSplitRow, error) {
	casual, err := GroupMean(records, factor, rental.MeasureCasual)
	if err != nil {
		return nil, err
	}
	registered, err := GroupMean(records, factor, rental.MeasureRegistered)
	if err != nil {
		return nil, err
	}
	out := make([]UserSplitRow, len(casual))
	for i := range casual {
		out[i] = UserSplitRow{Level: casual[i].Level, Casual: casual[i].Mean, Registered: registered[i].Mean}
	}
	return out, nil
}

// DailyTotal is the total rental count of one calendar day.
type DailyTotal struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyTotals sums count by date, chronologically.
func DailyTotals(records []rental.EnrichedRecord) []DailyTotal {
	totals := make(map[string]int)
	for i := range records {
		totals[records[i].Date] += records[i].Count
	}
	out := make([]DailyTotal, 0, len(totals))
	for date, n := range totals {
		out = append(out, DailyTotal{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Matrix is a labelled grid of optional values; nil marks an undefined cell.
type Matrix struct {
	Rows   []string     `json:"rows"`
	Cols   []string     `json:"cols"`
	Values [][]*float64 `json:"values"`
}

// HourByDay is the mean count for each weekday and hour.
func HourByDay(records []rental.EnrichedRecord) *Matrix {
	days := rental.FactorDayName.Levels()
	hours := rental.FactorHour.Levels()
	dayIndex := indexOf(days)

	sums := make([][]float64, len(days))
	ns := make([][]int, len(days))
	for i := range days {
		sums[i] = make([]float64, len(hours))
		ns[i] = make([]int, len(hours))
	}
	for i := range records {
		d, ok := dayIndex[records[i].DayName]
		if !ok {
			continue
		}
		sums[d][records[i].Hour] += float64(records[i].Count)
		ns[d][records[i].Hour]++
	}

	m := &Matrix{Rows: days, Cols: hours, Values: make([][]*float64, len(days))}
	for i := range days {
		m.Values[i] = make([]*float64, len(hours))
		for h := range hours {
			if ns[i][h] > 0 {
				m.Values[i][h] = floatPtr(sums[i][h] / float64(ns[i][h]))
			}
		}
	}
	return m
}

// Correlation is the Pearson correlation matrix of the measures. Cells
// involving a constant measure are nil. An empty measures list uses every
// measure.
func Correlation(records []rental.EnrichedRecord, measures []rental.Measure) (*Matrix, error) {
	if len(records) < 2 {
		return nil, core.ErrEmptyInput
	}
	if len(measures) == 0 {
		measures = rental.Measures
	}

	columns := make([][]float64, len(measures))
	names := make([]string, len(measures))
	for i, m := range measures {
		columns[i] = m.Values(records)
		names[i] = string(m)
	}

	m := &Matrix{Rows: names, Cols: names, Values: make([][]*float64, len(measures))}
	for i := range measures {
		m.Values[i] = make([]*float64, len(measures))
	}
	for i := range measures {
		for j := i; j < len(measures); j++ {
			r := stat.Correlation(columns[i], columns[j], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			if i == j {
				r = 1
			}
			m.Values[i][j] = floatPtr(r)
			m.Values[j][i] = floatPtr(r)
		}
	}
	return m, nil
}

// Table is the contingency table of two factors over their declared levels.
type Table struct {
	Rows   []string `json:"rows"`
	Cols   []string `json:"cols"`
	Counts [][]int  `json:"counts"`
}

// Crosstab counts records per combination of two factors.
func Crosstab(records []rental.EnrichedRecord, a, b rental.Factor) *Table {
	rows, cols, counts := rental.Crosstab(records, a, b)
	return &Table{Rows: rows, Cols: cols, Counts: counts}
}

func indexOf(levels []string) map[string]int {
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		index[l] = i
	}
	return index
}

func floatPtr(v float64) *float64 {
	return &v
}
