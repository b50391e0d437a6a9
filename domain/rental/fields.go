package rental

import (
	"strconv"
	"strings"

	"bikestats/domain/core"
)

// Factor names a categorical field of an EnrichedRecord.
type Factor string

const (
	FactorSeason          Factor = "season"
	FactorWeather         Factor = "weather"
	FactorHoliday         Factor = "holiday"
	FactorWorkingDay      Factor = "workingday"
	FactorTemperatureBand Factor = "temperature_band"
	FactorHumidityBucket  Factor = "humidity_bucket"
	FactorWindspeedBand   Factor = "windspeed_band"
	FactorDayName         Factor = "day_name"
	FactorMonthName       Factor = "month_name"
	FactorHour            Factor = "hour"
)

// Factors lists every supported factor.
var Factors = []Factor{
	FactorSeason, FactorWeather, FactorHoliday, FactorWorkingDay,
	FactorTemperatureBand, FactorHumidityBucket, FactorWindspeedBand,
	FactorDayName, FactorMonthName, FactorHour,
}

var hourLevels = func() []string {
	levels := make([]string, 24)
	for h := range levels {
		levels[h] = strconv.Itoa(h)
	}
	return levels
}()

// ParseFactor resolves a factor name, case-insensitively.
func ParseFactor(name string) (Factor, error) {
	f := Factor(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Factors {
		if f == known {
			return f, nil
		}
	}
	return "", core.NewInvalidSpecError("factor", name, "unknown factor")
}

// Levels returns the declared levels of the factor in display order.
// The returned slice must not be modified.
func (f Factor) Levels() []string {
	switch f {
	case FactorSeason:
		return SeasonLabels
	case FactorWeather:
		return WeatherLabels
	case FactorHoliday, FactorWorkingDay:
		return FlagLabels
	case FactorTemperatureBand:
		return TemperatureBands
	case FactorHumidityBucket:
		return HumidityBuckets
	case FactorWindspeedBand:
		return WindspeedBands
	case FactorDayName:
		return DayNames
	case FactorMonthName:
		return MonthNames
	case FactorHour:
		return hourLevels
	}
	return nil
}

// Level extracts the factor's level from a record.
func (f Factor) Level(r *EnrichedRecord) string {
	switch f {
	case FactorSeason:
		return r.SeasonLabel
	case FactorWeather:
		return r.WeatherLabel
	case FactorHoliday:
		return r.HolidayLabel
	case FactorWorkingDay:
		return r.WorkingDayLabel
	case FactorTemperatureBand:
		return r.TemperatureBand
	case FactorHumidityBucket:
		return r.HumidityBucket
	case FactorWindspeedBand:
		return r.WindspeedBand
	case FactorDayName:
		return r.DayName
	case FactorMonthName:
		return r.MonthName
	case FactorHour:
		return hourLevels[r.Hour]
	}
	return ""
}

// Measure names a numeric field of an EnrichedRecord.
type Measure string

const (
	MeasureCount      Measure = "count"
	MeasureCasual     Measure = "casual"
	MeasureRegistered Measure = "registered"
	MeasureTemp       Measure = "temp"
	MeasureATemp      Measure = "atemp"
	MeasureHumidity   Measure = "humidity"
	MeasureWindspeed  Measure = "windspeed"
)

// Measures lists every supported measure.
var Measures = []Measure{
	MeasureTemp, MeasureATemp, MeasureHumidity, MeasureWindspeed,
	MeasureCasual, MeasureRegistered, MeasureCount,
}

// ParseMeasure resolves a measure name, case-insensitively.
func ParseMeasure(name string) (Measure, error) {
	m := Measure(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Measures {
		if m == known {
			return m, nil
		}
	}
	return "", core.NewInvalidSpecError("measure", name, "unknown measure")
}

// Value extracts the measure from a record.
func (m Measure) Value(r *EnrichedRecord) float64 {
	switch m {
	case MeasureCount:
		return float64(r.Count)
	case MeasureCasual:
		return float64(r.Casual)
	case MeasureRegistered:
		return float64(r.Registered)
	case MeasureTemp:
		return r.Temp
	case MeasureATemp:
		return r.ATemp
	case MeasureHumidity:
		return r.Humidity
	case MeasureWindspeed:
		return r.Windspeed
	}
	return 0
}

// Values extracts the measure from every record, in order.
func (m Measure) Values(records []EnrichedRecord) []float64 {
	out := make([]float64, len(records))
	for i := range records {
		out[i] = m.Value(&records[i])
	}
	return out
}

// Partition splits the measure into one group per declared level of the
// factor. Groups are returned in declared order; a level without records
// yields an empty group.
func Partition(records []EnrichedRecord, factor Factor, measure Measure) ([]string, [][]float64) {
	levels := factor.Levels()
	index := levelIndex(levels)
	groups := make([][]float64, len(levels))
	for i := range records {
		if j, ok := index[factor.Level(&records[i])]; ok {
			groups[j] = append(groups[j], measure.Value(&records[i]))
		}
	}
	return levels, groups
}

// Crosstab counts records over the Cartesian product of two factors'
// declared levels. counts[i][j] is the number of records at rows[i], cols[j].
func Crosstab(records []EnrichedRecord, a, b Factor) (rows, cols []string, counts [][]int) {
	rows, cols = a.Levels(), b.Levels()
	rowIndex, colIndex := levelIndex(rows), levelIndex(cols)
	counts = make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(cols))
	}
	for i := range records {
		ri, okA := rowIndex[a.Level(&records[i])]
		ci, okB := colIndex[b.Level(&records[i])]
		if okA && okB {
			counts[ri][ci]++
		}
	}
	return rows, cols, counts
}

func levelIndex(levels []string) map[string]int {
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		index[l] = i
	}
	return index
}
