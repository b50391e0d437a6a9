package rental

import (
	"errors"
	"testing"

	"bikestats/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(season string, weather string, count int) EnrichedRecord {
	r := EnrichedRecord{SeasonLabel: season, WeatherLabel: weather}
	r.Count = count
	return r
}

func TestPartition_DeclaredOrderAndEmptyLevels(t *testing.T) {
	records := []EnrichedRecord{
		record("Winter", "Clear", 10),
		record("Spring", "Clear", 3),
		record("Winter", "Cloudy", 20),
	}

	levels, groups := Partition(records, FactorSeason, MeasureCount)
	assert.Equal(t, []string{"Spring", "Summer", "Fall", "Winter"}, levels)
	require.Len(t, groups, 4)
	assert.Equal(t, []float64{3}, groups[0])
	assert.Empty(t, groups[1])
	assert.Empty(t, groups[2])
	assert.Equal(t, []float64{10, 20}, groups[3])
}

func TestCrosstab(t *testing.T) {
	records := []EnrichedRecord{
		record("Winter", "Clear", 1),
		record("Winter", "Clear", 1),
		record("Spring", "Heavy Rain", 1),
	}
	rows, cols, counts := Crosstab(records, FactorSeason, FactorWeather)
	assert.Len(t, rows, 4)
	assert.Len(t, cols, 4)
	assert.Equal(t, 2, counts[3][0])
	assert.Equal(t, 1, counts[0][3])
	assert.Equal(t, 0, counts[1][1])
}

func TestParseFactorAndMeasure(t *testing.T) {
	f, err := ParseFactor(" WorkingDay ")
	require.NoError(t, err)
	assert.Equal(t, FactorWorkingDay, f)

	_, err = ParseFactor("colour")
	assert.True(t, errors.Is(err, core.ErrInvalidSpec))

	m, err := ParseMeasure("registered")
	require.NoError(t, err)
	assert.Equal(t, MeasureRegistered, m)

	_, err = ParseMeasure("profit")
	assert.True(t, errors.Is(err, core.ErrInvalidSpec))
}

func TestFactorLevelsCoverHours(t *testing.T) {
	r := EnrichedRecord{Hour: 17}
	assert.Equal(t, "17", FactorHour.Level(&r))
	assert.Len(t, FactorHour.Levels(), 24)
}
