package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"bikestats/domain/core"
	"bikestats/domain/rental"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawAt(ts string) rental.RawRecord {
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		panic(err)
	}
	return rental.RawRecord{
		Timestamp:  t,
		Season:     1,
		Holiday:    0,
		WorkingDay: 1,
		Weather:    1,
		Temp:       9.84,
		ATemp:      14.395,
		Humidity:   81,
		Windspeed:  0,
		Casual:     3,
		Registered: 13,
		Count:      16,
	}
}

func TestDerive_CalendarFields(t *testing.T) {
	out, err := Derive([]rental.RawRecord{rawAt("2011-01-01 17:00:00")})
	require.NoError(t, err)
	require.Len(t, out, 1)

	e := out[0]
	assert.Equal(t, "Saturday", e.DayName)
	assert.Equal(t, 17, e.Hour)
	assert.Equal(t, 1, e.Month)
	assert.Equal(t, "January", e.MonthName)
	assert.Equal(t, 2011, e.Year)
	assert.Equal(t, "2011-01-01", e.Date)

	assert.Equal(t, "Spring", e.SeasonLabel)
	assert.Equal(t, "Clear", e.WeatherLabel)
	assert.Equal(t, "No", e.HolidayLabel)
	assert.Equal(t, "Yes", e.WorkingDayLabel)
	assert.Equal(t, rental.TempLow, e.TemperatureBand)
	assert.Equal(t, "90%", e.HumidityBucket)
	assert.Equal(t, rental.WindLow, e.WindspeedBand)
}

func TestDerive_PreservesOrderAndOriginals(t *testing.T) {
	raw := []rental.RawRecord{
		rawAt("2011-03-01 00:00:00"),
		rawAt("2011-01-01 00:00:00"),
		rawAt("2012-12-31 23:00:00"),
	}
	raw[1].Season = 4
	raw[2].Weather = 3

	out, err := Derive(raw)
	require.NoError(t, err)
	require.Len(t, out, len(raw))
	for i := range raw {
		assert.Equal(t, raw[i], out[i].RawRecord, "row %d", i)
	}
	assert.Equal(t, "Winter", out[1].SeasonLabel)
	assert.Equal(t, "Little Rain", out[2].WeatherLabel)
}

func TestDerive_Deterministic(t *testing.T) {
	raw := []rental.RawRecord{rawAt("2011-06-15 08:00:00"), rawAt("2011-06-15 09:00:00")}
	a, err := Derive(raw)
	require.NoError(t, err)
	b, err := Derive(raw)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDerive_EmptyInput(t *testing.T) {
	_, err := Derive(nil)
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestDerive_Failures(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *rental.RawRecord)
		kind  error
		field string
	}{
		{"unknown season", func(r *rental.RawRecord) { r.Season = 5 }, core.ErrMapping, "season"},
		{"unknown weather", func(r *rental.RawRecord) { r.Weather = 0 }, core.ErrMapping, "weather"},
		{"bad holiday flag", func(r *rental.RawRecord) { r.Holiday = 2 }, core.ErrMapping, "holiday"},
		{"humidity above range", func(r *rental.RawRecord) { r.Humidity = 101 }, core.ErrDomain, "humidity"},
		{"negative windspeed", func(r *rental.RawRecord) { r.Windspeed = -0.5 }, core.ErrDomain, "windspeed"},
		{"count mismatch", func(r *rental.RawRecord) { r.Count = 99 }, core.ErrDomain, "count"},
		{"negative casual", func(r *rental.RawRecord) { r.Casual = -1; r.Count = 12 }, core.ErrDomain, "casual"},
		{"nan temperature", func(r *rental.RawRecord) { r.Temp = math.NaN() }, core.ErrDomain, "temp"},
		{"infinite feels-like temperature", func(r *rental.RawRecord) { r.ATemp = math.Inf(1) }, core.ErrDomain, "atemp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []rental.RawRecord{rawAt("2011-01-01 00:00:00"), rawAt("2011-01-01 01:00:00")}
			tt.edit(&raw[1])

			out, err := Derive(raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.kind))
			assert.True(t, core.IsDerivationError(err))

			var fe *core.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, 1, fe.Row)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}
