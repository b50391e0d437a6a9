package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bikestats/domain/core"
	"bikestats/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig(hours int) testkit.RentalGeneratorConfig {
	config := testkit.DefaultRentalConfig()
	config.Hours = hours
	return config
}

func TestRecordLoader_CSVRoundTrip(t *testing.T) {
	want := testkit.NewRentalDataGenerator(sampleConfig(48)).GenerateRecords()
	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, testkit.WriteCSVFile(path, want))

	got, err := NewRecordLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecordLoader_XLSXRoundTrip(t *testing.T) {
	want := testkit.NewRentalDataGenerator(sampleConfig(30)).GenerateRecords()
	path := filepath.Join(t.TempDir(), "train.xlsx")
	require.NoError(t, testkit.WriteXLSXFile(path, want))

	got, err := NewRecordLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecordLoader_HeaderCaseAndSort(t *testing.T) {
	content := "DateTime,Season,Holiday,WorkingDay,Weather,Temp,ATemp,Humidity,Windspeed,Casual,Registered,Count,extra\n" +
		"2011-01-01 01:00:00,1,0,0,1,9.02,13.635,80,0,8,32,40,x\n" +
		"2011-01-01 00:00,1,0,0,1,9.84,14.395,81,0.0,3,13,16,y\n"
	path := filepath.Join(t.TempDir(), "mixed.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewRecordLoader(path, WithSortByTime(true)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), got[0].Timestamp)
	assert.Equal(t, 16, got[0].Count)
	assert.Equal(t, 40, got[1].Count)

	unsorted, err := NewRecordLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, unsorted[0].Count)
}

func TestRecordLoader_Failures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing column", "datetime,season\n2011-01-01 00:00:00,1\n", "missing columns"},
		{"bad integer", "datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count\n" +
			"2011-01-01 00:00:00,one,0,0,1,9.84,14.395,81,0,3,13,16\n", "line 2: column season"},
		{"bad timestamp", "datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count\n" +
			"yesterday,1,0,0,1,9.84,14.395,81,0,3,13,16\n", "column datetime"},
		{"nan temperature", "datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count\n" +
			"2011-01-01 00:00:00,1,0,0,1,NaN,14.395,81,0,3,13,16\n", "column temp value \"NaN\": not a finite number"},
		{"infinite windspeed", "datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count\n" +
			"2011-01-01 00:00:00,1,0,0,1,9.84,14.395,81,+Inf,3,13,16\n", "column windspeed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			records, err := NewRecordLoader(path).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, core.IsLoadError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRecordLoader_EmptyAndMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count\n"), 0o644))

	_, err := NewRecordLoader(path).Load(context.Background())
	assert.True(t, errors.Is(err, core.ErrLoad))
	assert.True(t, errors.Is(err, core.ErrEmptyInput))

	_, err = NewRecordLoader(filepath.Join(dir, "absent.csv")).Load(context.Background())
	assert.True(t, core.IsLoadError(err))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2012, 7, 4, 17, 0, 0, 0, time.UTC)
	for _, in := range []string{"2012-07-04 17:00:00", "2012-07-04 17:00", "2012-07-04T17:00:00", "2012-07-04T17:00:00Z", "41094.7083333333"} {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}
}

func TestParseTimestamp_RejectsNonFiniteSerials(t *testing.T) {
	for _, in := range []string{"NaN", "Inf", "-Inf"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, errBadTimestamp, in)
	}
}
