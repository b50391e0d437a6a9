// Package export writes enriched records and summary tables to CSV, XLSX
// workbooks and Parquet.
package export

import (
	"fmt"

	"bikestats/domain/core"
	"bikestats/domain/rental"
	"bikestats/internal/hypothesis"
	"bikestats/internal/summary"
)

// Table is a named rectangular table. Cells are string, int, float64,
// *float64 (nil renders empty) or bool.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// RecordsTable lays out enriched records: raw columns, then derived ones.
func RecordsTable(records []rental.EnrichedRecord) Table {
	columns := append(append([]string{}, rental.RawColumns...), rental.DerivedColumns...)
	rows := make([][]interface{}, len(records))
	for i := range records {
		r := &records[i]
		rows[i] = []interface{}{
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Season, r.Holiday, r.WorkingDay, r.Weather,
			r.Temp, r.ATemp, r.Humidity, r.Windspeed,
			r.Casual, r.Registered, r.Count,
			r.DayName, r.Hour, r.Month, r.MonthName, r.Year, r.Date,
			r.SeasonLabel, r.WeatherLabel, r.HolidayLabel, r.WorkingDayLabel,
			r.TemperatureBand, r.HumidityBucket, r.WindspeedBand,
		}
	}
	return Table{Name: "data", Columns: columns, Rows: rows}
}

// DescribeTable lays out describe() rows, one per measure.
func DescribeTable(rows []summary.DescribeRow) Table {
	t := Table{Name: "summary", Columns: []string{"measure", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}}
	for _, d := range rows {
		t.Rows = append(t.Rows, []interface{}{string(d.Measure), d.Count, d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max})
	}
	return t
}

// MatrixTable lays out a labelled matrix with the row label first.
func MatrixTable(name string, m *summary.Matrix) Table {
	t := Table{Name: name, Columns: append([]string{""}, m.Cols...)}
	for i, label := range m.Rows {
		row := make([]interface{}, 0, len(m.Cols)+1)
		row = append(row, label)
		for _, v := range m.Values[i] {
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// GroupMeansTable lays out the mean of measure per level of factor.
func GroupMeansTable(factor rental.Factor, measure rental.Measure, means []summary.LevelMean) Table {
	t := Table{
		Name:    fmt.Sprintf("%s_by_%s", measure, factor),
		Columns: []string{string(factor), "n", "mean_" + string(measure)},
	}
	for _, m := range means {
		t.Rows = append(t.Rows, []interface{}{m.Level, m.N, m.Mean})
	}
	return t
}

// CountsTable lays out value counts of a factor.
func CountsTable(c *summary.Counts) Table {
	t := Table{Name: string(c.Factor) + "_counts", Columns: []string{string(c.Factor), "count", "share"}}
	for _, l := range c.Levels {
		t.Rows = append(t.Rows, []interface{}{l.Level, l.Count, l.Share})
	}
	return t
}

// DailyTable lays out daily totals.
func DailyTable(days []summary.DailyTotal) Table {
	t := Table{Name: "daily", Columns: []string{"date", "count"}}
	for _, d := range days {
		t.Rows = append(t.Rows, []interface{}{d.Date, d.Count})
	}
	return t
}

// UserSplitTable lays out mean casual and registered rentals per level.
func UserSplitTable(factor rental.Factor, rows []summary.UserSplitRow) Table {
	t := Table{Name: "users", Columns: []string{string(factor), "casual", "registered"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{r.Level, r.Casual, r.Registered})
	}
	return t
}

// ContingencyTable lays out a crosstab with the row factor's levels first.
func ContingencyTable(a, b rental.Factor, ct *summary.Table) Table {
	t := Table{Name: "crosstab", Columns: append([]string{fmt.Sprintf("%s/%s", a, b)}, ct.Cols...)}
	for i, label := range ct.Rows {
		row := make([]interface{}, 0, len(ct.Cols)+1)
		row = append(row, label)
		for _, n := range ct.Counts[i] {
			row = append(row, n)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ResultsTable lays out test results, one row per test.
func ResultsTable(results []*hypothesis.TestResult) Table {
	t := Table{Name: "tests", Columns: []string{"test", "kind", "statistic", "df", "denominator_df", "p_value", "alpha", "decision"}}
	for _, r := range results {
		t.Rows = append(t.Rows, []interface{}{
			r.Name, string(r.Kind), r.Statistic, r.DegreesOfFreedom, r.DenominatorDF, r.PValue, r.Alpha, string(r.Decision),
		})
	}
	return t
}

// UnsupportedFormat reports an export format this package cannot write.
func UnsupportedFormat(format string) error {
	return fmt.Errorf("%w: export format %q", core.ErrNotFound, format)
}

// UnknownTable reports a summary table name that does not exist.
func UnknownTable(name string) error {
	return fmt.Errorf("%w: table %q", core.ErrNotFound, name)
}
