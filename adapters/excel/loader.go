package excel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bikestats/domain/core"
	"bikestats/domain/rental"

	"github.com/xuri/excelize/v2"
)

// TimestampLayouts are tried in order when parsing the datetime column.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var (
	errNotInteger   = errors.New("not an integer")
	errNotFinite    = errors.New("not a finite number")
	errBadTimestamp = errors.New("unrecognised timestamp")
)

// RecordLoader reads a rental file (CSV or XLSX) into raw records.
type RecordLoader struct {
	path       string
	sortByTime bool
}

// LoaderOption configures a RecordLoader.
type LoaderOption func(*RecordLoader)

// WithSortByTime orders the loaded records chronologically.
func WithSortByTime(enabled bool) LoaderOption {
	return func(l *RecordLoader) {
		l.sortByTime = enabled
	}
}

// NewRecordLoader creates a loader for the file at path. The format is
// chosen by extension: .csv is read as CSV, anything else as XLSX.
func NewRecordLoader(path string, opts ...LoaderOption) *RecordLoader {
	l := &RecordLoader{path: path}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the path the loader reads from.
func (l *RecordLoader) Source() string {
	return l.path
}

// Load reads every row of the file. Any failure is returned as a load
// error wrapping the cause; no partial result is returned.
func (l *RecordLoader) Load(ctx context.Context) ([]rental.RawRecord, error) {
	data, err := NewDataReader(l.path).ReadData(ctx)
	if err != nil {
		return nil, core.NewLoadError(l.path, err)
	}
	records, err := ParseRecords(ctx, data)
	if err != nil {
		return nil, core.NewLoadError(l.path, err)
	}
	if l.sortByTime {
		SortByTime(records)
	}
	return records, nil
}

// ParseRecords converts tabular rows into raw records. Column names are
// matched case-insensitively; extra columns are ignored.
func ParseRecords(ctx context.Context, data *ExcelData) ([]rental.RawRecord, error) {
	present := make(map[string]bool, len(data.Headers))
	for _, h := range data.Headers {
		present[strings.ToLower(h)] = true
	}
	var missing []string
	for _, col := range rental.RawColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	if len(data.Rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	records := make([]rental.RawRecord, len(data.Rows))
	for i, row := range data.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineOf(data, i), err)
		}
		records[i] = rec
	}
	return records, nil
}

func lineOf(data *ExcelData, i int) int {
	if i < len(data.Lines) {
		return data.Lines[i]
	}
	return i + 2
}

func parseRow(row RawRowData) (rental.RawRecord, error) {
	var rec rental.RawRecord
	p := rowParser{row: row}

	rec.Timestamp = p.timestamp("datetime")
	rec.Season = p.integer("season")
	rec.Holiday = p.integer("holiday")
	rec.WorkingDay = p.integer("workingday")
	rec.Weather = p.integer("weather")
	rec.Temp = p.float("temp")
	rec.ATemp = p.float("atemp")
	rec.Humidity = p.float("humidity")
	rec.Windspeed = p.float("windspeed")
	rec.Casual = p.integer("casual")
	rec.Registered = p.integer("registered")
	rec.Count = p.integer("count")
	return rec, p.err
}

// rowParser records the first conversion failure and ignores the rest.
type rowParser struct {
	row RawRowData
	err error
}

func (p *rowParser) fail(column, value string, cause error) {
	if p.err == nil {
		p.err = fmt.Errorf("column %s value %q: %w", column, value, cause)
	}
}

func (p *rowParser) float(column string) float64 {
	value := p.row[column]
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(column, value, err)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(column, value, errNotFinite)
		return 0
	}
	return v
}

func (p *rowParser) integer(column string) int {
	value := p.row[column]
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	// Spreadsheets sometimes store integer codes as "1.0".
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		p.fail(column, value, errNotInteger)
		return 0
	}
	return int(f)
}

func (p *rowParser) timestamp(column string) time.Time {
	value := p.row[column]
	ts, err := ParseTimestamp(value)
	if err != nil {
		p.fail(column, value, err)
	}
	return ts
}

// ParseTimestamp parses a datetime cell. Text is tried against
// TimestampLayouts as UTC wall-clock time; a bare number is treated as an
// Excel date serial.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range TimestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(serial) && !math.IsInf(serial, 0) {
		ts, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		// Serials carry sub-second float noise.
		return ts.Round(time.Second).UTC(), nil
	}
	return time.Time{}, errBadTimestamp
}

// SortByTime orders records chronologically, keeping the file order of
// equal timestamps.
func SortByTime(records []rental.RawRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
