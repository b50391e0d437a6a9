package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"bikestats/domain/rental"

	"github.com/xuri/excelize/v2"
)

// RentalGeneratorConfig configures the rental data generator
type RentalGeneratorConfig struct {
	Start          time.Time `json:"start"`
	Hours          int       `json:"hours"`
	Seed           int64     `json:"seed"`
	HeavyRainEvery int       `json:"heavy_rain_every"` // force weather 4 every N hours; 0 disables
}

// DefaultRentalConfig returns a year of hourly data starting 2011-01-01.
func DefaultRentalConfig() RentalGeneratorConfig {
	return RentalGeneratorConfig{
		Start:          time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		Hours:          24 * 365,
		Seed:           42,
		HeavyRainEvery: 997,
	}
}

// RentalDataGenerator generates plausible hourly rental observations.
// Output is fully determined by the config.
type RentalDataGenerator struct {
	config RentalGeneratorConfig
	rng    *rand.Rand
}

// NewRentalDataGenerator creates a new rental data generator
func NewRentalDataGenerator(config RentalGeneratorConfig) *RentalDataGenerator {
	return &RentalDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var holidays = map[string]bool{
	"01-01": true, "01-17": true, "02-21": true, "04-15": true, "05-30": true,
	"07-04": true, "09-05": true, "10-10": true, "11-11": true, "11-24": true, "12-26": true,
}

// seasonTemp is the mean temperature of each season code.
var seasonTemp = map[int]float64{1: 12, 2: 23, 3: 29, 4: 17}

// GenerateRecords generates config.Hours consecutive hourly records.
func (g *RentalDataGenerator) GenerateRecords() []rental.RawRecord {
	records := make([]rental.RawRecord, 0, g.config.Hours)
	for i := 0; i < g.config.Hours; i++ {
		ts := g.config.Start.Add(time.Duration(i) * time.Hour)
		records = append(records, g.record(i, ts))
	}
	return records
}

func (g *RentalDataGenerator) record(i int, ts time.Time) rental.RawRecord {
	season := int(ts.Month()-1)/3 + 1
	holiday := 0
	if holidays[ts.Format("01-02")] {
		holiday = 1
	}
	workingDay := 0
	if wd := ts.Weekday(); wd != time.Saturday && wd != time.Sunday && holiday == 0 {
		workingDay = 1
	}

	weather := g.weather()
	if g.config.HeavyRainEvery > 0 && i%g.config.HeavyRainEvery == g.config.HeavyRainEvery-1 {
		weather = 4
	}

	temp := round2(clamp(seasonTemp[season]+g.rng.NormFloat64()*4+diurnal(ts.Hour()), 0.8, 41))
	atemp := round2(clamp(temp+2.5+g.rng.NormFloat64()*1.5, 0.7, 45.5))
	humidity := math.Round(clamp(62+g.rng.NormFloat64()*18+float64(weather-1)*9, 0, 100))
	windspeed := round2(math.Abs(g.rng.NormFloat64()*9 + 11))

	demand := hourlyDemand(ts.Hour(), workingDay == 1)
	demand *= []float64{0, 0.6, 1.1, 1.2, 1.0}[season]
	demand *= []float64{0, 1.0, 0.85, 0.45, 0.2}[weather]
	demand *= 1 + (atemp-20)/80
	demand *= 1 + g.rng.NormFloat64()*0.15
	count := int(math.Max(1, math.Round(demand)))

	casualShare := 0.12
	if workingDay == 0 {
		casualShare = 0.35
	}
	casual := int(math.Round(float64(count) * clamp(casualShare+g.rng.NormFloat64()*0.05, 0, 1)))

	return rental.RawRecord{
		Timestamp:  ts,
		Season:     season,
		Holiday:    holiday,
		WorkingDay: workingDay,
		Weather:    weather,
		Temp:       temp,
		ATemp:      atemp,
		Humidity:   humidity,
		Windspeed:  windspeed,
		Casual:     casual,
		Registered: count - casual,
		Count:      count,
	}
}

func (g *RentalDataGenerator) weather() int {
	switch x := g.rng.Float64(); {
	case x < 0.66:
		return 1
	case x < 0.92:
		return 2
	default:
		return 3
	}
}

// hourlyDemand has commute peaks on working days and a midday hump otherwise.
func hourlyDemand(hour int, workingDay bool) float64 {
	h := float64(hour)
	if workingDay {
		return 20 + 420*bump(h, 8, 1.2) + 480*bump(h, 17.5, 1.5) + 120*bump(h, 12.5, 2.5)
	}
	return 15 + 380*bump(h, 14, 3.5)
}

func bump(x, centre, width float64) float64 {
	d := (x - centre) / width
	return math.Exp(-d * d / 2)
}

func diurnal(hour int) float64 {
	return 4 * math.Sin(float64(hour-9)*math.Pi/12)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteCSV writes records in the source file layout.
func WriteCSV(w io.Writer, records []rental.RawRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rental.RawColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(rawRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to a new CSV file at path.
func WriteCSVFile(path string, records []rental.RawRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteXLSXFile writes records to the first sheet of a new workbook.
func WriteXLSXFile(path string, records []rental.RawRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(rental.RawColumns))
	for i, c := range rental.RawColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		cells := rawRow(r)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func rawRow(r rental.RawRecord) []string {
	return []string{
		r.Timestamp.Format("2006-01-02 15:04:05"),
		strconv.Itoa(r.Season),
		strconv.Itoa(r.Holiday),
		strconv.Itoa(r.WorkingDay),
		strconv.Itoa(r.Weather),
		strconv.FormatFloat(r.Temp, 'f', -1, 64),
		strconv.FormatFloat(r.ATemp, 'f', -1, 64),
		strconv.FormatFloat(r.Humidity, 'f', -1, 64),
		strconv.FormatFloat(r.Windspeed, 'f', -1, 64),
		strconv.Itoa(r.Casual),
		strconv.Itoa(r.Registered),
		strconv.Itoa(r.Count),
	}
}
