package rental

import "time"

// RawRecord is one hourly observation as it appears in the source file.
type RawRecord struct {
	Timestamp  time.Time `json:"datetime"`
	Season     int       `json:"season"`
	Holiday    int       `json:"holiday"`
	WorkingDay int       `json:"workingday"`
	Weather    int       `json:"weather"`
	Temp       float64   `json:"temp"`
	ATemp      float64   `json:"atemp"`
	Humidity   float64   `json:"humidity"`
	Windspeed  float64   `json:"windspeed"`
	Casual     int       `json:"casual"`
	Registered int       `json:"registered"`
	Count      int       `json:"count"`
}

// EnrichedRecord is a RawRecord plus the calendar fields and categorical
// buckets derived from it. The embedded RawRecord is never modified.
type EnrichedRecord struct {
	RawRecord

	DayName   string `json:"day_name"`
	Hour      int    `json:"hour"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Year      int    `json:"year"`
	Date      string `json:"date"`

	SeasonLabel     string `json:"season_label"`
	WeatherLabel    string `json:"weather_label"`
	HolidayLabel    string `json:"holiday_label"`
	WorkingDayLabel string `json:"workingday_label"`

	TemperatureBand string `json:"temperature_band"`
	HumidityBucket  string `json:"humidity_bucket"`
	WindspeedBand   string `json:"windspeed_band"`
}

// DateLayout is the layout of EnrichedRecord.Date.
const DateLayout = "2006-01-02"

// Column names of the source file, in file order.
var RawColumns = []string{
	"datetime", "season", "holiday", "workingday", "weather",
	"temp", "atemp", "humidity", "windspeed",
	"casual", "registered", "count",
}

// DerivedColumns lists the derived fields in export order.
var DerivedColumns = []string{
	"day_name", "hour", "month", "month_name", "year", "date",
	"season_label", "weather_label", "holiday_label", "workingday_label",
	"temperature_band", "humidity_bucket", "windspeed_band",
}
