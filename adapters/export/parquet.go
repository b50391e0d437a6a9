package export

import (
	"fmt"
	"io"
	"strings"

	"bikestats/domain/rental"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetRecord is the Parquet schema of an enriched record.
type parquetRecord struct {
	Datetime        int64   `parquet:"name=datetime,type=INT64,convertedtype=TIMESTAMP_MILLIS"`
	Season          int32   `parquet:"name=season,type=INT32"`
	Holiday         int32   `parquet:"name=holiday,type=INT32"`
	WorkingDay      int32   `parquet:"name=workingday,type=INT32"`
	Weather         int32   `parquet:"name=weather,type=INT32"`
	Temp            float64 `parquet:"name=temp,type=DOUBLE"`
	ATemp           float64 `parquet:"name=atemp,type=DOUBLE"`
	Humidity        float64 `parquet:"name=humidity,type=DOUBLE"`
	Windspeed       float64 `parquet:"name=windspeed,type=DOUBLE"`
	Casual          int32   `parquet:"name=casual,type=INT32"`
	Registered      int32   `parquet:"name=registered,type=INT32"`
	Count           int32   `parquet:"name=count,type=INT32"`
	DayName         string  `parquet:"name=day_name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Hour            int32   `parquet:"name=hour,type=INT32"`
	Month           int32   `parquet:"name=month,type=INT32"`
	MonthName       string  `parquet:"name=month_name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Year            int32   `parquet:"name=year,type=INT32"`
	Date            string  `parquet:"name=date,type=BYTE_ARRAY,convertedtype=UTF8"`
	SeasonLabel     string  `parquet:"name=season_label,type=BYTE_ARRAY,convertedtype=UTF8"`
	WeatherLabel    string  `parquet:"name=weather_label,type=BYTE_ARRAY,convertedtype=UTF8"`
	HolidayLabel    string  `parquet:"name=holiday_label,type=BYTE_ARRAY,convertedtype=UTF8"`
	WorkingDayLabel string  `parquet:"name=workingday_label,type=BYTE_ARRAY,convertedtype=UTF8"`
	TemperatureBand string  `parquet:"name=temperature_band,type=BYTE_ARRAY,convertedtype=UTF8"`
	HumidityBucket  string  `parquet:"name=humidity_bucket,type=BYTE_ARRAY,convertedtype=UTF8"`
	WindspeedBand   string  `parquet:"name=windspeed_band,type=BYTE_ARRAY,convertedtype=UTF8"`
}

func toParquet(r *rental.EnrichedRecord) *parquetRecord {
	return &parquetRecord{
		Datetime:        r.Timestamp.UnixMilli(),
		Season:          int32(r.Season),
		Holiday:         int32(r.Holiday),
		WorkingDay:      int32(r.WorkingDay),
		Weather:         int32(r.Weather),
		Temp:            r.Temp,
		ATemp:           r.ATemp,
		Humidity:        r.Humidity,
		Windspeed:       r.Windspeed,
		Casual:          int32(r.Casual),
		Registered:      int32(r.Registered),
		Count:           int32(r.Count),
		DayName:         r.DayName,
		Hour:            int32(r.Hour),
		Month:           int32(r.Month),
		MonthName:       r.MonthName,
		Year:            int32(r.Year),
		Date:            r.Date,
		SeasonLabel:     r.SeasonLabel,
		WeatherLabel:    r.WeatherLabel,
		HolidayLabel:    r.HolidayLabel,
		WorkingDayLabel: r.WorkingDayLabel,
		TemperatureBand: r.TemperatureBand,
		HumidityBucket:  r.HumidityBucket,
		WindspeedBand:   r.WindspeedBand,
	}
}

// CompressionCodec resolves a compression name. Empty and NONE mean
// uncompressed.
func CompressionCodec(name string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(name) {
	case "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type: %s", name)
	}
}

// WriteParquet writes the records as a single Parquet file.
func WriteParquet(w io.Writer, records []rental.EnrichedRecord, compression string) (err error) {
	codec, err := CompressionCodec(compression)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriterFromWriter(w, new(parquetRecord), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = codec

	for i := range records {
		if err := pw.Write(toParquet(&records[i])); err != nil {
			return fmt.Errorf("failed to write record %d to parquet: %w", i, err)
		}
	}

	// WriteStop can panic inside the library.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parquet writer panicked during WriteStop: %v", r)
		}
	}()
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to stop parquet writer: %w", err)
	}
	return nil
}
