package rental

import (
	"fmt"
	"math"

	"bikestats/domain/core"
)

// Temperature bands, coldest first.
const (
	TempVeryLow  = "Very Low"
	TempLow      = "Low"
	TempModerate = "Moderate"
	TempHigh     = "High"
)

// Windspeed bands, calmest first.
const (
	WindLow      = "Low"
	WindModerate = "Moderate"
	WindHigh     = "High"
	WindVeryHigh = "Very High"
)

var (
	TemperatureBands = []string{TempVeryLow, TempLow, TempModerate, TempHigh}
	WindspeedBands   = []string{WindLow, WindModerate, WindHigh, WindVeryHigh}
	HumidityBuckets  = humidityBucketLabels()
)

func humidityBucketLabels() []string {
	labels := make([]string, 10)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d%%", (i+1)*10)
	}
	return labels
}

// TemperatureBand buckets a feels-like temperature. Boundaries: 12 is
// Very Low, 24 is Moderate, 35 is High.
func TemperatureBand(atemp float64) (string, error) {
	if math.IsNaN(atemp) || math.IsInf(atemp, 0) {
		return "", core.NewDomainError("atemp", atemp, "not a finite number")
	}
	switch {
	case atemp <= 12:
		return TempVeryLow, nil
	case atemp < 24:
		return TempLow, nil
	case atemp < 35:
		return TempModerate, nil
	default:
		return TempHigh, nil
	}
}

// HumidityBucket maps humidity in [0,100] onto ten bands. Each band is
// inclusive at both integer ends (0-10, 11-20, ...); fractional values
// between bands fall into the upper one.
func HumidityBucket(humidity float64) (string, error) {
	if math.IsNaN(humidity) || humidity < 0 || humidity > 100 {
		return "", core.NewDomainError("humidity", humidity, "outside [0,100]")
	}
	band := int(math.Ceil(humidity / 10))
	if band < 1 {
		band = 1
	}
	return HumidityBuckets[band-1], nil
}

// WindspeedBand buckets a non-negative windspeed: 0-10 Low, 11-20 Moderate,
// 21-30 High, above 30 Very High. Fractional gaps fall into the upper band.
func WindspeedBand(windspeed float64) (string, error) {
	if math.IsNaN(windspeed) || math.IsInf(windspeed, 0) || windspeed < 0 {
		return "", core.NewDomainError("windspeed", windspeed, "must be a finite non-negative number")
	}
	switch {
	case windspeed <= 10:
		return WindLow, nil
	case windspeed <= 20:
		return WindModerate, nil
	case windspeed <= 30:
		return WindHigh, nil
	default:
		return WindVeryHigh, nil
	}
}
