package rental

import "bikestats/domain/core"

// Label sets, in code order.
var (
	SeasonLabels  = []string{"Spring", "Summer", "Fall", "Winter"}
	WeatherLabels = []string{"Clear", "Cloudy", "Little Rain", "Heavy Rain"}
	FlagLabels    = []string{"No", "Yes"}

	DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	MonthNames = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

// SeasonLabel maps season codes 1..4.
func SeasonLabel(code int) (string, error) {
	if code < 1 || code > len(SeasonLabels) {
		return "", core.NewMappingError("season", code)
	}
	return SeasonLabels[code-1], nil
}

// WeatherLabel maps weather codes 1..4.
func WeatherLabel(code int) (string, error) {
	if code < 1 || code > len(WeatherLabels) {
		return "", core.NewMappingError("weather", code)
	}
	return WeatherLabels[code-1], nil
}

// FlagLabel maps a 0/1 flag to "No"/"Yes". field names the flag in errors.
func FlagLabel(field string, code int) (string, error) {
	if code != 0 && code != 1 {
		return "", core.NewMappingError(field, code)
	}
	return FlagLabels[code], nil
}
