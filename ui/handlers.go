package ui

import (
	"strconv"
	"strings"

	"bikestats/domain/core"
	"bikestats/domain/rental"

	"github.com/gin-gonic/gin"
)

// queryAlpha reads an optional ?alpha= override
func queryAlpha(c *gin.Context) (*float64, error) {
	raw := c.Query("alpha")
	if raw == "" {
		return nil, nil
	}
	alpha, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, core.NewInvalidSpecError("alpha", raw, "not a number")
	}
	return &alpha, nil
}

// queryInt reads a non-negative integer parameter, capped at max when max > 0
func queryInt(c *gin.Context, name string, def, max int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, core.NewInvalidSpecError(name, raw, "must be a non-negative integer")
	}
	if max > 0 && v > max {
		v = max
	}
	return v, nil
}

// queryMeasures reads ?measures=a,b; empty means all
func queryMeasures(c *gin.Context) ([]rental.Measure, error) {
	raw := c.Query("measures")
	if raw == "" {
		return nil, nil
	}
	var measures []rental.Measure
	for _, name := range strings.Split(raw, ",") {
		m, err := rental.ParseMeasure(name)
		if err != nil {
			return nil, err
		}
		measures = append(measures, m)
	}
	return measures, nil
}

// queryFactor reads an optional ?factor=, defaulting to season
func queryFactor(c *gin.Context) (rental.Factor, error) {
	raw := c.Query("factor")
	if raw == "" {
		return rental.FactorSeason, nil
	}
	return rental.ParseFactor(raw)
}
