package ui

import (
	"net/http"

	"bikestats/domain/rental"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleDescribe(c *gin.Context) {
	measures, err := queryMeasures(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	rows, err := s.service.Describe(measures...)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

func (s *Server) handleCounts(c *gin.Context) {
	factor, err := rental.ParseFactor(c.Param("factor"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	counts, err := s.service.ValueCounts(factor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *Server) handleMeans(c *gin.Context) {
	factor, err := rental.ParseFactor(c.Param("factor"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	measure, err := rental.ParseMeasure(c.DefaultQuery("measure", string(rental.MeasureCount)))
	if err != nil {
		s.respondError(c, err)
		return
	}
	means, err := s.service.GroupMean(factor, measure)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factor": factor, "measure": measure, "means": means})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	m, err := s.service.Correlation()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleInsights(c *gin.Context) {
	insights, err := s.service.Insights()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

func (s *Server) handleUsers(c *gin.Context) {
	factor, err := rental.ParseFactor(c.Param("factor"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	rows, err := s.service.UserSplit(factor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factor": factor, "users": rows})
}

func (s *Server) handleHourly(c *gin.Context) {
	m, err := s.service.HourByDay()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// handleCrosstab serves ?a=&b=, defaulting to season by weather
func (s *Server) handleCrosstab(c *gin.Context) {
	a, err := rental.ParseFactor(c.DefaultQuery("a", string(rental.FactorSeason)))
	if err != nil {
		s.respondError(c, err)
		return
	}
	b, err := rental.ParseFactor(c.DefaultQuery("b", string(rental.FactorWeather)))
	if err != nil {
		s.respondError(c, err)
		return
	}
	table, err := s.service.Crosstab(a, b)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}
