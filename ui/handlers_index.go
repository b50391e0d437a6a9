package ui

import (
	"html/template"

	"bikestats/adapters/charts"
	"bikestats/internal/session"
	"bikestats/internal/summary"

	"github.com/gin-gonic/gin"
)

type indexPage struct {
	Dataset  *session.Dataset
	Insights *summary.Insights
	Report   template.HTML
	Charts   []charts.Kind
	Alpha    float64
	Error    string
}

func (s *Server) handleIndex(c *gin.Context) {
	page := indexPage{Charts: charts.Kinds, Alpha: s.service.Alpha()}

	ds, err := s.service.Dataset()
	if err != nil {
		page.Error = err.Error()
		s.renderTemplate(c, "index.html", page)
		return
	}
	page.Dataset = ds

	if page.Insights, err = s.service.Insights(); err != nil {
		page.Error = err.Error()
	}
	report, err := s.service.Report(c.Request.Context(), nil)
	if err != nil {
		s.logger.Warn("[Index] Report unavailable: %v", err)
		page.Error = err.Error()
	} else {
		page.Report = markdownToHTML(report)
	}
	s.renderTemplate(c, "index.html", page)
}
