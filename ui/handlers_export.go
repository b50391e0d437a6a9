package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"bikestats/adapters/charts"
	"bikestats/adapters/export"
	"bikestats/app"

	"github.com/gin-gonic/gin"
)

var contentTypes = map[string]string{
	app.FormatCSV:     "text/csv; charset=utf-8",
	app.FormatXLSX:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	app.FormatParquet: "application/vnd.apache.parquet",
}

// handleExport serves records.{csv,xlsx,parquet} and <table>.csv
func (s *Server) handleExport(c *gin.Context) {
	file := c.Param("file")
	name, format, ok := strings.Cut(file, ".")
	contentType, known := contentTypes[format]
	if !ok || !known {
		s.respondError(c, export.UnsupportedFormat(file))
		return
	}

	var (
		buf bytes.Buffer
		err error
	)
	switch {
	case name == "records":
		err = s.service.ExportRecords(c.Request.Context(), &buf, format)
	case format == app.FormatCSV:
		err = s.service.ExportTable(&buf, name)
	default:
		err = export.UnknownTable(name)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleChart serves <kind>.png
func (s *Server) handleChart(c *gin.Context) {
	kind, err := charts.ParseKind(strings.TrimSuffix(c.Param("chart"), ".png"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	factor, err := queryFactor(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.service.RenderChart(&buf, kind, factor); err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
