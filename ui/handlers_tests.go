package ui

import (
	"io"
	"net/http"

	"bikestats/domain/core"
	"bikestats/internal/hypothesis"

	"github.com/gin-gonic/gin"
)

// reportName is served by the test route instead of a preset
const reportName = "report"

// maxSpecBytes bounds a posted TestSpec
const maxSpecBytes = 64 << 10

func (s *Server) handleListTests(c *gin.Context) {
	presets := hypothesis.Presets()
	tests := make([]gin.H, 0, len(presets))
	for _, p := range presets {
		tests = append(tests, gin.H{
			"name":  p.Name,
			"title": p.Title,
			"kind":  p.Spec.Kind(),
			"null":  p.NullHypothesis,
			"alt":   p.AltHypothesis,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests, "alpha": s.service.Alpha()})
}

func (s *Server) handleRunTest(c *gin.Context) {
	alpha, err := queryAlpha(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	name := c.Param("name")
	if name == reportName {
		report, err := s.service.Report(c.Request.Context(), alpha)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if c.Query("format") == "html" {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markdownToHTML(report)))
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report))
		return
	}

	res, err := s.service.RunPreset(name, alpha)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCustomTest(c *gin.Context) {
	alpha, err := queryAlpha(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSpecBytes))
	if err != nil {
		s.respondError(c, core.NewInvalidSpecError("body", nil, err.Error()))
		return
	}
	spec, err := hypothesis.DecodeSpec(body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.service.RunSpec(spec, alpha)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
