package ui

import (
	"net/http"

	"bikestats/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 1000
	defaultLogLines    = 50
	maxLogLines        = 1000
)

func (s *Server) datasetInfo(ds *session.Dataset) gin.H {
	return gin.H{
		"id":          ds.ID,
		"source":      ds.Source,
		"loaded_at":   ds.LoadedAt,
		"fingerprint": ds.Fingerprint,
		"records":     ds.Len(),
		"alpha":       s.service.Alpha(),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	_, err := s.service.Dataset()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "loaded": err == nil})
}

func (s *Server) handleDataset(c *gin.Context) {
	ds, err := s.service.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.datasetInfo(ds))
}

func (s *Server) handleReload(c *gin.Context) {
	ds, err := s.service.Reload(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.datasetInfo(ds))
}

func (s *Server) handleRecords(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultRecordLimit, maxRecordLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0, 0)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ds, err := s.service.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}

	total := ds.Len()
	start := min(offset, total)
	end := min(start+limit, total)
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"offset":  start,
		"limit":   limit,
		"records": ds.Records[start:end],
	})
}

func (s *Server) handleLogs(c *gin.Context) {
	lines, err := queryInt(c, "lines", defaultLogLines, maxLogLines)
	if err != nil {
		s.respondError(c, err)
		return
	}
	events, err := s.service.Events(lines)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if events == nil {
		events = []session.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
