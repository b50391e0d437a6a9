package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"bikestats/app"
	"bikestats/internal"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// Server represents the web server for the rentals dashboard
type Server struct {
	router    *gin.Engine
	service   *app.AnalysisService
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(service *app.AnalysisService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
		"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		templates: templates,
		logger:    logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/dataset", s.handleDataset)
		api.POST("/dataset/reload", s.handleReload)
		api.GET("/records", s.handleRecords)

		api.GET("/summary/describe", s.handleDescribe)
		api.GET("/summary/counts/:factor", s.handleCounts)
		api.GET("/summary/means/:factor", s.handleMeans)
		api.GET("/summary/correlation", s.handleCorrelation)
		api.GET("/summary/insights", s.handleInsights)
		api.GET("/summary/users/:factor", s.handleUsers)
		api.GET("/summary/hourly", s.handleHourly)
		api.GET("/summary/crosstab", s.handleCrosstab)

		api.GET("/tests", s.handleListTests)
		api.GET("/tests/:name", s.handleRunTest)
		api.POST("/tests", s.handleCustomTest)

		api.GET("/export/:file", s.handleExport)
		api.GET("/charts/:chart", s.handleChart)
		api.GET("/logs", s.handleLogs)
	}
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Shutting down dashboard")
	return srv.Shutdown(shutdownCtx)
}
