package container

import (
	"context"
	"fmt"

	"bikestats/adapters/excel"
	"bikestats/app"
	"bikestats/internal"
	"bikestats/internal/config"
	"bikestats/internal/session"
	"bikestats/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Loader  ports.RecordLoader
	Store   *session.Store
	Events  *session.EventLog
	Service *app.AnalysisService
}

// New creates a new dependency injection container. Nothing is loaded yet;
// call Load once the container is built.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.RequireDataFile(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
	}
	c.Loader = excel.NewRecordLoader(cfg.Data.File, excel.WithSortByTime(cfg.Data.SortByTime))
	c.Store = session.NewStore(c.Loader)

	if cfg.Data.EventLogFile != "" {
		events, err := session.OpenEventLog(cfg.Data.EventLogFile)
		if err != nil {
			c.Logger.Warn("Event log disabled: %v", err)
		} else {
			c.Events = events
		}
	}

	service, err := app.NewAnalysisService(c.Store, c.Events, app.AnalysisConfig{
		Alpha:              cfg.Analysis.Alpha,
		ParquetCompression: cfg.Export.ParquetCompression,
		ChartWidth:         cfg.Charts.Width,
		ChartHeight:        cfg.Charts.Height,
	}, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}
	c.Service = service

	c.Logger.Debug("Container initialized for %s", cfg.Data.File)
	return c, nil
}

// Load performs the initial dataset load.
func (c *Container) Load(ctx context.Context) (*session.Dataset, error) {
	return c.Service.Reload(ctx)
}
