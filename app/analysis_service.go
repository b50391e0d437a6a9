package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"bikestats/adapters/charts"
	"bikestats/adapters/export"
	"bikestats/domain/core"
	"bikestats/domain/rental"
	"bikestats/internal"
	"bikestats/internal/hypothesis"
	"bikestats/internal/metrics"
	"bikestats/internal/session"
	"bikestats/internal/summary"

	"golang.org/x/sync/errgroup"
)

// Export formats
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

// AnalysisService runs analyses against the session's current dataset and
// records what it did in metrics and the event log.
type AnalysisService struct {
	store       *session.Store
	runner      *hypothesis.Runner
	events      *session.EventLog
	renderer    *charts.Renderer
	compression string
	logger      *internal.Logger
}

// AnalysisConfig carries the service's tunables.
type AnalysisConfig struct {
	Alpha              float64
	ParquetCompression string
	ChartWidth         int
	ChartHeight        int
}

// NewAnalysisService creates the service. events may be nil.
func NewAnalysisService(store *session.Store, events *session.EventLog, cfg AnalysisConfig, logger *internal.Logger) (*AnalysisService, error) {
	runner, err := hypothesis.NewRunner(hypothesis.WithAlpha(cfg.Alpha))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		store:       store,
		runner:      runner,
		events:      events,
		renderer:    charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		compression: cfg.ParquetCompression,
		logger:      logger,
	}, nil
}

// Alpha returns the configured significance level.
func (s *AnalysisService) Alpha() float64 {
	return s.runner.Alpha()
}

// Dataset returns the current dataset.
func (s *AnalysisService) Dataset() (*session.Dataset, error) {
	return s.store.Current()
}

func (s *AnalysisService) records() ([]rental.EnrichedRecord, error) {
	ds, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return ds.Records, nil
}

// Reload loads the source again. A failed reload keeps the previous dataset.
func (s *AnalysisService) Reload(ctx context.Context) (*session.Dataset, error) {
	start := time.Now()
	ds, err := s.store.Reload(ctx)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveLoad(elapsed, 0, err)
		s.logger.Error("Dataset load failed: %v", err)
		s.record("dataset_load_failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	metrics.ObserveLoad(elapsed, ds.Len(), nil)
	s.logger.Info("Loaded %d records from %s in %v", ds.Len(), ds.Source, elapsed)
	s.record("dataset_loaded", map[string]interface{}{
		"id":          ds.ID.String(),
		"source":      ds.Source,
		"records":     ds.Len(),
		"fingerprint": ds.Fingerprint.Short(),
		"ms":          elapsed.Milliseconds(),
	})
	return ds, nil
}

// runnerFor returns the configured runner, or one at the requested alpha.
func (s *AnalysisService) runnerFor(alpha *float64) (*hypothesis.Runner, error) {
	if alpha == nil || *alpha == s.runner.Alpha() {
		return s.runner, nil
	}
	return hypothesis.NewRunner(hypothesis.WithAlpha(*alpha))
}

// RunPreset runs one named test.
func (s *AnalysisService) RunPreset(name string, alpha *float64) (*hypothesis.TestResult, error) {
	preset, err := hypothesis.LookupPreset(name)
	if err != nil {
		return nil, err
	}
	runner, err := s.runnerFor(alpha)
	if err != nil {
		return nil, err
	}
	records, err := s.records()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := runner.RunPreset(records, name)
	s.observeRun(preset.Spec, res, time.Since(start), err)
	return res, err
}

// RunSpec runs a caller-supplied test.
func (s *AnalysisService) RunSpec(spec hypothesis.TestSpec, alpha *float64) (*hypothesis.TestResult, error) {
	runner, err := s.runnerFor(alpha)
	if err != nil {
		return nil, err
	}
	records, err := s.records()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := runner.Run(records, spec)
	s.observeRun(spec, res, time.Since(start), err)
	return res, err
}

// RunAll runs the named tests, or all of them.
func (s *AnalysisService) RunAll(ctx context.Context, alpha *float64, names ...string) ([]*hypothesis.TestResult, error) {
	runner, err := s.runnerFor(alpha)
	if err != nil {
		return nil, err
	}
	records, err := s.records()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := runner.RunAll(ctx, records, names...)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Warn("Test batch failed: %v", err)
		s.record("test_batch_failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	for _, res := range results {
		metrics.ObserveTestRun(string(res.Kind), string(res.Decision), elapsed, nil)
		s.recordResult(res)
	}
	return results, nil
}

// Report runs every preset and renders the markdown verdicts.
func (s *AnalysisService) Report(ctx context.Context, alpha *float64) (string, error) {
	results, err := s.RunAll(ctx, alpha)
	if err != nil {
		return "", err
	}
	return hypothesis.Report(results), nil
}

func (s *AnalysisService) observeRun(spec hypothesis.TestSpec, res *hypothesis.TestResult, elapsed time.Duration, err error) {
	kind := "unknown"
	if spec != nil {
		kind = string(spec.Kind())
	}
	if err != nil {
		metrics.ObserveTestRun(kind, "", elapsed, err)
		s.logger.Warn("Test %s failed: %v", kind, err)
		s.record("test_failed", map[string]interface{}{"kind": kind, "error": err.Error()})
		return
	}
	metrics.ObserveTestRun(kind, string(res.Decision), elapsed, nil)
	s.logger.Debug("Test %s: statistic=%.4f p=%.4g %s", res.Name, res.Statistic, res.PValue, res.Decision)
	s.recordResult(res)
}

func (s *AnalysisService) recordResult(res *hypothesis.TestResult) {
	for _, w := range res.Warnings {
		s.logger.Warn("Test %s: %s", res.Name, w)
	}
	s.record("test_run", map[string]interface{}{
		"name":      res.Name,
		"kind":      string(res.Kind),
		"statistic": hypothesis.JSONFloat(res.Statistic),
		"p_value":   res.PValue,
		"alpha":     res.Alpha,
		"decision":  string(res.Decision),
	})
}

func (s *AnalysisService) record(event string, detail map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(event, detail); err != nil {
		s.logger.Warn("Failed to record event %s: %v", event, err)
	}
}

// Events returns the last n events.
func (s *AnalysisService) Events(n int) ([]session.Event, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.Tail(n)
}

// Describe summarises the given measures, or all of them.
func (s *AnalysisService) Describe(measures ...rental.Measure) ([]summary.DescribeRow, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.Describe(records, measures)
}

// Insights computes the dashboard's headline figures.
func (s *AnalysisService) Insights() (*summary.Insights, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.ComputeInsights(records)
}

// Correlation returns the Pearson matrix over every measure.
func (s *AnalysisService) Correlation() (*summary.Matrix, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.Correlation(records, nil)
}

// ValueCounts counts records per level of factor.
func (s *AnalysisService) ValueCounts(factor rental.Factor) (*summary.Counts, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.ValueCounts(records, factor)
}

// GroupMean averages measure per level of factor.
func (s *AnalysisService) GroupMean(factor rental.Factor, measure rental.Measure) ([]summary.LevelMean, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.GroupMean(records, factor, measure)
}

// UserSplit compares mean casual and registered rentals across factor.
func (s *AnalysisService) UserSplit(factor rental.Factor) ([]summary.UserSplitRow, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.UserSplit(records, factor)
}

// HourByDay returns the mean count per weekday and hour.
func (s *AnalysisService) HourByDay() (*summary.Matrix, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.HourByDay(records), nil
}

// Crosstab counts records per combination of levels of a and b.
func (s *AnalysisService) Crosstab(a, b rental.Factor) (*summary.Table, error) {
	for _, f := range []rental.Factor{a, b} {
		if f.Levels() == nil {
			return nil, core.NewInvalidSpecError("factor", f, "unknown factor")
		}
	}
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return summary.Crosstab(records, a, b), nil
}

// RenderChart draws a chart of the current dataset as PNG.
func (s *AnalysisService) RenderChart(w io.Writer, kind charts.Kind, factor rental.Factor) error {
	records, err := s.records()
	if err != nil {
		return err
	}
	return s.renderer.Render(w, kind, records, factor)
}

// ExportRecords writes the enriched table in the given format.
func (s *AnalysisService) ExportRecords(ctx context.Context, w io.Writer, format string) (err error) {
	defer func() {
		metrics.ObserveExport(format, err)
		if err == nil {
			s.record("export", map[string]interface{}{"format": format})
		}
	}()

	records, err := s.records()
	if err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		return export.WriteCSV(w, export.RecordsTable(records))
	case FormatParquet:
		return export.WriteParquet(w, records, s.compression)
	case FormatXLSX:
		tables, err := s.workbookTables(ctx, records)
		if err != nil {
			return err
		}
		return export.WriteWorkbook(w, tables...)
	default:
		return export.UnsupportedFormat(format)
	}
}

// ExportTable writes one summary table as CSV.
func (s *AnalysisService) ExportTable(w io.Writer, name string) (err error) {
	defer func() { metrics.ObserveExport("csv:"+name, err) }()

	records, err := s.records()
	if err != nil {
		return err
	}
	switch name {
	case "summary":
		rows, err := summary.Describe(records, nil)
		if err != nil {
			return err
		}
		return export.WriteCSV(w, export.DescribeTable(rows))
	case "correlation":
		m, err := summary.Correlation(records, nil)
		if err != nil {
			return err
		}
		return export.WriteCSV(w, export.MatrixTable("correlation", m))
	case "daily":
		return export.WriteCSV(w, export.DailyTable(summary.DailyTotals(records)))
	case "users":
		rows, err := summary.UserSplit(records, rental.FactorWorkingDay)
		if err != nil {
			return err
		}
		return export.WriteCSV(w, export.UserSplitTable(rental.FactorWorkingDay, rows))
	case "hourly":
		return export.WriteCSV(w, export.MatrixTable("hourly", summary.HourByDay(records)))
	case "crosstab":
		ct := summary.Crosstab(records, rental.FactorSeason, rental.FactorWeather)
		return export.WriteCSV(w, export.ContingencyTable(rental.FactorSeason, rental.FactorWeather, ct))
	default:
		return export.UnknownTable(name)
	}
}

// workbookTables builds the workbook sheets concurrently. The tests sheet
// is left out when a test cannot run on this dataset.
func (s *AnalysisService) workbookTables(ctx context.Context, records []rental.EnrichedRecord) ([]export.Table, error) {
	var describe, correlation, users, tests export.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := summary.Describe(records, nil)
		if err != nil {
			return fmt.Errorf("summary sheet: %w", err)
		}
		describe = export.DescribeTable(rows)
		return nil
	})
	g.Go(func() error {
		m, err := summary.Correlation(records, nil)
		if err != nil {
			return fmt.Errorf("correlation sheet: %w", err)
		}
		correlation = export.MatrixTable("correlation", m)
		return nil
	})
	g.Go(func() error {
		rows, err := summary.UserSplit(records, rental.FactorWorkingDay)
		if err != nil {
			return fmt.Errorf("users sheet: %w", err)
		}
		users = export.UserSplitTable(rental.FactorWorkingDay, rows)
		return nil
	})
	g.Go(func() error {
		results, err := s.runner.RunAll(gctx, records)
		if err != nil {
			s.logger.Warn("Skipping tests sheet: %v", err)
			return nil
		}
		tests = export.ResultsTable(results)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	crosstab := summary.Crosstab(records, rental.FactorSeason, rental.FactorWeather)
	tables := []export.Table{
		export.RecordsTable(records), describe, correlation,
		export.DailyTable(summary.DailyTotals(records)),
		users,
		export.MatrixTable("hourly", summary.HourByDay(records)),
		export.ContingencyTable(rental.FactorSeason, rental.FactorWeather, crosstab),
	}
	if tests.Name != "" {
		tables = append(tables, tests)
	}
	return tables, nil
}
