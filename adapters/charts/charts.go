// Package charts renders the dashboard's descriptive views as PNG images.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"bikestats/domain/core"
	"bikestats/domain/rental"
	"bikestats/internal/summary"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Kind names a chart.
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBoxPlot   Kind = "boxplot"
	KindHourly    Kind = "hourly"
	KindMeans     Kind = "means"
	KindDaily     Kind = "daily"
)

// Kinds lists every chart.
var Kinds = []Kind{KindHistogram, KindBoxPlot, KindHourly, KindMeans, KindDaily}

// ParseKind resolves a chart name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: chart %q", core.ErrNotFound, name)
}

// screenDPI converts pixel sizes to plot lengths.
const screenDPI = 96

var palette = []color.Color{
	colornames.Mediumpurple, colornames.Hotpink, colornames.Mediumseagreen,
	colornames.Steelblue, colornames.Orange, colornames.Slategray,
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	width, height vg.Length
}

// NewRenderer creates a renderer producing images of the given pixel size.
func NewRenderer(widthPx, heightPx int) *Renderer {
	return &Renderer{
		width:  vg.Length(widthPx) * vg.Inch / screenDPI,
		height: vg.Length(heightPx) * vg.Inch / screenDPI,
	}
}

// Render draws the chart as PNG. factor is used by boxplot and means; an
// empty factor defaults to season.
func (r *Renderer) Render(w io.Writer, kind Kind, records []rental.EnrichedRecord, factor rental.Factor) error {
	if len(records) == 0 {
		return core.ErrEmptyInput
	}
	if factor == "" {
		factor = rental.FactorSeason
	}
	if factor.Levels() == nil {
		return core.NewInvalidSpecError("factor", factor, "unknown factor")
	}

	var (
		p   *plot.Plot
		err error
	)
	switch kind {
	case KindHistogram:
		p, err = histogram(records)
	case KindBoxPlot:
		p, err = boxPlot(records, factor)
	case KindHourly:
		p, err = hourly(records)
	case KindMeans:
		p, err = means(records, factor)
	case KindDaily:
		p, err = daily(records)
	default:
		return fmt.Errorf("%w: chart %q", core.ErrNotFound, kind)
	}
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func histogram(records []rental.EnrichedRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of Hourly Rentals"
	p.X.Label.Text = "count"
	p.Y.Label.Text = "hours"

	hist, err := plotter.NewHist(plotter.Values(rental.MeasureCount.Values(records)), 50)
	if err != nil {
		return nil, err
	}
	hist.FillColor = palette[0]
	p.Add(hist)
	return p, nil
}

func boxPlot(records []rental.EnrichedRecord, factor rental.Factor) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Rentals by %s", factor)
	p.Y.Label.Text = "count"

	levels, groups := rental.Partition(records, factor, rental.MeasureCount)
	var names []string
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), plotter.Values(g))
		if err != nil {
			return nil, err
		}
		box.FillColor = palette[len(names)%len(palette)]
		p.Add(box)
		names = append(names, levels[i])
	}
	p.NominalX(names...)
	return p, nil
}

func hourly(records []rental.EnrichedRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Rentals by Hour"
	p.X.Label.Text = "hour"
	p.Y.Label.Text = "mean count"
	p.Legend.Top = true

	for i, level := range rental.FlagLabels {
		var subset []rental.EnrichedRecord
		for j := range records {
			if records[j].WorkingDayLabel == level {
				subset = append(subset, records[j])
			}
		}
		if len(subset) == 0 {
			continue
		}
		means, err := summary.GroupMean(subset, rental.FactorHour, rental.MeasureCount)
		if err != nil {
			return nil, err
		}
		pts := make(plotter.XYs, 0, len(means))
		for _, m := range means {
			h, err := strconv.Atoi(m.Level)
			if err != nil {
				return nil, err
			}
			pts = append(pts, plotter.XY{X: float64(h), Y: m.Mean})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = palette[i]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("working day: "+level, line)
	}
	return p, nil
}

func means(records []rental.EnrichedRecord, factor rental.Factor) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Average Rentals by %s", factor)
	p.Y.Label.Text = "mean count"

	rows, err := summary.GroupMean(records, factor, rental.MeasureCount)
	if err != nil {
		return nil, err
	}
	values := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	for i, m := range rows {
		values[i] = m.Mean
		names[i] = m.Level
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = palette[0]
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

func daily(records []rental.EnrichedRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Daily Rentals"
	p.X.Label.Text = "day"
	p.Y.Label.Text = "total count"

	days := summary.DailyTotals(records)
	pts := make(plotter.XYs, len(days))
	for i, d := range days {
		pts[i] = plotter.XY{X: float64(i), Y: float64(d.Count)}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = palette[3]
	p.Add(line)
	return p, nil
}
