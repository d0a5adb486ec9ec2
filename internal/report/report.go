// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/news-sentiment/internal/logger"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// Summary describes one Reporter run.
type Summary struct {
	Aggregates []types.YearlyAggregate
	Entries    int
	Articles   int

	// Truncated counts log entries that collected fewer records than were
	// available and therefore carry a weight above 1.
	Truncated int

	ChartPath  string
	ExportPath string
}

// Reporter turns a log artifact and a comparison dataset into charts.
type Reporter struct {
	Renderer Renderer

	// Progress receives the yearly table. Nil discards it.
	Progress io.Writer

	Log *logger.Logger
}

// DefaultChartPath returns the chart written for a log when no output path
// is configured, e.g. "out/cholera-log-report.html".
func DefaultChartPath(logPath string) string {
	return strings.TrimSuffix(logPath, filepath.Ext(logPath)) + "-report.html"
}

// Run loads cfg.LogPath, aggregates it per year, and renders the charts.
// The aggregates depend only on the log and the artifacts it references, so
// re-running on an unchanged log yields the same result.
func (r *Reporter) Run(cfg types.ReportConfig) (Summary, error) {
	log := r.Log
	if log == nil {
		log = logger.Discard()
	}

	comparison, err := ReadComparison(cfg.ComparisonPath)
	if err != nil {
		return Summary{}, err
	}

	ds, err := Load(cfg.LogPath)
	if err != nil {
		return Summary{}, err
	}
	if len(ds.Entries) == 0 {
		return Summary{}, fmt.Errorf("log %s has no entries", cfg.LogPath)
	}

	aggs := Aggregate(ds)
	sum := Summary{Aggregates: aggs, Entries: len(ds.Entries), Articles: len(ds.Articles)}
	for _, e := range ds.Entries {
		if e.Truncated() {
			sum.Truncated++
		}
	}

	view := View{
		Keywords:        ds.Entries[0].Keywords,
		Aggregates:      aggs,
		Comparison:      comparison,
		ComparisonLabel: cfg.ComparisonLabel,
	}
	if view.VolumeBounds, err = bounds(WeightedVolumes(aggs)); err != nil {
		return Summary{}, err
	}
	counts := make([]float64, len(comparison))
	for i, p := range comparison {
		counts[i] = p.Count
	}
	if view.ComparisonBounds, err = bounds(counts); err != nil {
		return Summary{}, err
	}

	sum.ChartPath = cfg.OutputPath
	if sum.ChartPath == "" {
		sum.ChartPath = DefaultChartPath(cfg.LogPath)
	}
	renderer := r.Renderer
	if renderer == nil {
		renderer = HTMLRenderer{}
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, view); err != nil {
		return Summary{}, err
	}
	if err := os.WriteFile(sum.ChartPath, buf.Bytes(), 0o644); err != nil {
		return Summary{}, fmt.Errorf("writing chart: %w", err)
	}

	if cfg.Export != types.ExportNone {
		sum.ExportPath = ExportPath(sum.ChartPath, cfg.Export)
		export := Export{
			Log:             cfg.LogPath,
			Keywords:        view.Keywords,
			ComparisonLabel: cfg.ComparisonLabel,
			Years:           aggs,
			Comparison:      comparison,
		}
		if err := WriteExport(sum.ExportPath, cfg.Export, export); err != nil {
			return Summary{}, err
		}
	}

	if r.Progress != nil {
		if err := FormatTable(r.Progress, aggs, cfg.ComparisonLabel, comparison); err != nil {
			return Summary{}, err
		}
	}

	log.Info("report written",
		"log", cfg.LogPath, "entries", sum.Entries, "articles", sum.Articles,
		"years", len(aggs), "truncated", sum.Truncated, "chart", sum.ChartPath)
	return sum, nil
}

// bounds wraps AxisRange, leaving the axis unset for an empty series.
func bounds(values []float64) (Bounds, error) {
	lo, hi, err := AxisRange(values)
	if errors.Is(err, ErrEmptySeries) {
		return Bounds{}, nil
	}
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Min: lo, Max: hi, Set: true}, nil
}
