// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

// Bounds is a padded y-axis range. A zero Bounds lets the chart choose.
type Bounds struct {
	Min, Max float64
	Set      bool
}

// View is everything a Renderer draws.
type View struct {
	Keywords        []string
	Aggregates      []types.YearlyAggregate
	Comparison      []types.ComparisonPoint
	ComparisonLabel string

	VolumeBounds     Bounds
	ComparisonBounds Bounds
}

// Renderer turns a View into a visual artifact.
type Renderer interface {
	Render(w io.Writer, v View) error
}

// HTMLRenderer renders a View as a standalone HTML page of line charts.
type HTMLRenderer struct{}

// Render implements Renderer.
func (r HTMLRenderer) Render(w io.Writer, v View) error {
	if len(v.Aggregates) == 0 {
		return fmt.Errorf("nothing to render: no yearly aggregates")
	}
	topic := strings.Join(v.Keywords, ", ")

	page := components.NewPage()
	page.PageTitle = "News sentiment: " + topic
	page.AddCharts(
		r.volumeChart(v, topic),
		r.comparisonChart(v, topic),
		r.sentimentChart(v, topic),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	return nil
}

func (r HTMLRenderer) base(id, title, subtitle string, y opts.YAxis) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: id, Width: "1000px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "year"}),
		charts.WithYAxisOpts(y),
	)
	return line
}

func yAxis(name string, b Bounds) opts.YAxis {
	y := opts.YAxis{Name: name}
	if b.Set {
		y.Min = round(b.Min)
		y.Max = round(b.Max)
	}
	return y
}

func (r HTMLRenderer) volumeChart(v View, topic string) *charts.Line {
	line := r.base("volume", "Weighted mentions per year",
		topic+" (count scaled by available/collected)", yAxis("mentions", v.VolumeBounds))

	years := make([]string, len(v.Aggregates))
	raw := make([]opts.LineData, len(v.Aggregates))
	weighted := make([]opts.LineData, len(v.Aggregates))
	for i, a := range v.Aggregates {
		years[i] = strconv.Itoa(a.Year)
		raw[i] = opts.LineData{Value: a.Count}
		weighted[i] = opts.LineData{Value: round(a.WeightedVolume)}
	}
	line.SetXAxis(years).
		AddSeries("weighted", weighted).
		AddSeries("collected", raw)
	return line
}

func (r HTMLRenderer) comparisonChart(v View, topic string) *charts.Line {
	label := v.ComparisonLabel
	if label == "" {
		label = "comparison"
	}
	line := r.base("comparison", "Weighted mentions vs "+label, topic,
		yAxis("mentions", v.VolumeBounds))
	line.ExtendYAxis(yAxis(label, v.ComparisonBounds))

	volume := make(map[int]float64, len(v.Aggregates))
	comparison := make(map[int]float64, len(v.Comparison))
	yearSet := make(map[int]bool)
	for _, a := range v.Aggregates {
		volume[a.Year] = a.WeightedVolume
		yearSet[a.Year] = true
	}
	for _, p := range v.Comparison {
		comparison[p.Year] = p.Count
		yearSet[p.Year] = true
	}
	allYears := make([]int, 0, len(yearSet))
	for y := range yearSet {
		allYears = append(allYears, y)
	}
	sort.Ints(allYears)

	years := make([]string, len(allYears))
	left := make([]opts.LineData, len(allYears))
	right := make([]opts.LineData, len(allYears))
	for i, y := range allYears {
		years[i] = strconv.Itoa(y)
		if n, ok := volume[y]; ok {
			left[i] = opts.LineData{Value: round(n)}
		} else {
			left[i] = opts.LineData{Value: "-"}
		}
		if n, ok := comparison[y]; ok {
			right[i] = opts.LineData{Value: n}
		} else {
			right[i] = opts.LineData{Value: "-"}
		}
	}
	line.SetXAxis(years).
		AddSeries("weighted mentions", left).
		AddSeries(label, right, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	return line
}

func (r HTMLRenderer) sentimentChart(v View, topic string) *charts.Line {
	line := r.base("sentiment", "Sentiment per year", topic,
		yAxis("score", Bounds{Min: -1, Max: 1, Set: true}))

	years := make([]string, len(v.Aggregates))
	polarity := make([]opts.LineData, len(v.Aggregates))
	subjectivity := make([]opts.LineData, len(v.Aggregates))
	negative := make([]opts.LineData, len(v.Aggregates))
	for i, a := range v.Aggregates {
		years[i] = strconv.Itoa(a.Year)
		polarity[i] = opts.LineData{Value: round(a.MeanPolarity)}
		subjectivity[i] = opts.LineData{Value: round(a.MeanSubjectivity)}
		negative[i] = opts.LineData{Value: round(a.NegativeShare)}
	}
	line.SetXAxis(years).
		AddSeries("mean polarity", polarity).
		AddSeries("mean subjectivity", subjectivity).
		AddSeries("negative share", negative)
	return line
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
