// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

var tableHeader = []string{
	"year", "interval", "count", "weight", "weighted", "polarity", "subjectivity", "negative",
}

// FormatTable writes aggs as an aligned markdown table. When comparison is
// non-empty a column labelled label is appended with the dataset's value
// for each year.
func FormatTable(w io.Writer, aggs []types.YearlyAggregate, label string, comparison []types.ComparisonPoint) error {
	header := tableHeader
	byYear := make(map[int]float64, len(comparison))
	if len(comparison) > 0 {
		header = append(append([]string(nil), tableHeader...), label)
		for _, p := range comparison {
			byYear[p.Year] = p.Count
		}
	}

	rows := [][]string{header}
	for _, a := range aggs {
		row := []string{
			strconv.Itoa(a.Year),
			a.Interval.String(),
			strconv.Itoa(a.Count),
			strconv.FormatFloat(a.Weight, 'f', 4, 64),
			strconv.FormatFloat(a.WeightedVolume, 'f', 1, 64),
			strconv.FormatFloat(a.MeanPolarity, 'f', 3, 64),
			strconv.FormatFloat(a.MeanSubjectivity, 'f', 3, 64),
			strconv.FormatFloat(a.NegativeShare*100, 'f', 1, 64) + "%",
		}
		if len(comparison) > 0 {
			cell := ""
			if v, ok := byYear[a.Year]; ok {
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell), 3)
		}
	}

	for i, row := range rows {
		if _, err := fmt.Fprintln(w, tableLine(row, widths)); err != nil {
			return err
		}
		if i == 0 {
			sep := make([]string, len(widths))
			for j, n := range widths {
				sep[j] = strings.Repeat("-", n)
			}
			if _, err := fmt.Fprintln(w, tableLine(sep, widths)); err != nil {
				return err
			}
		}
	}
	return nil
}

func tableLine(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	return sb.String()
}
