// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

// MalformedComparisonDataError reports a comparison dataset that lacks a
// required column or holds a value that cannot be parsed.
type MalformedComparisonDataError struct {
	Path    string
	Missing []string
	Line    int
	Err     error
}

func (e *MalformedComparisonDataError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("comparison data %s is missing column(s) %s (need \"year\" and \"count\")",
			e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("comparison data %s line %d: %v", e.Path, e.Line, e.Err)
}

func (e *MalformedComparisonDataError) Unwrap() error { return e.Err }

// ReadComparison reads an annual dataset with "year" and "count" columns.
// Column names are matched case-insensitively and other columns are
// ignored. Points are returned sorted by year.
func ReadComparison(path string) ([]types.ComparisonPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening comparison data: %w", err)
	}
	defer f.Close()
	return parseComparison(path, f)
}

func parseComparison(path string, r io.Reader) ([]types.ComparisonPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedComparisonDataError{Path: path, Missing: []string{"year", "count"}}
	}
	if err != nil {
		return nil, &MalformedComparisonDataError{Path: path, Line: 1, Err: err}
	}

	yearCol, countCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "year":
			yearCol = i
		case "count":
			countCol = i
		}
	}
	var missing []string
	if yearCol < 0 {
		missing = append(missing, "year")
	}
	if countCol < 0 {
		missing = append(missing, "count")
	}
	if len(missing) > 0 {
		return nil, &MalformedComparisonDataError{Path: path, Missing: missing}
	}

	var points []types.ComparisonPoint
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedComparisonDataError{Path: path, Line: line, Err: err}
		}
		if max(yearCol, countCol) >= len(rec) {
			return nil, &MalformedComparisonDataError{Path: path, Line: line, Err: errors.New("short row")}
		}

		year, err := strconv.Atoi(strings.TrimSpace(rec[yearCol]))
		if err != nil {
			return nil, &MalformedComparisonDataError{Path: path, Line: line, Err: fmt.Errorf("year: %w", err)}
		}
		raw := strings.TrimSpace(rec[countCol])
		if raw == "" {
			continue
		}
		count, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, &MalformedComparisonDataError{Path: path, Line: line, Err: fmt.Errorf("count: %w", err)}
		}
		points = append(points, types.ComparisonPoint{Year: year, Count: count})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points, nil
}
