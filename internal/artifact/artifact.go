// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact reads and writes the collector's CSV outputs: one result
// file per interval and one cumulative log file per keyword set.
package artifact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

const dateFmt = "2006-01-02"

// ResultColumns is the ordered header of a result artifact.
var ResultColumns = []string{
	"date", "state", "county", "city", "title", "ocr_eng", "key_sentences", "polarity", "subjectivity",
}

// LogColumns is the ordered header of a log artifact.
var LogColumns = []string{
	"path", "keywords", "year_min", "year_max", "n_collected", "n_available", "task_time_s",
}

// ResultName returns the file name for an interval's results, e.g.
// "cholera-1850-1854.csv".
func ResultName(keywords []string, iv types.Interval) string {
	return fmt.Sprintf("%s-%d-%d.csv", stem(keywords), iv.Start, iv.End)
}

// LogName returns the log file name for a keyword set, e.g. "cholera-log.csv".
func LogName(keywords []string) string {
	return stem(keywords) + "-log.csv"
}

func stem(keywords []string) string {
	if len(keywords) == 0 || keywords[0] == "" {
		return "news"
	}
	return strings.ToLower(keywords[0])
}

// WriteResults writes articles to path through a temporary file that is
// renamed into place only after a complete write, so a failed write never
// leaves a partial artifact.
func WriteResults(path string, articles []types.Article) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ResultColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range articles {
		if err := w.Write(resultRecord(a)); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing results: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

func resultRecord(a types.Article) []string {
	date := ""
	if !a.Date.IsZero() {
		date = a.Date.Format(dateFmt)
	}
	return []string{
		date, a.State, a.County, a.City, a.Title, a.Text, a.Sentences,
		formatFloat(a.Polarity), formatFloat(a.Subjectivity),
	}
}

// ReadResults loads a result artifact written by WriteResults.
func ReadResults(path string) ([]types.Article, error) {
	records, err := readCSV(path, ResultColumns)
	if err != nil {
		return nil, err
	}

	articles := make([]types.Article, 0, len(records))
	for i, rec := range records {
		a, err := parseResult(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func parseResult(rec []string) (types.Article, error) {
	a := types.Article{
		State:     rec[1],
		County:    rec[2],
		City:      rec[3],
		Title:     rec[4],
		Text:      rec[5],
		Sentences: rec[6],
	}
	if rec[0] != "" {
		t, err := time.Parse(dateFmt, rec[0])
		if err != nil {
			return a, fmt.Errorf("invalid date %q: %w", rec[0], err)
		}
		a.Date = t
	}
	var err error
	if a.Polarity, err = strconv.ParseFloat(rec[7], 64); err != nil {
		return a, fmt.Errorf("invalid polarity %q: %w", rec[7], err)
	}
	if a.Subjectivity, err = strconv.ParseFloat(rec[8], 64); err != nil {
		return a, fmt.Errorf("invalid subjectivity %q: %w", rec[8], err)
	}
	return a, nil
}

// AppendLog appends one entry to the log at path, writing the header first
// when the file is new or empty. The row is written with a single call.
func AppendLog(path string, e types.LogEntry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("inspecting log: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		w.Write(LogColumns)
	}
	w.Write(logRecord(e))
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encoding log entry: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("appending log entry: %w", err)
	}
	return f.Sync()
}

func logRecord(e types.LogEntry) []string {
	return []string{
		e.Path,
		strings.Join(e.Keywords, " "),
		strconv.Itoa(e.Interval.Start),
		strconv.Itoa(e.Interval.End),
		strconv.Itoa(e.Collected),
		strconv.Itoa(e.Available),
		strconv.FormatFloat(e.ElapsedSeconds, 'f', 3, 64),
	}
}

// ReadLog loads every entry of a log artifact. A missing file yields an
// error wrapping os.ErrNotExist.
func ReadLog(path string) ([]types.LogEntry, error) {
	records, err := readCSV(path, LogColumns)
	if err != nil {
		return nil, err
	}

	entries := make([]types.LogEntry, 0, len(records))
	for i, rec := range records {
		e, err := parseLog(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseLog(rec []string) (types.LogEntry, error) {
	e := types.LogEntry{
		Path:     rec[0],
		Keywords: strings.Fields(rec[1]),
	}
	ints := []struct {
		name string
		dst  *int
		raw  string
	}{
		{"year_min", &e.Interval.Start, rec[2]},
		{"year_max", &e.Interval.End, rec[3]},
		{"n_collected", &e.Collected, rec[4]},
		{"n_available", &e.Available, rec[5]},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return e, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(rec[6]), 64)
	if err != nil {
		return e, fmt.Errorf("invalid task_time_s %q: %w", rec[6], err)
	}
	e.ElapsedSeconds = secs

	if e.Collected > e.Available {
		return e, fmt.Errorf("n_collected %d exceeds n_available %d", e.Collected, e.Available)
	}
	return e, nil
}

// readCSV reads path, checks that the header equals columns, and returns
// the data rows. Blank lines are skipped by encoding/csv.
func readCSV(path string, columns []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	for i, col := range columns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%s: column %d is %q, want %q", path, i+1, header[i], col)
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".results-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing results: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
