// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

func TestNames(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	assert.Equal(t, "cholera-1850-1854.csv", ResultName([]string{"Cholera", "plague"}, iv))
	assert.Equal(t, "cholera-log.csv", LogName([]string{"Cholera", "plague"}))
	assert.Equal(t, "news-log.csv", LogName(nil))
}

func TestResults_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cholera-1850-1854.csv")
	articles := []types.Article{
		{
			Date:         time.Date(1854, 6, 12, 0, 0, 0, 0, time.UTC),
			State:        "Virginia",
			County:       "Richmond",
			City:         "Richmond",
			Title:        "Richmond enquirer.",
			Text:         "The cholera, \"they say\", has appeared.\nTrade is brisk.",
			Sentences:    "The cholera, \"they say\", has appeared.",
			Polarity:     -0.125,
			Subjectivity: 0.4,
		},
		{
			Title:     "Undated sheet.",
			Text:      "Cholera.",
			Sentences: "Cholera.",
			Polarity:  0,
		},
	}

	require.NoError(t, WriteResults(path, articles))

	got, err := ReadResults(path)
	require.NoError(t, err)
	assert.Equal(t, articles, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(ResultColumns, ",")+"\n"))
}

func TestWriteResults_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteResults(filepath.Join(dir, "a.csv"), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.csv", entries[0].Name())

	got, err := ReadResults(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadResults_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"empty file", "", "is empty"},
		{"wrong header", "a,b,c,d,e,f,g,h,i\n", "column 1"},
		{"short row", strings.Join(ResultColumns, ",") + "\n1850-01-01,VA\n", "wrong number of fields"},
		{"bad polarity", strings.Join(ResultColumns, ",") + "\n1850-01-01,,,,,,,x,0\n", "invalid polarity"},
		{"bad date", strings.Join(ResultColumns, ",") + "\n18500101,,,,,,,0,0\n", "invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := ReadResults(path)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLog_AppendRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cholera-log.csv")
	first := types.LogEntry{
		Path:           "cholera-1850-1854.csv",
		Keywords:       []string{"cholera", "plague"},
		Interval:       types.Interval{Start: 1850, End: 1854},
		Collected:      5000,
		Available:      7952,
		ElapsedSeconds: 61.25,
	}
	second := types.LogEntry{
		Path:           "cholera-1855-1859.csv",
		Keywords:       []string{"cholera", "plague"},
		Interval:       types.Interval{Start: 1855, End: 1859},
		Collected:      12,
		Available:      12,
		ElapsedSeconds: 0.5,
	}

	require.NoError(t, AppendLog(path, first))
	require.NoError(t, AppendLog(path, second))

	got, err := ReadLog(path)
	require.NoError(t, err)
	assert.Equal(t, []types.LogEntry{first, second}, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "n_collected"), "header written once")
}

func TestReadLog_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadLog(filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	header := strings.Join(LogColumns, ",") + "\n"
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"non-numeric year", header + "a.csv,x,18x0,1854,1,1,0.1\n", "invalid year_min"},
		{"collected above available", header + "a.csv,x,1850,1854,9,3,0.1\n", "exceeds n_available"},
		{"bad elapsed", header + "a.csv,x,1850,1854,1,3,soon\n", "invalid task_time_s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := ReadLog(path)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
