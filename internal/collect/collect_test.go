// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentiment/internal/archive"
	"github.com/pdiddy/news-sentiment/internal/artifact"
	"github.com/pdiddy/news-sentiment/internal/httputil"
	"github.com/pdiddy/news-sentiment/internal/pagecache"
	"github.com/pdiddy/news-sentiment/internal/plan"
	"github.com/pdiddy/news-sentiment/internal/sentiment"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

func init() {
	httputil.DefaultCooldown = 1 * time.Millisecond
}

// --- fake archive ---

// fakeSource serves total items per interval, pageSize at a time. Items
// alternate between mentioning the keyword and not when mixed is set.
type fakeSource struct {
	total map[types.Interval]int
	mixed bool

	// failures maps "interval/page" to the number of consecutive failures
	// before the page succeeds.
	failures map[string]int
	status   int

	calls []archive.PageRequest
}

func failKey(iv types.Interval, page int) string {
	return fmt.Sprintf("%s/%d", iv, page)
}

func (s *fakeSource) FetchPage(_ context.Context, req archive.PageRequest) (archive.Page, error) {
	s.calls = append(s.calls, req)

	key := failKey(req.Interval, req.Page)
	if s.failures[key] > 0 {
		s.failures[key]--
		status := s.status
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		return archive.Page{}, &httputil.StatusError{Code: status, URL: "fake"}
	}

	total := s.total[req.Interval]
	first := (req.Page - 1) * req.Rows
	last := min(first+req.Rows, total)

	p := archive.Page{TotalItems: total, StartIndex: first + 1, EndIndex: last, ItemsPerPage: req.Rows}
	for i := first; i < last; i++ {
		text := fmt.Sprintf("Item %d reports cholera in town. Weather fair.", i)
		if s.mixed && i%2 == 1 {
			text = "Prices fell. Weather fair."
		}
		p.Items = append(p.Items, archive.Item{
			Date:  fmt.Sprintf("%d0101", req.Interval.Start),
			State: []string{"Virginia"},
			Title: fmt.Sprintf("Gazette %d", i),
			OCR:   text,
		})
	}
	return p, nil
}

type constScorer struct{ calls int }

func (c *constScorer) Score(context.Context, string) (sentiment.Score, error) {
	c.calls++
	return sentiment.Score{Polarity: -0.25, Subjectivity: 0.5}, nil
}

func newExecutor(src archive.Source) *Executor {
	return &Executor{Source: src, Scorer: &constScorer{}, PageSize: 20}
}

var kw = []string{"cholera"}

// --- Executor.Query ---

func TestQuery_CapsAtMaxResults(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	src := &fakeSource{total: map[types.Interval]int{iv: 45}}

	res, err := newExecutor(src).Query(context.Background(), kw, iv, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, res.Collected)
	assert.Equal(t, 45, res.Available)
	assert.Len(t, res.Articles, 30)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, src.calls, 2)
	assert.InDelta(t, 1.5, types.LogEntry{Collected: res.Collected, Available: res.Available}.Weight(), 1e-9)
}

func TestQuery_StopsAtLastPage(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	src := &fakeSource{total: map[types.Interval]int{iv: 41}}

	res, err := newExecutor(src).Query(context.Background(), kw, iv, 5000)
	require.NoError(t, err)
	assert.Equal(t, 41, res.Collected)
	assert.Equal(t, 41, res.Available)
	assert.Equal(t, 3, res.Pages)
	for i, call := range src.calls {
		assert.Equal(t, i+1, call.Page)
		assert.Equal(t, 20, call.Rows)
		assert.Equal(t, iv, call.Interval)
	}
}

func TestQuery_EmptyResult(t *testing.T) {
	iv := types.Interval{Start: 1800, End: 1804}
	src := &fakeSource{total: map[types.Interval]int{}}

	res, err := newExecutor(src).Query(context.Background(), kw, iv, 100)
	require.NoError(t, err)
	assert.Zero(t, res.Collected)
	assert.Zero(t, res.Available)
	assert.Empty(t, res.Articles)
	assert.Equal(t, 1, res.Pages)
}

func TestQuery_DropsArticlesWithoutKeywordSentences(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	src := &fakeSource{total: map[types.Interval]int{iv: 10}, mixed: true}
	scorer := &constScorer{}
	ex := &Executor{Source: src, Scorer: scorer, PageSize: 20}

	res, err := ex.Query(context.Background(), kw, iv, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Collected)
	assert.Len(t, res.Articles, 5)
	assert.Equal(t, 5, res.Dropped)
	assert.Equal(t, 5, scorer.calls)
	for _, a := range res.Articles {
		assert.NotEmpty(t, a.Sentences)
		assert.Equal(t, -0.25, a.Polarity)
	}
}

func TestQuery_RetriesTransientFailureOnce(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	src := &fakeSource{
		total:    map[types.Interval]int{iv: 30},
		failures: map[string]int{failKey(iv, 2): 1},
	}
	ex := newExecutor(src)
	ex.Cooldown = 20 * time.Millisecond

	res, err := ex.Query(context.Background(), kw, iv, 100)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Collected)
	assert.Len(t, src.calls, 3, "page 1, page 2 failed, page 2 retried")
	assert.GreaterOrEqual(t, res.Elapsed, 20*time.Millisecond, "elapsed includes the cooldown")
}

func TestQuery_FailsAfterRetry(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	src := &fakeSource{
		total:    map[types.Interval]int{iv: 30},
		failures: map[string]int{failKey(iv, 2): 2},
	}

	res, err := newExecutor(src).Query(context.Background(), kw, iv, 100)
	require.Error(t, err)
	assert.Empty(t, res.Articles, "no partial result")

	var qf *QueryFailedError
	require.True(t, errors.As(err, &qf))
	assert.Equal(t, iv, qf.Interval)
	assert.Equal(t, 2, qf.Page)
	assert.Equal(t, 2, qf.Attempts)
	assert.Equal(t, 1850, qf.ResumeYear())

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
}

func TestQuery_PermanentFailureIsNotRetried(t *testing.T) {
	iv := types.Interval{Start: 1850, End: 1854}
	src := &fakeSource{
		total:    map[types.Interval]int{iv: 30},
		failures: map[string]int{failKey(iv, 1): 5},
		status:   http.StatusBadRequest,
	}

	_, err := newExecutor(src).Query(context.Background(), kw, iv, 100)
	var qf *QueryFailedError
	require.True(t, errors.As(err, &qf))
	assert.Equal(t, 1, qf.Attempts)
	assert.Len(t, src.calls, 1)
}

func TestQuery_RejectsNonPositiveMax(t *testing.T) {
	_, err := newExecutor(&fakeSource{}).Query(context.Background(), kw, types.Interval{Start: 1900, End: 1900}, 0)
	assert.ErrorContains(t, err, "max results must be positive")
}

type inconsistentSource struct{}

func (inconsistentSource) FetchPage(context.Context, archive.PageRequest) (archive.Page, error) {
	items := []archive.Item{{OCR: "Cholera."}, {OCR: "Cholera again."}, {OCR: "More cholera."}}
	return archive.Page{TotalItems: 2, EndIndex: 3, Items: items}, nil
}

func TestQuery_AvailableNeverBelowCollected(t *testing.T) {
	res, err := newExecutor(inconsistentSource{}).Query(context.Background(), kw, types.Interval{Start: 1900, End: 1900}, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Collected)
	assert.Equal(t, 3, res.Available)
}

// --- Collector ---

func newCollector(t *testing.T, src archive.Source) (*Collector, *bytes.Buffer) {
	t.Helper()
	var progress bytes.Buffer
	return &Collector{
		Executor:  newExecutor(src),
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Progress:  &progress,
	}, &progress
}

func collectCfg(lo, hi, inc, maxResults int) types.CollectConfig {
	return types.CollectConfig{Keywords: kw, YearMin: lo, YearMax: hi, Increment: inc, MaxResults: maxResults}
}

func TestCollect_WritesArtifactsAndLog(t *testing.T) {
	src := &fakeSource{total: map[types.Interval]int{
		{Start: 1850, End: 1854}: 25,
		{Start: 1855, End: 1859}: 8,
		{Start: 1860, End: 1861}: 0,
	}}
	c, progress := newCollector(t, src)

	run, err := c.Collect(context.Background(), collectCfg(1850, 1861, 5, 20))
	require.NoError(t, err)

	require.Len(t, run.Entries, 3)
	assert.Equal(t, 20+8, run.Collected)
	assert.Equal(t, 25+8, run.Available)
	assert.Equal(t, 28, run.Articles)

	entries, err := artifact.ReadLog(run.LogPath)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, run.Entries[i].Interval, e.Interval)
		assert.Equal(t, run.Entries[i].Collected, e.Collected)
		assert.Equal(t, run.Entries[i].Available, e.Available)
		assert.LessOrEqual(t, e.Collected, e.Available)

		articles, err := artifact.ReadResults(filepath.Join(c.OutputDir, e.Path))
		require.NoError(t, err)
		assert.Len(t, articles, e.Collected)
	}
	assert.Equal(t, "cholera-1850-1854.csv", entries[0].Path)
	assert.InDelta(t, 1.25, entries[0].Weight(), 1e-9)

	assert.Contains(t, progress.String(), "from 1850 through 1854 in file 1 of 3")
	assert.Contains(t, progress.String(), "for 20 of 25 available records")
}

func TestCollect_FailureLeavesNoPartialEntry(t *testing.T) {
	failing := types.Interval{Start: 1855, End: 1859}
	src := &fakeSource{
		total: map[types.Interval]int{
			{Start: 1850, End: 1854}: 5,
			failing:                  30,
			{Start: 1860, End: 1864}: 5,
		},
		failures: map[string]int{failKey(failing, 2): 2},
	}
	c, _ := newCollector(t, src)

	run, err := c.Collect(context.Background(), collectCfg(1850, 1864, 5, 100))
	var qf *QueryFailedError
	require.True(t, errors.As(err, &qf))
	assert.Equal(t, 1855, qf.ResumeYear())

	require.Len(t, run.Entries, 1, "completed intervals remain in the run")

	entries, err := artifact.ReadLog(run.LogPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.Interval{Start: 1850, End: 1854}, entries[0].Interval)

	_, err = os.Stat(filepath.Join(c.OutputDir, artifact.ResultName(kw, failing)))
	assert.True(t, errors.Is(err, os.ErrNotExist), "no result artifact for the failed interval")
}

func TestCollect_ResumeAndSkipLogged(t *testing.T) {
	src := &fakeSource{total: map[types.Interval]int{
		{Start: 1850, End: 1854}: 3,
		{Start: 1855, End: 1859}: 3,
		{Start: 1860, End: 1864}: 3,
	}}
	c, progress := newCollector(t, src)
	ctx := context.Background()

	cfg := collectCfg(1850, 1864, 5, 100)
	cfg.ResumeFrom = 1857
	run, err := c.Collect(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, run.Entries, 2)
	assert.Equal(t, types.Interval{Start: 1855, End: 1859}, run.Entries[0].Interval)
	assert.Contains(t, progress.String(), "in file 2 of 3")

	src.calls = nil
	cfg = collectCfg(1850, 1864, 5, 100)
	cfg.SkipLogged = true
	run, err = c.Collect(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, run.Entries, 1)
	assert.Equal(t, types.Interval{Start: 1850, End: 1854}, run.Entries[0].Interval)
	assert.Len(t, run.Skipped, 2)
	assert.Len(t, src.calls, 1)

	entries, err := artifact.ReadLog(run.LogPath)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestCollect_InvalidRange(t *testing.T) {
	c, _ := newCollector(t, &fakeSource{})
	_, err := c.Collect(context.Background(), collectCfg(1900, 1850, 5, 10))
	var rangeErr *plan.InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestCollect_CachedRerunSkipsNetwork(t *testing.T) {
	store, err := pagecache.Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer store.Close()

	src := &fakeSource{total: map[types.Interval]int{
		{Start: 1850, End: 1854}: 45,
		{Start: 1855, End: 1859}: 10,
	}}
	cached := &archive.Cached{Next: src, Store: store}
	c, _ := newCollector(t, cached)
	ctx := context.Background()

	first, err := c.Collect(ctx, collectCfg(1850, 1859, 5, 100))
	require.NoError(t, err)
	networkCalls := len(src.calls)
	assert.Equal(t, 4, networkCalls)

	c.OutputDir = filepath.Join(t.TempDir(), "rerun")
	second, err := c.Collect(ctx, collectCfg(1850, 1859, 5, 100))
	require.NoError(t, err)

	assert.Equal(t, networkCalls, len(src.calls), "re-run served from cache")
	assert.Equal(t, 4, cached.Hits)
	assert.Equal(t, first.Collected, second.Collected)
	assert.Equal(t, first.Available, second.Available)
}

func TestRunWith_DoesNotAlias(t *testing.T) {
	base := Run{Entries: make([]types.LogEntry, 1, 4)}
	a := base.with(types.LogEntry{Path: "a"}, IntervalResult{Collected: 1})
	b := base.with(types.LogEntry{Path: "b"}, IntervalResult{Collected: 2})

	assert.Equal(t, "a", a.Entries[1].Path)
	assert.Equal(t, "b", b.Entries[1].Path)
	assert.Len(t, base.Entries, 1)
	assert.Equal(t, 1, a.Collected)
}
