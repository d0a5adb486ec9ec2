// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentiment/internal/httputil"
	"github.com/pdiddy/news-sentiment/internal/pagecache"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

const samplePageJSON = `{
  "totalItems": 41,
  "endIndex": 20,
  "startIndex": 1,
  "itemsPerPage": 20,
  "items": [
    {
      "date": "18540612",
      "state": ["Virginia"],
      "county": ["Richmond"],
      "city": ["Richmond"],
      "title": "Richmond enquirer.",
      "ocr_eng": "The cholera has appeared in the city. Trade is brisk."
    },
    {
      "date": "1854xx12",
      "state": ["New York", "New Jersey"],
      "county": [],
      "city": ["New York"],
      "title": "The sun.",
      "ocr_eng": ""
    }
  ]
}`

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(PageRequest{
		Keywords: []string{"cholera", "yellow fever"},
		Interval: types.Interval{Start: 1850, End: 1854},
		Page:     3,
		Rows:     50,
	})
	assert.Equal(t,
		"ortext=cholera+yellow+fever&date1=1850&date2=1854&dateFilterType=yearRange&format=json&page=3&rows=50",
		q)
}

func TestBuildQuery_Defaults(t *testing.T) {
	q := BuildQuery(PageRequest{Keywords: []string{"flood"}, Interval: types.Interval{Start: 1900, End: 1900}})
	assert.Contains(t, q, "page=1")
	assert.Contains(t, q, "rows=20")
}

func TestItemArticle(t *testing.T) {
	p, err := DecodePage([]byte(samplePageJSON))
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, 41, p.TotalItems)
	assert.False(t, p.Last())

	a := p.Items[0].Article()
	assert.Equal(t, time.Date(1854, 6, 12, 0, 0, 0, 0, time.UTC), a.Date)
	assert.Equal(t, "Virginia", a.State)
	assert.Equal(t, "Richmond enquirer.", a.Title)
	assert.Contains(t, a.Text, "cholera")

	b := p.Items[1].Article()
	assert.True(t, b.Date.IsZero())
	assert.Equal(t, "New York; New Jersey", b.State)
	assert.Equal(t, "", b.County)
}

func TestPageLast(t *testing.T) {
	assert.True(t, Page{TotalItems: 20, EndIndex: 20, Items: make([]Item, 1)}.Last())
	assert.True(t, Page{TotalItems: 40, EndIndex: 20}.Last(), "empty page ends paging")
	assert.False(t, Page{TotalItems: 40, EndIndex: 20, Items: make([]Item, 1)}.Last())
}

func TestNormalizedKeywords(t *testing.T) {
	req := PageRequest{Keywords: []string{"Plague", "cholera", "plague", " "}}
	assert.Equal(t, []string{"cholera", "plague"}, req.NormalizedKeywords())
}

func TestClientFetchPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cholera plague", r.URL.Query().Get("ortext"))
		assert.Equal(t, "1850", r.URL.Query().Get("date1"))
		assert.Equal(t, "news-sentiment/test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePageJSON))
	}))
	defer ts.Close()

	c := NewClient(types.ArchiveConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "news-sentiment/test"},
		BaseURL:    ts.URL,
	})
	p, err := c.FetchPage(context.Background(), PageRequest{
		Keywords: []string{"cholera", "plague"},
		Interval: types.Interval{Start: 1850, End: 1854},
		Page:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, 41, p.TotalItems)
	assert.Len(t, p.Items, 2)
}

func TestClientFetchPage_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(types.ArchiveConfig{BaseURL: ts.URL})
	_, err := c.FetchPage(context.Background(), PageRequest{Keywords: []string{"x"}})
	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.True(t, httputil.IsTransient(err))
}

func TestClientFetchPage_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer ts.Close()

	c := NewClient(types.ArchiveConfig{BaseURL: ts.URL})
	_, err := c.FetchPage(context.Background(), PageRequest{Keywords: []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing archive response")
	assert.False(t, httputil.IsTransient(err))
}

// --- Cached ---

type countingSource struct {
	calls int
	page  Page
	err   error
}

func (s *countingSource) FetchPage(context.Context, PageRequest) (Page, error) {
	s.calls++
	return s.page, s.err
}

func TestCached_ReusesPages(t *testing.T) {
	store, err := pagecache.Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer store.Close()

	next := &countingSource{page: Page{TotalItems: 1, EndIndex: 1, Items: []Item{{Title: "a"}}}}
	c := &Cached{Next: next, Store: store}
	ctx := context.Background()
	req := PageRequest{Keywords: []string{"Cholera", "plague"}, Interval: types.Interval{Start: 1850, End: 1854}, Page: 1}

	first, err := c.FetchPage(ctx, req)
	require.NoError(t, err)

	// Same keyword set in a different order and case hits the cache.
	req.Keywords = []string{"plague", "cholera"}
	second, err := c.FetchPage(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, c.Hits)
	assert.Equal(t, 1, c.Misses)

	req.Page = 2
	_, err = c.FetchPage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCached_DoesNotStoreFailures(t *testing.T) {
	store, err := pagecache.Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer store.Close()

	next := &countingSource{err: &httputil.StatusError{Code: 500}}
	c := &Cached{Next: next, Store: store}
	req := PageRequest{Keywords: []string{"x"}, Interval: types.Interval{Start: 1900, End: 1900}, Page: 1}

	_, err = c.FetchPage(context.Background(), req)
	require.Error(t, err)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Pages)
}
