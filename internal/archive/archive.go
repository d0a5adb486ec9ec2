// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive queries the Library of Congress Chronicling America
// newspaper search API one page at a time.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/news-sentiment/internal/httputil"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// DefaultBaseURL is the Chronicling America page search endpoint.
const DefaultBaseURL = "https://chroniclingamerica.loc.gov/search/pages/results/"

// DefaultPageSize matches the rows per page the archive serves by default.
const DefaultPageSize = 20

const itemDateFmt = "20060102"

// Source returns one page of search results. Implementations may fail
// transiently; callers decide whether to retry.
type Source interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}

// PageRequest identifies one page of an interval query.
type PageRequest struct {
	Keywords []string
	Interval types.Interval
	// Page is 1-based.
	Page int
	Rows int
}

// NormalizedKeywords returns the keywords lowercased, deduplicated, and
// sorted, so that equivalent keyword sets share cache entries.
func (r PageRequest) NormalizedKeywords() []string {
	seen := make(map[string]bool, len(r.Keywords))
	var out []string
	for _, kw := range r.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Page is the archive's JSON response for one page.
type Page struct {
	TotalItems   int    `json:"totalItems"`
	StartIndex   int    `json:"startIndex"`
	EndIndex     int    `json:"endIndex"`
	ItemsPerPage int    `json:"itemsPerPage"`
	Items        []Item `json:"items"`
}

// Last reports whether the page reaches the end of the result set.
func (p Page) Last() bool {
	return len(p.Items) == 0 || p.EndIndex >= p.TotalItems
}

// Item is one newspaper page in a search response.
type Item struct {
	Date   string   `json:"date"`
	State  []string `json:"state"`
	County []string `json:"county"`
	City   []string `json:"city"`
	Title  string   `json:"title"`
	OCR    string   `json:"ocr_eng"`
}

// Article converts the item to an unscored Article. An unparseable date is
// left as the zero time.
func (it Item) Article() types.Article {
	a := types.Article{
		State:  strings.Join(it.State, "; "),
		County: strings.Join(it.County, "; "),
		City:   strings.Join(it.City, "; "),
		Title:  it.Title,
		Text:   it.OCR,
	}
	if t, err := time.Parse(itemDateFmt, it.Date); err == nil {
		a.Date = t
	}
	return a
}

// Client queries the Chronicling America API over HTTP.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
}

// NewClient returns a Client for cfg, filling in defaults.
func NewClient(cfg types.ArchiveConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		BaseURL:   base,
		UserAgent: cfg.UserAgent,
	}
}

// FetchPage requests one page. Non-200 responses surface as
// *httputil.StatusError so the caller can classify them.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	body, err := httputil.Get(ctx, c.HTTP, c.BaseURL+"?"+BuildQuery(req), c.UserAgent)
	if err != nil {
		return Page{}, err
	}
	return DecodePage(body)
}

// DecodePage parses a JSON search response.
func DecodePage(body []byte) (Page, error) {
	var p Page
	if err := json.Unmarshal(body, &p); err != nil {
		return Page{}, fmt.Errorf("parsing archive response: %w", err)
	}
	return p, nil
}

// BuildQuery renders the query string for req. Keywords are joined with a
// literal "+" so the archive treats them as alternatives in ortext.
func BuildQuery(req PageRequest) string {
	rows := req.Rows
	if rows <= 0 {
		rows = DefaultPageSize
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	escaped := make([]string, len(req.Keywords))
	for i, kw := range req.Keywords {
		escaped[i] = url.QueryEscape(kw)
	}

	params := url.Values{
		"dateFilterType": {"yearRange"},
		"date1":          {strconv.Itoa(req.Interval.Start)},
		"date2":          {strconv.Itoa(req.Interval.End)},
		"format":         {"json"},
		"rows":           {strconv.Itoa(rows)},
		"page":           {strconv.Itoa(page)},
	}
	return "ortext=" + strings.Join(escaped, "+") + "&" + params.Encode()
}
