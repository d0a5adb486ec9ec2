// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/news-sentiment/internal/pagecache"
)

// PageStore is the persistence used by Cached. *pagecache.Cache satisfies it.
type PageStore interface {
	Get(ctx context.Context, key pagecache.Key) ([]byte, bool, error)
	Put(ctx context.Context, key pagecache.Key, body []byte) error
}

// Cached serves pages from a PageStore when present and otherwise fetches
// them from Next and stores the result. Failed fetches are never stored.
type Cached struct {
	Next  Source
	Store PageStore

	Hits   int
	Misses int
}

// CacheKey maps a request onto its cache key.
func CacheKey(req PageRequest) pagecache.Key {
	rows := req.Rows
	if rows <= 0 {
		rows = DefaultPageSize
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	return pagecache.Key{
		Keywords: req.NormalizedKeywords(),
		Start:    req.Interval.Start,
		End:      req.Interval.End,
		Page:     page,
		Rows:     rows,
	}
}

// FetchPage implements Source.
func (c *Cached) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	key := CacheKey(req)

	body, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		return Page{}, err
	}
	if ok {
		if p, decodeErr := DecodePage(body); decodeErr == nil {
			c.Hits++
			return p, nil
		}
		// A corrupt entry is refetched and overwritten below.
	}

	c.Misses++
	p, err := c.Next.FetchPage(ctx, req)
	if err != nil {
		return Page{}, err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return Page{}, fmt.Errorf("encoding page for cache: %w", err)
	}
	if err := c.Store.Put(ctx, key, data); err != nil {
		return Page{}, err
	}
	return p, nil
}
