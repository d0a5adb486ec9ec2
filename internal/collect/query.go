// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect runs interval queries against the archive, scores the
// keyword-bearing sentences of each article, and persists one result
// artifact and one log entry per completed interval.
package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/news-sentiment/internal/archive"
	"github.com/pdiddy/news-sentiment/internal/extract"
	"github.com/pdiddy/news-sentiment/internal/httputil"
	"github.com/pdiddy/news-sentiment/internal/logger"
	"github.com/pdiddy/news-sentiment/internal/sentiment"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// QueryFailedError reports an interval query that could not be completed.
// Intervals before Interval are unaffected; the run resumes by re-invoking
// with Interval.Start as the lower bound year.
type QueryFailedError struct {
	Interval types.Interval
	Page     int
	Attempts int
	Err      error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("query %s failed on page %d after %d attempt(s): %v",
		e.Interval, e.Page, e.Attempts, e.Err)
}

func (e *QueryFailedError) Unwrap() error { return e.Err }

// ResumeYear is the lower bound year to pass when re-running.
func (e *QueryFailedError) ResumeYear() int { return e.Interval.Start }

// IntervalResult is the outcome of one interval query.
type IntervalResult struct {
	Interval types.Interval

	// Articles holds the scored articles; articles without keyword-bearing
	// sentences are excluded and counted in Dropped.
	Articles []types.Article
	Dropped  int

	// Collected counts records fetched, capped by the maximum. Available is
	// the archive's reported total. Collected never exceeds Available.
	Collected int
	Available int

	// Elapsed covers every page of the interval, including retry cooldowns.
	Elapsed time.Duration

	// Pages is the number of pages requested.
	Pages int
}

// Executor queries one interval at a time.
type Executor struct {
	Source   archive.Source
	Scorer   sentiment.Scorer
	PageSize int

	// Cooldown is the wait before retrying a page. Zero uses
	// httputil.DefaultCooldown.
	Cooldown time.Duration

	Log *logger.Logger
}

// Query pages through the archive for iv, collecting at most maxResults
// records. A page whose first attempt and single retry both fail aborts the
// interval with a *QueryFailedError; no partial result is returned.
func (e *Executor) Query(ctx context.Context, keywords []string, iv types.Interval, maxResults int) (IntervalResult, error) {
	if maxResults <= 0 {
		return IntervalResult{}, fmt.Errorf("max results must be positive, got %d", maxResults)
	}
	log := e.Log
	if log == nil {
		log = logger.Discard()
	}

	start := time.Now()
	res := IntervalResult{Interval: iv}

	for page := 1; ; page++ {
		req := archive.PageRequest{Keywords: keywords, Interval: iv, Page: page, Rows: e.PageSize}

		p, err := e.fetch(ctx, req, log)
		if err != nil {
			attempts := 1
			var exhausted *httputil.ExhaustedError
			if errors.As(err, &exhausted) {
				attempts = exhausted.Attempts
				err = exhausted.Err
			}
			return IntervalResult{}, &QueryFailedError{Interval: iv, Page: page, Attempts: attempts, Err: err}
		}
		res.Pages++
		res.Available = p.TotalItems

		for _, item := range p.Items {
			if res.Collected >= maxResults {
				break
			}
			res.Collected++

			scored, ok, err := extract.ScoreArticle(ctx, e.Scorer, item.Article(), keywords)
			if err != nil {
				return IntervalResult{}, err
			}
			if !ok {
				res.Dropped++
				continue
			}
			res.Articles = append(res.Articles, scored)
		}

		if res.Collected >= maxResults || p.Last() {
			break
		}
	}

	// A short or inconsistent total from the source must not break the
	// collected <= available invariant the weights depend on.
	res.Available = max(res.Available, res.Collected)
	res.Elapsed = time.Since(start)
	return res, nil
}

func (e *Executor) fetch(ctx context.Context, req archive.PageRequest, log *logger.Logger) (archive.Page, error) {
	var p archive.Page
	retry := httputil.RetryOnce{
		Cooldown: e.Cooldown,
		OnTransition: func(from, to httputil.State, err error) {
			if to == httputil.StateCooldown {
				log.Warn("page request failed, cooling down before retry",
					"interval", req.Interval.String(), "page", req.Page, "err", err)
			}
			if from == httputil.StateAttempt2 && to == httputil.StateSuccess {
				log.Info("page retry succeeded", "interval", req.Interval.String(), "page", req.Page)
			}
		},
	}
	err := retry.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		p, fetchErr = e.Source.FetchPage(ctx, req)
		return fetchErr
	})
	return p, err
}
