// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/news-sentiment/internal/artifact"
	"github.com/pdiddy/news-sentiment/internal/logger"
	"github.com/pdiddy/news-sentiment/internal/plan"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// Run accumulates the state of a collection across intervals. Each Step
// returns a new Run; nothing is held in package state.
type Run struct {
	Keywords []string
	LogPath  string

	// Entries lists the log entries written by this run, in order.
	Entries []types.LogEntry

	// Skipped lists intervals already present in the log.
	Skipped []types.Interval

	Collected int
	Available int
	Articles  int
	Dropped   int
}

// with returns a copy of r extended by one completed interval.
func (r Run) with(entry types.LogEntry, res IntervalResult) Run {
	next := r
	next.Entries = append(append([]types.LogEntry(nil), r.Entries...), entry)
	next.Collected += res.Collected
	next.Available += res.Available
	next.Articles += len(res.Articles)
	next.Dropped += res.Dropped
	return next
}

// Collector drives interval queries and persists their artifacts.
type Collector struct {
	Executor *Executor

	// OutputDir receives result artifacts and the log.
	OutputDir string

	// Progress receives one human-readable message per interval.
	Progress io.Writer

	Log *logger.Logger
}

// NewRun returns an empty Run whose log lives in the collector's output
// directory.
func (c *Collector) NewRun(keywords []string) Run {
	return Run{
		Keywords: keywords,
		LogPath:  filepath.Join(c.OutputDir, artifact.LogName(keywords)),
	}
}

// Step queries one interval, writes its result artifact, and then appends
// its log entry. A failed query writes neither, so the log never references
// a partial interval.
func (c *Collector) Step(ctx context.Context, run Run, iv types.Interval, maxResults int) (Run, error) {
	res, err := c.Executor.Query(ctx, run.Keywords, iv, maxResults)
	if err != nil {
		return run, err
	}

	name := artifact.ResultName(run.Keywords, iv)
	if err := artifact.WriteResults(filepath.Join(c.OutputDir, name), res.Articles); err != nil {
		return run, fmt.Errorf("writing results for %s: %w", iv, err)
	}

	entry := types.LogEntry{
		Path:           name,
		Keywords:       run.Keywords,
		Interval:       iv,
		Collected:      res.Collected,
		Available:      res.Available,
		ElapsedSeconds: res.Elapsed.Seconds(),
	}
	if err := artifact.AppendLog(run.LogPath, entry); err != nil {
		return run, fmt.Errorf("logging %s: %w", iv, err)
	}

	c.logger().Info("interval complete",
		"interval", iv.String(), "collected", res.Collected, "available", res.Available,
		"articles", len(res.Articles), "dropped", res.Dropped, "pages", res.Pages,
		"elapsed", res.Elapsed)
	return run.with(entry, res), nil
}

// Collect plans the configured year range and steps through every
// interval in order. With cfg.ResumeFrom, intervals ending before that year
// are dropped from the plan; with cfg.SkipLogged, intervals that already
// have a log entry are skipped. The returned Run reflects all completed intervals even
// when an error stops the run early.
func (c *Collector) Collect(ctx context.Context, cfg types.CollectConfig) (Run, error) {
	intervals, err := plan.Plan(cfg.YearMin, cfg.YearMax, cfg.Increment)
	if err != nil {
		return Run{}, err
	}
	total := len(intervals)
	if cfg.ResumeFrom != 0 {
		intervals = plan.Resume(intervals, cfg.ResumeFrom)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return Run{}, fmt.Errorf("creating output directory: %w", err)
	}

	run := c.NewRun(cfg.Keywords)

	logged := map[types.Interval]bool{}
	if cfg.SkipLogged {
		entries, err := artifact.ReadLog(run.LogPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return run, err
		}
		for _, e := range entries {
			logged[e.Interval] = true
		}
	}

	w := c.Progress
	if w == nil {
		w = io.Discard
	}

	offset := total - len(intervals)
	for i, iv := range intervals {
		if logged[iv] {
			fmt.Fprintf(w, "skipped %d through %d (already logged)\n", iv.Start, iv.End)
			run.Skipped = append(run.Skipped, iv)
			continue
		}

		next, err := c.Step(ctx, run, iv, cfg.MaxResults)
		if err != nil {
			return run, err
		}
		run = next

		e := run.Entries[len(run.Entries)-1]
		fmt.Fprintf(w, "Collected news and analyzed sentiment from %d through %d in file %d of %d.\n",
			iv.Start, iv.End, offset+i+1, total)
		fmt.Fprintf(w, "Chronicling America fulfilled this request for %d of %d available records in %.2f seconds.\n\n",
			e.Collected, e.Available, e.ElapsedSeconds)
	}
	return run, nil
}

func (c *Collector) logger() *logger.Logger {
	if c.Log == nil {
		return logger.Discard()
	}
	return c.Log
}
