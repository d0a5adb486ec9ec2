// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report reloads a collection from its log, derives yearly
// aggregates weighted by coverage, and renders comparison charts.
package report

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pdiddy/news-sentiment/internal/artifact"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// Dataset is a log artifact together with every result artifact it
// references, merged into one table tagged by originating interval.
type Dataset struct {
	LogPath  string
	Entries  []types.LogEntry
	Articles []types.TaggedArticle

	// Sources holds, for each article, the index of the entry it was
	// loaded from. It tells re-runs of the same interval apart.
	Sources []int
}

// Load reads the log at logPath and the result artifact of each entry.
// Relative result paths are resolved against the log's directory.
func Load(logPath string) (Dataset, error) {
	entries, err := artifact.ReadLog(logPath)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{LogPath: logPath, Entries: entries}
	dir := filepath.Dir(logPath)
	for i, e := range entries {
		path := e.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		articles, err := artifact.ReadResults(path)
		if err != nil {
			return Dataset{}, fmt.Errorf("loading results for %s: %w", e.Interval, err)
		}
		for _, a := range articles {
			ds.Articles = append(ds.Articles, types.TaggedArticle{Article: a, Interval: e.Interval})
			ds.Sources = append(ds.Sources, i)
		}
	}
	return ds, nil
}

// owners maps each year covered by the log to the index of the entry that
// governs it. Later entries override earlier ones for overlapping years.
func owners(entries []types.LogEntry) map[int]int {
	owner := make(map[int]int)
	for i, e := range entries {
		for y := e.Interval.Start; y <= e.Interval.End; y++ {
			owner[y] = i
		}
	}
	return owner
}

// Aggregate computes one YearlyAggregate per year covered by the log, in
// ascending order. Years with no articles appear with a zero count. An
// article counts toward its publication year only when it came from the
// entry governing that year; articles dated outside their interval are
// ignored.
func Aggregate(ds Dataset) []types.YearlyAggregate {
	owner := owners(ds.Entries)

	type acc struct {
		count, negative int
		polarity, subj  float64
	}
	sums := make(map[int]*acc, len(owner))

	for i, a := range ds.Articles {
		y := a.Year()
		idx, ok := owner[y]
		if !ok || !ds.from(i, idx) {
			continue
		}
		s := sums[y]
		if s == nil {
			s = &acc{}
			sums[y] = s
		}
		s.count++
		s.polarity += a.Polarity
		s.subj += a.Subjectivity
		if a.Polarity < 0 {
			s.negative++
		}
	}

	years := make([]int, 0, len(owner))
	for y := range owner {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]types.YearlyAggregate, 0, len(years))
	for _, y := range years {
		e := ds.Entries[owner[y]]
		agg := types.YearlyAggregate{
			Year:     y,
			Interval: e.Interval,
			Weight:   e.Weight(),
		}
		if s := sums[y]; s != nil {
			n := float64(s.count)
			agg.Count = s.count
			agg.MeanPolarity = s.polarity / n
			agg.MeanSubjectivity = s.subj / n
			agg.NegativeShare = float64(s.negative) / n
		}
		agg.WeightedVolume = float64(agg.Count) * agg.Weight
		out = append(out, agg)
	}
	return out
}

// from reports whether article i was loaded from entry idx. Without
// Sources, the article's interval tag decides.
func (ds Dataset) from(i, idx int) bool {
	if len(ds.Sources) == len(ds.Articles) {
		return ds.Sources[i] == idx
	}
	return ds.Entries[idx].Interval == ds.Articles[i].Interval
}

// WeightedVolumes returns the weighted volume series of aggs.
func WeightedVolumes(aggs []types.YearlyAggregate) []float64 {
	out := make([]float64, len(aggs))
	for i, a := range aggs {
		out[i] = a.WeightedVolume
	}
	return out
}
