// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the news-sentiment pipeline.
// The collector produces Articles and LogEntries; the reporter derives
// YearlyAggregates from them on every run.
package types

import "time"

// Article is one archived newspaper page returned by an interval query,
// narrowed to the sentences that mention a keyword and scored for sentiment.
type Article struct {
	// Date is the publication date of the issue.
	Date time.Time `json:"date" yaml:"date"`

	// State, County, and City locate the publication. The archive may list
	// several places; they are joined with "; ".
	State  string `json:"state" yaml:"state"`
	County string `json:"county" yaml:"county"`
	City   string `json:"city" yaml:"city"`

	// Title is the newspaper title.
	Title string `json:"title" yaml:"title"`

	// Text is the full OCR text of the page.
	Text string `json:"text" yaml:"text"`

	// Sentences holds the keyword-bearing sentences in original order.
	Sentences string `json:"sentences" yaml:"sentences"`

	// Polarity is in [-1.0, 1.0].
	Polarity float64 `json:"polarity" yaml:"polarity"`

	// Subjectivity is in [0.0, 1.0].
	Subjectivity float64 `json:"subjectivity" yaml:"subjectivity"`
}

// Year returns the calendar year of the article date.
func (a Article) Year() int {
	return a.Date.Year()
}

// TaggedArticle is an Article together with the interval whose result
// artifact it was loaded from.
type TaggedArticle struct {
	Article
	Interval Interval `json:"interval" yaml:"interval"`
}
