// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// YearlyAggregate summarizes one calendar year of merged results. It is a
// derived view: the reporter recomputes it from the log on every run.
type YearlyAggregate struct {
	Year     int      `json:"year" yaml:"year"`
	Interval Interval `json:"interval" yaml:"interval"`

	// Count is the raw number of articles with keyword-bearing sentences.
	Count int `json:"count" yaml:"count"`

	// MeanPolarity and MeanSubjectivity average the article scores. Both
	// are zero when Count is zero.
	MeanPolarity     float64 `json:"mean_polarity" yaml:"mean_polarity"`
	MeanSubjectivity float64 `json:"mean_subjectivity" yaml:"mean_subjectivity"`

	// NegativeShare is the fraction of articles with polarity below zero.
	NegativeShare float64 `json:"negative_share" yaml:"negative_share"`

	// Weight is available/collected for the interval containing the year.
	Weight float64 `json:"weight" yaml:"weight"`

	// WeightedVolume is Count scaled by Weight.
	WeightedVolume float64 `json:"weighted_volume" yaml:"weighted_volume"`
}

// ComparisonPoint is one row of an external annual dataset the reporter
// charts alongside the weighted volume.
type ComparisonPoint struct {
	Year  int     `json:"year" yaml:"year"`
	Count float64 `json:"count" yaml:"count"`
}
