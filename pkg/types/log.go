// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LogEntry records one completed interval query. The log artifact is the
// collection's only resumption state: an entry exists only when its result
// artifact was fully written.
type LogEntry struct {
	// Path is the location of the interval's result artifact.
	Path string `json:"path" yaml:"path"`

	// Keywords is the keyword set used for the query.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Interval holds the inclusive year bounds.
	Interval Interval `json:"interval" yaml:"interval"`

	// Collected is the number of records fetched, capped by the per-query maximum.
	Collected int `json:"n_collected" yaml:"n_collected"`

	// Available is the total the archive reported for the query.
	Available int `json:"n_available" yaml:"n_available"`

	// ElapsedSeconds is the wall-clock duration of the interval, including
	// any retry cooldown.
	ElapsedSeconds float64 `json:"task_time_s" yaml:"task_time_s"`
}

// Weight returns available/collected, the factor by which the interval's
// apparent volume must be scaled to estimate the true volume. An interval
// that collected nothing has nothing to scale and weighs 1.0.
func (e LogEntry) Weight() float64 {
	if e.Collected <= 0 {
		return 1.0
	}
	return float64(e.Available) / float64(e.Collected)
}

// Truncated reports whether fewer records were collected than were available.
func (e LogEntry) Truncated() bool {
	return e.Collected < e.Available
}
