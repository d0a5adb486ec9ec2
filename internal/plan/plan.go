// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan splits a year range into the bounded intervals the collector
// queries one at a time.
package plan

import (
	"fmt"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

// InvalidRangeError reports planner input that cannot produce intervals.
type InvalidRangeError struct {
	YearMin   int
	YearMax   int
	Increment int
}

func (e *InvalidRangeError) Error() string {
	if e.Increment <= 0 {
		return fmt.Sprintf("invalid year increment %d: must be at least 1", e.Increment)
	}
	return fmt.Sprintf("invalid year range %d-%d: lower bound exceeds upper bound", e.YearMin, e.YearMax)
}

// Plan partitions [yearMin, yearMax] into ascending inclusive intervals of
// increment years each. The final interval is truncated at yearMax.
func Plan(yearMin, yearMax, increment int) ([]types.Interval, error) {
	if increment <= 0 || yearMin > yearMax {
		return nil, &InvalidRangeError{YearMin: yearMin, YearMax: yearMax, Increment: increment}
	}

	intervals := make([]types.Interval, 0, Count(yearMin, yearMax, increment))
	for start := yearMin; start <= yearMax; start += increment {
		end := min(start+increment-1, yearMax)
		intervals = append(intervals, types.Interval{Start: start, End: end})
	}
	return intervals, nil
}

// Count returns the number of intervals Plan produces for valid input, or
// zero for invalid input.
func Count(yearMin, yearMax, increment int) int {
	if increment <= 0 || yearMin > yearMax {
		return 0
	}
	return (yearMax-yearMin)/increment + 1
}

// Resume drops the leading intervals that end before fromYear. Intervals
// that straddle fromYear are kept whole so their log entries stay aligned
// with the original plan.
func Resume(intervals []types.Interval, fromYear int) []types.Interval {
	for i, iv := range intervals {
		if iv.End >= fromYear {
			return intervals[i:]
		}
	}
	return nil
}
