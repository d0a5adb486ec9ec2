// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Interval is an inclusive range of years queried as one batch.
type Interval struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of years covered.
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// Contains reports whether year falls inside the interval.
func (iv Interval) Contains(year int) bool {
	return year >= iv.Start && year <= iv.End
}

// String renders the interval as "start-end".
func (iv Interval) String() string {
	return fmt.Sprintf("%d-%d", iv.Start, iv.End)
}
