// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"math"
)

const (
	// AxisMargin is the fraction of the value range added on each side.
	AxisMargin = 0.10

	// AxisMinSpan is the absolute margin used when every value is equal.
	AxisMinSpan = 1.0
)

// ErrEmptySeries is returned by AxisRange when there is nothing to bound.
var ErrEmptySeries = errors.New("axis range of an empty series")

// AxisRange returns display bounds for values padded by AxisMargin of their
// range on both sides. A constant series expands by AxisMinSpan so the
// range always has positive width. NaN and infinite values are ignored.
func AxisRange(values []float64) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0, ErrEmptySeries
	}

	span := hi - lo
	if span == 0 {
		return lo - AxisMinSpan, hi + AxisMinSpan, nil
	}
	pad := span * AxisMargin
	return lo - pad, hi + pad, nil
}
