// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		min, max  int
		increment int
		want      []types.Interval
	}{
		{
			name: "even split", min: 1900, max: 1909, increment: 5,
			want: []types.Interval{{Start: 1900, End: 1904}, {Start: 1905, End: 1909}},
		},
		{
			name: "final interval truncated", min: 1900, max: 1911, increment: 5,
			want: []types.Interval{{Start: 1900, End: 1904}, {Start: 1905, End: 1909}, {Start: 1910, End: 1911}},
		},
		{
			name: "increment covers range", min: 1850, max: 1860, increment: 50,
			want: []types.Interval{{Start: 1850, End: 1860}},
		},
		{
			name: "increment equals range length", min: 1850, max: 1859, increment: 10,
			want: []types.Interval{{Start: 1850, End: 1859}},
		},
		{
			name: "single year", min: 1888, max: 1888, increment: 3,
			want: []types.Interval{{Start: 1888, End: 1888}},
		},
		{
			name: "increment of one", min: 1900, max: 1902, increment: 1,
			want: []types.Interval{{Start: 1900, End: 1900}, {Start: 1901, End: 1901}, {Start: 1902, End: 1902}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.min, tt.max, tt.increment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_ChroniclingAmericaRange(t *testing.T) {
	got, err := Plan(1820, 1960, 5)
	require.NoError(t, err)
	require.Len(t, got, 29)
	assert.Equal(t, types.Interval{Start: 1820, End: 1824}, got[0])
	assert.Equal(t, types.Interval{Start: 1960, End: 1960}, got[28])
	assert.Equal(t, 29, Count(1820, 1960, 5))
}

func TestPlan_Partitions(t *testing.T) {
	for lo := 1800; lo <= 1812; lo += 3 {
		for hi := lo; hi <= lo+25; hi += 4 {
			for inc := 1; inc <= 30; inc += 2 {
				got, err := Plan(lo, hi, inc)
				require.NoError(t, err)
				require.NotEmpty(t, got)
				assert.Equal(t, Count(lo, hi, inc), len(got))

				assert.Equal(t, lo, got[0].Start)
				assert.Equal(t, hi, got[len(got)-1].End)
				for i, iv := range got {
					assert.LessOrEqual(t, iv.Start, iv.End)
					assert.LessOrEqual(t, iv.Len(), inc)
					if i > 0 {
						assert.Equal(t, got[i-1].End+1, iv.Start, "gap or overlap at %d for %d-%d/%d", i, lo, hi, inc)
					}
				}
			}
		}
	}
}

func TestPlan_InvalidRange(t *testing.T) {
	tests := []struct {
		name      string
		min, max  int
		increment int
		errMsg    string
	}{
		{"lower above upper", 1900, 1850, 5, "lower bound exceeds upper bound"},
		{"zero increment", 1850, 1900, 0, "must be at least 1"},
		{"negative increment", 1850, 1900, -2, "must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.min, tt.max, tt.increment)
			assert.Nil(t, got)
			var rangeErr *InvalidRangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, 0, Count(tt.min, tt.max, tt.increment))
		})
	}
}

func TestResume(t *testing.T) {
	intervals, err := Plan(1850, 1869, 5)
	require.NoError(t, err)

	assert.Equal(t, intervals, Resume(intervals, 1800))
	assert.Equal(t, intervals[1:], Resume(intervals, 1855))
	assert.Equal(t, intervals[1:], Resume(intervals, 1857))
	assert.Equal(t, intervals[3:], Resume(intervals, 1869))
	assert.Empty(t, Resume(intervals, 1870))
}
