// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentiment scores a unit of text for polarity and subjectivity.
package sentiment

import (
	"context"
	"fmt"
	"math"

	"github.com/pdiddy/news-sentiment/pkg/types"
)

// Score is the sentiment of one text unit.
type Score struct {
	// Polarity is in [-1.0, 1.0].
	Polarity float64 `json:"polarity"`

	// Subjectivity is in [0.0, 1.0].
	Subjectivity float64 `json:"subjectivity"`
}

// Clamp returns s with both components forced into their ranges. NaN
// components become zero.
func (s Score) Clamp() Score {
	return Score{
		Polarity:     clamp(s.Polarity, -1, 1),
		Subjectivity: clamp(s.Subjectivity, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// Scorer abstracts the sentiment capability so tests can supply a mock.
type Scorer interface {
	Score(ctx context.Context, text string) (Score, error)
}

// New returns the Scorer selected by cfg.Backend. An empty backend selects
// the embedded lexicon.
func New(cfg types.SentimentConfig) (Scorer, error) {
	switch cfg.Backend {
	case "", types.SentimentLexicon:
		s, err := NewLexiconScorer()
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.SentimentHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("sentiment backend %q requires sentiment.url", cfg.Backend)
		}
		return NewHTTPScorer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown sentiment backend %q (want lexicon or http)", cfg.Backend)
	}
}
