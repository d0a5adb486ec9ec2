// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/news-sentiment/internal/httputil"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// HTTPScorer delegates scoring to an external service. It POSTs
// {"text": ...} and expects {"polarity": ..., "subjectivity": ...}.
type HTTPScorer struct {
	Client    *http.Client
	URL       string
	APIKey    string
	UserAgent string
}

// NewHTTPScorer returns an HTTPScorer for cfg.
func NewHTTPScorer(cfg types.SentimentConfig) *HTTPScorer {
	return &HTTPScorer{
		Client:    &http.Client{Timeout: cfg.Timeout},
		URL:       cfg.URL,
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

// Score implements Scorer. Out-of-range scores from the service are clamped.
func (s *HTTPScorer) Score(ctx context.Context, text string) (Score, error) {
	payload, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return Score{}, fmt.Errorf("encoding sentiment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return Score{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return Score{}, fmt.Errorf("sentiment service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Score{}, &httputil.StatusError{Code: resp.StatusCode, URL: s.URL}
	}

	var score Score
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return Score{}, fmt.Errorf("parsing sentiment response: %w", err)
	}
	return score.Clamp(), nil
}
