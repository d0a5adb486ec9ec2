// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract narrows article text to the sentences that mention a
// keyword and scores those sentences for sentiment.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"

	"github.com/pdiddy/news-sentiment/internal/sentiment"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

// SelectSentences splits text at Unicode sentence boundaries (UAX #29) and
// returns, in original order and joined by single spaces, every sentence
// that contains at least one keyword. Matching is a case-insensitive
// substring test. The result is empty when no sentence matches.
//
// Whitespace runs are collapsed first: OCR text wraps at column width and
// UAX #29 treats every line feed as a hard sentence break.
func SelectSentences(text string, keywords []string) string {
	needles := lowerKeywords(keywords)
	text = strings.Join(strings.Fields(text), " ")
	if len(needles) == 0 || text == "" {
		return ""
	}

	var selected []string
	seg := sentences.FromString(text)
	for seg.Next() {
		sentence := strings.TrimSpace(seg.Value())
		if sentence == "" {
			continue
		}
		if containsAny(strings.ToLower(sentence), needles) {
			selected = append(selected, sentence)
		}
	}
	return strings.Join(selected, " ")
}

func lowerKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// ScoreArticle fills in the selected sentences and their sentiment. The
// boolean is false, and the scorer is not called, when no sentence contains
// a keyword; such articles are excluded from results even though the
// archive matched them on some other field.
func ScoreArticle(ctx context.Context, scorer sentiment.Scorer, a types.Article, keywords []string) (types.Article, bool, error) {
	selection := SelectSentences(a.Text, keywords)
	if selection == "" {
		return a, false, nil
	}

	score, err := scorer.Score(ctx, selection)
	if err != nil {
		return a, false, fmt.Errorf("scoring %q (%s): %w", a.Title, a.Date.Format("2006-01-02"), err)
	}

	a.Sentences = selection
	a.Polarity = score.Polarity
	a.Subjectivity = score.Subjectivity
	return a, true, nil
}
