// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"go.yaml.in/yaml/v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// negationFactor flips and dampens a negated word's polarity.
const negationFactor = -0.5

// Lexicon maps words to their polarity and subjectivity.
type Lexicon struct {
	Negations    []string             `yaml:"negations"`
	Intensifiers map[string]float64   `yaml:"intensifiers"`
	Words        map[string]WordScore `yaml:"words"`
}

// WordScore is the lexicon entry for one word.
type WordScore struct {
	Polarity     float64 `yaml:"polarity"`
	Subjectivity float64 `yaml:"subjectivity"`
}

// ParseLexicon decodes a YAML lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lx Lexicon
	if err := yaml.Unmarshal(data, &lx); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	if len(lx.Words) == 0 {
		return nil, fmt.Errorf("lexicon has no words")
	}
	return &lx, nil
}

// LexiconScorer averages the scores of lexicon words in a text. A word
// preceded by an intensifier is scaled by it; a word preceded within two
// tokens by a negation has its polarity flipped and halved.
type LexiconScorer struct {
	lexicon   *Lexicon
	negations map[string]bool
}

// NewLexiconScorer returns a scorer over the embedded lexicon.
func NewLexiconScorer() (*LexiconScorer, error) {
	lx, err := ParseLexicon(defaultLexicon)
	if err != nil {
		return nil, err
	}
	return NewLexiconScorerFrom(lx), nil
}

// NewLexiconScorerFrom returns a scorer over lx.
func NewLexiconScorerFrom(lx *Lexicon) *LexiconScorer {
	neg := make(map[string]bool, len(lx.Negations))
	for _, n := range lx.Negations {
		neg[strings.ToLower(n)] = true
	}
	return &LexiconScorer{lexicon: lx, negations: neg}
}

// Score implements Scorer. Text with no lexicon words scores zero on both axes.
func (s *LexiconScorer) Score(_ context.Context, text string) (Score, error) {
	tokens := tokenize(text)

	var polarity, subjectivity float64
	var matched int
	for i, tok := range tokens {
		ws, ok := s.lexicon.Words[tok]
		if !ok {
			continue
		}
		p, subj := ws.Polarity, ws.Subjectivity

		if i > 0 {
			if f, ok := s.lexicon.Intensifiers[tokens[i-1]]; ok {
				p *= f
				subj *= f
			}
		}
		if s.negatedAt(tokens, i) {
			p *= negationFactor
		}

		polarity += p
		subjectivity += subj
		matched++
	}

	if matched == 0 {
		return Score{}, nil
	}
	n := float64(matched)
	return Score{Polarity: polarity / n, Subjectivity: subjectivity / n}.Clamp(), nil
}

func (s *LexiconScorer) negatedAt(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if s.negations[tokens[j]] {
			return true
		}
	}
	return false
}

// tokenize returns the lowercased word tokens of text, dropping
// whitespace and punctuation segments.
func tokenize(text string) []string {
	var out []string
	seg := words.FromString(strings.ToLower(text))
	for seg.Next() {
		tok := seg.Value()
		if strings.IndexFunc(tok, isWordRune) < 0 {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
