package compat

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/horoscope/internal/zodiac"
)

// ErrInvalidInput is returned when a query names an invalid sign or the
// same sign twice. Callers are expected to prevent this by only querying a
// complete selection.
var ErrInvalidInput = errors.New("invalid compatibility input")

// Match is a single category score in [0,100].
type Match struct {
	Category Category
	Score    int
}

// Narrative is the prose shown for a pair.
type Narrative struct {
	Summary      string
	Relationship string
}

// Matcher answers compatibility queries over a Dataset. It holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	data *Dataset
}

// NewMatcher creates a Matcher over d. A Matcher without a dataset answers
// every query with ErrInvalidInput.
func NewMatcher(d *Dataset) *Matcher {
	return &Matcher{data: d}
}

// Dataset returns the table the matcher reads from.
func (m *Matcher) Dataset() *Dataset {
	return m.data
}

// ScoreFor returns one Match per category, in display order. The result is
// symmetric in a and b and is a fresh slice on every call.
func (m *Matcher) ScoreFor(a, b zodiac.Sign) ([]Match, error) {
	p, err := m.pair(a, b)
	if err != nil {
		return nil, err
	}
	row, ok := m.data.scores[p]
	if !ok {
		// Load validates every pair, so this only fires on a zero Dataset.
		return nil, fmt.Errorf("%w: no scores for %s", ErrInvalidInput, p)
	}
	out := make([]Match, len(categories))
	for i, c := range categories {
		out[i] = Match{Category: c, Score: row[i]}
	}
	return out, nil
}

// NarrativeFor returns the summary and relationship text for the pair.
func (m *Matcher) NarrativeFor(a, b zodiac.Sign) (Narrative, error) {
	p, err := m.pair(a, b)
	if err != nil {
		return Narrative{}, err
	}
	n, ok := m.data.narratives[p]
	if !ok {
		return Narrative{}, fmt.Errorf("%w: no narrative for %s", ErrInvalidInput, p)
	}
	return n, nil
}

func (m *Matcher) pair(a, b zodiac.Sign) (zodiac.Pair, error) {
	if m == nil || m.data == nil {
		return zodiac.Pair{}, fmt.Errorf("%w: matcher has no dataset", ErrInvalidInput)
	}
	if !a.Valid() || !b.Valid() {
		return zodiac.Pair{}, fmt.Errorf("%w: %v, %v", ErrInvalidInput, a, b)
	}
	if a == b {
		return zodiac.Pair{}, fmt.Errorf("%w: %v selected twice", ErrInvalidInput, a)
	}
	return zodiac.NewPair(a, b), nil
}

// Overall is the rounded mean of the scores, 0 for an empty slice.
func Overall(matches []Match) int {
	if len(matches) == 0 {
		return 0
	}
	sum := 0
	for _, m := range matches {
		sum += m.Score
	}
	return int(math.Round(float64(sum) / float64(len(matches))))
}
