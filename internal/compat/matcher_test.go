package compat

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/horoscope/internal/zodiac"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	ds, err := Default()
	require.NoError(t, err)
	return NewMatcher(ds)
}

func TestScoreForIsSymmetric(t *testing.T) {
	m := newTestMatcher(t)
	for _, a := range zodiac.All() {
		for _, b := range zodiac.All() {
			if a == b {
				continue
			}
			ab, err := m.ScoreFor(a, b)
			require.NoError(t, err)
			ba, err := m.ScoreFor(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "%v/%v", a, b)
		}
	}
}

func TestScoreForCoversEveryCategoryInRange(t *testing.T) {
	m := newTestMatcher(t)
	want := Categories()
	for _, p := range zodiac.Pairs() {
		got, err := m.ScoreFor(p.Low, p.High)
		require.NoError(t, err)
		require.Len(t, got, len(want), p.Key())

		seen := map[Category]bool{}
		for i, match := range got {
			assert.Equal(t, want[i], match.Category, "%s order", p.Key())
			assert.False(t, seen[match.Category], "%s duplicate %s", p.Key(), match.Category)
			seen[match.Category] = true
			assert.GreaterOrEqual(t, match.Score, 0)
			assert.LessOrEqual(t, match.Score, 100)
		}
	}
}

func TestScoreForRejectsInvalidInput(t *testing.T) {
	m := newTestMatcher(t)
	tests := []struct {
		name string
		a, b zodiac.Sign
	}{
		{"same sign twice", zodiac.Leo, zodiac.Leo},
		{"zero sign", 0, zodiac.Leo},
		{"out of range", zodiac.Aries, zodiac.Sign(42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ScoreFor(tt.a, tt.b)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			_, err = m.NarrativeFor(tt.a, tt.b)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestMatcherWithoutDataset(t *testing.T) {
	for name, m := range map[string]*Matcher{
		"zero value":  {},
		"nil dataset": NewMatcher(nil),
		"nil matcher": nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ScoreFor(zodiac.Aries, zodiac.Leo)
			assert.ErrorIs(t, err, ErrInvalidInput)
			_, err = m.NarrativeFor(zodiac.Aries, zodiac.Leo)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestScoreForReturnsFreshSlice(t *testing.T) {
	m := newTestMatcher(t)
	first, err := m.ScoreFor(zodiac.Aries, zodiac.Gemini)
	require.NoError(t, err)
	first[0].Score = -1

	second, err := m.ScoreFor(zodiac.Aries, zodiac.Gemini)
	require.NoError(t, err)
	assert.NotEqual(t, -1, second[0].Score)
}

func TestNarrativeForEveryPair(t *testing.T) {
	m := newTestMatcher(t)
	for _, p := range zodiac.Pairs() {
		ab, err := m.NarrativeFor(p.Low, p.High)
		require.NoError(t, err)
		ba, err := m.NarrativeFor(p.High, p.Low)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
		assert.NotEmpty(t, ab.Summary, p.Key())
		assert.NotEmpty(t, ab.Relationship, p.Key())
		assert.NotContains(t, ab.Summary, "%{")
		assert.NotContains(t, ab.Relationship, "%{")
	}
}

func TestNarrativeOverridesTakePrecedence(t *testing.T) {
	m := newTestMatcher(t)
	n, err := m.NarrativeFor(zodiac.Capricorn, zodiac.Aries)
	require.NoError(t, err)
	assert.Contains(t, n.Summary, "After viewing Capricorn compatibility with Aries")
	// No relationship override for this pair, so the fire-earth template fills it.
	assert.Contains(t, n.Relationship, "Aries and Capricorn")
}

func TestConcurrentQueries(t *testing.T) {
	m := newTestMatcher(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range zodiac.Pairs() {
				_, err := m.ScoreFor(p.High, p.Low)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestOverall(t *testing.T) {
	assert.Equal(t, 0, Overall(nil))
	assert.Equal(t, 51, Overall([]Match{{Love, 50}, {Trust, 51}}))
	assert.Equal(t, 70, Overall([]Match{{Love, 60}, {Trust, 80}}))
}
