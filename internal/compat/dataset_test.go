package compat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/horoscope/internal/zodiac"
)

func TestDefaultDatasetIsComplete(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 66, ds.Size())
	assert.Equal(t, "v1.0.0", ds.Version())
}

func TestLoadRejectsBadVersion(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing", "scores: {}\n"},
		{"not semver", "version: latest\n"},
		{"future major", "version: v2.0.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestLoadReportsMissingPairs(t *testing.T) {
	doc := `version: v1.0.0
scores:
  aries-taurus: {love: 10, communication: 10, trust: 10, intimacy: 10, values: 10, activities: 10}
`
	_, err := Load([]byte(doc))
	require.ErrorIs(t, err, ErrInvalidDataset)
	assert.Contains(t, err.Error(), "aries-gemini: no scores")
	assert.Contains(t, err.Error(), "aries-taurus: no narrative text")
}

func TestLoadReportsBadScores(t *testing.T) {
	doc := `version: v1.0.0
scores:
  taurus-aries: {love: 101, communication: 10, trust: 10, intimacy: 10, values: 10, luck: 3}
`
	_, err := Load([]byte(doc))
	require.ErrorIs(t, err, ErrInvalidDataset)
	assert.Contains(t, err.Error(), "love score 101 outside [0,100]")
	assert.Contains(t, err.Error(), `unknown category "luck"`)
	assert.Contains(t, err.Error(), `missing category "activities"`)
}

func TestOverrideReplacesScoresAndNarratives(t *testing.T) {
	override := `version: v1.1.0
scores:
  taurus-aries: {love: 99, communication: 98, trust: 97, intimacy: 96, values: 95, activities: 94}
narratives:
  gemini-aries:
    relationship: "Custom relationship text."
`
	ds, err := Load(embeddedDataset, []byte(override))
	require.NoError(t, err)
	assert.Equal(t, "v1.1.0", ds.Version())

	m := NewMatcher(ds)
	got, err := m.ScoreFor(zodiac.Aries, zodiac.Taurus)
	require.NoError(t, err)
	assert.Equal(t, 99, got[0].Score)
	assert.Equal(t, 94, got[5].Score)

	n, err := m.NarrativeFor(zodiac.Aries, zodiac.Gemini)
	require.NoError(t, err)
	assert.Equal(t, "Custom relationship text.", n.Relationship)
	assert.Contains(t, n.Summary, "Aries and Gemini")
}

func TestLoadWithOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1.0.1\nnarratives:\n  leo-virgo:\n    summary: From file.\n"), 0o644))

	ds, err := LoadWithOverrideFile(path)
	require.NoError(t, err)
	n, err := NewMatcher(ds).NarrativeFor(zodiac.Virgo, zodiac.Leo)
	require.NoError(t, err)
	assert.Equal(t, "From file.", n.Summary)

	_, err = LoadWithOverrideFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestElementKey(t *testing.T) {
	assert.Equal(t, "fire-water", elementKey(zodiac.NewPair(zodiac.Aries, zodiac.Cancer)))
	assert.Equal(t, "earth-air", elementKey(zodiac.NewPair(zodiac.Aquarius, zodiac.Taurus)))
	assert.Equal(t, "water-water", elementKey(zodiac.NewPair(zodiac.Pisces, zodiac.Scorpio)))
}
