package zodiac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsTwelveInOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 12)
	assert.Equal(t, Aries, all[0])
	assert.Equal(t, Pisces, all[11])
	for _, s := range all {
		assert.True(t, s.Valid(), "%v should be valid", s)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Sign
		wantErr bool
	}{
		{"Aries", Aries, false},
		{"  scorpio ", Scorpio, false},
		{"CAPRICORN", Capricorn, false},
		{"Ophiuchus", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownSign))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZeroValueInvalid(t *testing.T) {
	var s Sign
	assert.False(t, s.Valid())
	assert.Equal(t, "Sign(0)", s.String())
	assert.Equal(t, "?", s.Symbol())
	_, err := s.MarshalText()
	assert.ErrorIs(t, err, ErrUnknownSign)
}

func TestElementsAndModalities(t *testing.T) {
	assert.Equal(t, Fire, Leo.Element())
	assert.Equal(t, Water, Pisces.Element())
	assert.Equal(t, Cardinal, Capricorn.Modality())
	assert.Equal(t, Fixed, Aquarius.Modality())

	counts := map[Element]int{}
	for _, s := range All() {
		counts[s.Element()]++
	}
	for _, e := range []Element{Fire, Earth, Air, Water} {
		assert.Equal(t, 3, counts[e], "element %s", e)
	}
}

func TestTextRoundTrip(t *testing.T) {
	b, err := Sagittarius.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "sagittarius", string(b))

	var s Sign
	require.NoError(t, s.UnmarshalText(b))
	assert.Equal(t, Sagittarius, s)
}

func TestPairIsUnordered(t *testing.T) {
	assert.Equal(t, NewPair(Leo, Aries), NewPair(Aries, Leo))
	assert.Equal(t, "aries-leo", NewPair(Leo, Aries).Key())
	assert.False(t, NewPair(Leo, Leo).Valid())
	assert.False(t, NewPair(0, Leo).Valid())
}

func TestParsePairKey(t *testing.T) {
	p, err := ParsePairKey("pisces-cancer")
	require.NoError(t, err)
	assert.Equal(t, NewPair(Cancer, Pisces), p)

	_, err = ParsePairKey("pisces")
	assert.ErrorIs(t, err, ErrUnknownSign)
	_, err = ParsePairKey("pisces-dragon")
	assert.ErrorIs(t, err, ErrUnknownSign)
}

func TestPairsEnumeratesSixtySix(t *testing.T) {
	pairs := Pairs()
	require.Len(t, pairs, 66)
	seen := map[Pair]bool{}
	for _, p := range pairs {
		assert.True(t, p.Valid())
		assert.False(t, seen[p], "duplicate %v", p)
		seen[p] = true
	}
}
