package compatibility

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/selection"
	"github.com/abhisek/horoscope/internal/zodiac"
)

func newScreen(t *testing.T, policy selection.Policy) *Screen {
	t.Helper()
	ds, err := compat.Default()
	require.NoError(t, err)
	return New(Deps{Matcher: compat.NewMatcher(ds), Policy: policy})
}

func key(s *Screen, code rune) {
	s.Update(tea.KeyPressMsg{Code: code})
}

func text(s *Screen, r rune) {
	s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
}

// pickAriesLeo picks Aries (cursor 0) and Leo, one row below it.
func pickAriesLeo(s *Screen) {
	key(s, tea.KeyEnter)
	key(s, tea.KeyDown)
	key(s, tea.KeyEnter)
}

func TestPickTwoShowsResult(t *testing.T) {
	s := newScreen(t, selection.DefaultPolicy())
	key(s, tea.KeyEnter)
	assert.Nil(t, s.result, "one sign is not enough")
	assert.Contains(t, s.View(100, 50), "Aries")

	key(s, tea.KeyDown)
	key(s, tea.KeyEnter)
	require.NotNil(t, s.result)
	assert.Equal(t, zodiac.Aries, s.result.first)
	assert.Equal(t, zodiac.Leo, s.result.second)

	view := s.View(100, 60)
	assert.Contains(t, view, "Relationship")
	assert.Contains(t, view, "Love")
	assert.Contains(t, view, "92%")
	assert.Contains(t, view, "Overall match: 87%")
}

func TestResultIsOrderInsensitive(t *testing.T) {
	s := newScreen(t, selection.DefaultPolicy())
	key(s, tea.KeyDown)
	key(s, tea.KeyEnter)
	key(s, tea.KeyUp)
	key(s, tea.KeyEnter)
	require.NotNil(t, s.result)

	other := newScreen(t, selection.DefaultPolicy())
	pickAriesLeo(other)
	require.NotNil(t, other.result)

	assert.Equal(t, other.result.matches, s.result.matches)
	assert.Equal(t, other.result.narrative, s.result.narrative)
}

func TestThirdPickIsRejected(t *testing.T) {
	s := newScreen(t, selection.DefaultPolicy())
	pickAriesLeo(s)
	key(s, tea.KeyRight)
	key(s, tea.KeyEnter)

	assert.Equal(t, 2, s.picked.Len())
	assert.NotNil(t, s.result)
	assert.Contains(t, s.View(100, 60), "Both slots are filled")
}

func TestDuplicatePickIsRejected(t *testing.T) {
	s := newScreen(t, selection.DefaultPolicy())
	key(s, tea.KeyEnter)
	key(s, tea.KeyEnter)

	assert.Equal(t, 1, s.picked.Len())
	assert.Contains(t, s.View(100, 50), "Aries is already picked.")
}

func TestSelectingSlotClears(t *testing.T) {
	s := newScreen(t, selection.DefaultPolicy())
	pickAriesLeo(s)
	key(s, tea.KeyUp)
	key(s, tea.KeyUp)
	require.Equal(t, areaSlots, s.area)

	key(s, tea.KeyEnter)
	assert.Equal(t, areaGrid, s.area)
	assert.Zero(t, s.picked.Len())
	assert.Nil(t, s.result)
	assert.Empty(t, s.grid.Marked)

	key(s, tea.KeyEnter)
	assert.Equal(t, 1, s.picked.Len())
}

func TestClearKey(t *testing.T) {
	s := newScreen(t, selection.DefaultPolicy())
	pickAriesLeo(s)
	text(s, 'c')
	assert.Zero(t, s.picked.Len())
	assert.Nil(t, s.result)
}

func TestSameSignPolicyReportsMatcherError(t *testing.T) {
	s := newScreen(t, selection.Policy{Capacity: 2, AllowSameSign: true})
	key(s, tea.KeyEnter)
	key(s, tea.KeyEnter)

	assert.True(t, s.picked.Complete())
	assert.Nil(t, s.result)
	assert.Contains(t, s.notice, "invalid compatibility input")
}

func TestNilMatcher(t *testing.T) {
	s := New(Deps{Policy: selection.DefaultPolicy()})
	pickAriesLeo(s)
	assert.Nil(t, s.result)
	assert.Contains(t, s.View(100, 50), "Compatibility data is not loaded.")
}
