package selection

import (
	"errors"
	"fmt"

	"github.com/abhisek/horoscope/internal/zodiac"
)

var (
	// ErrFull is returned by Add once the policy's capacity is reached.
	ErrFull = errors.New("selection is full")

	// ErrDuplicate is returned by Add when the sign is already selected and
	// the policy disallows picking the same sign twice.
	ErrDuplicate = errors.New("sign already selected")
)

// PairSize is the number of signs a comparison needs.
const PairSize = 2

// Policy controls how many signs may be accumulated and whether a sign may
// fill both slots.
type Policy struct {
	// Capacity is the maximum number of signs held. Zero means unbounded,
	// which never becomes Complete once a third sign is added.
	Capacity int

	// AllowSameSign permits the same sign in both slots.
	AllowSameSign bool
}

// DefaultPolicy caps the selection at two distinct signs.
func DefaultPolicy() Policy {
	return Policy{Capacity: PairSize}
}

// Accumulator collects signs one at a time until a pair is formed.
type Accumulator struct {
	policy Policy
	signs  []zodiac.Sign
}

// New creates an empty Accumulator with the given policy.
func New(p Policy) *Accumulator {
	return &Accumulator{policy: p}
}

// Policy returns the accumulator's policy.
func (a *Accumulator) Policy() Policy {
	return a.policy
}

// Add appends s. A rejected add leaves the selection unchanged.
func (a *Accumulator) Add(s zodiac.Sign) error {
	if !s.Valid() {
		return fmt.Errorf("add %v: %w", s, zodiac.ErrUnknownSign)
	}
	if a.policy.Capacity > 0 && len(a.signs) >= a.policy.Capacity {
		return ErrFull
	}
	if !a.policy.AllowSameSign {
		for _, cur := range a.signs {
			if cur == s {
				return fmt.Errorf("%v: %w", s, ErrDuplicate)
			}
		}
	}
	a.signs = append(a.signs, s)
	return nil
}

// Clear empties the selection.
func (a *Accumulator) Clear() {
	a.signs = nil
}

func (a *Accumulator) Len() int {
	return len(a.signs)
}

// Signs returns a copy of the selected signs in the order they were added.
func (a *Accumulator) Signs() []zodiac.Sign {
	out := make([]zodiac.Sign, len(a.signs))
	copy(out, a.signs)
	return out
}

// First returns the first selected sign, if any.
func (a *Accumulator) First() (zodiac.Sign, bool) {
	return a.at(0)
}

// Second returns the second selected sign, if any.
func (a *Accumulator) Second() (zodiac.Sign, bool) {
	return a.at(1)
}

func (a *Accumulator) at(i int) (zodiac.Sign, bool) {
	if i >= len(a.signs) {
		return 0, false
	}
	return a.signs[i], true
}

// Complete reports whether exactly two signs are selected. Only a complete
// selection may be handed to the matcher.
func (a *Accumulator) Complete() bool {
	return len(a.signs) == PairSize
}

// Pair returns the two selected signs when Complete.
func (a *Accumulator) Pair() (zodiac.Sign, zodiac.Sign, bool) {
	if !a.Complete() {
		return 0, 0, false
	}
	return a.signs[0], a.signs[1], true
}
