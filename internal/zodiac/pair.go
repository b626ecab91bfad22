package zodiac

import (
	"fmt"
	"strings"
)

// Pair is an unordered pair of signs. Construct it with NewPair so that
// the two orderings of the same signs compare equal.
type Pair struct {
	Low  Sign
	High Sign
}

// NewPair normalises (a, b) so NewPair(a, b) == NewPair(b, a).
func NewPair(a, b Sign) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// Valid reports whether both signs are valid and distinct.
func (p Pair) Valid() bool {
	return p.Low.Valid() && p.High.Valid() && p.Low != p.High
}

// Key is the stable text form used in dataset files, e.g. "aries-taurus".
func (p Pair) Key() string {
	return p.Low.Slug() + "-" + p.High.Slug()
}

func (p Pair) String() string {
	return p.Low.String() + " & " + p.High.String()
}

// ParsePairKey is the inverse of Pair.Key. Sign order in the key does not
// matter.
func ParsePairKey(key string) (Pair, error) {
	a, b, ok := strings.Cut(key, "-")
	if !ok {
		return Pair{}, fmt.Errorf("%w: malformed pair key %q", ErrUnknownSign, key)
	}
	sa, err := Parse(a)
	if err != nil {
		return Pair{}, err
	}
	sb, err := Parse(b)
	if err != nil {
		return Pair{}, err
	}
	return NewPair(sa, sb), nil
}

// Pairs enumerates the 66 unordered pairs of distinct signs in a stable
// order.
func Pairs() []Pair {
	out := make([]Pair, 0, Count*(Count-1)/2)
	for a := Aries; a <= Pisces; a++ {
		for b := a + 1; b <= Pisces; b++ {
			out = append(out, Pair{Low: a, High: b})
		}
	}
	return out
}
