package zodiac

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSign is returned when a name or value does not identify one of
// the twelve signs.
var ErrUnknownSign = errors.New("unknown zodiac sign")

// Sign identifies one of the twelve zodiac signs. The zero value is invalid.
type Sign int

const (
	Aries Sign = iota + 1
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Element is the classical element a sign belongs to.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

// Modality is the quality of a sign.
type Modality string

const (
	Cardinal Modality = "cardinal"
	Fixed    Modality = "fixed"
	Mutable  Modality = "mutable"
)

type signInfo struct {
	name     string
	symbol   string
	element  Element
	modality Modality
}

// signs is indexed by Sign; index 0 is the invalid zero value.
var signs = [...]signInfo{
	{},
	{"Aries", "♈", Fire, Cardinal},
	{"Taurus", "♉", Earth, Fixed},
	{"Gemini", "♊", Air, Mutable},
	{"Cancer", "♋", Water, Cardinal},
	{"Leo", "♌", Fire, Fixed},
	{"Virgo", "♍", Earth, Mutable},
	{"Libra", "♎", Air, Cardinal},
	{"Scorpio", "♏", Water, Fixed},
	{"Sagittarius", "♐", Fire, Mutable},
	{"Capricorn", "♑", Earth, Cardinal},
	{"Aquarius", "♒", Air, Fixed},
	{"Pisces", "♓", Water, Mutable},
}

// Count is the number of valid signs.
const Count = len(signs) - 1

// All returns the twelve signs in calendar order.
func All() []Sign {
	out := make([]Sign, 0, Count)
	for s := Aries; s <= Pisces; s++ {
		out = append(out, s)
	}
	return out
}

// Parse resolves a sign by name, ignoring case and surrounding space.
func Parse(name string) (Sign, error) {
	n := strings.TrimSpace(name)
	for s := Aries; s <= Pisces; s++ {
		if strings.EqualFold(signs[s].name, n) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSign, name)
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool {
	return s >= Aries && s <= Pisces
}

func (s Sign) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signs[s].name
}

// Slug is the lowercase name used in dataset keys.
func (s Sign) Slug() string {
	return strings.ToLower(s.String())
}

// Symbol returns the astrological glyph.
func (s Sign) Symbol() string {
	if !s.Valid() {
		return "?"
	}
	return signs[s].symbol
}

func (s Sign) Element() Element {
	if !s.Valid() {
		return ""
	}
	return signs[s].element
}

func (s Sign) Modality() Modality {
	if !s.Valid() {
		return ""
	}
	return signs[s].modality
}

// MarshalText encodes the sign by name.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSign, int(s))
	}
	return []byte(s.Slug()), nil
}

// UnmarshalText decodes a sign name.
func (s *Sign) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
