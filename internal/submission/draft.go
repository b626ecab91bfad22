package submission

import (
	"github.com/google/uuid"
)

// MaxMessageLength bounds the question text, matching the input limit of
// the question screen.
const MaxMessageLength = 250

// Draft is a question being composed for an astrologer. Message and Email
// are nil until the user types into the matching field, and marshal as
// JSON null in that case.
type Draft struct {
	// ID identifies the draft across retries and is sent as the
	// idempotency key. It is not part of the payload.
	ID         string  `json:"-"`
	Message    *string `json:"message"`
	Email      *string `json:"email"`
	Astrologer string  `json:"astrologer"`
}

// NewDraft starts an empty draft addressed to astrologer.
func NewDraft(astrologer string) Draft {
	return Draft{
		ID:         uuid.NewString(),
		Astrologer: astrologer,
	}
}

// SetMessage records the question text, truncated to MaxMessageLength runes.
func (d *Draft) SetMessage(text string) {
	if r := []rune(text); len(r) > MaxMessageLength {
		text = string(r[:MaxMessageLength])
	}
	d.Message = &text
}

// SetEmail records the reply address.
func (d *Draft) SetEmail(text string) {
	d.Email = &text
}

// MessageText returns the question or "" when absent.
func (d Draft) MessageText() string {
	if d.Message == nil {
		return ""
	}
	return *d.Message
}

// EmailText returns the email or "" when absent.
func (d Draft) EmailText() string {
	if d.Email == nil {
		return ""
	}
	return *d.Email
}

// clone returns a copy that shares no pointers with d, so later edits by
// the screen cannot reach a payload that is in flight.
func (d Draft) clone() Draft {
	out := d
	if d.Message != nil {
		m := *d.Message
		out.Message = &m
	}
	if d.Email != nil {
		e := *d.Email
		out.Email = &e
	}
	return out
}
