package narrate

import (
	"fmt"
	"strings"

	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/zodiac"
)

const systemPrompt = `You are a warm, plain-spoken astrologer writing for a horoscope app.

Rules:
- Write about the two signs named in the request, and no others.
- Keep the summary to two or three sentences.
- The relationship text is one paragraph of at most five sentences. Name strengths before friction.
- Let the scores set the tone: high scores read as easy harmony, low scores as real work.
- Do not quote the numeric scores.
- Plain text only. No markdown, no emoji.`

// buildUserMessage describes one pair, its scores and the text it has now.
func buildUserMessage(p zodiac.Pair, scores []compat.Match, current compat.Narrative) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pair: %s\n", p.Key())
	for _, s := range []zodiac.Sign{p.Low, p.High} {
		fmt.Fprintf(&b, "%s: %s sign, %s\n", s, s.Element(), s.Modality())
	}

	b.WriteString("\nScores (0-100):\n")
	for _, m := range scores {
		fmt.Fprintf(&b, "- %s: %d\n", m.Category.Label(), m.Score)
	}
	fmt.Fprintf(&b, "Overall: %d\n", compat.Overall(scores))

	if current.Summary != "" {
		b.WriteString("\nCurrent summary, to improve on:\n")
		b.WriteString(current.Summary)
		b.WriteString("\n")
	}
	return b.String()
}
