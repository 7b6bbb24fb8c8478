package answer

import (
	"strings"

	"github.com/sandevgo/quorum/internal/core"
)

type ratingKey struct{ session, answer string }

type mapRatings map[ratingKey]int

func (m mapRatings) Score(sessionID, answerID string) (int, bool) {
	s, ok := m[ratingKey{sessionID, answerID}]
	return s, ok
}

func rec(id, provider, content string) core.AnswerRecord {
	return core.AnswerRecord{ID: id, Provider: provider, Content: content, SessionID: "s1"}
}

func ids(records []core.AnswerRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func repeat(n int) string {
	return strings.Repeat("a", n)
}
