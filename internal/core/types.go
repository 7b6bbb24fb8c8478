package core

import "time"

const (
	QuorumName      = "Quorum"
	QuorumUserAgent = "Quorum-Client/0.1"
	QuorumVersion   = "0.1.0"
)

// AnswerRecord is one provider's answer within a session.
// Its ID is unique only inside SessionID.
type AnswerRecord struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	SessionID string    `json:"session_id"`
}

// SessionSummary is a History Ledger entry.
type SessionSummary struct {
	ID           string         `json:"id"`
	Question     string         `json:"question"`
	Answers      []AnswerRecord `json:"answers"`
	AnswersCount int            `json:"answers_count"`
	Timestamp    time.Time      `json:"timestamp"`
}

// ProviderAnswers is the fixed-arity response of a question submission.
type ProviderAnswers struct {
	SessionID string
	A         string
	B         string
	C         string
}

// Slots returns the three provider answers in slot order.
func (p ProviderAnswers) Slots() [3]string {
	return [3]string{p.A, p.B, p.C}
}
