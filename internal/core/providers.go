package core

import "context"

// QuestionDispatcher submits a question to the upstream providers.
type QuestionDispatcher interface {
	SubmitQuestion(ctx context.Context, query, userID string) (ProviderAnswers, error)
}

// HistoryService returns the user's past sessions from the remote side.
type HistoryService interface {
	FetchHistory(ctx context.Context, userID string, limit int) ([]SessionSummary, error)
}

// RatingLookup resolves a user rating for an answer.
type RatingLookup interface {
	Score(sessionID, answerID string) (int, bool)
}
