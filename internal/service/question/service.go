// Package question runs question submissions against the upstream
// providers and records the resulting sessions.
package question

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/sandevgo/quorum/pkg/log"
)

// Result is the single outcome of a submission.
type Result struct {
	Session core.SessionSummary
	Err     error
}

type Service struct {
	dispatcher core.QuestionDispatcher
	normalizer *answer.Normalizer
	ledger     *history.Ledger
	userID     string
	now        func() time.Time
	newID      func() string

	mu      sync.Mutex
	loading bool
	current *core.SessionSummary
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets the session id source used when the remote side
// returns no question id.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(
	dispatcher core.QuestionDispatcher,
	normalizer *answer.Normalizer,
	ledger *history.Ledger,
	userID string,
	opts ...Option,
) *Service {
	s := &Service{
		dispatcher: dispatcher,
		normalizer: normalizer,
		ledger:     ledger,
		userID:     userID,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit starts a submission and returns a channel that yields exactly one
// Result and is then closed. Only one submission may be outstanding.
func (s *Service) Submit(ctx context.Context, text string) (<-chan Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question is empty", core.ErrValidation)
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, core.ErrSubmissionInFlight
	}
	s.loading = true
	s.mu.Unlock()

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		defer s.setLoading(false)

		session, err := s.run(ctx, text)
		out <- Result{Session: session, Err: err}
	}()
	return out, nil
}

// Ask submits text and waits for the result.
func (s *Service) Ask(ctx context.Context, text string) (core.SessionSummary, error) {
	results, err := s.Submit(ctx, text)
	if err != nil {
		return core.SessionSummary{}, err
	}
	res := <-results
	return res.Session, res.Err
}

func (s *Service) run(ctx context.Context, text string) (core.SessionSummary, error) {
	logger := log.FromCtx(ctx)

	raw, err := s.dispatcher.SubmitQuestion(ctx, text, s.userID)
	if err != nil {
		if !errors.Is(err, core.ErrSubmissionFailed) {
			err = fmt.Errorf("%w: %v", core.ErrSubmissionFailed, err)
		}
		logger.Error().Err(err).Msg("question submission failed")
		return core.SessionSummary{}, err
	}

	if raw.SessionID == "" {
		raw.SessionID = s.newID()
	}

	records := s.normalizer.Normalize(raw)
	session := core.SessionSummary{
		ID:           raw.SessionID,
		Question:     text,
		Answers:      records,
		AnswersCount: len(records),
		Timestamp:    s.now(),
	}

	s.ledger.Append(ctx, session)

	s.mu.Lock()
	current := session
	current.Answers = slices.Clone(records)
	s.current = &current
	s.mu.Unlock()

	logger.Info().Str("session", session.ID).Int("answers", len(records)).Msg("question answered")
	return session, nil
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// IsLoading reports whether a submission is outstanding.
func (s *Service) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Current returns the most recently answered session.
func (s *Service) Current() (core.SessionSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return core.SessionSummary{}, false
	}
	out := *s.current
	out.Answers = slices.Clone(s.current.Answers)
	return out, true
}

func (s *Service) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// AnswersFor returns the answers of a session, looking at the current
// session first and then the ledger. Unknown sessions yield an empty slice.
func (s *Service) AnswersFor(sessionID string) []core.AnswerRecord {
	if cur, ok := s.Current(); ok && cur.ID == sessionID {
		return cur.Answers
	}
	if summary, ok := s.ledger.Get(sessionID); ok {
		return slices.Clone(summary.Answers)
	}
	return []core.AnswerRecord{}
}
