package question

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/sandevgo/quorum/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

type fakeDispatcher struct {
	mu      sync.Mutex
	answers core.ProviderAnswers
	err     error
	gate    chan struct{}
	queries []string
	users   []string
}

func (f *fakeDispatcher) SubmitQuestion(ctx context.Context, query, userID string) (core.ProviderAnswers, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.users = append(f.users, userID)
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return core.ProviderAnswers{}, ctx.Err()
		}
	}
	return f.answers, f.err
}

func newTestService(d core.QuestionDispatcher) (*Service, *history.Ledger) {
	ledger := history.NewLedger(memory.NewKV(), nil)
	clock := func() time.Time { return fixedNow }
	normalizer := answer.NewNormalizer([]string{"Spark", "Qianfan", "Doubao"}, clock)
	svc := NewService(d, normalizer, ledger, "42",
		WithClock(clock),
		WithIDGenerator(func() string { return "generated" }),
	)
	return svc, ledger
}

func TestService_AskSuccess(t *testing.T) {
	d := &fakeDispatcher{answers: core.ProviderAnswers{SessionID: "17", A: "a", B: "bb", C: "ccc"}}
	svc, ledger := newTestService(d)

	session, err := svc.Ask(context.Background(), "  What is Go?  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"What is Go?"}, d.queries)
	assert.Equal(t, []string{"42"}, d.users)
	assert.Equal(t, "17", session.ID)
	assert.Equal(t, "What is Go?", session.Question)
	assert.Equal(t, 3, session.AnswersCount)
	assert.Equal(t, fixedNow, session.Timestamp)
	require.Len(t, session.Answers, 3)
	assert.Equal(t, "Qianfan", session.Answers[1].Provider)
	assert.Equal(t, "17", session.Answers[2].SessionID)

	stored, ok := ledger.Get("17")
	require.True(t, ok)
	assert.Equal(t, session, stored)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, session, current)
	assert.False(t, svc.IsLoading())
}

func TestService_GeneratesIDWhenRemoteHasNone(t *testing.T) {
	d := &fakeDispatcher{answers: core.ProviderAnswers{A: "only"}}
	svc, ledger := newTestService(d)

	session, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, "generated", session.ID)
	assert.Equal(t, "generated", session.Answers[0].SessionID)
	assert.Equal(t, "", session.Answers[1].Content)
	_, ok := ledger.Get("generated")
	assert.True(t, ok)
}

func TestService_SubmitEmptyQuestion(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{})

	_, err := svc.Submit(context.Background(), "   ")

	assert.ErrorIs(t, err, core.ErrValidation)
	assert.False(t, svc.IsLoading())
}

func TestService_FailureClearsLoading(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("dial tcp: connection refused")}
	svc, ledger := newTestService(d)

	_, err := svc.Ask(context.Background(), "q")

	assert.ErrorIs(t, err, core.ErrSubmissionFailed)
	assert.False(t, svc.IsLoading())
	assert.Equal(t, 0, ledger.Len())
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestService_SingleResolution(t *testing.T) {
	d := &fakeDispatcher{answers: core.ProviderAnswers{SessionID: "1"}}
	svc, _ := newTestService(d)

	results, err := svc.Submit(context.Background(), "q")
	require.NoError(t, err)

	first, ok := <-results
	require.True(t, ok)
	assert.NoError(t, first.Err)

	_, ok = <-results
	assert.False(t, ok, "channel is closed after the single result")
}

func TestService_RejectsConcurrentSubmission(t *testing.T) {
	d := &fakeDispatcher{
		answers: core.ProviderAnswers{SessionID: "1"},
		gate:    make(chan struct{}),
	}
	svc, _ := newTestService(d)

	results, err := svc.Submit(context.Background(), "first")
	require.NoError(t, err)
	assert.True(t, svc.IsLoading())

	_, err = svc.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, core.ErrSubmissionInFlight)

	close(d.gate)
	res := <-results
	require.NoError(t, res.Err)

	assert.Eventually(t, func() bool { return !svc.IsLoading() }, time.Second, 5*time.Millisecond)

	d.gate = nil
	_, err = svc.Ask(context.Background(), "third")
	assert.NoError(t, err)
}

func TestService_ContextCancelled(t *testing.T) {
	d := &fakeDispatcher{gate: make(chan struct{})}
	svc, _ := newTestService(d)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := svc.Submit(ctx, "q")
	require.NoError(t, err)
	cancel()

	res := <-results
	assert.ErrorIs(t, res.Err, core.ErrSubmissionFailed)
}

func TestService_ClearCurrentAndAnswersFor(t *testing.T) {
	d := &fakeDispatcher{answers: core.ProviderAnswers{SessionID: "s1", A: "x", B: "y", C: "z"}}
	svc, _ := newTestService(d)

	_, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)

	assert.Len(t, svc.AnswersFor("s1"), 3)

	svc.ClearCurrent()
	_, ok := svc.Current()
	assert.False(t, ok)

	// Still reachable through the ledger.
	assert.Len(t, svc.AnswersFor("s1"), 3)
	assert.Empty(t, svc.AnswersFor("unknown"))
	assert.NotNil(t, svc.AnswersFor("unknown"))
}
