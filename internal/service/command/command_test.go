package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/sandevgo/quorum/internal/service/rating"
	"github.com/sandevgo/quorum/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	summaries []core.SessionSummary
	err       error
}

func (s *stubRemote) FetchHistory(context.Context, string, int) ([]core.SessionSummary, error) {
	return s.summaries, s.err
}

type fixture struct {
	router    *Router
	ledger    *history.Ledger
	ratings   *rating.Store
	selection *answer.Selection
	remote    *stubRemote
	saves     int
}

func session(id, question string, ts time.Time, answers ...string) core.SessionSummary {
	s := core.SessionSummary{ID: id, Question: question, Timestamp: ts}
	providers := []string{"Spark", "Qianfan", "Doubao"}
	for i, content := range answers {
		s.Answers = append(s.Answers, core.AnswerRecord{
			ID:        string(rune('1' + i)),
			Provider:  providers[i%len(providers)],
			Content:   content,
			CreatedAt: ts,
			SessionID: id,
		})
	}
	return s
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{remote: &stubRemote{}}
	kv := memory.NewKV()
	f.ledger = history.NewLedger(kv, f.remote)
	f.ratings = rating.NewStore(kv)

	fe, err := answer.NewFilterEngine(core.FilterConfig{})
	require.NoError(t, err)
	f.selection = answer.NewSelection(fe, answer.NewRecommender(core.DefaultRecommendationConfig(), f.ratings),
		func(core.FilterConfig, core.RecommendationConfig) error {
			f.saves++
			return nil
		})

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local)
	f.ledger.Append(ctx, session("10", "What is a goroutine?", base, "green thread", "lightweight thread managed by the runtime", "coroutine"))
	f.ledger.Append(ctx, session("11", "Explain channels", base.Add(24*time.Hour), "pipes", "typed conduits", ""))

	f.router = New(NewCommands(Deps{
		Ledger:       f.ledger,
		Ratings:      f.ratings,
		Selection:    f.selection,
		UserID:       "42",
		HistoryLimit: 20,
	}))
	return f
}

func (f *fixture) run(t *testing.T, input string) string {
	t.Helper()
	out, handled := f.router.Execute(context.Background(), "chat", input)
	require.True(t, handled)
	return out
}

func TestRouter_PlainTextIsNotACommand(t *testing.T) {
	f := newFixture(t)
	out, handled := f.router.Execute(context.Background(), "chat", "what is go?")
	assert.False(t, handled)
	assert.Empty(t, out)
}

func TestRouter_HelpAndUnknown(t *testing.T) {
	f := newFixture(t)

	help := f.run(t, "/help")
	assert.Contains(t, help, "/history")
	assert.Contains(t, help, "/rate")

	assert.Contains(t, f.run(t, "/nope"), "Unknown command: /nope")
	assert.Contains(t, f.run(t, "/history@quorum_bot goroutine"), "`10`")
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	f := newFixture(t)
	var names []string
	for _, cmd := range f.router.ListCommands() {
		names = append(names, cmd.Name())
	}
	assert.IsIncreasing(t, names)
}

func TestHistoryCommand(t *testing.T) {
	f := newFixture(t)

	all := f.run(t, "/history")
	assert.Contains(t, all, "History (2)")
	assert.Less(t, strings.Index(all, "`11`"), strings.Index(all, "`10`"), "newest first")

	byText := f.run(t, "/history runtime")
	assert.Contains(t, byText, "`10`")
	assert.NotContains(t, byText, "`11`")

	byDate := f.run(t, "/history from:2025-05-02")
	assert.Contains(t, byDate, "`11`")
	assert.NotContains(t, byDate, "`10`")

	assert.Contains(t, f.run(t, "/history haskell"), "No sessions found")
	assert.Contains(t, f.run(t, "/history from:yesterday"), "Invalid input")
}

func TestShowCommand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ratings.Rate(context.Background(), "10", "3", 4))

	out := f.run(t, "/show 10")
	assert.Contains(t, out, "What is a goroutine?")
	assert.Contains(t, out, "⭐ **Doubao** `#3` · rated 4")
	assert.Contains(t, out, "**Spark** `#1`")

	assert.Contains(t, f.run(t, "/show 99"), "Not found")
	assert.Contains(t, f.run(t, "/show"), "Usage")
}

func TestShowCommand_EmptyAnswerPlaceholder(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.run(t, "/show 11"), "_no answer_")
}

func TestBestCommand(t *testing.T) {
	f := newFixture(t)

	// Latest session, no ratings: first candidate.
	assert.Contains(t, f.run(t, "/best"), "⭐ **Spark** `#1`")

	f.run(t, "/prefer length on")
	f.run(t, "/prefer ratings off")
	assert.Contains(t, f.run(t, "/best 10"), "lightweight thread managed by the runtime")

	f.run(t, "/filter keywords nothing-matches")
	assert.Contains(t, f.run(t, "/best 10"), "No answer passes the current filter")

	assert.Contains(t, f.run(t, "/best 99"), "Not found")
}

func TestRateCommand(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.run(t, "/rate 10 2 5"), "rated 5")
	score, ok := f.ratings.Score("10", "2")
	require.True(t, ok)
	assert.Equal(t, 5, score)

	assert.Contains(t, f.run(t, "/rate 10 2 1.5"), "Invalid input")
	assert.Contains(t, f.run(t, "/rate 10 2 NaN"), "Invalid input")
	score, _ = f.ratings.Score("10", "2")
	assert.Equal(t, 5, score, "invalid input leaves the rating alone")

	assert.Contains(t, f.run(t, "/rate 10"), "Usage")
}

func TestDeleteAndClearCommands(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.run(t, "/delete 10"), "Session 10 deleted")
	_, ok := f.ledger.Get("10")
	assert.False(t, ok)
	assert.Contains(t, f.run(t, "/delete 10"), "Not found")

	assert.Contains(t, f.run(t, "/clear"), "/clear confirm")
	assert.Equal(t, 1, f.ledger.Len())

	assert.Contains(t, f.run(t, "/clear confirm"), "History cleared")
	assert.Equal(t, 0, f.ledger.Len())
}

func TestSyncCommand(t *testing.T) {
	f := newFixture(t)

	f.remote.err = errors.New("connection refused")
	assert.Contains(t, f.run(t, "/sync"), "History unavailable")
	assert.Equal(t, 2, f.ledger.Len())

	f.remote.err = nil
	f.remote.summaries = []core.SessionSummary{session("77", "remote", time.Now(), "a")}
	assert.Contains(t, f.run(t, "/sync"), "Loaded 1 sessions")
	_, ok := f.ledger.Get("77")
	assert.True(t, ok)
}

func TestFilterCommand(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.run(t, "/filter"), "**Providers**  ›  `any`")

	out := f.run(t, "/filter providers Spark, Doubao")
	assert.Contains(t, out, "Filter updated")
	assert.Equal(t, []string{"Spark", "Doubao"}, f.selection.FilterConfig().Providers)

	f.run(t, "/filter minlength 6")
	assert.Equal(t, 6, f.selection.FilterConfig().MinLength)
	assert.Contains(t, f.run(t, "/filter minlength -1"), "Invalid input")
	assert.Equal(t, 6, f.selection.FilterConfig().MinLength)
	assert.Contains(t, f.run(t, "/filter minlength six"), "Invalid input")

	f.run(t, "/filter reset")
	assert.Equal(t, core.FilterConfig{}, f.selection.FilterConfig())
	assert.Equal(t, 3, f.saves)

	assert.Contains(t, f.run(t, "/filter bogus"), "Usage")
}

func TestPreferCommand(t *testing.T) {
	f := newFixture(t)

	f.run(t, "/prefer providers Qianfan")
	f.run(t, "/prefer length yes")
	cfg := f.selection.RecommendationConfig()
	assert.Equal(t, []string{"Qianfan"}, cfg.PreferredProviders)
	assert.True(t, cfg.UseContentLength)
	assert.True(t, cfg.UseUserRatings)

	assert.Contains(t, f.run(t, "/prefer ratings maybe"), "Invalid input")

	f.run(t, "/prefer reset")
	assert.Equal(t, core.DefaultRecommendationConfig(), f.selection.RecommendationConfig())
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"Provider A", "Provider B"}, ParseList([]string{"Provider", "A,", "Provider", "B"}))
	assert.Equal(t, []string{}, ParseList(nil))
	assert.Equal(t, []string{}, ParseList([]string{"none"}))
	assert.Equal(t, []string{}, ParseList([]string{",", ","}))
}
