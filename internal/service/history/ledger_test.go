package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeRemote struct {
	summaries []core.SessionSummary
	err       error
	calls     int
	gotUser   string
	gotLimit  int
}

func (f *fakeRemote) FetchHistory(_ context.Context, userID string, limit int) ([]core.SessionSummary, error) {
	f.calls++
	f.gotUser, f.gotLimit = userID, limit
	return f.summaries, f.err
}

func summary(id string, ts time.Time, question string, answers ...string) core.SessionSummary {
	s := core.SessionSummary{ID: id, Question: question, Timestamp: ts}
	for i, content := range answers {
		s.Answers = append(s.Answers, core.AnswerRecord{
			ID:        fmt.Sprint(i + 1),
			Provider:  "P",
			Content:   content,
			CreatedAt: ts,
			SessionID: id,
		})
	}
	return s
}

func entryIDs(entries []core.SessionSummary) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestLedger_AppendHeadFirst(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), nil)

	l.Append(ctx, summary("a", base, "q1"))
	l.Append(ctx, summary("b", base.Add(-time.Hour), "q2"))

	// Insertion order, not timestamp order.
	assert.Equal(t, []string{"b", "a"}, entryIDs(l.Entries()))
}

func TestLedger_AppendRecomputesAnswersCount(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), nil)

	s := summary("a", base, "q", "x", "y", "z")
	s.AnswersCount = 99
	l.Append(ctx, s)

	got, ok := l.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, got.AnswersCount)
}

func TestLedger_CapacityFIFO(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), nil)

	for i := 0; i < 105; i++ {
		// Timestamps run backwards so eviction can't be timestamp-based.
		l.Append(ctx, summary(fmt.Sprintf("s%03d", i), base.Add(-time.Duration(i)*time.Minute), "q"))
	}

	require.Equal(t, DefaultCapacity, l.Len())
	for i := 0; i < 5; i++ {
		_, ok := l.Get(fmt.Sprintf("s%03d", i))
		assert.False(t, ok, "oldest insert s%03d should be evicted", i)
	}
	entries := l.Entries()
	assert.Equal(t, "s104", entries[0].ID)
	assert.Equal(t, "s005", entries[len(entries)-1].ID)
}

func TestLedger_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	l := NewLedger(kv, nil)

	for i := 0; i < 120; i++ {
		l.Append(ctx, summary(fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Second), fmt.Sprintf("question %d", i), "a", "b", "c"))
	}

	restored := NewLedger(kv, nil)
	require.NoError(t, restored.Load(ctx))

	if diff := cmp.Diff(l.Entries(), restored.Entries()); diff != "" {
		t.Errorf("restored ledger mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, DefaultCapacity, restored.Len())
}

func TestLedger_LoadCapsOversizedStore(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()

	stored := make([]core.SessionSummary, 0, 130)
	for i := 0; i < 130; i++ {
		stored = append(stored, summary(fmt.Sprint(i), base, "q"))
	}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, core.HistoryKey, data))

	var logs bytes.Buffer
	ctx = zerolog.New(&logs).Level(zerolog.DebugLevel).WithContext(ctx)

	l := NewLedger(kv, nil)
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, DefaultCapacity, l.Len())
	assert.Equal(t, "0", l.Entries()[0].ID)
	assert.Contains(t, logs.String(), `"count":100`)
	assert.NotContains(t, logs.String(), `"count":130`)
}

func TestLedger_LoadMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()

	l := NewLedger(kv, nil)
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, 0, l.Len())
	assert.NotNil(t, l.Entries())

	require.NoError(t, kv.Set(ctx, core.HistoryKey, []byte(`{not json`)))
	assert.Error(t, l.Load(ctx))
}

func TestLedger_DeleteByID(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	l := NewLedger(kv, nil)

	l.Append(ctx, summary("a", base, "q"))
	l.Append(ctx, summary("b", base, "q"))
	l.Append(ctx, summary("a", base, "dup"))

	l.DeleteByID(ctx, "a")
	assert.Equal(t, []string{"b", "a"}, entryIDs(l.Entries()), "only the first match is removed")

	restored := NewLedger(kv, nil)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, []string{"b", "a"}, entryIDs(restored.Entries()))
}

func TestLedger_DeleteByIDMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), nil)
	l.Append(ctx, summary("a", base, "q"))
	before := l.Entries()

	l.DeleteByID(ctx, "nope")

	assert.Equal(t, before, l.Entries())
}

func TestLedger_Clear(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	l := NewLedger(kv, nil)
	l.Append(ctx, summary("a", base, "q"))
	require.True(t, kv.Has(core.HistoryKey))

	l.Clear(ctx)

	assert.Equal(t, 0, l.Len())
	assert.False(t, kv.Has(core.HistoryKey), "clear removes the persisted copy entirely")
}

func TestLedger_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	kv.FailWrites = true
	l := NewLedger(kv, nil)

	l.Append(ctx, summary("a", base, "q"))

	assert.Equal(t, 1, l.Len())
	assert.False(t, kv.Has(core.HistoryKey))
}

func TestLedger_LoadFromRemoteReplaces(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	remote := &fakeRemote{summaries: []core.SessionSummary{
		summary("r1", base, "remote one", "x"),
		summary("r2", base.Add(-time.Hour), "remote two", "y", "z"),
	}}
	remote.summaries[1].AnswersCount = 7

	l := NewLedger(kv, remote)
	l.Append(ctx, summary("local", base, "local"))

	got := l.LoadFromRemote(ctx, "42", 20)

	assert.Equal(t, "42", remote.gotUser)
	assert.Equal(t, 20, remote.gotLimit)
	assert.Equal(t, []string{"r1", "r2"}, entryIDs(got))
	assert.Equal(t, []string{"r1", "r2"}, entryIDs(l.Entries()), "remote history replaces, not merges")
	assert.Equal(t, 2, got[1].AnswersCount)

	restored := NewLedger(kv, nil)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, []string{"r1", "r2"}, entryIDs(restored.Entries()))
}

func TestLedger_LoadFromRemoteFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{err: errors.New("connection refused")}
	l := NewLedger(memory.NewKV(), remote)
	l.Append(ctx, summary("local", base, "local"))

	got := l.LoadFromRemote(ctx, "42", 20)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, []string{"local"}, entryIDs(l.Entries()))
}

func TestLedger_LoadFromRemoteWithoutService(t *testing.T) {
	l := NewLedger(memory.NewKV(), nil)
	assert.Empty(t, l.LoadFromRemote(context.Background(), "42", 20))
}

func TestLedger_WithCapacity(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), nil, WithCapacity(2))
	for _, id := range []string{"a", "b", "c"} {
		l.Append(ctx, summary(id, base, "q"))
	}
	assert.Equal(t, []string{"c", "b"}, entryIDs(l.Entries()))

	l = NewLedger(memory.NewKV(), nil, WithCapacity(0))
	assert.Equal(t, DefaultCapacity, l.capacity)
}

func TestLedger_SyncReportsError(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), &fakeRemote{err: errors.New("503")})

	got, err := l.Sync(ctx, "42", 20)
	assert.ErrorIs(t, err, core.ErrHistoryFetchFailed)
	assert.Nil(t, got)

	_, err = NewLedger(memory.NewKV(), nil).Sync(ctx, "42", 20)
	assert.ErrorIs(t, err, core.ErrHistoryFetchFailed)
}
