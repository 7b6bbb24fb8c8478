package history

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestQuery(t *testing.T) {
	t1 := base
	t2 := base.Add(time.Hour)
	t3 := base.Add(2 * time.Hour)

	summaries := []core.SessionSummary{
		summary("s2", t2, "How do channels work?", "Channels pass values"),
		summary("s1", t1, "What is a goroutine?", "A lightweight thread"),
		summary("s3", t3, "Explain ownership", "Rust BORROW checker"),
	}

	tests := []struct {
		name  string
		state QueryState
		want  []string
	}{
		{
			name:  "no filter sorts newest first",
			state: QueryState{},
			want:  []string{"s3", "s2", "s1"},
		},
		{
			name:  "start is inclusive and excludes older",
			state: QueryState{DateFilter: DateRange{Start: ptr(t2)}},
			want:  []string{"s3", "s2"},
		},
		{
			name:  "end is inclusive",
			state: QueryState{DateFilter: DateRange{End: ptr(t2)}},
			want:  []string{"s2", "s1"},
		},
		{
			name:  "closed range",
			state: QueryState{DateFilter: DateRange{Start: ptr(t2), End: ptr(t2)}},
			want:  []string{"s2"},
		},
		{
			name:  "text matches question case-insensitively",
			state: QueryState{SearchQuery: "GOROUTINE"},
			want:  []string{"s1"},
		},
		{
			name:  "text matches answer content",
			state: QueryState{SearchQuery: "borrow"},
			want:  []string{"s3"},
		},
		{
			name:  "text and date combine",
			state: QueryState{SearchQuery: "a", DateFilter: DateRange{Start: ptr(t2)}},
			want:  []string{"s3", "s2"},
		},
		{
			name:  "no match",
			state: QueryState{SearchQuery: "haskell"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryIDs(Query(summaries, tt.state)))
		})
	}
}

func TestQuery_StableOnEqualTimestamps(t *testing.T) {
	summaries := []core.SessionSummary{
		summary("first", base, "q"),
		summary("newer", base.Add(time.Minute), "q"),
		summary("second", base, "q"),
		summary("third", base, "q"),
	}

	got := entryIDs(Query(summaries, QueryState{}))
	assert.Equal(t, []string{"newer", "first", "second", "third"}, got)
}

func TestQuery_DoesNotReorderLedger(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.NewKV(), nil)
	l.Append(ctx, summary("new", base.Add(time.Hour), "q"))
	l.Append(ctx, summary("old", base, "q"))

	assert.Equal(t, []string{"new", "old"}, entryIDs(l.Query(QueryState{})))
	assert.Equal(t, []string{"old", "new"}, entryIDs(l.Entries()))
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-05-01", "2025-05-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), *r.Start)
	assert.Equal(t, time.Date(2025, 5, 2, 23, 59, 59, 999999999, time.UTC), *r.End)

	open, err := ParseDateRange("", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, open.Start)
	assert.Nil(t, open.End)

	_, err = ParseDateRange("May 1st", "", time.UTC)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = ParseDateRange("2025-05-03", "2025-05-02", time.UTC)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestQuery_WholeEndDayIncluded(t *testing.T) {
	r, err := ParseDateRange("", "2025-05-01", time.UTC)
	require.NoError(t, err)

	summaries := []core.SessionSummary{
		summary("late", time.Date(2025, 5, 1, 23, 0, 0, 0, time.UTC), "q"),
		summary("next", time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), "q"),
	}
	assert.Equal(t, []string{"late"}, entryIDs(Query(summaries, QueryState{DateFilter: r})))
}
