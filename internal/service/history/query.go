package history

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandevgo/quorum/internal/core"
)

// DateRange bounds are inclusive. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// QueryState is the transient search state applied to the ledger.
type QueryState struct {
	SearchQuery string
	DateFilter  DateRange
}

// Query returns the entries matching state, newest first by timestamp.
func (l *Ledger) Query(state QueryState) []core.SessionSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Query(l.entries, state)
}

// Query filters summaries by text and date and sorts them by timestamp,
// descending. Equal timestamps keep their relative input order.
func Query(summaries []core.SessionSummary, state QueryState) []core.SessionSummary {
	filtered := slices.Clone(summaries)

	if state.SearchQuery != "" {
		q := strings.ToLower(state.SearchQuery)
		filtered = slices.DeleteFunc(filtered, func(s core.SessionSummary) bool {
			return !matchesText(s, q)
		})
	}

	if start := state.DateFilter.Start; start != nil {
		filtered = slices.DeleteFunc(filtered, func(s core.SessionSummary) bool {
			return s.Timestamp.Before(*start)
		})
	}
	if end := state.DateFilter.End; end != nil {
		filtered = slices.DeleteFunc(filtered, func(s core.SessionSummary) bool {
			return s.Timestamp.After(*end)
		})
	}

	slices.SortStableFunc(filtered, func(a, b core.SessionSummary) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if filtered == nil {
		return []core.SessionSummary{}
	}
	return filtered
}

func matchesText(s core.SessionSummary, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(s.Question), lowerQuery) {
		return true
	}
	return slices.ContainsFunc(s.Answers, func(a core.AnswerRecord) bool {
		return strings.Contains(strings.ToLower(a.Content), lowerQuery)
	})
}

// ParseDateRange builds a DateRange from YYYY-MM-DD days in loc. Either day
// may be empty. The end bound covers the whole end day.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if from != "" {
		start, err := time.ParseInLocation(time.DateOnly, from, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: invalid start date %q", core.ErrValidation, from)
		}
		r.Start = &start
	}
	if to != "" {
		day, err := time.ParseInLocation(time.DateOnly, to, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: invalid end date %q", core.ErrValidation, to)
		}
		end := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		r.End = &end
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return DateRange{}, fmt.Errorf("%w: end date is before start date", core.ErrValidation)
	}
	return r, nil
}
