package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/pkg/retry"
)

type historyResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	ID        questionID      `json:"id"`
	Content   string          `json:"content"`
	Timestamp string          `json:"timestamp"`
	Answers   []historyAnswer `json:"answers"`
}

type historyAnswer struct {
	ModelName string `json:"model_name"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// FetchHistory returns the user's most recent sessions. Transport errors
// and 5xx responses are retried; anything else fails at once. Every
// failure is reported as core.ErrHistoryFetchFailed.
func (c *Client) FetchHistory(ctx context.Context, userID string, limit int) ([]core.SessionSummary, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("limit", strconv.Itoa(limit))
	path := "/api/history?" + q.Encode()

	var body historyResponse
	err := c.retrier.Do(ctx, func() error {
		resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return statusError(resp)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return retry.Permanent(statusError(resp))
		}

		body = historyResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return retry.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrHistoryFetchFailed, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: backend reported failure: %s", core.ErrHistoryFetchFailed, body.Message)
	}

	summaries, err := toSummaries(body.History)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrHistoryFetchFailed, err)
	}
	return summaries, nil
}

func toSummaries(entries []historyEntry) ([]core.SessionSummary, error) {
	summaries := make([]core.SessionSummary, 0, len(entries))
	for _, e := range entries {
		ts, err := parseTimestamp(e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", e.ID, err)
		}

		id := string(e.ID)
		if id == "" {
			return nil, errors.New("session without id")
		}

		answers := make([]core.AnswerRecord, 0, len(e.Answers))
		for i, a := range e.Answers {
			createdAt, err := parseTimestamp(a.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("session %s answer %d: %w", id, i+1, err)
			}
			answers = append(answers, core.AnswerRecord{
				ID:        strconv.Itoa(i + 1),
				Provider:  a.ModelName,
				Content:   a.Content,
				CreatedAt: createdAt,
				SessionID: id,
			})
		}

		summaries = append(summaries, core.SessionSummary{
			ID:           id,
			Question:     e.Content,
			Answers:      answers,
			AnswersCount: len(answers),
			Timestamp:    ts,
		})
	}
	return summaries, nil
}
