package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/pkg/log"
)

type chatRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type chatResponse struct {
	Success       bool       `json:"success"`
	QuestionID    questionID `json:"question_id"`
	SparkAnswer   string     `json:"spark_answer"`
	QianfanAnswer string     `json:"qianfan_answer"`
	DoubaoAnswer  string     `json:"doubao_answer"`
	Error         string     `json:"error"`
}

// questionID decodes an id sent either as a JSON number or a string.
type questionID string

func (q *questionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = questionID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question_id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*q = questionID(strconv.FormatInt(i, 10))
		return nil
	}
	*q = questionID(n.String())
	return nil
}

// SubmitQuestion posts the query and returns the three provider answers.
// Every failure is reported as core.ErrSubmissionFailed.
func (c *Client) SubmitQuestion(ctx context.Context, query, userID string) (core.ProviderAnswers, error) {
	logger := log.FromCtx(ctx)

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/chat", chatRequest{Query: query, UserID: userID})
	if err != nil {
		return core.ProviderAnswers{}, fmt.Errorf("%w: %v", core.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.ProviderAnswers{}, fmt.Errorf("%w: %v", core.ErrSubmissionFailed, statusError(resp))
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.ProviderAnswers{}, fmt.Errorf("%w: decode response: %v", core.ErrSubmissionFailed, err)
	}
	if !body.Success {
		return core.ProviderAnswers{}, fmt.Errorf("%w: backend reported failure: %s", core.ErrSubmissionFailed, body.Error)
	}

	logger.Debug().Str("question_id", string(body.QuestionID)).Msg("question submitted")

	return core.ProviderAnswers{
		SessionID: string(body.QuestionID),
		A:         body.SparkAnswer,
		B:         body.QianfanAnswer,
		C:         body.DoubaoAnswer,
	}, nil
}
