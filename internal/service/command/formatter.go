package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/pkg/conv"
)

// previewRunes bounds question previews in lists.
const previewRunes = 60

// ResponseFormatter renders command replies as markdown.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("⚙️ **%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func (f *ResponseFormatter) Error(title string, err error) string {
	return fmt.Sprintf("❌ **%s**\n\n%s\n", title, err.Error())
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) Usage(command string) string {
	return fmt.Sprintf("**Usage**:\n```\n%s\n```\n", command)
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}

// SessionLine is the one-line history entry for s.
func (f *ResponseFormatter) SessionLine(s core.SessionSummary) string {
	question := strings.Join(strings.Fields(s.Question), " ")
	return fmt.Sprintf("`%s` %s · %s (%d)",
		s.ID, s.Timestamp.Local().Format(time.DateTime), conv.Truncate(question, previewRunes), s.AnswersCount)
}

// Answer renders one answer. best marks the recommended one and score is
// shown when rated.
func (f *ResponseFormatter) Answer(a core.AnswerRecord, best bool, score int, rated bool) string {
	var header strings.Builder
	if best {
		header.WriteString("⭐ ")
	}
	header.WriteString(fmt.Sprintf("**%s** `#%s`", a.Provider, a.ID))
	if rated {
		header.WriteString(fmt.Sprintf(" · rated %d", score))
	}

	content := strings.TrimSpace(a.Content)
	if content == "" {
		content = "_no answer_"
	}
	return header.String() + "\n" + content + "\n"
}

// Session renders a full session with its answers.
func (f *ResponseFormatter) Session(s core.SessionSummary, answers []core.AnswerRecord, best string, ratings core.RatingLookup) string {
	sections := []string{
		f.Info(s.Question),
		f.Label("Session", s.ID),
	}
	if len(answers) == 0 {
		sections = append(sections, "No answers match the current filter.\n")
	}
	for _, a := range answers {
		score, rated := 0, false
		if ratings != nil {
			score, rated = ratings.Score(a.SessionID, a.ID)
		}
		sections = append(sections, f.Answer(a, a.ID == best, score, rated))
	}
	return f.Combine(sections...)
}
