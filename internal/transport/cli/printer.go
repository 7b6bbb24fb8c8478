// Package cli renders sessions for the terminal and runs the interactive
// question prompt.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/ui"
	"github.com/sandevgo/quorum/pkg/conv"
)

const previewRunes = 72

type Printer struct {
	out       io.Writer
	selection *answer.Selection
	ratings   core.RatingLookup
}

func NewPrinter(out io.Writer, selection *answer.Selection, ratings core.RatingLookup) *Printer {
	return &Printer{out: out, selection: selection, ratings: ratings}
}

// Session prints the answers of s that pass the current filter and marks
// the recommended one.
func (p *Printer) Session(s core.SessionSummary) {
	p.header(s)

	visible := p.selection.Visible(s.Answers)
	if len(visible) == 0 {
		fmt.Fprintln(p.out, ui.DescStyle.Render("No answers match the current filter."))
		return
	}

	var bestID string
	if best, ok := p.selection.Best(s.Answers); ok {
		bestID = best.ID
	}
	for _, a := range visible {
		p.Answer(a, a.ID == bestID)
	}
}

// Best prints only the recommended answer of s.
func (p *Printer) Best(s core.SessionSummary) {
	p.header(s)

	best, ok := p.selection.Best(s.Answers)
	if !ok {
		fmt.Fprintln(p.out, ui.DescStyle.Render("No answer passes the current filter."))
		return
	}
	p.Answer(best, true)
}

func (p *Printer) header(s core.SessionSummary) {
	fmt.Fprintln(p.out, ui.TitleStyle.Render(s.Question))
	fmt.Fprintln(p.out, ui.DescStyle.Render(fmt.Sprintf("session %s · %s", s.ID, s.Timestamp.Local().Format(time.DateTime))))
	fmt.Fprintln(p.out)
}

func (p *Printer) Answer(a core.AnswerRecord, best bool) {
	line := ui.ProviderStyle.Render(a.Provider) + " " + ui.DescStyle.Render("#"+a.ID)
	if p.ratings != nil {
		if score, ok := p.ratings.Score(a.SessionID, a.ID); ok {
			line += ui.DescStyle.Render(fmt.Sprintf(" · rated %d", score))
		}
	}
	if best {
		line += " " + ui.BestStyle.Render("★ best")
	}
	fmt.Fprintln(p.out, line)

	content := strings.TrimSpace(a.Content)
	if content == "" {
		fmt.Fprintln(p.out, ui.DescStyle.Render("(no answer)"))
	} else {
		fmt.Fprintln(p.out, PlainText(content))
	}
	fmt.Fprintln(p.out)
}

// Sessions prints one line per session, newest first as given.
func (p *Printer) Sessions(list []core.SessionSummary) {
	if len(list) == 0 {
		fmt.Fprintln(p.out, ui.DescStyle.Render("No sessions."))
		return
	}
	for _, s := range list {
		question := conv.Truncate(strings.Join(strings.Fields(s.Question), " "), previewRunes)
		fmt.Fprintf(p.out, "%s  %s  %s %s\n",
			ui.UsageStyle.Render(s.ID),
			ui.DescStyle.Render(s.Timestamp.Local().Format(time.DateTime)),
			question,
			ui.DescStyle.Render(fmt.Sprintf("(%d)", s.AnswersCount)),
		)
	}
}

// Markdown prints a markdown reply, such as a chat command response.
func (p *Printer) Markdown(md string) {
	fmt.Fprintln(p.out, PlainText(md))
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, ui.UsageStyle.Render("✓ ")+msg)
}

func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, ui.ErrorStyle.Render("error: ")+err.Error())
}

// PlainText renders md for the terminal, falling back to the raw text.
func PlainText(md string) string {
	text, err := conv.MarkdownToPlainText([]byte(md))
	if err != nil || text == "" {
		return strings.TrimSpace(md)
	}
	return text
}
