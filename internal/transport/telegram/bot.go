// Package telegram exposes the question flow and the chat commands to the
// bot owner.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/quorum/internal/config"
	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/command"
	"github.com/sandevgo/quorum/internal/service/question"
	"github.com/sandevgo/quorum/internal/service/rating"
	"github.com/sandevgo/quorum/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	baseContextKey = "base_context"
	rateUnique     = "rate"
	// rateLabelUnique marks the answer label at the start of a rating row.
	rateLabelUnique = "rate_noop"
	maxScore        = 5
)

type Bot struct {
	bot       *tele.Bot
	sender    *sender
	questions *question.Service
	router    core.CmdRouter
	selection *answer.Selection
	ratings   *rating.Store
	formatter *command.ResponseFormatter
	ownerID   int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	questions *question.Service,
	router core.CmdRouter,
	selection *answer.Selection,
	ratings *rating.Store,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}
	return newBot(ctx, pref, cfg.GetTelegramOwnerID(), questions, router, selection, ratings)
}

func newBot(
	ctx context.Context,
	pref tele.Settings,
	ownerID int64,
	questions *question.Service,
	router core.CmdRouter,
	selection *answer.Selection,
	ratings *rating.Store,
) (*Bot, error) {
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		sender:    newSender(b),
		questions: questions,
		router:    router,
		selection: selection,
		ratings:   ratings,
		formatter: command.NewResponseFormatter(),
		ownerID:   ownerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may use the bot.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)
	for unique, handler := range bot.callbacks() {
		b.Handle(&tele.Btn{Unique: unique}, handler)
	}

	return bot, nil
}

// callbacks maps every inline button unique the bot sends to its handler.
func (b *Bot) callbacks() map[string]tele.HandlerFunc {
	return map[string]tele.HandlerFunc{
		rateUnique:      b.handleRate,
		rateLabelUnique: b.handleRateLabel,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	chatID := strconv.FormatInt(c.Chat().ID, 10)

	if reply, ok := b.router.Execute(ctx, chatID, c.Text()); ok {
		return b.sender.sendMarkdown(ctx, c.Recipient(), reply, nil)
	}
	return b.ask(ctx, c)
}

func (b *Bot) ask(ctx context.Context, c tele.Context) error {
	logger := log.FromCtx(ctx)

	results, err := b.questions.Submit(ctx, c.Text())
	switch {
	case errors.Is(err, core.ErrSubmissionInFlight):
		return c.Send("Still collecting answers to your previous question.")
	case err != nil:
		return c.Send(err.Error())
	}

	_ = c.Notify(tele.Typing)
	res := <-results
	if res.Err != nil {
		logger.Error().Err(res.Err).Msg("question failed")
		return c.Send(core.SubmissionFailedMessage)
	}

	reply := command.RenderSession(b.formatter, res.Session, b.selection, b.ratings)
	return b.sender.sendMarkdown(ctx, c.Recipient(), reply, ratingKeyboard(res.Session))
}

func (b *Bot) handleRate(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)

	sessionID, answerID, score, err := parseRateData(c.Args())
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: err.Error()})
	}

	if err := b.ratings.Rate(ctx, sessionID, answerID, score); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to store rating")
		return c.Respond(&tele.CallbackResponse{Text: "Rating kept for this session only"})
	}
	return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("Answer #%s rated %d", answerID, score)})
}

// handleRateLabel only stops the client's spinner on the label button.
func (b *Bot) handleRateLabel(c tele.Context) error {
	return c.Respond()
}

// ratingKeyboard has one row per answer with scores 1..maxScore.
func ratingKeyboard(s core.SessionSummary) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(s.Answers))
	for _, a := range s.Answers {
		btns := make([]tele.Btn, 0, maxScore+1)
		btns = append(btns, markup.Data("#"+a.ID, rateLabelUnique))
		for score := 1; score <= maxScore; score++ {
			btns = append(btns, markup.Data(strconv.Itoa(score), rateUnique, s.ID, a.ID, strconv.Itoa(score)))
		}
		rows = append(rows, markup.Row(btns...))
	}
	markup.Inline(rows...)
	return markup
}

func parseRateData(args []string) (sessionID, answerID string, score int, err error) {
	if len(args) != 3 || args[0] == "" || args[1] == "" {
		return "", "", 0, fmt.Errorf("%w: malformed rating", core.ErrValidation)
	}
	score, err = rating.ParseScore(args[2])
	if err != nil {
		return "", "", 0, err
	}
	return args[0], args[1], score, nil
}
