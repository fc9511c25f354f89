package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

const (
	cmdStart   = "start"
	cmdNext    = "next"
	cmdFinish  = "finish"
	cmdHistory = "history"
	cmdHelp    = "help"
)

const helpText = `I run question drills. One suite at a time, one question at a time.

/start <suite> - begin a new session (any previous one is canceled)
/next - save your answer and move to the next question
/finish - save your answer and close the session
/history - your recent sessions
/help - this message

Between commands just type your answer. Several messages are joined
into one answer when you advance.`

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	b.log.DebugContext(ctx, "update received",
		slog.Int64("user_id", userID),
		slog.Bool("command", message.IsCommand()),
	)

	if !message.IsCommand() {
		b.handleText(ctx, message)
		return
	}

	switch message.Command() {
	case cmdStart:
		b.handleStart(ctx, message)
	case cmdNext:
		b.handleNext(ctx, message)
	case cmdFinish:
		b.handleFinish(ctx, message)
	case cmdHistory:
		b.handleHistory(ctx, message)
	case cmdHelp:
		b.reply(message.Chat.ID, helpText)
	default:
		b.reply(message.Chat.ID, "Unknown command. Try /help.")
	}
}

// handleStart begins a session in the requested suite. Without an argument
// the first configured suite is used.
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	suite := strings.TrimSpace(message.CommandArguments())
	if suite == "" {
		if len(b.suites) == 0 {
			b.reply(message.Chat.ID, "No suites are configured.")
			return
		}
		suite = b.suites[0]
	}

	session, err := b.training.Start(ctx, message.From.ID, suite)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPreconditionFailed):
			b.reply(message.Chat.ID, fmt.Sprintf("Suite %q has no questions right now. Available: %s.", suite, strings.Join(b.suites, ", ")))
		case errors.Is(err, domain.ErrValidation):
			b.reply(message.Chat.ID, "Give me a suite name: /start <suite>.")
		default:
			b.logAndApologize(ctx, message.Chat.ID, "start session", err)
		}
		return
	}

	question, err := b.training.CurrentQuestion(ctx, session.ID)
	if err != nil || question == nil {
		b.logAndApologize(ctx, message.Chat.ID, "load first question", err)
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Session started in suite %q. Answers are plain messages; /next moves on.\n\n%s", suite, formatQuestion(question)))
}

// handleText appends the message to the current draft answer.
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	session, ok := b.requireSession(ctx, message)
	if !ok {
		return
	}

	if err := b.training.AppendToDraft(ctx, session.ID, message.Text); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			b.reply(message.Chat.ID, "That session is already closed. /start begins a new one.")
			return
		}
		b.logAndApologize(ctx, message.Chat.ID, "append draft", err)
		return
	}
	// No confirmation per message; chat stays quiet until /next.
}

// handleNext materializes the draft as the answer and shows the next question.
func (b *Bot) handleNext(ctx context.Context, message *tgbotapi.Message) {
	session, ok := b.requireSession(ctx, message)
	if !ok {
		return
	}

	question, err := b.training.Next(ctx, session.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			b.reply(message.Chat.ID, "That session is already closed. /start begins a new one.")
			return
		}
		b.logAndApologize(ctx, message.Chat.ID, "advance session", err)
		return
	}

	if question == nil {
		b.reply(message.Chat.ID, "That was the last question. /finish wraps the session up.")
		return
	}

	b.reply(message.Chat.ID, formatQuestion(question))
}

// handleFinish closes the session and reports how many answers it recorded.
func (b *Bot) handleFinish(ctx context.Context, message *tgbotapi.Message) {
	session, ok := b.requireSession(ctx, message)
	if !ok {
		return
	}

	finished, err := b.training.Finish(ctx, session.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			b.reply(message.Chat.ID, "That session is already closed. /start begins a new one.")
			return
		}
		b.logAndApologize(ctx, message.Chat.ID, "finish session", err)
		return
	}

	count, err := b.training.AnswerCount(ctx, finished.ID)
	if err != nil {
		b.log.ErrorContext(ctx, "count answers after finish", slog.String("error", err.Error()))
		b.reply(message.Chat.ID, "Done. Session finished.")
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Done. Session finished with %d answer(s) recorded. /start whenever you want another round.", count))
}

// handleHistory lists the user's recent sessions.
func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	sessions, total, err := b.training.Sessions(ctx, message.From.ID, 5, 0)
	if err != nil {
		b.logAndApologize(ctx, message.Chat.ID, "list sessions", err)
		return
	}

	if total == 0 {
		b.reply(message.Chat.ID, "No sessions yet. /start begins your first one.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your sessions (%d total, latest %d):\n", total, len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(&sb, "\n%s  %s  %s", s.StartedAt.Format("2006-01-02 15:04"), s.Suite, s.Status)
	}

	b.reply(message.Chat.ID, sb.String())
}

// requireSession resolves the user's in-progress session, replying with a
// hint when there is none.
func (b *Bot) requireSession(ctx context.Context, message *tgbotapi.Message) (*domain.TrainingSession, bool) {
	session, err := b.training.ActiveSession(ctx, message.From.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.reply(message.Chat.ID, "No session in progress. /start <suite> begins one.")
			return nil, false
		}
		b.logAndApologize(ctx, message.Chat.ID, "resolve session", err)
		return nil, false
	}

	return session, true
}

func formatQuestion(q *domain.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", q.Code, q.Text)
	if q.Topic != nil && *q.Topic != "" {
		fmt.Fprintf(&sb, "\n\nTopic: %s", *q.Topic)
	}
	return sb.String()
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.log.Error("send message", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
	}
}

func (b *Bot) logAndApologize(ctx context.Context, chatID int64, op string, err error) {
	b.log.ErrorContext(ctx, op, slog.String("error", err.Error()))
	b.reply(chatID, "Something went wrong on my side. Please try again in a moment.")
}
