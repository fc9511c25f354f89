// Package telegram is the user-facing transport: a long-polling Telegram
// bot that drives training sessions through commands and plain messages.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/config"
	"github.com/rpshnkv/trainerbot/internal/domain"
)

// handleTimeout bounds the work done for one incoming update.
const handleTimeout = 30 * time.Second

type trainingService interface {
	Start(ctx context.Context, userID int64, suite string) (*domain.TrainingSession, error)
	ActiveSession(ctx context.Context, userID int64) (*domain.TrainingSession, error)
	CurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error)
	AppendToDraft(ctx context.Context, sessionID uuid.UUID, text string) error
	Next(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error)
	Finish(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error)
	Sessions(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error)
	AnswerCount(ctx context.Context, sessionID uuid.UUID) (int, error)
}

// sender is the slice of tgbotapi.BotAPI the handlers need. Kept narrow so
// tests can stub outgoing messages.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot wires Telegram updates to the training flow.
type Bot struct {
	api         *tgbotapi.BotAPI
	out         sender
	training    trainingService
	log         *slog.Logger
	suites      []string
	pollTimeout int
}

// New creates the bot and authenticates against the Telegram API.
func New(cfg config.TelegramConfig, training trainingService, suites []string, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = cfg.Debug

	logger.Info("telegram bot authorized", slog.String("username", api.Self.UserName))

	return &Bot{
		api:         api,
		out:         api,
		training:    training,
		log:         logger.With("transport", "telegram"),
		suites:      suites,
		pollTimeout: cfg.PollTimeout,
	}, nil
}

// Run polls for updates until ctx is canceled. Each update is handled with
// its own timeout so one slow operation cannot stall the queue for long.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)

	b.log.Info("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram polling stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
			b.handleMessage(handleCtx, update.Message)
			cancel()
		}
	}
}
