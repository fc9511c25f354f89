package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

type trainingServiceMock struct {
	StartFunc           func(ctx context.Context, userID int64, suite string) (*domain.TrainingSession, error)
	ActiveSessionFunc   func(ctx context.Context, userID int64) (*domain.TrainingSession, error)
	CurrentQuestionFunc func(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error)
	AppendToDraftFunc   func(ctx context.Context, sessionID uuid.UUID, text string) error
	NextFunc            func(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error)
	FinishFunc          func(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error)
	SessionsFunc        func(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error)
	AnswerCountFunc     func(ctx context.Context, sessionID uuid.UUID) (int, error)
}

func (m *trainingServiceMock) Start(ctx context.Context, userID int64, suite string) (*domain.TrainingSession, error) {
	return m.StartFunc(ctx, userID, suite)
}

func (m *trainingServiceMock) ActiveSession(ctx context.Context, userID int64) (*domain.TrainingSession, error) {
	return m.ActiveSessionFunc(ctx, userID)
}

func (m *trainingServiceMock) CurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error) {
	return m.CurrentQuestionFunc(ctx, sessionID)
}

func (m *trainingServiceMock) AppendToDraft(ctx context.Context, sessionID uuid.UUID, text string) error {
	return m.AppendToDraftFunc(ctx, sessionID, text)
}

func (m *trainingServiceMock) Next(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error) {
	return m.NextFunc(ctx, sessionID)
}

func (m *trainingServiceMock) Finish(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error) {
	return m.FinishFunc(ctx, sessionID)
}

func (m *trainingServiceMock) Sessions(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error) {
	return m.SessionsFunc(ctx, userID, limit, offset)
}

func (m *trainingServiceMock) AnswerCount(ctx context.Context, sessionID uuid.UUID) (int, error) {
	return m.AnswerCountFunc(ctx, sessionID)
}

// senderMock records outgoing messages.
type senderMock struct {
	sent []string
}

func (m *senderMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (m *senderMock) last() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

func newTestBot(training trainingService) (*Bot, *senderMock) {
	out := &senderMock{}
	return &Bot{
		out:      out,
		training: training,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		suites:   []string{"ed", "mos", "ng"},
	}, out
}

func incomingMessage(userID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		cmdLen := len(strings.Fields(text)[0])
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	}
	return msg
}

func TestHandleStart_SendsFirstQuestion(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	var startedSuite string

	svc := &trainingServiceMock{
		StartFunc: func(_ context.Context, userID int64, suite string) (*domain.TrainingSession, error) {
			startedSuite = suite
			return &domain.TrainingSession{ID: sessionID, UserID: userID, Suite: suite, Status: domain.SessionStatusInProgress}, nil
		},
		CurrentQuestionFunc: func(_ context.Context, id uuid.UUID) (*domain.Question, error) {
			if id != sessionID {
				t.Errorf("current question for session %s, want %s", id, sessionID)
			}
			return &domain.Question{Code: "ED-001", Text: "What is a goroutine?"}, nil
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/start mos"))

	if startedSuite != "mos" {
		t.Errorf("started suite %q, want %q", startedSuite, "mos")
	}
	if !strings.Contains(out.last(), "ED-001") {
		t.Errorf("reply should contain the question code, got %q", out.last())
	}
}

func TestHandleStart_DefaultsToFirstSuite(t *testing.T) {
	t.Parallel()

	var startedSuite string
	svc := &trainingServiceMock{
		StartFunc: func(_ context.Context, _ int64, suite string) (*domain.TrainingSession, error) {
			startedSuite = suite
			return &domain.TrainingSession{ID: uuid.New(), Status: domain.SessionStatusInProgress}, nil
		},
		CurrentQuestionFunc: func(_ context.Context, _ uuid.UUID) (*domain.Question, error) {
			return &domain.Question{Code: "ED-001", Text: "q"}, nil
		},
	}

	bot, _ := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/start"))

	if startedSuite != "ed" {
		t.Errorf("started suite %q, want first configured suite", startedSuite)
	}
}

func TestHandleStart_EmptySuite(t *testing.T) {
	t.Parallel()

	svc := &trainingServiceMock{
		StartFunc: func(_ context.Context, _ int64, _ string) (*domain.TrainingSession, error) {
			return nil, fmt.Errorf("suite: %w", domain.ErrPreconditionFailed)
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/start empty"))

	if !strings.Contains(out.last(), "no questions") {
		t.Errorf("expected a no-questions hint, got %q", out.last())
	}
}

func TestHandleText_AppendsDraft(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	var appended string

	svc := &trainingServiceMock{
		ActiveSessionFunc: func(_ context.Context, _ int64) (*domain.TrainingSession, error) {
			return &domain.TrainingSession{ID: sessionID, Status: domain.SessionStatusInProgress}, nil
		},
		AppendToDraftFunc: func(_ context.Context, id uuid.UUID, text string) error {
			if id != sessionID {
				t.Errorf("append for session %s, want %s", id, sessionID)
			}
			appended = text
			return nil
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "my answer text"))

	if appended != "my answer text" {
		t.Errorf("appended %q", appended)
	}
	if len(out.sent) != 0 {
		t.Errorf("plain text should not be acknowledged, got %q", out.last())
	}
}

func TestHandleText_NoActiveSession(t *testing.T) {
	t.Parallel()

	svc := &trainingServiceMock{
		ActiveSessionFunc: func(_ context.Context, _ int64) (*domain.TrainingSession, error) {
			return nil, fmt.Errorf("user 7: %w", domain.ErrNotFound)
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "hello"))

	if !strings.Contains(out.last(), "/start") {
		t.Errorf("expected a /start hint, got %q", out.last())
	}
}

func TestHandleNext_ShowsNextQuestion(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	svc := &trainingServiceMock{
		ActiveSessionFunc: func(_ context.Context, _ int64) (*domain.TrainingSession, error) {
			return &domain.TrainingSession{ID: sessionID, Status: domain.SessionStatusInProgress}, nil
		},
		NextFunc: func(_ context.Context, _ uuid.UUID) (*domain.Question, error) {
			return &domain.Question{Code: "ED-002", Text: "next one"}, nil
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/next"))

	if !strings.Contains(out.last(), "ED-002") {
		t.Errorf("expected next question, got %q", out.last())
	}
}

func TestHandleNext_PastEnd(t *testing.T) {
	t.Parallel()

	svc := &trainingServiceMock{
		ActiveSessionFunc: func(_ context.Context, _ int64) (*domain.TrainingSession, error) {
			return &domain.TrainingSession{ID: uuid.New(), Status: domain.SessionStatusInProgress}, nil
		},
		NextFunc: func(_ context.Context, _ uuid.UUID) (*domain.Question, error) {
			return nil, nil
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/next"))

	if !strings.Contains(out.last(), "/finish") {
		t.Errorf("expected a /finish hint past the last question, got %q", out.last())
	}
}

func TestHandleFinish_ReportsAnswerCount(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	svc := &trainingServiceMock{
		ActiveSessionFunc: func(_ context.Context, _ int64) (*domain.TrainingSession, error) {
			return &domain.TrainingSession{ID: sessionID, Status: domain.SessionStatusInProgress}, nil
		},
		FinishFunc: func(_ context.Context, _ uuid.UUID) (*domain.TrainingSession, error) {
			return &domain.TrainingSession{ID: sessionID, Status: domain.SessionStatusFinished}, nil
		},
		AnswerCountFunc: func(_ context.Context, _ uuid.UUID) (int, error) {
			return 4, nil
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/finish"))

	if !strings.Contains(out.last(), "4 answer") {
		t.Errorf("expected answer count in wrap-up, got %q", out.last())
	}
}

func TestHandleHistory_Empty(t *testing.T) {
	t.Parallel()

	svc := &trainingServiceMock{
		SessionsFunc: func(_ context.Context, _ int64, _, _ int) ([]*domain.TrainingSession, int, error) {
			return []*domain.TrainingSession{}, 0, nil
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/history"))

	if !strings.Contains(out.last(), "No sessions yet") {
		t.Errorf("expected empty-history message, got %q", out.last())
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	t.Parallel()

	bot, out := newTestBot(&trainingServiceMock{})
	bot.handleMessage(context.Background(), incomingMessage(7, "/frobnicate"))

	if !strings.Contains(out.last(), "/help") {
		t.Errorf("expected help hint, got %q", out.last())
	}
}

func TestHandleError_Apologizes(t *testing.T) {
	t.Parallel()

	svc := &trainingServiceMock{
		ActiveSessionFunc: func(_ context.Context, _ int64) (*domain.TrainingSession, error) {
			return nil, errors.New("connection reset")
		},
	}

	bot, out := newTestBot(svc)
	bot.handleMessage(context.Background(), incomingMessage(7, "/next"))

	if !strings.Contains(out.last(), "try again") {
		t.Errorf("expected an apology, got %q", out.last())
	}
}
