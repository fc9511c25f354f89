// Package training implements the session flow engine: starting a session,
// accumulating a draft answer over several messages, advancing through the
// suite's questions, and finishing with immutable answer snapshots.
package training

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type questionRepo interface {
	ListActive(ctx context.Context, suite string) ([]*domain.Question, error)
	CountActive(ctx context.Context, suite string) (int, error)
}

type sessionRepo interface {
	Create(ctx context.Context, s *domain.TrainingSession) (*domain.TrainingSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)
	GetInProgressByUser(ctx context.Context, userID int64) (*domain.TrainingSession, error)
	CancelInProgressByUser(ctx context.Context, userID int64, finishedAt time.Time) (int, error)
	SetDraft(ctx context.Context, id uuid.UUID, draft string) error
	Advance(ctx context.Context, id uuid.UUID, newIndex int) error
	Finish(ctx context.Context, id uuid.UUID, finishedAt time.Time) (*domain.TrainingSession, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error)
}

type answerRepo interface {
	Create(ctx context.Context, a *domain.Answer) (*domain.Answer, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Answer, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the training session flow.
//
// The question ordering (active questions of the suite, by code ascending)
// is recomputed on every operation, never cached on the session. When
// reconciliation deactivates a question ahead of the user's position between
// two calls, the set of already-seen questions can shift. Accepted trade-off.
type Service struct {
	questions questionRepo
	sessions  sessionRepo
	answers   answerRepo
	tx        txManager
	log       *slog.Logger
	clock     clock
}

// NewService creates a new training flow service.
func NewService(
	log *slog.Logger,
	questions questionRepo,
	sessions sessionRepo,
	answers answerRepo,
	tx txManager,
) *Service {
	return &Service{
		questions: questions,
		sessions:  sessions,
		answers:   answers,
		tx:        tx,
		log:       log,
		clock:     systemClock{},
	}
}
