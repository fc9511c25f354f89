package training

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

var _ questionRepo = &questionRepoMock{}

type questionRepoMock struct {
	ListActiveFunc  func(ctx context.Context, suite string) ([]*domain.Question, error)
	CountActiveFunc func(ctx context.Context, suite string) (int, error)

	calls struct {
		ListActive  []struct{ Suite string }
		CountActive []struct{ Suite string }
	}
	lock sync.RWMutex
}

func (mock *questionRepoMock) ListActive(ctx context.Context, suite string) ([]*domain.Question, error) {
	if mock.ListActiveFunc == nil {
		panic("questionRepoMock.ListActiveFunc: method is nil but questionRepo.ListActive was just called")
	}
	mock.lock.Lock()
	mock.calls.ListActive = append(mock.calls.ListActive, struct{ Suite string }{suite})
	mock.lock.Unlock()
	return mock.ListActiveFunc(ctx, suite)
}

func (mock *questionRepoMock) CountActive(ctx context.Context, suite string) (int, error) {
	if mock.CountActiveFunc == nil {
		panic("questionRepoMock.CountActiveFunc: method is nil but questionRepo.CountActive was just called")
	}
	mock.lock.Lock()
	mock.calls.CountActive = append(mock.calls.CountActive, struct{ Suite string }{suite})
	mock.lock.Unlock()
	return mock.CountActiveFunc(ctx, suite)
}

func (mock *questionRepoMock) ListActiveCalls() []struct{ Suite string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.ListActive
}

var _ sessionRepo = &sessionRepoMock{}

type sessionRepoMock struct {
	CreateFunc                 func(ctx context.Context, s *domain.TrainingSession) (*domain.TrainingSession, error)
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)
	GetByIDForUpdateFunc       func(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)
	GetInProgressByUserFunc    func(ctx context.Context, userID int64) (*domain.TrainingSession, error)
	CancelInProgressByUserFunc func(ctx context.Context, userID int64, finishedAt time.Time) (int, error)
	SetDraftFunc               func(ctx context.Context, id uuid.UUID, draft string) error
	AdvanceFunc                func(ctx context.Context, id uuid.UUID, newIndex int) error
	FinishFunc                 func(ctx context.Context, id uuid.UUID, finishedAt time.Time) (*domain.TrainingSession, error)
	ListByUserFunc             func(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error)

	calls struct {
		Create                 []struct{ Session *domain.TrainingSession }
		CancelInProgressByUser []struct{ UserID int64 }
		SetDraft               []struct {
			ID    uuid.UUID
			Draft string
		}
		Advance []struct {
			ID       uuid.UUID
			NewIndex int
		}
		Finish []struct{ ID uuid.UUID }
	}
	lock sync.RWMutex
}

func (mock *sessionRepoMock) Create(ctx context.Context, s *domain.TrainingSession) (*domain.TrainingSession, error) {
	if mock.CreateFunc == nil {
		panic("sessionRepoMock.CreateFunc: method is nil but sessionRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Session *domain.TrainingSession }{s})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *sessionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error) {
	if mock.GetByIDFunc == nil {
		panic("sessionRepoMock.GetByIDFunc: method is nil but sessionRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *sessionRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error) {
	if mock.GetByIDForUpdateFunc == nil {
		panic("sessionRepoMock.GetByIDForUpdateFunc: method is nil but sessionRepo.GetByIDForUpdate was just called")
	}
	return mock.GetByIDForUpdateFunc(ctx, id)
}

func (mock *sessionRepoMock) GetInProgressByUser(ctx context.Context, userID int64) (*domain.TrainingSession, error) {
	if mock.GetInProgressByUserFunc == nil {
		panic("sessionRepoMock.GetInProgressByUserFunc: method is nil but sessionRepo.GetInProgressByUser was just called")
	}
	return mock.GetInProgressByUserFunc(ctx, userID)
}

func (mock *sessionRepoMock) CancelInProgressByUser(ctx context.Context, userID int64, finishedAt time.Time) (int, error) {
	if mock.CancelInProgressByUserFunc == nil {
		panic("sessionRepoMock.CancelInProgressByUserFunc: method is nil but sessionRepo.CancelInProgressByUser was just called")
	}
	mock.lock.Lock()
	mock.calls.CancelInProgressByUser = append(mock.calls.CancelInProgressByUser, struct{ UserID int64 }{userID})
	mock.lock.Unlock()
	return mock.CancelInProgressByUserFunc(ctx, userID, finishedAt)
}

func (mock *sessionRepoMock) SetDraft(ctx context.Context, id uuid.UUID, draft string) error {
	if mock.SetDraftFunc == nil {
		panic("sessionRepoMock.SetDraftFunc: method is nil but sessionRepo.SetDraft was just called")
	}
	mock.lock.Lock()
	mock.calls.SetDraft = append(mock.calls.SetDraft, struct {
		ID    uuid.UUID
		Draft string
	}{id, draft})
	mock.lock.Unlock()
	return mock.SetDraftFunc(ctx, id, draft)
}

func (mock *sessionRepoMock) Advance(ctx context.Context, id uuid.UUID, newIndex int) error {
	if mock.AdvanceFunc == nil {
		panic("sessionRepoMock.AdvanceFunc: method is nil but sessionRepo.Advance was just called")
	}
	mock.lock.Lock()
	mock.calls.Advance = append(mock.calls.Advance, struct {
		ID       uuid.UUID
		NewIndex int
	}{id, newIndex})
	mock.lock.Unlock()
	return mock.AdvanceFunc(ctx, id, newIndex)
}

func (mock *sessionRepoMock) Finish(ctx context.Context, id uuid.UUID, finishedAt time.Time) (*domain.TrainingSession, error) {
	if mock.FinishFunc == nil {
		panic("sessionRepoMock.FinishFunc: method is nil but sessionRepo.Finish was just called")
	}
	mock.lock.Lock()
	mock.calls.Finish = append(mock.calls.Finish, struct{ ID uuid.UUID }{id})
	mock.lock.Unlock()
	return mock.FinishFunc(ctx, id, finishedAt)
}

func (mock *sessionRepoMock) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error) {
	if mock.ListByUserFunc == nil {
		panic("sessionRepoMock.ListByUserFunc: method is nil but sessionRepo.ListByUser was just called")
	}
	return mock.ListByUserFunc(ctx, userID, limit, offset)
}

func (mock *sessionRepoMock) CreateCalls() []struct{ Session *domain.TrainingSession } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *sessionRepoMock) CancelInProgressByUserCalls() []struct{ UserID int64 } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.CancelInProgressByUser
}

func (mock *sessionRepoMock) SetDraftCalls() []struct {
	ID    uuid.UUID
	Draft string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetDraft
}

func (mock *sessionRepoMock) AdvanceCalls() []struct {
	ID       uuid.UUID
	NewIndex int
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Advance
}

func (mock *sessionRepoMock) FinishCalls() []struct{ ID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Finish
}

var _ answerRepo = &answerRepoMock{}

type answerRepoMock struct {
	CreateFunc         func(ctx context.Context, a *domain.Answer) (*domain.Answer, error)
	ListBySessionFunc  func(ctx context.Context, sessionID uuid.UUID) ([]*domain.Answer, error)
	CountBySessionFunc func(ctx context.Context, sessionID uuid.UUID) (int, error)

	calls struct {
		Create []struct{ Answer *domain.Answer }
	}
	lock sync.RWMutex
}

func (mock *answerRepoMock) Create(ctx context.Context, a *domain.Answer) (*domain.Answer, error) {
	if mock.CreateFunc == nil {
		panic("answerRepoMock.CreateFunc: method is nil but answerRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Answer *domain.Answer }{a})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, a)
}

func (mock *answerRepoMock) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Answer, error) {
	if mock.ListBySessionFunc == nil {
		panic("answerRepoMock.ListBySessionFunc: method is nil but answerRepo.ListBySession was just called")
	}
	return mock.ListBySessionFunc(ctx, sessionID)
}

func (mock *answerRepoMock) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if mock.CountBySessionFunc == nil {
		panic("answerRepoMock.CountBySessionFunc: method is nil but answerRepo.CountBySession was just called")
	}
	return mock.CountBySessionFunc(ctx, sessionID)
}

func (mock *answerRepoMock) CreateCalls() []struct{ Answer *domain.Answer } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

var _ clock = fixedClock{}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
