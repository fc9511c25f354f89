package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

var _ questionRepo = &questionRepoMock{}

type questionRepoMock struct {
	ListBySuiteFunc func(ctx context.Context, suite string) ([]*domain.Question, error)
	CreateFunc      func(ctx context.Context, rec domain.QuestionRecord) (*domain.Question, error)
	UpdateFunc      func(ctx context.Context, id uuid.UUID, params domain.QuestionUpdateParams) error
	DeactivateFunc  func(ctx context.Context, id uuid.UUID) error

	calls struct {
		ListBySuite []struct {
			Suite string
		}
		Create []struct {
			Rec domain.QuestionRecord
		}
		Update []struct {
			ID     uuid.UUID
			Params domain.QuestionUpdateParams
		}
		Deactivate []struct {
			ID uuid.UUID
		}
	}
	lock sync.RWMutex
}

func (mock *questionRepoMock) ListBySuite(ctx context.Context, suite string) ([]*domain.Question, error) {
	if mock.ListBySuiteFunc == nil {
		panic("questionRepoMock.ListBySuiteFunc: method is nil but questionRepo.ListBySuite was just called")
	}
	mock.lock.Lock()
	mock.calls.ListBySuite = append(mock.calls.ListBySuite, struct{ Suite string }{suite})
	mock.lock.Unlock()
	return mock.ListBySuiteFunc(ctx, suite)
}

func (mock *questionRepoMock) Create(ctx context.Context, rec domain.QuestionRecord) (*domain.Question, error) {
	if mock.CreateFunc == nil {
		panic("questionRepoMock.CreateFunc: method is nil but questionRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Rec domain.QuestionRecord }{rec})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, rec)
}

func (mock *questionRepoMock) Update(ctx context.Context, id uuid.UUID, params domain.QuestionUpdateParams) error {
	if mock.UpdateFunc == nil {
		panic("questionRepoMock.UpdateFunc: method is nil but questionRepo.Update was just called")
	}
	mock.lock.Lock()
	mock.calls.Update = append(mock.calls.Update, struct {
		ID     uuid.UUID
		Params domain.QuestionUpdateParams
	}{id, params})
	mock.lock.Unlock()
	return mock.UpdateFunc(ctx, id, params)
}

func (mock *questionRepoMock) Deactivate(ctx context.Context, id uuid.UUID) error {
	if mock.DeactivateFunc == nil {
		panic("questionRepoMock.DeactivateFunc: method is nil but questionRepo.Deactivate was just called")
	}
	mock.lock.Lock()
	mock.calls.Deactivate = append(mock.calls.Deactivate, struct{ ID uuid.UUID }{id})
	mock.lock.Unlock()
	return mock.DeactivateFunc(ctx, id)
}

func (mock *questionRepoMock) CreateCalls() []struct{ Rec domain.QuestionRecord } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *questionRepoMock) UpdateCalls() []struct {
	ID     uuid.UUID
	Params domain.QuestionUpdateParams
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Update
}

func (mock *questionRepoMock) DeactivateCalls() []struct{ ID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Deactivate
}

var _ sourceLoader = &sourceLoaderMock{}

type sourceLoaderMock struct {
	LoadSuiteFunc func(suite string) ([]domain.QuestionRecord, error)

	calls struct {
		LoadSuite []struct {
			Suite string
		}
	}
	lock sync.RWMutex
}

func (mock *sourceLoaderMock) LoadSuite(suite string) ([]domain.QuestionRecord, error) {
	if mock.LoadSuiteFunc == nil {
		panic("sourceLoaderMock.LoadSuiteFunc: method is nil but sourceLoader.LoadSuite was just called")
	}
	mock.lock.Lock()
	mock.calls.LoadSuite = append(mock.calls.LoadSuite, struct{ Suite string }{suite})
	mock.lock.Unlock()
	return mock.LoadSuiteFunc(suite)
}

func (mock *sourceLoaderMock) LoadSuiteCalls() []struct{ Suite string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.LoadSuite
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
