// Package catalog implements catalog reconciliation: merging external
// question sources into the database without disturbing sessions already
// in progress.
//
// Strategy (safe for existing sessions):
//  1. load the suite's source records
//  2. upsert into questions (create or update)
//  3. mark questions missing from the source as inactive, never delete
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type questionRepo interface {
	ListBySuite(ctx context.Context, suite string) ([]*domain.Question, error)
	Create(ctx context.Context, rec domain.QuestionRecord) (*domain.Question, error)
	Update(ctx context.Context, id uuid.UUID, params domain.QuestionUpdateParams) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type sourceLoader interface {
	LoadSuite(suite string) ([]domain.QuestionRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// SyncStatus is a snapshot of the most recent reconciliation run.
type SyncStatus struct {
	At      time.Time
	Reports []domain.SyncReport
	Failed  bool
}

// Service reconciles question suites against their external sources.
type Service struct {
	questions questionRepo
	source    sourceLoader
	tx        txManager
	log       *slog.Logger
	suites    []string

	last atomic.Pointer[SyncStatus]
}

// NewService creates a catalog reconciliation service for the given suites.
func NewService(log *slog.Logger, questions questionRepo, source sourceLoader, tx txManager, suites []string) *Service {
	return &Service{
		questions: questions,
		source:    source,
		tx:        tx,
		log:       log,
		suites:    suites,
	}
}

// SyncAll reconciles every configured suite. A suite whose source file does
// not exist is skipped. A malformed source aborts only that suite; the
// remaining suites still run, and the per-suite failures come back joined.
// Reports are returned for the suites that completed.
func (s *Service) SyncAll(ctx context.Context) ([]domain.SyncReport, error) {
	var (
		reports []domain.SyncReport
		errs    []error
	)

	for _, suite := range s.suites {
		records, err := s.source.LoadSuite(suite)
		if err != nil {
			if errors.Is(err, domain.ErrSourceAbsent) {
				s.log.InfoContext(ctx, "catalog source not found yet, suite skipped",
					slog.String("suite", suite),
				)
				continue
			}
			s.log.ErrorContext(ctx, "catalog source failed to load",
				slog.String("suite", suite),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("suite %q: %w", suite, err))
			continue
		}

		report, err := s.SyncSuite(ctx, suite, records)
		if err != nil {
			errs = append(errs, fmt.Errorf("suite %q: %w", suite, err))
			continue
		}
		reports = append(reports, report)
	}

	err := errors.Join(errs...)
	s.last.Store(&SyncStatus{
		At:      time.Now().UTC(),
		Reports: reports,
		Failed:  err != nil,
	})

	return reports, err
}

// LastSync returns the status of the most recent SyncAll run, or nil when
// no run has completed yet.
func (s *Service) LastSync() *SyncStatus {
	return s.last.Load()
}

// SyncSuite reconciles one suite against already-loaded source records
// inside a single transaction. Idempotent: a second run over the same
// records reports zero changes. On any error the suite's catalog is left
// untouched.
func (s *Service) SyncSuite(ctx context.Context, suite string, records []domain.QuestionRecord) (domain.SyncReport, error) {
	// Defensive: only keep records for this suite.
	source := records[:0:0]
	for _, rec := range records {
		if rec.Suite == suite {
			source = append(source, rec)
		}
	}

	report := domain.SyncReport{Suite: suite, TotalInSource: len(source)}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.questions.ListBySuite(txCtx, suite)
		if err != nil {
			return fmt.Errorf("load suite questions: %w", err)
		}

		byCode := make(map[string]*domain.Question, len(existing))
		for _, q := range existing {
			byCode[q.Code] = q
		}

		for _, rec := range source {
			q, ok := byCode[rec.Code]
			if !ok {
				if _, err := s.questions.Create(txCtx, rec); err != nil {
					return fmt.Errorf("create question %q: %w", rec.Code, err)
				}
				report.Created++
				continue
			}

			if q.Differs(rec) {
				params := domain.QuestionUpdateParams{
					Text:       rec.Text,
					Topic:      rec.Topic,
					Difficulty: rec.Difficulty,
					IsActive:   true,
				}
				if err := s.questions.Update(txCtx, q.ID, params); err != nil {
					return fmt.Errorf("update question %q: %w", rec.Code, err)
				}
				report.Updated++
			}

			// Mark as processed.
			delete(byCode, rec.Code)
		}

		// Everything left was not in the source: retire, keep for history.
		for _, old := range byCode {
			if !old.IsActive {
				continue
			}
			if err := s.questions.Deactivate(txCtx, old.ID); err != nil {
				return fmt.Errorf("deactivate question %q: %w", old.Code, err)
			}
			report.Deactivated++
		}

		return nil
	})
	if err != nil {
		return domain.SyncReport{}, err
	}

	s.log.InfoContext(ctx, "suite reconciled",
		slog.String("suite", suite),
		slog.Int("total_in_source", report.TotalInSource),
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("deactivated", report.Deactivated),
	)

	return report, nil
}
