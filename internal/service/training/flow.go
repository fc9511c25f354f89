package training

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

// Start creates a new IN_PROGRESS session for the user at currentIndex 0.
//
// Any session the user still has in progress — in any suite — is canceled
// in the same transaction, so at most one live attempt exists per user and
// a crash mid-operation can never leave two. Fails with
// domain.ErrPreconditionFailed when the suite has no active questions;
// nothing is created in that case.
func (s *Service) Start(ctx context.Context, userID int64, suite string) (*domain.TrainingSession, error) {
	if suite == "" {
		return nil, fmt.Errorf("suite: %w", domain.ErrValidation)
	}

	var created *domain.TrainingSession

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		canceled, err := s.sessions.CancelInProgressByUser(txCtx, userID, s.clock.Now())
		if err != nil {
			return err
		}
		if canceled > 0 {
			s.log.InfoContext(ctx, "canceled previous sessions",
				slog.Int64("user_id", userID),
				slog.Int("count", canceled),
			)
		}

		count, err := s.questions.CountActive(txCtx, suite)
		if err != nil {
			return fmt.Errorf("count active questions: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("suite %q has no active questions: %w", suite, domain.ErrPreconditionFailed)
		}

		session := &domain.TrainingSession{
			ID:        uuid.New(),
			UserID:    userID,
			Suite:     suite,
			Status:    domain.SessionStatusInProgress,
			StartedAt: s.clock.Now(),
		}

		created, err = s.sessions.Create(txCtx, session)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session started",
		slog.Int64("user_id", userID),
		slog.String("suite", suite),
		slog.String("session_id", created.ID.String()),
	)

	return created, nil
}

// CurrentQuestion returns the question at the session's current index, or
// nil when the session has walked past the end of the suite's active
// questions. Fails with domain.ErrInvalidState when the session is not
// IN_PROGRESS.
func (s *Service) CurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error) {
	var q *domain.Question

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetByID(txCtx, sessionID)
		if err != nil {
			return err
		}

		q, err = s.questionAt(txCtx, session)
		return err
	})
	if err != nil {
		return nil, err
	}

	return q, nil
}

// AppendToDraft accumulates one more message into the session's draft
// answer. The input is trimmed; a blank message is a silent no-op (an empty
// transport message, not an error). Non-blank text is joined to the existing
// draft with a newline, preserving arrival order.
func (s *Service) AppendToDraft(ctx context.Context, sessionID uuid.UUID, text string) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return err
		}
		if !session.InProgress() {
			return fmt.Errorf("session %s is %s: %w", session.ID, session.Status, domain.ErrInvalidState)
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}

		draft := trimmed
		if current := session.Draft(); current != "" {
			draft = current + "\n" + trimmed
		}

		return s.sessions.SetDraft(txCtx, session.ID, draft)
	})
}

// Next materializes the current draft (if non-blank) as an answer snapshot,
// advances the session by one question, and returns the new current
// question — nil when the suite is exhausted.
func (s *Service) Next(ctx context.Context, sessionID uuid.UUID) (*domain.Question, error) {
	var next *domain.Question

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Row-locked re-read: two concurrent Next calls serialize here, so
		// the draft is materialized at most once.
		session, err := s.sessions.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return err
		}

		current, err := s.questionAt(txCtx, session)
		if err != nil {
			return err
		}

		if err := s.materializeDraft(txCtx, session, current); err != nil {
			return err
		}

		session.CurrentIndex++
		session.DraftAnswer = nil
		if err := s.sessions.Advance(txCtx, session.ID, session.CurrentIndex); err != nil {
			return err
		}

		next, err = s.questionAt(txCtx, session)
		return err
	})
	if err != nil {
		return nil, err
	}

	return next, nil
}

// Finish materializes any remaining non-blank draft and closes the session.
// Not reentrant: finishing an already-FINISHED session fails with
// domain.ErrInvalidState instead of silently succeeding, since a second run
// could duplicate the last answer snapshot.
func (s *Service) Finish(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error) {
	var finished *domain.TrainingSession

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return err
		}

		current, err := s.questionAt(txCtx, session)
		if err != nil {
			return err
		}

		if err := s.materializeDraft(txCtx, session, current); err != nil {
			return err
		}

		finished, err = s.sessions.Finish(txCtx, session.ID, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session finished",
		slog.Int64("user_id", finished.UserID),
		slog.String("session_id", finished.ID.String()),
	)

	return finished, nil
}

// questionAt resolves the session's current question against the freshly
// recomputed active ordering. nil question (no error) means the index is
// past the end of the list.
func (s *Service) questionAt(ctx context.Context, session *domain.TrainingSession) (*domain.Question, error) {
	if !session.InProgress() {
		return nil, fmt.Errorf("session %s is %s: %w", session.ID, session.Status, domain.ErrInvalidState)
	}
	if session.CurrentIndex < 0 {
		return nil, fmt.Errorf("session %s: negative current index: %w", session.ID, domain.ErrInvalidState)
	}

	questions, err := s.questions.ListActive(ctx, session.Suite)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}

	if session.CurrentIndex >= len(questions) {
		return nil, nil
	}

	return questions[session.CurrentIndex], nil
}

// materializeDraft writes one immutable answer snapshot if the session's
// trimmed draft is non-blank. When question is nil (the user answered past
// the end of the list) the snapshot text is empty and no question is
// referenced. A blank draft writes nothing.
func (s *Service) materializeDraft(ctx context.Context, session *domain.TrainingSession, question *domain.Question) error {
	draft := strings.TrimSpace(session.Draft())
	if draft == "" {
		return nil
	}

	answer := &domain.Answer{
		SessionID:  session.ID,
		AnswerText: draft,
	}
	if question != nil {
		answer.QuestionID = &question.ID
		answer.QuestionTextSnapshot = question.Text
	}

	if _, err := s.answers.Create(ctx, answer); err != nil {
		return fmt.Errorf("create answer snapshot: %w", err)
	}

	return nil
}
