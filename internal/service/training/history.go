package training

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

const (
	defaultSessionPage = 20
	maxSessionPage     = 100
)

// Sessions returns a user's sessions, newest first, with the total count.
func (s *Service) Sessions(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error) {
	if limit <= 0 {
		limit = defaultSessionPage
	}
	if limit > maxSessionPage {
		limit = maxSessionPage
	}
	if offset < 0 {
		offset = 0
	}

	return s.sessions.ListByUser(ctx, userID, limit, offset)
}

// ActiveSession returns the user's IN_PROGRESS session, or domain.ErrNotFound
// when none exists.
func (s *Service) ActiveSession(ctx context.Context, userID int64) (*domain.TrainingSession, error) {
	return s.sessions.GetInProgressByUser(ctx, userID)
}

// Answers returns a session's answer snapshots in creation order.
func (s *Service) Answers(ctx context.Context, sessionID uuid.UUID) ([]*domain.Answer, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	return s.answers.ListBySession(ctx, sessionID)
}

// AnswerCount returns how many answers a session has recorded. The bot shows
// this in the wrap-up message after /finish.
func (s *Service) AnswerCount(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := s.answers.CountBySession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}

	return count, nil
}
