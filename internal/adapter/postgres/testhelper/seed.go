package testhelper

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpshnkv/trainerbot/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueSuite returns a suite name unused by any other test.
func UniqueSuite() string {
	return "suite-" + uniqueSuffix()
}

// UniqueUserID returns a random Telegram-style user id.
func UniqueUserID() int64 {
	return rand.Int63n(1 << 40)
}

// SeedQuestion creates an active question in the given suite.
func SeedQuestion(t *testing.T, pool *pgxpool.Pool, suite, code string) domain.Question {
	t.Helper()
	return insertQuestion(t, pool, suite, code, true)
}

// SeedInactiveQuestion creates a question that has been retired from its source.
func SeedInactiveQuestion(t *testing.T, pool *pgxpool.Pool, suite, code string) domain.Question {
	t.Helper()
	return insertQuestion(t, pool, suite, code, false)
}

func insertQuestion(t *testing.T, pool *pgxpool.Pool, suite, code string, active bool) domain.Question {
	t.Helper()
	ctx := context.Background()

	topic := "topic-" + uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	q := domain.Question{
		ID:         uuid.New(),
		Suite:      suite,
		Code:       code,
		Text:       "Question text " + uniqueSuffix(),
		Topic:      &topic,
		Difficulty: domain.DifficultyBasic,
		IsActive:   active,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO questions (id, suite, code, text, topic, difficulty, is_active, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.Suite, q.Code, q.Text, q.Topic, q.Difficulty, q.IsActive, q.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuestion insert: %v", err)
	}

	return q
}

// SeedSession creates an IN_PROGRESS session at index 0.
func SeedSession(t *testing.T, pool *pgxpool.Pool, userID int64, suite string) domain.TrainingSession {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.TrainingSession{
		ID:        uuid.New(),
		UserID:    userID,
		Suite:     suite,
		Status:    domain.SessionStatusInProgress,
		StartedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO training_sessions (id, user_id, suite, status, current_index, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.Suite, string(s.Status), s.CurrentIndex, s.StartedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSession insert: %v", err)
	}

	return s
}

// SeedFinishedSession creates a FINISHED session.
func SeedFinishedSession(t *testing.T, pool *pgxpool.Pool, userID int64, suite string) domain.TrainingSession {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.TrainingSession{
		ID:         uuid.New(),
		UserID:     userID,
		Suite:      suite,
		Status:     domain.SessionStatusFinished,
		StartedAt:  now.Add(-time.Hour),
		FinishedAt: &now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO training_sessions (id, user_id, suite, status, current_index, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Suite, string(s.Status), s.CurrentIndex, s.StartedAt, s.FinishedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFinishedSession insert: %v", err)
	}

	return s
}

// SeedAnswer creates an answer snapshot for the session. questionID may be
// nil to model a snapshot whose question was later hard-deleted.
func SeedAnswer(t *testing.T, pool *pgxpool.Pool, sessionID uuid.UUID, questionID *uuid.UUID, text string) domain.Answer {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := domain.Answer{
		ID:                   uuid.New(),
		SessionID:            sessionID,
		QuestionID:           questionID,
		QuestionTextSnapshot: "Snapshot " + uniqueSuffix(),
		AnswerText:           text,
		CreatedAt:            now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO answers (id, session_id, question_id, question_text_snapshot, answer_text, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.SessionID, a.QuestionID, a.QuestionTextSnapshot, a.AnswerText, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAnswer insert: %v", err)
	}

	return a
}
