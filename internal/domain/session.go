package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a training session.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusFinished   SessionStatus = "FINISHED"
	SessionStatusCanceled   SessionStatus = "CANCELED"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusInProgress, SessionStatusFinished, SessionStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusFinished || s == SessionStatusCanceled
}

// TrainingSession is one attempt of a user at a suite.
//
// CurrentIndex is a zero-based position in the suite's active-question
// ordering (by code, ascending). The ordering is recomputed on every read,
// so reconciliation running mid-session can shift which question the index
// points at. Accepted trade-off: no persisted per-session question list.
type TrainingSession struct {
	ID           uuid.UUID
	UserID       int64 // Telegram user id
	Suite        string
	Status       SessionStatus
	CurrentIndex int
	DraftAnswer  *string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// InProgress reports whether the session still accepts flow operations.
func (s *TrainingSession) InProgress() bool {
	return s.Status == SessionStatusInProgress
}

// Draft returns the accumulated draft answer, "" when none.
func (s *TrainingSession) Draft() string {
	if s.DraftAnswer == nil {
		return ""
	}
	return *s.DraftAnswer
}
