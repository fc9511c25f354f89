package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrInvalidState       = errors.New("invalid state")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrSourceError        = errors.New("source error")

	// ErrSourceAbsent marks a suite whose catalog source does not exist yet.
	// It is a skip signal, not a failure: callers move on to the next suite.
	ErrSourceAbsent = errors.New("source absent")
)

// SourceError describes a malformed catalog source with its location.
type SourceError struct {
	Path    string
	Row     int // 1-based row number, 0 when the whole file is at fault
	Message string
}

func (e *SourceError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("source %s: row %d: %s", e.Path, e.Row, e.Message)
	}
	return fmt.Sprintf("source %s: %s", e.Path, e.Message)
}

func (e *SourceError) Unwrap() error { return ErrSourceError }

// NewSourceError creates a SourceError for a whole file.
func NewSourceError(path, message string) *SourceError {
	return &SourceError{Path: path, Message: message}
}

// NewSourceRowError creates a SourceError pointing at a specific row.
func NewSourceRowError(path string, row int, message string) *SourceError {
	return &SourceError{Path: path, Row: row, Message: message}
}
