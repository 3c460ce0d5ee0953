package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrWrongStage indicates that a stage transition was requested for a stage
// the application is not currently in.
var ErrWrongStage = errors.New("application is not in the requested stage")

// ErrPreconditionFailed indicates that required documents or fields are missing.
var ErrPreconditionFailed = errors.New("stage preconditions not satisfied")

// ErrAlreadyTerminal indicates that the application has already been approved or rejected.
var ErrAlreadyTerminal = errors.New("application is already approved or rejected")

// ErrConflict indicates that the application was modified concurrently.
// Callers should reload the snapshot and retry.
var ErrConflict = errors.New("application was modified by another operator")

// ErrPersistence indicates that the snapshot store is unavailable or timed out.
// Callers may retry.
var ErrPersistence = errors.New("application store unavailable")

// PreconditionError lists every missing precondition item for a stage.
type PreconditionError struct {
	Stage   string
	Missing []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot complete stage %s, missing: %s", e.Stage, strings.Join(e.Missing, ", "))
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionFailed
}

// NewPreconditionError builds a PreconditionError with a copy of missing.
func NewPreconditionError(stage string, missing []string) *PreconditionError {
	m := make([]string, len(missing))
	copy(m, missing)
	return &PreconditionError{Stage: stage, Missing: m}
}

// AppError carries a status code alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// MissingItems returns the missing precondition items carried by err, if any.
func MissingItems(err error) []string {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Missing
	}
	return nil
}
