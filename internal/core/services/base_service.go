package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/middleware"
)

const defaultPersistenceTimeout = 5 * time.Second

// BaseService provides common functionality for all services
type BaseService struct {
	// PersistenceTimeout bounds every store call made on behalf of one request.
	PersistenceTimeout time.Duration
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs an expected rejection of a request
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// StoreContext derives the context used for store calls.
func (s *BaseService) StoreContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.PersistenceTimeout
	if timeout <= 0 {
		timeout = defaultPersistenceTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// StoreError normalises store failures: timeouts and cancellations become
// apperrors.ErrPersistence, domain errors pass through unchanged.
func (s *BaseService) StoreError(err error) error {
	if err == nil || errors.Is(err, apperrors.ErrPersistence) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	return err
}

// logRejection logs domain errors at warn level and everything else at error level.
func (s *BaseService) logRejection(ctx context.Context, err error, msg string, keyvals ...any) {
	switch {
	case errors.Is(err, apperrors.ErrPersistence):
		s.LogError(ctx, err, msg, keyvals...)
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrWrongStage),
		errors.Is(err, apperrors.ErrPreconditionFailed),
		errors.Is(err, apperrors.ErrAlreadyTerminal),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate):
		s.LogWarn(ctx, err, msg, keyvals...)
	default:
		s.LogError(ctx, err, msg, keyvals...)
	}
}
