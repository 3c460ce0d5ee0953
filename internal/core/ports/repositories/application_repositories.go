package repositories

import (
	"context"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
)

// ApplicationReader defines read operations for application snapshots
type ApplicationReader interface {
	// FindApplicationByID loads the latest committed snapshot. Unknown IDs yield apperrors.ErrNotFound.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)

	// ListApplications retrieves a page of applications, newest first, using token-based pagination.
	ListApplications(ctx context.Context, filter domain.ApplicationFilter, limit int, nextToken *string) ([]domain.Application, *string, error)
}

// ApplicationWriter defines write operations for application snapshots
type ApplicationWriter interface {
	// CreateApplication persists a new application at version 1.
	CreateApplication(ctx context.Context, app domain.Application) (*domain.Application, error)

	// SaveApplication replaces the snapshot if the stored version still equals
	// expectedVersion, otherwise it returns apperrors.ErrConflict and writes nothing.
	// History and documents may only grow.
	SaveApplication(ctx context.Context, app domain.Application, expectedVersion int64) (*domain.Application, error)
}

// ApplicationRepositoryFacade combines all application-related repository interfaces
type ApplicationRepositoryFacade interface {
	ApplicationReader
	ApplicationWriter
}
