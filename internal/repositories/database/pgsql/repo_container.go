package pgsql

import (
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	applicationRepo := newPgxApplicationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ApplicationRepo: applicationRepo,
	}
}
