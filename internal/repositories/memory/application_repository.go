// Package memory provides an in-process application store for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/refinance_review_app/internal/utils/pagination"
)

const defaultListLimit = 20

type record struct {
	mu  sync.Mutex
	app *domain.Application
}

// ApplicationRepository keeps snapshots in memory. Writes to one application
// are serialised by that application's mutex; the version stamp is checked
// under the same lock.
type ApplicationRepository struct {
	mu      sync.RWMutex
	records map[string]*record
	now     func() time.Time
}

// NewApplicationRepository creates an empty store.
func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{
		records: make(map[string]*record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ portsrepo.ApplicationRepositoryFacade = (*ApplicationRepository)(nil)

// NewRepositoryProvider wires the in-memory store into a provider.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{ApplicationRepo: NewApplicationRepository()}
}

func (r *ApplicationRepository) lookup(id string) (*record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

// CreateApplication stores a new application at version 1.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, app domain.Application) (*domain.Application, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if app.ApplicationID == "" {
		return nil, fmt.Errorf("%w: application ID is required", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[app.ApplicationID]; exists {
		return nil, fmt.Errorf("%w: application with ID %s already exists", apperrors.ErrDuplicate, app.ApplicationID)
	}
	if app.FormNumber != "" {
		for _, rec := range r.records {
			rec.mu.Lock()
			taken := rec.app.FormNumber == app.FormNumber
			rec.mu.Unlock()
			if taken {
				return nil, fmt.Errorf("%w: form number %s is already in use", apperrors.ErrDuplicate, app.FormNumber)
			}
		}
	}
	stored := app.Clone()
	stored.Version = 1
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	if stored.LastUpdatedAt.IsZero() {
		stored.LastUpdatedAt = stored.CreatedAt
	}
	r.records[app.ApplicationID] = &record{app: stored}
	return stored.Clone(), nil
}

// FindApplicationByID returns a copy of the stored snapshot.
func (r *ApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	rec, ok := r.lookup(applicationID)
	if !ok {
		return nil, fmt.Errorf("%w: application %s", apperrors.ErrNotFound, applicationID)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.app.Clone(), nil
}

// SaveApplication replaces the snapshot if its version still matches.
func (r *ApplicationRepository) SaveApplication(ctx context.Context, app domain.Application, expectedVersion int64) (*domain.Application, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	rec, ok := r.lookup(app.ApplicationID)
	if !ok {
		return nil, fmt.Errorf("%w: application %s", apperrors.ErrNotFound, app.ApplicationID)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.app.Version != expectedVersion {
		return nil, fmt.Errorf("%w: application %s is at version %d, expected %d", apperrors.ErrConflict, app.ApplicationID, rec.app.Version, expectedVersion)
	}
	if err := checkAppendOnly(rec.app, &app); err != nil {
		return nil, err
	}

	stored := app.Clone()
	stored.Version = expectedVersion + 1
	stored.CreatedAt = rec.app.CreatedAt
	stored.CreatedBy = rec.app.CreatedBy
	rec.app = stored
	return stored.Clone(), nil
}

// ListApplications filters, orders by creation time descending and paginates.
func (r *ApplicationRepository) ListApplications(ctx context.Context, filter domain.ApplicationFilter, limit int, nextToken *string) ([]domain.Application, *string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var cursorAt time.Time
	var cursorID string
	hasCursor := nextToken != nil && *nextToken != ""
	if hasCursor {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
	}

	r.mu.RLock()
	recs := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	matched := make([]domain.Application, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		app := rec.app.Clone()
		rec.mu.Unlock()

		if filter.Stage != "" && app.CurrentStage != filter.Stage {
			continue
		}
		if filter.Status != "" && app.Status() != filter.Status {
			continue
		}
		if hasCursor && !pagination.After(app.CreatedAt, app.ApplicationID, cursorAt, cursorID) {
			continue
		}
		matched = append(matched, *app)
	}

	sort.Slice(matched, func(i, j int) bool {
		return pagination.After(matched[j].CreatedAt, matched[j].ApplicationID, matched[i].CreatedAt, matched[i].ApplicationID)
	})

	var next *string
	if len(matched) > limit {
		last := matched[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ApplicationID)
		next = &token
		matched = matched[:limit]
	}
	return matched, next, nil
}

// checkAppendOnly rejects candidates that would drop history entries or document references.
func checkAppendOnly(current, candidate *domain.Application) error {
	if len(candidate.StatusHistory) < len(current.StatusHistory) {
		return fmt.Errorf("%w: status history of %s cannot shrink", apperrors.ErrValidation, current.ApplicationID)
	}
	for i := range current.StatusHistory {
		if candidate.StatusHistory[i].EntryID != current.StatusHistory[i].EntryID {
			return fmt.Errorf("%w: status history of %s cannot be rewritten", apperrors.ErrValidation, current.ApplicationID)
		}
	}
	for kind, refs := range current.Documents {
		if len(candidate.Documents[kind]) < len(refs) {
			return fmt.Errorf("%w: %s documents of %s cannot shrink", apperrors.ErrValidation, kind, current.ApplicationID)
		}
	}
	return nil
}
