package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(id string, stage domain.StageID, createdAt time.Time) domain.Application {
	return domain.Application{
		ApplicationID: id,
		CurrentStage:  stage,
		AuditFields:   domain.AuditFields{CreatedAt: createdAt, CreatedBy: "op"},
	}
}

func TestCreateAndFind(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()

	created, err := repo.CreateApplication(ctx, newApp("a1", domain.StageKYC, time.Time{}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateApplication(ctx, newApp("a1", domain.StageKYC, time.Time{}))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := repo.FindApplicationByID(ctx, "a1")
	require.NoError(t, err)
	found.Fields[domain.FieldIBAN] = "mutated"

	again, err := repo.FindApplicationByID(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, again.Fields[domain.FieldIBAN], "callers must receive copies")

	_, err = repo.FindApplicationByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveApplication_VersionCheck(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	_, err := repo.CreateApplication(ctx, newApp("a1", domain.StageKYC, time.Time{}))
	require.NoError(t, err)

	app, _ := repo.FindApplicationByID(ctx, "a1")
	app.CurrentStage = domain.StageCarVerification
	saved, err := repo.SaveApplication(ctx, *app, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version)

	_, err = repo.SaveApplication(ctx, *app, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, _ := repo.FindApplicationByID(ctx, "a1")
	assert.Equal(t, domain.StageCarVerification, stored.CurrentStage)
	assert.Equal(t, int64(2), stored.Version)
}

func TestSaveApplication_ConcurrentWritersOneWins(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	_, err := repo.CreateApplication(ctx, newApp("a1", domain.StageKYC, time.Time{}))
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app, _ := repo.FindApplicationByID(ctx, "a1")
			app.Fields[domain.FieldCurrentAddress] = fmt.Sprintf("writer-%d", i)
			_, errs[i] = repo.SaveApplication(ctx, *app, 1)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestSaveApplication_AppendOnly(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	seed := newApp("a1", domain.StageCredit, time.Time{})
	seed.StatusHistory = []domain.StatusHistoryEntry{{EntryID: "h1", Stage: domain.StageCredit}}
	seed.Documents = map[domain.DocumentKind][]domain.DocumentRef{domain.DocPhoto: {{DocumentID: "d1", URL: "u"}}}
	_, err := repo.CreateApplication(ctx, seed)
	require.NoError(t, err)

	shrunk, _ := repo.FindApplicationByID(ctx, "a1")
	shrunk.StatusHistory = nil
	_, err = repo.SaveApplication(ctx, *shrunk, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	rewritten, _ := repo.FindApplicationByID(ctx, "a1")
	rewritten.StatusHistory[0].EntryID = "other"
	_, err = repo.SaveApplication(ctx, *rewritten, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	noDocs, _ := repo.FindApplicationByID(ctx, "a1")
	delete(noDocs.Documents, domain.DocPhoto)
	_, err = repo.SaveApplication(ctx, *noDocs, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCancelledContextIsPersistenceError(t *testing.T) {
	repo := NewApplicationRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindApplicationByID(ctx, "a1")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestListApplications_FiltersAndPaginates(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	t0 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.CreateApplication(ctx, newApp(fmt.Sprintf("a%d", i), domain.StageKYC, t0.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	rejected := newApp("r1", domain.StageCredit, t0)
	rejected.Rejected = true
	rejected.RejectionReason = "fraud"
	_, err := repo.CreateApplication(ctx, rejected)
	require.NoError(t, err)

	page, next, err := repo.ListApplications(ctx, domain.ApplicationFilter{Stage: domain.StageKYC}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a4", page[0].ApplicationID)
	assert.Equal(t, "a3", page[1].ApplicationID)
	require.NotNil(t, next)

	page, next, err = repo.ListApplications(ctx, domain.ApplicationFilter{Stage: domain.StageKYC}, 2, next)
	require.NoError(t, err)
	assert.Equal(t, "a2", page[0].ApplicationID)
	page, next, err = repo.ListApplications(ctx, domain.ApplicationFilter{Stage: domain.StageKYC}, 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a0", page[0].ApplicationID)
	assert.Nil(t, next)

	page, _, err = repo.ListApplications(ctx, domain.ApplicationFilter{Status: domain.StatusLabelRejected}, 10, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "r1", page[0].ApplicationID)

	bad := "%%%"
	_, _, err = repo.ListApplications(ctx, domain.ApplicationFilter{}, 10, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
