package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTxStarter records the options each read transaction is opened with.
type MockTxStarter struct {
	mock.Mock
}

func (m *MockTxStarter) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	args := m.Called(ctx, txOptions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

// MockTx implements the parts of pgx.Tx the read path uses.
type MockTx struct {
	pgx.Tx
	mock.Mock
}

func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.Called(ctx, sql).Get(0).(pgx.Row)
}

func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ret := m.Called(ctx, sql)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(pgx.Rows), ret.Error(1)
}

func (m *MockTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func newReadRepo(db txStarter) *PgxApplicationRepository {
	return &PgxApplicationRepository{reads: db}
}

func TestFindApplicationByID_ReadsInsideSnapshotTransaction(t *testing.T) {
	ctx := context.Background()
	tx := new(MockTx)
	db := new(MockTxStarter)
	db.On("BeginTx", ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}).Return(tx, nil).Once()
	tx.On("QueryRow", ctx, mock.AnythingOfType("string")).Return(errRow{err: pgx.ErrNoRows}).Once()
	tx.On("Rollback", ctx).Return(nil).Once()

	_, err := newReadRepo(db).FindApplicationByID(ctx, "app-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	db.AssertExpectations(t)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestFindApplicationByID_BeginFailureIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	db := new(MockTxStarter)
	db.On("BeginTx", ctx, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := newReadRepo(db).FindApplicationByID(ctx, "app-1")

	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	db.AssertExpectations(t)
}

func TestListApplications_ReadsInsideSnapshotTransaction(t *testing.T) {
	ctx := context.Background()
	tx := new(MockTx)
	db := new(MockTxStarter)
	db.On("BeginTx", ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}).Return(tx, nil).Once()
	tx.On("Query", ctx, mock.AnythingOfType("string")).Return(nil, errors.New("server closed the connection")).Once()
	tx.On("Rollback", ctx).Return(nil).Once()

	_, _, err := newReadRepo(db).ListApplications(ctx, domain.ApplicationFilter{Stage: domain.StageCredit}, 10, nil)

	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	db.AssertExpectations(t)
	tx.AssertExpectations(t)
}

func TestListApplications_BadTokenNeverOpensTransaction(t *testing.T) {
	db := new(MockTxStarter)
	token := "%%%"

	_, _, err := newReadRepo(db).ListApplications(context.Background(), domain.ApplicationFilter{}, 10, &token)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	db.AssertNotCalled(t, "BeginTx", mock.Anything, mock.Anything)
}

func TestDuplicateError_NamesTheConstraint(t *testing.T) {
	m := models.Application{ApplicationID: "app-1", FormNumber: "RF-20250301-APP1"}

	err := duplicateError(&pgconn.PgError{Code: "23505", ConstraintName: formNumberIndex}, m)
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "form number RF-20250301-APP1 is already in use")

	err = duplicateError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_pkey"}, m)
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "application with ID app-1 already exists")
}
