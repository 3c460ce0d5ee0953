package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/refinance_review_app/internal/models"
	"github.com/SscSPs/refinance_review_app/internal/utils/mapping"
	"github.com/SscSPs/refinance_review_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 20

// formNumberIndex is the unique index guarding form numbers.
const formNumberIndex = "idx_applications_form_number"

const applicationColumns = `application_id, form_number, current_stage, status, rejected, COALESCE(rejection_reason, ''), fields, version, created_at, created_by, last_updated_at, last_updated_by`

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxApplicationRepository struct {
	BaseRepository
	reads txStarter
}

// newPgxApplicationRepository creates a new repository for application snapshots.
func newPgxApplicationRepository(pool *pgxpool.Pool) *PgxApplicationRepository {
	return &PgxApplicationRepository{BaseRepository: BaseRepository{Pool: pool}, reads: pool}
}

// Ensure PgxApplicationRepository implements the facade
var _ portsrepo.ApplicationRepositoryFacade = (*PgxApplicationRepository)(nil)

// CreateApplication inserts a new application with its initial documents and history.
func (r *PgxApplicationRepository) CreateApplication(ctx context.Context, app domain.Application) (*domain.Application, error) {
	m := mapping.ToModelApplication(app)
	m.Version = 1

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // ignored once committed

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (application_id, form_number, current_stage, status, rejected, rejection_reason, fields, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12);
	`,
		m.ApplicationID,
		m.FormNumber,
		m.CurrentStage,
		m.Status,
		m.Rejected,
		m.RejectionReason,
		m.Fields,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, duplicateError(pgErr, m)
		}
		return nil, persistenceError("failed to insert application "+m.ApplicationID, err)
	}

	if err := insertDocuments(ctx, tx, app, nil); err != nil {
		return nil, err
	}
	if err := insertHistory(ctx, tx, app, 0); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	created := app.Clone()
	created.Version = m.Version
	return created, nil
}

// duplicateError names the unique constraint a failed insert ran into.
func duplicateError(pgErr *pgconn.PgError, m models.Application) error {
	if pgErr.ConstraintName == formNumberIndex {
		return fmt.Errorf("%w: form number %s is already in use", apperrors.ErrDuplicate, m.FormNumber)
	}
	return fmt.Errorf("%w: application with ID %s already exists", apperrors.ErrDuplicate, m.ApplicationID)
}

// FindApplicationByID loads the application row together with its documents
// and history from one consistent read.
func (r *PgxApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	var app *domain.Application
	err := readSnapshot(ctx, r.reads, func(q querier) error {
		var m models.Application
		err := scanApplication(q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE application_id = $1;`, applicationID), &m)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: application %s", apperrors.ErrNotFound, applicationID)
			}
			return persistenceError("failed to find application "+applicationID, err)
		}

		apps, err := attachChildren(ctx, q, []models.Application{m})
		if err != nil {
			return err
		}
		app = &apps[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// SaveApplication updates the row only if the stored version still matches, then
// appends the new tails of documents and history in the same transaction.
func (r *PgxApplicationRepository) SaveApplication(ctx context.Context, app domain.Application, expectedVersion int64) (*domain.Application, error) {
	m := mapping.ToModelApplication(app)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // ignored once committed

	tag, err := tx.Exec(ctx, `
		UPDATE applications
		SET form_number = $3, current_stage = $4, status = $5, rejected = $6, rejection_reason = NULLIF($7, ''),
		    fields = $8, version = version + 1, last_updated_at = $9, last_updated_by = $10
		WHERE application_id = $1 AND version = $2;
	`,
		m.ApplicationID,
		expectedVersion,
		m.FormNumber,
		m.CurrentStage,
		m.Status,
		m.Rejected,
		m.RejectionReason,
		m.Fields,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, persistenceError("failed to update application "+m.ApplicationID, err)
	}
	if tag.RowsAffected() == 0 {
		var current int64
		err := tx.QueryRow(ctx, `SELECT version FROM applications WHERE application_id = $1;`, m.ApplicationID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: application %s", apperrors.ErrNotFound, m.ApplicationID)
		}
		if err != nil {
			return nil, persistenceError("failed to read version of application "+m.ApplicationID, err)
		}
		return nil, fmt.Errorf("%w: application %s is at version %d, expected %d", apperrors.ErrConflict, m.ApplicationID, current, expectedVersion)
	}

	historyCount, docCounts, err := childCounts(ctx, tx, m.ApplicationID)
	if err != nil {
		return nil, err
	}
	if len(app.StatusHistory) < historyCount {
		return nil, fmt.Errorf("%w: status history of %s cannot shrink", apperrors.ErrValidation, m.ApplicationID)
	}
	for kind, n := range docCounts {
		if len(app.Documents[domain.DocumentKind(kind)]) < n {
			return nil, fmt.Errorf("%w: %s documents of %s cannot shrink", apperrors.ErrValidation, kind, m.ApplicationID)
		}
	}

	if err := insertDocuments(ctx, tx, app, docCounts); err != nil {
		return nil, err
	}
	if err := insertHistory(ctx, tx, app, historyCount); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	saved := app.Clone()
	saved.Version = expectedVersion + 1
	return saved, nil
}

// ListApplications retrieves a page of applications ordered by (created_at, application_id) descending.
func (r *PgxApplicationRepository) ListApplications(ctx context.Context, filter domain.ApplicationFilter, limit int, nextToken *string) ([]domain.Application, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var conds []string
	var args []any
	if filter.Stage != "" {
		args = append(args, string(filter.Stage))
		conds = append(conds, "current_stage = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastCreatedAt, lastID)
		conds = append(conds, fmt.Sprintf("(created_at, application_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, fetchLimit)
	query += " ORDER BY created_at DESC, application_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	var apps []domain.Application
	var nextTokenVal *string
	err := readSnapshot(ctx, r.reads, func(q querier) error {
		rowsOut, err := queryApplications(ctx, q, query, args)
		if err != nil {
			return err
		}
		if len(rowsOut) > limit {
			last := rowsOut[limit-1]
			token := pagination.EncodeToken(last.CreatedAt, last.ApplicationID)
			nextTokenVal = &token
			rowsOut = rowsOut[:limit]
		}
		apps, err = attachChildren(ctx, q, rowsOut)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return apps, nextTokenVal, nil
}

func queryApplications(ctx context.Context, q querier, query string, args []any) ([]models.Application, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("failed to query applications", err)
	}
	defer rows.Close()

	out := make([]models.Application, 0)
	for rows.Next() {
		var m models.Application
		if err := scanApplication(rows, &m); err != nil {
			return nil, persistenceError("failed to scan application row", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("error iterating application rows", err)
	}
	return out, nil
}

func scanApplication(row pgx.Row, m *models.Application) error {
	return row.Scan(
		&m.ApplicationID,
		&m.FormNumber,
		&m.CurrentStage,
		&m.Status,
		&m.Rejected,
		&m.RejectionReason,
		&m.Fields,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
}

// attachChildren loads documents and history for the given rows in two queries.
// q must be the same transaction the rows were read in.
func attachChildren(ctx context.Context, q querier, rows []models.Application) ([]domain.Application, error) {
	if len(rows) == 0 {
		return []domain.Application{}, nil
	}
	ids := make([]string, len(rows))
	for i, m := range rows {
		ids[i] = m.ApplicationID
	}

	docs := make(map[string][]models.ApplicationDocument, len(rows))
	docRows, err := q.Query(ctx, `
		SELECT document_id, application_id, kind, position, url, storage_key, uploaded_at, uploaded_by
		FROM application_documents
		WHERE application_id = ANY($1);
	`, ids)
	if err != nil {
		return nil, persistenceError("failed to query application documents", err)
	}
	for docRows.Next() {
		var d models.ApplicationDocument
		if err := docRows.Scan(&d.DocumentID, &d.ApplicationID, &d.Kind, &d.Position, &d.URL, &d.StorageKey, &d.UploadedAt, &d.UploadedBy); err != nil {
			docRows.Close()
			return nil, persistenceError("failed to scan application document", err)
		}
		docs[d.ApplicationID] = append(docs[d.ApplicationID], d)
	}
	docRows.Close()
	if err := docRows.Err(); err != nil {
		return nil, persistenceError("error iterating application documents", err)
	}

	history := make(map[string][]models.StatusHistoryEntry, len(rows))
	histRows, err := q.Query(ctx, `
		SELECT entry_id, application_id, sequence, stage, event, entered_at, actor, notes
		FROM application_status_history
		WHERE application_id = ANY($1);
	`, ids)
	if err != nil {
		return nil, persistenceError("failed to query status history", err)
	}
	for histRows.Next() {
		var h models.StatusHistoryEntry
		if err := histRows.Scan(&h.EntryID, &h.ApplicationID, &h.Sequence, &h.Stage, &h.Event, &h.EnteredAt, &h.Actor, &h.Notes); err != nil {
			histRows.Close()
			return nil, persistenceError("failed to scan status history entry", err)
		}
		history[h.ApplicationID] = append(history[h.ApplicationID], h)
	}
	histRows.Close()
	if err := histRows.Err(); err != nil {
		return nil, persistenceError("error iterating status history", err)
	}

	out := make([]domain.Application, len(rows))
	for i, m := range rows {
		out[i] = mapping.ToDomainApplication(m, docs[m.ApplicationID], history[m.ApplicationID])
	}
	return out, nil
}

func childCounts(ctx context.Context, q querier, applicationID string) (int, map[string]int, error) {
	var historyCount int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM application_status_history WHERE application_id = $1;`, applicationID).Scan(&historyCount); err != nil {
		return 0, nil, persistenceError("failed to count status history", err)
	}

	rows, err := q.Query(ctx, `SELECT kind, COUNT(*) FROM application_documents WHERE application_id = $1 GROUP BY kind;`, applicationID)
	if err != nil {
		return 0, nil, persistenceError("failed to count application documents", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return 0, nil, persistenceError("failed to scan document count", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return 0, nil, persistenceError("error iterating document counts", err)
	}
	return historyCount, counts, nil
}

// insertDocuments writes every reference past the already stored count of its kind.
func insertDocuments(ctx context.Context, q querier, app domain.Application, stored map[string]int) error {
	for kind, refs := range app.Documents {
		for pos := stored[string(kind)]; pos < len(refs); pos++ {
			d := mapping.ToModelDocument(app.ApplicationID, kind, pos, refs[pos])
			_, err := q.Exec(ctx, `
				INSERT INTO application_documents (document_id, application_id, kind, position, url, storage_key, uploaded_at, uploaded_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
			`, d.DocumentID, d.ApplicationID, d.Kind, d.Position, d.URL, d.StorageKey, d.UploadedAt, d.UploadedBy)
			if err != nil {
				return persistenceError("failed to insert document for application "+app.ApplicationID, err)
			}
		}
	}
	return nil
}

// insertHistory writes history entries from index `from` onwards.
func insertHistory(ctx context.Context, q querier, app domain.Application, from int) error {
	for seq := from; seq < len(app.StatusHistory); seq++ {
		h := mapping.ToModelStatusHistoryEntry(app.ApplicationID, seq, app.StatusHistory[seq])
		_, err := q.Exec(ctx, `
			INSERT INTO application_status_history (entry_id, application_id, sequence, stage, event, entered_at, actor, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, h.EntryID, h.ApplicationID, h.Sequence, h.Stage, h.Event, h.EnteredAt, h.Actor, h.Notes)
		if err != nil {
			return persistenceError("failed to insert status history for application "+app.ApplicationID, err)
		}
	}
	return nil
}
