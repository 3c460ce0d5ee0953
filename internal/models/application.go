package models

import "time"

// Application is the `applications` row. Stage-owned fields are stored as a
// JSONB object; documents and history live in append-only child tables.
type Application struct {
	ApplicationID   string            `db:"application_id"`
	FormNumber      string            `db:"form_number"`
	CurrentStage    string            `db:"current_stage"`
	Status          string            `db:"status"` // denormalised, rewritten on every save
	Rejected        bool              `db:"rejected"`
	RejectionReason string            `db:"rejection_reason"` // Nullable
	Fields          map[string]string `db:"fields"`
	Version         int64             `db:"version"`
	AuditFields
}

// ApplicationDocument is one `application_documents` row.
type ApplicationDocument struct {
	DocumentID    string    `db:"document_id"`
	ApplicationID string    `db:"application_id"`
	Kind          string    `db:"kind"`
	Position      int       `db:"position"` // order within kind, 0-based
	URL           string    `db:"url"`
	StorageKey    string    `db:"storage_key"`
	UploadedAt    time.Time `db:"uploaded_at"`
	UploadedBy    string    `db:"uploaded_by"`
}

// StatusHistoryEntry is one `application_status_history` row.
type StatusHistoryEntry struct {
	EntryID       string    `db:"entry_id"`
	ApplicationID string    `db:"application_id"`
	Sequence      int       `db:"sequence"` // 0-based append order
	Stage         string    `db:"stage"`
	Event         string    `db:"event"`
	EnteredAt     time.Time `db:"entered_at"`
	Actor         string    `db:"actor"`
	Notes         string    `db:"notes"`
}
