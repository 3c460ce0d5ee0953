package domain

import (
	"strings"
	"time"
)

// HistoryEvent tags what caused a status history entry.
type HistoryEvent string

const (
	EventCompleted HistoryEvent = "completed"
	EventApproved  HistoryEvent = "approved"
	EventRejected  HistoryEvent = "rejected"
)

// DocumentRef points at an already uploaded document. The review core never
// uploads; it only records and reads resolved references.
type DocumentRef struct {
	DocumentID string    `json:"documentID"`
	URL        string    `json:"url"`
	StorageKey string    `json:"storageKey"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy"`
}

// IsEmpty reports whether the reference points at nothing.
func (d DocumentRef) IsEmpty() bool {
	return strings.TrimSpace(d.URL) == "" && strings.TrimSpace(d.StorageKey) == ""
}

// StatusHistoryEntry is one audit timeline entry.
type StatusHistoryEntry struct {
	EntryID   string       `json:"entryID"`
	Stage     StageID      `json:"stage"`
	Event     HistoryEvent `json:"event"`
	EnteredAt time.Time    `json:"enteredAt"`
	Actor     string       `json:"actor"`
	Notes     string       `json:"notes"`
}

// Application is the aggregate root of the review pipeline.
// CurrentStage and Rejected are the only position fields; the display status
// is always derived from them by Status.
type Application struct {
	ApplicationID   string                         `json:"applicationID"`
	FormNumber      string                         `json:"formNumber"`
	CurrentStage    StageID                        `json:"currentStage"`
	Rejected        bool                           `json:"rejected"`
	RejectionReason string                         `json:"rejectionReason,omitempty"`
	Fields          map[FieldKey]string            `json:"fields"`
	Documents       map[DocumentKind][]DocumentRef `json:"documents"`
	StatusHistory   []StatusHistoryEntry           `json:"statusHistory"`
	Version         int64                          `json:"version"`
	AuditFields
}

// IsApproved reports whether the final stage has been completed.
func (a *Application) IsApproved() bool {
	return a.CurrentStage == StageApproved
}

// IsTerminal reports whether no further transitions are defined.
func (a *Application) IsTerminal() bool {
	return a.Rejected || a.IsApproved()
}

// Status returns the derived display label.
func (a *Application) Status() string {
	return StatusFor(a.CurrentStage, a.Rejected)
}

// LatestDocument returns the authoritative (most recent) reference of kind k.
func (a *Application) LatestDocument(k DocumentKind) (DocumentRef, bool) {
	refs := a.Documents[k]
	if len(refs) == 0 {
		return DocumentRef{}, false
	}
	return refs[len(refs)-1], true
}

// Field returns the trimmed value of key, or "" if unset.
func (a *Application) Field(key FieldKey) string {
	if a.Fields == nil {
		return ""
	}
	return strings.TrimSpace(a.Fields[key])
}

// LastHistoryEntry returns the most recent timeline entry.
func (a *Application) LastHistoryEntry() (StatusHistoryEntry, bool) {
	if len(a.StatusHistory) == 0 {
		return StatusHistoryEntry{}, false
	}
	return a.StatusHistory[len(a.StatusHistory)-1], true
}

// Clone returns a deep copy so a candidate can be mutated without touching
// the loaded snapshot.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	c.Fields = make(map[FieldKey]string, len(a.Fields))
	for k, v := range a.Fields {
		c.Fields[k] = v
	}
	c.Documents = make(map[DocumentKind][]DocumentRef, len(a.Documents))
	for k, refs := range a.Documents {
		cp := make([]DocumentRef, len(refs))
		copy(cp, refs)
		c.Documents[k] = cp
	}
	c.StatusHistory = make([]StatusHistoryEntry, len(a.StatusHistory))
	copy(c.StatusHistory, a.StatusHistory)
	return &c
}

// ApplicationFilter narrows a list query. Zero values match everything.
type ApplicationFilter struct {
	Stage  StageID
	Status string
}
