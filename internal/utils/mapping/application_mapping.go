package mapping

import (
	"sort"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/models"
)

// ToModelApplication converts a domain Application to its row model. The
// status column is derived here so it can never disagree with the position.
func ToModelApplication(d domain.Application) models.Application {
	fields := make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		fields[string(k)] = v
	}
	return models.Application{
		ApplicationID:   d.ApplicationID,
		FormNumber:      d.FormNumber,
		CurrentStage:    string(d.CurrentStage),
		Status:          d.Status(),
		Rejected:        d.Rejected,
		RejectionReason: d.RejectionReason,
		Fields:          fields,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApplication assembles a domain Application from its row and child rows.
// Child rows may arrive in any order.
func ToDomainApplication(m models.Application, docs []models.ApplicationDocument, history []models.StatusHistoryEntry) domain.Application {
	d := domain.Application{
		ApplicationID:   m.ApplicationID,
		FormNumber:      m.FormNumber,
		CurrentStage:    domain.StageID(m.CurrentStage),
		Rejected:        m.Rejected,
		RejectionReason: m.RejectionReason,
		Fields:          make(map[domain.FieldKey]string, len(m.Fields)),
		Documents:       make(map[domain.DocumentKind][]domain.DocumentRef),
		StatusHistory:   make([]domain.StatusHistoryEntry, 0, len(history)),
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	for k, v := range m.Fields {
		d.Fields[domain.FieldKey(k)] = v
	}

	sorted := append([]models.ApplicationDocument(nil), docs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Position < sorted[j].Position
	})
	for _, doc := range sorted {
		kind := domain.DocumentKind(doc.Kind)
		d.Documents[kind] = append(d.Documents[kind], ToDomainDocumentRef(doc))
	}

	entries := append([]models.StatusHistoryEntry(nil), history...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Sequence < entries[j].Sequence })
	for _, e := range entries {
		d.StatusHistory = append(d.StatusHistory, ToDomainStatusHistoryEntry(e))
	}
	return d
}

// ToModelDocument converts a domain DocumentRef to a row.
func ToModelDocument(applicationID string, kind domain.DocumentKind, position int, ref domain.DocumentRef) models.ApplicationDocument {
	return models.ApplicationDocument{
		DocumentID:    ref.DocumentID,
		ApplicationID: applicationID,
		Kind:          string(kind),
		Position:      position,
		URL:           ref.URL,
		StorageKey:    ref.StorageKey,
		UploadedAt:    ref.UploadedAt,
		UploadedBy:    ref.UploadedBy,
	}
}

// ToDomainDocumentRef converts a document row to a domain DocumentRef.
func ToDomainDocumentRef(m models.ApplicationDocument) domain.DocumentRef {
	return domain.DocumentRef{
		DocumentID: m.DocumentID,
		URL:        m.URL,
		StorageKey: m.StorageKey,
		UploadedAt: m.UploadedAt,
		UploadedBy: m.UploadedBy,
	}
}

// ToModelStatusHistoryEntry converts a domain history entry to a row.
func ToModelStatusHistoryEntry(applicationID string, sequence int, e domain.StatusHistoryEntry) models.StatusHistoryEntry {
	return models.StatusHistoryEntry{
		EntryID:       e.EntryID,
		ApplicationID: applicationID,
		Sequence:      sequence,
		Stage:         string(e.Stage),
		Event:         string(e.Event),
		EnteredAt:     e.EnteredAt,
		Actor:         e.Actor,
		Notes:         e.Notes,
	}
}

// ToDomainStatusHistoryEntry converts a history row to a domain entry.
func ToDomainStatusHistoryEntry(m models.StatusHistoryEntry) domain.StatusHistoryEntry {
	return domain.StatusHistoryEntry{
		EntryID:   m.EntryID,
		Stage:     domain.StageID(m.Stage),
		Event:     domain.HistoryEvent(m.Event),
		EnteredAt: m.EnteredAt,
		Actor:     m.Actor,
		Notes:     m.Notes,
	}
}
