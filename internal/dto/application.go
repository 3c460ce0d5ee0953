package dto

import (
	"time"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
)

// DocumentRefRequest is a resolved reference to an already uploaded document.
type DocumentRefRequest struct {
	URL        string `json:"url" binding:"omitempty,url"`
	StorageKey string `json:"storageKey" binding:"max=512"`
}

// CreateApplicationRequest defines the data needed to open an application at intake.
// Only KYC and vehicle fields are accepted here.
type CreateApplicationRequest struct {
	FormNumber string                          `json:"formNumber" binding:"omitempty,max=64"` // Optional, generated when empty
	Fields     map[string]string               `json:"fields"`
	Documents  map[string][]DocumentRefRequest `json:"documents" binding:"omitempty,dive,dive"`
}

// RecordDocumentRequest records one document reference outside of a stage completion.
type RecordDocumentRequest struct {
	Kind       string `json:"kind" binding:"required"`
	URL        string `json:"url" binding:"omitempty,url"`
	StorageKey string `json:"storageKey" binding:"max=512"`
}

// CompleteStageRequest carries the stage payload submitted with a completion.
type CompleteStageRequest struct {
	Fields          map[string]string               `json:"fields"`
	Documents       map[string][]DocumentRefRequest `json:"documents" binding:"omitempty,dive,dive"`
	Notes           string                          `json:"notes" binding:"max=2000"`
	ExpectedVersion *int64                          `json:"expectedVersion"` // Optional: reject if the snapshot moved on
}

// RejectApplicationRequest carries the rejection reason.
type RejectApplicationRequest struct {
	Reason          string `json:"reason" binding:"max=2000"`
	ExpectedVersion *int64 `json:"expectedVersion"`
}

// ListApplicationsParams defines query parameters for listing applications.
type ListApplicationsParams struct {
	Stage     string `form:"stage"`
	Status    string `form:"status"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ReadinessParams selects the stage to evaluate; defaults to the current stage.
type ReadinessParams struct {
	Stage string `form:"stage"`
}

// DocumentRefResponse mirrors domain.DocumentRef.
type DocumentRefResponse struct {
	DocumentID string    `json:"documentID"`
	URL        string    `json:"url"`
	StorageKey string    `json:"storageKey,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy"`
}

// StatusHistoryEntryResponse mirrors domain.StatusHistoryEntry.
type StatusHistoryEntryResponse struct {
	EntryID   string    `json:"entryID"`
	Stage     string    `json:"stage"`
	Label     string    `json:"label"`
	Event     string    `json:"event"`
	EnteredAt time.Time `json:"enteredAt"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
}

// ApplicationResponse is the full application snapshot.
type ApplicationResponse struct {
	ApplicationID   string                           `json:"applicationID"`
	FormNumber      string                           `json:"formNumber"`
	CurrentStage    string                           `json:"currentStage"`
	Status          string                           `json:"status"`
	Rejected        bool                             `json:"rejected"`
	RejectionReason string                           `json:"rejectionReason,omitempty"`
	Fields          map[string]string                `json:"fields"`
	Documents       map[string][]DocumentRefResponse `json:"documents"`
	StatusHistory   []StatusHistoryEntryResponse     `json:"statusHistory"`
	Version         int64                            `json:"version"`
	CreatedAt       time.Time                        `json:"createdAt"`
	CreatedBy       string                           `json:"createdBy"`
	LastUpdatedAt   time.Time                        `json:"lastUpdatedAt"`
	LastUpdatedBy   string                           `json:"lastUpdatedBy"`
}

// ApplicationSummaryResponse is one row of the applications table.
type ApplicationSummaryResponse struct {
	ApplicationID      string    `json:"applicationID"`
	FormNumber         string    `json:"formNumber"`
	ApplicantName      string    `json:"applicantName"`
	RegistrationNumber string    `json:"registrationNumber"`
	CurrentStage       string    `json:"currentStage"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	LastUpdatedAt      time.Time `json:"lastUpdatedAt"`
}

// ListApplicationsResponse is a page of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationSummaryResponse `json:"applications"`
	NextToken    *string                      `json:"nextToken,omitempty"`
}

// HistoryResponse is the status timeline of an application.
type HistoryResponse struct {
	ApplicationID string                       `json:"applicationID"`
	Status        string                       `json:"status"`
	Entries       []StatusHistoryEntryResponse `json:"entries"`
}

// ReadinessResponse reports whether a stage can be completed right now.
type ReadinessResponse struct {
	ApplicationID string   `json:"applicationID"`
	Stage         string   `json:"stage"`
	Satisfied     bool     `json:"satisfied"`
	Missing       []string `json:"missing"`
}

// StageResponse describes one registry stage.
type StageResponse struct {
	ID                string   `json:"id"`
	DisplayLabel      string   `json:"displayLabel"`
	RequiredDocuments []string `json:"requiredDocuments"`
	RequiredFields    []string `json:"requiredFields"`
	NextStage         string   `json:"nextStage"`
	Final             bool     `json:"final"`
}

// ErrorResponse is the structured error body of every failed call.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Missing []string `json:"missing,omitempty"`
}

// ToDocumentMap converts request references to domain references keyed by kind.
func ToDocumentMap(in map[string][]DocumentRefRequest) map[domain.DocumentKind][]domain.DocumentRef {
	if len(in) == 0 {
		return nil
	}
	out := make(map[domain.DocumentKind][]domain.DocumentRef, len(in))
	for kind, refs := range in {
		for _, r := range refs {
			out[domain.DocumentKind(kind)] = append(out[domain.DocumentKind(kind)], domain.DocumentRef{URL: r.URL, StorageKey: r.StorageKey})
		}
	}
	return out
}

// ToFieldMap converts request fields to domain field keys.
func ToFieldMap(in map[string]string) map[domain.FieldKey]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[domain.FieldKey]string, len(in))
	for k, v := range in {
		out[domain.FieldKey(k)] = v
	}
	return out
}

// ToApplicationResponse converts a domain.Application to its response DTO.
func ToApplicationResponse(app *domain.Application) ApplicationResponse {
	fields := make(map[string]string, len(app.Fields))
	for k, v := range app.Fields {
		fields[string(k)] = v
	}
	docs := make(map[string][]DocumentRefResponse, len(app.Documents))
	for kind, refs := range app.Documents {
		out := make([]DocumentRefResponse, len(refs))
		for i, r := range refs {
			out[i] = DocumentRefResponse{
				DocumentID: r.DocumentID,
				URL:        r.URL,
				StorageKey: r.StorageKey,
				UploadedAt: r.UploadedAt,
				UploadedBy: r.UploadedBy,
			}
		}
		docs[string(kind)] = out
	}
	return ApplicationResponse{
		ApplicationID:   app.ApplicationID,
		FormNumber:      app.FormNumber,
		CurrentStage:    string(app.CurrentStage),
		Status:          app.Status(),
		Rejected:        app.Rejected,
		RejectionReason: app.RejectionReason,
		Fields:          fields,
		Documents:       docs,
		StatusHistory:   ToHistoryEntryResponses(app.StatusHistory),
		Version:         app.Version,
		CreatedAt:       app.CreatedAt,
		CreatedBy:       app.CreatedBy,
		LastUpdatedAt:   app.LastUpdatedAt,
		LastUpdatedBy:   app.LastUpdatedBy,
	}
}

// ToHistoryEntryResponses converts timeline entries, labelling each stage.
func ToHistoryEntryResponses(entries []domain.StatusHistoryEntry) []StatusHistoryEntryResponse {
	out := make([]StatusHistoryEntryResponse, len(entries))
	for i, e := range entries {
		label := domain.StageLabel(e.Stage)
		if e.Event == domain.EventRejected {
			label = domain.StatusLabelRejected
		}
		out[i] = StatusHistoryEntryResponse{
			EntryID:   e.EntryID,
			Stage:     string(e.Stage),
			Label:     label,
			Event:     string(e.Event),
			EnteredAt: e.EnteredAt,
			Actor:     e.Actor,
			Notes:     e.Notes,
		}
	}
	return out
}

// ToListApplicationsResponse converts a page of applications to summaries.
func ToListApplicationsResponse(apps []domain.Application, nextToken *string) ListApplicationsResponse {
	res := ListApplicationsResponse{Applications: make([]ApplicationSummaryResponse, len(apps)), NextToken: nextToken}
	for i := range apps {
		app := &apps[i]
		res.Applications[i] = ApplicationSummaryResponse{
			ApplicationID:      app.ApplicationID,
			FormNumber:         app.FormNumber,
			ApplicantName:      app.Field(domain.FieldApplicantName),
			RegistrationNumber: app.Field(domain.FieldRegistrationNumber),
			CurrentStage:       string(app.CurrentStage),
			Status:             app.Status(),
			CreatedAt:          app.CreatedAt,
			LastUpdatedAt:      app.LastUpdatedAt,
		}
	}
	return res
}

// ToStageResponse converts a registry stage definition.
func ToStageResponse(def lifecycle.StageDefinition) StageResponse {
	res := StageResponse{
		ID:                string(def.ID),
		DisplayLabel:      def.DisplayLabel,
		RequiredDocuments: make([]string, len(def.RequiredDocuments)),
		RequiredFields:    make([]string, len(def.RequiredFields)),
		Final:             def.IsFinal(),
	}
	for i, d := range def.RequiredDocuments {
		res.RequiredDocuments[i] = string(d)
	}
	for i, f := range def.RequiredFields {
		res.RequiredFields[i] = string(f)
	}
	if def.NextStage != nil {
		res.NextStage = string(*def.NextStage)
	} else {
		res.NextStage = string(domain.StageApproved)
	}
	return res
}

// ToReadinessResponse converts an evaluator result.
func ToReadinessResponse(applicationID string, eval lifecycle.Evaluation) ReadinessResponse {
	return ReadinessResponse{
		ApplicationID: applicationID,
		Stage:         string(eval.Stage),
		Satisfied:     eval.Satisfied,
		Missing:       eval.Missing,
	}
}
