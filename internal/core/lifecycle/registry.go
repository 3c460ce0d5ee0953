// Package lifecycle holds the static stage registry and the pure parts of the
// application state machine: precondition evaluation and transition computation.
// Nothing in this package performs I/O.
package lifecycle

import (
	"fmt"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
)

// StageDefinition describes one review stage.
type StageDefinition struct {
	ID                domain.StageID        `json:"id"`
	DisplayLabel      string                `json:"displayLabel"`
	RequiredDocuments []domain.DocumentKind `json:"requiredDocuments"`
	RequiredFields    []domain.FieldKey     `json:"requiredFields"`
	// OwnedFields and OwnedDocuments are the keys a completion payload for
	// this stage may write.
	OwnedFields    []domain.FieldKey     `json:"ownedFields"`
	OwnedDocuments []domain.DocumentKind `json:"ownedDocuments"`
	// Effects are emitted on completion in addition to the downstream notification.
	Effects   []domain.EffectKind `json:"effects,omitempty"`
	NextStage *domain.StageID     `json:"nextStage"` // nil means completing approves the application
}

// IsFinal reports whether completing this stage approves the application.
func (d StageDefinition) IsFinal() bool {
	return d.NextStage == nil
}

// OwnsField reports whether a payload for this stage may set key.
func (d StageDefinition) OwnsField(key domain.FieldKey) bool {
	for _, k := range d.OwnedFields {
		if k == key {
			return true
		}
	}
	return false
}

// OwnsDocument reports whether a payload for this stage may append kind.
func (d StageDefinition) OwnsDocument(kind domain.DocumentKind) bool {
	for _, k := range d.OwnedDocuments {
		if k == kind {
			return true
		}
	}
	return false
}

func (d StageDefinition) clone() StageDefinition {
	c := d
	c.RequiredDocuments = append([]domain.DocumentKind(nil), d.RequiredDocuments...)
	c.RequiredFields = append([]domain.FieldKey(nil), d.RequiredFields...)
	c.OwnedFields = append([]domain.FieldKey(nil), d.OwnedFields...)
	c.OwnedDocuments = append([]domain.DocumentKind(nil), d.OwnedDocuments...)
	c.Effects = append([]domain.EffectKind(nil), d.Effects...)
	if d.NextStage != nil {
		next := *d.NextStage
		c.NextStage = &next
	}
	return c
}

// Registry is an immutable, ordered table of stage definitions.
type Registry struct {
	stages []StageDefinition
	byID   map[domain.StageID]int
}

// NewRegistry validates defs and builds a registry. The first definition is
// the intake stage; each NextStage must name a later definition.
func NewRegistry(defs []StageDefinition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: registry needs at least one stage", apperrors.ErrValidation)
	}
	r := &Registry{
		stages: make([]StageDefinition, 0, len(defs)),
		byID:   make(map[domain.StageID]int, len(defs)),
	}
	for i, d := range defs {
		if d.ID == "" || d.ID == domain.StageApproved {
			return nil, fmt.Errorf("%w: invalid stage id %q at position %d", apperrors.ErrValidation, d.ID, i)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: stage %s defined twice", apperrors.ErrValidation, d.ID)
		}
		r.byID[d.ID] = i
		r.stages = append(r.stages, d.clone())
	}
	for i, d := range r.stages {
		if d.NextStage == nil {
			continue
		}
		j, ok := r.byID[*d.NextStage]
		if !ok {
			return nil, fmt.Errorf("%w: stage %s points at unknown next stage %s", apperrors.ErrValidation, d.ID, *d.NextStage)
		}
		if j <= i {
			return nil, fmt.Errorf("%w: stage %s must advance to a later stage", apperrors.ErrValidation, d.ID)
		}
	}
	return r, nil
}

// ListStages returns the ordered stage definitions.
func (r *Registry) ListStages() []StageDefinition {
	out := make([]StageDefinition, len(r.stages))
	for i, d := range r.stages {
		out[i] = d.clone()
	}
	return out
}

// GetStage returns the definition of id, or apperrors.ErrNotFound.
func (r *Registry) GetStage(id domain.StageID) (StageDefinition, error) {
	i, ok := r.byID[id]
	if !ok {
		return StageDefinition{}, fmt.Errorf("%w: stage %s", apperrors.ErrNotFound, id)
	}
	return r.stages[i].clone(), nil
}

// InitialStage is the stage an application is created in.
func (r *Registry) InitialStage() domain.StageID {
	return r.stages[0].ID
}

// IntakeFields are the fields that may be supplied when an application is created:
// everything owned by the first two stages (applicant and vehicle data).
func (r *Registry) IntakeFields() []domain.FieldKey {
	var keys []domain.FieldKey
	for i := 0; i < len(r.stages) && i < 2; i++ {
		keys = append(keys, r.stages[i].OwnedFields...)
	}
	return keys
}

func stagePtr(id domain.StageID) *domain.StageID {
	return &id
}

var kycFields = []domain.FieldKey{
	domain.FieldApplicantName,
	domain.FieldApplicantPhone,
	domain.FieldApplicantEmail,
	domain.FieldDateOfBirth,
	domain.FieldCNICNumber,
	domain.FieldBankID,
	domain.FieldAccountTitle,
	domain.FieldIBAN,
}

var inspectionFields = []domain.FieldKey{
	domain.FieldInspectionDate,
	domain.FieldInspectionLocation,
	domain.FieldInspectorName,
	domain.FieldVehicleCondition,
	domain.FieldMileage,
	domain.FieldBodyCondition,
	domain.FieldEngineCondition,
	domain.FieldInteriorCondition,
	domain.FieldTiresCondition,
	domain.FieldAccidentHistory,
	domain.FieldEstimatedValue,
}

var collectionFields = []domain.FieldKey{
	domain.FieldAgentID,
	domain.FieldCollectionDate,
	domain.FieldCollectionTime,
}

// DefaultStages is the refinance review pipeline.
func DefaultStages() []StageDefinition {
	return []StageDefinition{
		{
			ID:                domain.StageKYC,
			RequiredDocuments: []domain.DocumentKind{domain.DocCNICFront, domain.DocCNICBack, domain.DocPhoto},
			RequiredFields:    kycFields,
			OwnedFields:       append(append([]domain.FieldKey(nil), kycFields...), domain.FieldCurrentAddress),
			OwnedDocuments:    []domain.DocumentKind{domain.DocCNICFront, domain.DocCNICBack, domain.DocPhoto},
			NextStage:         stagePtr(domain.StageCarVerification),
		},
		{
			ID:                domain.StageCarVerification,
			RequiredDocuments: []domain.DocumentKind{domain.DocCarVerificationPhoto},
			OwnedFields: []domain.FieldKey{
				domain.FieldVehicleMake,
				domain.FieldVehicleModel,
				domain.FieldVehicleYear,
				domain.FieldRegistrationNumber,
				domain.FieldEngineNumber,
				domain.FieldChassisNumber,
			},
			OwnedDocuments: []domain.DocumentKind{domain.DocCarVerificationPhoto},
			NextStage:      stagePtr(domain.StageInspection),
		},
		{
			ID:             domain.StageInspection,
			RequiredFields: inspectionFields,
			OwnedFields:    append(append([]domain.FieldKey(nil), inspectionFields...), domain.FieldPakwheelsReportID),
			NextStage:      stagePtr(domain.StageCredit),
		},
		{
			ID:             domain.StageCredit,
			RequiredFields: []domain.FieldKey{domain.FieldCreditLimit},
			OwnedFields:    []domain.FieldKey{domain.FieldCreditLimit},
			NextStage:      stagePtr(domain.StageContract),
		},
		{
			ID:                domain.StageContract,
			RequiredDocuments: []domain.DocumentKind{domain.DocSignedContract},
			RequiredFields:    []domain.FieldKey{domain.FieldContractStatus},
			OwnedFields:       []domain.FieldKey{domain.FieldContractStatus},
			OwnedDocuments:    []domain.DocumentKind{domain.DocSignedContract},
			NextStage:         stagePtr(domain.StageCollection),
		},
		{
			ID:                domain.StageCollection,
			RequiredDocuments: []domain.DocumentKind{domain.DocBankStatement, domain.DocRegistrationBook},
			RequiredFields:    collectionFields,
			OwnedFields:       collectionFields,
			OwnedDocuments:    []domain.DocumentKind{domain.DocBankStatement, domain.DocRegistrationBook},
			Effects:           []domain.EffectKind{domain.EffectScheduleEvent},
			NextStage:         stagePtr(domain.StageLienMarking),
		},
		{
			ID:             domain.StageLienMarking,
			RequiredFields: []domain.FieldKey{domain.FieldLienStatus},
			OwnedFields:    []domain.FieldKey{domain.FieldLienStatus},
			NextStage:      stagePtr(domain.StageInsurance),
		},
		{
			ID:             domain.StageInsurance,
			RequiredFields: []domain.FieldKey{domain.FieldHasInsurance},
			OwnedFields:    []domain.FieldKey{domain.FieldHasInsurance},
			NextStage:      stagePtr(domain.StageFinalReview),
		},
		{
			ID: domain.StageFinalReview,
		},
	}
}

var defaultRegistry = mustDefaultRegistry()

func mustDefaultRegistry() *Registry {
	defs := DefaultStages()
	for i := range defs {
		defs[i].DisplayLabel = domain.StageLabel(defs[i].ID)
	}
	r, err := NewRegistry(defs)
	if err != nil {
		panic(fmt.Sprintf("invalid default stage registry: %v", err))
	}
	return r
}

// Default returns the process-wide registry. It is built once at start-up and never modified.
func Default() *Registry {
	return defaultRegistry
}
