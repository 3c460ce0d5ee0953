package lifecycle_test

import (
	"testing"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Order(t *testing.T) {
	stages := lifecycle.Default().ListStages()

	ids := make([]domain.StageID, len(stages))
	for i, s := range stages {
		ids[i] = s.ID
	}
	assert.Equal(t, []domain.StageID{
		domain.StageKYC,
		domain.StageCarVerification,
		domain.StageInspection,
		domain.StageCredit,
		domain.StageContract,
		domain.StageCollection,
		domain.StageLienMarking,
		domain.StageInsurance,
		domain.StageFinalReview,
	}, ids)

	for i, s := range stages {
		assert.NotEmpty(t, s.DisplayLabel, "stage %s has no label", s.ID)
		if i < len(stages)-1 {
			require.NotNil(t, s.NextStage)
			assert.Equal(t, stages[i+1].ID, *s.NextStage)
		} else {
			assert.True(t, s.IsFinal())
		}
	}
}

func TestRegistry_GetStage(t *testing.T) {
	def, err := lifecycle.Default().GetStage(domain.StageCarVerification)
	require.NoError(t, err)
	assert.Equal(t, []domain.DocumentKind{domain.DocCarVerificationPhoto}, def.RequiredDocuments)
	assert.Empty(t, def.RequiredFields)

	_, err = lifecycle.Default().GetStage("underwriting")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	reg := lifecycle.Default()
	def, err := reg.GetStage(domain.StageKYC)
	require.NoError(t, err)

	def.RequiredDocuments[0] = "tampered"
	*def.NextStage = domain.StageFinalReview

	again, err := reg.GetStage(domain.StageKYC)
	require.NoError(t, err)
	assert.Equal(t, domain.DocCNICFront, again.RequiredDocuments[0])
	assert.Equal(t, domain.StageCarVerification, *again.NextStage)
}

func TestNewRegistry_Validation(t *testing.T) {
	next := domain.StageID("b")
	back := domain.StageID("a")

	tests := []struct {
		name string
		defs []lifecycle.StageDefinition
	}{
		{name: "empty", defs: nil},
		{name: "duplicate", defs: []lifecycle.StageDefinition{{ID: "a"}, {ID: "a"}}},
		{name: "reserved id", defs: []lifecycle.StageDefinition{{ID: domain.StageApproved}}},
		{name: "unknown next", defs: []lifecycle.StageDefinition{{ID: "a", NextStage: &next}}},
		{name: "backwards edge", defs: []lifecycle.StageDefinition{{ID: "a"}, {ID: "b", NextStage: &back}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lifecycle.NewRegistry(tt.defs)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRegistry_IntakeFields(t *testing.T) {
	fields := lifecycle.Default().IntakeFields()
	assert.Contains(t, fields, domain.FieldApplicantName)
	assert.Contains(t, fields, domain.FieldRegistrationNumber)
	assert.NotContains(t, fields, domain.FieldCreditLimit)
}
