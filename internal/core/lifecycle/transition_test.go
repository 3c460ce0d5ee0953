package lifecycle_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *lifecycle.Engine {
	n := 0
	return lifecycle.NewEngine(lifecycle.Default(), lifecycle.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
}

func TestComplete_KYCAdvancesToCarVerification(t *testing.T) {
	app := kycReadyApplication()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{
		Stage:   domain.StageKYC,
		Payload: lifecycle.Payload{Fields: map[domain.FieldKey]string{domain.FieldCurrentAddress: "House 4, Lahore"}},
		Actor:   "op-1",
		Notes:   "NADRA verisys approved",
		At:      at,
	})
	require.NoError(t, err)

	got := out.Application
	assert.Equal(t, domain.StageCarVerification, got.CurrentStage)
	assert.Equal(t, "Car Verification", got.Status())
	assert.Equal(t, "House 4, Lahore", got.Fields[domain.FieldCurrentAddress])
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, domain.StatusHistoryEntry{
		EntryID:   "id-1",
		Stage:     domain.StageCarVerification,
		Event:     domain.EventCompleted,
		EnteredAt: at,
		Actor:     "op-1",
		Notes:     "NADRA verisys approved",
	}, got.StatusHistory[0])

	// the input snapshot is untouched
	assert.Equal(t, domain.StageKYC, app.CurrentStage)
	assert.Empty(t, app.StatusHistory)
	assert.Empty(t, app.Fields[domain.FieldCurrentAddress])

	require.Len(t, out.Effects, 1)
	assert.Equal(t, domain.EffectNotifyDownstream, out.Effects[0].Kind)
	assert.Equal(t, domain.EventNameStageCompleted, out.Effects[0].Event)
	assert.Equal(t, domain.StageKYC, out.Effects[0].Stage)
	assert.Equal(t, domain.StageCarVerification, out.Effects[0].NextStage)
}

func TestComplete_PreconditionFailedListsMissing(t *testing.T) {
	app := &domain.Application{ApplicationID: "app-2", CurrentStage: domain.StageCarVerification}

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{Stage: domain.StageCarVerification})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
	assert.Equal(t, []string{"carVerificationPhoto"}, apperrors.MissingItems(err))
	assert.Equal(t, domain.StageCarVerification, app.CurrentStage)
}

func TestComplete_PayloadCanSatisfyPreconditions(t *testing.T) {
	app := &domain.Application{ApplicationID: "app-3", CurrentStage: domain.StageCredit}

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{
		Stage:   domain.StageCredit,
		Payload: lifecycle.Payload{Fields: map[domain.FieldKey]string{domain.FieldCreditLimit: "1500000"}},
		Actor:   "op-2",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StageContract, out.Application.CurrentStage)
	assert.Equal(t, "1500000", out.Application.Fields[domain.FieldCreditLimit])
}

func TestComplete_DocumentsAppendAndGetIdentity(t *testing.T) {
	app := &domain.Application{
		ApplicationID: "app-4",
		CurrentStage:  domain.StageCarVerification,
		Documents: map[domain.DocumentKind][]domain.DocumentRef{
			domain.DocCarVerificationPhoto: {{DocumentID: "old", URL: "https://cdn/old.jpg"}},
		},
	}
	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{
		Stage: domain.StageCarVerification,
		Payload: lifecycle.Payload{Documents: map[domain.DocumentKind][]domain.DocumentRef{
			domain.DocCarVerificationPhoto: {{URL: "https://cdn/new.jpg", StorageKey: "car/new"}},
		}},
		Actor: "op-3",
		At:    at,
	})
	require.NoError(t, err)

	refs := out.Application.Documents[domain.DocCarVerificationPhoto]
	require.Len(t, refs, 2)
	assert.Equal(t, "old", refs[0].DocumentID)
	assert.Equal(t, "id-1", refs[1].DocumentID)
	assert.Equal(t, "op-3", refs[1].UploadedBy)
	assert.Equal(t, at, refs[1].UploadedAt)
}

func TestComplete_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		app     *domain.Application
		cmd     lifecycle.CompleteCommand
		wantErr error
	}{
		{
			name:    "nil application",
			app:     nil,
			cmd:     lifecycle.CompleteCommand{Stage: domain.StageKYC},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "unknown stage",
			app:     &domain.Application{CurrentStage: domain.StageKYC},
			cmd:     lifecycle.CompleteCommand{Stage: "underwriting"},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "wrong stage",
			app:     kycReadyApplication(),
			cmd:     lifecycle.CompleteCommand{Stage: domain.StageCredit},
			wantErr: apperrors.ErrWrongStage,
		},
		{
			name:    "rejected application",
			app:     &domain.Application{CurrentStage: domain.StageCredit, Rejected: true, RejectionReason: "fraud"},
			cmd:     lifecycle.CompleteCommand{Stage: domain.StageCredit},
			wantErr: apperrors.ErrAlreadyTerminal,
		},
		{
			name:    "approved application",
			app:     &domain.Application{CurrentStage: domain.StageApproved},
			cmd:     lifecycle.CompleteCommand{Stage: domain.StageFinalReview},
			wantErr: apperrors.ErrAlreadyTerminal,
		},
		{
			name: "field owned by another stage",
			app:  &domain.Application{CurrentStage: domain.StageCredit},
			cmd: lifecycle.CompleteCommand{
				Stage:   domain.StageCredit,
				Payload: lifecycle.Payload{Fields: map[domain.FieldKey]string{domain.FieldCreditLimit: "1", domain.FieldLienStatus: "Marked"}},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "empty document reference",
			app:  &domain.Application{CurrentStage: domain.StageCarVerification},
			cmd: lifecycle.CompleteCommand{
				Stage: domain.StageCarVerification,
				Payload: lifecycle.Payload{Documents: map[domain.DocumentKind][]domain.DocumentRef{
					domain.DocCarVerificationPhoto: {{}},
				}},
			},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newTestEngine().Complete(tt.app, tt.cmd)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComplete_FieldCheckRunsAfterStateChecks(t *testing.T) {
	badFormat := fmt.Errorf("%w: invalid value for creditLimit", apperrors.ErrValidation)
	credit := kycReadyApplication()
	credit.CurrentStage = domain.StageCredit
	rejected := credit.Clone()
	rejected.Rejected = true
	rejected.RejectionReason = "income not verifiable"

	tests := []struct {
		name       string
		app        *domain.Application
		stage      domain.StageID
		fields     map[domain.FieldKey]string
		wantErr    error
		wantCalled bool
	}{
		{"missing application", nil, domain.StageCredit, map[domain.FieldKey]string{domain.FieldCreditLimit: "abc"}, apperrors.ErrNotFound, false},
		{"terminal application", rejected, domain.StageCredit, map[domain.FieldKey]string{domain.FieldCreditLimit: "abc"}, apperrors.ErrAlreadyTerminal, false},
		{"wrong stage", kycReadyApplication(), domain.StageCredit, map[domain.FieldKey]string{domain.FieldCreditLimit: "abc"}, apperrors.ErrWrongStage, false},
		{"foreign field", credit, domain.StageCredit, map[domain.FieldKey]string{domain.FieldIBAN: "x"}, apperrors.ErrValidation, false},
		{"open and owned", credit, domain.StageCredit, map[domain.FieldKey]string{domain.FieldCreditLimit: "abc"}, badFormat, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			_, err := newTestEngine().Complete(tt.app, lifecycle.CompleteCommand{
				Stage:   tt.stage,
				Payload: lifecycle.Payload{Fields: tt.fields},
				Actor:   "op-1",
				CheckField: func(fields map[domain.FieldKey]string) error {
					called = true
					assert.Equal(t, tt.fields, fields)
					return badFormat
				},
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

func TestComplete_FinalReviewApproves(t *testing.T) {
	app := &domain.Application{ApplicationID: "app-5", CurrentStage: domain.StageFinalReview}

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{Stage: domain.StageFinalReview, Actor: "op-4"})
	require.NoError(t, err)

	assert.True(t, out.Application.IsApproved())
	assert.Equal(t, "Approved", out.Application.Status())
	require.Len(t, out.Application.StatusHistory, 1)
	assert.Equal(t, domain.StageApproved, out.Application.StatusHistory[0].Stage)
	assert.Equal(t, domain.EventApproved, out.Application.StatusHistory[0].Event)
	assert.Equal(t, domain.EventNameApproved, out.Effects[0].Event)
}

func TestComplete_CollectionSchedulesPickup(t *testing.T) {
	app := &domain.Application{
		ApplicationID: "app-6",
		CurrentStage:  domain.StageCollection,
		Documents: map[domain.DocumentKind][]domain.DocumentRef{
			domain.DocBankStatement:    {{URL: "https://cdn/statement.pdf"}},
			domain.DocRegistrationBook: {{URL: "https://cdn/book.pdf"}},
		},
	}

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{
		Stage: domain.StageCollection,
		Payload: lifecycle.Payload{Fields: map[domain.FieldKey]string{
			domain.FieldAgentID:        "agent-9",
			domain.FieldCollectionDate: "2025-03-10",
			domain.FieldCollectionTime: "14:30",
		}},
	})
	require.NoError(t, err)

	require.Len(t, out.Effects, 2)
	pickup := out.Effects[1]
	assert.Equal(t, domain.EffectScheduleEvent, pickup.Kind)
	assert.Equal(t, domain.EventNameFilePickup, pickup.Event)
	assert.Equal(t, "agent-9", pickup.Attributes["agentId"])
	require.NotNil(t, pickup.ScheduledFor)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), *pickup.ScheduledFor)
}

func TestReject_FreezesStage(t *testing.T) {
	app := &domain.Application{ApplicationID: "app-7", CurrentStage: domain.StageCredit}

	out, err := newTestEngine().Reject(app, lifecycle.RejectCommand{Reason: "  insufficient income ", Actor: "op-5"})
	require.NoError(t, err)

	got := out.Application
	assert.True(t, got.Rejected)
	assert.Equal(t, "insufficient income", got.RejectionReason)
	assert.Equal(t, domain.StageCredit, got.CurrentStage)
	assert.Equal(t, "Rejected", got.Status())
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, domain.StageCredit, got.StatusHistory[0].Stage)
	assert.Equal(t, domain.EventRejected, got.StatusHistory[0].Event)
	assert.Equal(t, domain.EventNameRejected, out.Effects[0].Event)
	assert.False(t, app.Rejected)
}

func TestReject_Errors(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Reject(&domain.Application{CurrentStage: domain.StageKYC}, lifecycle.RejectCommand{Reason: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = engine.Reject(&domain.Application{CurrentStage: domain.StageKYC, Rejected: true, RejectionReason: "x"}, lifecycle.RejectCommand{Reason: "again"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyTerminal)

	_, err = engine.Reject(&domain.Application{CurrentStage: domain.StageApproved}, lifecycle.RejectCommand{Reason: "late"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyTerminal)
}

func TestHistoryTimestampsNeverGoBackwards(t *testing.T) {
	later := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	app := &domain.Application{
		CurrentStage:  domain.StageFinalReview,
		StatusHistory: []domain.StatusHistoryEntry{{Stage: domain.StageFinalReview, EnteredAt: later}},
	}

	out, err := newTestEngine().Complete(app, lifecycle.CompleteCommand{Stage: domain.StageFinalReview, At: later.Add(-time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, later, out.Application.StatusHistory[1].EnteredAt)
}

func TestAttachDocument(t *testing.T) {
	engine := newTestEngine()
	app := &domain.Application{ApplicationID: "app-8", CurrentStage: domain.StageKYC}

	got, err := engine.AttachDocument(app, domain.DocCNICFront, domain.DocumentRef{URL: "https://cdn/front.jpg"}, "op-6", time.Time{})
	require.NoError(t, err)
	assert.Len(t, got.Documents[domain.DocCNICFront], 1)
	assert.Empty(t, got.StatusHistory)
	assert.Equal(t, domain.StageKYC, got.CurrentStage)

	_, err = engine.AttachDocument(app, "selfieVideo", domain.DocumentRef{URL: "x"}, "op-6", time.Time{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = engine.AttachDocument(app, domain.DocPhoto, domain.DocumentRef{}, "op-6", time.Time{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = engine.AttachDocument(&domain.Application{Rejected: true, RejectionReason: "x"}, domain.DocPhoto, domain.DocumentRef{URL: "x"}, "op-6", time.Time{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyTerminal)
}

func TestParsePickupTime(t *testing.T) {
	when, ok := lifecycle.ParsePickupTime("2025-03-10T00:00:00Z", "09:15:30")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 15, 30, 0, time.UTC), when)

	_, ok = lifecycle.ParsePickupTime("10/03/2025", "09:15")
	assert.False(t, ok)

	_, ok = lifecycle.ParsePickupTime("2025-03-10", "nine")
	assert.False(t, ok)
}
