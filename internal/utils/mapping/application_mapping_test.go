package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelApplication_DerivesStatus(t *testing.T) {
	m := ToModelApplication(domain.Application{ApplicationID: "a", CurrentStage: domain.StageCollection})
	assert.Equal(t, "Document Pending", m.Status)

	m = ToModelApplication(domain.Application{ApplicationID: "a", CurrentStage: domain.StageCollection, Rejected: true, RejectionReason: "x"})
	assert.Equal(t, "Rejected", m.Status)
}

func TestToDomainApplication_OrdersChildRows(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	row := models.Application{ApplicationID: "a", CurrentStage: "credit", Fields: map[string]string{"creditLimit": "100"}, Version: 3}
	docs := []models.ApplicationDocument{
		{DocumentID: "d2", Kind: "photo", Position: 1, URL: "u2"},
		{DocumentID: "d1", Kind: "photo", Position: 0, URL: "u1"},
	}
	history := []models.StatusHistoryEntry{
		{EntryID: "h2", Sequence: 1, Stage: "credit", Event: "completed", EnteredAt: t0.Add(time.Hour)},
		{EntryID: "h1", Sequence: 0, Stage: "inspection", Event: "completed", EnteredAt: t0},
	}

	d := ToDomainApplication(row, docs, history)

	assert.Equal(t, domain.StageCredit, d.CurrentStage)
	assert.Equal(t, int64(3), d.Version)
	assert.Equal(t, "100", d.Fields[domain.FieldCreditLimit])
	require.Len(t, d.Documents[domain.DocPhoto], 2)
	assert.Equal(t, "d2", d.Documents[domain.DocPhoto][1].DocumentID)
	require.Len(t, d.StatusHistory, 2)
	assert.Equal(t, "h1", d.StatusHistory[0].EntryID)
	assert.Equal(t, domain.EventCompleted, d.StatusHistory[1].Event)
}
