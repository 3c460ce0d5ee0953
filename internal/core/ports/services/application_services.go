package services

import (
	"context"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	"github.com/SscSPs/refinance_review_app/internal/dto"
)

// TransitionResult is the refreshed snapshot of an accepted transition and
// the side effects that were dispatched for it.
type TransitionResult struct {
	Application *domain.Application
	Effects     []domain.Effect
}

// StageRegistrySvc exposes the stage registry.
type StageRegistrySvc interface {
	ListStages(ctx context.Context) []lifecycle.StageDefinition
	GetStage(ctx context.Context, stageID domain.StageID) (lifecycle.StageDefinition, error)
}

// ApplicationReaderSvc defines read operations for applications
type ApplicationReaderSvc interface {
	// GetApplication returns the latest committed snapshot.
	GetApplication(ctx context.Context, applicationID string) (*domain.Application, error)

	// ListApplications retrieves a page of applications matching filter.
	ListApplications(ctx context.Context, filter domain.ApplicationFilter, limit int, nextToken *string) ([]domain.Application, *string, error)

	// GetHistory returns the application with its status timeline.
	GetHistory(ctx context.Context, applicationID string) (*domain.Application, error)

	// CheckReadiness evaluates the preconditions of stageID, or of the current stage when empty.
	CheckReadiness(ctx context.Context, applicationID string, stageID domain.StageID) (lifecycle.Evaluation, error)
}

// ApplicationWriterSvc defines intake and document recording
type ApplicationWriterSvc interface {
	// CreateApplication opens a new application in the first stage with an empty history.
	CreateApplication(ctx context.Context, req dto.CreateApplicationRequest, actor string) (*domain.Application, error)

	// RecordDocument appends a resolved document reference without moving the stage.
	RecordDocument(ctx context.Context, applicationID string, req dto.RecordDocumentRequest, actor string) (*domain.Application, error)
}

// ApplicationSvcFacade combines all application-related service interfaces
type ApplicationSvcFacade interface {
	ApplicationReaderSvc
	ApplicationWriterSvc
}

// TransitionSvc completes stages.
type TransitionSvc interface {
	// CompleteStage completes stageID on the application if it is the current
	// stage and every precondition holds on the payload-merged snapshot.
	CompleteStage(ctx context.Context, applicationID string, stageID domain.StageID, req dto.CompleteStageRequest, actor string) (*TransitionResult, error)
}

// RejectionSvc rejects applications from any non-terminal stage.
type RejectionSvc interface {
	Reject(ctx context.Context, applicationID string, req dto.RejectApplicationRequest, actor string) (*TransitionResult, error)
}
