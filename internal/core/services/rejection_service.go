package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/refinance_review_app/internal/core/ports/services"
	"github.com/SscSPs/refinance_review_app/internal/dto"
)

// rejectionService is the single rejection path shared by every stage.
type rejectionService struct {
	transitions *transitionService
}

// NewRejectionService creates the rejection service. It accepts the same
// options as the transition service.
func NewRejectionService(repo portsrepo.ApplicationRepositoryFacade, options ...TransitionOption) portssvc.RejectionSvc {
	return &rejectionService{transitions: newTransitionService(repo, options...)}
}

// Ensure rejectionService implements the RejectionSvc interface
var _ portssvc.RejectionSvc = (*rejectionService)(nil)

func (s *rejectionService) Reject(ctx context.Context, applicationID string, req dto.RejectApplicationRequest, actor string) (*portssvc.TransitionResult, error) {
	t := s.transitions
	result, err := t.apply(ctx, applicationID, req.ExpectedVersion, func(app *domain.Application) (*lifecycle.Outcome, error) {
		return t.engine.Reject(app, lifecycle.RejectCommand{Reason: req.Reason, Actor: actor, At: t.now()})
	})
	if err != nil {
		t.logRejection(ctx, err, "Rejection refused", slog.String("application_id", applicationID))
		return nil, err
	}

	t.LogInfo(ctx, "Application rejected",
		slog.String("application_id", applicationID),
		slog.String("stage", string(result.Application.CurrentStage)),
		slog.Int64("version", result.Application.Version))
	return result, nil
}
