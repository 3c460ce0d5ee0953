package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	"github.com/SscSPs/refinance_review_app/internal/core/ports/messaging"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/refinance_review_app/internal/core/ports/services"
	"github.com/SscSPs/refinance_review_app/internal/dto"
)

// transitionService runs load, evaluate, save and dispatch for stage
// transitions. It holds no per-request state.
type transitionService struct {
	BaseService
	repo      portsrepo.ApplicationRepositoryFacade
	engine    *lifecycle.Engine
	publisher messaging.EffectPublisher
	now       func() time.Time
}

// TransitionOption is a functional option for configuring the transition and rejection services
type TransitionOption func(*transitionService)

// WithEngine overrides the transition engine (and with it the stage registry).
func WithEngine(engine *lifecycle.Engine) TransitionOption {
	return func(s *transitionService) {
		s.engine = engine
	}
}

// WithEffectPublisher sets where side effects are dispatched after a save.
func WithEffectPublisher(p messaging.EffectPublisher) TransitionOption {
	return func(s *transitionService) {
		s.publisher = p
	}
}

// WithPersistenceTimeout bounds each transition's store calls.
func WithPersistenceTimeout(d time.Duration) TransitionOption {
	return func(s *transitionService) {
		s.PersistenceTimeout = d
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) TransitionOption {
	return func(s *transitionService) {
		s.now = now
	}
}

func newTransitionService(repo portsrepo.ApplicationRepositoryFacade, options ...TransitionOption) *transitionService {
	svc := &transitionService{
		repo:   repo,
		engine: lifecycle.NewEngine(lifecycle.Default()),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// NewTransitionService creates the stage completion service.
func NewTransitionService(repo portsrepo.ApplicationRepositoryFacade, options ...TransitionOption) portssvc.TransitionSvc {
	return newTransitionService(repo, options...)
}

// Ensure transitionService implements the TransitionSvc interface
var _ portssvc.TransitionSvc = (*transitionService)(nil)

func (s *transitionService) CompleteStage(ctx context.Context, applicationID string, stageID domain.StageID, req dto.CompleteStageRequest, actor string) (*portssvc.TransitionResult, error) {
	logAttrs := []any{
		slog.String("application_id", applicationID),
		slog.String("stage", string(stageID)),
	}

	cmd := lifecycle.CompleteCommand{
		Stage: stageID,
		Payload: lifecycle.Payload{
			Fields:    dto.ToFieldMap(req.Fields),
			Documents: dto.ToDocumentMap(req.Documents),
		},
		Actor:      actor,
		Notes:      req.Notes,
		CheckField: dto.ValidateFieldMap,
	}

	result, err := s.apply(ctx, applicationID, req.ExpectedVersion, func(app *domain.Application) (*lifecycle.Outcome, error) {
		cmd.At = s.now()
		return s.engine.Complete(app, cmd)
	})
	if err != nil {
		s.logRejection(ctx, err, "Stage completion rejected", logAttrs...)
		return nil, err
	}

	s.LogInfo(ctx, "Stage completed", append(logAttrs,
		slog.String("current_stage", string(result.Application.CurrentStage)),
		slog.String("status", result.Application.Status()),
		slog.Int64("version", result.Application.Version))...)
	return result, nil
}

// apply loads the snapshot, computes the outcome, saves it against the loaded
// version and then dispatches the outcome's effects. Nothing is written when
// compute fails.
func (s *transitionService) apply(ctx context.Context, applicationID string, expectedVersion *int64, compute func(*domain.Application) (*lifecycle.Outcome, error)) (*portssvc.TransitionResult, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, fmt.Errorf("%w: application ID is required", apperrors.ErrValidation)
	}

	storeCtx, cancel := s.StoreContext(ctx)
	defer cancel()

	app, err := s.repo.FindApplicationByID(storeCtx, applicationID)
	if err != nil {
		return nil, s.StoreError(err)
	}
	if expectedVersion != nil && *expectedVersion != app.Version {
		return nil, fmt.Errorf("%w: application %s is at version %d, the request was based on version %d", apperrors.ErrConflict, applicationID, app.Version, *expectedVersion)
	}
	loadedVersion := app.Version

	outcome, err := compute(app)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveApplication(storeCtx, *outcome.Application, loadedVersion)
	if err != nil {
		return nil, s.StoreError(err)
	}

	s.dispatch(ctx, outcome.Effects)
	return &portssvc.TransitionResult{Application: saved, Effects: outcome.Effects}, nil
}

// dispatch publishes effects of a committed transition. Failures are logged
// and never undo the transition.
func (s *transitionService) dispatch(ctx context.Context, effects []domain.Effect) {
	if s.publisher == nil || len(effects) == 0 {
		return
	}
	pubCtx, cancel := s.StoreContext(context.WithoutCancel(ctx))
	defer cancel()
	if err := s.publisher.Publish(pubCtx, effects...); err != nil {
		s.LogError(ctx, err, "Failed to dispatch application events",
			slog.String("application_id", effects[0].ApplicationID),
			slog.Int("count", len(effects)))
	}
}
