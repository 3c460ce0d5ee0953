package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/refinance_review_app/internal/core/ports/services"
	"github.com/SscSPs/refinance_review_app/internal/dto"
	"github.com/google/uuid"
)

const maxListLimit = 100

// applicationService implements queries, intake and document recording.
type applicationService struct {
	*transitionService
}

// NewApplicationService creates the application service. Options are shared
// with the transition service so both see the same engine, clock and timeout.
func NewApplicationService(repo portsrepo.ApplicationRepositoryFacade, options ...TransitionOption) portssvc.ApplicationSvcFacade {
	return &applicationService{transitionService: newTransitionService(repo, options...)}
}

// Ensure applicationService implements the ApplicationSvcFacade interface
var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

func (s *applicationService) GetApplication(ctx context.Context, applicationID string) (*domain.Application, error) {
	storeCtx, cancel := s.StoreContext(ctx)
	defer cancel()

	app, err := s.repo.FindApplicationByID(storeCtx, applicationID)
	if err != nil {
		err = s.StoreError(err)
		s.logRejection(ctx, err, "Failed to load application", slog.String("application_id", applicationID))
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context, filter domain.ApplicationFilter, limit int, nextToken *string) ([]domain.Application, *string, error) {
	if filter.Stage != "" && filter.Stage != domain.StageApproved {
		if _, err := s.engine.Registry().GetStage(filter.Stage); err != nil {
			return nil, nil, fmt.Errorf("%w: unknown stage filter %s", apperrors.ErrValidation, filter.Stage)
		}
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	storeCtx, cancel := s.StoreContext(ctx)
	defer cancel()

	apps, next, err := s.repo.ListApplications(storeCtx, filter, limit, nextToken)
	if err != nil {
		err = s.StoreError(err)
		s.logRejection(ctx, err, "Failed to list applications",
			slog.String("stage", string(filter.Stage)),
			slog.String("status", filter.Status))
		return nil, nil, err
	}
	return apps, next, nil
}

func (s *applicationService) GetHistory(ctx context.Context, applicationID string) (*domain.Application, error) {
	return s.GetApplication(ctx, applicationID)
}

func (s *applicationService) CheckReadiness(ctx context.Context, applicationID string, stageID domain.StageID) (lifecycle.Evaluation, error) {
	app, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return lifecycle.Evaluation{}, err
	}
	if stageID == "" {
		if app.IsTerminal() {
			return lifecycle.Evaluation{}, fmt.Errorf("%w: application %s is %s", apperrors.ErrAlreadyTerminal, applicationID, strings.ToLower(app.Status()))
		}
		stageID = app.CurrentStage
	}
	if _, err := s.engine.Registry().GetStage(stageID); err != nil {
		return lifecycle.Evaluation{}, err
	}
	return s.engine.Registry().Evaluate(app, stageID), nil
}

func (s *applicationService) CreateApplication(ctx context.Context, req dto.CreateApplicationRequest, actor string) (*domain.Application, error) {
	if err := s.validateIntake(req); err != nil {
		s.logRejection(ctx, err, "Intake rejected")
		return nil, err
	}

	now := s.now()
	applicationID := uuid.NewString()
	formNumber := strings.TrimSpace(req.FormNumber)
	if formNumber == "" {
		formNumber = generateFormNumber(now, applicationID)
	}

	app := &domain.Application{
		ApplicationID: applicationID,
		FormNumber:    formNumber,
		CurrentStage:  s.engine.Registry().InitialStage(),
		Fields:        make(map[domain.FieldKey]string),
		Documents:     make(map[domain.DocumentKind][]domain.DocumentRef),
		StatusHistory: []domain.StatusHistoryEntry{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	for key, value := range dto.ToFieldMap(req.Fields) {
		if value = strings.TrimSpace(value); value != "" {
			app.Fields[key] = value
		}
	}

	// Documents go through the engine so they get IDs and upload metadata.
	kinds := make([]string, 0, len(req.Documents))
	for kind := range req.Documents {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		for _, r := range req.Documents[kind] {
			ref := domain.DocumentRef{URL: r.URL, StorageKey: r.StorageKey}
			next, err := s.engine.AttachDocument(app, domain.DocumentKind(kind), ref, actor, now)
			if err != nil {
				s.logRejection(ctx, err, "Intake rejected")
				return nil, err
			}
			app = next
		}
	}

	storeCtx, cancel := s.StoreContext(ctx)
	defer cancel()

	created, err := s.repo.CreateApplication(storeCtx, *app)
	if err != nil {
		err = s.StoreError(err)
		s.logRejection(ctx, err, "Failed to create application", slog.String("form_number", formNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Application created",
		slog.String("application_id", created.ApplicationID),
		slog.String("form_number", created.FormNumber))
	return created, nil
}

func (s *applicationService) RecordDocument(ctx context.Context, applicationID string, req dto.RecordDocumentRequest, actor string) (*domain.Application, error) {
	kind := domain.DocumentKind(req.Kind)
	ref := domain.DocumentRef{URL: req.URL, StorageKey: req.StorageKey}

	storeCtx, cancel := s.StoreContext(ctx)
	defer cancel()

	app, err := s.repo.FindApplicationByID(storeCtx, applicationID)
	if err != nil {
		err = s.StoreError(err)
		s.logRejection(ctx, err, "Failed to load application", slog.String("application_id", applicationID))
		return nil, err
	}

	updated, err := s.engine.AttachDocument(app, kind, ref, actor, s.now())
	if err != nil {
		s.logRejection(ctx, err, "Document rejected", slog.String("application_id", applicationID), slog.String("kind", req.Kind))
		return nil, err
	}

	saved, err := s.repo.SaveApplication(storeCtx, *updated, app.Version)
	if err != nil {
		err = s.StoreError(err)
		s.logRejection(ctx, err, "Failed to save document", slog.String("application_id", applicationID))
		return nil, err
	}

	s.LogInfo(ctx, "Document recorded",
		slog.String("application_id", applicationID),
		slog.String("kind", req.Kind))
	return saved, nil
}

// validateIntake accepts only fields owned by the intake stages, known
// document kinds, and well-formed values.
func (s *applicationService) validateIntake(req dto.CreateApplicationRequest) error {
	allowed := make(map[domain.FieldKey]bool)
	for _, key := range s.engine.Registry().IntakeFields() {
		allowed[key] = true
	}
	var foreign []string
	for key := range req.Fields {
		if !allowed[domain.FieldKey(key)] {
			foreign = append(foreign, key)
		}
	}
	for kind := range req.Documents {
		if !domain.IsKnownDocumentKind(domain.DocumentKind(kind)) {
			foreign = append(foreign, kind)
		}
	}
	if len(foreign) > 0 {
		sort.Strings(foreign)
		return fmt.Errorf("%w: intake does not accept %s", apperrors.ErrValidation, strings.Join(foreign, ", "))
	}
	return dto.ValidateFieldValues(req.Fields)
}

// generateFormNumber derives a readable reference such as RF-20250301-1A2B3C4D.
func generateFormNumber(at time.Time, applicationID string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(applicationID, "-", ""))
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("RF-%s-%s", at.Format("20060102"), suffix)
}

// stageRegistryService exposes the registry to handlers.
type stageRegistryService struct {
	registry *lifecycle.Registry
}

// NewStageRegistryService wraps reg.
func NewStageRegistryService(reg *lifecycle.Registry) portssvc.StageRegistrySvc {
	return &stageRegistryService{registry: reg}
}

func (s *stageRegistryService) ListStages(ctx context.Context) []lifecycle.StageDefinition {
	return s.registry.ListStages()
}

func (s *stageRegistryService) GetStage(ctx context.Context, stageID domain.StageID) (lifecycle.StageDefinition, error) {
	return s.registry.GetStage(stageID)
}
