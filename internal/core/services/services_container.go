package services

import (
	"github.com/SscSPs/refinance_review_app/internal/core/lifecycle"
	"github.com/SscSPs/refinance_review_app/internal/core/ports/messaging"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/refinance_review_app/internal/core/ports/services"
	"github.com/SscSPs/refinance_review_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher messaging.EffectPublisher) *portssvc.ServiceContainer {
	registry := lifecycle.Default()
	engine := lifecycle.NewEngine(registry)

	options := []TransitionOption{
		WithEngine(engine),
		WithEffectPublisher(publisher),
		WithPersistenceTimeout(cfg.PersistenceTimeout),
	}

	return &portssvc.ServiceContainer{
		Stages:      NewStageRegistryService(registry),
		Application: NewApplicationService(repos.ApplicationRepo, options...),
		Transition:  NewTransitionService(repos.ApplicationRepo, options...),
		Rejection:   NewRejectionService(repos.ApplicationRepo, options...),
	}
}
