package lifecycle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	"github.com/google/uuid"
)

// Payload carries the stage-specific data submitted with a completion.
// Fields overwrite, documents append.
type Payload struct {
	Fields    map[domain.FieldKey]string
	Documents map[domain.DocumentKind][]domain.DocumentRef
}

// FieldCheck validates submitted field values. It runs only once the
// application is known to be open, in the named stage, and owning every key.
type FieldCheck func(fields map[domain.FieldKey]string) error

// CompleteCommand asks the engine to complete the application's current stage.
type CompleteCommand struct {
	Stage      domain.StageID
	Payload    Payload
	Actor      string
	Notes      string
	At         time.Time
	CheckField FieldCheck
}

// RejectCommand asks the engine to reject the application.
type RejectCommand struct {
	Reason string
	Actor  string
	At     time.Time
}

// Outcome is an accepted transition: the candidate snapshot to persist and
// the side effects to dispatch once it is persisted.
type Outcome struct {
	Application *domain.Application
	Effects     []domain.Effect
}

// Engine computes transitions. It never mutates the snapshot it is given.
type Engine struct {
	registry *Registry
	newID    func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator overrides how history entry and document IDs are produced.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an engine over reg.
func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	e := &Engine{registry: reg, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine was built with.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Complete validates and applies a stage completion.
func (e *Engine) Complete(app *domain.Application, cmd CompleteCommand) (*Outcome, error) {
	if app == nil {
		return nil, fmt.Errorf("%w: application", apperrors.ErrNotFound)
	}
	if app.IsTerminal() {
		return nil, fmt.Errorf("%w: application %s is %s", apperrors.ErrAlreadyTerminal, app.ApplicationID, strings.ToLower(app.Status()))
	}
	def, err := e.registry.GetStage(cmd.Stage)
	if err != nil {
		return nil, err
	}
	if app.CurrentStage != def.ID {
		return nil, fmt.Errorf("%w: application %s is in stage %s, not %s", apperrors.ErrWrongStage, app.ApplicationID, app.CurrentStage, def.ID)
	}
	if err := checkOwnership(def, cmd.Payload); err != nil {
		return nil, err
	}
	if cmd.CheckField != nil {
		if err := cmd.CheckField(cmd.Payload.Fields); err != nil {
			return nil, err
		}
	}

	at := e.entryTime(app, cmd.At)
	candidate := app.Clone()
	e.merge(candidate, cmd.Payload, cmd.Actor, at)

	if eval := e.registry.Evaluate(candidate, def.ID); !eval.Satisfied {
		return nil, apperrors.NewPreconditionError(string(def.ID), eval.Missing)
	}

	event := domain.EventCompleted
	eventName := domain.EventNameStageCompleted
	if def.IsFinal() {
		candidate.CurrentStage = domain.StageApproved
		event = domain.EventApproved
		eventName = domain.EventNameApproved
	} else {
		candidate.CurrentStage = *def.NextStage
	}

	candidate.StatusHistory = append(candidate.StatusHistory, domain.StatusHistoryEntry{
		EntryID:   e.newID(),
		Stage:     candidate.CurrentStage,
		Event:     event,
		EnteredAt: at,
		Actor:     cmd.Actor,
		Notes:     strings.TrimSpace(cmd.Notes),
	})
	candidate.LastUpdatedAt = at
	candidate.LastUpdatedBy = cmd.Actor

	effects := []domain.Effect{{
		Kind:          domain.EffectNotifyDownstream,
		Event:         eventName,
		ApplicationID: candidate.ApplicationID,
		Stage:         def.ID,
		NextStage:     candidate.CurrentStage,
		Status:        candidate.Status(),
		Actor:         cmd.Actor,
		OccurredAt:    at,
	}}
	for _, kind := range def.Effects {
		if kind == domain.EffectScheduleEvent {
			effects = append(effects, pickupEffect(candidate, def.ID, cmd.Actor, at))
		}
	}

	return &Outcome{Application: candidate, Effects: effects}, nil
}

// Reject moves a non-terminal application to the rejected state. The current
// stage is frozen; the history entry is recorded against it.
func (e *Engine) Reject(app *domain.Application, cmd RejectCommand) (*Outcome, error) {
	if app == nil {
		return nil, fmt.Errorf("%w: application", apperrors.ErrNotFound)
	}
	if app.IsTerminal() {
		return nil, fmt.Errorf("%w: application %s is %s", apperrors.ErrAlreadyTerminal, app.ApplicationID, strings.ToLower(app.Status()))
	}
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	at := e.entryTime(app, cmd.At)
	candidate := app.Clone()
	candidate.Rejected = true
	candidate.RejectionReason = reason
	candidate.StatusHistory = append(candidate.StatusHistory, domain.StatusHistoryEntry{
		EntryID:   e.newID(),
		Stage:     candidate.CurrentStage,
		Event:     domain.EventRejected,
		EnteredAt: at,
		Actor:     cmd.Actor,
		Notes:     reason,
	})
	candidate.LastUpdatedAt = at
	candidate.LastUpdatedBy = cmd.Actor

	return &Outcome{
		Application: candidate,
		Effects: []domain.Effect{{
			Kind:          domain.EffectNotifyDownstream,
			Event:         domain.EventNameRejected,
			ApplicationID: candidate.ApplicationID,
			Stage:         candidate.CurrentStage,
			Status:        candidate.Status(),
			Actor:         cmd.Actor,
			OccurredAt:    at,
			Attributes:    map[string]string{"reason": reason},
		}},
	}, nil
}

// AttachDocument appends a resolved document reference outside of a stage
// completion. The stage does not move and no history entry is written.
func (e *Engine) AttachDocument(app *domain.Application, kind domain.DocumentKind, ref domain.DocumentRef, actor string, at time.Time) (*domain.Application, error) {
	if app == nil {
		return nil, fmt.Errorf("%w: application", apperrors.ErrNotFound)
	}
	if app.IsTerminal() {
		return nil, fmt.Errorf("%w: application %s is %s", apperrors.ErrAlreadyTerminal, app.ApplicationID, strings.ToLower(app.Status()))
	}
	if !domain.IsKnownDocumentKind(kind) {
		return nil, fmt.Errorf("%w: unknown document kind %s", apperrors.ErrValidation, kind)
	}
	if ref.IsEmpty() {
		return nil, fmt.Errorf("%w: document reference needs a url or storage key", apperrors.ErrValidation)
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	candidate := app.Clone()
	e.merge(candidate, Payload{Documents: map[domain.DocumentKind][]domain.DocumentRef{kind: {ref}}}, actor, at)
	candidate.LastUpdatedAt = at
	candidate.LastUpdatedBy = actor
	return candidate, nil
}

// entryTime keeps history timestamps non-decreasing even if clocks drift.
func (e *Engine) entryTime(app *domain.Application, at time.Time) time.Time {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if last, ok := app.LastHistoryEntry(); ok && at.Before(last.EnteredAt) {
		return last.EnteredAt
	}
	return at
}

func (e *Engine) merge(candidate *domain.Application, p Payload, actor string, at time.Time) {
	for key, value := range p.Fields {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		candidate.Fields[key] = value
	}
	for kind, refs := range p.Documents {
		for _, ref := range refs {
			if ref.DocumentID == "" {
				ref.DocumentID = e.newID()
			}
			if ref.UploadedAt.IsZero() {
				ref.UploadedAt = at
			}
			if ref.UploadedBy == "" {
				ref.UploadedBy = actor
			}
			candidate.Documents[kind] = append(candidate.Documents[kind], ref)
		}
	}
}

func checkOwnership(def StageDefinition, p Payload) error {
	var foreign []string
	for key := range p.Fields {
		if !def.OwnsField(key) {
			foreign = append(foreign, string(key))
		}
	}
	for kind, refs := range p.Documents {
		if !def.OwnsDocument(kind) {
			foreign = append(foreign, string(kind))
			continue
		}
		for _, ref := range refs {
			if ref.IsEmpty() {
				return fmt.Errorf("%w: empty %s document reference", apperrors.ErrValidation, kind)
			}
		}
	}
	if len(foreign) > 0 {
		sort.Strings(foreign)
		return fmt.Errorf("%w: stage %s does not accept %s", apperrors.ErrValidation, def.ID, strings.Join(foreign, ", "))
	}
	return nil
}

var pickupDateLayouts = []string{"2006-01-02", time.RFC3339}
var pickupTimeLayouts = []string{"15:04", "15:04:05"}

func pickupEffect(app *domain.Application, stage domain.StageID, actor string, at time.Time) domain.Effect {
	eff := domain.Effect{
		Kind:          domain.EffectScheduleEvent,
		Event:         domain.EventNameFilePickup,
		ApplicationID: app.ApplicationID,
		Stage:         stage,
		NextStage:     app.CurrentStage,
		Status:        app.Status(),
		Actor:         actor,
		OccurredAt:    at,
		Attributes: map[string]string{
			string(domain.FieldAgentID):        app.Field(domain.FieldAgentID),
			string(domain.FieldCollectionDate): app.Field(domain.FieldCollectionDate),
			string(domain.FieldCollectionTime): app.Field(domain.FieldCollectionTime),
		},
	}
	if when, ok := ParsePickupTime(app.Field(domain.FieldCollectionDate), app.Field(domain.FieldCollectionTime)); ok {
		eff.ScheduledFor = &when
	}
	return eff
}

// ParsePickupTime combines a collection date and clock time into one UTC instant.
func ParsePickupTime(date, clock string) (time.Time, bool) {
	var day time.Time
	var err error
	for _, layout := range pickupDateLayouts {
		if day, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false
	}
	var tod time.Time
	for _, layout := range pickupTimeLayouts {
		if tod, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC), true
}
