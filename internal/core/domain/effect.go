package domain

import "time"

// EffectKind classifies a side-effect instruction emitted by a transition.
type EffectKind string

const (
	EffectNotifyDownstream EffectKind = "notify_downstream"
	EffectScheduleEvent    EffectKind = "schedule_event"
)

// Downstream event names.
const (
	EventNameStageCompleted = "application.stage_completed"
	EventNameApproved       = "application.approved"
	EventNameRejected       = "application.rejected"
	EventNameFilePickup     = "application.file_pickup_scheduled"
)

// Effect is an instruction produced by an accepted transition. Effects are
// dispatched only after the snapshot has been persisted.
type Effect struct {
	Kind          EffectKind        `json:"kind"`
	Event         string            `json:"event"`
	ApplicationID string            `json:"applicationID"`
	Stage         StageID           `json:"stage"`
	NextStage     StageID           `json:"nextStage,omitempty"`
	Status        string            `json:"status"`
	Actor         string            `json:"actor"`
	OccurredAt    time.Time         `json:"occurredAt"`
	ScheduledFor  *time.Time        `json:"scheduledFor,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}
