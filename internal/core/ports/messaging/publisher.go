package messaging

import (
	"context"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
)

// EffectPublisher dispatches side effects of committed transitions to
// downstream consumers (notifications, pickup scheduling).
type EffectPublisher interface {
	Publish(ctx context.Context, effects ...domain.Effect) error
	Close() error
}
