package ports

import (
	"context"

	"github.com/zecall/dashboard/internal/core/domain"
)

// CallStatusService applies a call-status webhook: ledger, balance cache and
// event publication.
type CallStatusService interface {
	Process(ctx context.Context, event domain.CallStatusEvent) error
}

// EventPublisher fans a credits update out to the user's listeners.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.CreditsUpdated) error
}

// EventSubscriber streams a single user's credits updates until ctx is done
// or the returned close func is called.
type EventSubscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan domain.CreditsUpdated, func() error, error)
}
