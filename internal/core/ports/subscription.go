package ports

import (
	"context"
	"time"

	"github.com/zecall/dashboard/internal/core/domain"
)

type SubscriptionRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
	FindByProviderID(ctx context.Context, providerID string) (*domain.Subscription, error)
	Upsert(ctx context.Context, s *domain.Subscription) error
}

// SubscriptionChange is a provider-side subscription state, decoded from a
// verified webhook.
type SubscriptionChange struct {
	ProviderSubscriptionID string
	UserID                 string // from provider metadata; may be empty on updates
	TenantID               string
	Plan                   string
	Status                 string
	AutoRenew              bool
	CurrentPeriodEnd       time.Time
}

// PaymentProvider is the subscription billing backend.
type PaymentProvider interface {
	SetAutoRenew(ctx context.Context, providerSubscriptionID string, autoRenew bool) error
	// ParseWebhook verifies the signature and returns nil, nil for events that do
	// not concern subscriptions.
	ParseWebhook(payload []byte, signature string) (*SubscriptionChange, error)
}

type SubscriptionService interface {
	Get(ctx context.Context, userID string) (*domain.Subscription, error)
	SetAutoRenew(ctx context.Context, userID string, autoRenew bool) (*domain.Subscription, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}
