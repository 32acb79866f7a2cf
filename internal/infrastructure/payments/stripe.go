// Package payments adapts Stripe subscriptions to ports.PaymentProvider.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// Metadata keys set on the Stripe subscription at checkout.
const (
	metaUserID   = "user_id"
	metaTenantID = "tenant_id"
	metaPlan     = "plan"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	// BackendURL overrides the Stripe API host; tests only.
	BackendURL string
}

type StripeProvider struct {
	subs          *subscription.Client
	webhookSecret string
	log           zerolog.Logger
}

func NewStripeProvider(cfg Config, log zerolog.Logger) *StripeProvider {
	var backend stripe.Backend
	if cfg.BackendURL != "" {
		backend = stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:           stripe.String(cfg.BackendURL),
			LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
		})
	} else {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	return &StripeProvider{
		subs:          &subscription.Client{B: backend, Key: cfg.SecretKey},
		webhookSecret: cfg.WebhookSecret,
		log:           log,
	}
}

// SetAutoRenew maps auto-renew to Stripe's cancel_at_period_end.
func (p *StripeProvider) SetAutoRenew(ctx context.Context, providerSubscriptionID string, autoRenew bool) error {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(!autoRenew)}
	params.Context = ctx

	sub, err := p.subs.Update(providerSubscriptionID, params)
	if err != nil {
		return fmt.Errorf("stripe update subscription %s: %w", providerSubscriptionID, err)
	}
	p.log.Info().
		Str("subscription_id", sub.ID).
		Bool("cancel_at_period_end", sub.CancelAtPeriodEnd).
		Msg("stripe subscription updated")
	return nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes
// customer.subscription.* events. Other event types yield nil, nil.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*ports.SubscriptionChange, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe webhook: %w", err)
	}

	switch event.Type {
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
	default:
		p.log.Debug().Str("type", string(event.Type)).Msg("ignoring stripe event")
		return nil, nil
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("stripe webhook: decode subscription: %w", err)
	}

	status := mapStatus(sub.Status)
	if event.Type == "customer.subscription.deleted" {
		status = domain.SubscriptionCanceled
	}

	change := &ports.SubscriptionChange{
		ProviderSubscriptionID: sub.ID,
		UserID:                 sub.Metadata[metaUserID],
		TenantID:               sub.Metadata[metaTenantID],
		Plan:                   planOf(&sub),
		Status:                 status,
		AutoRenew:              !sub.CancelAtPeriodEnd && status != domain.SubscriptionCanceled,
	}
	if sub.CurrentPeriodEnd > 0 {
		change.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	return change, nil
}

func mapStatus(s stripe.SubscriptionStatus) string {
	switch s {
	case stripe.SubscriptionStatusActive:
		return domain.SubscriptionActive
	case stripe.SubscriptionStatusTrialing:
		return domain.SubscriptionTrialing
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return domain.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return domain.SubscriptionCanceled
	default:
		return domain.SubscriptionIncomplete
	}
}

func planOf(sub *stripe.Subscription) string {
	if plan := sub.Metadata[metaPlan]; plan != "" {
		return plan
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	price := sub.Items.Data[0].Price
	switch {
	case price.LookupKey != "":
		return price.LookupKey
	case price.Nickname != "":
		return price.Nickname
	default:
		return price.ID
	}
}
