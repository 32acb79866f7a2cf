package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

type SubscriptionService struct {
	repo     ports.SubscriptionRepository
	provider ports.PaymentProvider
	log      zerolog.Logger
}

func NewSubscriptionService(repo ports.SubscriptionRepository, provider ports.PaymentProvider, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, provider: provider, log: log}
}

func (s *SubscriptionService) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// SetAutoRenew toggles renewal at the provider first, then locally.
func (s *SubscriptionService) SetAutoRenew(ctx context.Context, userID string, autoRenew bool) (*domain.Subscription, error) {
	sub, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status == domain.SubscriptionCanceled {
		return nil, fmt.Errorf("%w: subscription is canceled", domain.ErrInvalidInput)
	}
	if sub.AutoRenew == autoRenew {
		return sub, nil
	}

	if err := s.provider.SetAutoRenew(ctx, sub.ProviderSubscriptionID, autoRenew); err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}

	sub.AutoRenew = autoRenew
	sub.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.log.Info().Str("user_id", userID).Bool("auto_renew", autoRenew).Msg("subscription auto-renew changed")
	return sub, nil
}

// HandleWebhook applies a verified provider event to the local copy.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	change, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if change == nil {
		return nil
	}

	sub, err := s.repo.FindByProviderID(ctx, change.ProviderSubscriptionID)
	switch {
	case errors.Is(err, domain.ErrSubscriptionNotFound):
		if change.UserID == "" {
			s.log.Warn().Str("provider_id", change.ProviderSubscriptionID).Msg("subscription event without user metadata ignored")
			return nil
		}
		sub = &domain.Subscription{
			ID:                     change.ProviderSubscriptionID,
			UserID:                 change.UserID,
			TenantID:               change.TenantID,
			ProviderSubscriptionID: change.ProviderSubscriptionID,
		}
	case err != nil:
		return err
	}

	if change.Plan != "" {
		sub.Plan = change.Plan
	}
	sub.Status = change.Status
	sub.AutoRenew = change.AutoRenew
	sub.CurrentPeriodEnd = change.CurrentPeriodEnd
	sub.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	s.log.Info().
		Str("user_id", sub.UserID).
		Str("status", sub.Status).
		Str("plan", sub.Plan).
		Msg("subscription synced")
	return nil
}
