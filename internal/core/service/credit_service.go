package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// CreditService checks planned calls against the balance held by the
// analytics service.
type CreditService struct {
	balances      ports.BalanceProvider
	cache         ports.BalanceCache
	ledger        ports.UsageLedger
	costPerSecond float64
	log           zerolog.Logger
}

func NewCreditService(
	balances ports.BalanceProvider,
	cache ports.BalanceCache,
	ledger ports.UsageLedger,
	costPerSecond float64,
	log zerolog.Logger,
) *CreditService {
	return &CreditService{
		balances:      balances,
		cache:         cache,
		ledger:        ledger,
		costPerSecond: costPerSecond,
		log:           log,
	}
}

// Check estimates the cost of a call of durationSeconds and compares it with
// the user's live balance. The cache is never consulted here.
func (s *CreditService) Check(ctx context.Context, userID string, durationSeconds float64) (*domain.CreditEstimate, error) {
	cost, err := domain.EstimateCost(durationSeconds, s.costPerSecond)
	if err != nil {
		return nil, err
	}

	balance, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check credits: %w", err)
	}

	est := domain.NewCreditEstimate(balance, durationSeconds, cost)
	s.log.Debug().
		Str("user_id", userID).
		Float64("duration_seconds", durationSeconds).
		Float64("estimated_cost", cost).
		Float64("balance", balance).
		Bool("sufficient", est.HasSufficientCredits).
		Msg("credit check")

	return &est, nil
}

// Balance returns the cached balance, falling back to the analytics service.
func (s *CreditService) Balance(ctx context.Context, userID string) (float64, error) {
	balance, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
	} else if ok {
		return balance, nil
	}

	balance, err = s.balances.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	if err := s.cache.Set(ctx, userID, balance); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache write failed")
	}
	return balance, nil
}

func (s *CreditService) Usage(ctx context.Context, userID string, page domain.Page) (*ports.ListResult[domain.CallUsage], error) {
	items, total, err := s.ledger.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return ports.NewListResult(items, total, page), nil
}
