package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, callID, status string) (bool, error)
	Mark(ctx context.Context, callID, status string) error
}

type callStatusService struct {
	ledger    ports.UsageLedger
	cache     ports.BalanceCache
	publisher ports.EventPublisher
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewCallStatusService returns a CallStatusService implementation.
func NewCallStatusService(
	ledger ports.UsageLedger,
	cache ports.BalanceCache,
	publisher ports.EventPublisher,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.CallStatusService {
	return &callStatusService{
		ledger:    ledger,
		cache:     cache,
		publisher: publisher,
		dedup:     dedup,
		log:       log,
	}
}

// Process records, caches and republishes a single call-status report.
func (s *callStatusService) Process(ctx context.Context, ev domain.CallStatusEvent) error {
	// 1. Idempotency check: the backend retries deliveries.
	isDup, err := s.dedup.IsDuplicate(ctx, ev.CallID, ev.Status)
	if err != nil {
		s.log.Warn().Err(err).Str("call_id", ev.CallID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("call_id", ev.CallID).Str("status", ev.Status).Msg("duplicate call status skipped")
		return nil
	}

	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now().UTC()
	}

	// 2. Ledger row is the only fatal step.
	usage := domain.CallUsage{
		CallID:           ev.CallID,
		UserID:           ev.UserID,
		DurationSeconds:  ev.Duration,
		BilledMinutes:    ev.BilledMinutes,
		RemainingCredits: ev.RemainingCredits,
		Status:           ev.Status,
		ReceivedAt:       ev.ReceivedAt,
	}
	if err := s.ledger.Record(ctx, usage); err != nil {
		return fmt.Errorf("process call status: record usage: %w", err)
	}

	if markErr := s.dedup.Mark(ctx, ev.CallID, ev.Status); markErr != nil {
		s.log.Warn().Err(markErr).Str("call_id", ev.CallID).Msg("failed to set dedup key")
	}

	// 3. The webhook carries the post-billing balance; it is authoritative.
	if err := s.cache.Set(ctx, ev.UserID, ev.RemainingCredits); err != nil {
		s.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("failed to cache balance")
	}

	// 4. Notify the sidebar.
	update := domain.CreditsUpdated{
		Type:             domain.EventCreditsUpdated,
		CallID:           ev.CallID,
		UserID:           ev.UserID,
		Duration:         ev.Duration,
		BilledMinutes:    ev.BilledMinutes,
		RemainingCredits: ev.RemainingCredits,
		Status:           ev.Status,
		OccurredAt:       ev.ReceivedAt,
	}
	if err := s.publisher.Publish(ctx, update); err != nil {
		s.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("failed to publish credits update")
	}

	s.log.Info().
		Str("call_id", ev.CallID).
		Str("user_id", ev.UserID).
		Str("status", ev.Status).
		Float64("remaining_credits", ev.RemainingCredits).
		Msg("call status processed")

	return nil
}
