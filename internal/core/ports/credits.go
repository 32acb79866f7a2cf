package ports

import (
	"context"

	"github.com/zecall/dashboard/internal/core/domain"
)

// BalanceProvider fetches the authoritative credit balance from the external
// analytics/billing service.
type BalanceProvider interface {
	Balance(ctx context.Context, userID string) (float64, error)
}

// BalanceCache holds the last balance reported for a user. ok is false on a miss.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (balance float64, ok bool, err error)
	Set(ctx context.Context, userID string, balance float64) error
}

// UsageLedger is the append-only record of billed calls.
type UsageLedger interface {
	// Record inserts the usage row, replacing a previous row for the same call.
	Record(ctx context.Context, usage domain.CallUsage) error
	ListByUser(ctx context.Context, userID string, page domain.Page) ([]domain.CallUsage, int64, error)
}

// CreditService exposes balance checks to the transport layer.
type CreditService interface {
	Check(ctx context.Context, userID string, durationSeconds float64) (*domain.CreditEstimate, error)
	Balance(ctx context.Context, userID string) (float64, error)
	Usage(ctx context.Context, userID string, page domain.Page) (*ListResult[domain.CallUsage], error)
}
