package ports

import (
	"context"

	"github.com/zecall/dashboard/internal/core/domain"
)

type IncomingCallRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.IncomingCall, error)
	// List returns calls newest first.
	List(ctx context.Context, filter ListFilter) ([]*domain.IncomingCall, int64, error)
}

type IncomingCallService interface {
	Get(ctx context.Context, tenantID, id string) (*domain.IncomingCall, error)
	List(ctx context.Context, filter ListFilter) (*ListResult[*domain.IncomingCall], error)
}
