package ports

import (
	"context"
	"time"

	"github.com/zecall/dashboard/internal/core/domain"
)

// CampaignRepository defines persistence operations for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	// FindByID returns domain.ErrNotFound when the campaign is absent or owned by another tenant.
	FindByID(ctx context.Context, tenantID, id string) (*domain.Campaign, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Campaign, int64, error)
	// UpdateStatus moves the campaign from one status to another. It returns
	// domain.ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to domain.CampaignStatus, at time.Time) error
}

// CreateCampaignInput carries the campaign form.
type CreateCampaignInput struct {
	TenantID    string
	UserID      string
	Name        string
	AgentID     string
	Recipients  []domain.Recipient
	ScheduledAt *time.Time
}

type CampaignService interface {
	Create(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error)
	Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error)
	List(ctx context.Context, filter ListFilter) (*ListResult[*domain.Campaign], error)
	ChangeStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) (*domain.Campaign, error)
}
