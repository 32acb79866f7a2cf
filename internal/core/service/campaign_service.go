package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

type CampaignService struct {
	repo   ports.CampaignRepository
	agents ports.AgentRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCampaignService(repo ports.CampaignRepository, agents ports.AgentRepository, logger zerolog.Logger) *CampaignService {
	return &CampaignService{repo: repo, agents: agents, logger: logger, now: time.Now}
}

// Create stores a new campaign in draft, or scheduled when a start time is given.
func (s *CampaignService) Create(ctx context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(in.Recipients) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", domain.ErrInvalidInput)
	}

	if _, err := s.agents.FindByID(ctx, in.TenantID, in.AgentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: agent %q not found", domain.ErrInvalidInput, in.AgentID)
		}
		return nil, err
	}

	now := s.now().UTC()
	status := domain.CampaignDraft
	if in.ScheduledAt != nil {
		if !in.ScheduledAt.After(now) {
			return nil, fmt.Errorf("%w: scheduled_at must be in the future", domain.ErrInvalidInput)
		}
		status = domain.CampaignScheduled
	}

	c := &domain.Campaign{
		ID:          uuid.NewString(),
		TenantID:    in.TenantID,
		Name:        name,
		AgentID:     in.AgentID,
		Status:      status,
		Recipients:  in.Recipients,
		ScheduledAt: in.ScheduledAt,
		CreatedBy:   in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Msg("failed to create campaign")
		return nil, err
	}

	s.logger.Info().
		Str("campaign_id", c.ID).
		Str("tenant_id", c.TenantID).
		Int("recipients", len(c.Recipients)).
		Msg("campaign created")
	return c, nil
}

func (s *CampaignService) Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *CampaignService) List(ctx context.Context, filter ports.ListFilter) (*ports.ListResult[*domain.Campaign], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return ports.NewListResult(items, total, filter.Page), nil
}

// ChangeStatus applies a lifecycle transition.
func (s *CampaignService) ChangeStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, c.Status, status)
	}

	now := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, tenantID, id, c.Status, status, now); err != nil {
		return nil, fmt.Errorf("update campaign status: %w", err)
	}
	c.Status = status
	c.UpdatedAt = now

	s.logger.Info().Str("campaign_id", id).Str("status", string(status)).Msg("campaign status changed")
	return c, nil
}
