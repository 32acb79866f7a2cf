package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const defaultAgentLanguage = "en-US"

type AgentService struct {
	repo   ports.AgentRepository
	logger zerolog.Logger
}

func NewAgentService(repo ports.AgentRepository, logger zerolog.Logger) *AgentService {
	return &AgentService{repo: repo, logger: logger}
}

func (s *AgentService) Create(ctx context.Context, in ports.CreateAgentInput) (*domain.AIAgent, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	lang := in.Language
	if lang == "" {
		lang = defaultAgentLanguage
	}

	now := time.Now().UTC()
	a := &domain.AIAgent{
		ID:           uuid.NewString(),
		TenantID:     in.TenantID,
		Name:         name,
		Voice:        in.Voice,
		Language:     lang,
		Greeting:     in.Greeting,
		SystemPrompt: in.SystemPrompt,
		CreatedBy:    in.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Msg("failed to create agent")
		return nil, err
	}
	s.logger.Info().Str("agent_id", a.ID).Str("tenant_id", a.TenantID).Msg("agent created")
	return a, nil
}

func (s *AgentService) Get(ctx context.Context, tenantID, id string) (*domain.AIAgent, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *AgentService) List(ctx context.Context, filter ports.ListFilter) (*ports.ListResult[*domain.AIAgent], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return ports.NewListResult(items, total, filter.Page), nil
}
