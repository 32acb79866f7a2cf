package ports

import (
	"context"

	"github.com/zecall/dashboard/internal/core/domain"
)

type AgentRepository interface {
	Create(ctx context.Context, a *domain.AIAgent) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.AIAgent, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.AIAgent, int64, error)
}

// CreateAgentInput carries the AI agent form.
type CreateAgentInput struct {
	TenantID     string
	UserID       string
	Name         string
	Voice        string
	Language     string
	Greeting     string
	SystemPrompt string
}

type AgentService interface {
	Create(ctx context.Context, in CreateAgentInput) (*domain.AIAgent, error)
	Get(ctx context.Context, tenantID, id string) (*domain.AIAgent, error)
	List(ctx context.Context, filter ListFilter) (*ListResult[*domain.AIAgent], error)
}
