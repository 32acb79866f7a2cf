package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

type AgentRepository struct {
	col *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{col: db.Collection(collectionAgents)}
}

func (r *AgentRepository) Create(ctx context.Context, a *domain.AIAgent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

func (r *AgentRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.AIAgent, error) {
	return findOne[domain.AIAgent](ctx, r.col, bson.M{"_id": id, "tenant_id": tenantID}, domain.ErrNotFound)
}

func (r *AgentRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.AIAgent, int64, error) {
	return findPage[domain.AIAgent](ctx, r.col, listFilter(f, "name", "voice"), bson.D{{Key: "created_at", Value: -1}}, f.Page)
}
