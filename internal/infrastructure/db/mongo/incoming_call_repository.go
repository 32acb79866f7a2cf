package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// IncomingCallRepository reads the call log written by the telephony backend.
type IncomingCallRepository struct {
	col *mongo.Collection
}

func NewIncomingCallRepository(db *mongo.Database) *IncomingCallRepository {
	return &IncomingCallRepository{col: db.Collection(collectionIncomingCalls)}
}

func (r *IncomingCallRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.IncomingCall, error) {
	return findOne[domain.IncomingCall](ctx, r.col, bson.M{"_id": id, "tenant_id": tenantID}, domain.ErrNotFound)
}

func (r *IncomingCallRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.IncomingCall, int64, error) {
	return findPage[domain.IncomingCall](ctx, r.col, listFilter(f, "from", "to", "summary"), bson.D{{Key: "started_at", Value: -1}}, f.Page)
}
