package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

type CampaignRepository struct {
	col *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{col: db.Collection(collectionCampaigns)}
}

// Create inserts a new campaign document.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// FindByID retrieves a campaign within a tenant.
func (r *CampaignRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	return findOne[domain.Campaign](ctx, r.col, bson.M{"_id": id, "tenant_id": tenantID}, domain.ErrNotFound)
}

// List returns a page of the tenant's campaigns, newest first.
func (r *CampaignRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Campaign, int64, error) {
	return findPage[domain.Campaign](ctx, r.col, listFilter(f, "name"), bson.D{{Key: "created_at", Value: -1}}, f.Page)
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, tenantID, id string, from, to domain.CampaignStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		statusUpdateFilter(tenantID, id, from),
		bson.M{"$set": bson.M{"status": string(to), "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id, "tenant_id": tenantID})
	if err != nil {
		return fmt.Errorf("count campaign: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w (status is no longer %s)", domain.ErrInvalidTransition, from)
}

// statusUpdateFilter only matches while the campaign still has the status the
// transition was checked against.
func statusUpdateFilter(tenantID, id string, from domain.CampaignStatus) bson.M {
	return bson.M{"_id": id, "tenant_id": tenantID, "status": string(from)}
}
