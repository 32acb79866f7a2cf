package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zecall/dashboard/internal/core/domain"
)

type SubscriptionRepository struct {
	col *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{col: db.Collection(collectionSubscriptions)}
}

func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	return findOne[domain.Subscription](ctx, r.col, bson.M{"user_id": userID}, domain.ErrSubscriptionNotFound)
}

func (r *SubscriptionRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.Subscription, error) {
	return findOne[domain.Subscription](ctx, r.col, bson.M{"provider_subscription_id": providerID}, domain.ErrSubscriptionNotFound)
}

// Upsert replaces the subscription document keyed by its ID.
func (r *SubscriptionRepository) Upsert(ctx context.Context, s *domain.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}
