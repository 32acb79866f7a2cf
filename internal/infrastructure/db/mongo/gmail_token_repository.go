package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zecall/dashboard/internal/core/domain"
)

// GmailTokenRepository stores one OAuth grant per user.
type GmailTokenRepository struct {
	col *mongo.Collection
}

func NewGmailTokenRepository(db *mongo.Database) *GmailTokenRepository {
	return &GmailTokenRepository{col: db.Collection(collectionGmailTokens)}
}

func (r *GmailTokenRepository) Save(ctx context.Context, t *domain.GmailToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.UserID}, t, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save gmail token: %w", err)
	}
	return nil
}

func (r *GmailTokenRepository) Find(ctx context.Context, userID string) (*domain.GmailToken, error) {
	return findOne[domain.GmailToken](ctx, r.col, bson.M{"_id": userID}, domain.ErrGmailNotConnected)
}
