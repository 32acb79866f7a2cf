package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zecall/dashboard/internal/core/domain"
)

type ResetTokenRepository struct {
	col *mongo.Collection
}

func NewResetTokenRepository(db *mongo.Database) *ResetTokenRepository {
	return &ResetTokenRepository{col: db.Collection(collectionResetTokens)}
}

func (r *ResetTokenRepository) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) Find(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	return findOne[domain.PasswordResetToken](ctx, r.col, bson.M{"_id": token}, domain.ErrTokenInvalid)
}

// MarkUsed stamps the token once. A token that is already used yields
// domain.ErrTokenUsed so two concurrent resets cannot both succeed.
func (r *ResetTokenRepository) MarkUsed(ctx context.Context, token string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": token, "used_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"used_at": at}},
	)
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTokenUsed
	}
	return nil
}
