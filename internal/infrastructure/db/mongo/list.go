package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// listFilter builds the tenant-scoped query shared by the dashboard lists.
// Search is matched case-insensitively against any of searchFields.
func listFilter(f ports.ListFilter, searchFields ...string) bson.M {
	filter := bson.M{"tenant_id": f.TenantID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" && len(searchFields) > 0 {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		if len(searchFields) == 1 {
			filter[searchFields[0]] = pattern
		} else {
			or := make(bson.A, 0, len(searchFields))
			for _, field := range searchFields {
				or = append(or, bson.M{field: pattern})
			}
			filter["$or"] = or
		}
	}
	return filter
}

// findPage runs a counted, sorted, paginated find.
func findPage[T any](ctx context.Context, col *mongo.Collection, filter bson.M, sort bson.D, page domain.Page) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", col.Name(), err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	items := make([]*T, 0, page.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return items, total, nil
}

// findOne decodes a single document, mapping no-documents to notFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, notFound error) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &out, nil
}
