package department

import (
	"context"
	"strings"
	"time"

	"go-worklog/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DepartmentRepository interface {
	ListNames(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, names []string) (int, error)
	Count(ctx context.Context) (int64, error)
}

type DepartmentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDepartmentRepository(mongodb *database.MongodbDB) DepartmentRepository {
	return &DepartmentRepositoryImpl{
		Collection: mongodb.DB.Collection("departments"),
	}
}

// ListNames returns active department names sorted alphabetically
func (r *DepartmentRepositoryImpl) ListNames(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "_id": 0}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []Department
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if n := strings.TrimSpace(row.Name); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// Upsert inserts missing names as active departments and leaves existing ones untouched
func (r *DepartmentRepositoryImpl) Upsert(ctx context.Context, names []string) (int, error) {
	seen := make(map[string]struct{}, len(names))
	models := make([]mongo.WriteModel, 0, len(names))
	now := time.Now()

	for _, n := range names {
		name := strings.TrimSpace(n)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"name":       name,
				"active":     true,
				"created_at": now,
			}}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return 0, nil
	}

	res, err := r.Collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount), nil
}

func (r *DepartmentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}
