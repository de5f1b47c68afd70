package housekeeping

import (
	"context"

	"go-worklog/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RunRepository interface {
	CreateRun(ctx context.Context, run *JobRun) error
	UpdateRun(ctx context.Context, run *JobRun) error
	ListRuns(ctx context.Context, job string, limit int64) ([]JobRun, error)
}

type RunRepositoryImpl struct {
	collection *mongo.Collection
}

func NewRunRepository(db *database.MongodbDB) RunRepository {
	return &RunRepositoryImpl{
		collection: db.DB.Collection("housekeeping_runs"),
	}
}

func (r *RunRepositoryImpl) CreateRun(ctx context.Context, run *JobRun) error {
	run.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *RunRepositoryImpl) UpdateRun(ctx context.Context, run *JobRun) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": run.ID}, bson.M{"$set": run})
	return err
}

// ListRuns returns the newest runs first; an empty job lists every job
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, job string, limit int64) ([]JobRun, error) {
	filter := bson.M{}
	if job != "" {
		filter["job"] = job
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []JobRun
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []JobRun{}
	}
	return runs, nil
}
