package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSet lists the indexes one collection needs
type IndexSet struct {
	Collection string
	Models     []mongo.IndexModel
}

// Indexes returns every index the service relies on. The unique (author_id, date) index is
// what guarantees at most one report per employee per day.
func Indexes() []IndexSet {
	return []IndexSet{
		{
			Collection: "users",
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
				{Keys: bson.D{{Key: "department", Value: 1}}, Options: options.Index().SetName("idx_department")},
			},
		},
		{
			Collection: "reports",
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_author_day")},
				{Keys: bson.D{{Key: "department", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetName("idx_department_date")},
				{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("idx_date")},
			},
		},
		{
			Collection: "reminders",
			Models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "target_department", Value: 1},
						{Key: "expires_at", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().
						SetName("active_dept_exp_created").
						SetPartialFilterExpression(bson.M{"deleted": false}),
				},
				{
					Keys: bson.D{
						{Key: "sender_id", Value: 1},
						{Key: "created_at", Value: -1},
					},
					Options: options.Index().SetName("sender_created"),
				},
			},
		},
		{
			Collection: "housekeeping_runs",
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "job", Value: 1}, {Key: "start_time", Value: -1}}, Options: options.Index().SetName("job_start")},
			},
		},
		{
			Collection: "departments",
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_name")},
				{Keys: bson.D{{Key: "active", Value: 1}}, Options: options.Index().SetName("idx_active")},
			},
		},
	}
}

// EnsureIndexes creates all indexes, stopping at the first failure
func (m *MongodbDB) EnsureIndexes(ctx context.Context) error {
	for _, set := range Indexes() {
		if _, err := m.DB.Collection(set.Collection).Indexes().CreateMany(ctx, set.Models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", set.Collection, err)
		}
	}
	return nil
}
