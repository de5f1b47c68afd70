package reminder

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go-worklog/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows FindActive. SenderID selects a sender's messages;
// otherwise messages for "all" plus Department (if set) are returned.
type Filter struct {
	SenderID   string
	Department string
}

type ReminderRepository interface {
	Create(ctx context.Context, r *Reminder) error
	Get(ctx context.Context, id string) (*Reminder, error)
	FindActive(ctx context.Context, filter Filter, now time.Time) ([]Reminder, error)
	FindBySender(ctx context.Context, senderID string) ([]Reminder, error)
	SoftDelete(ctx context.Context, id, deletedBy string, at time.Time) error
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type ReminderRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReminderRepository(mongodb *database.MongodbDB) ReminderRepository {
	return &ReminderRepositoryImpl{
		Collection: mongodb.DB.Collection("reminders"),
	}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func (repo *ReminderRepositoryImpl) Create(ctx context.Context, r *Reminder) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := repo.Collection.InsertOne(ctx, r)
	return err
}

func (repo *ReminderRepositoryImpl) Get(ctx context.Context, id string) (*Reminder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var r Reminder
	if err := repo.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *ReminderRepositoryImpl) FindActive(ctx context.Context, filter Filter, now time.Time) ([]Reminder, error) {
	and := []bson.M{
		{"deleted": false},
		{"$or": []bson.M{
			{"expires_at": bson.M{"$gt": now}},
			{"expires_at": nil},
		}},
	}

	if filter.SenderID != "" {
		and = append(and, bson.M{"sender_id": filter.SenderID})
	} else {
		targets := []bson.M{{"target_department": TargetAll}}
		if d := strings.TrimSpace(filter.Department); d != "" {
			targets = append(targets, bson.M{"target_department": bson.M{
				"$regex": "^" + regexp.QuoteMeta(d) + "$", "$options": "i",
			}})
		}
		and = append(and, bson.M{"$or": targets})
	}

	return repo.find(ctx, bson.M{"$and": and})
}

func (repo *ReminderRepositoryImpl) FindBySender(ctx context.Context, senderID string) ([]Reminder, error) {
	return repo.find(ctx, bson.M{"sender_id": senderID})
}

func (repo *ReminderRepositoryImpl) SoftDelete(ctx context.Context, id, deletedBy string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := repo.Collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"deleted":    true,
		"deleted_at": at,
		"deleted_by": deletedBy,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PurgeExpired hard-deletes temporary reminders that expired, and deleted ones removed, before the cutoff
func (repo *ReminderRepositoryImpl) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := repo.Collection.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"duration": DurationTemporary, "expires_at": bson.M{"$lt": before}},
		{"deleted": true, "deleted_at": bson.M{"$lt": before}},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (repo *ReminderRepositoryImpl) find(ctx context.Context, filter bson.M) ([]Reminder, error) {
	cursor, err := repo.Collection.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := []Reminder{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
