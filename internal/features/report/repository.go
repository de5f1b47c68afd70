package report

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go-worklog/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchLimit caps the number of reports a search returns
const SearchLimit = 200

// SearchQuery filters the admin report search; empty fields are ignored
type SearchQuery struct {
	Text       string
	Department string
	From       string
	To         string
}

type ReportRepository interface {
	Upsert(ctx context.Context, r *Report) (*Report, error)
	FindOne(ctx context.Context, authorID, date string) (*Report, error)
	FindByDepartment(ctx context.Context, department, from, to string) ([]Report, error)
	FindByAuthor(ctx context.Context, authorID, from, to string, limit, skip int64) ([]Report, error)
	FindByDate(ctx context.Context, date, department string) ([]Report, error)
	FindRange(ctx context.Context, from, to string) ([]Report, error)
	Search(ctx context.Context, q SearchQuery) ([]Report, error)
}

type ReportRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReportRepository(mongodb *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		Collection: mongodb.DB.Collection("reports"),
	}
}

// Upsert writes the author's report for r.Date, creating it on first submission
func (repo *ReportRepositoryImpl) Upsert(ctx context.Context, r *Report) (*Report, error) {
	now := r.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}
	filter := bson.M{"author_id": r.AuthorID, "date": r.Date}
	update := bson.M{
		"$set": bson.M{
			"content":     r.Content,
			"hours":       r.Hours,
			"author_name": r.AuthorName,
			"role":        r.Role,
			"department":  r.Department,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"author_id":  r.AuthorID,
			"date":       r.Date,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved Report
	if err := repo.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (repo *ReportRepositoryImpl) FindOne(ctx context.Context, authorID, date string) (*Report, error) {
	var r Report
	if err := repo.Collection.FindOne(ctx, bson.M{"author_id": authorID, "date": date}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *ReportRepositoryImpl) FindByDepartment(ctx context.Context, department, from, to string) ([]Report, error) {
	filter := dateFilter(from, to)
	filter["department"] = departmentMatch(department)
	return repo.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (repo *ReportRepositoryImpl) FindByAuthor(ctx context.Context, authorID, from, to string, limit, skip int64) ([]Report, error) {
	filter := dateFilter(from, to)
	filter["author_id"] = authorID

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	return repo.find(ctx, filter, opts)
}

func (repo *ReportRepositoryImpl) FindByDate(ctx context.Context, date, department string) ([]Report, error) {
	filter := bson.M{"date": date}
	if strings.TrimSpace(department) != "" {
		filter["department"] = departmentMatch(department)
	}
	return repo.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "author_name", Value: 1}}))
}

func (repo *ReportRepositoryImpl) FindRange(ctx context.Context, from, to string) ([]Report, error) {
	return repo.find(ctx, dateFilter(from, to), options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (repo *ReportRepositoryImpl) Search(ctx context.Context, q SearchQuery) ([]Report, error) {
	filter := dateFilter(q.From, q.To)
	if text := strings.TrimSpace(q.Text); text != "" {
		filter["content"] = bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
	}
	if strings.TrimSpace(q.Department) != "" {
		filter["department"] = departmentMatch(q.Department)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(SearchLimit)
	return repo.find(ctx, filter, opts)
}

func (repo *ReportRepositoryImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Report, error) {
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// dateFilter bounds the date field inclusively; empty bounds are open
func dateFilter(from, to string) bson.M {
	filter := bson.M{}
	cond := bson.M{}
	if from = strings.TrimSpace(from); from != "" {
		cond["$gte"] = from
	}
	if to = strings.TrimSpace(to); to != "" {
		cond["$lte"] = to
	}
	if len(cond) > 0 {
		filter["date"] = cond
	}
	return filter
}

// departmentMatch compares department names case-insensitively
func departmentMatch(department string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(strings.TrimSpace(department)) + "$", "$options": "i"}
}
