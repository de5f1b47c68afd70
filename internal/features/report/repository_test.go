package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func reportDoc(author, date string, hours float64) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "author_id", Value: author},
		{Key: "author_name", Value: "Ann"},
		{Key: "department", Value: "Engineering"},
		{Key: "date", Value: date},
		{Key: "hours", Value: hours},
		{Key: "content", Value: "shipped"},
	}
}

func TestReportRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert returns stored document", func(mt *mtest.T) {
		repo := &ReportRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: reportDoc("u1", "2024-01-15", 7.5)},
		))

		saved, err := repo.Upsert(context.Background(), &Report{AuthorID: "u1", Date: "2024-01-15", Hours: 7.5})
		require.NoError(mt, err)
		assert.Equal(mt, "u1", saved.AuthorID)
		assert.Equal(mt, 7.5, saved.Hours)

		var upsert *event.CommandStartedEvent
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "findAndModify" {
				upsert = evt
			}
		}
		require.NotNil(mt, upsert, "findAndModify was not sent")
		assert.True(mt, upsert.Command.Lookup("upsert").Boolean())
	})

	mt.Run("find by department decodes every record", func(mt *mtest.T) {
		repo := &ReportRepositoryImpl{Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				reportDoc("u1", "2024-01-14", 8),
				reportDoc("u2", "2024-01-15", 6),
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		got, err := repo.FindByDepartment(context.Background(), "engineering", "2024-01-09", "2024-01-15")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "u2", got[1].AuthorID)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(mt, "^engineering$", filter.Lookup("department", "$regex").StringValue())
		assert.Equal(mt, "2024-01-09", filter.Lookup("date", "$gte").StringValue())
	})

	mt.Run("find one not found", func(mt *mtest.T) {
		repo := &ReportRepositoryImpl{Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindOne(context.Background(), "u1", "2024-01-15")
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("search escapes the query text", func(mt *mtest.T) {
		repo := &ReportRepositoryImpl{Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.Search(context.Background(), SearchQuery{Text: "fix (api)"})
		require.NoError(mt, err)
		assert.Empty(mt, got)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, `fix \(api\)`, cmd.Lookup("filter", "content", "$regex").StringValue())
		assert.Equal(mt, int64(SearchLimit), cmd.Lookup("limit").AsInt64())
	})
}
