package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRunMigrations(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("skips recorded and records new", func(mt *mtest.T) {
		ran := map[string]int{}
		step := func(name string, err error) Migration {
			return Migration{Name: name, Up: func(context.Context, *mongo.Database) error {
				ran[name]++
				return err
			}}
		}
		migrations := []Migration{
			step("done_v1", nil),
			step("new_v1", nil),
			step("broken_v1", errors.New("boom")),
		}

		records := mt.DB.Collection("migrations")
		recordsNS := records.Database().Name() + "." + records.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, recordsNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(1)}}),
			mtest.CreateCursorResponse(0, recordsNS, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, recordsNS, mtest.FirstBatch),
		)

		applied, err := RunMigrations(context.Background(), mt.DB, "migrations", migrations)
		require.NoError(t, err)
		assert.Equal(t, []string{"new_v1"}, applied)
		assert.Equal(t, map[string]int{"new_v1": 1, "broken_v1": 1}, ran)

		var names []string
		for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
			names = append(names, evt.CommandName)
			if evt.CommandName == "update" {
				assert.Equal(t, "new_v1", evt.Command.Lookup("updates", "0", "q", "_id").StringValue())
				assert.True(t, evt.Command.Lookup("updates", "0", "upsert").Boolean())
			}
		}
		assert.Equal(t, []string{"aggregate", "aggregate", "update", "aggregate"}, names)
	})

	mt.Run("count failure stops the run", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		applied, err := RunMigrations(context.Background(), mt.DB, "migrations", []Migration{
			{Name: "first_v1", Up: func(context.Context, *mongo.Database) error { return nil }},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "check migration first_v1")
		assert.Empty(t, applied)
	})
}
