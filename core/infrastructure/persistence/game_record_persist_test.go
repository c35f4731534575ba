package persistence

import (
	"context"
	"testing"

	"riichienv/common/database"
	"riichienv/core/domain/entity"
	"riichienv/core/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newRepo(mt *mtest.T) repository.GameRecordRepository {
	return NewGameRecordRepository(&database.MongoManager{Cli: mt.Client, Db: mt.DB})
}

func TestGameRecordRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save game record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		record := entity.NewGameRecord("m-1", 7, []entity.PlayerInfo{{AgentName: "random", SeatIndex: 0}})
		require.NoError(mt, newRepo(mt).SaveGameRecord(context.Background(), record))
	})

	mt.Run("duplicate key maps to ErrMongodb", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		record := entity.NewGameRecord("m-1", 7, nil)
		err := newRepo(mt).SaveGameRecord(context.Background(), record)
		assert.ErrorIs(mt, err, repository.ErrMongodb)
	})

	mt.Run("find by match", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + gameRecordCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "match_id", Value: "m-2"},
			{Key: "game_type", Value: entity.GameTypeRiichi4p},
			{Key: "seed", Value: int64(42)},
			{Key: "status", Value: entity.GameStatusCompleted},
		}))
		got, err := newRepo(mt).FindGameRecordByMatch(context.Background(), "m-2")
		require.NoError(mt, err)
		assert.Equal(mt, id, got.ID)
		assert.Equal(mt, "m-2", got.MatchID)
		assert.Equal(mt, int64(42), got.Seed)
		assert.Equal(mt, entity.GameStatusCompleted, got.Status)
	})

	mt.Run("not found", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + gameRecordCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := newRepo(mt).FindGameRecord(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrGameRecordNotFound)
	})

	mt.Run("save empty round batch is a no-op", func(mt *mtest.T) {
		require.NoError(mt, newRepo(mt).SaveRoundRecords(context.Background(), nil))
	})

	mt.Run("save round batch", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		gid := primitive.NewObjectID()
		rounds := []*entity.RoundRecord{
			entity.NewRoundRecord(gid, "m-3", 0, 0, 0, 0, [4]int{25000, 25000, 25000, 25000}, nil),
			entity.NewRoundRecord(gid, "m-3", 1, 1, 0, 0, [4]int{28000, 24000, 24000, 24000}, nil),
		}
		require.NoError(mt, newRepo(mt).SaveRoundRecords(context.Background(), rounds))
	})

	mt.Run("find rounds", func(mt *mtest.T) {
		gid := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + roundRecordCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "game_record_id", Value: gid}, {Key: "round_number", Value: 0}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "game_record_id", Value: gid}, {Key: "round_number", Value: 1}},
		))
		got, err := newRepo(mt).FindRoundRecords(context.Background(), gid)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, 1, got[1].RoundNumber)
	})
}
