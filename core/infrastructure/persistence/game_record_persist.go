package persistence

import (
	"context"
	"errors"
	"fmt"

	"riichienv/common/database"
	"riichienv/common/log"
	"riichienv/core/domain/entity"
	"riichienv/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameRecordCollection  = "game_records"
	roundRecordCollection = "round_records"
)

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

// SaveGameRecord 保存对局记录（元数据）
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	collection := r.mongo.Db.Collection(gameRecordCollection)
	if _, err := collection.InsertOne(ctx, record); err != nil {
		log.Error("保存对局记录失败: match=%s, err=%v", record.MatchID, err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

// FindGameRecord 根据ID查找对局记录
func (r *GameRecordRepository) FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error) {
	return r.findOneGame(ctx, bson.M{"_id": recordID})
}

func (r *GameRecordRepository) FindGameRecordByMatch(ctx context.Context, matchID string) (*entity.GameRecord, error) {
	return r.findOneGame(ctx, bson.M{"match_id": matchID})
}

func (r *GameRecordRepository) findOneGame(ctx context.Context, filter bson.M) (*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	var record entity.GameRecord
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return &record, nil
}

// FindGameRecordsByAgent 查找 agent 参与的对局（分页）
func (r *GameRecordRepository) FindGameRecordsByAgent(ctx context.Context, agentName string, limit, offset int) ([]*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	filter := bson.M{"players.agent_name": agentName}
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询 agent 对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	defer cursor.Close(ctx)

	var records []*entity.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return records, nil
}

// SaveRoundRecord 保存局记录（每局一个文档）
func (r *GameRecordRepository) SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error {
	collection := r.mongo.Db.Collection(roundRecordCollection)
	if _, err := collection.InsertOne(ctx, round); err != nil {
		log.Error("保存局记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

// SaveRoundRecords 批量保存局记录（使用 MongoDB InsertMany）
func (r *GameRecordRepository) SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error {
	docs := make([]any, 0, len(rounds))
	for _, round := range rounds {
		if round != nil {
			docs = append(docs, round)
		}
	}
	if len(docs) == 0 {
		return nil
	}

	collection := r.mongo.Db.Collection(roundRecordCollection)
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		log.Error("批量保存局记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}

	log.Debug("批量保存局记录成功: count=%d", len(docs))
	return nil
}

// FindRoundRecords 查找对局的所有局记录，连庄时 round_number 相同，按开始时间排序
func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	collection := r.mongo.Db.Collection(roundRecordCollection)

	filter := bson.M{"game_record_id": gameRecordID}
	opts := options.Find().SetSort(bson.D{{Key: "round_number", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	defer cursor.Close(ctx)

	var result []*entity.RoundRecord
	if err := cursor.All(ctx, &result); err != nil {
		log.Error("解析局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	if len(result) == 0 {
		return nil, repository.ErrRoundNotFound
	}
	return result, nil
}
