package repository

import (
	"context"

	"riichienv/core/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecordRepository 对局记录仓储接口
type GameRecordRepository interface {
	// SaveGameRecord 保存对局记录（元数据）
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	// FindGameRecord 根据ID查找对局记录
	FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error)

	// FindGameRecordByMatch 根据 worker 生成的 matchID 查找
	FindGameRecordByMatch(ctx context.Context, matchID string) (*entity.GameRecord, error)

	// FindGameRecordsByAgent 查找某个 agent 参与的对局（分页，按开始时间倒序）
	FindGameRecordsByAgent(ctx context.Context, agentName string, limit, offset int) ([]*entity.GameRecord, error)

	// SaveRoundRecord 保存局记录（每局一个文档）
	SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error

	// SaveRoundRecords 批量保存局记录（使用 MongoDB InsertMany）
	SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error

	// FindRoundRecords 查找对局的所有局记录（按开始时间排序）
	FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error)
}
