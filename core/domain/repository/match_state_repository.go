package repository

import (
	"context"
	"time"

	"riichienv/core/domain/entity"
)

// MatchStateRepository 对局进度仓储接口
// 每局结束后保存，worker 被中断后可以从最近一局续打
type MatchStateRepository interface {
	// SaveCheckpoint 覆盖保存，ttl 到期自动清理无人续打的对局
	SaveCheckpoint(ctx context.Context, cp *entity.MatchCheckpoint, ttl time.Duration) error

	// GetCheckpoint 不存在时返回 ErrMatchStateNotFound
	GetCheckpoint(ctx context.Context, matchID string) (*entity.MatchCheckpoint, error)

	// DeleteCheckpoint 对局结束时调用
	DeleteCheckpoint(ctx context.Context, matchID string) error

	// PendingMatches 还有进度未完成的对局
	PendingMatches(ctx context.Context) ([]string, error)
}
