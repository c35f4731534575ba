package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"riichienv/core/domain/entity"
	"riichienv/core/domain/repository"

	"github.com/redis/go-redis/v9"
)

const (
	matchStateKey   = "selfplay:match:"  // matchID -> MatchCheckpoint json
	pendingMatchKey = "selfplay:pending" // 未完成对局集合
)

// 写进度和维护集合需要原子完成，否则 worker 崩溃时集合里会留下脏数据
const (
	saveCheckpointScript = `
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
redis.call('SADD', KEYS[2], ARGV[3])
return 1`

	deleteCheckpointScript = `
redis.call('DEL', KEYS[1])
redis.call('SREM', KEYS[2], ARGV[1])
return 1`

	// 顺带清理已经过期的成员
	pendingMatchesScript = `
local ids = redis.call('SMEMBERS', KEYS[1])
local out = {}
for _, id in ipairs(ids) do
  if redis.call('EXISTS', ARGV[1] .. id) == 1 then
    table.insert(out, id)
  else
    redis.call('SREM', KEYS[1], id)
  end
end
return out`
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	EvalScript(ctx context.Context, scriptName, script string, keys []string, args ...any) (any, error)
}

// RedisMatchStateRepository Redis 实现的对局进度仓储
type RedisMatchStateRepository struct {
	redis redisStore
}

func NewRedisMatchStateRepository(redis redisStore) repository.MatchStateRepository {
	return &RedisMatchStateRepository{redis: redis}
}

func (r *RedisMatchStateRepository) SaveCheckpoint(ctx context.Context, cp *entity.MatchCheckpoint, ttl time.Duration) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	_, err = r.redis.EvalScript(ctx, "save_checkpoint", saveCheckpointScript,
		[]string{matchStateKey + cp.MatchID, pendingMatchKey},
		string(data), ttl.Milliseconds(), cp.MatchID)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	return nil
}

func (r *RedisMatchStateRepository) GetCheckpoint(ctx context.Context, matchID string) (*entity.MatchCheckpoint, error) {
	data, err := r.redis.Get(ctx, matchStateKey+matchID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrMatchStateNotFound
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	var cp entity.MatchCheckpoint
	if err := json.Unmarshal([]byte(data), &cp); err != nil {
		return nil, fmt.Errorf("对局进度解析失败, match=%s: %w", matchID, err)
	}
	return &cp, nil
}

func (r *RedisMatchStateRepository) DeleteCheckpoint(ctx context.Context, matchID string) error {
	_, err := r.redis.EvalScript(ctx, "delete_checkpoint", deleteCheckpointScript,
		[]string{matchStateKey + matchID, pendingMatchKey}, matchID)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	return nil
}

func (r *RedisMatchStateRepository) PendingMatches(ctx context.Context) ([]string, error) {
	res, err := r.redis.EvalScript(ctx, "pending_matches", pendingMatchesScript,
		[]string{pendingMatchKey}, matchStateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	items, ok := res.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected reply %T", repository.ErrRedis, res)
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}
