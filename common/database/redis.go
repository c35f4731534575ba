package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"riichienv/common/config"
	"riichienv/common/log"

	"github.com/redis/go-redis/v9"
)

type RedisManager struct {
	Cli        *redis.Client
	ClusterCli *redis.ClusterClient
	scriptSHAs map[string]string
	mu         sync.RWMutex
}

func NewRedis(ctx context.Context, redisConf config.RedisConf) (*RedisManager, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var clusterCli *redis.ClusterClient
	var cli *redis.Client

	// 构建Redis地址
	var addr string
	if redisConf.Addr != "" {
		addr = redisConf.Addr
	} else if redisConf.Host != "" && redisConf.Port > 0 {
		addr = fmt.Sprintf("%s:%d", redisConf.Host, redisConf.Port)
	} else if len(redisConf.ClusterAddrs) == 0 {
		return nil, fmt.Errorf("redis 配置出错")
	}

	if len(redisConf.ClusterAddrs) == 0 {
		cli = redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     redisConf.Password, // 如果没有密码，这个字段为空字符串，Redis会忽略
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
		if err := cli.Ping(ctx).Err(); err != nil {
			_ = cli.Close()
			return nil, fmt.Errorf("redis 连接错误: %w", err)
		}
	} else {
		clusterCli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        redisConf.ClusterAddrs,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
		if err := clusterCli.Ping(ctx).Err(); err != nil {
			_ = clusterCli.Close()
			return nil, fmt.Errorf("redisCluster 连接错误: %w", err)
		}
	}

	return &RedisManager{
		Cli:        cli,
		ClusterCli: clusterCli,
		scriptSHAs: make(map[string]string),
	}, nil
}

// NewRedisWithClient 包装已有客户端（复用外部连接池）
func NewRedisWithClient(cli *redis.Client) *RedisManager {
	return &RedisManager{Cli: cli, scriptSHAs: make(map[string]string)}
}

func (r *RedisManager) GetClient() (redis.Cmdable, error) {
	if r.Cli != nil {
		return r.Cli, nil
	}
	if r.ClusterCli != nil {
		return r.ClusterCli, nil
	}
	return nil, fmt.Errorf("redis 客户端未初始化")
}

func (r *RedisManager) Get(ctx context.Context, key string) (string, error) {
	cli, err := r.GetClient()
	if err != nil {
		return "", err
	}
	return cli.Get(ctx, key).Result()
}

func (r *RedisManager) Del(ctx context.Context, keys ...string) error {
	cli, err := r.GetClient()
	if err != nil {
		return err
	}
	return cli.Del(ctx, keys...).Err()
}

// EvalScript 优先走 EVALSHA，脚本被清空时自动重新加载
func (r *RedisManager) EvalScript(ctx context.Context, scriptName, script string, keys []string, args ...any) (any, error) {
	cli, err := r.GetClient()
	if err != nil {
		return nil, err
	}
	if scriptName == "" {
		return cli.Eval(ctx, script, keys, args...).Result()
	}

	r.mu.RLock()
	sha, exists := r.scriptSHAs[scriptName]
	r.mu.RUnlock()
	if exists {
		result, err := cli.EvalSha(ctx, sha, keys, args...).Result()
		if err == nil || !strings.HasPrefix(err.Error(), "NOSCRIPT") {
			return result, err
		}
		// SHA 失效，重新加载
	}
	sha, err = cli.ScriptLoad(ctx, script).Result()
	if err != nil {
		return nil, fmt.Errorf("加载脚本失败: %w", err)
	}
	r.mu.Lock()
	r.scriptSHAs[scriptName] = sha
	r.mu.Unlock()
	return cli.EvalSha(ctx, sha, keys, args...).Result()
}

func (r *RedisManager) Close() error {
	if r == nil {
		return nil
	}
	if r.Cli != nil {
		if err := r.Cli.Close(); err != nil {
			log.Error("redis 关闭出错: %v", err)
			return err
		}
	}
	if r.ClusterCli != nil {
		if err := r.ClusterCli.Close(); err != nil {
			log.Error("redisCluster 关闭出错: %v", err)
			return err
		}
	}
	return nil
}
