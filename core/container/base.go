package container

import (
	"context"
	"fmt"

	"riichienv/common/config"
	"riichienv/common/database"
	"riichienv/common/log"
)

// BaseContainer 管理共享的数据库连接，未配置的数据库保持为 nil
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

// NewBase needMongo/needRedis 为 false 时不建立对应连接
func NewBase(ctx context.Context, conf config.DatabaseConf, needMongo, needRedis bool) (*BaseContainer, error) {
	c := &BaseContainer{}
	if needMongo {
		mongo, err := database.NewMongo(ctx, conf.MongoConf)
		if err != nil {
			return nil, fmt.Errorf("mongo 初始化失败: %w", err)
		}
		c.mongo = mongo
	}
	if needRedis {
		redis, err := database.NewRedis(ctx, conf.RedisConf)
		if err != nil {
			_ = c.mongo.Close()
			return nil, fmt.Errorf("redis 初始化失败: %w", err)
		}
		c.redis = redis
	}
	if needMongo || needRedis {
		log.Info("数据库服务启动成功: mongo=%v redis=%v", needMongo, needRedis)
	}
	return c, nil
}

func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

// Close 关闭所有资源，返回第一个错误
func (c *BaseContainer) Close() error {
	e1 := c.mongo.Close()
	e2 := c.redis.Close()
	if e1 != nil {
		log.Error("mongo 关闭失败: %v", e1)
	}
	if e2 != nil {
		log.Error("redis 关闭失败: %v", e2)
	}
	if e1 != nil {
		return e1
	}
	return e2
}
