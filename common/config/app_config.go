package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var SelfplayConfig SelfplayConfiguration

type BaseConfig struct {
	ID         string `mapstructure:"id"`
	ServerType string `mapstructure:"serverType"`
	MetricPort int    `mapstructure:"metricPort"`
}

type SelfplayConfiguration struct {
	BaseConfig   `mapstructure:",squash"`
	DatabaseConf `mapstructure:"database"`
	LogConf      `mapstructure:"log"`
	NatsConfig   `mapstructure:"nats"`
	RuleConf     RuleConf   `mapstructure:"rule"`
	EngineConf   EngineConf `mapstructure:"engine"`
	WorkerConf   WorkerConf `mapstructure:"worker"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
}

type NatsConfig struct {
	URL string `json:"url" mapstructure:"url"`
}

// RuleConf 对局规则开关
type RuleConf struct {
	HasAkaDora       bool `mapstructure:"hasAkaDora"`
	HasOpenTanyao    bool `mapstructure:"hasOpenTanyao"`
	HasDoubleYakuman bool `mapstructure:"hasDoubleYakuman"`
}

// EngineConf 引擎数值参数，0 值表示使用引擎默认值
type EngineConf struct {
	NumRounds     int    `mapstructure:"numRounds"`
	StartingScore int    `mapstructure:"startingScore"`
	RiichiDeposit int    `mapstructure:"riichiDeposit"`
	NotenPool     int    `mapstructure:"notenPool"`
	HonbaBonus    *int   `mapstructure:"honbaBonus"`
	PaoRounding   string `mapstructure:"paoRounding"` // floor | round
}

type WorkerConf struct {
	Workers             int    `mapstructure:"workers"`
	Matches             int    `mapstructure:"matches"` // 0 表示不限
	Seed                int64  `mapstructure:"seed"`
	Agent               string `mapstructure:"agent"`        // random | greedy
	CacheMaxCost        int64  `mapstructure:"cacheMaxCost"` // 条目数，0 关闭缓存
	CacheTTLSeconds     int    `mapstructure:"cacheTTLSeconds"`
	RecordGames         bool   `mapstructure:"recordGames"`
	PublishTrajectories bool   `mapstructure:"publishTrajectories"`
	CheckpointMatches   bool   `mapstructure:"checkpointMatches"`
	ReplayDir           string `mapstructure:"replayDir"`
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("serverType", "selfplay")
	v.SetDefault("rule.hasAkaDora", true)
	v.SetDefault("rule.hasOpenTanyao", true)
	v.SetDefault("worker.workers", 1)
	v.SetDefault("worker.agent", "random")
	v.SetDefault("worker.cacheMaxCost", 1000000)
	v.SetDefault("worker.cacheTTLSeconds", 600)
	return v
}

func Load(configFile string) error {
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	var cfg SelfplayConfiguration
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	if nodeID := os.Getenv("NODE_ID"); nodeID != "" {
		cfg.ID = nodeID
	}
	if cfg.ServerType != "selfplay" {
		return fmt.Errorf("unknown server type: %s", cfg.ServerType)
	}
	if cfg.WorkerConf.Workers <= 0 {
		return fmt.Errorf("worker.workers must be positive, got %d", cfg.WorkerConf.Workers)
	}
	switch cfg.EngineConf.PaoRounding {
	case "", "floor", "round":
	default:
		return fmt.Errorf("engine.paoRounding must be floor or round, got %q", cfg.EngineConf.PaoRounding)
	}

	SelfplayConfig = cfg
	return nil
}
