package game

import (
	"riichienv/common/config"
	"riichienv/runtime/game/engines/mahjong"
)

// EngineOptions 配置项为 0 时保留引擎默认值
func EngineOptions(conf config.SelfplayConfiguration) mahjong.Options {
	opts := mahjong.DefaultOptions()
	opts.Rules = mahjong.Rules{
		HasAkaDora:       conf.RuleConf.HasAkaDora,
		HasOpenTanyao:    conf.RuleConf.HasOpenTanyao,
		HasDoubleYakuman: conf.RuleConf.HasDoubleYakuman,
	}

	ec := conf.EngineConf
	if ec.NumRounds > 0 {
		opts.NumRounds = ec.NumRounds
	}
	if ec.StartingScore > 0 {
		opts.StartingScore = ec.StartingScore
	}
	if ec.RiichiDeposit > 0 {
		opts.RiichiDeposit = ec.RiichiDeposit
	}
	if ec.NotenPool > 0 {
		opts.NotenPool = ec.NotenPool
	}
	if ec.HonbaBonus != nil {
		opts.HonbaBonus = *ec.HonbaBonus
	}
	opts.PaoRounding = mahjong.ParsePaoRounding(ec.PaoRounding)
	return opts
}
