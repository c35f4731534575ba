package mahjong

import (
	"riichienv/framework/game/engines/calculator"
)

const (
	DefaultNumRounds     = 8     // 半庄
	DefaultInitialPoint  = 25000 // 默认初始点数
	DefaultRiichiDeposit = 1000
	DefaultNotenPool     = 3000 // 荒牌流局罚符总额
	DefaultHonbaBonus    = 300  // 每本场加点
)

// PaoRounding 包牌荣和时责任者半额的取整方式（取整到百点）
type PaoRounding int

const (
	PaoRoundFloor PaoRounding = iota
	PaoRoundHalfUp
)

func ParsePaoRounding(s string) PaoRounding {
	if s == "round" {
		return PaoRoundHalfUp
	}
	return PaoRoundFloor
}

func (r PaoRounding) String() string {
	if r == PaoRoundHalfUp {
		return "round"
	}
	return "floor"
}

// Rules 规则开关，随 INIT 事件一同下发
type Rules struct {
	HasAkaDora       bool `json:"has_aka_dora" yaml:"has_aka_dora" bson:"hasAkaDora"`
	HasOpenTanyao    bool `json:"has_open_tanyao" yaml:"has_open_tanyao" bson:"hasOpenTanyao"`
	HasDoubleYakuman bool `json:"has_double_yakuman" yaml:"has_double_yakuman" bson:"hasDoubleYakuman"`
}

func (r Rules) toCalculator() calculator.OptionalRules {
	return calculator.OptionalRules{
		HasOpenTanyao:    r.HasOpenTanyao,
		HasAkaDora:       r.HasAkaDora,
		HasDoubleYakuman: r.HasDoubleYakuman,
	}
}

type Options struct {
	Rules         Rules
	NumRounds     int
	StartingScore int
	RiichiDeposit int
	NotenPool     int
	HonbaBonus    int // 0 表示不计本场
	PaoRounding   PaoRounding
	Seed          int64
}

func DefaultOptions() Options {
	return Options{
		Rules:         Rules{HasAkaDora: true, HasOpenTanyao: true},
		NumRounds:     DefaultNumRounds,
		StartingScore: DefaultInitialPoint,
		RiichiDeposit: DefaultRiichiDeposit,
		NotenPool:     DefaultNotenPool,
		HonbaBonus:    DefaultHonbaBonus,
		PaoRounding:   PaoRoundFloor,
	}
}

// HandEvaluator 和了判定与点数计算
type HandEvaluator interface {
	EstimateHandValue(closed []int, winTile int, melds []calculator.Meld, dora []int, cfg calculator.HandConfig) calculator.HandResponse
}

// ShantenCalculator 向听数计算，-1 和了，0 听牌
type ShantenCalculator interface {
	CalculateShanten(h calculator.Hand34, melds []calculator.Meld) int
}
