package agent

import (
	"fmt"

	"riichienv/framework/game/engines/calculator"
	"riichienv/runtime/game/engines/mahjong"
)

const (
	KindRandom = "random"
	KindGreedy = "greedy"
)

// Agent 自对弈中的决策方，只能从 obs.LegalActions 中选择
// 每个 worker 持有自己的 agent，不需要并发安全
type Agent interface {
	Name() string
	SelectAction(obs mahjong.Observation) mahjong.Action
}

// ShantenSearcher calculator.Searcher 满足该接口
type ShantenSearcher interface {
	ShantenAll(h calculator.Hand34, fixedMelds int) int
}

func New(kind string, seed int64, searcher ShantenSearcher) (Agent, error) {
	switch kind {
	case "", KindRandom:
		return NewRandomAgent(seed), nil
	case KindGreedy:
		if searcher == nil {
			return nil, fmt.Errorf("greedy agent 需要向听计算器")
		}
		return NewGreedyAgent(searcher), nil
	default:
		return nil, fmt.Errorf("未知的 agent 类型: %s", kind)
	}
}
