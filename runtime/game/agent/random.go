package agent

import (
	"math/rand"

	"riichienv/runtime/game/engines/mahjong"
)

// RandomAgent 均匀随机选择，同一个种子给出同样的决策序列
type RandomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(seed int64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) Name() string { return KindRandom }

func (a *RandomAgent) SelectAction(obs mahjong.Observation) mahjong.Action {
	if len(obs.LegalActions) == 0 {
		return mahjong.Pass
	}
	return obs.LegalActions[a.rng.Intn(len(obs.LegalActions))]
}
