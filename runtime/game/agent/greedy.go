package agent

import (
	"riichienv/framework/game/engines/calculator"
	"riichienv/runtime/game/engines/mahjong"
)

/*
	GreedyAgent 只看自己的手牌：
		1.能和就和（自摸、荣和）
		2.能立直就立直，多个宣言牌时取打出后向听最小的
		3.否则打出后向听数最小的牌，同向听取编号靠前的
		4.响应阶段一律过，不鸣牌
*/
type GreedyAgent struct {
	searcher ShantenSearcher
}

func NewGreedyAgent(searcher ShantenSearcher) *GreedyAgent {
	return &GreedyAgent{searcher: searcher}
}

func (a *GreedyAgent) Name() string { return KindGreedy }

func (a *GreedyAgent) SelectAction(obs mahjong.Observation) mahjong.Action {
	legal := obs.LegalActions
	if len(legal) == 0 {
		return mahjong.Pass
	}
	for _, act := range legal {
		if act.Kind == mahjong.ActionTsumo || act.Kind == mahjong.ActionRon {
			return act
		}
	}
	if obs.Phase == mahjong.PhaseCall {
		for _, act := range legal {
			if act.Kind == mahjong.ActionPass {
				return act
			}
		}
		return legal[0]
	}

	if best, ok := a.bestDiscard(obs.Hand, legal, mahjong.ActionRiichi); ok {
		return best
	}
	if best, ok := a.bestDiscard(obs.Hand, legal, mahjong.ActionDiscard); ok {
		return best
	}
	return legal[0]
}

// bestDiscard 在 kind 类的操作中找打出后向听最小的
func (a *GreedyAgent) bestDiscard(hand []mahjong.Tile, legal []mahjong.Action, kind mahjong.ActionKind) (mahjong.Action, bool) {
	var (
		best     mahjong.Action
		bestShan = 99
		found    bool
	)
	for _, act := range legal {
		if act.Kind != kind {
			continue
		}
		if s := a.shantenWithout(hand, act.Tile); s < bestShan {
			best, bestShan, found = act, s, true
		}
	}
	return best, found
}

func (a *GreedyAgent) shantenWithout(hand []mahjong.Tile, discard mahjong.Tile) int {
	ids := make([]int, 0, len(hand))
	removed := false
	for _, t := range hand {
		if !removed && t == discard {
			removed = true
			continue
		}
		ids = append(ids, int(t))
	}
	h := calculator.Hand34FromIDs(ids)
	fixed := (mahjong.HandSize - len(ids)) / 3
	return a.searcher.ShantenAll(h, fixed)
}
