package agent

import (
	"testing"

	"riichienv/framework/game/engines/calculator"
	"riichienv/runtime/game/engines/mahjong"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiles(ids ...int) []mahjong.Tile {
	out := make([]mahjong.Tile, len(ids))
	for i, id := range ids {
		out[i] = mahjong.Tile(id)
	}
	return out
}

func discardObs(hand []mahjong.Tile, extra ...mahjong.Action) mahjong.Observation {
	legal := append([]mahjong.Action(nil), extra...)
	for _, t := range hand {
		legal = append(legal, mahjong.Discard(t))
	}
	return mahjong.Observation{Phase: mahjong.PhaseDiscard, Hand: hand, LegalActions: legal, DrawnTile: hand[len(hand)-1]}
}

func TestNew(t *testing.T) {
	a, err := New("", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, KindRandom, a.Name())

	_, err = New(KindGreedy, 1, nil)
	assert.Error(t, err)

	a, err = New(KindGreedy, 1, calculator.NewSearcher(nil))
	require.NoError(t, err)
	assert.Equal(t, KindGreedy, a.Name())

	_, err = New("mcts", 1, nil)
	assert.Error(t, err)
}

func TestRandomAgentIsSeeded(t *testing.T) {
	obs := discardObs(tiles(0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52))
	a, b := NewRandomAgent(9), NewRandomAgent(9)
	for i := 0; i < 50; i++ {
		x := a.SelectAction(obs)
		require.Equal(t, x, b.SelectAction(obs))
		require.Contains(t, obs.LegalActions, x)
	}
	assert.Equal(t, mahjong.Pass, a.SelectAction(mahjong.Observation{}))
}

func TestGreedyAgent(t *testing.T) {
	g := NewGreedyAgent(calculator.NewSearcher(nil))
	// 234m 567m 234p 67s 55p + 北，打北后听牌
	hand := tiles(4, 8, 12, 17, 20, 24, 40, 44, 48, 53, 54, 92, 96, 120)

	t.Run("discard lowers shanten", func(t *testing.T) {
		assert.Equal(t, mahjong.Discard(120), g.SelectAction(discardObs(hand)))
	})

	t.Run("riichi over plain discard", func(t *testing.T) {
		obs := discardObs(hand, mahjong.Riichi(120))
		assert.Equal(t, mahjong.Riichi(120), g.SelectAction(obs))
	})

	t.Run("always takes the win", func(t *testing.T) {
		obs := discardObs(hand, mahjong.Tsumo)
		assert.Equal(t, mahjong.Tsumo, g.SelectAction(obs))

		call := mahjong.Observation{Phase: mahjong.PhaseCall, LegalActions: []mahjong.Action{mahjong.Pass, mahjong.Pung, mahjong.Ron}}
		assert.Equal(t, mahjong.Ron, g.SelectAction(call))
	})

	t.Run("never calls", func(t *testing.T) {
		call := mahjong.Observation{Phase: mahjong.PhaseCall, LegalActions: []mahjong.Action{mahjong.Pass, mahjong.Pung, mahjong.Chii(13, 14)}}
		assert.Equal(t, mahjong.Pass, g.SelectAction(call))
	})

	t.Run("open hand counts fixed melds", func(t *testing.T) {
		// 碰过一组后剩 11 张：234m 567m 55p 67s + 北
		open := tiles(4, 8, 12, 17, 20, 24, 53, 54, 92, 96, 120)
		assert.Equal(t, mahjong.Discard(120), g.SelectAction(discardObs(open)))
	})
}
