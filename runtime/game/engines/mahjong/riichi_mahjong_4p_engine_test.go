package mahjong

import (
	"errors"
	"strings"
	"testing"

	"riichienv/framework/game/engines/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opts Options) *RiichiMahjong4p {
	searcher := calculator.NewSearcher(nil)
	return NewRiichiMahjong4p(opts, calculator.NewHandCalculator(searcher), searcher)
}

// arrangeWall 按发牌顺序摆牌：hands 为各家配牌（不足 13 张用剩余牌补齐），
// draws 接在配牌之后，dead 为王牌前缀，其余位置按编号从小到大填充
func arrangeWall(t *testing.T, dealer int, hands [4][]int, draws []int, dead []int) []int {
	t.Helper()
	used := make(map[int]bool)
	mark := func(ids []int) {
		for _, id := range ids {
			if used[id] {
				t.Fatalf("tile %d used twice", id)
			}
			used[id] = true
		}
	}
	for _, h := range hands {
		if len(h) > HandSize {
			t.Fatalf("hand too long: %v", h)
		}
		mark(h)
	}
	mark(draws)
	mark(dead)

	fillers := make([]int, 0, TileLimit)
	for id := 0; id < TileLimit; id++ {
		if !used[id] {
			fillers = append(fillers, id)
		}
	}
	next := func() int {
		id := fillers[0]
		fillers = fillers[1:]
		return id
	}

	var full [4][]int
	for s := 0; s < 4; s++ {
		full[s] = append([]int(nil), hands[s]...)
		for len(full[s]) < HandSize {
			full[s] = append(full[s], next())
		}
	}
	live := make([]int, 0, TileLimit-DeadWallSize)
	for i := 0; i < HandSize; i++ {
		for off := 0; off < 4; off++ {
			live = append(live, full[(dealer+off)%4][i])
		}
	}
	live = append(live, draws...)
	for len(live) < TileLimit-DeadWallSize {
		live = append(live, next())
	}
	deadWall := append([]int(nil), dead...)
	for len(deadWall) < DeadWallSize {
		deadWall = append(deadWall, next())
	}
	return append(live, deadWall...)
}

func findAction(actions []Action, pred func(Action) bool) (Action, bool) {
	for _, a := range actions {
		if pred(a) {
			return a, true
		}
	}
	return Action{}, false
}

// tsumogiri 过掉所有鸣牌，出牌时打出与摸到的牌同种的牌
func tsumogiri(obs Observation) Action {
	if obs.Phase == PhaseCall {
		return Pass
	}
	if a, ok := findAction(obs.LegalActions, func(a Action) bool { return a.Kind == ActionDiscard && a.Tile == obs.DrawnTile }); ok {
		return a
	}
	if obs.DrawnTile != NoTile {
		if a, ok := findAction(obs.LegalActions, func(a Action) bool {
			return a.Kind == ActionDiscard && a.Tile.Type() == obs.DrawnTile.Type()
		}); ok {
			return a
		}
	}
	a, _ := findAction(obs.LegalActions, func(a Action) bool { return a.Kind == ActionDiscard })
	return a
}

func TestResetDealsFromDealer(t *testing.T) {
	eg := newTestEngine(DefaultOptions())
	state := NewRoundState(DefaultInitialPoint)
	state.Dealer = 2
	obs, err := eg.Reset(&state)
	require.NoError(t, err)

	assert.Equal(t, 2, obs.Seat)
	assert.Equal(t, PhaseDiscard, obs.Phase)
	for s := 0; s < 4; s++ {
		want := HandSize
		if s == 2 {
			want = HandSize + 1
		}
		assert.Len(t, eg.Players[s].Tiles, want, "seat %d", s)
	}
	assert.Equal(t, TileLimit-DeadWallSize-4*HandSize-1, eg.DeckManager.Remaining())
	require.Len(t, obs.Events, 2)
	assert.Equal(t, EventInit, obs.Events[0].Type)
	assert.Equal(t, 2, obs.Events[0].Dealer)
	assert.Equal(t, EventDraw, obs.Events[1].Type)
	assert.Equal(t, obs.DrawnTile, obs.Events[1].Tile)
	assert.Len(t, eg.Wall(), TileLimit)
	require.NoError(t, eg.CheckTileConservation())
}

func TestResetRejectsBadWall(t *testing.T) {
	eg := newTestEngine(DefaultOptions())
	wall := make([]int, TileLimit)
	for i := range wall {
		wall[i] = i
	}
	wall[5] = 4
	_, err := eg.Reset(nil, WithWall(wall))
	assert.ErrorIs(t, err, ErrInvalidWall)

	_, err = eg.Reset(nil, WithWall(wall[:100]))
	assert.ErrorIs(t, err, ErrInvalidWall)
}

func TestSameSeedSameWall(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 99
	a, b := newTestEngine(opts), newTestEngine(opts)
	_, err := a.Reset(nil)
	require.NoError(t, err)
	_, err = b.Reset(nil)
	require.NoError(t, err)
	assert.Equal(t, a.Wall(), b.Wall())
}

func simpleTsumoWall(t *testing.T) []int {
	hands := [4][]int{{4, 8, 12, 17, 20, 24, 40, 44, 48, 92, 96, 100, 53}}
	return arrangeWall(t, 0, hands, []int{54}, []int{124, 125, 126, 127, 120})
}

func TestDealerTsumo(t *testing.T) {
	opts := DefaultOptions()
	opts.Rules.HasAkaDora = false
	eg := newTestEngine(opts)
	obs, err := eg.Reset(nil, WithWall(simpleTsumoWall(t)))
	require.NoError(t, err)
	require.Equal(t, Tile(54), obs.DrawnTile)
	require.Contains(t, obs.LegalActions, Tsumo)

	res, err := eg.Step(Tsumo)
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, ReasonAgari, res.Info.Reason)
	assert.False(t, res.Info.GameOver)
	assert.Equal(t, [4]float64{3000, -1000, -1000, -1000}, res.Rewards)
	assert.Equal(t, -1, res.Seat)

	last := res.Events[len(res.Events)-1]
	assert.Equal(t, EventAgari, last.Type)
	assert.Equal(t, 2, last.Han)
	assert.Equal(t, 30, last.Fu)
	assert.Equal(t, -1, last.Pao)

	st := eg.RoundState()
	assert.Equal(t, 0, st.Dealer)
	assert.Equal(t, 1, st.Honba)
	assert.Equal(t, 0, st.Round)
	assert.Equal(t, [4]int{28000, 24000, 24000, 24000}, st.Scores)

	_, err = eg.Step(Tsumo)
	assert.ErrorIs(t, err, ErrHandFinished)
}

func TestInvalidActionLeavesStateAlone(t *testing.T) {
	eg := newTestEngine(DefaultOptions())
	obs, err := eg.Reset(nil)
	require.NoError(t, err)

	_, err = eg.Step(Ron)
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = eg.Step(Discard(NoTile))
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = eg.StepString("ACTION_FOO")
	assert.ErrorIs(t, err, ErrInvalidAction)

	assert.False(t, eg.Done())
	assert.Equal(t, obs.LegalActions, eg.LegalActions())
	assert.Len(t, eg.events, 2)
}

func TestExhaustiveDrawTenpaiPayments(t *testing.T) {
	hands := [4][]int{
		{0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 68},
		{72, 76, 80, 84, 88, 92, 96, 100, 104, 52, 56, 60, 116},
		{1, 13, 25, 37, 49, 61, 73, 85, 97, 109, 113, 121, 125},
		{5, 17, 29, 41, 53, 65, 77, 89, 101, 129, 130, 133, 134},
	}
	eg := newTestEngine(DefaultOptions())
	obs, err := eg.Reset(nil, WithWall(arrangeWall(t, 0, hands, nil, nil)))
	require.NoError(t, err)

	var total [4]float64
	var res StepResult
	for i := 0; i < 1000 && !eg.Done(); i++ {
		res, err = eg.Step(tsumogiri(obs))
		require.NoError(t, err)
		for s := range total {
			total[s] += res.Rewards[s]
		}
		obs = res.Observation
	}
	require.True(t, res.Done)
	assert.Equal(t, ReasonRyuukyoku, res.Info.Reason)
	assert.Equal(t, [4]float64{1500, 1500, -1500, -1500}, total)

	last := res.Events[len(res.Events)-1]
	assert.Equal(t, EventRyuukyoku, last.Type)
	assert.Equal(t, []int{0, 1}, last.TenpaiSeats)

	st := eg.RoundState()
	assert.Equal(t, 0, st.Dealer)
	assert.Equal(t, 1, st.Honba)
}

func TestRiichiDepositAndTsumogiriLock(t *testing.T) {
	hands := [4][]int{{0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 68}}
	eg := newTestEngine(DefaultOptions())
	obs, err := eg.Reset(nil, WithWall(arrangeWall(t, 0, hands, []int{2}, nil)))
	require.NoError(t, err)

	riichi, ok := findAction(obs.LegalActions, func(a Action) bool { return a.Kind == ActionRiichi && a.Tile.Type() == 0 })
	require.True(t, ok, "legal: %v", ActionStrings(obs.LegalActions))

	res, err := eg.Step(riichi)
	require.NoError(t, err)
	assert.Equal(t, -1000.0, res.Rewards[0])
	assert.Equal(t, 1, eg.Situation.RiichiSticks)
	assert.Equal(t, 24000, eg.Situation.Scores[0])
	assert.True(t, eg.Players[0].IsRiichi)

	var discard *Event
	for i := range res.Events {
		if res.Events[i].Type == EventDiscard {
			discard = &res.Events[i]
		}
	}
	require.NotNil(t, discard)
	assert.True(t, discard.Riichi)

	obs = res.Observation
	for i := 0; i < 100 && !eg.Done(); i++ {
		if obs.Seat == 0 && obs.Phase == PhaseDiscard {
			for _, a := range obs.LegalActions {
				if a.Kind == ActionDiscard {
					assert.Equal(t, obs.DrawnTile, a.Tile)
				}
				assert.NotEqual(t, ActionRiichi, a.Kind)
			}
			return
		}
		res, err = eg.Step(tsumogiri(obs))
		require.NoError(t, err)
		obs = res.Observation
	}
}

func TestChiiOnlyFromLeft(t *testing.T) {
	hands := [4][]int{
		{0},
		{4, 8},
		{5, 9},
		{6, 10},
	}
	eg := newTestEngine(DefaultOptions())
	_, err := eg.Reset(nil, WithWall(arrangeWall(t, 0, hands, nil, nil)))
	require.NoError(t, err)

	left := eg.legalActionsForReaction(1, 0, Tile(0), false)
	assert.Contains(t, left, Chii(1, 2))
	for _, seat := range []int{2, 3} {
		for _, a := range eg.legalActionsForReaction(seat, 0, Tile(0), false) {
			assert.NotEqual(t, ActionChii, a.Kind, "seat %d", seat)
		}
	}
	for _, a := range eg.legalActionsForReaction(1, 0, Tile(0), true) {
		assert.NotEqual(t, ActionChii, a.Kind, "chankan window")
	}
}

func TestSuukaikanByTwoPlayers(t *testing.T) {
	hands := [4][]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 68},
		{36, 37, 38},
	}
	eg := newTestEngine(DefaultOptions())
	obs, err := eg.Reset(nil, WithWall(arrangeWall(t, 0, hands, []int{100, 39}, nil)))
	require.NoError(t, err)

	for _, id := range []Tile{0, 4, 8} {
		require.Contains(t, obs.LegalActions, Ankan(id))
		res, err := eg.Step(Ankan(id))
		require.NoError(t, err)
		require.False(t, res.Done)
		obs = res.Observation
	}
	assert.Len(t, eg.DeckManager.Wang().DoraIndicators, 4)

	discard, ok := findAction(obs.LegalActions, func(a Action) bool { return a.Kind == ActionDiscard && a.Tile == 100 })
	require.True(t, ok)
	res, err := eg.Step(discard)
	require.NoError(t, err)
	obs = res.Observation
	for obs.Phase == PhaseCall {
		res, err = eg.Step(Pass)
		require.NoError(t, err)
		obs = res.Observation
	}
	require.Equal(t, 1, obs.Seat)
	require.Contains(t, obs.LegalActions, Ankan(36))

	res, err = eg.Step(Ankan(36))
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, ReasonSuukaikan, res.Info.Reason)
	assert.Equal(t, [4]float64{}, res.Rewards)
	assert.Equal(t, 1, eg.Situation.Honba)
	assert.Equal(t, 0, eg.Situation.Dealer)
}

func TestFourKansBySamePlayerContinue(t *testing.T) {
	hands := [4][]int{{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}
	eg := newTestEngine(DefaultOptions())
	obs, err := eg.Reset(nil, WithWall(arrangeWall(t, 0, hands, []int{100}, []int{13, 14, 15, 130})))
	require.NoError(t, err)

	for _, id := range []Tile{0, 4, 8, 12} {
		require.Contains(t, obs.LegalActions, Ankan(id), "legal: %v", ActionStrings(obs.LegalActions))
		res, err := eg.Step(Ankan(id))
		require.NoError(t, err)
		require.False(t, res.Done)
		obs = res.Observation
	}
	assert.Equal(t, 0, obs.Seat)
	assert.Len(t, eg.Players[0].Tiles, 2)
	for _, a := range obs.LegalActions {
		assert.NotEqual(t, ActionAnkan, a.Kind)
	}
	assert.Len(t, eg.DeckManager.Wang().DoraIndicators, 5)
}

// toggleEvaluator 可以在判定可和之后改为拒绝，模拟枚举与结算不一致
type toggleEvaluator struct {
	inner  HandEvaluator
	reject bool
}

func (e *toggleEvaluator) EstimateHandValue(closed []int, winTile int, melds []calculator.Meld, dora []int, cfg calculator.HandConfig) calculator.HandResponse {
	if e.reject {
		return calculator.HandResponse{Error: errors.New("rejected")}
	}
	return e.inner.EstimateHandValue(closed, winTile, melds, dora, cfg)
}

func TestEvaluatorRejectionEndsHand(t *testing.T) {
	opts := DefaultOptions()
	opts.Rules.HasAkaDora = false
	searcher := calculator.NewSearcher(nil)
	ev := &toggleEvaluator{inner: calculator.NewHandCalculator(searcher)}
	eg := NewRiichiMahjong4p(opts, ev, searcher)
	obs, err := eg.Reset(nil, WithWall(simpleTsumoWall(t)))
	require.NoError(t, err)
	require.Contains(t, obs.LegalActions, Tsumo)

	ev.reject = true
	res, err := eg.Step(Tsumo)
	assert.ErrorIs(t, err, ErrEvaluatorRejected)
	assert.True(t, res.Done)
	assert.True(t, strings.HasPrefix(res.Info.Reason, reasonAgariError))
	assert.Equal(t, [4]int{25000, 25000, 25000, 25000}, eg.Situation.Scores)
}

func TestFuritenBlocksRon(t *testing.T) {
	opts := DefaultOptions()
	opts.Rules.HasAkaDora = false
	eg := newTestEngine(opts)
	hands := [4][]int{1: {4, 8, 12, 17, 20, 24, 40, 44, 48, 92, 96, 100, 53}}
	_, err := eg.Reset(nil, WithWall(arrangeWall(t, 0, hands, nil, []int{124, 125, 126, 127, 120})))
	require.NoError(t, err)

	p := eg.Players[1]
	assert.Contains(t, eg.legalActionsForReaction(1, 0, Tile(55), false), Ron)

	p.TempFuriten = true
	assert.NotContains(t, eg.legalActionsForReaction(1, 0, Tile(55), false), Ron)
	p.TempFuriten = false

	// 自己打过 5p，永久振听
	p.DiscardPile = append(p.DiscardPile, RiverTile{Tile: 54})
	assert.NotContains(t, eg.legalActionsForReaction(1, 0, Tile(55), false), Ron)
	assert.NotContains(t, eg.legalActionsForReaction(1, 3, Tile(55), false), Ron)
}
