package mahjong

import (
	"testing"

	"riichienv/framework/game/engines/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetForSettlement(t *testing.T, opts Options, state RoundState) *RiichiMahjong4p {
	t.Helper()
	eg := newTestEngine(opts)
	_, err := eg.Reset(&state)
	require.NoError(t, err)
	eg.stepDelta = [4]int{}
	return eg
}

func TestSettleAgariPayments(t *testing.T) {
	cases := []struct {
		name   string
		honba  int
		sticks int
		claim  winClaim
		want   [4]int
	}{
		{
			name:  "non-dealer tsumo with honba",
			honba: 1,
			claim: winClaim{winner: 1, from: 1, tsumo: true, pao: -1,
				result: calculator.HandResponse{Cost: calculator.Cost{Main: 2000, Additional: 1000}}},
			want: [4]int{-2100, 4300, -1100, -1100},
		},
		{
			name:   "dealer ron collects sticks",
			sticks: 2,
			claim: winClaim{winner: 0, from: 3, pao: -1,
				result: calculator.HandResponse{Cost: calculator.Cost{Main: 12000}}},
			want: [4]int{14000, 0, 0, -12000},
		},
		{
			name: "pao tsumo paid by liable seat",
			claim: winClaim{winner: 1, from: 1, tsumo: true, pao: 3,
				result: calculator.HandResponse{Cost: calculator.Cost{Main: 16000, Additional: 8000}}},
			want: [4]int{0, 32000, 0, -32000},
		},
		{
			name:  "pao ron split, discarder pays honba",
			honba: 2,
			claim: winClaim{winner: 1, from: 2, pao: 3,
				result: calculator.HandResponse{Cost: calculator.Cost{Main: 32000}}},
			want: [4]int{0, 32600, -16600, -16000},
		},
		{
			name: "pao tsumo with a second yakuman",
			claim: winClaim{winner: 1, from: 1, tsumo: true, pao: 3,
				result: calculator.HandResponse{
					Cost:    calculator.Cost{Main: 32000, Additional: 16000},
					Yakuman: 2,
					Yaku: []calculator.YakuResult{
						{Yaku: calculator.YakuDaisangen, Yakuman: 1},
						{Yaku: calculator.YakuTsuuiisou, Yakuman: 1},
					},
				}},
			want: [4]int{-16000, 64000, -8000, -40000},
		},
		{
			name: "pao ron with a second yakuman",
			claim: winClaim{winner: 1, from: 2, pao: 3,
				result: calculator.HandResponse{
					Cost:    calculator.Cost{Main: 64000},
					Yakuman: 2,
					Yaku: []calculator.YakuResult{
						{Yaku: calculator.YakuDaisangen, Yakuman: 1},
						{Yaku: calculator.YakuTsuuiisou, Yakuman: 1},
					},
				}},
			want: [4]int{0, 64000, -48000, -16000},
		},
		{
			name: "pao ron by liable seat itself",
			claim: winClaim{winner: 1, from: 3, pao: 3,
				result: calculator.HandResponse{Cost: calculator.Cost{Main: 32000}}},
			want: [4]int{0, 32000, 0, -32000},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := NewRoundState(DefaultInitialPoint)
			state.Honba = tc.honba
			state.RiichiSticks = tc.sticks
			eg := resetForSettlement(t, DefaultOptions(), state)

			require.NoError(t, eg.settleAgari(tc.claim))
			assert.Equal(t, tc.want, eg.stepDelta)
			assert.Equal(t, 0, eg.Situation.RiichiSticks)
			assert.True(t, eg.Done())
		})
	}
}

func TestPaoRounding(t *testing.T) {
	opts := DefaultOptions()
	eg := newTestEngine(opts)
	assert.Equal(t, 1900, eg.roundPao(1950))

	opts.PaoRounding = ParsePaoRounding("round")
	eg = newTestEngine(opts)
	assert.Equal(t, 2000, eg.roundPao(1950))
	assert.Equal(t, 1900, eg.roundPao(1949))
}

func TestAdvanceDealer(t *testing.T) {
	eg := resetForSettlement(t, DefaultOptions(), RoundState{Round: 3, Honba: 2, Dealer: 3, Scores: [4]int{25000, 25000, 25000, 25000}})
	eg.advanceDealer(true)
	assert.Equal(t, 3, eg.Situation.Honba)
	assert.Equal(t, 3, eg.Situation.Dealer)

	eg.advanceDealer(false)
	assert.Equal(t, 0, eg.Situation.Honba)
	assert.Equal(t, 0, eg.Situation.Dealer)
	assert.Equal(t, 4, eg.Situation.Round)
	assert.Equal(t, WindSouth, eg.Situation.RoundWind())
	assert.Equal(t, WindEast, eg.Situation.SeatWind(0))
	assert.Equal(t, WindNorth, eg.Situation.SeatWind(3))
}

func TestLeftoverSticksGoToTop(t *testing.T) {
	state := RoundState{Round: DefaultNumRounds, RiichiSticks: 2, Scores: [4]int{20000, 31000, 31000, 16000}}
	eg := resetForSettlement(t, DefaultOptions(), state)
	eg.finishHand(ReasonRyuukyoku)

	assert.True(t, eg.Info().GameOver)
	assert.Equal(t, [4]int{20000, 33000, 31000, 16000}, eg.Situation.Scores)
	assert.Equal(t, 0, eg.Situation.RiichiSticks)
}

func TestNegativeScoreEndsGame(t *testing.T) {
	state := RoundState{Scores: [4]int{-100, 30000, 35100, 35000}}
	eg := resetForSettlement(t, DefaultOptions(), state)
	eg.finishHand(ReasonAgari)
	assert.True(t, eg.Info().GameOver)
}

func TestPaoDetection(t *testing.T) {
	eg := resetForSettlement(t, DefaultOptions(), NewRoundState(DefaultInitialPoint))
	p := eg.Players[1]
	pung := func(k int) Meld {
		base := Tile(k * 4)
		return Meld{Type: MeldPung, Tiles: []Tile{base, base + 1, base + 2}, From: 2, Called: base}
	}
	p.Melds = append(p.Melds, pung(int(calculator.White)), pung(int(calculator.Green)))
	eg.checkPao(1, 2, p.Melds[1])
	assert.Equal(t, -1, eg.paoDragon[1])

	third := pung(int(calculator.Red))
	p.Melds = append(p.Melds, third)
	eg.checkPao(1, 2, third)
	assert.Equal(t, 2, eg.paoDragon[1])

	resp := calculator.HandResponse{Yaku: []calculator.YakuResult{{Yaku: calculator.YakuDaisangen, Yakuman: 1}}}
	assert.Equal(t, 2, eg.paoFor(1, resp))
	assert.Equal(t, -1, eg.paoFor(1, calculator.HandResponse{}))
	assert.Equal(t, -1, eg.paoFor(0, resp))
}
