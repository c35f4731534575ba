package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ids 按顺序为每个牌种分配物理编号（同种依次取第 0..3 张）
func ids(types ...TileType) []int {
	used := make(map[TileType]int)
	out := make([]int, 0, len(types))
	for _, t := range types {
		out = append(out, int(t)*4+used[t])
		used[t]++
	}
	return out
}

func noAka() HandConfig {
	return HandConfig{PlayerWind: East, RoundWind: East, Options: OptionalRules{HasOpenTanyao: true}}
}

func TestEstimateHandValue_TanyaoTsumoDealer(t *testing.T) {
	calc := NewHandCalculator(NewSearcher(nil))
	closed := ids(Man2, Man3, Man4, Man5, Man6, Man7, Pin2, Pin3, Pin4, So6, So7, So8, Pin5, Pin5)
	cfg := noAka()
	cfg.IsTsumo = true

	resp := calc.EstimateHandValue(closed, closed[13], nil, []int{120}, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 2, resp.Han)
	assert.Equal(t, 30, resp.Fu)
	assert.Equal(t, Cost{Main: 1000, Additional: 1000}, resp.Cost)
	assert.True(t, resp.HasYaku(YakuTanyao))
	assert.True(t, resp.HasYaku(YakuTsumo))
	assert.False(t, resp.HasYaku(YakuPinfu))
}

func TestEstimateHandValue_PinfuRonNonDealer(t *testing.T) {
	calc := NewHandCalculator(nil)
	closed := ids(Man2, Man3, Man4, Man5, Man6, Man7, Pin2, Pin3, Pin4, So6, So7, Pin5, Pin5, So8)
	cfg := noAka()
	cfg.PlayerWind = South

	resp := calc.EstimateHandValue(closed, closed[13], nil, []int{120}, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 2, resp.Han)
	assert.Equal(t, 30, resp.Fu)
	assert.Equal(t, 2000, resp.Cost.Main)
	assert.Equal(t, 0, resp.Cost.Additional)
	assert.True(t, resp.HasYaku(YakuPinfu))
}

func TestEstimateHandValue_ChiitoiRiichiTsumo(t *testing.T) {
	calc := NewHandCalculator(nil)
	closed := ids(Man1, Man1, Man3, Man3, Pin5, Pin5, Pin7, Pin7, So9, So9, East, East, White, White)
	cfg := noAka()
	cfg.PlayerWind = West
	cfg.IsTsumo = true
	cfg.IsRiichi = true

	// 指示牌 3m，宝牌 4m 不在手里
	resp := calc.EstimateHandValue(closed, closed[13], nil, []int{int(Man3)*4 + 2}, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 4, resp.Han)
	assert.Equal(t, 25, resp.Fu)
	assert.Equal(t, Cost{Main: 3200, Additional: 1600}, resp.Cost)
	assert.True(t, resp.HasYaku(YakuChiitoi))
	assert.False(t, resp.HasYaku(YakuDora))

	// 指示牌北，宝牌东对子 +2 番，跳满
	resp = calc.EstimateHandValue(closed, closed[13], nil, []int{int(North) * 4}, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 6, resp.Han)
	assert.Equal(t, Cost{Main: 6000, Additional: 3000}, resp.Cost)
	assert.True(t, resp.HasYaku(YakuDora))
}

func TestEstimateHandValue_Rejections(t *testing.T) {
	calc := NewHandCalculator(nil)

	// 非和牌型
	closed := ids(Man1, Man2, Man4, Man5, Man6, Man7, Pin2, Pin3, Pin4, So6, So7, So8, Pin5, Pin5)
	resp := calc.EstimateHandValue(closed, closed[13], nil, nil, noAka())
	if !errors.Is(resp.Error, ErrNotAgari) {
		t.Fatalf("expected ErrNotAgari, got %v", resp.Error)
	}

	// 副露无役：碰 9s 后荣和，手里有幺九牌
	closed = ids(Man1, Man2, Man3, Man5, Man6, Man7, Pin2, Pin3, Pin4, Pin5, Pin5)
	pon := Meld{Kind: MeldPon, Tiles: ids(So9, So9, So9), Opened: true}
	cfg := noAka()
	cfg.PlayerWind = North
	resp = calc.EstimateHandValue(closed, closed[10], []Meld{pon}, nil, cfg)
	if !errors.Is(resp.Error, ErrNoYaku) {
		t.Fatalf("expected ErrNoYaku, got %v", resp.Error)
	}

	// 张数不符
	resp = calc.EstimateHandValue(closed[:9], closed[0], nil, nil, cfg)
	if !errors.Is(resp.Error, ErrInvalidHand) {
		t.Fatalf("expected ErrInvalidHand, got %v", resp.Error)
	}
}

func TestEstimateHandValue_OpenTanyaoRule(t *testing.T) {
	calc := NewHandCalculator(nil)
	closed := ids(Man2, Man3, Man4, Man5, Man6, Man7, Pin2, Pin3, Pin4, Pin5, Pin5)
	pon := Meld{Kind: MeldPon, Tiles: ids(So8, So8, So8), Opened: true}
	cfg := noAka()
	cfg.PlayerWind = South

	resp := calc.EstimateHandValue(closed, closed[10], []Meld{pon}, nil, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 1, resp.Han)
	assert.Equal(t, 30, resp.Fu)
	assert.Equal(t, 1000, resp.Cost.Main)

	cfg.Options.HasOpenTanyao = false
	resp = calc.EstimateHandValue(closed, closed[10], []Meld{pon}, nil, cfg)
	assert.ErrorIs(t, resp.Error, ErrNoYaku)
}

func TestEstimateHandValue_Kokushi13Double(t *testing.T) {
	calc := NewHandCalculator(nil)
	closed := ids(Man1, Man9, Pin1, Pin9, So1, So9, East, South, West, North, White, Green, Red, Red)
	cfg := noAka()
	cfg.PlayerWind = South
	cfg.Options.HasDoubleYakuman = true

	resp := calc.EstimateHandValue(closed, closed[13], nil, nil, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 2, resp.Yakuman)
	assert.Equal(t, 64000, resp.Cost.Main)
	assert.True(t, resp.HasYaku(YakuKokushi13))

	cfg.Options.HasDoubleYakuman = false
	resp = calc.EstimateHandValue(closed, closed[13], nil, nil, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 1, resp.Yakuman)
	assert.Equal(t, 32000, resp.Cost.Main)
}

func TestEstimateHandValue_SuuankouRonOnShanponIsSanankou(t *testing.T) {
	calc := NewHandCalculator(nil)
	closed := ids(Man2, Man2, Man2, Pin4, Pin4, Pin4, So7, So7, So7, Man8, Man8, So3, So3, So3)
	cfg := noAka()
	cfg.PlayerWind = South

	// 荣和双碰：最后一组刻子算明刻，只有三暗刻+对对
	ron := calc.EstimateHandValue(closed, closed[13], nil, nil, cfg)
	require.NoError(t, ron.Error)
	assert.Equal(t, 0, ron.Yakuman)
	assert.True(t, ron.HasYaku(YakuSananko))
	assert.True(t, ron.HasYaku(YakuToitoi))

	cfg.IsTsumo = true
	tsumo := calc.EstimateHandValue(closed, closed[13], nil, nil, cfg)
	require.NoError(t, tsumo.Error)
	assert.Equal(t, 1, tsumo.Yakuman)
	assert.True(t, tsumo.HasYaku(YakuSuuankou))
	assert.Equal(t, Cost{Main: 16000, Additional: 8000}, tsumo.Cost)
}

func TestEstimateHandValue_DoraAndAka(t *testing.T) {
	calc := NewHandCalculator(nil)
	// 16 为红五万
	closed := []int{4, 8, 12, 16, 20, 24, 40, 44, 48, 92, 96, 53, 54, 100}
	cfg := noAka()
	cfg.PlayerWind = South
	cfg.Options.HasAkaDora = true

	// 指示牌 1m(0) -> 宝牌 2m
	resp := calc.EstimateHandValue(closed, 100, nil, []int{0}, cfg)
	require.NoError(t, resp.Error)
	// 平和 + 断幺 + 宝牌1 + 赤1
	assert.True(t, resp.HasYaku(YakuPinfu))
	assert.True(t, resp.HasYaku(YakuDora))
	assert.True(t, resp.HasYaku(YakuAkaDora))
	assert.Equal(t, 4, resp.Han)
	assert.Equal(t, 30, resp.Fu)
	assert.Equal(t, 7700, resp.Cost.Main)
}

func TestEstimateHandValue_Daisangen(t *testing.T) {
	calc := NewHandCalculator(nil)
	closed := ids(White, White, White, Green, Green, Green, Man2, Man3, Man4, Pin9, Pin9)
	pon := Meld{Kind: MeldPon, Tiles: ids(Red, Red, Red), Opened: true}
	cfg := noAka()
	cfg.PlayerWind = South
	cfg.IsTsumo = true

	resp := calc.EstimateHandValue(closed, closed[10], []Meld{pon}, nil, cfg)
	require.NoError(t, resp.Error)
	assert.Equal(t, 1, resp.Yakuman)
	assert.True(t, resp.HasYaku(YakuDaisangen))
	assert.Equal(t, Cost{Main: 16000, Additional: 8000}, resp.Cost)
}
