package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrNotAgari    = errors.New("hand_not_winning")
	ErrNoYaku      = errors.New("no_yaku")
	ErrInvalidHand = errors.New("invalid_hand")
)

// OptionalRules 规则开关
type OptionalRules struct {
	HasOpenTanyao    bool
	HasAkaDora       bool
	HasDoubleYakuman bool
}

// HandConfig 和牌时的场况
type HandConfig struct {
	IsTsumo    bool
	IsRiichi   bool
	IsIppatsu  bool
	IsRinshan  bool
	IsChankan  bool
	IsHaitei   bool
	IsHoutei   bool
	PlayerWind TileType
	RoundWind  TileType
	Options    OptionalRules
}

func (c HandConfig) IsDealer() bool { return c.PlayerWind == East }

type YakuResult struct {
	Yaku    Yaku
	Han     int
	Yakuman int // 役满倍数
}

func (r YakuResult) Name() string { return r.Yaku.String() }

// HandResponse Error 非空表示不能和牌
type HandResponse struct {
	Error   error
	Han     int
	Fu      int
	Cost    Cost
	Yaku    []YakuResult
	Yakuman int
}

func (r HandResponse) HasYaku(y Yaku) bool {
	for _, it := range r.Yaku {
		if it.Yaku == y {
			return true
		}
	}
	return false
}

// HandCalculator 默认的和了判定与点数计算，无状态，可并发使用
type HandCalculator struct {
	searcher *Searcher
}

func NewHandCalculator(searcher *Searcher) *HandCalculator {
	if searcher == nil {
		searcher = NewSearcher(nil)
	}
	return &HandCalculator{searcher: searcher}
}

// EstimateHandValue closed 为门内手牌（含和了牌），melds 含暗杠，dora 为宝牌指示牌编号
func (c *HandCalculator) EstimateHandValue(closed []int, winTile int, melds []Meld, dora []int, cfg HandConfig) HandResponse {
	if len(closed)+3*len(melds) != 14 {
		return HandResponse{Error: fmt.Errorf("%w: %d closed tiles with %d melds", ErrInvalidHand, len(closed), len(melds))}
	}
	found := false
	for _, id := range closed {
		if id == winTile {
			found = true
			break
		}
	}
	if !found {
		return HandResponse{Error: fmt.Errorf("%w: win tile %d not in hand", ErrInvalidHand, winTile)}
	}

	concealed := Hand34FromIDs(closed)
	counts := concealed
	closedHand := true
	for _, m := range melds {
		for _, id := range m.Tiles {
			counts[TypeOf(id)]++
		}
		if m.Opened {
			closedHand = false
		}
	}
	winType := TypeOf(winTile)

	if !c.searcher.IsAgariAll(concealed, len(melds)) {
		return HandResponse{Error: ErrNotAgari}
	}

	var best *HandResponse
	consider := func(r HandResponse) {
		if r.Error != nil {
			return
		}
		if best == nil || better(r, *best, cfg) {
			cp := r
			best = &cp
		}
	}

	if len(melds) == 0 && IsAgariKokushi(concealed) {
		mult, y := 1, YakuKokushi
		if concealed[winType] == 2 {
			mult, y = 2, YakuKokushi13
		}
		if !cfg.Options.HasDoubleYakuman {
			mult = 1
		}
		consider(finish(cfg, 0, 0, []YakuResult{{Yaku: y, Yakuman: mult}}, mult))
	}

	base := &YakuContext{
		WinTile:   winType,
		Closed:    closedHand,
		Counts:    counts,
		Concealed: concealed,
		Config:    &cfg,
	}
	doraHan := countDora(closed, melds, dora, cfg.Options.HasAkaDora)

	if len(melds) == 0 && IsAgariChiitoi(concealed) {
		ctx := *base
		ctx.Chiitoi = true
		ctx.Wait = WaitTanki
		for t, n := range concealed {
			if n == 2 {
				ctx.Blocks = append(ctx.Blocks, Block{Kind: BlockPair, First: TileType(t)})
			}
		}
		consider(evaluate(&ctx, doraHan))
	}

	fixed := meldBlocks(melds)
	for _, division := range DivideHand(concealed, 4-len(melds)) {
		for i, b := range division {
			if !b.Contains(winType) {
				continue
			}
			ctx := *base
			ctx.Blocks = make([]Block, 0, 5)
			ctx.Blocks = append(ctx.Blocks, division...)
			ctx.Blocks = append(ctx.Blocks, fixed...)
			ctx.Wait = waitOf(b, winType)
			if b.Kind == BlockTriplet && !cfg.IsTsumo {
				// 荣和完成的刻子视为明刻
				ctx.Blocks[i].Concealed = false
				ctx.Blocks[i].Opened = true
			}
			consider(evaluate(&ctx, doraHan))
		}
	}

	if best == nil {
		return HandResponse{Error: ErrNoYaku}
	}
	return *best
}

// better 优先役满倍数，其次点数，再比番、符
func better(a, b HandResponse, cfg HandConfig) bool {
	if a.Yakuman != b.Yakuman {
		return a.Yakuman > b.Yakuman
	}
	ta := a.Cost.Total(cfg.IsDealer(), cfg.IsTsumo)
	tb := b.Cost.Total(cfg.IsDealer(), cfg.IsTsumo)
	if ta != tb {
		return ta > tb
	}
	if a.Han != b.Han {
		return a.Han > b.Han
	}
	return a.Fu > b.Fu
}

func waitOf(b Block, win TileType) WaitKind {
	switch b.Kind {
	case BlockPair:
		return WaitTanki
	case BlockTriplet:
		return WaitShanpon
	}
	switch {
	case win == b.First+1:
		return WaitKanchan
	case win == b.First && (b.First+2).Num() == 9:
		return WaitPenchan
	case win == b.First+2 && b.First.Num() == 1:
		return WaitPenchan
	default:
		return WaitRyanmen
	}
}

func evaluate(ctx *YakuContext, doraHan [2]int) HandResponse {
	var yakus []YakuResult
	mult := 0
	for _, checker := range RiichiMahjong4pYakumanRegistry {
		_, m := checker.Check(ctx)
		if m == 0 {
			continue
		}
		if m > 1 && !ctx.Config.Options.HasDoubleYakuman {
			m = 1
		}
		mult += m
		yakus = append(yakus, YakuResult{Yaku: checker.ID(), Yakuman: m})
	}
	if mult > 0 {
		return finish(*ctx.Config, 0, calculateFu(ctx, false), yakus, mult)
	}

	total := 0
	pinfu := false
	for _, checker := range RiichiMahjong4pYakuRegistry {
		h, _ := checker.Check(ctx)
		if h == 0 {
			continue
		}
		if checker.ID() == YakuPinfu {
			pinfu = true
		}
		total += h
		yakus = append(yakus, YakuResult{Yaku: checker.ID(), Han: h})
	}
	if total == 0 {
		return HandResponse{Error: ErrNoYaku}
	}
	if doraHan[0] > 0 {
		yakus = append(yakus, YakuResult{Yaku: YakuDora, Han: doraHan[0]})
	}
	if doraHan[1] > 0 {
		yakus = append(yakus, YakuResult{Yaku: YakuAkaDora, Han: doraHan[1]})
	}
	total += doraHan[0] + doraHan[1]
	return finish(*ctx.Config, total, calculateFu(ctx, pinfu), yakus, 0)
}

func finish(cfg HandConfig, han, fu int, yakus []YakuResult, mult int) HandResponse {
	base := basePoints(han, fu, mult)
	r := HandResponse{
		Han:     han,
		Fu:      fu,
		Cost:    calculateCost(base, cfg.IsDealer(), cfg.IsTsumo),
		Yaku:    yakus,
		Yakuman: mult,
	}
	if mult > 0 {
		r.Han = 13 * mult
	}
	return r
}

// countDora 返回 [宝牌数, 红宝牌数]
func countDora(closed []int, melds []Meld, indicators []int, aka bool) [2]int {
	var out [2]int
	count := func(id int) {
		for _, ind := range indicators {
			if DoraOf(TypeOf(ind)) == TypeOf(id) {
				out[0]++
			}
		}
		if aka && IsAkaDora(id) {
			out[1]++
		}
	}
	for _, id := range closed {
		count(id)
	}
	for _, m := range melds {
		for _, id := range m.Tiles {
			count(id)
		}
	}
	return out
}
