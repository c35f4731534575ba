package mahjong

import (
	"riichienv/framework/game/engines/calculator"
)

// shantenOf 当前手牌（含副露）的向听数
func (eg *RiichiMahjong4p) shantenOf(h calculator.Hand34, melds []Meld) int {
	return eg.shanten.CalculateShanten(h, toCalculatorMelds(melds))
}

// waitsOf 13 张（扣除副露）时的听牌种类，自己已用满 4 张的牌种不算
func (eg *RiichiMahjong4p) waitsOf(h calculator.Hand34, melds []Meld) []calculator.TileType {
	cm := toCalculatorMelds(melds)
	if eg.shanten.CalculateShanten(h, cm) != 0 {
		return nil
	}
	var waits []calculator.TileType
	for k := calculator.TileType(0); k < calculator.NumTileTypes; k++ {
		used := int(h[k])
		for _, m := range melds {
			for _, t := range m.Tiles {
				if t.Type() == k {
					used++
				}
			}
		}
		if used >= 4 {
			continue
		}
		h[k]++
		if eg.shanten.CalculateShanten(h, cm) == -1 {
			waits = append(waits, k)
		}
		h[k]--
	}
	return waits
}

// isFuriten 振听：自己牌河中有听的牌，或同巡/立直后见逃
func (eg *RiichiMahjong4p) isFuriten(p *PlayerImage) bool {
	if p.TempFuriten || p.RiichiFuriten {
		return true
	}
	for _, k := range eg.waitsOf(p.Hand34(), p.Melds) {
		if p.HasDiscardedType(k) {
			return true
		}
	}
	return false
}

// handConfig 和牌时的场况
func (eg *RiichiMahjong4p) handConfig(seat int, tsumo, chankan bool) calculator.HandConfig {
	p := eg.Players[seat]
	lastTile := eg.DeckManager.Remaining() == 0
	return calculator.HandConfig{
		IsTsumo:    tsumo,
		IsRiichi:   p.IsRiichi,
		IsIppatsu:  p.IsRiichi && p.Ippatsu,
		IsRinshan:  tsumo && p.Rinshan,
		IsChankan:  chankan,
		IsHaitei:   tsumo && lastTile && !p.Rinshan,
		IsHoutei:   !tsumo && lastTile && !chankan,
		PlayerWind: eg.Situation.SeatWind(seat).TileType(),
		RoundWind:  eg.Situation.RoundWind().TileType(),
		Options:    eg.opts.Rules.toCalculator(),
	}
}

// evaluateWin 自摸时手牌已含和了牌，荣和时补上别家的牌
func (eg *RiichiMahjong4p) evaluateWin(seat int, winTile Tile, tsumo, chankan bool) calculator.HandResponse {
	p := eg.Players[seat]
	closed := tileIDs(p.Tiles)
	if !tsumo {
		closed = append(closed, int(winTile))
	}
	return eg.evaluator.EstimateHandValue(
		closed,
		int(winTile),
		toCalculatorMelds(p.Melds),
		eg.DeckManager.DoraIndicatorIDs(),
		eg.handConfig(seat, tsumo, chankan),
	)
}

// canKyuushu 九种九牌：第一巡、无人鸣牌、九种以上幺九牌
func (eg *RiichiMahjong4p) canKyuushu(p *PlayerImage) bool {
	if !p.FirstTurn || eg.anyCall {
		return false
	}
	kinds := 0
	h := p.Hand34()
	for k := calculator.TileType(0); k < calculator.NumTileTypes; k++ {
		if h[k] > 0 && k.IsYaochu() {
			kinds++
		}
	}
	return kinds >= 9
}

// isNagashi 流局满贯：牌河全是幺九且没有被鸣走过
func isNagashi(p *PlayerImage) bool {
	if !p.Nagashi || len(p.DiscardPile) == 0 {
		return false
	}
	for _, r := range p.DiscardPile {
		if r.Claimed || !r.Tile.Type().IsYaochu() {
			return false
		}
	}
	return true
}

// ankanKeepsWaits 立直后暗杠不能改变听牌
func (eg *RiichiMahjong4p) ankanKeepsWaits(p *PlayerImage, k calculator.TileType) bool {
	before := p.Hand34()
	before[p.NewestTile.Type()]--
	beforeWaits := eg.waitsOf(before, p.Melds)

	after := p.Hand34()
	after[k] -= 4
	kan := Meld{Type: MeldAnkan, Tiles: []Tile{Tile(k * 4), Tile(k*4 + 1), Tile(k*4 + 2), Tile(k*4 + 3)}, From: -1, Called: NoTile}
	afterWaits := eg.waitsOf(after, append(append([]Meld(nil), p.Melds...), kan))

	if len(beforeWaits) == 0 || len(beforeWaits) != len(afterWaits) {
		return false
	}
	for i := range beforeWaits {
		if beforeWaits[i] != afterWaits[i] {
			return false
		}
	}
	return true
}

// checkPao 碰/大明杠成立第三组三元牌或第四组风牌时，放出这张牌的人包牌
func (eg *RiichiMahjong4p) checkPao(claimer, discarder int, m Meld) {
	if m.Type != MeldPung && m.Type != MeldDaiminkan {
		return
	}
	k := m.TileType()
	if !k.IsHonor() {
		return
	}
	dragons, winds := 0, 0
	for _, it := range eg.Players[claimer].Melds {
		if it.Type == MeldChii {
			continue
		}
		switch t := it.TileType(); {
		case t.IsDragon():
			dragons++
		case t.IsWind():
			winds++
		}
	}
	if k.IsDragon() && dragons == 3 {
		eg.paoDragon[claimer] = discarder
	}
	if k.IsWind() && winds == 4 {
		eg.paoWind[claimer] = discarder
	}
}

// paoFor 和了役中含大三元/大四喜且有责任者时返回责任者座位
func (eg *RiichiMahjong4p) paoFor(seat int, resp calculator.HandResponse) int {
	if resp.HasYaku(calculator.YakuDaisangen) && eg.paoDragon[seat] >= 0 {
		return eg.paoDragon[seat]
	}
	if resp.HasYaku(calculator.YakuDaisushi) && eg.paoWind[seat] >= 0 {
		return eg.paoWind[seat]
	}
	return -1
}

// isSuukaikan 四杠散了：四个杠且不是同一个人
func (eg *RiichiMahjong4p) isSuukaikan() bool {
	if len(eg.kanMakers) < maxKans {
		return false
	}
	for _, s := range eg.kanMakers[1:] {
		if s != eg.kanMakers[0] {
			return true
		}
	}
	return false
}

// isSuufonRenda 四风连打：第一巡无人鸣牌，四家打出同一种风牌
func (eg *RiichiMahjong4p) isSuufonRenda() bool {
	if eg.anyCall || eg.discardCount != 4 {
		return false
	}
	first := eg.Players[0].DiscardPile
	if len(first) != 1 || !first[0].Tile.Type().IsWind() {
		return false
	}
	for _, p := range eg.Players[1:] {
		if len(p.DiscardPile) != 1 || p.DiscardPile[0].Tile.Type() != first[0].Tile.Type() {
			return false
		}
	}
	return true
}

func (eg *RiichiMahjong4p) allRiichi() bool {
	for _, p := range eg.Players {
		if !p.IsRiichi {
			return false
		}
	}
	return true
}
