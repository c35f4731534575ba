package mahjong

import (
	"riichienv/framework/game/engines/calculator"
)

// legalActionsForTurn 出牌者的可选操作：打牌、自摸、暗杠、加杠、立直、九种九牌
func (eg *RiichiMahjong4p) legalActionsForTurn(seat int) []Action {
	p := eg.Players[seat]
	if p.AfterCall {
		return eg.discardOptions(p)
	}

	actions := make([]Action, 0, 16)
	if p.NewestTile != NoTile {
		if resp := eg.evaluateWin(seat, p.NewestTile, true, false); resp.Error == nil {
			actions = append(actions, Tsumo)
		}
	}
	if p.IsRiichi {
		// 立直后只能摸切
		actions = append(actions, Discard(p.NewestTile))
	} else {
		actions = append(actions, eg.discardOptions(p)...)
	}
	actions = append(actions, eg.kanOptions(p)...)
	actions = append(actions, eg.riichiOptions(seat)...)
	if eg.canKyuushu(p) {
		actions = append(actions, Kyuushu)
	}
	return actions
}

// discardOptions 每种牌只保留编号最小的一张；开启赤宝牌时红五单独列出
func (eg *RiichiMahjong4p) discardOptions(p *PlayerImage) []Action {
	var seen [calculator.NumTileTypes]bool
	out := make([]Action, 0, len(p.Tiles))
	for _, t := range p.Tiles {
		if eg.opts.Rules.HasAkaDora && t.IsRedFive() {
			out = append(out, Discard(t))
			continue
		}
		if seen[t.Type()] {
			continue
		}
		seen[t.Type()] = true
		out = append(out, Discard(t))
	}
	return out
}

// kanOptions 暗杠与加杠，需要牌山还能补岭上牌
func (eg *RiichiMahjong4p) kanOptions(p *PlayerImage) []Action {
	if eg.DeckManager.Remaining() == 0 || len(eg.kanMakers) >= maxKans {
		return nil
	}
	var out []Action
	h := p.Hand34()
	for k := calculator.TileType(0); k < calculator.NumTileTypes; k++ {
		if h[k] != 4 {
			continue
		}
		if p.IsRiichi && (p.NewestTile == NoTile || p.NewestTile.Type() != k || !eg.ankanKeepsWaits(p, k)) {
			continue
		}
		for _, t := range p.Tiles {
			if t.Type() == k {
				out = append(out, Ankan(t))
				break
			}
		}
	}
	if p.NewestTile != NoTile {
		for _, m := range p.Melds {
			if m.Type == MeldPung && m.TileType() == p.NewestTile.Type() {
				out = append(out, Kakan(p.NewestTile))
			}
		}
	}
	return out
}

// riichiOptions 门清、未立直、点数够供托，打出后听牌
func (eg *RiichiMahjong4p) riichiOptions(seat int) []Action {
	p := eg.Players[seat]
	if p.IsRiichi || !p.IsConcealed() || eg.Situation.Scores[seat] < eg.opts.RiichiDeposit {
		return nil
	}
	var out []Action
	for _, d := range eg.discardOptions(p) {
		h := p.Hand34()
		h[d.Tile.Type()]--
		if eg.shantenOf(h, p.Melds) == 0 {
			out = append(out, Riichi(d.Tile))
		}
	}
	return out
}

// legalActionsForReaction 非出牌者对打出（或加杠）的牌的反应
func (eg *RiichiMahjong4p) legalActionsForReaction(seat, discarder int, tile Tile, chankan bool) []Action {
	p := eg.Players[seat]
	actions := []Action{Pass}

	if resp := eg.evaluateWin(seat, tile, false, chankan); resp.Error == nil && !eg.isFuriten(p) {
		actions = append(actions, Ron)
	}
	// 抢杠只能荣和；立直后不能鸣牌；河底牌不能鸣
	if chankan || p.IsRiichi || eg.DeckManager.Remaining() == 0 {
		return actions
	}

	k := tile.Type()
	n := p.CountType(k)
	if n >= 2 {
		actions = append(actions, Pung)
	}
	if n == 3 && len(eg.kanMakers) < maxKans {
		actions = append(actions, Daiminkan)
	}
	if seat == (discarder+1)%4 && k.IsNumber() {
		actions = append(actions, eg.chiiOptions(p, k)...)
	}
	return actions
}

// chiiOptions 三种位置：k 在顺子的右、中、左，不能跨花色
func (eg *RiichiMahjong4p) chiiOptions(p *PlayerImage, k calculator.TileType) []Action {
	num := k.Num()
	has := func(t calculator.TileType) bool { return p.CountType(t) > 0 }
	var out []Action
	if num >= 3 && has(k-2) && has(k-1) {
		out = append(out, Chii(k-2, k-1))
	}
	if num >= 2 && num <= 8 && has(k-1) && has(k+1) {
		out = append(out, Chii(k-1, k+1))
	}
	if num <= 7 && has(k+1) && has(k+2) {
		out = append(out, Chii(k+1, k+2))
	}
	return out
}

// filterByClaim 只保留能压过已记录鸣牌的操作，“过”始终保留
func filterByClaim(actions []Action, best int) []Action {
	out := actions[:0:0]
	for _, a := range actions {
		if a.Kind == ActionPass || a.Kind.priority() > best {
			out = append(out, a)
		}
	}
	return out
}
