package mahjong

import (
	"fmt"

	"riichienv/common/log"
	"riichienv/framework/game/engines/calculator"
)

const (
	ReasonAgari        = "agari"
	ReasonRyuukyoku    = "ryuukyoku"
	ReasonNagashi      = "nagashi_mangan"
	ReasonKyuushu      = "kyuushu_kyuuhai"
	ReasonSuufonRenda  = "suufon_renda"
	ReasonSuukaikan    = "suukaikan"
	ReasonSuuchaRiichi = "suucha_riichi"
	reasonAgariError   = "agari_error: "
)

// 流局满贯按满贯自摸支付
const (
	nagashiDealerEach    = 4000
	nagashiNonDealerEach = 2000
)

type winClaim struct {
	winner  int
	from    int // 自摸时为自己
	winTile Tile
	tsumo   bool
	result  calculator.HandResponse
	pao     int // 包牌责任者，没有为 -1
}

// settleTsumo 自摸
func (eg *RiichiMahjong4p) settleTsumo(seat int) error {
	p := eg.Players[seat]
	resp := eg.evaluateWin(seat, p.NewestTile, true, false)
	if resp.Error != nil {
		return eg.rejectWin(seat, resp.Error)
	}
	return eg.settleAgari(winClaim{
		winner:  seat,
		from:    seat,
		winTile: p.NewestTile,
		tsumo:   true,
		result:  resp,
		pao:     eg.paoFor(seat, resp),
	})
}

// settleRon 荣和（含抢杠），头跳：只有最先被询问到的一家和牌
func (eg *RiichiMahjong4p) settleRon(seat int) error {
	tm := eg.TurnManager
	resp := eg.evaluateWin(seat, eg.lastDiscard.Tile, false, tm.Chankan)
	if resp.Error != nil {
		return eg.rejectWin(seat, resp.Error)
	}
	return eg.settleAgari(winClaim{
		winner:  seat,
		from:    tm.Discarder,
		winTile: eg.lastDiscard.Tile,
		result:  resp,
		pao:     eg.paoFor(seat, resp),
	})
}

// rejectWin 枚举时判定可和、执行时却被拒绝，说明枚举有缺陷，直接结束本局且不结算
func (eg *RiichiMahjong4p) rejectWin(seat int, cause error) error {
	log.Error("和了判定被拒绝: seat=%d, err=%v", seat, cause)
	eg.finishHand(reasonAgariError + cause.Error())
	return fmt.Errorf("%w: seat %d: %v", ErrEvaluatorRejected, seat, cause)
}

func (eg *RiichiMahjong4p) settleAgari(w winClaim) error {
	var delta [4]int
	dealer := eg.Situation.Dealer
	cost := w.result.Cost
	honba := eg.Situation.Honba * eg.opts.HonbaBonus
	value := cost.Total(w.winner == dealer, w.tsumo)

	switch {
	case w.tsumo:
		rest := value
		if w.pao >= 0 {
			// 包牌自摸：责任者支付包牌役满部分和本场，其余部分三家照常分摊
			share := paoShare(w.result, value)
			delta[w.pao] -= share + honba
			delta[w.winner] += share + honba
			rest = value - share
		}
		for s := 0; s < 4; s++ {
			if s == w.winner {
				continue
			}
			pay := cost.Additional
			if s == dealer || w.winner == dealer {
				pay = cost.Main
			}
			if w.pao >= 0 {
				pay = pay * rest / value
			} else {
				pay += honba / 3
			}
			delta[s] -= pay
			delta[w.winner] += pay
		}
	case w.pao >= 0 && w.pao != w.from:
		// 包牌荣和：包牌役满部分由责任者与放铳者各付一半，其余和本场由放铳者支付
		half := eg.roundPao(paoShare(w.result, value) / 2)
		delta[w.pao] -= half
		delta[w.from] -= value - half + honba
		delta[w.winner] += value + honba
	default:
		delta[w.from] -= value + honba
		delta[w.winner] += value + honba
	}

	delta[w.winner] += eg.Situation.RiichiSticks * eg.opts.RiichiDeposit
	eg.Situation.RiichiSticks = 0
	eg.applyDelta(delta)
	eg.pushAgari(w, value, delta)
	log.Debug("和了: winner=%d from=%d han=%d fu=%d value=%d pao=%d", w.winner, w.from, w.result.Han, w.result.Fu, value, w.pao)

	eg.advanceDealer(w.winner == dealer)
	eg.finishHand(ReasonAgari)
	return nil
}

// paoShare 复合役满时责任者只负责包牌的那一个役满
func paoShare(resp calculator.HandResponse, value int) int {
	own := 0
	for _, y := range resp.Yaku {
		if y.Yaku == calculator.YakuDaisangen || y.Yaku == calculator.YakuDaisushi {
			own = y.Yakuman
		}
	}
	if own <= 0 || resp.Yakuman <= own {
		return value
	}
	return value * own / resp.Yakuman
}

func (eg *RiichiMahjong4p) roundPao(x int) int {
	if eg.opts.PaoRounding == PaoRoundHalfUp {
		return (x + 50) / 100 * 100
	}
	return x / 100 * 100
}

// exhaustiveDraw 荒牌流局：先判流局满贯，否则按听牌罚符
func (eg *RiichiMahjong4p) exhaustiveDraw() error {
	var delta [4]int
	dealer := eg.Situation.Dealer
	tenpai := make([]int, 0, 4)
	nagashi := make([]int, 0, 4)
	for s, p := range eg.Players {
		if eg.shantenOf(p.Hand34(), p.Melds) == 0 {
			tenpai = append(tenpai, s)
		}
		if isNagashi(p) {
			nagashi = append(nagashi, s)
		}
	}

	reason := ReasonRyuukyoku
	if len(nagashi) > 0 {
		reason = ReasonNagashi
		for _, w := range nagashi {
			for s := 0; s < 4; s++ {
				if s == w {
					continue
				}
				pay := nagashiNonDealerEach
				if w == dealer || s == dealer {
					pay = nagashiDealerEach
				}
				delta[s] -= pay
				delta[w] += pay
			}
		}
	} else if n := len(tenpai); n > 0 && n < 4 {
		isTenpai := [4]bool{}
		for _, s := range tenpai {
			isTenpai[s] = true
		}
		for s := 0; s < 4; s++ {
			if isTenpai[s] {
				delta[s] += eg.opts.NotenPool / n
			} else {
				delta[s] -= eg.opts.NotenPool / (4 - n)
			}
		}
	}

	dealerTenpai := false
	for _, s := range tenpai {
		if s == dealer {
			dealerTenpai = true
		}
	}

	eg.applyDelta(delta)
	eg.pushRyuukyoku(reason, tenpai, delta)
	log.Debug("荒牌流局: tenpai=%v nagashi=%v delta=%v", tenpai, nagashi, delta)

	eg.advanceDealer(dealerTenpai)
	eg.finishHand(reason)
	return nil
}

// abortiveDraw 中途流局，不需要罚符，连庄并加本场
func (eg *RiichiMahjong4p) abortiveDraw(reason string) error {
	eg.pushRyuukyoku(reason, nil, [4]int{})
	log.Debug("中途流局: %s", reason)
	eg.Situation.Honba++
	eg.finishHand(reason)
	return nil
}

// advanceDealer 连庄加本场，否则轮庄
func (eg *RiichiMahjong4p) advanceDealer(renchan bool) {
	if renchan {
		eg.Situation.Honba++
		return
	}
	eg.Situation.Honba = 0
	eg.Situation.Dealer = (eg.Situation.Dealer + 1) % 4
	eg.Situation.Round++
}

func (eg *RiichiMahjong4p) applyDelta(delta [4]int) {
	for s := 0; s < 4; s++ {
		eg.Situation.Scores[s] += delta[s]
		eg.stepDelta[s] += delta[s]
	}
}

// finishHand 本局结束；整场结束时剩余供托归第一名（同分取座位靠前者）
func (eg *RiichiMahjong4p) finishHand(reason string) {
	eg.done = true
	eg.legal = nil
	eg.info.Reason = reason

	over := eg.Situation.Round >= eg.opts.NumRounds
	for _, sc := range eg.Situation.Scores {
		if sc < 0 {
			over = true
		}
	}
	if over && eg.Situation.RiichiSticks > 0 {
		top := 0
		for s := 1; s < 4; s++ {
			if eg.Situation.Scores[s] > eg.Situation.Scores[top] {
				top = s
			}
		}
		var delta [4]int
		delta[top] = eg.Situation.RiichiSticks * eg.opts.RiichiDeposit
		eg.Situation.RiichiSticks = 0
		eg.applyDelta(delta)
	}
	eg.info.GameOver = over

	if eg.Persister != nil {
		eg.Persister.CompleteRound(reason, eg.Situation, over)
	}
}
