package calculator

import "math"

// Cost 支付明细（不含本场与供托）
// 荣和：Main 为放铳者支付总额；自摸：闲家和牌时 Main 为庄家支付、Additional 为每个闲家支付，庄家和牌时二者相同
type Cost struct {
	Main       int
	Additional int
}

func roundUpTo100(x int) int {
	return int(math.Ceil(float64(x)/100.0)) * 100
}

func roundUpTo10(x int) int {
	return (x + 9) / 10 * 10
}

// basePoints 基本点，满贯以上取固定值
func basePoints(han int, fu int, yakumanMult int) int {
	if yakumanMult > 0 {
		return 8000 * yakumanMult
	}
	switch {
	case han >= 13: // 累计役满
		return 8000
	case han >= 11: // 三倍满
		return 6000
	case han >= 8: // 倍满
		return 4000
	case han >= 6: // 跳满
		return 3000
	case han == 5: // 满贯
		return 2000
	}
	// 基础点数 = 符数 × 2^(2+番数)
	base := fu * (1 << (2 + han))
	if base > 2000 {
		return 2000
	}
	return base
}

func calculateCost(base int, isDealer bool, isTsumo bool) Cost {
	if !isTsumo {
		if isDealer {
			return Cost{Main: roundUpTo100(base * 6)}
		}
		return Cost{Main: roundUpTo100(base * 4)}
	}
	if isDealer {
		each := roundUpTo100(base * 2)
		return Cost{Main: each, Additional: each}
	}
	return Cost{Main: roundUpTo100(base * 2), Additional: roundUpTo100(base)}
}

// Total 和牌者从和牌中获得的点数（不含本场）
func (c Cost) Total(isDealer, isTsumo bool) int {
	if !isTsumo {
		return c.Main + c.Additional
	}
	if isDealer {
		return c.Main * 3
	}
	return c.Main + c.Additional*2
}

// calculateFu 计算符数
func calculateFu(ctx *YakuContext, pinfu bool) int {
	if ctx.Chiitoi {
		return 25
	}
	if pinfu {
		if ctx.Config.IsTsumo {
			return 20
		}
		return 30
	}

	fu := 20 // 副底
	if ctx.Config.IsTsumo {
		fu += 2 // 自摸+2符
	} else if ctx.Closed {
		fu += 10 // 门前清荣和
	}

	for _, b := range ctx.Blocks[1:] {
		if b.Kind == BlockSequence {
			continue
		}
		v := 2
		if b.First.IsYaochu() {
			v *= 2
		}
		if b.Concealed {
			v *= 2
		}
		if b.Kind == BlockKan {
			v *= 4
		}
		fu += v
	}

	pair := ctx.Blocks[0].First
	if pair.IsDragon() {
		fu += 2
	}
	if pair == ctx.Config.PlayerWind {
		fu += 2
	}
	if pair == ctx.Config.RoundWind {
		fu += 2
	}

	switch ctx.Wait {
	case WaitKanchan, WaitPenchan, WaitTanki:
		fu += 2
	}

	// 副露平和型荣和按 30 符
	if fu == 20 {
		fu = 30
	}
	return roundUpTo10(fu)
}
