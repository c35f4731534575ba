package calculator

// Yaku 役种（和牌方式）
type Yaku int

// 役种常量定义
const (
	// 基本役
	YakuRiichi  Yaku = iota // 立直：门清状态下宣布立直，并放置1000点棒
	YakuIppatsu             // 一发：立直后一巡内和牌
	YakuTsumo               // 门前清自摸和：门清状态下自摸和牌

	// 平和系
	YakuPinfu     // 平和：4顺子+非役牌雀头，两面听牌
	YakuIppeiko   // 一杯口：同种花色、同种顺子有两组
	YakuRyanpeiko // 二杯口：手牌中有两个不同的一杯口

	// 役牌系
	YakuHaku  // 役牌 白
	YakuHatsu // 役牌 发
	YakuChun  // 役牌 中
	YakuJikaze
	YakuBakaze

	// 断幺系
	YakuTanyao // 断幺九：手牌全部由数牌2-8组成

	// 偶然役
	YakuRinshan
	YakuChankan
	YakuHaitei
	YakuHoutei

	// 顺子系
	YakuSanshoku // 三色同顺：相同顺子在三种花色中都出现
	YakuIttsu    // 一气通贯：同种花色有123、456、789三个顺子

	// 带幺系
	YakuChanta  // 混全带幺九：所有面子都包含幺九牌
	YakuJunchan // 纯全带幺九：所有面子都包含数牌幺九(1、9)

	// 老头系
	YakuHonroto // 混老头：全部由幺九牌(1、9、字牌)组成

	// 清一色系
	YakuHonitsu  // 混一色：一种花色+字牌
	YakuChinitsu // 清一色：同一种花色(无字牌)

	// 刻子系
	YakuToitoi         // 对对和：4个刻子(杠子)+1个对子
	YakuSananko        // 三暗刻：手牌中有3个暗刻
	YakuSankantsu      // 三杠子：手牌中有3个杠子
	YakuSanshokuDoukou // 三色同刻
	YakuShousangen     // 小三元

	// 特殊型
	YakuChiitoi // 七对子：7个不同的对子

	// 役满役种
	YakuKokushi       // 国士无双(十三幺)：13种幺九牌各1张+其中任意1张
	YakuKokushi13     // 国士十三面（双倍）
	YakuSuuankou      // 四暗刻：手牌中有四个暗刻
	YakuSuuankouTanki // 四暗刻单骑：四暗刻且听牌形式为单骑
	YakuDaisangen
	YakuShousushi
	YakuDaisushi // 大四喜（双倍）
	YakuTsuuiisou
	YakuChinroto // 清老头：全部由数牌幺九(1、9)组成
	YakuRyuuiisou
	YakuChuuren       // 九莲宝灯：同一种花色的1112345678999，加上任意一张同花色的牌
	YakuJunseiChuuren // 纯正九莲宝灯：九莲宝灯听所有的9种牌
	YakuSuukantsu

	// 宝牌（不独立成役）
	YakuDora
	YakuAkaDora
)

var yakuNames = map[Yaku]string{
	YakuRiichi: "riichi", YakuIppatsu: "ippatsu", YakuTsumo: "menzen_tsumo",
	YakuPinfu: "pinfu", YakuIppeiko: "iipeikou", YakuRyanpeiko: "ryanpeikou",
	YakuHaku: "yakuhai_haku", YakuHatsu: "yakuhai_hatsu", YakuChun: "yakuhai_chun",
	YakuJikaze: "jikaze", YakuBakaze: "bakaze", YakuTanyao: "tanyao",
	YakuRinshan: "rinshan_kaihou", YakuChankan: "chankan", YakuHaitei: "haitei", YakuHoutei: "houtei",
	YakuSanshoku: "sanshoku_doujun", YakuIttsu: "ittsu", YakuChanta: "chanta", YakuJunchan: "junchan",
	YakuHonroto: "honroutou", YakuHonitsu: "honitsu", YakuChinitsu: "chinitsu",
	YakuToitoi: "toitoi", YakuSananko: "sanankou", YakuSankantsu: "sankantsu",
	YakuSanshokuDoukou: "sanshoku_doukou", YakuShousangen: "shousangen", YakuChiitoi: "chiitoitsu",
	YakuKokushi: "kokushi_musou", YakuKokushi13: "kokushi_musou_13", YakuSuuankou: "suuankou",
	YakuSuuankouTanki: "suuankou_tanki", YakuDaisangen: "daisangen", YakuShousushi: "shousuushii",
	YakuDaisushi: "daisuushii", YakuTsuuiisou: "tsuuiisou", YakuChinroto: "chinroutou",
	YakuRyuuiisou: "ryuuiisou", YakuChuuren: "chuuren_poutou", YakuJunseiChuuren: "junsei_chuuren_poutou",
	YakuSuukantsu: "suukantsu", YakuDora: "dora", YakuAkaDora: "aka_dora",
}

func (y Yaku) String() string {
	if s, ok := yakuNames[y]; ok {
		return s
	}
	return "unknown"
}

type WaitKind int

const (
	WaitRyanmen WaitKind = iota
	WaitKanchan
	WaitPenchan
	WaitShanpon
	WaitTanki
)

// YakuContext 某一种拆解方案下的判定上下文
type YakuContext struct {
	Blocks    []Block // 雀头在 Blocks[0]
	Wait      WaitKind
	WinTile   TileType
	Closed    bool   // 门清（暗杠不破门清）
	Counts    Hand34 // 全部牌（含副露，杠按 4 张计）
	Concealed Hand34 // 门内手牌（含和了牌）
	Chiitoi   bool
	Config    *HandConfig
}

type YakuChecker interface {
	ID() Yaku
	Check(ctx *YakuContext) (int, int)
}

type yakuCheckerFunc struct {
	id    Yaku
	check func(ctx *YakuContext) (int, int)
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Check(ctx *YakuContext) (int, int) { return f.check(ctx) }

// han 门清/副露不同番数
func han(closedHan, openHan int) func(ctx *YakuContext, ok bool) (int, int) {
	return func(ctx *YakuContext, ok bool) (int, int) {
		if !ok {
			return 0, 0
		}
		if ctx.Closed {
			return closedHan, 0
		}
		return openHan, 0
	}
}

func yakuman(mult int, ok bool) (int, int) {
	if !ok {
		return 0, 0
	}
	return 0, mult
}

// RiichiMahjong4pYakumanRegistry 役满判定，任一成立则不再计普通役
var RiichiMahjong4pYakumanRegistry = []YakuChecker{
	yakuCheckerFunc{id: YakuSuuankouTanki, check: func(ctx *YakuContext) (int, int) {
		return yakuman(2, countConcealedTriplets(ctx) == 4 && ctx.Wait == WaitTanki)
	}},
	yakuCheckerFunc{id: YakuSuuankou, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, countConcealedTriplets(ctx) == 4 && ctx.Wait != WaitTanki)
	}},
	yakuCheckerFunc{id: YakuDaisangen, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, countTriplets(ctx, TileType.IsDragon) == 3)
	}},
	yakuCheckerFunc{id: YakuDaisushi, check: func(ctx *YakuContext) (int, int) {
		return yakuman(2, countTriplets(ctx, TileType.IsWind) == 4)
	}},
	yakuCheckerFunc{id: YakuShousushi, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, countTriplets(ctx, TileType.IsWind) == 3 && !ctx.Chiitoi && ctx.Blocks[0].First.IsWind())
	}},
	yakuCheckerFunc{id: YakuTsuuiisou, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, allTiles(ctx, TileType.IsHonor))
	}},
	yakuCheckerFunc{id: YakuChinroto, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, allTiles(ctx, func(t TileType) bool { return t.IsTerminal() }))
	}},
	yakuCheckerFunc{id: YakuRyuuiisou, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, allTiles(ctx, func(t TileType) bool { return greenTiles[t] }))
	}},
	yakuCheckerFunc{id: YakuJunseiChuuren, check: func(ctx *YakuContext) (int, int) {
		ok, junsei := checkChuuren(ctx)
		return yakuman(2, ok && junsei)
	}},
	yakuCheckerFunc{id: YakuChuuren, check: func(ctx *YakuContext) (int, int) {
		ok, junsei := checkChuuren(ctx)
		return yakuman(1, ok && !junsei)
	}},
	yakuCheckerFunc{id: YakuSuukantsu, check: func(ctx *YakuContext) (int, int) {
		return yakuman(1, countKans(ctx) == 4)
	}},
}

// RiichiMahjong4pYakuRegistry 普通役判定
var RiichiMahjong4pYakuRegistry = []YakuChecker{
	// 基本役
	yakuCheckerFunc{id: YakuRiichi, check: func(ctx *YakuContext) (int, int) {
		return han(1, 0)(ctx, ctx.Config.IsRiichi)
	}},
	yakuCheckerFunc{id: YakuIppatsu, check: func(ctx *YakuContext) (int, int) {
		return han(1, 0)(ctx, ctx.Config.IsRiichi && ctx.Config.IsIppatsu)
	}},
	yakuCheckerFunc{id: YakuTsumo, check: func(ctx *YakuContext) (int, int) {
		return han(1, 0)(ctx, ctx.Config.IsTsumo)
	}},

	// 平和系
	yakuCheckerFunc{id: YakuPinfu, check: func(ctx *YakuContext) (int, int) {
		return han(1, 0)(ctx, isPinfu(ctx))
	}},
	yakuCheckerFunc{id: YakuIppeiko, check: func(ctx *YakuContext) (int, int) {
		return han(1, 0)(ctx, countPeiko(ctx) == 1)
	}},
	yakuCheckerFunc{id: YakuRyanpeiko, check: func(ctx *YakuContext) (int, int) {
		return han(3, 0)(ctx, countPeiko(ctx) == 2)
	}},

	// 役牌系
	yakuCheckerFunc{id: YakuHaku, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, hasTripletOf(ctx, White))
	}},
	yakuCheckerFunc{id: YakuHatsu, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, hasTripletOf(ctx, Green))
	}},
	yakuCheckerFunc{id: YakuChun, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, hasTripletOf(ctx, Red))
	}},
	yakuCheckerFunc{id: YakuJikaze, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, hasTripletOf(ctx, ctx.Config.PlayerWind))
	}},
	yakuCheckerFunc{id: YakuBakaze, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, hasTripletOf(ctx, ctx.Config.RoundWind))
	}},

	// 断幺系
	yakuCheckerFunc{id: YakuTanyao, check: func(ctx *YakuContext) (int, int) {
		ok := allTiles(ctx, func(t TileType) bool { return !t.IsYaochu() })
		return han(1, 1)(ctx, ok && (ctx.Closed || ctx.Config.Options.HasOpenTanyao))
	}},

	// 偶然役
	yakuCheckerFunc{id: YakuRinshan, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, ctx.Config.IsRinshan && ctx.Config.IsTsumo)
	}},
	yakuCheckerFunc{id: YakuChankan, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, ctx.Config.IsChankan && !ctx.Config.IsTsumo)
	}},
	yakuCheckerFunc{id: YakuHaitei, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, ctx.Config.IsHaitei && ctx.Config.IsTsumo && !ctx.Config.IsRinshan)
	}},
	yakuCheckerFunc{id: YakuHoutei, check: func(ctx *YakuContext) (int, int) {
		return han(1, 1)(ctx, ctx.Config.IsHoutei && !ctx.Config.IsTsumo)
	}},

	// 顺子系
	yakuCheckerFunc{id: YakuSanshoku, check: func(ctx *YakuContext) (int, int) {
		return han(2, 1)(ctx, hasSanshoku(ctx, BlockSequence))
	}},
	yakuCheckerFunc{id: YakuIttsu, check: func(ctx *YakuContext) (int, int) {
		return han(2, 1)(ctx, hasIttsu(ctx))
	}},

	// 带幺系
	yakuCheckerFunc{id: YakuChanta, check: func(ctx *YakuContext) (int, int) {
		chanta, junchan := checkChanta(ctx)
		return han(2, 1)(ctx, chanta && !junchan)
	}},
	yakuCheckerFunc{id: YakuJunchan, check: func(ctx *YakuContext) (int, int) {
		_, junchan := checkChanta(ctx)
		return han(3, 2)(ctx, junchan)
	}},

	// 老头系
	yakuCheckerFunc{id: YakuHonroto, check: func(ctx *YakuContext) (int, int) {
		return han(2, 2)(ctx, allTiles(ctx, TileType.IsYaochu))
	}},

	// 清一色系
	yakuCheckerFunc{id: YakuHonitsu, check: func(ctx *YakuContext) (int, int) {
		suit, honors := flushSuit(ctx)
		return han(3, 2)(ctx, suit >= 0 && honors)
	}},
	yakuCheckerFunc{id: YakuChinitsu, check: func(ctx *YakuContext) (int, int) {
		suit, honors := flushSuit(ctx)
		return han(6, 5)(ctx, suit >= 0 && !honors)
	}},

	// 刻子系
	yakuCheckerFunc{id: YakuToitoi, check: func(ctx *YakuContext) (int, int) {
		return han(2, 2)(ctx, countTriplets(ctx, func(TileType) bool { return true }) == 4)
	}},
	yakuCheckerFunc{id: YakuSananko, check: func(ctx *YakuContext) (int, int) {
		return han(2, 2)(ctx, countConcealedTriplets(ctx) == 3)
	}},
	yakuCheckerFunc{id: YakuSankantsu, check: func(ctx *YakuContext) (int, int) {
		return han(2, 2)(ctx, countKans(ctx) == 3)
	}},
	yakuCheckerFunc{id: YakuSanshokuDoukou, check: func(ctx *YakuContext) (int, int) {
		return han(2, 2)(ctx, hasSanshoku(ctx, BlockTriplet))
	}},
	yakuCheckerFunc{id: YakuShousangen, check: func(ctx *YakuContext) (int, int) {
		return han(2, 2)(ctx, !ctx.Chiitoi && countTriplets(ctx, TileType.IsDragon) == 2 && ctx.Blocks[0].First.IsDragon())
	}},

	// 特殊型
	yakuCheckerFunc{id: YakuChiitoi, check: func(ctx *YakuContext) (int, int) {
		return han(2, 0)(ctx, ctx.Chiitoi)
	}},
}

func countTriplets(ctx *YakuContext, pred func(TileType) bool) int {
	n := 0
	for _, b := range ctx.Blocks {
		if b.IsTripletLike() && pred(b.First) {
			n++
		}
	}
	return n
}

func countConcealedTriplets(ctx *YakuContext) int {
	n := 0
	for _, b := range ctx.Blocks {
		if b.IsTripletLike() && b.Concealed {
			n++
		}
	}
	return n
}

func countKans(ctx *YakuContext) int {
	n := 0
	for _, b := range ctx.Blocks {
		if b.Kind == BlockKan {
			n++
		}
	}
	return n
}

func hasTripletOf(ctx *YakuContext, t TileType) bool {
	return countTriplets(ctx, func(x TileType) bool { return x == t }) > 0
}

func allTiles(ctx *YakuContext, pred func(TileType) bool) bool {
	for t, c := range ctx.Counts {
		if c > 0 && !pred(TileType(t)) {
			return false
		}
	}
	return true
}

// flushSuit 只含一种数牌花色时返回该花色，否则 -1；honors 表示是否有字牌
func flushSuit(ctx *YakuContext) (int, bool) {
	suit := -1
	honors := false
	for t, c := range ctx.Counts {
		if c == 0 {
			continue
		}
		tt := TileType(t)
		if tt.IsHonor() {
			honors = true
			continue
		}
		if suit == -1 {
			suit = tt.Suit()
		} else if suit != tt.Suit() {
			return -1, honors
		}
	}
	return suit, honors
}

func isYakuhaiPair(ctx *YakuContext, t TileType) bool {
	return t.IsDragon() || t == ctx.Config.PlayerWind || t == ctx.Config.RoundWind
}

func isPinfu(ctx *YakuContext) bool {
	if ctx.Chiitoi || !ctx.Closed || ctx.Wait != WaitRyanmen {
		return false
	}
	for _, b := range ctx.Blocks[1:] {
		if b.Kind != BlockSequence {
			return false
		}
	}
	return !isYakuhaiPair(ctx, ctx.Blocks[0].First)
}

// countPeiko 门内相同顺子的组数（2 组为二杯口）
func countPeiko(ctx *YakuContext) int {
	if ctx.Chiitoi || !ctx.Closed {
		return 0
	}
	seen := make(map[TileType]int, 4)
	for _, b := range ctx.Blocks[1:] {
		if b.Kind == BlockSequence {
			seen[b.First]++
		}
	}
	n := 0
	for _, c := range seen {
		n += c / 2
	}
	return n
}

func hasSanshoku(ctx *YakuContext, kind BlockKind) bool {
	present := make(map[TileType]bool, 4)
	for _, b := range ctx.Blocks[1:] {
		if b.Kind == kind || (kind == BlockTriplet && b.Kind == BlockKan) {
			if b.First.IsNumber() {
				present[b.First] = true
			}
		}
	}
	for t := range present {
		if t.Suit() != 0 {
			continue
		}
		if present[t+9] && present[t+18] {
			return true
		}
	}
	return false
}

func hasIttsu(ctx *YakuContext) bool {
	present := make(map[TileType]bool, 4)
	for _, b := range ctx.Blocks[1:] {
		if b.Kind == BlockSequence {
			present[b.First] = true
		}
	}
	for suit := 0; suit < 3; suit++ {
		base := TileType(suit * 9)
		if present[base] && present[base+3] && present[base+6] {
			return true
		}
	}
	return false
}

// checkChanta 所有面子与雀头带幺九且至少一组顺子；无字牌时为纯全
func checkChanta(ctx *YakuContext) (bool, bool) {
	if ctx.Chiitoi {
		return false, false
	}
	hasSeq := false
	honors := false
	for _, b := range ctx.Blocks {
		if !b.HasYaochu() {
			return false, false
		}
		if b.Kind == BlockSequence {
			hasSeq = true
		}
		if b.First.IsHonor() {
			honors = true
		}
	}
	if !hasSeq {
		return false, false
	}
	return true, !honors
}

// checkChuuren 九莲宝灯；第二个返回值表示纯正（去掉和了牌后恰为 1112345678999）
func checkChuuren(ctx *YakuContext) (bool, bool) {
	if !ctx.Closed || ctx.Chiitoi {
		return false, false
	}
	for _, b := range ctx.Blocks {
		if b.FromMeld {
			return false, false
		}
	}
	suit, honors := flushSuit(ctx)
	if suit < 0 || honors {
		return false, false
	}
	base := suit * 9
	need := [9]uint8{3, 1, 1, 1, 1, 1, 1, 1, 3}
	for i := 0; i < 9; i++ {
		if ctx.Concealed[base+i] < need[i] {
			return false, false
		}
	}
	rest := ctx.Concealed
	rest[ctx.WinTile]--
	for i := 0; i < 9; i++ {
		if rest[base+i] != need[i] {
			return true, false
		}
	}
	return true, true
}
