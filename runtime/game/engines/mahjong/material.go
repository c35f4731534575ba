package mahjong

import (
	"fmt"
	"math/rand"

	"riichienv/framework/game/engines/calculator"
)

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// TileType 风牌对应的牌种
func (w Wind) TileType() calculator.TileType {
	return calculator.East + calculator.TileType(w)
}

const (
	TileLimit    = 136
	DeadWallSize = 14
	HandSize     = 13
	doraIndex    = 4 // 王牌第 5 张为宝牌指示牌
	maxKans      = 4
)

// Tile 物理牌编号 0-135，Tile/4 为牌种
type Tile int

const NoTile Tile = -1

func (t Tile) Type() calculator.TileType { return calculator.TypeOf(int(t)) }

// IsRedFive 是否为赤宝牌（固定编号，是否计番由规则决定）
func (t Tile) IsRedFive() bool { return calculator.IsAkaDora(int(t)) }

func tileIDs(tiles []Tile) []int {
	out := make([]int, len(tiles))
	for i, t := range tiles {
		out[i] = int(t)
	}
	return out
}

type Wang struct {
	DeadWall       []Tile // 王牌（岭上牌 + 宝牌指示牌），始终保持 14 张
	DoraIndicators []Tile // 已翻开的宝牌指示牌（仍在王牌中）
}

type DeckManager struct {
	wall   []Tile // 牌山（可摸部分），从头部摸牌
	wang   Wang
	rng    *rand.Rand
	layout []int // 本局开局时的完整牌山，供回放和记录
}

func NewDeckManager(rng *rand.Rand) *DeckManager {
	return &DeckManager{
		wall: make([]Tile, 0, TileLimit),
		wang: Wang{
			DeadWall:       make([]Tile, 0, DeadWallSize),
			DoraIndicators: make([]Tile, 0, 5),
		},
		rng: rng,
	}
}

// InitRound 洗牌并切出王牌；fixed 非空时按给定顺序（回放/测试）
func (dm *DeckManager) InitRound(fixed []int) error {
	deck := make([]Tile, TileLimit)
	if fixed != nil {
		if err := validateWall(fixed); err != nil {
			return err
		}
		for i, id := range fixed {
			deck[i] = Tile(id)
		}
	} else {
		for i := range deck {
			deck[i] = Tile(i)
		}
		dm.rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}

	dm.layout = tileIDs(deck)
	deadStart := len(deck) - DeadWallSize
	dm.wall = append(dm.wall[:0], deck[:deadStart]...)
	dm.wang.DeadWall = append(dm.wang.DeadWall[:0], deck[deadStart:]...)
	dm.wang.DoraIndicators = append(dm.wang.DoraIndicators[:0], dm.wang.DeadWall[doraIndex])
	return nil
}

func validateWall(ids []int) error {
	if len(ids) != TileLimit {
		return fmt.Errorf("%w: expected %d tiles, got %d", ErrInvalidWall, TileLimit, len(ids))
	}
	var seen [TileLimit]bool
	for _, id := range ids {
		if id < 0 || id >= TileLimit {
			return fmt.Errorf("%w: tile id %d out of range", ErrInvalidWall, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate tile id %d", ErrInvalidWall, id)
		}
		seen[id] = true
	}
	return nil
}

func (dm *DeckManager) Draw() (Tile, bool) {
	if len(dm.wall) == 0 {
		return NoTile, false
	}
	t := dm.wall[0]
	dm.wall = dm.wall[1:]
	return t, true
}

// DrawRinshan 摸岭上牌，并把牌山最后一张补进王牌
func (dm *DeckManager) DrawRinshan() (Tile, bool) {
	if len(dm.wall) == 0 || len(dm.wang.DeadWall) == 0 {
		return NoTile, false
	}
	t := dm.wang.DeadWall[0]
	last := dm.wall[len(dm.wall)-1]
	dm.wall = dm.wall[:len(dm.wall)-1]
	dm.wang.DeadWall = append(dm.wang.DeadWall[1:], last)
	return t, true
}

// RevealKanDora 翻开杠宝牌指示牌；补牌后的王牌第 5 张即为下一张指示牌
func (dm *DeckManager) RevealKanDora() (Tile, bool) {
	if len(dm.wang.DoraIndicators) >= 5 || len(dm.wang.DeadWall) <= doraIndex {
		return NoTile, false
	}
	t := dm.wang.DeadWall[doraIndex]
	dm.wang.DoraIndicators = append(dm.wang.DoraIndicators, t)
	return t, true
}

func (dm *DeckManager) Remaining() int { return len(dm.wall) }

// Layout 开局牌山的副本，传给 WithWall 可以重现本局
func (dm *DeckManager) Layout() []int {
	return append([]int(nil), dm.layout...)
}

func (dm *DeckManager) Wang() *Wang {
	return &dm.wang
}

func (dm *DeckManager) DoraIndicatorIDs() []int {
	return tileIDs(dm.wang.DoraIndicators)
}

// RoundState 跨局保存的场况：Round 为局数序号（Round/4 决定场风），RiichiSticks 为供托立直棒数量
type RoundState struct {
	Round        int    `json:"round" yaml:"round" bson:"round"`
	Honba        int    `json:"honba" yaml:"honba" bson:"honba"`
	RiichiSticks int    `json:"riichi_sticks" yaml:"riichi_sticks" bson:"riichiSticks"`
	Scores       [4]int `json:"scores" yaml:"scores" bson:"scores"`
	Dealer       int    `json:"dealer" yaml:"dealer" bson:"dealer"`
}

func NewRoundState(startingScore int) RoundState {
	return RoundState{Scores: [4]int{startingScore, startingScore, startingScore, startingScore}}
}

func (s RoundState) RoundWind() Wind { return Wind((s.Round / 4) % 4) }

func (s RoundState) SeatWind(seat int) Wind { return Wind((seat - s.Dealer + 4) % 4) }

func (s RoundState) validate() error {
	if s.Dealer < 0 || s.Dealer > 3 || s.Round < 0 || s.Honba < 0 || s.RiichiSticks < 0 {
		return fmt.Errorf("invalid round state: %+v", s)
	}
	return nil
}

type MeldType int

const (
	MeldChii MeldType = iota
	MeldPung
	MeldDaiminkan
	MeldAnkan
	MeldKakan
)

var meldTypeNames = [...]string{"CHII", "PUNG", "DAIMINKAN", "ANKAN", "KAKAN"}

func (m MeldType) String() string {
	if m < 0 || int(m) >= len(meldTypeNames) {
		return "UNKNOWN"
	}
	return meldTypeNames[m]
}

func (m MeldType) IsKan() bool { return m == MeldDaiminkan || m == MeldAnkan || m == MeldKakan }

type Meld struct {
	Type   MeldType
	Tiles  []Tile
	From   int  // 从哪个玩家那里获得，暗杠为 -1
	Called Tile // 鸣的那张牌，暗杠为 NoTile
}

func (m Meld) Opened() bool { return m.Type != MeldAnkan }

func (m Meld) TileType() calculator.TileType {
	low := m.Tiles[0].Type()
	for _, t := range m.Tiles[1:] {
		if t.Type() < low {
			low = t.Type()
		}
	}
	return low
}

func (m Meld) toCalculator() calculator.Meld {
	kinds := [...]calculator.MeldKind{calculator.MeldChi, calculator.MeldPon, calculator.MeldDaiminkan, calculator.MeldAnkan, calculator.MeldKakan}
	return calculator.Meld{Kind: kinds[m.Type], Tiles: tileIDs(m.Tiles), Opened: m.Opened()}
}

func toCalculatorMelds(melds []Meld) []calculator.Meld {
	out := make([]calculator.Meld, len(melds))
	for i, m := range melds {
		out[i] = m.toCalculator()
	}
	return out
}

// LastDiscard 最近一次打出（或加杠）的牌
type LastDiscard struct {
	Seat  int
	Tile  Tile
	Valid bool
}
