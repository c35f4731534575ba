package mahjong

import (
	"sort"

	"riichienv/framework/game/engines/calculator"
)

// RiverTile 弃牌；被鸣走的牌仍留在牌河，Claimed 标记后不再计入牌河张数
type RiverTile struct {
	Tile    Tile
	Claimed bool
	Riichi  bool // 立直宣言牌
}

type PlayerImage struct {
	SeatIndex   int
	Tiles       []Tile      // 手中的牌
	DiscardPile []RiverTile // 弃牌堆
	Melds       []Meld      // 碰、杠、吃的组合
	NewestTile  Tile        // 最新摸的牌，鸣牌后为 NoTile

	IsRiichi      bool
	Ippatsu       bool // 一发机会
	Rinshan       bool // 刚摸了岭上牌
	FirstTurn     bool // 尚未完成第一次打牌
	AfterCall     bool // 吃碰后只能打牌
	Nagashi       bool // 流局满贯资格：弃牌未被鸣走
	TempFuriten   bool // 同巡振听，自己下次摸牌时解除
	RiichiFuriten bool // 立直后见逃，永久振听
}

// NewPlayerImage 创建玩家游戏状态实例
func NewPlayerImage(seatIndex int) *PlayerImage {
	return &PlayerImage{
		SeatIndex:   seatIndex,
		Tiles:       make([]Tile, 0, 14),
		DiscardPile: make([]RiverTile, 0, 24),
		Melds:       make([]Meld, 0, 4),
		NewestTile:  NoTile,
		FirstTurn:   true,
		Nagashi:     true,
	}
}

func (p *PlayerImage) AddTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
	p.sortTiles()
}

func (p *PlayerImage) DrawTile(tile Tile, rinshan bool) {
	p.AddTile(tile)
	p.NewestTile = tile
	p.Rinshan = rinshan
	p.AfterCall = false
	p.TempFuriten = false
}

func (p *PlayerImage) RemoveTile(tile Tile) bool {
	for i := range p.Tiles {
		if p.Tiles[i] == tile {
			p.Tiles = append(p.Tiles[:i], p.Tiles[i+1:]...)
			return true
		}
	}
	return false
}

func (p *PlayerImage) HasTile(tile Tile) bool {
	for _, t := range p.Tiles {
		if t == tile {
			return true
		}
	}
	return false
}

func (p *PlayerImage) sortTiles() {
	sortTiles(p.Tiles)
}

func sortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool { return tiles[i] < tiles[j] })
}

// TakeTiles 从手牌取出 n 张指定牌种（编号从小到大）
func (p *PlayerImage) TakeTiles(tt calculator.TileType, n int) []Tile {
	out := make([]Tile, 0, n)
	for _, t := range p.Tiles {
		if len(out) == n {
			break
		}
		if t.Type() == tt {
			out = append(out, t)
		}
	}
	if len(out) < n {
		return nil
	}
	for _, t := range out {
		p.RemoveTile(t)
	}
	return out
}

func (p *PlayerImage) Hand34() calculator.Hand34 {
	return calculator.Hand34FromIDs(tileIDs(p.Tiles))
}

func (p *PlayerImage) CountType(tt calculator.TileType) int {
	n := 0
	for _, t := range p.Tiles {
		if t.Type() == tt {
			n++
		}
	}
	return n
}

// IsConcealed 门清（暗杠不破门清）
func (p *PlayerImage) IsConcealed() bool {
	for _, m := range p.Melds {
		if m.Opened() {
			return false
		}
	}
	return true
}

func (p *PlayerImage) KanCount() int {
	n := 0
	for _, m := range p.Melds {
		if m.Type.IsKan() {
			n++
		}
	}
	return n
}

// MeldTileCount 副露中某牌种的张数
func (p *PlayerImage) MeldTileCount(tt calculator.TileType) int {
	n := 0
	for _, m := range p.Melds {
		for _, t := range m.Tiles {
			if t.Type() == tt {
				n++
			}
		}
	}
	return n
}

func (p *PlayerImage) DiscardTile(tile Tile, riichi bool) {
	p.RemoveTile(tile)
	p.DiscardPile = append(p.DiscardPile, RiverTile{Tile: tile, Riichi: riichi})
	p.NewestTile = NoTile
	p.Rinshan = false
	p.AfterCall = false
	p.FirstTurn = false
}

// HasDiscardedType 检查是否弃过某种牌（用于振听判断，被鸣走的也算）
func (p *PlayerImage) HasDiscardedType(tt calculator.TileType) bool {
	for _, r := range p.DiscardPile {
		if r.Tile.Type() == tt {
			return true
		}
	}
	return false
}

func (p *PlayerImage) RiverCount() int {
	n := 0
	for _, r := range p.DiscardPile {
		if !r.Claimed {
			n++
		}
	}
	return n
}

// markLastClaimed 最后一张弃牌被鸣走
func (p *PlayerImage) markLastClaimed() {
	if len(p.DiscardPile) == 0 {
		return
	}
	p.DiscardPile[len(p.DiscardPile)-1].Claimed = true
	p.Nagashi = false
}
