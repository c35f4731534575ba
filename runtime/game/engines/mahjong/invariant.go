package mahjong

import "fmt"

// CheckTileConservation 牌山 + 王牌 + 手牌 + 副露 + 牌河（未被鸣走）必须正好是 136 张且互不重复
func (eg *RiichiMahjong4p) CheckTileConservation() error {
	var seen [TileLimit]bool
	count := 0
	mark := func(t Tile, zone string) error {
		if t < 0 || int(t) >= TileLimit {
			return fmt.Errorf("%w: tile %d out of range in %s", ErrInvariantViolation, t, zone)
		}
		if seen[t] {
			return fmt.Errorf("%w: tile %d duplicated in %s", ErrInvariantViolation, t, zone)
		}
		seen[t] = true
		count++
		return nil
	}

	dm := eg.DeckManager
	for _, t := range dm.wall {
		if err := mark(t, "wall"); err != nil {
			return err
		}
	}
	for _, t := range dm.wang.DeadWall {
		if err := mark(t, "dead wall"); err != nil {
			return err
		}
	}
	for s, p := range eg.Players {
		for _, t := range p.Tiles {
			if err := mark(t, fmt.Sprintf("hand %d", s)); err != nil {
				return err
			}
		}
		for _, m := range p.Melds {
			for _, t := range m.Tiles {
				if err := mark(t, fmt.Sprintf("melds %d", s)); err != nil {
					return err
				}
			}
		}
		for _, r := range p.DiscardPile {
			if r.Claimed {
				continue
			}
			if err := mark(r.Tile, fmt.Sprintf("river %d", s)); err != nil {
				return err
			}
		}
	}
	if count != TileLimit {
		return fmt.Errorf("%w: %d tiles accounted for", ErrInvariantViolation, count)
	}
	return nil
}
