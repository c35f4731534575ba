package mahjong

import (
	"fmt"
	"strconv"
	"strings"

	"riichienv/framework/game/engines/calculator"
)

type ActionKind int

const (
	ActionDiscard ActionKind = iota
	ActionTsumo
	ActionRon
	ActionPass
	ActionRiichi
	ActionPung
	ActionChii
	ActionAnkan
	ActionKakan
	ActionDaiminkan
	ActionKyuushu
)

var actionKindNames = [...]string{
	"DISCARD", "TSUMO", "RON", "PASS", "RIICHI", "PUNG", "CHII", "ANKAN", "KAKAN", "DAIMINKAN", "KYUUSHU_KYUUHAI",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionKindNames) {
		return "UNKNOWN"
	}
	return actionKindNames[k]
}

// priority 鸣牌优先级：荣和 > 杠/碰 > 吃 > 过
func (k ActionKind) priority() int {
	switch k {
	case ActionRon:
		return 3
	case ActionPung, ActionDaiminkan:
		return 2
	case ActionChii:
		return 1
	default:
		return 0
	}
}

// Action 玩家操作，可直接用 == 比较
// Tile 用于打牌、立直、暗杠、加杠；Low/High 为吃牌时手中两张牌的牌种
type Action struct {
	Kind ActionKind
	Tile Tile
	Low  calculator.TileType
	High calculator.TileType
}

func Discard(t Tile) Action { return Action{Kind: ActionDiscard, Tile: t} }

func Riichi(t Tile) Action { return Action{Kind: ActionRiichi, Tile: t} }

func Ankan(t Tile) Action { return Action{Kind: ActionAnkan, Tile: t} }

func Kakan(t Tile) Action { return Action{Kind: ActionKakan, Tile: t} }

func Chii(low, high calculator.TileType) Action {
	return Action{Kind: ActionChii, Tile: NoTile, Low: low, High: high}
}

func simple(k ActionKind) Action { return Action{Kind: k, Tile: NoTile} }

var (
	Tsumo     = simple(ActionTsumo)
	Ron       = simple(ActionRon)
	Pass      = simple(ActionPass)
	Pung      = simple(ActionPung)
	Daiminkan = simple(ActionDaiminkan)
	Kyuushu   = simple(ActionKyuushu)
)

func (a Action) String() string {
	switch a.Kind {
	case ActionDiscard:
		return "DISCARD_" + strconv.Itoa(int(a.Tile))
	case ActionRiichi, ActionAnkan, ActionKakan:
		return fmt.Sprintf("ACTION_%s_%d", a.Kind, a.Tile)
	case ActionChii:
		return fmt.Sprintf("ACTION_CHII_%d_%d", a.Low, a.High)
	default:
		return "ACTION_" + a.Kind.String()
	}
}

// ParseAction 解析外部日志中的操作字符串
func ParseAction(s string) (Action, error) {
	if rest, ok := strings.CutPrefix(s, "DISCARD_"); ok {
		id, err := parseTileID(rest)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, s)
		}
		return Discard(id), nil
	}
	body, ok := strings.CutPrefix(s, "ACTION_")
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	switch body {
	case "TSUMO":
		return Tsumo, nil
	case "RON":
		return Ron, nil
	case "PASS":
		return Pass, nil
	case "PUNG":
		return Pung, nil
	case "DAIMINKAN":
		return Daiminkan, nil
	case "KYUUSHU_KYUUHAI":
		return Kyuushu, nil
	}

	parts := strings.Split(body, "_")
	switch {
	case len(parts) == 2 && (parts[0] == "RIICHI" || parts[0] == "ANKAN" || parts[0] == "KAKAN"):
		id, err := parseTileID(parts[1])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, s)
		}
		switch parts[0] {
		case "RIICHI":
			return Riichi(id), nil
		case "ANKAN":
			return Ankan(id), nil
		default:
			return Kakan(id), nil
		}
	case len(parts) == 3 && parts[0] == "CHII":
		lo, err1 := strconv.Atoi(parts[1])
		hi, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || lo < 0 || hi >= calculator.NumTileTypes || lo >= hi {
			return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, s)
		}
		return Chii(calculator.TileType(lo), calculator.TileType(hi)), nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

func parseTileID(s string) (Tile, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return NoTile, err
	}
	if id < 0 || id >= TileLimit {
		return NoTile, fmt.Errorf("tile id %d out of range", id)
	}
	return Tile(id), nil
}

func containsAction(actions []Action, a Action) bool {
	for _, it := range actions {
		if it == a {
			return true
		}
	}
	return false
}

// ActionStrings 渲染为外部词表
func ActionStrings(actions []Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.String()
	}
	return out
}
