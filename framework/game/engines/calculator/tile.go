package calculator

// TileType 牌种，0-33：万 0-8、筒 9-17、索 18-26、东南西北 27-30、白发中 31-33
type TileType int

const (
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9
	East
	South
	West
	North
	White
	Green
	Red
)

const NumTileTypes = 34

// 红宝牌的物理编号（每种花色的一张 5）
var AkaDoraIDs = [3]int{16, 52, 88}

func IsAkaDora(id int) bool {
	return id == AkaDoraIDs[0] || id == AkaDoraIDs[1] || id == AkaDoraIDs[2]
}

func TypeOf(id int) TileType { return TileType(id / 4) }

func (t TileType) IsNumber() bool { return t >= Man1 && t <= So9 }

func (t TileType) IsHonor() bool { return t >= East && t <= Red }

func (t TileType) IsWind() bool { return t >= East && t <= North }

func (t TileType) IsDragon() bool { return t >= White && t <= Red }

// Num 数牌点数 1-9，字牌返回 0
func (t TileType) Num() int {
	if !t.IsNumber() {
		return 0
	}
	return int(t)%9 + 1
}

// Suit 0 万 1 筒 2 索，字牌 -1
func (t TileType) Suit() int {
	if !t.IsNumber() {
		return -1
	}
	return int(t) / 9
}

func (t TileType) IsTerminal() bool {
	n := t.Num()
	return n == 1 || n == 9
}

// IsYaochu 幺九牌：老头牌或字牌
func (t TileType) IsYaochu() bool { return t.IsHonor() || t.IsTerminal() }

// DoraOf 由宝牌指示牌得到宝牌
func DoraOf(indicator TileType) TileType {
	switch {
	case indicator.IsNumber():
		if indicator.Num() == 9 {
			return indicator - 8
		}
		return indicator + 1
	case indicator.IsWind():
		if indicator == North {
			return East
		}
		return indicator + 1
	default:
		if indicator == Red {
			return White
		}
		return indicator + 1
	}
}

var kokushiTiles = [13]TileType{
	Man1, Man9,
	Pin1, Pin9,
	So1, So9,
	East, South, West, North,
	White, Green, Red,
}

// 绿一色可用牌
var greenTiles = map[TileType]bool{So2: true, So3: true, So4: true, So6: true, So8: true, Green: true}

var tileNames = [NumTileTypes]string{
	"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m",
	"1p", "2p", "3p", "4p", "5p", "6p", "7p", "8p", "9p",
	"1s", "2s", "3s", "4s", "5s", "6s", "7s", "8s", "9s",
	"E", "S", "W", "N", "Wh", "G", "R",
}

func (t TileType) String() string {
	if t < 0 || int(t) >= NumTileTypes {
		return "?"
	}
	return tileNames[t]
}
