package calculator

type MeldKind int

const (
	MeldChi MeldKind = iota
	MeldPon
	MeldDaiminkan
	MeldAnkan
	MeldKakan
)

// Meld 副露（含暗杠），Tiles 为物理牌编号
type Meld struct {
	Kind   MeldKind
	Tiles  []int
	Opened bool
}

func (m Meld) IsKan() bool {
	return m.Kind == MeldDaiminkan || m.Kind == MeldAnkan || m.Kind == MeldKakan
}

// Type 面子的最小牌种
func (m Meld) Type() TileType {
	if len(m.Tiles) == 0 {
		return -1
	}
	low := TypeOf(m.Tiles[0])
	for _, id := range m.Tiles[1:] {
		if t := TypeOf(id); t < low {
			low = t
		}
	}
	return low
}

type Hand34 [34]uint8

func Hand34FromIDs(ids []int) Hand34 {
	var h Hand34
	for _, id := range ids {
		h[TypeOf(id)]++
	}
	return h
}

func (h Hand34) Count() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	var b [35]byte
	for i := 0; i < 34; i++ {
		b[i] = byte(h[i])
	}
	b[34] = byte(fixedMelds)
	return string(b[:])
}
