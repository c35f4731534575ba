package calculator

type BlockKind int

const (
	BlockSequence BlockKind = iota
	BlockTriplet
	BlockKan
	BlockPair
)

// Block 拆解后的一个面子/雀头，First 为最小牌种
type Block struct {
	Kind      BlockKind
	First     TileType
	Opened    bool // 副露面子；荣和完成的刻子按明刻计算时也置为 true
	FromMeld  bool
	Concealed bool // 暗刻/暗杠
}

func (b Block) Contains(t TileType) bool {
	if b.Kind == BlockSequence {
		return t >= b.First && t <= b.First+2
	}
	return t == b.First
}

func (b Block) IsTripletLike() bool { return b.Kind == BlockTriplet || b.Kind == BlockKan }

// HasYaochu 面子是否带幺九
func (b Block) HasYaochu() bool {
	if b.Kind == BlockSequence {
		return b.First.IsTerminal() || (b.First + 2).IsTerminal()
	}
	return b.First.IsYaochu()
}

// DivideHand 把门内手牌拆成 need 个面子 + 1 个雀头的全部方案
func DivideHand(h Hand34, need int) [][]Block {
	var out [][]Block
	for j := 0; j < 34; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		pair := Block{Kind: BlockPair, First: TileType(j)}
		collectMelds(&work, need, []Block{pair}, &out)
	}
	return out
}

func collectMelds(h *Hand34, need int, acc []Block, out *[][]Block) {
	i := -1
	for k := 0; k < 34; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		if need == 0 {
			*out = append(*out, append([]Block(nil), acc...))
		}
		return
	}
	if need == 0 {
		return
	}

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		collectMelds(h, need-1, append(acc, Block{Kind: BlockTriplet, First: TileType(i), Concealed: true}), out)
		(*h)[i] += 3
	}
	if seqStart(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		collectMelds(h, need-1, append(acc, Block{Kind: BlockSequence, First: TileType(i)}), out)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
	}
}

// meldBlocks 副露转换为面子
func meldBlocks(melds []Meld) []Block {
	out := make([]Block, 0, len(melds))
	for _, m := range melds {
		b := Block{First: m.Type(), Opened: m.Opened, FromMeld: true}
		switch {
		case m.Kind == MeldChi:
			b.Kind = BlockSequence
		case m.IsKan():
			b.Kind = BlockKan
			b.Concealed = m.Kind == MeldAnkan
		default:
			b.Kind = BlockTriplet
		}
		out = append(out, b)
	}
	return out
}
