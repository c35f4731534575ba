package mahjong

// 一局中的事件，按发生顺序追加，观测中返回当前局的完整事件日志
// 1. 开局 INIT
// 2. 摸牌 DRAW（含岭上牌）
// 3. 打牌 DISCARD（立直宣言牌带 riichi 标记）
// 4. 鸣牌 MELD（吃、碰、明杠、暗杠、加杠）
// 5. 新宝牌 DORA
// 6. 和了 AGARI
// 7. 流局 RYUUKYOKU

type EventType string

const (
	EventInit      EventType = "INIT"
	EventDraw      EventType = "DRAW"
	EventDiscard   EventType = "DISCARD"
	EventMeld      EventType = "MELD"
	EventDora      EventType = "DORA"
	EventAgari     EventType = "AGARI"
	EventRyuukyoku EventType = "RYUUKYOKU"
)

// Event 扁平结构，按类型使用对应字段
type Event struct {
	Type   EventType `json:"event_id" yaml:"event_id" bson:"eventId"`
	Player int       `json:"player" yaml:"player" bson:"player"`
	Tile   Tile      `json:"tile" yaml:"tile" bson:"tile"`

	// INIT
	Scores        [4]int `json:"scores,omitempty" yaml:"scores,omitempty" bson:"scores,omitempty"`
	Dealer        int    `json:"oya_player_id" yaml:"oya_player_id" bson:"dealer"`
	Round         int    `json:"round,omitempty" yaml:"round,omitempty" bson:"round,omitempty"`
	Honba         int    `json:"honba,omitempty" yaml:"honba,omitempty" bson:"honba,omitempty"`
	RiichiSticks  int    `json:"riichi_sticks,omitempty" yaml:"riichi_sticks,omitempty" bson:"riichiSticks,omitempty"`
	DoraIndicator Tile   `json:"dora_indicator,omitempty" yaml:"dora_indicator,omitempty" bson:"doraIndicator,omitempty"`
	Rules         *Rules `json:"rules,omitempty" yaml:"rules,omitempty" bson:"rules,omitempty"`

	// DISCARD
	Riichi    bool `json:"riichi,omitempty" yaml:"riichi,omitempty" bson:"riichi,omitempty"`
	Tsumogiri bool `json:"tsumogiri,omitempty" yaml:"tsumogiri,omitempty" bson:"tsumogiri,omitempty"`

	// MELD
	MeldType string `json:"meld_type,omitempty" yaml:"meld_type,omitempty" bson:"meldType,omitempty"`
	Tiles    []Tile `json:"tiles,omitempty" yaml:"tiles,omitempty" bson:"tiles,omitempty"`
	From     int    `json:"from" yaml:"from" bson:"from"`

	// AGARI
	Han   int      `json:"han,omitempty" yaml:"han,omitempty" bson:"han,omitempty"`
	Fu    int      `json:"fu,omitempty" yaml:"fu,omitempty" bson:"fu,omitempty"`
	Value int      `json:"hand_value,omitempty" yaml:"hand_value,omitempty" bson:"handValue,omitempty"`
	Yaku  []string `json:"yaku,omitempty" yaml:"yaku,omitempty" bson:"yaku,omitempty"`
	Pao   int      `json:"pao" yaml:"pao" bson:"pao"`

	// RYUUKYOKU
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty" bson:"reason,omitempty"`
	TenpaiSeats []int  `json:"tenpai_players,omitempty" yaml:"tenpai_players,omitempty" bson:"tenpaiPlayers,omitempty"`
	Deltas      [4]int `json:"deltas,omitempty" yaml:"deltas,omitempty" bson:"deltas,omitempty"`
}

func (eg *RiichiMahjong4p) pushEvent(e Event) {
	eg.events = append(eg.events, e)
	if eg.Persister != nil {
		eg.Persister.Record(e)
	}
}

func (eg *RiichiMahjong4p) pushInit() {
	rules := eg.opts.Rules
	eg.pushEvent(Event{
		Type:          EventInit,
		Player:        eg.Situation.Dealer,
		Tile:          NoTile,
		Scores:        eg.Situation.Scores,
		Dealer:        eg.Situation.Dealer,
		Round:         eg.Situation.Round,
		Honba:         eg.Situation.Honba,
		RiichiSticks:  eg.Situation.RiichiSticks,
		DoraIndicator: eg.DeckManager.Wang().DoraIndicators[0],
		Rules:         &rules,
	})
}

func (eg *RiichiMahjong4p) pushDrawTile(seat int, t Tile) {
	eg.pushEvent(Event{Type: EventDraw, Player: seat, Tile: t})
}

func (eg *RiichiMahjong4p) pushDiscardTile(seat int, t Tile, riichi, tsumogiri bool) {
	eg.pushEvent(Event{Type: EventDiscard, Player: seat, Tile: t, Riichi: riichi, Tsumogiri: tsumogiri})
}

func (eg *RiichiMahjong4p) pushMeld(seat int, m Meld) {
	tiles := make([]Tile, len(m.Tiles))
	copy(tiles, m.Tiles)
	eg.pushEvent(Event{Type: EventMeld, Player: seat, Tile: m.Called, MeldType: m.Type.String(), Tiles: tiles, From: m.From})
}

func (eg *RiichiMahjong4p) pushDora(t Tile) {
	eg.pushEvent(Event{Type: EventDora, Player: -1, Tile: t})
}

func (eg *RiichiMahjong4p) pushAgari(w winClaim, value int, deltas [4]int) {
	yaku := make([]string, 0, len(w.result.Yaku))
	for _, y := range w.result.Yaku {
		yaku = append(yaku, y.Name())
	}
	eg.pushEvent(Event{
		Type:   EventAgari,
		Player: w.winner,
		Tile:   w.winTile,
		From:   w.from,
		Han:    w.result.Han,
		Fu:     w.result.Fu,
		Value:  value,
		Yaku:   yaku,
		Pao:    w.pao,
		Deltas: deltas,
	})
}

func (eg *RiichiMahjong4p) pushRyuukyoku(reason string, tenpai []int, deltas [4]int) {
	eg.pushEvent(Event{Type: EventRyuukyoku, Player: -1, Tile: NoTile, Reason: reason, TenpaiSeats: tenpai, Deltas: deltas})
}
