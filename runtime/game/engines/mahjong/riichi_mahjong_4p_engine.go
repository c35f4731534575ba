package mahjong

import (
	"fmt"
	"math/rand"

	"riichienv/common/log"
)

/*
	注意：
		1.立直后只能摸切，可以暗杠（听牌不能改变）
		2.立直后不可以吃、碰、明杠
		3.河底牌打出后不能再鸣牌
		4.立直宣言时立刻扣除 1000 点供托
		5.暗杠、加杠都会立刻翻开新的宝牌指示牌
		6.多家荣和只取出牌者下家起最先选择荣和的一家（头跳）

	状态机只有两个阶段：
		第一是出牌（DISCARD），当前玩家的操作有(出牌、暗杠、加杠、立直、自摸、九种九牌)
		第二是响应出牌（CALL），从出牌者下家起依次询问(荣和、碰、明杠、吃、过)
		只有"过"可选的玩家自动跳过，不需要外部决策
	一局结束（和了、荒牌流局、中途流局）后 done 为 true，需要 Reset 开始下一局
	引擎是单线程的，一个实例同一时刻只能被一个调用方使用
*/

// RiichiMahjong4p 日麻四人游戏引擎
type RiichiMahjong4p struct {
	opts      Options
	evaluator HandEvaluator
	shanten   ShantenCalculator
	rng       *rand.Rand

	Situation   RoundState      // 场况，跨局保存
	Players     [4]*PlayerImage // 座位索引 -> 玩家游戏状态
	DeckManager *DeckManager    // 牌库管理（含王牌、宝牌指示牌）
	TurnManager *TurnManager    // 回合管理
	Persister   *GamePersister  // 持久化组件，可为空
	lastDiscard LastDiscard

	events       []Event
	legal        []Action // 当前决策玩家的可选操作
	kanMakers    []int    // 本局开杠的人，按顺序
	paoDragon    [4]int   // 大三元责任者
	paoWind      [4]int   // 大四喜责任者
	anyCall      bool     // 本局有人鸣牌（含暗杠）
	discardCount int

	done      bool
	info      Info
	stepDelta [4]int
}

type Observation struct {
	Seat         int      `json:"seat" yaml:"seat"`
	Phase        Phase    `json:"phase" yaml:"phase"`
	Events       []Event  `json:"events" yaml:"events"`
	LegalActions []Action `json:"-" yaml:"-"`
	Hand         []Tile   `json:"hand" yaml:"hand"`
	DrawnTile    Tile     `json:"drawn_tile" yaml:"drawn_tile"`
}

type Info struct {
	Reason   string `json:"reason" yaml:"reason"`
	GameOver bool   `json:"game_over" yaml:"game_over"`
}

type StepResult struct {
	Observation
	Rewards [4]float64
	Done    bool
	Info    Info
}

type resetConfig struct {
	wall []int
}

type ResetOption func(*resetConfig)

// WithWall 指定 136 张牌的排列（回放、测试），末尾 14 张为王牌
func WithWall(wall []int) ResetOption {
	return func(c *resetConfig) {
		c.wall = wall
	}
}

// NewRiichiMahjong4p 创建立直麻将 4 人引擎实例
func NewRiichiMahjong4p(opts Options, evaluator HandEvaluator, shanten ShantenCalculator) *RiichiMahjong4p {
	return &RiichiMahjong4p{
		opts:      opts,
		evaluator: evaluator,
		shanten:   shanten,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		Situation: NewRoundState(opts.StartingScore),
		done:      true,
	}
}

func (eg *RiichiMahjong4p) SetPersister(p *GamePersister) {
	eg.Persister = p
}

func (eg *RiichiMahjong4p) Options() Options {
	return eg.opts
}

// RoundState 供下一局 Reset 使用的场况
func (eg *RiichiMahjong4p) RoundState() RoundState {
	return eg.Situation
}

// Reset 开始新的一局，initial 为空时开始新的一场
func (eg *RiichiMahjong4p) Reset(initial *RoundState, opts ...ResetOption) (Observation, error) {
	var cfg resetConfig
	for _, o := range opts {
		o(&cfg)
	}
	state := NewRoundState(eg.opts.StartingScore)
	if initial != nil {
		state = *initial
	}
	if err := state.validate(); err != nil {
		return Observation{}, err
	}

	if eg.DeckManager == nil {
		eg.DeckManager = NewDeckManager(eg.rng)
	}
	if err := eg.DeckManager.InitRound(cfg.wall); err != nil {
		return Observation{}, err
	}

	eg.Situation = state
	for i := 0; i < 4; i++ {
		eg.Players[i] = NewPlayerImage(i)
		eg.paoDragon[i] = -1
		eg.paoWind[i] = -1
	}
	eg.TurnManager = NewTurnManager(state.Dealer)
	eg.lastDiscard = LastDiscard{}
	eg.events = eg.events[:0:0]
	eg.kanMakers = eg.kanMakers[:0]
	eg.anyCall = false
	eg.discardCount = 0
	eg.done = false
	eg.info = Info{}
	eg.stepDelta = [4]int{}

	if eg.Persister != nil {
		eg.Persister.StartRound(state, eg.DeckManager.Layout())
	}
	log.Debug("新的一局开始: %+v", state)

	eg.distributeCard()
	eg.pushInit()
	dealer := state.Dealer
	t, _ := eg.DeckManager.Draw()
	eg.Players[dealer].DrawTile(t, false)
	eg.pushDrawTile(dealer, t)

	if err := eg.enterDiscard(dealer); err != nil {
		return Observation{}, err
	}
	if err := eg.CheckTileConservation(); err != nil {
		return Observation{}, err
	}
	return eg.observation(), nil
}

// distributeCard 从庄家起轮流发牌，每人 13 张
func (eg *RiichiMahjong4p) distributeCard() {
	dealer := eg.Situation.Dealer
	for k := 0; k < 4*HandSize; k++ {
		t, _ := eg.DeckManager.Draw()
		eg.Players[(dealer+k)%4].AddTile(t)
	}
}

// StepString 解析外部操作字符串后执行
func (eg *RiichiMahjong4p) StepString(s string) (StepResult, error) {
	a, err := ParseAction(s)
	if err != nil {
		return StepResult{}, err
	}
	return eg.Step(a)
}

// Step 执行当前决策玩家的一个操作，直到下一个需要外部决策的时刻或本局结束
func (eg *RiichiMahjong4p) Step(action Action) (StepResult, error) {
	if eg.done {
		return StepResult{}, ErrHandFinished
	}
	tm := eg.TurnManager
	if !tm.Allows(action.Kind) || !containsAction(eg.legal, action) {
		log.Warn("非法操作: seat=%d phase=%s action=%s", tm.TurnPointer, tm.Phase, action)
		return StepResult{}, fmt.Errorf("%w: %s in phase %s", ErrInvalidAction, action, tm.Phase)
	}

	eg.stepDelta = [4]int{}
	seat := tm.TurnPointer
	var err error
	switch tm.Phase {
	case PhaseDiscard:
		err = eg.handleTurnAction(seat, action)
	case PhaseCall:
		err = eg.handleReaction(seat, action)
	}
	if err != nil {
		eg.done = true
		eg.legal = nil
	}

	if cerr := eg.CheckTileConservation(); cerr != nil {
		log.Error("牌数守恒校验失败: %v", cerr)
		eg.done = true
		eg.legal = nil
		if err == nil {
			err = cerr
		}
	}

	res := StepResult{
		Observation: eg.observation(),
		Done:        eg.done,
		Info:        eg.info,
	}
	for i, d := range eg.stepDelta {
		res.Rewards[i] = float64(d)
	}
	return res, err
}

func (eg *RiichiMahjong4p) observation() Observation {
	obs := Observation{
		Seat:      -1,
		Phase:     eg.TurnManager.Phase,
		Events:    eg.events[:len(eg.events):len(eg.events)],
		DrawnTile: NoTile,
	}
	if eg.done {
		return obs
	}
	seat := eg.TurnManager.TurnPointer
	p := eg.Players[seat]
	obs.Seat = seat
	obs.LegalActions = append([]Action(nil), eg.legal...)
	obs.Hand = append([]Tile(nil), p.Tiles...)
	if eg.TurnManager.Phase == PhaseDiscard {
		obs.DrawnTile = p.NewestTile
	}
	return obs
}

// LegalActions 当前决策玩家的可选操作
func (eg *RiichiMahjong4p) LegalActions() []Action {
	return append([]Action(nil), eg.legal...)
}

// Wall 本局开局牌山
func (eg *RiichiMahjong4p) Wall() []int {
	if eg.DeckManager == nil {
		return nil
	}
	return eg.DeckManager.Layout()
}

// Info 最近一局的结束信息
func (eg *RiichiMahjong4p) Info() Info {
	return eg.info
}

func (eg *RiichiMahjong4p) Done() bool {
	return eg.done
}

// enterDiscard 进入打牌回合并收集可选操作
func (eg *RiichiMahjong4p) enterDiscard(seat int) error {
	if err := eg.TurnManager.EnterDiscardPhase(seat); err != nil {
		return err
	}
	eg.legal = eg.legalActionsForTurn(seat)
	return nil
}

// drawTurn 摸牌后进入打牌回合
func (eg *RiichiMahjong4p) drawTurn(seat int) error {
	t, ok := eg.DeckManager.Draw()
	if !ok {
		return eg.exhaustiveDraw()
	}
	eg.Players[seat].DrawTile(t, false)
	eg.pushDrawTile(seat, t)
	return eg.enterDiscard(seat)
}

func (eg *RiichiMahjong4p) handleTurnAction(seat int, a Action) error {
	switch a.Kind {
	case ActionDiscard:
		return eg.handleDiscard(seat, a.Tile, false)
	case ActionRiichi:
		return eg.handleRiichi(seat, a.Tile)
	case ActionTsumo:
		return eg.settleTsumo(seat)
	case ActionAnkan:
		return eg.handleAnkan(seat, a.Tile)
	case ActionKakan:
		return eg.handleKakan(seat, a.Tile)
	case ActionKyuushu:
		return eg.abortiveDraw(ReasonKyuushu)
	}
	return fmt.Errorf("%w: %s in phase %s", ErrInvalidAction, a, PhaseDiscard)
}

func (eg *RiichiMahjong4p) handleDiscard(seat int, tile Tile, riichi bool) error {
	p := eg.Players[seat]
	tsumogiri := tile == p.NewestTile
	p.DiscardTile(tile, riichi)
	if !riichi {
		p.Ippatsu = false
	}
	eg.lastDiscard = LastDiscard{Seat: seat, Tile: tile, Valid: true}
	eg.discardCount++
	eg.pushDiscardTile(seat, tile, riichi, tsumogiri)

	if eg.isSuufonRenda() {
		return eg.abortiveDraw(ReasonSuufonRenda)
	}
	eg.TurnManager.EnterCallPhase(seat, false)
	return eg.pollReactions()
}

// handleRiichi 立直宣言并打出宣言牌，供托立即扣除
func (eg *RiichiMahjong4p) handleRiichi(seat int, tile Tile) error {
	p := eg.Players[seat]
	p.IsRiichi = true
	p.Ippatsu = true
	var delta [4]int
	delta[seat] = -eg.opts.RiichiDeposit
	eg.applyDelta(delta)
	eg.Situation.RiichiSticks++
	return eg.handleDiscard(seat, tile, true)
}

func (eg *RiichiMahjong4p) handleAnkan(seat int, tile Tile) error {
	p := eg.Players[seat]
	tiles := p.TakeTiles(tile.Type(), 4)
	if tiles == nil {
		return fmt.Errorf("%w: ankan %s without four tiles", ErrInvariantViolation, tile.Type())
	}
	m := Meld{Type: MeldAnkan, Tiles: tiles, From: -1, Called: NoTile}
	p.Melds = append(p.Melds, m)
	p.NewestTile = NoTile
	eg.pushMeld(seat, m)
	eg.breakFirstTurn()
	eg.kanMakers = append(eg.kanMakers, seat)
	return eg.afterKan(seat)
}

// handleKakan 加杠先给其他三家抢杠的机会
func (eg *RiichiMahjong4p) handleKakan(seat int, tile Tile) error {
	p := eg.Players[seat]
	idx := -1
	for i, m := range p.Melds {
		if m.Type == MeldPung && m.TileType() == tile.Type() {
			idx = i
			break
		}
	}
	if idx < 0 || !p.RemoveTile(tile) {
		return fmt.Errorf("%w: kakan %d without pung", ErrInvariantViolation, tile)
	}
	old := p.Melds[idx]
	tiles := append(append([]Tile(nil), old.Tiles...), tile)
	m := Meld{Type: MeldKakan, Tiles: tiles, From: old.From, Called: old.Called}
	p.Melds[idx] = m
	p.NewestTile = NoTile
	eg.pushMeld(seat, m)
	eg.anyCall = true

	eg.lastDiscard = LastDiscard{Seat: seat, Tile: tile, Valid: true}
	eg.TurnManager.EnterCallPhase(seat, true)
	return eg.pollReactions()
}

// completeKakan 无人抢杠，加杠成立
func (eg *RiichiMahjong4p) completeKakan(seat int) error {
	eg.breakFirstTurn()
	eg.kanMakers = append(eg.kanMakers, seat)
	return eg.afterKan(seat)
}

// afterKan 摸岭上牌、判四杠散了、翻杠宝牌
func (eg *RiichiMahjong4p) afterKan(seat int) error {
	t, ok := eg.DeckManager.DrawRinshan()
	if !ok {
		return fmt.Errorf("%w: no rinshan tile", ErrInvariantViolation)
	}
	eg.Players[seat].DrawTile(t, true)
	eg.pushDrawTile(seat, t)
	if eg.isSuukaikan() {
		return eg.abortiveDraw(ReasonSuukaikan)
	}
	if d, ok := eg.DeckManager.RevealKanDora(); ok {
		eg.pushDora(d)
	}
	return eg.enterDiscard(seat)
}

// breakFirstTurn 有人鸣牌：所有人失去一发，第一巡结束
func (eg *RiichiMahjong4p) breakFirstTurn() {
	eg.anyCall = true
	for _, p := range eg.Players {
		p.Ippatsu = false
	}
}

// pollReactions 依次询问出牌者之后的三家，只能"过"或压不过已有鸣牌的自动跳过
func (eg *RiichiMahjong4p) pollReactions() error {
	tm := eg.TurnManager
	for {
		seat, ok := tm.NextReactor()
		if !ok {
			return eg.resolveReactions()
		}
		options := filterByClaim(eg.legalActionsForReaction(seat, tm.Discarder, eg.lastDiscard.Tile, tm.Chankan), tm.BestPriority())
		if len(options) == 1 {
			continue
		}
		eg.legal = options
		return nil
	}
}

func (eg *RiichiMahjong4p) handleReaction(seat int, a Action) error {
	tm := eg.TurnManager
	switch a.Kind {
	case ActionRon:
		return eg.settleRon(seat)
	case ActionPass:
		if containsAction(eg.legal, Ron) {
			// 见逃：只有给出了荣和选项才进入振听，无役听牌不算
			p := eg.Players[seat]
			if p.IsRiichi {
				p.RiichiFuriten = true
			} else {
				p.TempFuriten = true
			}
		}
	default:
		tm.Record(seat, a)
	}
	return eg.pollReactions()
}

// resolveReactions 三家都表态后执行优先级最高的鸣牌
func (eg *RiichiMahjong4p) resolveReactions() error {
	tm := eg.TurnManager
	if c := tm.Claim(); c != nil {
		return eg.applyClaim(c.Seat, c.Action)
	}
	if tm.Chankan {
		return eg.completeKakan(tm.Discarder)
	}
	if eg.allRiichi() {
		return eg.abortiveDraw(ReasonSuuchaRiichi)
	}
	if eg.DeckManager.Remaining() == 0 {
		return eg.exhaustiveDraw()
	}
	return eg.drawTurn((tm.Discarder + 1) % 4)
}

// applyClaim 吃、碰、明杠
func (eg *RiichiMahjong4p) applyClaim(seat int, a Action) error {
	discarder := eg.TurnManager.Discarder
	tile := eg.lastDiscard.Tile
	p := eg.Players[seat]

	var taken []Tile
	var mt MeldType
	switch a.Kind {
	case ActionPung:
		mt, taken = MeldPung, p.TakeTiles(tile.Type(), 2)
	case ActionDaiminkan:
		mt, taken = MeldDaiminkan, p.TakeTiles(tile.Type(), 3)
	case ActionChii:
		mt = MeldChii
		lo := p.TakeTiles(a.Low, 1)
		hi := p.TakeTiles(a.High, 1)
		if lo != nil && hi != nil {
			taken = append(lo, hi...)
		}
	}
	if taken == nil {
		return fmt.Errorf("%w: claim %s by seat %d", ErrInvariantViolation, a, seat)
	}

	tiles := append(taken, tile)
	sortTiles(tiles)
	m := Meld{Type: mt, Tiles: tiles, From: discarder, Called: tile}
	p.Melds = append(p.Melds, m)
	eg.Players[discarder].markLastClaimed()
	eg.pushMeld(seat, m)
	eg.breakFirstTurn()
	eg.checkPao(seat, discarder, m)

	if mt == MeldDaiminkan {
		eg.kanMakers = append(eg.kanMakers, seat)
		return eg.afterKan(seat)
	}
	p.AfterCall = true
	p.NewestTile = NoTile
	p.Rinshan = false
	return eg.enterDiscard(seat)
}
