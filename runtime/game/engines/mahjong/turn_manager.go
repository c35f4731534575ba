package mahjong

import (
	"fmt"
)

type Phase int

const (
	PhaseDiscard Phase = iota // 等待出牌、立直、杠、自摸
	PhaseCall                 // 依次询问其他三家的反应（吃碰杠和）
)

func (p Phase) String() string {
	switch p {
	case PhaseDiscard:
		return "DISCARD"
	case PhaseCall:
		return "CALL"
	default:
		return "UNKNOWN"
	}
}

// phaseTransitions 每个阶段允许的操作类型
var phaseTransitions = map[Phase]map[ActionKind]bool{
	PhaseDiscard: {
		ActionDiscard: true,
		ActionTsumo:   true,
		ActionRiichi:  true,
		ActionAnkan:   true,
		ActionKakan:   true,
		ActionKyuushu: true,
	},
	PhaseCall: {
		ActionRon:       true,
		ActionPass:      true,
		ActionPung:      true,
		ActionChii:      true,
		ActionDaiminkan: true,
	},
}

type reactionClaim struct {
	Seat   int
	Action Action
}

type TurnManager struct {
	TurnPointer int   // 当前需要决策的玩家座位
	Phase       Phase // 当前阶段

	Discarder int  // 反应阶段：打出（或加杠）这张牌的玩家
	Chankan   bool // 反应阶段：是否为抢杠窗口
	offset    int  // 已询问到出牌者之后第几家
	claim     *reactionClaim
}

// NewTurnManager 创建新的回合管理器
func NewTurnManager(dealer int) *TurnManager {
	return &TurnManager{TurnPointer: dealer, Phase: PhaseDiscard}
}

// EnterDiscardPhase 进入出牌阶段
func (tm *TurnManager) EnterDiscardPhase(seatIndex int) error {
	if seatIndex < 0 || seatIndex >= 4 {
		return fmt.Errorf("无效的座位索引: %d", seatIndex)
	}
	tm.TurnPointer = seatIndex
	tm.Phase = PhaseDiscard
	tm.Chankan = false
	tm.claim = nil
	return nil
}

// EnterCallPhase 进入反应阶段，从出牌者下家开始询问
func (tm *TurnManager) EnterCallPhase(discarder int, chankan bool) {
	tm.Phase = PhaseCall
	tm.Discarder = discarder
	tm.Chankan = chankan
	tm.offset = 0
	tm.claim = nil
}

// NextReactor 下一个被询问的玩家，三家都问完返回 false
func (tm *TurnManager) NextReactor() (int, bool) {
	if tm.offset >= 3 {
		return -1, false
	}
	tm.offset++
	seat := (tm.Discarder + tm.offset) % 4
	tm.TurnPointer = seat
	return seat, true
}

// Record 记录鸣牌请求，调用方保证优先级更高
func (tm *TurnManager) Record(seat int, a Action) {
	tm.claim = &reactionClaim{Seat: seat, Action: a}
}

// BestPriority 已记录鸣牌的优先级，没有为 0
func (tm *TurnManager) BestPriority() int {
	if tm.claim == nil {
		return 0
	}
	return tm.claim.Action.Kind.priority()
}

func (tm *TurnManager) Claim() *reactionClaim {
	return tm.claim
}

// Allows 当前阶段是否允许该类操作
func (tm *TurnManager) Allows(kind ActionKind) bool {
	return phaseTransitions[tm.Phase][kind]
}

// GetCurrentPlayer 获取当前决策玩家座位
func (tm *TurnManager) GetCurrentPlayer() int {
	return tm.TurnPointer
}
