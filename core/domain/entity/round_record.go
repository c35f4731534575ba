package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord 局记录（每局一个文档）
// 存储开局状态、牌山、事件流和本局结果，足以离线重放
type RoundRecord struct {
	ID           primitive.ObjectID `bson:"_id"`
	GameRecordID primitive.ObjectID `bson:"game_record_id"` // 关联对局记录
	MatchID      string             `bson:"match_id"`
	RoundNumber  int                `bson:"round_number"`  // 从 0 开始，连庄不增加
	RoundWind    string             `bson:"round_wind"`    // "East", "South", "West", "North"
	DealerIndex  int                `bson:"dealer_index"`  // 庄家座位
	Honba        int                `bson:"honba"`         // 本场数
	RiichiSticks int                `bson:"riichi_sticks"` // 开局时场上供托
	StartScores  [4]int             `bson:"start_scores"`  // 开局点数
	Wall         []int              `bson:"wall"`          // 完整牌山（最后 14 张为王牌）
	Events       []RoundEvent       `bson:"events"`        // 事件流（按时间顺序）
	RoundResult  *RoundResult       `bson:"round_result"`  // 本局结果
	StartTime    time.Time          `bson:"start_time"`
	EndTime      time.Time          `bson:"end_time"`
	Duration     int                `bson:"duration"` // 毫秒，自对弈一局通常不到一秒
	CreatedAt    time.Time          `bson:"created_at"`
}

// RoundEvent 只存事件，不存快照
type RoundEvent struct {
	Sequence  int                    `bson:"sequence"`   // 局内从 0 递增
	EventType string                 `bson:"event_type"` // INIT, DRAW, DISCARD ...
	Timestamp time.Time              `bson:"timestamp"`
	SeatIndex int                    `bson:"seat_index"` // -1 表示系统事件
	Data      map[string]interface{} `bson:"data"`
}

type RoundResult struct {
	EndType    string    `bson:"end_type"` // "AGARI", "RYUUKYOKU", "ABORT", "ERROR"
	Claims     []HuClaim `bson:"claims"`
	Delta      [4]int    `bson:"delta"`       // 点数变化（含立直棒）
	Points     [4]int    `bson:"points"`      // 局后点数
	Reason     string    `bson:"reason"`      // 结束原因
	NextDealer int       `bson:"next_dealer"` // -1 表示整场结束
}

type HuClaim struct {
	WinnerSeat int      `bson:"winner_seat"`
	LoserSeat  int      `bson:"loser_seat"` // 自摸时为 -1
	WinTile    int      `bson:"win_tile"`
	Han        int      `bson:"han"`
	Fu         int      `bson:"fu"`
	Yaku       []string `bson:"yaku"`
	Points     int      `bson:"points"`
	PaoSeat    int      `bson:"pao_seat"` // 没有包牌为 -1
}

const (
	EndTypeAgari     = "AGARI"
	EndTypeRyuukyoku = "RYUUKYOKU"
	EndTypeAbort     = "ABORT"
	EndTypeError     = "ERROR"
)

var roundWinds = [4]string{"East", "South", "West", "North"}

func RoundWindName(round int) string {
	return roundWinds[(round/4)%4]
}

func NewRoundRecord(gameRecordID primitive.ObjectID, matchID string, roundNumber, dealerIndex, honba, riichiSticks int, scores [4]int, wall []int) *RoundRecord {
	now := time.Now()
	w := make([]int, len(wall))
	copy(w, wall)
	return &RoundRecord{
		ID:           primitive.NewObjectID(),
		GameRecordID: gameRecordID,
		MatchID:      matchID,
		RoundNumber:  roundNumber,
		RoundWind:    RoundWindName(roundNumber),
		DealerIndex:  dealerIndex,
		Honba:        honba,
		RiichiSticks: riichiSticks,
		StartScores:  scores,
		Wall:         w,
		Events:       make([]RoundEvent, 0, 128),
		StartTime:    now,
		CreatedAt:    now,
	}
}

func (rr *RoundRecord) AddEvent(eventType string, seatIndex int, data map[string]interface{}) {
	rr.Events = append(rr.Events, RoundEvent{
		Sequence:  len(rr.Events),
		EventType: eventType,
		Timestamp: time.Now(),
		SeatIndex: seatIndex,
		Data:      data,
	})
}

func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.EndTime = time.Now()
	rr.Duration = int(rr.EndTime.Sub(rr.StartTime).Milliseconds())
	rr.RoundResult = result
}

// Completed 本局是否已经结束
func (rr *RoundRecord) Completed() bool {
	return rr.RoundResult != nil
}
