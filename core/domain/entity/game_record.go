package entity

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GameTypeRiichi4p = "riichi_mahjong_4p"

	GameStatusInProgress = "in_progress"
	GameStatusCompleted  = "completed"
	GameStatusAborted    = "aborted"
)

// GameRecord 一场自对弈的元数据（聚合根），每局的明细存放在 RoundRecord
type GameRecord struct {
	ID          primitive.ObjectID `bson:"_id"`
	MatchID     string             `bson:"match_id"`     // worker 生成的 uuid
	GameType    string             `bson:"game_type"`    // "riichi_mahjong_4p"
	Seed        int64              `bson:"seed"`         // 牌山随机种子
	Players     []PlayerInfo       `bson:"players"`      // 座位与 agent
	StartTime   time.Time          `bson:"start_time"`   // 对局开始时间
	EndTime     time.Time          `bson:"end_time"`     // 对局结束时间
	Duration    int                `bson:"duration"`     // 时长（秒）
	RoundCount  int                `bson:"round_count"`  // 总局数（含连庄）
	FinalResult *GameFinalResult   `bson:"final_result"` // 最终结果
	Status      string             `bson:"status"`       // "completed", "aborted"
	CreatedAt   time.Time          `bson:"created_at"`
}

type PlayerInfo struct {
	AgentName string `bson:"agent_name"`
	SeatIndex int    `bson:"seat_index"`
}

type GameFinalResult struct {
	Rankings []PlayerRanking `bson:"rankings"` // 按名次排序
	Points   [4]int          `bson:"points"`   // 按座位索引
}

type PlayerRanking struct {
	SeatIndex int    `bson:"seat_index"`
	AgentName string `bson:"agent_name"`
	Points    int    `bson:"points"`
	Rank      int    `bson:"rank"` // 1-4
}

func NewGameRecord(matchID string, seed int64, players []PlayerInfo) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		MatchID:   matchID,
		GameType:  GameTypeRiichi4p,
		Seed:      seed,
		Players:   players,
		StartTime: now,
		Status:    GameStatusInProgress,
		CreatedAt: now,
	}
}

// CompleteGame 结束对局并按点数排名，同分时座位靠前者名次靠前
func (gr *GameRecord) CompleteGame(points [4]int) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.FinalResult = NewGameFinalResult(gr.Players, points)
	gr.Status = GameStatusCompleted
}

func (gr *GameRecord) AbortGame() {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.Status = GameStatusAborted
}

func NewGameFinalResult(players []PlayerInfo, points [4]int) *GameFinalResult {
	names := [4]string{}
	for _, p := range players {
		if p.SeatIndex >= 0 && p.SeatIndex < 4 {
			names[p.SeatIndex] = p.AgentName
		}
	}
	rankings := make([]PlayerRanking, 0, 4)
	for seat := 0; seat < 4; seat++ {
		rankings = append(rankings, PlayerRanking{SeatIndex: seat, AgentName: names[seat], Points: points[seat]})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Points > rankings[j].Points
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return &GameFinalResult{Rankings: rankings, Points: points}
}
