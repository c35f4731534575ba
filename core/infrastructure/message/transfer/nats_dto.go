package transfer

import "encoding/json"

// TrajectoryPacket 一局的完整轨迹，每局结束后发布一次
type TrajectoryPacket struct {
	MatchID     string           `json:"match_id"`
	HandIndex   int              `json:"hand_index"` // 本场第几局，从 0 开始
	Seed        int64            `json:"seed"`
	Round       int              `json:"round"`
	Honba       int              `json:"honba"`
	Dealer      int              `json:"dealer"`
	Wall        []int            `json:"wall"`
	Steps       []TrajectoryStep `json:"steps"`
	Events      json.RawMessage  `json:"events"` // 本局事件日志
	Reason      string           `json:"reason"`
	FinalScores [4]int           `json:"final_scores"`
	GameOver    bool             `json:"game_over"`
}

type TrajectoryStep struct {
	Seat    int        `json:"seat"`
	Action  string     `json:"action"`
	Legal   []string   `json:"legal"`
	Rewards [4]float64 `json:"rewards"`
}

// MatchSummary 整场结束时发布
type MatchSummary struct {
	MatchID     string    `json:"match_id"`
	Agents      [4]string `json:"agents"`
	Hands       int       `json:"hands"`
	FinalScores [4]int    `json:"final_scores"`
	Ranks       [4]int    `json:"ranks"`
	DurationMs  int64     `json:"duration_ms"`
}
