package entity

import "time"

// MatchCheckpoint 每局结束后写入缓存的对局进度，worker 重启后据此续打
type MatchCheckpoint struct {
	MatchID      string    `json:"match_id"`
	Seed         int64     `json:"seed"`
	Round        int       `json:"round"`
	Honba        int       `json:"honba"`
	RiichiSticks int       `json:"riichi_sticks"`
	Scores       [4]int    `json:"scores"`
	Dealer       int       `json:"dealer"`
	HandsPlayed  int       `json:"hands_played"`
	UpdatedAt    time.Time `json:"updated_at"`
}
