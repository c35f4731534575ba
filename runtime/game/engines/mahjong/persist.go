package mahjong

import (
	"context"
	"strings"
	"sync"

	"riichienv/common/log"
	"riichienv/core/domain/entity"
	"riichienv/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GamePersister 对局持久化组件
// 引擎在对局过程中推送事件，整场结束后由 worker 调用 FinalizeGame 一次性写库
type GamePersister struct {
	repo         repository.GameRecordRepository
	gameRecord   *entity.GameRecord
	rounds       []*entity.RoundRecord // 所有局（对局结束后一次性保存）
	currentRound *entity.RoundRecord
	eventMu      sync.Mutex
	closed       bool
}

// NewGamePersister repo 为 nil 时只在内存中收集，供发布轨迹或测试使用
func NewGamePersister(repo repository.GameRecordRepository, matchID string, agents [4]string, seed int64) *GamePersister {
	players := make([]entity.PlayerInfo, 0, 4)
	for seat, name := range agents {
		players = append(players, entity.PlayerInfo{AgentName: name, SeatIndex: seat})
	}
	return &GamePersister{
		repo:       repo,
		gameRecord: entity.NewGameRecord(matchID, seed, players),
		rounds:     make([]*entity.RoundRecord, 0, 8),
	}
}

func (gp *GamePersister) GetGameRecordID() primitive.ObjectID {
	return gp.gameRecord.ID
}

// StartRound 开始新的一局，wall 为完整牌山
func (gp *GamePersister) StartRound(state RoundState, wall []int) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed {
		return
	}
	gp.currentRound = entity.NewRoundRecord(
		gp.gameRecord.ID,
		gp.gameRecord.MatchID,
		state.Round,
		state.Dealer,
		state.Honba,
		state.RiichiSticks,
		state.Scores,
		wall,
	)
	gp.rounds = append(gp.rounds, gp.currentRound)
}

// Record 事件按 bson 标签展开成文档，省掉每种事件单独写转换
func (gp *GamePersister) Record(e Event) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}
	data, err := eventData(e)
	if err != nil {
		log.Warn("事件序列化失败: type=%s, err=%v", e.Type, err)
		return
	}
	gp.currentRound.AddEvent(string(e.Type), e.Player, data)
}

func eventData(e Event) (map[string]interface{}, error) {
	raw, err := bson.Marshal(e)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "eventId")
	return m, nil
}

// CompleteRound 结束当前局，点数变化按开局点数计算（包含立直棒）
func (gp *GamePersister) CompleteRound(reason string, state RoundState, gameOver bool) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil || gp.currentRound.Completed() {
		return
	}

	var delta [4]int
	for s := 0; s < 4; s++ {
		delta[s] = state.Scores[s] - gp.currentRound.StartScores[s]
	}
	nextDealer := state.Dealer
	if gameOver {
		nextDealer = -1
	}
	gp.currentRound.CompleteRound(&entity.RoundResult{
		EndType:    endTypeOf(reason),
		Claims:     gp.claimsOf(gp.currentRound),
		Delta:      delta,
		Points:     state.Scores,
		Reason:     reason,
		NextDealer: nextDealer,
	})
}

func endTypeOf(reason string) string {
	switch {
	case reason == ReasonAgari:
		return entity.EndTypeAgari
	case reason == ReasonRyuukyoku || reason == ReasonNagashi:
		return entity.EndTypeRyuukyoku
	case strings.HasPrefix(reason, reasonAgariError):
		return entity.EndTypeError
	default:
		return entity.EndTypeAbort
	}
}

// claimsOf 从已记录的 AGARI 事件中取出和牌信息
func (gp *GamePersister) claimsOf(rr *entity.RoundRecord) []entity.HuClaim {
	var claims []entity.HuClaim
	for _, ev := range rr.Events {
		if ev.EventType != string(EventAgari) {
			continue
		}
		claim := entity.HuClaim{
			WinnerSeat: ev.SeatIndex,
			LoserSeat:  intField(ev.Data, "from"),
			WinTile:    intField(ev.Data, "tile"),
			Han:        intField(ev.Data, "han"),
			Fu:         intField(ev.Data, "fu"),
			Points:     intField(ev.Data, "handValue"),
			PaoSeat:    intField(ev.Data, "pao"),
		}
		if claim.LoserSeat == claim.WinnerSeat {
			claim.LoserSeat = -1
		}
		if ys, ok := ev.Data["yaku"].(bson.A); ok {
			for _, y := range ys {
				if s, ok := y.(string); ok {
					claim.Yaku = append(claim.Yaku, s)
				}
			}
		}
		claims = append(claims, claim)
	}
	return claims
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Rounds 已收集的局记录（包括未结束的当前局）
func (gp *GamePersister) Rounds() []*entity.RoundRecord {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds)
	return rounds
}

// CurrentRound 最近一局
func (gp *GamePersister) CurrentRound() *entity.RoundRecord {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	return gp.currentRound
}

// FinalizeGame 整场结束时调用，保存对局记录和所有局记录；调用后不再接收事件
func (gp *GamePersister) FinalizeGame(ctx context.Context, finalPoints [4]int, aborted bool) error {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return nil
	}
	gp.closed = true
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds)
	gp.eventMu.Unlock()

	gp.gameRecord.RoundCount = len(rounds)
	if aborted {
		gp.gameRecord.AbortGame()
		gp.gameRecord.FinalResult = entity.NewGameFinalResult(gp.gameRecord.Players, finalPoints)
	} else {
		gp.gameRecord.CompleteGame(finalPoints)
	}
	if gp.repo == nil {
		return nil
	}

	if err := gp.repo.SaveGameRecord(ctx, gp.gameRecord); err != nil {
		log.Error("保存对局记录失败: %v", err)
		return err
	}
	if err := gp.repo.SaveRoundRecords(ctx, rounds); err != nil {
		log.Error("批量保存局记录失败: %v", err)
		return err
	}
	log.Info("对局记录保存成功: gameRecordID=%s, rounds=%d", gp.gameRecord.ID.Hex(), len(rounds))
	return nil
}

func (gp *GamePersister) GameRecord() *entity.GameRecord {
	return gp.gameRecord
}
