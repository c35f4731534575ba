package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"riichienv/common/log"
	"riichienv/core/domain/entity"
	"riichienv/core/infrastructure/message/transfer"
	"riichienv/runtime/game/agent"
	"riichienv/runtime/game/engines/mahjong"
	"riichienv/runtime/game/replay"
)

const (
	maxHandsPerMatch = 256 // 超过视为异常对局
	checkpointTTL    = 24 * time.Hour
	persistTimeout   = 5 * time.Second
)

var ErrMatchInterrupted = errors.New("match interrupted")

// Match 一场自对弈：一个引擎实例 + 四个 agent，由单个 goroutine 驱动
type Match struct {
	ID        string
	Seed      int64
	Agents    [4]agent.Agent
	Env       *mahjong.RiichiMahjong4p
	Persister *mahjong.GamePersister
	Recorder  *replay.Recorder // 未配置 ReplayDir 时为 nil

	deps       Deps
	replayDir  string
	resume     *entity.MatchCheckpoint
	handOffset int // 续打时之前已完成的局数
	played     atomic.Int64
	startTime  time.Time
}

func (m *Match) HandsPlayed() int64 {
	return m.played.Load()
}

func (m *Match) agentNames() [4]string {
	var names [4]string
	for i, a := range m.Agents {
		names[i] = a.Name()
	}
	return names
}

// Play 打到整场结束；ctx 取消时在局间停下并保留进度，返回 ErrMatchInterrupted
func (m *Match) Play(ctx context.Context) (*transfer.MatchSummary, error) {
	m.startTime = time.Now()
	var state *mahjong.RoundState
	if m.resume != nil {
		state = &mahjong.RoundState{
			Round:        m.resume.Round,
			Honba:        m.resume.Honba,
			RiichiSticks: m.resume.RiichiSticks,
			Scores:       m.resume.Scores,
			Dealer:       m.resume.Dealer,
		}
		log.Info("续打对局: matchID=%s, hands=%d, state=%+v", m.ID, m.handOffset, *state)
	}

	aborted := false
	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s after %d hands", ErrMatchInterrupted, m.ID, m.handIndex())
		}
		if m.handIndex() >= maxHandsPerMatch {
			log.Warn("对局局数超过上限，放弃: matchID=%s", m.ID)
			aborted = true
			break
		}
		over, err := m.playHand(state)
		if err != nil {
			log.Error("对局异常结束: matchID=%s, err=%v", m.ID, err)
			aborted = true
			break
		}
		if over {
			break
		}
		m.checkpoint(ctx)
		st := m.Env.RoundState()
		state = &st
	}
	return m.finish(ctx, aborted)
}

func (m *Match) handIndex() int {
	return m.handOffset + int(m.played.Load())
}

func (m *Match) playHand(state *mahjong.RoundState) (bool, error) {
	obs, err := m.Env.Reset(state)
	if err != nil {
		return false, err
	}
	initial := m.Env.RoundState()
	if m.Recorder != nil {
		m.Recorder.BeginHand(initial, m.Env.Wall(), obs)
	}

	var (
		steps []transfer.TrajectoryStep
		res   mahjong.StepResult
	)
	for !m.Env.Done() {
		seat := obs.Seat
		a := m.Agents[seat].SelectAction(obs)
		res, err = m.Env.Step(a)
		if err != nil {
			if !errors.Is(err, mahjong.ErrEvaluatorRejected) {
				return false, fmt.Errorf("seat %d action %s: %w", seat, a, err)
			}
			log.Warn("和了判定被拒绝，本局作废: matchID=%s, err=%v", m.ID, err)
		}
		steps = append(steps, transfer.TrajectoryStep{
			Seat:    seat,
			Action:  a.String(),
			Legal:   mahjong.ActionStrings(obs.LegalActions),
			Rewards: res.Rewards,
		})
		if m.Recorder != nil {
			m.Recorder.Step(a, res)
		}
		obs = res.Observation
	}

	info := m.Env.Info()
	final := m.Env.RoundState()
	if m.Recorder != nil {
		m.Recorder.EndHand(res.Events, info, final)
	}
	m.publishHand(initial, steps, res.Events, info, final)
	m.played.Add(1)
	return info.GameOver, nil
}

func (m *Match) publishHand(initial mahjong.RoundState, steps []transfer.TrajectoryStep, events []mahjong.Event, info mahjong.Info, final mahjong.RoundState) {
	if m.deps.Publisher == nil {
		return
	}
	raw, err := json.Marshal(events)
	if err != nil {
		log.Warn("事件序列化失败: matchID=%s, err=%v", m.ID, err)
		return
	}
	packet := &transfer.TrajectoryPacket{
		MatchID:     m.ID,
		HandIndex:   m.handIndex(),
		Seed:        m.Seed,
		Round:       initial.Round,
		Honba:       initial.Honba,
		Dealer:      initial.Dealer,
		Wall:        m.Env.Wall(),
		Steps:       steps,
		Events:      raw,
		Reason:      info.Reason,
		FinalScores: final.Scores,
		GameOver:    info.GameOver,
	}
	if err := m.deps.Publisher.PublishTrajectory(packet); err != nil {
		log.Warn("发布轨迹失败: matchID=%s, hand=%d, err=%v", m.ID, packet.HandIndex, err)
	}
}

// checkpoint 保存下一局开局需要的场况
func (m *Match) checkpoint(ctx context.Context) {
	if m.deps.MatchStates == nil {
		return
	}
	st := m.Env.RoundState()
	cp := &entity.MatchCheckpoint{
		MatchID:      m.ID,
		Seed:         m.Seed,
		Round:        st.Round,
		Honba:        st.Honba,
		RiichiSticks: st.RiichiSticks,
		Scores:       st.Scores,
		Dealer:       st.Dealer,
		HandsPlayed:  m.handIndex(),
		UpdatedAt:    time.Now(),
	}
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := m.deps.MatchStates.SaveCheckpoint(opCtx, cp, checkpointTTL); err != nil {
		log.Warn("保存对局进度失败: matchID=%s, err=%v", m.ID, err)
	}
}

func (m *Match) finish(ctx context.Context, aborted bool) (*transfer.MatchSummary, error) {
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	scores := m.Env.RoundState().Scores
	var firstErr error
	if err := m.Persister.FinalizeGame(opCtx, scores, aborted); err != nil {
		firstErr = err
	}
	if m.deps.MatchStates != nil {
		if err := m.deps.MatchStates.DeleteCheckpoint(opCtx, m.ID); err != nil {
			log.Warn("删除对局进度失败: matchID=%s, err=%v", m.ID, err)
		}
	}
	if m.Recorder != nil {
		if err := m.saveReplay(); err != nil {
			log.Warn("保存回放日志失败: matchID=%s, err=%v", m.ID, err)
		}
	}

	names := m.agentNames()
	players := make([]entity.PlayerInfo, 0, 4)
	for seat, name := range names {
		players = append(players, entity.PlayerInfo{AgentName: name, SeatIndex: seat})
	}
	summary := &transfer.MatchSummary{
		MatchID:     m.ID,
		Agents:      names,
		Hands:       m.handIndex(),
		FinalScores: scores,
		DurationMs:  time.Since(m.startTime).Milliseconds(),
	}
	for _, r := range entity.NewGameFinalResult(players, scores).Rankings {
		summary.Ranks[r.SeatIndex] = r.Rank
	}
	if m.deps.Publisher != nil {
		if err := m.deps.Publisher.PublishSummary(summary); err != nil {
			log.Warn("发布对局汇总失败: matchID=%s, err=%v", m.ID, err)
		}
	}
	log.Info("对局结束: matchID=%s, hands=%d, scores=%v, ranks=%v, aborted=%v", m.ID, summary.Hands, scores, summary.Ranks, aborted)
	return summary, firstErr
}

func (m *Match) saveReplay() error {
	if err := os.MkdirAll(m.replayDir, 0o755); err != nil {
		return err
	}
	return replay.Save(filepath.Join(m.replayDir, m.ID+".yml"), m.Recorder.Log())
}
