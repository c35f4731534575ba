package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"riichienv/common/config"
	"riichienv/common/log"
	"riichienv/core/domain/entity"
	"riichienv/core/domain/repository"
	"riichienv/core/infrastructure/message/transfer"
	"riichienv/framework/game/engines/calculator"
	"riichienv/runtime/game/agent"
	"riichienv/runtime/game/engines/mahjong"
	"riichienv/runtime/game/replay"

	"github.com/google/uuid"
)

/*
	1.启动时先从 redis 取出未完成的对局续打
	2.再按配置不断生成新对局，直到达到 matches（0 表示不限）或收到停止信号
	3.每个 goroutine 独占一个引擎和四个 agent，计算器与缓存共享
	4.每局结束发布轨迹、保存进度；整场结束写 mongo、删除进度、发布汇总
*/

// TrajectorySink node.TrajectoryPublisher 满足该接口
type TrajectorySink interface {
	PublishTrajectory(packet *transfer.TrajectoryPacket) error
	PublishSummary(summary *transfer.MatchSummary) error
}

// Deps worker 依赖，除计算器外都可以为空
type Deps struct {
	Evaluator   mahjong.HandEvaluator
	Searcher    *calculator.Searcher
	GameRecords repository.GameRecordRepository
	MatchStates repository.MatchStateRepository
	Publisher   TrajectorySink
	HitRatio    func() float64
}

type matchJob struct {
	matchID string
	seed    int64
	resume  *entity.MatchCheckpoint
}

type Worker struct {
	NodeID       string
	MatchManager *MatchManager
	Monitor      *Monitor

	conf       config.WorkerConf
	engineOpts mahjong.Options
	deps       Deps
	baseSeed   int64
	errCount   atomic.Int64
}

func NewWorker(nodeID string, conf config.WorkerConf, engineOpts mahjong.Options, deps Deps) *Worker {
	matchManager := NewMatchManager()
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Worker{
		NodeID:       nodeID,
		MatchManager: matchManager,
		Monitor:      NewMonitor(matchManager, deps.HitRatio, 10*time.Second),
		conf:         conf,
		engineOpts:   engineOpts,
		deps:         deps,
		baseSeed:     seed,
	}
}

// Start 阻塞直到所有对局结束或 ctx 取消
func (w *Worker) Start(ctx context.Context) error {
	if w.deps.Evaluator == nil || w.deps.Searcher == nil {
		return fmt.Errorf("worker 缺少计算器")
	}
	workers := w.conf.Workers
	if workers <= 0 {
		workers = 1
	}
	log.Info("Selfplay Worker[%s] 启动: workers=%d, matches=%d, seed=%d, agent=%s", w.NodeID, workers, w.conf.Matches, w.baseSeed, w.conf.Agent)

	go w.Monitor.Start(ctx)
	defer w.Monitor.Stop()

	jobs := make(chan matchJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				w.runJob(ctx, job)
			}
		}()
	}

	w.feed(ctx, jobs)
	close(jobs)
	wg.Wait()

	_, finished, hands := w.MatchManager.GetStats()
	log.Info("Selfplay Worker[%s] 结束: matches=%d, hands=%d, errors=%d", w.NodeID, finished, hands, w.errCount.Load())
	return nil
}

// feed 先投递续打的对局，再投递新对局
func (w *Worker) feed(ctx context.Context, jobs chan<- matchJob) {
	sent := 0
	limitReached := func() bool {
		return w.conf.Matches > 0 && sent >= w.conf.Matches
	}
	send := func(job matchJob) bool {
		select {
		case jobs <- job:
			sent++
			return true
		case <-ctx.Done():
			return false
		}
	}

	for _, job := range w.pendingJobs(ctx) {
		if limitReached() || !send(job) {
			return
		}
	}
	for n := int64(0); !limitReached(); n++ {
		if !send(matchJob{matchID: uuid.NewString(), seed: w.baseSeed + n}) {
			return
		}
	}
}

func (w *Worker) pendingJobs(ctx context.Context) []matchJob {
	if w.deps.MatchStates == nil {
		return nil
	}
	ids, err := w.deps.MatchStates.PendingMatches(ctx)
	if err != nil {
		log.Warn("读取未完成对局失败: %v", err)
		return nil
	}
	jobs := make([]matchJob, 0, len(ids))
	for _, id := range ids {
		cp, err := w.deps.MatchStates.GetCheckpoint(ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrMatchStateNotFound) {
				log.Warn("读取对局进度失败: matchID=%s, err=%v", id, err)
			}
			continue
		}
		jobs = append(jobs, matchJob{matchID: cp.MatchID, seed: cp.Seed, resume: cp})
	}
	return jobs
}

func (w *Worker) runJob(ctx context.Context, job matchJob) {
	match, err := w.newMatch(job)
	if err != nil {
		w.errCount.Add(1)
		log.Error("创建对局失败: matchID=%s, err=%v", job.matchID, err)
		return
	}
	if err := w.MatchManager.Add(match); err != nil {
		w.errCount.Add(1)
		log.Error("%v", err)
		return
	}
	defer w.MatchManager.Remove(match.ID)

	if _, err := match.Play(ctx); err != nil {
		if errors.Is(err, ErrMatchInterrupted) {
			log.Info("对局中断，进度已保留: %v", err)
			return
		}
		w.errCount.Add(1)
		log.Error("对局保存失败: matchID=%s, err=%v", match.ID, err)
	}
}

func (w *Worker) newMatch(job matchJob) (*Match, error) {
	m := &Match{
		ID:        job.matchID,
		Seed:      job.seed,
		deps:      w.deps,
		replayDir: w.conf.ReplayDir,
		resume:    job.resume,
	}
	engineSeed := job.seed
	if job.resume != nil {
		m.handOffset = job.resume.HandsPlayed
		engineSeed += int64(job.resume.HandsPlayed)
	}
	for seat := 0; seat < 4; seat++ {
		a, err := agent.New(w.conf.Agent, job.seed*4+int64(seat), w.deps.Searcher)
		if err != nil {
			return nil, err
		}
		m.Agents[seat] = a
	}

	opts := w.engineOpts
	opts.Seed = engineSeed
	m.Env = mahjong.NewRiichiMahjong4p(opts, w.deps.Evaluator, w.deps.Searcher)
	names := m.agentNames()
	m.Persister = mahjong.NewGamePersister(w.deps.GameRecords, m.ID, names, job.seed)
	m.Env.SetPersister(m.Persister)
	if w.conf.ReplayDir != "" {
		m.Recorder = replay.NewRecorder(m.ID, job.seed, names, opts)
	}
	return m, nil
}
