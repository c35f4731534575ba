package node

import (
	"encoding/json"
	"sync"

	"riichienv/common/log"
	"riichienv/core/infrastructure/message/transfer"
)

type outbound struct {
	subject string
	data    []byte
}

// TrajectoryPublisher 异步发布轨迹，worker 只负责入队，不会被网络阻塞
type TrajectoryPublisher struct {
	NatsCli   Client
	writeChan chan outbound
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

func NewTrajectoryPublisher(cli Client, bufferSize int) *TrajectoryPublisher {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &TrajectoryPublisher{
		NatsCli:   cli,
		writeChan: make(chan outbound, bufferSize),
	}
}

// Run url 为空时表示客户端已经连接好（测试中使用）
func (p *TrajectoryPublisher) Run(url string) error {
	if url != "" {
		if err := p.NatsCli.Run(url); err != nil {
			return err
		}
	}
	p.wg.Add(1)
	go p.writeChanMessage()
	return nil
}

func (p *TrajectoryPublisher) PublishTrajectory(packet *transfer.TrajectoryPacket) error {
	return p.publish(transfer.TrajectorySubject(packet.MatchID), packet)
}

func (p *TrajectoryPublisher) PublishSummary(summary *transfer.MatchSummary) error {
	return p.publish(transfer.MatchSummarySubject, summary)
}

func (p *TrajectoryPublisher) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.writeChan <- outbound{subject: subject, data: data}:
		return nil
	default:
		log.Warn("轨迹发布队列已满，丢弃: subject=%s", subject)
		return ErrPublishQueueFull
	}
}

func (p *TrajectoryPublisher) writeChanMessage() {
	defer p.wg.Done()
	for message := range p.writeChan {
		if err := p.NatsCli.SendMessage(message.subject, message.data); err != nil {
			log.Error("nats 发送错误, subject: %s, err: %v", message.subject, err)
		}
	}
}

// Close 发完队列里剩余的消息再断开
func (p *TrajectoryPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.writeChan)
	p.mu.Unlock()

	p.wg.Wait()
	if p.NatsCli != nil {
		if err := p.NatsCli.Close(); err != nil {
			log.Warn("nats 关闭出错: %v", err)
		}
	}
}
