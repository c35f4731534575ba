package node

import (
	"encoding/json"
	"sync"
	"testing"

	"riichienv/core/infrastructure/message/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordClient struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	closed   bool
}

func (c *recordClient) Run(string) error { return nil }

func (c *recordClient) SendMessage(subject string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func (c *recordClient) Close() error {
	c.closed = true
	return nil
}

func TestPublisherDrainsOnClose(t *testing.T) {
	cli := &recordClient{}
	p := NewTrajectoryPublisher(cli, 16)
	require.NoError(t, p.Run(""))

	for i := 0; i < 3; i++ {
		require.NoError(t, p.PublishTrajectory(&transfer.TrajectoryPacket{MatchID: "m1", HandIndex: i}))
	}
	require.NoError(t, p.PublishSummary(&transfer.MatchSummary{MatchID: "m1", Hands: 3}))
	p.Close()

	require.Len(t, cli.subjects, 4)
	assert.Equal(t, "selfplay.trajectory.m1", cli.subjects[0])
	assert.Equal(t, transfer.MatchSummarySubject, cli.subjects[3])
	assert.True(t, cli.closed)

	var pkt transfer.TrajectoryPacket
	require.NoError(t, json.Unmarshal(cli.payloads[2], &pkt))
	assert.Equal(t, 2, pkt.HandIndex)

	assert.ErrorIs(t, p.PublishTrajectory(&transfer.TrajectoryPacket{MatchID: "m1"}), ErrPublisherClosed)
	p.Close()
}

func TestPublisherQueueFull(t *testing.T) {
	p := NewTrajectoryPublisher(&recordClient{}, 1)
	// 不启动发送协程，第二条必然入队失败
	require.NoError(t, p.PublishTrajectory(&transfer.TrajectoryPacket{MatchID: "a"}))
	assert.ErrorIs(t, p.PublishTrajectory(&transfer.TrajectoryPacket{MatchID: "a"}), ErrPublishQueueFull)
}
