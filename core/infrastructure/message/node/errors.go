package node

import "errors"

var (
	ErrNotConnected     = errors.New("未连接到 nats 服务")
	ErrPublishQueueFull = errors.New("发布队列已满")
	ErrPublisherClosed  = errors.New("发布器已关闭")
)
