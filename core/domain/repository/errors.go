package repository

import "errors"

var (
	ErrGameRecordNotFound = errors.New("game record not found")
	ErrRoundNotFound      = errors.New("round record not found")
	ErrMongodb            = errors.New("mongodb operation failed")

	// 对局进度缓存相关错误
	ErrMatchStateNotFound = errors.New("match checkpoint not found")
	ErrRedis              = errors.New("redis operation failed")
)
