package mahjong

import "errors"

var (
	ErrInvalidAction      = errors.New("invalid action")
	ErrHandFinished       = errors.New("hand already finished")
	ErrEvaluatorRejected  = errors.New("hand evaluator rejected win")
	ErrInvariantViolation = errors.New("engine invariant violated")
	ErrInvalidWall        = errors.New("invalid wall")
)
