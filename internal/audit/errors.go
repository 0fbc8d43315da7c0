package audit

import "errors"

var (
	ErrQueueFull   = errors.New("audit queue full")
	ErrQueueClosed = errors.New("audit queue closed")
	ErrCircuitOpen = errors.New("audit sink circuit open")
)
