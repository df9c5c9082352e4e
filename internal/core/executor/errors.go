package executor

import "errors"

var (
	// ErrQueueFull 任务队列已满
	ErrQueueFull = errors.New("executor: queue full")

	// ErrClosed 执行器已关闭
	ErrClosed = errors.New("executor: closed")

	// ErrTaskPanicked 工作池中有任务 panic
	ErrTaskPanicked = errors.New("executor: task panicked")
)
