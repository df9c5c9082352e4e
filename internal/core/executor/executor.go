package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/lib/log"
)

var logger = log.Logger("core/executor")

// ============================================================================
//                              Inline
// ============================================================================

// Inline 在调用方 goroutine 上同步执行任务
type Inline struct{}

var _ pkgif.Executor = Inline{}

// Execute 立即执行任务
func (Inline) Execute(task func()) error {
	task()
	return nil
}

// ============================================================================
//                              Pool
// ============================================================================

// Stats 执行器统计
type Stats struct {
	Workers  int
	Pending  int
	Executed uint64
	Rejected uint64
	Panics   uint64
}

// Pool 固定大小的工作池
//
// Execute 从不阻塞：队列满时返回 ErrQueueFull。
// 任务按入队顺序被取出，但多个 worker 之间不保证完成顺序。
type Pool struct {
	tasks   chan func()
	workers int

	mu     sync.RWMutex
	closed bool

	group   errgroup.Group
	done    chan struct{}
	exitErr error

	executed atomic.Uint64
	rejected atomic.Uint64
	panics   atomic.Uint64
}

var _ pkgif.Executor = (*Pool)(nil)

// NewPool 创建并启动工作池
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	p := &Pool{
		tasks:   make(chan func(), queueSize),
		workers: workers,
		done:    make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.group.Go(p.work)
	}
	go func() {
		p.exitErr = p.group.Wait()
		close(p.done)
	}()
	return p
}

// Execute 提交任务
func (p *Pool) Execute(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.rejected.Add(1)
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		p.rejected.Add(1)
		return ErrQueueFull
	}
}

// Close 停止接收新任务，等待已入队任务执行完毕
//
// 有任务 panic 过时返回 ErrTaskPanicked（由首个报告的 worker 给出计数）。
// ctx 到期时立即返回 ctx.Err()，剩余任务仍会在后台执行完。
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return p.exitErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats 返回统计快照
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:  p.workers,
		Pending:  len(p.tasks),
		Executed: p.executed.Load(),
		Rejected: p.rejected.Load(),
		Panics:   p.panics.Load(),
	}
}

// work 排空队列后退出，报告本 worker 捕获的 panic 次数
func (p *Pool) work() error {
	var panics int
	for task := range p.tasks {
		if !p.run(task) {
			panics++
		}
	}
	if panics > 0 {
		return fmt.Errorf("%w: %d in one worker", ErrTaskPanicked, panics)
	}
	return nil
}

func (p *Pool) run(task func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			logger.Error("任务 panic", "panic", r)
			ok = false
		}
		p.executed.Add(1)
	}()
	task()
	return true
}
