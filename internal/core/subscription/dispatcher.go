package subscription

import (
	"fmt"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/lib/log"
)

var logger = log.Logger("core/subscription")

// ============================================================================
//                              邮箱
// ============================================================================

// delivery 一次待投递
type delivery struct {
	sub *Subscription
	ev  pkgif.Event
}

// mailbox 单个监听器的串行投递队列
//
// scheduled 为 true 时已有一个排空任务在执行器上，
// 新事件只追加到队列，由该任务依次投递。
type mailbox struct {
	mu        sync.Mutex
	queue     []delivery
	scheduled bool
	retired   bool
}

// ============================================================================
//                              Dispatcher
// ============================================================================

// DispatchStats 分发统计
type DispatchStats struct {
	Enqueued  uint64
	Delivered uint64
	Failed    uint64
	Panics    uint64
	Dropped   uint64
	Skipped   uint64
	Mailboxes int
	// ByKind 按事件类型的入队数
	ByKind map[pkgif.EventKind]uint64
}

// Dispatcher 把事件投递给监听器
type Dispatcher struct {
	exec pkgif.Executor

	mu        sync.Mutex
	mailboxes map[pkgif.Listener]*mailbox

	enqueued  atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panics    atomic.Uint64
	dropped   atomic.Uint64
	skipped   atomic.Uint64
	byKind    [3]atomic.Uint64
}

// NewDispatcher 创建分发器
func NewDispatcher(exec pkgif.Executor) *Dispatcher {
	return &Dispatcher{
		exec:      exec,
		mailboxes: make(map[pkgif.Listener]*mailbox),
	}
}

// Enqueue 为订阅入队一次事件投递
//
// 不等待回调执行。
func (d *Dispatcher) Enqueue(sub *Subscription, ev pkgif.Event) {
	d.enqueued.Add(1)
	if i := int(ev.Kind); i >= 0 && i < len(d.byKind) {
		d.byKind[i].Add(1)
	}

	l := sub.listener
	mb := d.mailbox(l)

	mb.mu.Lock()
	mb.queue = append(mb.queue, delivery{sub: sub, ev: ev})
	if mb.scheduled {
		mb.mu.Unlock()
		return
	}
	mb.scheduled = true
	mb.mu.Unlock()

	if err := d.exec.Execute(func() { d.drain(l, mb) }); err != nil {
		mb.mu.Lock()
		n := len(mb.queue)
		mb.queue = nil
		mb.scheduled = false
		mb.mu.Unlock()

		d.dropped.Add(uint64(n))
		logger.Warn("执行器拒绝投递任务，事件已丢弃",
			"listener", describe(l),
			"kind", ev.Kind.String(),
			"dropped", n,
			"error", err)
	}
}

// mailbox 获取或创建监听器邮箱
func (d *Dispatcher) mailbox(l pkgif.Listener) *mailbox {
	d.mu.Lock()
	defer d.mu.Unlock()

	mb, ok := d.mailboxes[l]
	if !ok {
		mb = &mailbox{}
		d.mailboxes[l] = mb
	}
	mb.mu.Lock()
	mb.retired = false
	mb.mu.Unlock()
	return mb
}

// Forget 释放监听器邮箱
//
// 邮箱仍有排空任务时保留，由该任务结束后自行释放。
func (d *Dispatcher) Forget(l pkgif.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	mb, ok := d.mailboxes[l]
	if !ok {
		return
	}
	mb.mu.Lock()
	idle := !mb.scheduled && len(mb.queue) == 0
	mb.retired = !idle
	mb.mu.Unlock()
	if idle {
		delete(d.mailboxes, l)
	}
}

// drain 依次投递邮箱中的事件，直到队列为空
func (d *Dispatcher) drain(l pkgif.Listener, mb *mailbox) {
	for {
		mb.mu.Lock()
		if len(mb.queue) == 0 {
			mb.scheduled = false
			mb.mu.Unlock()
			break
		}
		next := mb.queue[0]
		mb.queue[0] = delivery{}
		mb.queue = mb.queue[1:]
		mb.mu.Unlock()

		d.deliver(next)
	}

	mb.mu.Lock()
	retired := mb.retired
	mb.mu.Unlock()
	if retired {
		d.Forget(l)
	}
}

// deliver 调用一次监听器回调
func (d *Dispatcher) deliver(dl delivery) {
	if !dl.sub.Active() {
		d.skipped.Add(1)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
			logger.Error("监听器回调 panic",
				"listener", describe(dl.sub.listener),
				"query", dl.sub.query,
				"kind", dl.ev.Kind.String(),
				"registration", registrationOf(dl.ev),
				"panic", r)
		}
	}()

	if err := dl.sub.listener.ServiceChanged(dl.ev); err != nil {
		d.failed.Add(1)
		logger.Warn("监听器回调返回错误",
			"listener", describe(dl.sub.listener),
			"query", dl.sub.query,
			"kind", dl.ev.Kind.String(),
			"registration", registrationOf(dl.ev),
			"error", err)
		return
	}
	d.delivered.Add(1)
}

// Stats 返回分发统计
func (d *Dispatcher) Stats() DispatchStats {
	d.mu.Lock()
	n := len(d.mailboxes)
	d.mu.Unlock()

	return DispatchStats{
		Enqueued:  d.enqueued.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Panics:    d.panics.Load(),
		Dropped:   d.dropped.Load(),
		Skipped:   d.skipped.Load(),
		Mailboxes: n,
		ByKind: map[pkgif.EventKind]uint64{
			pkgif.EventRegistered:   d.byKind[pkgif.EventRegistered].Load(),
			pkgif.EventModified:     d.byKind[pkgif.EventModified].Load(),
			pkgif.EventUnregistered: d.byKind[pkgif.EventUnregistered].Load(),
		},
	}
}

func describe(l pkgif.Listener) string {
	return fmt.Sprintf("%T@%p", l, l)
}

func registrationOf(ev pkgif.Event) string {
	if ev.Reference == nil {
		return ""
	}
	return ev.Reference.Registration().String()
}
