package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// RecordingListener 记录收到的全部事件
//
// OnEvent 非 nil 时在记录后调用，其返回值作为回调结果。
type RecordingListener struct {
	OnEvent func(pkgif.Event) error

	mu     sync.Mutex
	events []pkgif.Event
}

var _ pkgif.Listener = (*RecordingListener)(nil)

// NewRecordingListener 创建记录监听器
func NewRecordingListener() *RecordingListener {
	return &RecordingListener{}
}

// ServiceChanged 实现 pkgif.Listener
func (r *RecordingListener) ServiceChanged(ev pkgif.Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	fn := r.OnEvent
	r.mu.Unlock()

	if fn != nil {
		return fn(ev)
	}
	return nil
}

// Events 返回已记录事件的副本
func (r *RecordingListener) Events() []pkgif.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pkgif.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds 返回已记录事件的类型序列
func (r *RecordingListener) Kinds() []pkgif.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pkgif.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

// Registrations 返回已记录事件的注册标识序列
func (r *RecordingListener) Registrations() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Reference.Registration()
	}
	return out
}

// Len 返回已记录事件数
func (r *RecordingListener) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset 清空记录
func (r *RecordingListener) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// WaitFor 等待至少 n 个事件，超时则 fail 测试
func (r *RecordingListener) WaitFor(t testing.TB, n int, timeout time.Duration) []pkgif.Event {
	t.Helper()
	Eventually(t, timeout, func() bool { return r.Len() >= n }, "等待监听器事件")
	return r.Events()
}
