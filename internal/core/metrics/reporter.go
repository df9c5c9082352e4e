package metrics

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// Reporter 记录注册表活动
type Reporter interface {
	// LogMutation 记录一次成功的注册变更
	LogMutation(kind pkgif.EventKind)

	// LogQuery 记录一次查询，err 非 nil 表示查询失败
	LogQuery(err error)

	// Snapshot 返回当前快照
	Snapshot() Snapshot

	// Reset 重置全部计数
	Reset()
}

// Recorder 基于 RateMeter 的 Reporter 实现
type Recorder struct {
	mutations   [3]*RateMeter
	queries     *RateMeter
	queryErrors atomic.Int64
}

var _ Reporter = (*Recorder)(nil)

// NewRecorder 创建记录器，clk 为 nil 时使用系统时钟
func NewRecorder(clk clock.Clock) *Recorder {
	r := &Recorder{queries: NewRateMeter(clk)}
	for i := range r.mutations {
		r.mutations[i] = NewRateMeter(clk)
	}
	return r
}

// LogMutation 实现 Reporter
func (r *Recorder) LogMutation(kind pkgif.EventKind) {
	if i := int(kind); i >= 0 && i < len(r.mutations) {
		r.mutations[i].Add(1)
	}
}

// LogQuery 实现 Reporter
func (r *Recorder) LogQuery(err error) {
	r.queries.Add(1)
	if err != nil {
		r.queryErrors.Add(1)
	}
}

// Snapshot 实现 Reporter
func (r *Recorder) Snapshot() Snapshot {
	s := Snapshot{
		Mutations:   make(map[pkgif.EventKind]Stats, len(r.mutations)),
		Queries:     Stats{Total: r.queries.Total(), Rate: r.queries.Rate()},
		QueryErrors: r.queryErrors.Load(),
	}
	for i, m := range r.mutations {
		s.Mutations[pkgif.EventKind(i)] = Stats{Total: m.Total(), Rate: m.Rate()}
	}
	return s
}

// Reset 实现 Reporter
func (r *Recorder) Reset() {
	for _, m := range r.mutations {
		m.Reset()
	}
	r.queries.Reset()
	r.queryErrors.Store(0)
}
