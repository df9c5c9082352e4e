package subscription

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-slp/internal/filter"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// ============================================================================
//                              Subscription
// ============================================================================

// State 订阅状态
type State int32

const (
	// StateActive 订阅有效
	StateActive State = iota
	// StateRemoved 订阅已移除（终态）
	StateRemoved
)

// String 返回状态名
func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "removed"
}

// Subscription 一个 (监听器, 查询) 订阅
type Subscription struct {
	listener pkgif.Listener
	query    string
	filter   filter.Filter
	state    atomic.Int32
}

// Listener 返回监听器
func (s *Subscription) Listener() pkgif.Listener { return s.listener }

// Query 返回规范化查询文本
func (s *Subscription) Query() string { return s.query }

// Filter 返回编译后的过滤器
func (s *Subscription) Filter() filter.Filter { return s.filter }

// State 返回当前状态
func (s *Subscription) State() State { return State(s.state.Load()) }

// Active 是否仍有效
func (s *Subscription) Active() bool { return s.State() == StateActive }

func (s *Subscription) remove() {
	s.state.Store(int32(StateRemoved))
}

// ============================================================================
//                              Index
// ============================================================================

// Index 订阅索引
//
// 查询以过滤器规范文本区分：(A=b) 与 (a=b) 是同一查询。
// 与注册存储的锁互不耦合。
type Index struct {
	mu   sync.RWMutex
	subs map[pkgif.Listener][]*Subscription
	n    int
}

// NewIndex 创建订阅索引
func NewIndex() *Index {
	return &Index{subs: make(map[pkgif.Listener][]*Subscription)}
}

// Add 添加订阅
//
// 同一监听器已持有同一查询时返回已有订阅与 false。
func (idx *Index) Add(l pkgif.Listener, f filter.Filter) (*Subscription, bool) {
	query := f.String()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, s := range idx.subs[l] {
		if s.query == query {
			return s, false
		}
	}
	s := &Subscription{listener: l, query: query, filter: f}
	idx.subs[l] = append(idx.subs[l], s)
	idx.n++
	return s, true
}

// Remove 移除监听器的全部订阅，返回移除数量
func (idx *Index) Remove(l pkgif.Listener) int {
	idx.mu.Lock()
	subs := idx.subs[l]
	delete(idx.subs, l)
	idx.n -= len(subs)
	idx.mu.Unlock()

	for _, s := range subs {
		s.remove()
	}
	return len(subs)
}

// RemoveQuery 仅移除监听器在 f 上的订阅
func (idx *Index) RemoveQuery(l pkgif.Listener, f filter.Filter) bool {
	query := f.String()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	subs := idx.subs[l]
	i := slices.IndexFunc(subs, func(s *Subscription) bool { return s.query == query })
	if i < 0 {
		return false
	}
	subs[i].remove()
	subs = slices.Delete(subs, i, i+1)
	if len(subs) == 0 {
		delete(idx.subs, l)
	} else {
		idx.subs[l] = subs
	}
	idx.n--
	return true
}

// Lookup 查找订阅
func (idx *Index) Lookup(l pkgif.Listener, f filter.Filter) (*Subscription, bool) {
	query := f.String()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, s := range idx.subs[l] {
		if s.query == query {
			return s, true
		}
	}
	return nil, false
}

// Queries 返回监听器持有的查询，按订阅顺序
func (idx *Index) Queries(l pkgif.Listener) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]string, 0, len(idx.subs[l]))
	for _, s := range idx.subs[l] {
		out = append(out, s.query)
	}
	return out
}

// Match 返回过滤器接受 match 的全部订阅
//
// 在读锁内只做过滤器求值，不调用监听器。
func (idx *Index) Match(match func(filter.Filter) bool) []*Subscription {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []*Subscription
	for _, subs := range idx.subs {
		for _, s := range subs {
			if match(s.filter) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Len 返回订阅总数
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.n
}

// Listeners 返回监听器数量
func (idx *Index) Listeners() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.subs)
}
