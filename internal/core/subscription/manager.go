package subscription

import (
	"github.com/dep2p/go-slp/internal/filter"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// Target 可被订阅过滤器求值的注册快照
type Target interface {
	pkgif.ServiceReference
	Match(f filter.Filter, caseSensitive bool) bool
}

// Stats 订阅统计
type Stats struct {
	Subscriptions int
	Listeners     int
	Dispatch      DispatchStats
}

// Manager 订阅管理器
//
// 组合 Index 与 Dispatcher：查询经共享缓存编译，
// 变更经索引匹配后逐订阅入队。
type Manager struct {
	index         *Index
	dispatcher    *Dispatcher
	cache         *filter.Cache
	caseSensitive bool
}

// NewManager 创建订阅管理器
//
// cache 为 nil 时使用独立的默认缓存。
func NewManager(exec pkgif.Executor, cache *filter.Cache, caseSensitive bool) *Manager {
	if cache == nil {
		cache = filter.NewCache(filter.DefaultCacheSize)
	}
	return &Manager{
		index:         NewIndex(),
		dispatcher:    NewDispatcher(exec),
		cache:         cache,
		caseSensitive: caseSensitive,
	}
}

// Subscribe 添加订阅
//
// 查询非法时返回语法错误且不改变状态。已存在同一 (监听器, 查询)
// 时返回已有订阅与 false。
func (m *Manager) Subscribe(l pkgif.Listener, query string) (*Subscription, bool, error) {
	f, err := m.cache.Compile(query)
	if err != nil {
		return nil, false, err
	}
	sub, added := m.index.Add(l, f)
	if added {
		logger.Debug("添加订阅", "listener", describe(l), "query", sub.query)
	}
	return sub, added, nil
}

// Unsubscribe 移除监听器的全部订阅，返回移除数量
func (m *Manager) Unsubscribe(l pkgif.Listener) int {
	n := m.index.Remove(l)
	if n > 0 {
		m.dispatcher.Forget(l)
		logger.Debug("移除监听器全部订阅", "listener", describe(l), "count", n)
	}
	return n
}

// UnsubscribeQuery 仅移除监听器在 query 上的订阅
//
// 查询非法时返回语法错误；订阅不存在时为空操作。
func (m *Manager) UnsubscribeQuery(l pkgif.Listener, query string) (bool, error) {
	f, err := m.cache.Compile(query)
	if err != nil {
		return false, err
	}
	removed := m.index.RemoveQuery(l, f)
	if removed && len(m.index.Queries(l)) == 0 {
		m.dispatcher.Forget(l)
	}
	return removed, nil
}

// Notify 向过滤器匹配 target 的每个订阅入队一次事件
//
// 返回入队数量。
func (m *Manager) Notify(kind pkgif.EventKind, target Target) int {
	subs := m.index.Match(func(f filter.Filter) bool {
		return target.Match(f, m.caseSensitive)
	})
	ev := pkgif.Event{Kind: kind, Reference: target}
	for _, sub := range subs {
		m.dispatcher.Enqueue(sub, ev)
	}
	return len(subs)
}

// Deliver 向单个订阅入队事件
//
// 用于订阅建立时补发已有注册。
func (m *Manager) Deliver(sub *Subscription, kind pkgif.EventKind, ref pkgif.ServiceReference) {
	m.dispatcher.Enqueue(sub, pkgif.Event{Kind: kind, Reference: ref})
}

// Queries 返回监听器持有的规范化查询
func (m *Manager) Queries(l pkgif.Listener) []string {
	return m.index.Queries(l)
}

// Len 返回订阅总数
func (m *Manager) Len() int {
	return m.index.Len()
}

// Stats 返回订阅统计
func (m *Manager) Stats() Stats {
	return Stats{
		Subscriptions: m.index.Len(),
		Listeners:     m.index.Listeners(),
		Dispatch:      m.dispatcher.Stats(),
	}
}
