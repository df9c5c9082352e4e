package scope

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dep2p/go-slp/internal/core/metrics"
	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/internal/core/replication"
	"github.com/dep2p/go-slp/internal/core/subscription"
	"github.com/dep2p/go-slp/internal/filter"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/lib/log"
	"github.com/dep2p/go-slp/pkg/types"
)

var logger = log.Logger("core/scope")

// ============================================================================
//                              选项
// ============================================================================

// Option LocalScope 选项
type Option func(*LocalScope)

// WithReporter 设置指标记录器
func WithReporter(rep metrics.Reporter) Option {
	return func(s *LocalScope) {
		s.reporter = rep
	}
}

// WithCodec 设置复制状态编解码器
func WithCodec(codec *replication.Codec) Option {
	return func(s *LocalScope) {
		s.codec = codec
	}
}

// WithClosers 追加 Stop 时按序关闭的资源
func WithClosers(closers ...io.Closer) Option {
	return func(s *LocalScope) {
		s.closers = append(s.closers, closers...)
	}
}

// ============================================================================
//                              LocalScope
// ============================================================================

// Stats 作用域统计
type Stats struct {
	Registry      registry.Stats
	Subscriptions subscription.Stats
	Metrics       metrics.Snapshot
}

// LocalScope 进程内服务作用域
//
// 变更先同步写入注册表，再按变更后的快照入队通知；
// 注销事件携带移除前的快照。查询只读注册表，不经过订阅索引。
type LocalScope struct {
	reg      *registry.Registry
	subs     *subscription.Manager
	reporter metrics.Reporter
	codec    *replication.Codec
	closers  []io.Closer

	started  atomic.Bool
	stopOnce sync.Once
	stopErr  error
}

var _ pkgif.ServiceScope = (*LocalScope)(nil)

// New 创建服务作用域
func New(reg *registry.Registry, subs *subscription.Manager, opts ...Option) *LocalScope {
	s := &LocalScope{
		reg:  reg,
		subs: subs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = metrics.NewRecorder(nil)
	}
	if s.codec == nil {
		s.codec = replication.NewCodec()
	}
	return s
}

// ----------------------------------------------------------------------------
// 生命周期
// ----------------------------------------------------------------------------

// Start 启动作用域
//
// 进程内作用域无需启动任何资源，仅记录日志。
func (s *LocalScope) Start(_ context.Context) error {
	if s.started.CompareAndSwap(false, true) {
		logger.Info("服务作用域已启动", "registrations", s.reg.Len())
	}
	return nil
}

// Stop 关闭 WithClosers 登记的资源，重复调用返回首次结果
//
// 不改变作用域语义：之后的变更、查询与订阅照常处理。
func (s *LocalScope) Stop(_ context.Context) error {
	s.stopOnce.Do(func() {
		st := s.Stats()
		logger.Info("正在停止服务作用域",
			"registrations", st.Registry.Registrations,
			"subscriptions", st.Subscriptions.Subscriptions)

		var errs error
		for _, c := range s.closers {
			errs = multierr.Append(errs, c.Close())
		}
		s.stopErr = errs
	})
	return s.stopErr
}

// ----------------------------------------------------------------------------
// 变更
// ----------------------------------------------------------------------------

// Register 注册服务并通知匹配的订阅
func (s *LocalScope) Register(url types.ServiceURL, properties map[string]string) (uuid.UUID, error) {
	rec, err := s.reg.Register(url, properties)
	if err != nil {
		return uuid.Nil, err
	}
	s.reporter.LogMutation(pkgif.EventRegistered)
	s.subs.Notify(pkgif.EventRegistered, rec)
	return rec.Registration(), nil
}

// SetProperties 替换属性集并通知匹配新属性的订阅
func (s *LocalScope) SetProperties(id uuid.UUID, properties map[string]string) {
	rec, ok, err := s.reg.SetProperties(id, properties)
	if err != nil {
		logger.Error("替换属性失败", "registration", id, "error", err)
		return
	}
	if !ok {
		return
	}
	s.reporter.LogMutation(pkgif.EventModified)
	s.subs.Notify(pkgif.EventModified, rec)
}

// Unregister 注销服务并以移除前快照通知匹配的订阅
func (s *LocalScope) Unregister(id uuid.UUID) {
	rec, ok, err := s.reg.Unregister(id)
	if err != nil {
		logger.Error("注销失败", "registration", id, "error", err)
		return
	}
	if !ok {
		return
	}
	s.reporter.LogMutation(pkgif.EventUnregistered)
	s.subs.Notify(pkgif.EventUnregistered, rec)
}

// ----------------------------------------------------------------------------
// 查询
// ----------------------------------------------------------------------------

// GetReference 按标识获取快照
func (s *LocalScope) GetReference(id uuid.UUID) (pkgif.ServiceReference, bool) {
	rec, ok := s.reg.Get(id)
	if !ok {
		return nil, false
	}
	return rec, true
}

// FindOne 返回任意一个类型匹配的注册
func (s *LocalScope) FindOne(serviceType string) (pkgif.ServiceReference, bool) {
	rec, ok := s.reg.FindOne(serviceType)
	if !ok {
		return nil, false
	}
	return rec, true
}

// FindAll 返回类型与过滤器均匹配的注册，按 URL 排序
func (s *LocalScope) FindAll(serviceType, query string) ([]pkgif.ServiceReference, error) {
	recs, err := s.reg.FindQuery(serviceType, query)
	s.reporter.LogQuery(err)
	if err != nil {
		return nil, err
	}
	out := make([]pkgif.ServiceReference, len(recs))
	for i, rec := range recs {
		out[i] = rec
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// 订阅
// ----------------------------------------------------------------------------

// Subscribe 订阅并补发当前已匹配注册的 Registered 事件
//
// 已存在的 (监听器, 查询) 订阅不重复补发。
func (s *LocalScope) Subscribe(l pkgif.Listener, query string) error {
	sub, added, err := s.subs.Subscribe(l, query)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	recs, err := s.reg.Matching(sub.Filter())
	if err != nil {
		logger.Warn("读取已有注册失败，跳过补发", "query", sub.Query(), "error", err)
		return nil
	}
	for _, rec := range recs {
		s.subs.Deliver(sub, pkgif.EventRegistered, rec)
	}
	return nil
}

// Unsubscribe 移除监听器的全部订阅
func (s *LocalScope) Unsubscribe(l pkgif.Listener) {
	s.subs.Unsubscribe(l)
}

// UnsubscribeQuery 仅移除监听器在 query 上的订阅
func (s *LocalScope) UnsubscribeQuery(l pkgif.Listener, query string) error {
	_, err := s.subs.UnsubscribeQuery(l, query)
	return err
}

// ----------------------------------------------------------------------------
// 扩展
// ----------------------------------------------------------------------------

// Stats 返回统计快照
func (s *LocalScope) Stats() Stats {
	return Stats{
		Registry:      s.reg.Stats(),
		Subscriptions: s.subs.Stats(),
		Metrics:       s.reporter.Snapshot(),
	}
}

// ExportStates 把当前全部注册编码为复制状态，按 URL 排序
func (s *LocalScope) ExportStates() ([]replication.State, error) {
	recs, err := s.reg.Matching(filter.MatchAll())
	if err != nil {
		return nil, err
	}
	return s.codec.EncodeAll(recs)
}
