package slp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-slp/internal/core/replication"
	"github.com/dep2p/go-slp/internal/core/scope"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/lib/log"
)

var logger = log.Logger("slp")

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "go-slp " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              Scope
// ════════════════════════════════════════════════════════════════════════════

// stopTimeout 启动失败后回滚的超时
const stopTimeout = 10 * time.Second

// Stats 作用域统计
type Stats = scope.Stats

// ReplicatedState 复制状态记录
type ReplicatedState = replication.State

// Scope 服务发现作用域
//
// 由 New 创建，Start 之后可用，Close 之后不可再启动。
type Scope struct {
	app   *fx.App
	local *scope.LocalScope
	prom  *prometheus.Registry

	mu    sync.Mutex
	state State
}

var _ pkgif.ServiceScope = (*Scope)(nil)

// New 创建服务作用域（未启动）
func New(opts ...Option) (*Scope, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	cfg, err := o.toConfig()
	if err != nil {
		return nil, err
	}

	s := &Scope{}
	s.app = buildFxApp(cfg, o, s)
	if err := s.app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return s, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Scope, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Start(ctx); err != nil {
		return nil, fmt.Errorf("start scope: %w", err)
	}
	return s, nil
}

// Start 启动作用域
func (s *Scope) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateClosed:
		return ErrScopeClosed
	}

	if err := s.app.Start(ctx); err != nil {
		logger.Error("作用域启动失败", "error", err)
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = s.app.Stop(stopCtx)
		s.state = StateClosed
		return err
	}
	s.state = StateRunning
	return nil
}

// Stop 停止作用域并释放资源
//
// 等待已入队的通知投递完成或 ctx 到期。之后注册表仍可读写，
// 但内置工作池已关闭，新的通知被拒绝并记录日志；badger 存储拒绝读写。
func (s *Scope) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return ErrNotStarted
	case StateClosed:
		return ErrScopeClosed
	}

	s.state = StateClosed
	if err := s.app.Stop(ctx); err != nil {
		logger.Error("停止作用域失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	return nil
}

// Close 使用默认超时停止作用域，重复调用返回 nil
func (s *Scope) Close() error {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	if st != StateRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return s.Stop(ctx)
}

// State 返回当前状态
func (s *Scope) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ════════════════════════════════════════════════════════════════════════════
//                              注册与查询
// ════════════════════════════════════════════════════════════════════════════

// Register 注册服务，返回注册标识
func (s *Scope) Register(url ServiceURL, properties map[string]string) (uuid.UUID, error) {
	return s.local.Register(url, properties)
}

// SetProperties 整体替换属性集，未知标识为空操作
func (s *Scope) SetProperties(id uuid.UUID, properties map[string]string) {
	s.local.SetProperties(id, properties)
}

// Unregister 注销服务，未知标识为空操作
func (s *Scope) Unregister(id uuid.UUID) {
	s.local.Unregister(id)
}

// GetReference 按标识获取快照
func (s *Scope) GetReference(id uuid.UUID) (ServiceReference, bool) {
	return s.local.GetReference(id)
}

// FindOne 返回任意一个类型匹配的注册
func (s *Scope) FindOne(serviceType string) (ServiceReference, bool) {
	return s.local.FindOne(serviceType)
}

// FindAll 返回类型与过滤器均匹配的注册
func (s *Scope) FindAll(serviceType, query string) ([]ServiceReference, error) {
	return s.local.FindAll(serviceType, query)
}

// ════════════════════════════════════════════════════════════════════════════
//                              订阅
// ════════════════════════════════════════════════════════════════════════════

// Subscribe 订阅匹配 query 的生命周期事件
func (s *Scope) Subscribe(l Listener, query string) error {
	return s.local.Subscribe(l, query)
}

// Unsubscribe 移除监听器的全部订阅
func (s *Scope) Unsubscribe(l Listener) {
	s.local.Unsubscribe(l)
}

// UnsubscribeQuery 仅移除监听器在 query 上的订阅
func (s *Scope) UnsubscribeQuery(l Listener, query string) error {
	return s.local.UnsubscribeQuery(l, query)
}

// ════════════════════════════════════════════════════════════════════════════
//                              观测
// ════════════════════════════════════════════════════════════════════════════

// Stats 返回统计快照
func (s *Scope) Stats() Stats {
	return s.local.Stats()
}

// Gatherer 返回本作用域的 Prometheus 指标
func (s *Scope) Gatherer() prometheus.Gatherer {
	return s.prom
}

// ExportStates 把当前全部注册编码为复制状态
func (s *Scope) ExportStates() ([]ReplicatedState, error) {
	return s.local.ExportStates()
}
