package slp

import (
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// ServiceURL 服务描述符
	ServiceURL = types.ServiceURL

	// ServiceType 服务类型
	ServiceType = types.ServiceType

	// ServiceReference 注册快照
	ServiceReference = pkgif.ServiceReference

	// Listener 生命周期事件监听器
	Listener = pkgif.Listener

	// Event 生命周期事件
	Event = pkgif.Event

	// EventKind 事件类型
	EventKind = pkgif.EventKind

	// Executor 通知执行器
	Executor = pkgif.Executor

	// IDGenerator 注册标识生成器
	IDGenerator = pkgif.IDGenerator
)

const (
	// EventRegistered 服务已注册
	EventRegistered = pkgif.EventRegistered
	// EventModified 属性已替换
	EventModified = pkgif.EventModified
	// EventUnregistered 服务已注销
	EventUnregistered = pkgif.EventUnregistered
)

const (
	// ServiceRegistrationKey 注册标识属性
	ServiceRegistrationKey = pkgif.ServiceRegistrationKey
	// ServiceTypeKey 服务类型属性
	ServiceTypeKey = pkgif.ServiceTypeKey
)

// NewListener 将函数包装为监听器
func NewListener(fn func(Event) error) Listener {
	return pkgif.NewListener(fn)
}

// ParseServiceURL 解析服务 URL
func ParseServiceURL(raw string) (ServiceURL, error) {
	return types.ParseServiceURL(raw)
}

// MustParseServiceURL 解析服务 URL，失败时 panic
func MustParseServiceURL(raw string) ServiceURL {
	return types.MustParseServiceURL(raw)
}

// ════════════════════════════════════════════════════════════════════════════
//                              作用域状态
// ════════════════════════════════════════════════════════════════════════════

// State 作用域状态
type State int

const (
	// StateIdle 已创建，未启动
	StateIdle State = iota
	// StateRunning 运行中
	StateRunning
	// StateClosed 已关闭
	StateClosed
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
