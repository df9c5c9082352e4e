// Package interfaces 定义 go-slp 公共接口
//
// 本文件定义 ServiceScope 接口，对应 internal/core/scope/ 实现。
package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-slp/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// 保留属性
// ════════════════════════════════════════════════════════════════════════════

const (
	// ServiceRegistrationKey 注册标识属性，由注册表注入
	ServiceRegistrationKey = "serviceregistration"

	// ServiceTypeKey 服务类型属性，由注册表按注册时的 URL 注入，不可修改
	ServiceTypeKey = "servicetype"
)

// ════════════════════════════════════════════════════════════════════════════
// ServiceScope 接口
// ════════════════════════════════════════════════════════════════════════════

// ServiceScope 定义服务发现作用域
//
// 服务提供方以 ServiceURL 与属性集注册服务；使用方按服务类型
// 与 LDAP 风格过滤器查询，或订阅匹配过滤器的注册生命周期事件。
//
// 架构位置：Core Layer
// 实现位置：internal/core/scope/
//
// 使用示例:
//
//	id, _ := scope.Register(types.MustParseServiceURL("service:http://foo.bar/"), map[string]string{"zone": "eu"})
//	refs, _ := scope.FindAll("service:http", "(zone=eu)")
//
//	l := interfaces.NewListener(func(ev interfaces.Event) error { ... })
//	scope.Subscribe(l, "(serviceType=service:http)")
//	defer scope.Unsubscribe(l)
type ServiceScope interface {
	// Register 注册服务，返回新生成的注册标识
	//
	// url 为零值时返回 ErrInvalidRegistration。
	// 属性被复制，保留属性总是被覆盖。
	Register(url types.ServiceURL, properties map[string]string) (uuid.UUID, error)

	// SetProperties 整体替换注册的属性集
	//
	// 未知标识为空操作。服务类型属性保持注册时的值。
	SetProperties(id uuid.UUID, properties map[string]string)

	// Unregister 注销服务，未知标识为空操作
	Unregister(id uuid.UUID)

	// GetReference 按标识获取注册快照
	GetReference(id uuid.UUID) (ServiceReference, bool)

	// FindOne 返回任意一个类型匹配的注册
	//
	// serviceType 为空或 "*" 表示任意类型，可包含 '*' 通配符。
	FindOne(serviceType string) (ServiceReference, bool)

	// FindAll 返回类型与过滤器均匹配的注册
	//
	// query 为空表示匹配该类型的全部注册；过滤器语法错误时返回错误。
	FindAll(serviceType, query string) ([]ServiceReference, error)

	// Subscribe 订阅匹配 query 的生命周期事件
	//
	// 订阅后立即异步投递当前已匹配注册的 Registered 事件。
	Subscribe(l Listener, query string) error

	// Unsubscribe 移除监听器的全部订阅
	Unsubscribe(l Listener)

	// UnsubscribeQuery 仅移除监听器在 query 上的订阅
	UnsubscribeQuery(l Listener, query string) error

	// Start 启动作用域
	Start(ctx context.Context) error

	// Stop 停止作用域
	Stop(ctx context.Context) error
}

// ════════════════════════════════════════════════════════════════════════════
// ServiceReference 接口
// ════════════════════════════════════════════════════════════════════════════

// ServiceReference 注册的只读快照
type ServiceReference interface {
	// Registration 返回注册标识
	Registration() uuid.UUID

	// URL 返回服务描述符
	URL() types.ServiceURL

	// Properties 返回属性集副本（含保留属性）
	Properties() map[string]string

	// Property 返回单个属性，键大小写不敏感
	Property(key string) (string, bool)

	// RegisteredAt 返回注册时间
	RegisteredAt() time.Time

	// ModifiedAt 返回最近一次属性替换时间
	ModifiedAt() time.Time
}

// ════════════════════════════════════════════════════════════════════════════
// 事件与监听器
// ════════════════════════════════════════════════════════════════════════════

// EventKind 生命周期事件类型
type EventKind int

const (
	// EventRegistered 服务已注册
	EventRegistered EventKind = iota
	// EventModified 属性已替换
	EventModified
	// EventUnregistered 服务已注销
	EventUnregistered
)

// String 返回事件类型名称
func (k EventKind) String() string {
	switch k {
	case EventRegistered:
		return "registered"
	case EventModified:
		return "modified"
	case EventUnregistered:
		return "unregistered"
	default:
		return "unknown"
	}
}

// Event 生命周期事件
//
// Reference 为事件发生时的注册快照；Unregistered 携带移除前的快照。
type Event struct {
	Kind      EventKind
	Reference ServiceReference
}

// Listener 生命周期事件监听器
//
// 实现必须可比较（通常为指针类型），订阅以监听器相等性区分。
// 返回的错误及 panic 会被记录后忽略，不影响其他投递。
type Listener interface {
	ServiceChanged(ev Event) error
}

// NewListener 将函数包装为监听器
//
// 每次调用返回不同的监听器。
func NewListener(fn func(Event) error) Listener {
	return &funcListener{fn: fn}
}

type funcListener struct {
	fn func(Event) error
}

func (l *funcListener) ServiceChanged(ev Event) error {
	return l.fn(ev)
}

// ════════════════════════════════════════════════════════════════════════════
// 注入能力
// ════════════════════════════════════════════════════════════════════════════

// Executor 任务执行器
//
// 由嵌入方提供，承载全部异步投递。Execute 不应阻塞；
// 返回错误表示任务被拒绝，该任务不会执行。
type Executor interface {
	Execute(task func()) error
}

// IDGenerator 注册标识生成器
type IDGenerator interface {
	Generate() uuid.UUID
}
