package scope

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-slp/internal/core/metrics"
	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/internal/core/subscription"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 模块依赖参数
type Params struct {
	fx.In

	Registry      *registry.Registry
	Subscriptions *subscription.Manager
	Reporter      metrics.Reporter `optional:"true"`
}

// Result 模块输出结果
type Result struct {
	fx.Out

	Scope   *LocalScope
	Service pkgif.ServiceScope
}

// Module 返回 Fx 模块
//
// 提供:
//   - *LocalScope
//   - pkgif.ServiceScope
//
// 生命周期:
//   - OnStart: Start
//   - OnStop: Stop（先于注册表与执行器关闭）
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideScope),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideScope 提供服务作用域
func ProvideScope(p Params) Result {
	var opts []Option
	if p.Reporter != nil {
		opts = append(opts, WithReporter(p.Reporter))
	}
	s := New(p.Registry, p.Subscriptions, opts...)
	return Result{Scope: s, Service: s}
}

// registerLifecycle 注册生命周期
func registerLifecycle(lc fx.Lifecycle, s *LocalScope) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "scope"
	// Description 模块描述
	Description = "服务作用域模块，组合注册表与订阅提供服务发现"
)
