package subscription

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-slp/config"
	"github.com/dep2p/go-slp/internal/filter"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg  *config.Config `optional:"true"`
	Executor    pkgif.Executor
	FilterCache *filter.Cache `optional:"true"`
}

// Result 模块输出结果
type Result struct {
	fx.Out

	Manager *Manager
}

// Module 返回 Fx 模块
//
// 提供:
//   - *Manager: 订阅索引与通知分发
//
// 依赖:
//   - pkgif.Executor
//   - *filter.Cache（可选，与注册表共享）
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideManager),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideManager 提供订阅管理器
func ProvideManager(p Params) Result {
	cfg := config.DefaultFilterConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Filter
	}
	return Result{Manager: NewManager(p.Executor, p.FilterCache, cfg.CaseSensitive)}
}

// registerLifecycle 注册生命周期
func registerLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			st := m.Stats()
			logger.Info("订阅管理器已停止",
				"subscriptions", st.Subscriptions,
				"enqueued", st.Dispatch.Enqueued,
				"delivered", st.Dispatch.Delivered,
				"dropped", st.Dispatch.Dropped)
			return nil
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
	Name = "subscription"
	// Description 模块描述
	Description = "订阅模块，维护监听器查询并异步投递生命周期事件"
)
