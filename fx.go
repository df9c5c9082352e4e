package slp

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-slp/config"
	"github.com/dep2p/go-slp/internal/core/executor"
	"github.com/dep2p/go-slp/internal/core/metrics"
	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/internal/core/scope"
	"github.com/dep2p/go-slp/internal/core/subscription"
	"github.com/dep2p/go-slp/pkg/lib/log"
)

var fxLogger = log.Logger("slp/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 执行器（或调用方注入的执行器）
//  2. 注册表（含共享过滤器缓存）
//  3. 订阅管理器
//  4. 指标
//  5. 服务作用域
//
// OnStop 按反向顺序执行：作用域先停止，执行器最后排空。
func buildFxApp(cfg *config.Config, o *options, s *Scope) *fx.App {
	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 1. 执行器
	// ════════════════════════════════════════════════════════════════════════
	if o.executor != nil {
		exec := o.executor
		modules = append(modules, fx.Provide(func() Executor { return exec }))
	} else {
		modules = append(modules, executor.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 可选注入
	// ════════════════════════════════════════════════════════════════════════
	if o.idGenerator != nil {
		gen := o.idGenerator
		modules = append(modules, fx.Provide(func() IDGenerator { return gen }))
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		registry.Module(),
		subscription.Module(),
		metrics.Module(),
		scope.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户扩展
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. 取出组件
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		fx.Invoke(func(local *scope.LocalScope, promReg *prometheus.Registry) {
			s.local = local
			s.prom = promReg
		}),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 6. Fx 日志
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: fxZapLogger(cfg.Log)}
	}))

	return fx.New(modules...)
}

// fxZapLogger 返回 Fx 事件使用的 zap 日志器
//
// 默认丢弃，避免干扰用户日志。
func fxZapLogger(cfg config.LogConfig) *zap.Logger {
	if !cfg.FxEvents {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fxLogger.Warn("创建 Fx 事件日志器失败", "error", err)
		return zap.NewNop()
	}
	return l
}
