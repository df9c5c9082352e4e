package executor

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-slp/config"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Executor pkgif.Executor
}

// Module 返回 Fx 模块
//
// 提供:
//   - pkgif.Executor: Inline 或 Pool
//
// 生命周期:
//   - OnStop: 关闭 Pool，等待已入队任务完成
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideExecutor),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideExecutor 按配置提供执行器
func ProvideExecutor(p Params) (Result, error) {
	cfg := config.DefaultNotificationConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Notification
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if cfg.Inline {
		return Result{Executor: Inline{}}, nil
	}
	return Result{Executor: NewPool(cfg.Workers, cfg.QueueSize)}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC       fx.Lifecycle
	Executor pkgif.Executor
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool, ok := input.Executor.(*Pool)
			if !ok {
				return nil
			}
			logger.Info("正在关闭通知执行器", "pending", pool.Stats().Pending)
			if err := pool.Close(ctx); err != nil {
				logger.Warn("通知执行器关闭异常", "error", err)
				return err
			}
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
	Name = "executor"
	// Description 模块描述
	Description = "任务执行器模块，承载监听器回调的异步投递"
)
