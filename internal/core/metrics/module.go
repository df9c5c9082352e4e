package metrics

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-slp/config"
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

	UnifiedCfg    *config.Config `optional:"true"`
	Clock         clock.Clock    `optional:"true"`
	Registry      *registry.Registry
	Subscriptions *subscription.Manager
	Executor      pkgif.Executor
}

// Result 模块输出结果
type Result struct {
	fx.Out

	Reporter   Reporter
	Prometheus *prometheus.Registry
}

// Module 返回 Fx 模块
//
// 提供:
//   - Reporter: 变更与查询计数
//   - *prometheus.Registry: 每个实例独立的指标注册表
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideMetrics),
	)
}

// ProvideMetrics 提供记录器与指标注册表
//
// 未启用时返回空的指标注册表，记录器照常工作。
func ProvideMetrics(p Params) (Result, error) {
	cfg := config.DefaultMetricsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Metrics
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	rec := NewRecorder(p.Clock)
	promReg := prometheus.NewRegistry()
	if cfg.Enabled {
		c := NewCollector(cfg.Namespace, Sources{
			Registry:      p.Registry,
			Subscriptions: p.Subscriptions,
			Executor:      p.Executor,
			Reporter:      rec,
		})
		if err := promReg.Register(c); err != nil {
			return Result{}, err
		}
		logger.Debug("已注册 Prometheus 收集器", "namespace", cfg.Namespace)
	}
	return Result{Reporter: rec, Prometheus: promReg}, nil
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "metrics"
	// Description 模块描述
	Description = "指标模块，统计注册变更、查询与通知投递并导出 Prometheus 指标"
)
