package registry

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
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

	UnifiedCfg  *config.Config    `optional:"true"`
	IDGenerator pkgif.IDGenerator `optional:"true"`
	Clock       clock.Clock       `optional:"true"`
}

// Result 模块输出结果
type Result struct {
	fx.Out

	Registry    *Registry
	FilterCache *filter.Cache
}

// Module 返回 Fx 模块
//
// 提供:
//   - *Registry: 注册存储
//   - *filter.Cache: 共享的过滤器编译缓存
//
// 生命周期:
//   - OnStop: 关闭存储后端
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideRegistry),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideRegistry 按配置提供注册表
func ProvideRegistry(p Params) (Result, error) {
	cfg := config.NewConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg
	}
	if err := cfg.Store.Validate(); err != nil {
		return Result{}, err
	}
	if err := cfg.Filter.Validate(); err != nil {
		return Result{}, err
	}

	store, err := NewStore(cfg.Store)
	if err != nil {
		return Result{}, err
	}

	gen := p.IDGenerator
	if gen == nil {
		gen = GeneratorFromConfig(cfg.Store.IDGenerator)
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	cache := filter.NewCache(cfg.Filter.CacheSize)

	reg := New(store,
		WithIDGenerator(gen),
		WithClock(clk),
		WithFilterCache(cache),
		WithCaseSensitive(cfg.Filter.CaseSensitive),
	)
	return Result{Registry: reg, FilterCache: cache}, nil
}

// NewStore 按配置创建存储后端
func NewStore(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.StoreBackendMemory, "":
		return NewMemoryStore(cfg.Shards), nil
	case config.StoreBackendBadger:
		return NewBadgerStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, reg *Registry) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("正在关闭注册存储", "registrations", reg.Len())
			if err := reg.Close(); err != nil {
				logger.Warn("注册存储关闭失败", "error", err)
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
	Name = "registry"
	// Description 模块描述
	Description = "注册存储模块，维护注册记录并支持按类型与过滤器查询"
)
