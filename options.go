package slp

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-slp/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置，nil 时使用默认配置
	config *config.Config

	// 预设名称，在基础配置之上应用
	preset string

	// 覆盖项，按调用顺序在预设之后应用
	overrides []func(*config.Config)

	// 注入组件
	executor    Executor
	idGenerator IDGenerator
	clock       clock.Clock

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// toConfig 生成最终配置
func (o *options) toConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if o.config != nil {
		cfg = config.CloneConfig(o.config)
	}
	if o.preset != "" {
		if err := config.ApplyPreset(cfg, o.preset); err != nil {
			return nil, err
		}
	}
	for _, apply := range o.overrides {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (o *options) override(fn func(*config.Config)) {
	o.overrides = append(o.overrides, fn)
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置作为基础
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigJSON 从 JSON 加载基础配置
func WithConfigJSON(data []byte) Option {
	return func(o *options) error {
		cfg, err := config.FromJSON(data)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用预设配置
//
// 可用预设: default, inline, throughput。
func WithPreset(name string) Option {
	return func(o *options) error {
		o.preset = name
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              通知
// ════════════════════════════════════════════════════════════════════════════

// WithInlineNotification 在变更调用方同步投递回调
func WithInlineNotification() Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Notification.Inline = true })
		return nil
	}
}

// WithWorkers 设置通知工作池大小
func WithWorkers(workers, queueSize int) Option {
	return func(o *options) error {
		if workers <= 0 || queueSize <= 0 {
			return fmt.Errorf("workers and queue size must be positive")
		}
		o.override(func(c *config.Config) {
			c.Notification.Inline = false
			c.Notification.Workers = workers
			c.Notification.QueueSize = queueSize
		})
		return nil
	}
}

// WithExecutor 使用调用方提供的执行器
//
// 执行器的生命周期由调用方负责。
func WithExecutor(exec Executor) Option {
	return func(o *options) error {
		if exec == nil {
			return fmt.Errorf("executor is nil")
		}
		o.executor = exec
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              存储与过滤器
// ════════════════════════════════════════════════════════════════════════════

// WithStoreBackend 选择注册存储后端（memory 或 badger）
func WithStoreBackend(backend string) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Store.Backend = backend })
		return nil
	}
}

// WithCaseSensitive 设置过滤器值比较是否区分大小写
func WithCaseSensitive(caseSensitive bool) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Filter.CaseSensitive = caseSensitive })
		return nil
	}
}

// WithFilterCacheSize 设置过滤器编译缓存容量
func WithFilterCacheSize(size int) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Filter.CacheSize = size })
		return nil
	}
}

// WithIDGenerator 使用自定义注册标识生成器
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) error {
		o.idGenerator = gen
		return nil
	}
}

// WithClock 注入时钟，用于注册时间戳与速率统计
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clock = clk
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              指标与扩展
// ════════════════════════════════════════════════════════════════════════════

// WithMetrics 启用或关闭 Prometheus 指标
func WithMetrics(enable bool) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Metrics.Enabled = enable })
		return nil
	}
}

// WithMetricsNamespace 设置指标命名空间
func WithMetricsNamespace(namespace string) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Metrics.Namespace = namespace })
		return nil
	}
}

// WithFxEvents 输出 Fx 容器事件日志
func WithFxEvents(enable bool) Option {
	return func(o *options) error {
		o.override(func(c *config.Config) { c.Log.FxEvents = enable })
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
