// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置，字段同时带 mapstructure 标签供 viper 使用
//   - 支持预设配置（default/inline/throughput）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Notification.Workers = 4
//
//	// 应用预设
//	config.ApplyPreset(cfg, "inline")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 go-slp 的完整配置结构
//
// 配置按照功能模块组织：
//   - Notification: 通知投递（执行器）
//   - Store: 注册存储
//   - Filter: 过滤器编译与求值
//   - Metrics: Prometheus 指标
//   - Log: 日志
type Config struct {
	// Notification 通知投递配置
	Notification NotificationConfig `json:"notification" mapstructure:"notification"`

	// Store 注册存储配置
	Store StoreConfig `json:"store" mapstructure:"store"`

	// Filter 过滤器配置
	Filter FilterConfig `json:"filter" mapstructure:"filter"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" mapstructure:"log"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		Notification: DefaultNotificationConfig(),
		Store:        DefaultStoreConfig(),
		Filter:       DefaultFilterConfig(),
		Metrics:      DefaultMetricsConfig(),
		Log:          DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Notification.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
