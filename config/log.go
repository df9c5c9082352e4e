package config

import "fmt"

// LogConfig 日志配置
//
// 组件日志级别由环境变量 SLP_LOG_LEVEL 控制，参见 internal/util/logger。
type LogConfig struct {
	// Level 默认日志级别：debug | info | warn | error
	// 默认值: "info"
	Level string `json:"level" mapstructure:"level"`

	// Format 输出格式：text | json
	// 默认值: "text"
	Format string `json:"format" mapstructure:"format"`

	// FxEvents 是否输出 fx 容器事件
	// 默认值: false
	FxEvents bool `json:"fx_events" mapstructure:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", c.Level)
	}
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Format)
	}
	return nil
}
