package config

import "fmt"

// NotificationConfig 通知投递配置
//
// 监听器回调全部经由执行器异步执行。Inline 为 true 时在调用方
// goroutine 上同步执行（测试与确定性嵌入场景）。
type NotificationConfig struct {
	// Inline 是否使用同步执行器
	// 默认值: false
	Inline bool `json:"inline" mapstructure:"inline"`

	// Workers 工作 goroutine 数量
	// 默认值: 2
	Workers int `json:"workers" mapstructure:"workers"`

	// QueueSize 待执行任务队列容量，队列满时任务被拒绝
	// 默认值: 1024
	QueueSize int `json:"queue_size" mapstructure:"queue_size"`
}

// DefaultNotificationConfig 返回默认通知配置
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Inline:    false,
		Workers:   2,
		QueueSize: 1024,
	}
}

// Validate 验证通知配置
func (c *NotificationConfig) Validate() error {
	if c.Inline {
		return nil
	}
	if c.Workers <= 0 {
		return fmt.Errorf("notification: workers must be positive, got %d", c.Workers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("notification: queue_size must be positive, got %d", c.QueueSize)
	}
	return nil
}
