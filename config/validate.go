package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 非正的 workers / queue_size / shards / cache_size -> 使用默认值
//   - 空的 backend / id_generator / namespace -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := NewConfig()
	if c.Notification.Workers <= 0 {
		c.Notification.Workers = def.Notification.Workers
	}
	if c.Notification.QueueSize <= 0 {
		c.Notification.QueueSize = def.Notification.QueueSize
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Shards <= 0 {
		c.Store.Shards = def.Store.Shards
	}
	if c.Store.IDGenerator == "" {
		c.Store.IDGenerator = def.Store.IDGenerator
	}
	if c.Filter.CacheSize <= 0 {
		c.Filter.CacheSize = def.Filter.CacheSize
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = def.Metrics.Namespace
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
