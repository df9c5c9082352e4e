package config

import "fmt"

// FilterConfig 过滤器配置
type FilterConfig struct {
	// CacheSize 编译结果缓存容量
	// 默认值: 256
	CacheSize int `json:"cache_size" mapstructure:"cache_size"`

	// CaseSensitive 值比较是否区分大小写（属性键总是不区分）
	// 默认值: false
	CaseSensitive bool `json:"case_sensitive" mapstructure:"case_sensitive"`
}

// DefaultFilterConfig 返回默认过滤器配置
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		CacheSize:     256,
		CaseSensitive: false,
	}
}

// Validate 验证过滤器配置
func (c *FilterConfig) Validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("filter: cache_size must be positive, got %d", c.CacheSize)
	}
	return nil
}
