package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.Equal(t, 1024, cfg.Notification.QueueSize)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, 16, cfg.Store.Shards)
	assert.Equal(t, IDGeneratorRandom, cfg.Store.IDGenerator)
	assert.Equal(t, 256, cfg.Filter.CacheSize)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "slp", cfg.Metrics.Namespace)
}

// TestConfig_ValidateErrors 测试非法配置
func TestConfig_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"workers", func(c *Config) { c.Notification.Workers = 0 }},
		{"queue", func(c *Config) { c.Notification.QueueSize = -1 }},
		{"backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"shards", func(c *Config) { c.Store.Shards = 0 }},
		{"id_generator", func(c *Config) { c.Store.IDGenerator = "sequential" }},
		{"cache", func(c *Config) { c.Filter.CacheSize = 0 }},
		{"namespace", func(c *Config) { c.Metrics.Namespace = "bad-name" }},
		{"log_level", func(c *Config) { c.Log.Level = "verbose" }},
		{"log_format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestNotificationConfig_InlineSkipsPool 同步执行器不校验池参数
func TestNotificationConfig_InlineSkipsPool(t *testing.T) {
	cfg := DefaultNotificationConfig()
	cfg.Inline = true
	cfg.Workers = 0
	assert.NoError(t, cfg.Validate())
}

// TestMetricsConfig_DisabledSkipsNamespace 禁用指标时不校验命名空间
func TestMetricsConfig_DisabledSkipsNamespace(t *testing.T) {
	cfg := MetricsConfig{Enabled: false, Namespace: "bad-name"}
	assert.NoError(t, cfg.Validate())
}

// TestFromJSON 测试从 JSON 加载
func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"notification":{"workers":4},"store":{"backend":"badger"}}`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Notification.Workers)
	assert.Equal(t, 1024, cfg.Notification.QueueSize)
	assert.Equal(t, StoreBackendBadger, cfg.Store.Backend)
	assert.NoError(t, cfg.Validate())

	_, err = FromJSON([]byte(`{`))
	assert.Error(t, err)
}

// TestToJSON 测试序列化往返
func TestToJSON(t *testing.T) {
	cfg := NewConfig()
	cfg.Filter.CaseSensitive = true

	data, err := ToJSON(cfg)
	require.NoError(t, err)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	_, err = ToJSON(nil)
	assert.Error(t, err)
}

// TestApplyPreset 测试预设
func TestApplyPreset(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, ApplyPreset(cfg, "inline"))
	assert.True(t, cfg.Notification.Inline)

	cfg = NewConfig()
	require.NoError(t, ApplyPreset(cfg, "throughput"))
	assert.Equal(t, 8, cfg.Notification.Workers)
	assert.NoError(t, cfg.Validate())

	assert.Error(t, ApplyPreset(cfg, "mobile"))
	assert.Error(t, ApplyPreset(nil, "default"))
}

// TestValidateAndFix 测试自动修复
func TestValidateAndFix(t *testing.T) {
	cfg := &Config{}
	fixed, err := ValidateAndFix(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed.Notification.Workers)
	assert.Equal(t, StoreBackendMemory, fixed.Store.Backend)
	assert.Equal(t, "slp", fixed.Metrics.Namespace)

	cfg = NewConfig()
	cfg.Store.Backend = "postgres"
	_, err = ValidateAndFix(cfg)
	assert.Error(t, err)

	fixed, err = ValidateAndFix(nil)
	require.NoError(t, err)
	assert.NotNil(t, fixed)
}

// TestCloneConfig 测试拷贝独立
func TestCloneConfig(t *testing.T) {
	cfg := NewConfig()
	clone := CloneConfig(cfg)
	clone.Notification.Workers = 99
	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.Nil(t, CloneConfig(nil))

	assert.Panics(t, func() { MustValidate(nil) })
}
