package config

import "fmt"

// 存储后端
const (
	// StoreBackendMemory 分片内存存储
	StoreBackendMemory = "memory"
	// StoreBackendBadger 内存模式 BadgerDB 存储
	StoreBackendBadger = "badger"
)

// 注册标识生成器
const (
	// IDGeneratorRandom 随机 UUID (v4)
	IDGeneratorRandom = "random"
	// IDGeneratorTime 时间有序 UUID (v7)
	IDGeneratorTime = "time"
)

// StoreConfig 注册存储配置
//
// 两种后端均不落盘；badger 后端以内存模式运行。
type StoreConfig struct {
	// Backend 存储后端：memory | badger
	// 默认值: "memory"
	Backend string `json:"backend" mapstructure:"backend"`

	// Shards memory 后端的分片数
	// 默认值: 16
	Shards int `json:"shards" mapstructure:"shards"`

	// IDGenerator 注册标识生成器：random | time
	// 默认值: "random"
	IDGenerator string `json:"id_generator" mapstructure:"id_generator"`
}

// DefaultStoreConfig 返回默认存储配置
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Backend:     StoreBackendMemory,
		Shards:      16,
		IDGenerator: IDGeneratorRandom,
	}
}

// Validate 验证存储配置
func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendMemory:
		if c.Shards <= 0 {
			return fmt.Errorf("store: shards must be positive, got %d", c.Shards)
		}
	case StoreBackendBadger:
	default:
		return fmt.Errorf("store: unknown backend %q", c.Backend)
	}
	switch c.IDGenerator {
	case IDGeneratorRandom, IDGeneratorTime:
	default:
		return fmt.Errorf("store: unknown id_generator %q", c.IDGenerator)
	}
	return nil
}
