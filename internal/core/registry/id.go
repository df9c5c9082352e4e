package registry

import (
	"github.com/google/uuid"

	"github.com/dep2p/go-slp/config"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// RandomGenerator 生成随机 UUID (v4)
type RandomGenerator struct{}

var _ pkgif.IDGenerator = RandomGenerator{}

// Generate 实现 pkgif.IDGenerator
func (RandomGenerator) Generate() uuid.UUID {
	return uuid.New()
}

// TimeGenerator 生成时间有序 UUID (v7)
type TimeGenerator struct{}

var _ pkgif.IDGenerator = TimeGenerator{}

// Generate 实现 pkgif.IDGenerator
//
// 系统随机源失败时退回 v4。
func (TimeGenerator) Generate() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		logger.Warn("生成 UUIDv7 失败，回退到 v4", "error", err)
		return uuid.New()
	}
	return id
}

// GeneratorFromConfig 按名称返回生成器
func GeneratorFromConfig(name string) pkgif.IDGenerator {
	if name == config.IDGeneratorTime {
		return TimeGenerator{}
	}
	return RandomGenerator{}
}
