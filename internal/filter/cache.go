package filter

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize 默认缓存容量
const DefaultCacheSize = 256

// Cache 编译结果 LRU 缓存
//
// 以原始文本为键缓存编译成功的过滤器；语法错误不缓存。
// 并发安全。
type Cache struct {
	entries *lru.Cache[string, Filter]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// CacheStats 缓存统计
type CacheStats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// NewCache 创建缓存，size <= 0 时使用 DefaultCacheSize
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, Filter](size)
	if err != nil {
		// size 已保证为正
		panic(err)
	}
	return &Cache{entries: entries}
}

// Compile 返回 text 的编译结果，必要时解析并缓存
func (c *Cache) Compile(text string) (Filter, error) {
	if f, ok := c.entries.Get(text); ok {
		c.hits.Add(1)
		return f, nil
	}
	c.misses.Add(1)

	f, err := Parse(text)
	if err != nil {
		return Filter{}, err
	}
	c.entries.Add(text, f)
	return f, nil
}

// Stats 返回统计快照
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:   c.entries.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Purge 清空缓存
func (c *Cache) Purge() {
	c.entries.Purge()
}
