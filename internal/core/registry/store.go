package registry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// ============================================================================
//                              Store 接口
// ============================================================================

// Store 注册记录存储后端
//
// 实现必须并发安全；单条记录的替换是原子的，读取不会看到部分写入。
// Range 回调期间不得持有会阻塞写入的锁。
type Store interface {
	// Put 写入新记录
	Put(rec *Record) error

	// Get 读取记录
	Get(id uuid.UUID) (*Record, bool, error)

	// Update 原子替换记录，fn 返回新记录；记录不存在时不调用 fn
	Update(id uuid.UUID, fn func(old *Record) *Record) (*Record, bool, error)

	// Delete 删除并返回被删除的记录
	Delete(id uuid.UUID) (*Record, bool, error)

	// Snapshot 返回当前全部记录
	Snapshot() ([]*Record, error)

	// Len 返回记录数
	Len() int

	// Close 释放资源
	Close() error
}

// ============================================================================
//                              MemoryStore
// ============================================================================

// DefaultShards 默认分片数
const DefaultShards = 16

type shard struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

// MemoryStore 分片内存存储
//
// 以注册标识的 murmur3 哈希选择分片，每个分片一把读写锁。
type MemoryStore struct {
	shards []*shard
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储，shards <= 0 时使用 DefaultShards
func NewMemoryStore(shards int) *MemoryStore {
	if shards <= 0 {
		shards = DefaultShards
	}
	s := &MemoryStore{shards: make([]*shard, shards)}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[uuid.UUID]*Record)}
	}
	return s
}

func (s *MemoryStore) shardFor(id uuid.UUID) *shard {
	return s.shards[murmur3.Sum32(id[:])%uint32(len(s.shards))]
}

// Put 实现 Store
func (s *MemoryStore) Put(rec *Record) error {
	sh := s.shardFor(rec.id)
	sh.mu.Lock()
	sh.records[rec.id] = rec
	sh.mu.Unlock()
	return nil
}

// Get 实现 Store
func (s *MemoryStore) Get(id uuid.UUID) (*Record, bool, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	rec, ok := sh.records[id]
	sh.mu.RUnlock()
	return rec, ok, nil
}

// Update 实现 Store
func (s *MemoryStore) Update(id uuid.UUID, fn func(old *Record) *Record) (*Record, bool, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	old, ok := sh.records[id]
	if !ok {
		return nil, false, nil
	}
	rec := fn(old)
	sh.records[id] = rec
	return rec, true, nil
}

// Delete 实现 Store
func (s *MemoryStore) Delete(id uuid.UUID) (*Record, bool, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[id]
	if ok {
		delete(sh.records, id)
	}
	return rec, ok, nil
}

// Snapshot 实现 Store
//
// 逐分片复制；不同分片之间不是同一时刻的视图。
func (s *MemoryStore) Snapshot() ([]*Record, error) {
	out := make([]*Record, 0, s.Len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.records {
			out = append(out, rec)
		}
		sh.mu.RUnlock()
	}
	return out, nil
}

// Len 实现 Store
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.records)
		sh.mu.RUnlock()
	}
	return n
}

// Close 实现 Store
func (s *MemoryStore) Close() error {
	return nil
}
