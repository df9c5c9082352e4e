package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/dep2p/go-slp/pkg/lib/log"
)

// ============================================================================
//                              BadgerStore
// ============================================================================

// recordPrefix 记录键前缀
var recordPrefix = []byte("reg/")

// BadgerStore 以内存模式 BadgerDB 承载的存储
//
// 记录以 JSON 编码。写操作串行化以避免事务冲突；读操作使用
// BadgerDB 的快照事务，不会看到部分写入。
type BadgerStore struct {
	db     *badger.DB
	closed atomic.Bool
	mu     sync.Mutex
	count  atomic.Int64
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore 打开内存模式 BadgerDB
func NewBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(&badgerLogger{log.Logger("registry/badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func recordKey(id uuid.UUID) []byte {
	key := make([]byte, 0, len(recordPrefix)+len(id))
	key = append(key, recordPrefix...)
	return append(key, id[:]...)
}

func getRecord(txn *badger.Txn, id uuid.UUID) (*Record, error) {
	item, err := txn.Get(recordKey(id))
	if err != nil {
		return nil, err
	}
	rec := new(Record)
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, rec)
	})
	return rec, err
}

func setRecord(txn *badger.Txn, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return txn.Set(recordKey(rec.id), data)
}

// Put 实现 Store
func (s *BadgerStore) Put(rec *Record) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(rec.id))
		created = errors.Is(err, badger.ErrKeyNotFound)
		if err != nil && !created {
			return err
		}
		return setRecord(txn, rec)
	})
	if err != nil {
		return err
	}
	if created {
		s.count.Add(1)
	}
	return nil
}

// Get 实现 Store
func (s *BadgerStore) Get(id uuid.UUID) (*Record, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrStoreClosed
	}
	var rec *Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Update 实现 Store
func (s *BadgerStore) Update(id uuid.UUID, fn func(old *Record) *Record) (*Record, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrStoreClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec *Record
	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		rec = fn(old)
		return setRecord(txn, rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Delete 实现 Store
func (s *BadgerStore) Delete(id uuid.UUID) (*Record, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrStoreClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec *Record
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if rec, err = getRecord(txn, id); err != nil {
			return err
		}
		return txn.Delete(recordKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s.count.Add(-1)
	return rec, true, nil
}

// Snapshot 实现 Store
func (s *BadgerStore) Snapshot() ([]*Record, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	var out []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := new(Record)
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// Len 实现 Store
func (s *BadgerStore) Len() int {
	return int(s.count.Load())
}

// Close 实现 Store
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// ============================================================================
//                              日志适配
// ============================================================================

// badgerLogger 将 badger.Logger 适配到组件 logger
type badgerLogger struct {
	logger *log.LazyLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
