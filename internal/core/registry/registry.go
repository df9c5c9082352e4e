package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-slp/internal/filter"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/lib/log"
	"github.com/dep2p/go-slp/pkg/types"
)

var logger = log.Logger("core/registry")

// ============================================================================
//                              选项
// ============================================================================

// Option 注册表选项
type Option func(*Registry)

// WithIDGenerator 设置注册标识生成器
func WithIDGenerator(gen pkgif.IDGenerator) Option {
	return func(r *Registry) { r.gen = gen }
}

// WithClock 设置时钟
func WithClock(clk clock.Clock) Option {
	return func(r *Registry) { r.clock = clk }
}

// WithFilterCache 设置共享的过滤器编译缓存
func WithFilterCache(cache *filter.Cache) Option {
	return func(r *Registry) { r.cache = cache }
}

// WithCaseSensitive 设置值比较是否区分大小写
func WithCaseSensitive(caseSensitive bool) Option {
	return func(r *Registry) { r.caseSensitive = caseSensitive }
}

// ============================================================================
//                              Registry
// ============================================================================

// Stats 注册表统计
type Stats struct {
	// Registrations 当前注册数
	Registrations int
	// Registered 累计注册次数
	Registered uint64
	// Modified 累计属性替换次数
	Modified uint64
	// Unregistered 累计注销次数
	Unregistered uint64
}

// Registry 注册存储
//
// 负责保留属性注入、时间戳与按类型/过滤器查询；记录的并发存取由 Store 负责。
type Registry struct {
	store         Store
	gen           pkgif.IDGenerator
	clock         clock.Clock
	cache         *filter.Cache
	caseSensitive bool

	registered   atomic.Uint64
	modified     atomic.Uint64
	unregistered atomic.Uint64
}

// New 创建注册表
func New(store Store, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		gen:   RandomGenerator{},
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = filter.NewCache(filter.DefaultCacheSize)
	}
	return r
}

// Register 注册服务
//
// url 为零值时返回 ErrInvalidRegistration。
func (r *Registry) Register(url types.ServiceURL, props map[string]string) (*Record, error) {
	if url.IsZero() {
		return nil, fmt.Errorf("%w: service url is required", ErrInvalidRegistration)
	}

	now := r.clock.Now()
	rec := NewRecord(r.gen.Generate(), url, props, now, now)
	if err := r.store.Put(rec); err != nil {
		return nil, fmt.Errorf("store registration: %w", err)
	}
	r.registered.Add(1)

	logger.Debug("服务已注册", "registration", rec.id, "url", url.String())
	return rec, nil
}

// SetProperties 整体替换属性集
//
// 未知标识返回 (nil, false, nil)。
func (r *Registry) SetProperties(id uuid.UUID, props map[string]string) (*Record, bool, error) {
	now := r.clock.Now()
	rec, ok, err := r.store.Update(id, func(old *Record) *Record {
		return old.withProperties(props, now)
	})
	if err != nil {
		return nil, false, fmt.Errorf("update registration: %w", err)
	}
	if !ok {
		logger.Debug("未找到注册，忽略", "registration", id)
		return nil, false, nil
	}
	r.modified.Add(1)
	return rec, true, nil
}

// Unregister 注销服务，返回移除前的快照
//
// 未知标识返回 (nil, false, nil)。
func (r *Registry) Unregister(id uuid.UUID) (*Record, bool, error) {
	rec, ok, err := r.store.Delete(id)
	if err != nil {
		return nil, false, fmt.Errorf("delete registration: %w", err)
	}
	if !ok {
		logger.Debug("未找到注册，忽略", "registration", id)
		return nil, false, nil
	}
	r.unregistered.Add(1)

	logger.Debug("服务已注销", "registration", id)
	return rec, true, nil
}

// Get 按标识读取快照
func (r *Registry) Get(id uuid.UUID) (*Record, bool) {
	rec, ok, err := r.store.Get(id)
	if err != nil {
		logger.Warn("读取注册失败", "registration", id, "error", err)
		return nil, false
	}
	return rec, ok
}

// Find 返回类型匹配且满足 f 的全部快照
//
// 结果按 URL、注册标识排序，顺序稳定。
func (r *Registry) Find(typePattern string, f filter.Filter) ([]*Record, error) {
	f = TypeFilter(typePattern).And(f)

	all, err := r.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot registrations: %w", err)
	}
	out := make([]*Record, 0, len(all))
	for _, rec := range all {
		if rec.Match(f, r.caseSensitive) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, (*Record).Compare)
	return out, nil
}

// FindQuery 编译 query 后执行 Find；语法错误直接返回
func (r *Registry) FindQuery(typePattern, query string) ([]*Record, error) {
	f, err := r.cache.Compile(query)
	if err != nil {
		return nil, err
	}
	return r.Find(typePattern, f)
}

// FindOne 返回任意一个类型匹配的快照
func (r *Registry) FindOne(typePattern string) (*Record, bool) {
	f := TypeFilter(typePattern)
	all, err := r.store.Snapshot()
	if err != nil {
		logger.Warn("读取注册快照失败", "error", err)
		return nil, false
	}
	for _, rec := range all {
		if rec.Match(f, r.caseSensitive) {
			return rec, true
		}
	}
	return nil, false
}

// Matching 返回满足 f 的全部快照（不限类型）
func (r *Registry) Matching(f filter.Filter) ([]*Record, error) {
	return r.Find("", f)
}

// Compile 使用共享缓存编译过滤器
func (r *Registry) Compile(query string) (filter.Filter, error) {
	return r.cache.Compile(query)
}

// CaseSensitive 返回值比较模式
func (r *Registry) CaseSensitive() bool {
	return r.caseSensitive
}

// Len 返回当前注册数
func (r *Registry) Len() int {
	return r.store.Len()
}

// Stats 返回统计快照
func (r *Registry) Stats() Stats {
	return Stats{
		Registrations: r.store.Len(),
		Registered:    r.registered.Load(),
		Modified:      r.modified.Load(),
		Unregistered:  r.unregistered.Load(),
	}
}

// CacheStats 返回过滤器缓存统计
func (r *Registry) CacheStats() filter.CacheStats {
	return r.cache.Stats()
}

// Close 关闭存储
func (r *Registry) Close() error {
	return r.store.Close()
}

// TypeFilter 构造服务类型谓词
//
// 空串或 "*" 匹配任意类型；含 '*' 时按通配符匹配；否则精确匹配。
func TypeFilter(pattern string) filter.Filter {
	pattern = strings.TrimSpace(pattern)
	switch {
	case pattern == "" || pattern == "*":
		return filter.MatchAll()
	case strings.Contains(pattern, "*"):
		return filter.FromNode(filter.Substring(pkgif.ServiceTypeKey, strings.Split(pattern, "*")...))
	default:
		return filter.FromNode(filter.Equal(pkgif.ServiceTypeKey, pattern))
	}
}
