package registry

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-slp/internal/filter"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/types"
)

// ============================================================================
//                              Record
// ============================================================================

// Record 注册记录快照
//
// 创建后不可变；属性替换会生成新的 Record。可在 goroutine 间自由共享。
type Record struct {
	id           uuid.UUID
	url          types.ServiceURL
	props        map[string]string
	registeredAt time.Time
	modifiedAt   time.Time
}

var _ pkgif.ServiceReference = (*Record)(nil)

// NewRecord 构造记录
//
// props 被复制并规范化，保留属性按 id 与 url 注入。
func NewRecord(id uuid.UUID, url types.ServiceURL, props map[string]string, registeredAt, modifiedAt time.Time) *Record {
	attrs := NormalizeProperties(props)
	attrs[pkgif.ServiceRegistrationKey] = id.String()
	attrs[pkgif.ServiceTypeKey] = url.ServiceType().String()
	return &Record{
		id:           id,
		url:          url,
		props:        attrs,
		registeredAt: registeredAt,
		modifiedAt:   modifiedAt,
	}
}

// withProperties 返回整体替换属性后的新记录
//
// 服务类型属性取自当前记录而非 props。
func (r *Record) withProperties(props map[string]string, now time.Time) *Record {
	attrs := NormalizeProperties(props)
	attrs[pkgif.ServiceRegistrationKey] = r.id.String()
	attrs[pkgif.ServiceTypeKey] = r.props[pkgif.ServiceTypeKey]
	return &Record{
		id:           r.id,
		url:          r.url,
		props:        attrs,
		registeredAt: r.registeredAt,
		modifiedAt:   now,
	}
}

// NormalizeProperties 复制属性集，键去除首尾空白并转为小写
//
// 仅大小写不同的键冲突时，按原始键字典序较大者生效。
func NormalizeProperties(props map[string]string) map[string]string {
	out := make(map[string]string, len(props)+2)
	keys := slices.Sorted(maps.Keys(props))
	for _, k := range keys {
		out[strings.ToLower(strings.TrimSpace(k))] = props[k]
	}
	return out
}

// Registration 返回注册标识
func (r *Record) Registration() uuid.UUID { return r.id }

// URL 返回服务描述符
func (r *Record) URL() types.ServiceURL { return r.url }

// ServiceType 返回注册时的服务类型
func (r *Record) ServiceType() string { return r.props[pkgif.ServiceTypeKey] }

// Properties 返回属性集副本
func (r *Record) Properties() map[string]string { return maps.Clone(r.props) }

// Property 返回单个属性
func (r *Record) Property(key string) (string, bool) {
	v, ok := r.props[strings.ToLower(strings.TrimSpace(key))]
	return v, ok
}

// RegisteredAt 返回注册时间
func (r *Record) RegisteredAt() time.Time { return r.registeredAt }

// ModifiedAt 返回最近一次属性替换时间
func (r *Record) ModifiedAt() time.Time { return r.modifiedAt }

// Match 以过滤器匹配记录属性
func (r *Record) Match(f filter.Filter, caseSensitive bool) bool {
	return f.MatchCase(r.props, caseSensitive)
}

// Compare 排序比较：先按 URL，再按注册标识
func (r *Record) Compare(o *Record) int {
	if c := r.url.Compare(o.url); c != 0 {
		return c
	}
	return strings.Compare(r.id.String(), o.id.String())
}

// String 返回可读形式
func (r *Record) String() string {
	return fmt.Sprintf("Record{url=%s, registration=%s}", r.url, r.id)
}

// ============================================================================
//                              JSON
// ============================================================================

type recordJSON struct {
	ID           uuid.UUID         `json:"id"`
	URL          types.ServiceURL  `json:"url"`
	Properties   map[string]string `json:"properties"`
	RegisteredAt time.Time         `json:"registered_at"`
	ModifiedAt   time.Time         `json:"modified_at"`
}

// MarshalJSON 实现 json.Marshaler
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:           r.id,
		URL:          r.url,
		Properties:   r.props,
		RegisteredAt: r.registeredAt,
		ModifiedAt:   r.modifiedAt,
	})
}

// UnmarshalJSON 实现 json.Unmarshaler
//
// 保留属性按 id 与 properties 中的 servicetype 恢复。
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.URL.IsZero() {
		return fmt.Errorf("%w: missing url", ErrInvalidRegistration)
	}
	rec := NewRecord(raw.ID, raw.URL, raw.Properties, raw.RegisteredAt, raw.ModifiedAt)
	if st, ok := raw.Properties[pkgif.ServiceTypeKey]; ok {
		rec.props[pkgif.ServiceTypeKey] = st
	}
	*r = *rec
	return nil
}
