package types

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/mr-tron/base58"
)

// ============================================================================
//                              常量
// ============================================================================

const (
	// LifetimeDefault 默认生命周期
	LifetimeDefault = 10 * time.Second

	// LifetimeNone 不保留
	LifetimeNone time.Duration = 0

	// LifetimePermanent 永久有效
	LifetimePermanent time.Duration = -1

	// NoPort 未指定端口
	NoPort = 0
)

// ============================================================================
//                              ServiceURL
// ============================================================================

// ServiceURL 服务描述符
//
// 形如 service:http://foo.bar:8080/path，包含服务类型、访问地址、
// URL 路径以及生命周期、优先级、权重、区域、实例名等附加信息。
//
// ServiceURL 是不可变值，With* 方法返回修改后的副本。
type ServiceURL struct {
	serviceType  ServiceType
	host         string
	port         int
	path         string
	ttl          time.Duration
	transport    Transport
	priority     int
	weight       int
	zone         string
	instanceName string
}

// ParseServiceURL 解析服务 URL
//
// 使用默认生命周期和 TCP 传输。路径缺省时为 "/"。
func ParseServiceURL(raw string) (ServiceURL, error) {
	idx := strings.Index(raw, ":/")
	if idx <= 0 {
		return ServiceURL{}, fmt.Errorf("%w: %q", ErrInvalidServiceURL, raw)
	}

	u := ServiceURL{
		serviceType: ParseServiceType(raw[:idx]),
		ttl:         LifetimeDefault,
		transport:   DefaultTransport,
	}

	rest := raw[idx+2:]
	if !strings.HasPrefix(rest, "/") {
		// 无主机部分：service:foo:/path
		u.path = "/" + rest
		return u, nil
	}
	rest = rest[1:]

	authority, path := rest, "/"
	if slash := strings.Index(rest, "/"); slash != -1 {
		authority, path = rest[:slash], rest[slash:]
	}
	u.path = path

	if authority == "" {
		return u, nil
	}

	parsed, err := url.Parse("srv://" + authority)
	if err != nil {
		return ServiceURL{}, fmt.Errorf("%w: %q: %v", ErrInvalidServiceURL, raw, err)
	}
	u.host = parsed.Hostname()
	if !validHost(u.host) {
		return ServiceURL{}, fmt.Errorf("%w: invalid host %q", ErrInvalidServiceURL, u.host)
	}
	if p := parsed.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 0 || port > 65535 {
			return ServiceURL{}, fmt.Errorf("%w: invalid port %q", ErrInvalidServiceURL, p)
		}
		u.port = port
	}
	return u, nil
}

// MustParseServiceURL 解析服务 URL，失败时 panic
//
// 仅用于测试和常量初始化。
func MustParseServiceURL(raw string) ServiceURL {
	u, err := ParseServiceURL(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// NewObjectServiceURL 创建携带对象负载的服务 URL
//
// 负载以 base58 编码放入 URL 路径：<type>:///<base58>
func NewObjectServiceURL(serviceType string, payload []byte, ttl time.Duration, transport Transport) (ServiceURL, error) {
	u, err := ParseServiceURL(serviceType + ":///" + base58.Encode(payload))
	if err != nil {
		return ServiceURL{}, err
	}
	u.ttl = ttl
	u.transport = transport
	return u, nil
}

func validHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	_, ok := dns.IsDomainName(host)
	return ok
}

// ============================================================================
//                              访问器
// ============================================================================

// ServiceType 返回服务类型
func (u ServiceURL) ServiceType() ServiceType { return u.serviceType }

// Host 返回主机，未指定时为空串
func (u ServiceURL) Host() string { return u.host }

// Port 返回端口；非 TCP 传输总是 NoPort
func (u ServiceURL) Port() int {
	if u.transport != TransportTCP {
		return NoPort
	}
	return u.port
}

// Path 返回 URL 路径
func (u ServiceURL) Path() string { return u.path }

// TTL 返回生命周期
func (u ServiceURL) TTL() time.Duration { return u.ttl }

// Transport 返回传输协议
func (u ServiceURL) Transport() Transport { return u.transport }

// Priority 返回优先级
func (u ServiceURL) Priority() int { return u.priority }

// Weight 返回权重
func (u ServiceURL) Weight() int { return u.weight }

// Zone 返回区域
func (u ServiceURL) Zone() string { return u.zone }

// InstanceName 返回实例名
func (u ServiceURL) InstanceName() string { return u.instanceName }

// IsZero 是否为零值（未解析）
func (u ServiceURL) IsZero() bool {
	return u.serviceType.typeName == "" && u.path == ""
}

// DNSServiceType 返回 DNS-SD 服务类型，例如 "_http._tcp."
func (u ServiceURL) DNSServiceType() string {
	return dns.Fqdn("_" + u.serviceType.Protocol() + "." + u.transport.String())
}

// URL 返回可直接访问的 URL，例如 http://foo.bar:8080/path
func (u ServiceURL) URL() *url.URL {
	host := u.host
	if port := u.Port(); port != NoPort {
		host = net.JoinHostPort(u.host, strconv.Itoa(port))
	}
	return &url.URL{Scheme: u.serviceType.Protocol(), Host: host, Path: u.path}
}

// PathObject 解码 NewObjectServiceURL 放入路径的负载
func (u ServiceURL) PathObject() ([]byte, error) {
	if len(u.path) < 2 {
		return nil, ErrNoPathObject
	}
	data, err := base58.Decode(u.path[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPathObject, err)
	}
	return data, nil
}

// ============================================================================
//                              With*
// ============================================================================

// WithTTL 返回设置生命周期后的副本
func (u ServiceURL) WithTTL(ttl time.Duration) ServiceURL { u.ttl = ttl; return u }

// WithTransport 返回设置传输协议后的副本
func (u ServiceURL) WithTransport(t Transport) ServiceURL { u.transport = t; return u }

// WithPriority 返回设置优先级后的副本
func (u ServiceURL) WithPriority(p int) ServiceURL { u.priority = p; return u }

// WithWeight 返回设置权重后的副本
func (u ServiceURL) WithWeight(w int) ServiceURL { u.weight = w; return u }

// WithZone 返回设置区域后的副本
func (u ServiceURL) WithZone(zone string) ServiceURL { u.zone = zone; return u }

// WithInstanceName 返回设置实例名后的副本
func (u ServiceURL) WithInstanceName(name string) ServiceURL { u.instanceName = name; return u }

// ============================================================================
//                              比较
// ============================================================================

// Equal 比较服务类型、主机、端口、路径和传输协议
func (u ServiceURL) Equal(o ServiceURL) bool {
	return u.serviceType.Equal(o.serviceType) &&
		u.host == o.host &&
		u.Port() == o.Port() &&
		u.path == o.path &&
		u.transport == o.transport
}

// Compare 排序比较：先按 URL 文本，再按优先级、权重
func (u ServiceURL) Compare(o ServiceURL) int {
	if !u.Equal(o) {
		return strings.Compare(u.String(), o.String())
	}
	switch {
	case u.priority < o.priority:
		return -1
	case u.priority > o.priority:
		return 1
	case u.weight < o.weight:
		return -1
	case u.weight > o.weight:
		return 1
	}
	return 0
}

// String 返回 URL 文本形式
func (u ServiceURL) String() string {
	var b strings.Builder
	b.WriteString(u.serviceType.String())
	b.WriteString("://")
	b.WriteString(u.host)
	if u.port != NoPort {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.port))
	}
	b.WriteString(u.path)
	return b.String()
}

// ============================================================================
//                              JSON
// ============================================================================

type serviceURLJSON struct {
	URL          string    `json:"url"`
	TTL          int64     `json:"ttl_ms"`
	Transport    Transport `json:"transport"`
	Priority     int       `json:"priority,omitempty"`
	Weight       int       `json:"weight,omitempty"`
	Zone         string    `json:"zone,omitempty"`
	InstanceName string    `json:"instance_name,omitempty"`
}

// MarshalJSON 实现 json.Marshaler
func (u ServiceURL) MarshalJSON() ([]byte, error) {
	ttl := int64(u.ttl / time.Millisecond)
	if u.ttl == LifetimePermanent {
		ttl = -1
	}
	return json.Marshal(serviceURLJSON{
		URL:          u.String(),
		TTL:          ttl,
		Transport:    u.transport,
		Priority:     u.priority,
		Weight:       u.weight,
		Zone:         u.zone,
		InstanceName: u.instanceName,
	})
}

// UnmarshalJSON 实现 json.Unmarshaler
func (u *ServiceURL) UnmarshalJSON(data []byte) error {
	var raw serviceURLJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseServiceURL(raw.URL)
	if err != nil {
		return err
	}
	parsed.ttl = time.Duration(raw.TTL) * time.Millisecond
	if raw.TTL < 0 {
		parsed.ttl = LifetimePermanent
	}
	if raw.Transport != "" {
		if parsed.transport, err = ParseTransport(string(raw.Transport)); err != nil {
			return err
		}
	}
	parsed.priority = raw.Priority
	parsed.weight = raw.Weight
	parsed.zone = raw.Zone
	parsed.instanceName = raw.InstanceName
	*u = parsed
	return nil
}
