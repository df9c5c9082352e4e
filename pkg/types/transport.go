package types

import "fmt"

// Transport 服务使用的传输协议（DNS-SD 标签形式）
type Transport string

const (
	// TransportTCP TCP 传输
	TransportTCP Transport = "_tcp"
	// TransportUDP UDP 传输
	TransportUDP Transport = "_udp"

	// DefaultTransport 默认传输协议
	DefaultTransport = TransportTCP
)

// ParseTransport 解析传输标签
func ParseTransport(label string) (Transport, error) {
	switch Transport(label) {
	case TransportTCP:
		return TransportTCP, nil
	case TransportUDP:
		return TransportUDP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTransport, label)
}

// IsTransport 判断名字分量是否为传输标签
func IsTransport(component string) bool {
	_, err := ParseTransport(component)
	return err == nil
}

// String 返回标签
func (t Transport) String() string {
	return string(t)
}
