package replication

import "errors"

// ────────────────────────────────────────────────────────────────────────────
// 编解码错误
// ────────────────────────────────────────────────────────────────────────────

var (
	// ErrShortState 二进制数据不足 16 字节
	ErrShortState = errors.New("replication: state shorter than id")

	// ErrNotNotifiable 墓碑或心跳不携带注册快照
	ErrNotNotifiable = errors.New("replication: state carries no registration")

	// ErrUnknownFormat 未知负载编码
	ErrUnknownFormat = errors.New("replication: unknown payload format")

	// ErrIDMismatch 负载中的注册标识与 State.ID 不一致
	ErrIDMismatch = errors.New("replication: payload id does not match state id")
)
