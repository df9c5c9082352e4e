package registry

import "errors"

// ────────────────────────────────────────────────────────────────────────────
// 输入错误
// ────────────────────────────────────────────────────────────────────────────

// ErrInvalidRegistration 注册输入无效（描述符缺失）
var ErrInvalidRegistration = errors.New("registry: invalid registration")

// ────────────────────────────────────────────────────────────────────────────
// 存储错误
// ────────────────────────────────────────────────────────────────────────────

var (
	// ErrStoreClosed 存储已关闭
	ErrStoreClosed = errors.New("registry: store closed")

	// ErrUnknownBackend 未知存储后端
	ErrUnknownBackend = errors.New("registry: unknown backend")
)
