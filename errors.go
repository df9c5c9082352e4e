package slp

import (
	"errors"

	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/internal/filter"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 作用域生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 作用域未启动
	ErrNotStarted = errors.New("scope not started")

	// ErrAlreadyStarted 作用域已启动
	ErrAlreadyStarted = errors.New("scope already started")

	// ErrScopeClosed 作用域已关闭
	ErrScopeClosed = errors.New("scope closed")

	// ────────────────────────────────────────────────────────────────────────
	// 注册与查询错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidSyntax 过滤器语法错误，具体位置见 *SyntaxError
	ErrInvalidSyntax = filter.ErrInvalidSyntax

	// ErrInvalidRegistration 注册缺少服务 URL
	ErrInvalidRegistration = registry.ErrInvalidRegistration
)

// SyntaxError 过滤器语法错误详情
type SyntaxError = filter.SyntaxError
