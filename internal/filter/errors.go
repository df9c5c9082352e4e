package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidSyntax 过滤器语法错误
var ErrInvalidSyntax = errors.New("invalid filter syntax")

// SyntaxError 带位置信息的语法错误
type SyntaxError struct {
	// Filter 原始过滤器文本
	Filter string
	// Pos 出错位置（字节偏移）
	Pos int
	// Msg 错误描述
	Msg string
}

// Error 实现 error 接口
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at position %d in %q", ErrInvalidSyntax, e.Msg, e.Pos, e.Filter)
}

// Unwrap 支持 errors.Is(err, ErrInvalidSyntax)
func (e *SyntaxError) Unwrap() error {
	return ErrInvalidSyntax
}
