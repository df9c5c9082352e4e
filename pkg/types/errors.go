// Package types 定义 go-slp 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              服务描述符错误
// ============================================================================

var (
	// ErrInvalidServiceURL 无效的服务 URL
	ErrInvalidServiceURL = errors.New("invalid service URL")

	// ErrInvalidTransport 无效的传输标签
	ErrInvalidTransport = errors.New("invalid transport label")

	// ErrNoPathObject URL 路径中没有可解码的对象负载
	ErrNoPathObject = errors.New("no object encoded in URL path")
)
