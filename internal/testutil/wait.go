// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultInterval 默认检查间隔
const DefaultInterval = 5 * time.Millisecond

// WaitForCondition 等待条件满足或超时
//
// 返回条件是否满足（超时返回 false）。
func WaitForCondition(t testing.TB, timeout, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return condition()
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// Eventually 在指定时间内重试条件检查，超时则 fail 测试
//
// 示例:
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return rec.Len() == 2
//	}, "应收到两个事件")
func Eventually(t testing.TB, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	if !WaitForCondition(t, timeout, DefaultInterval, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Never 在指定时间内条件始终不成立，否则 fail 测试
func Never(t testing.TB, window time.Duration, condition func() bool, msg string) {
	t.Helper()
	if WaitForCondition(t, window, DefaultInterval, condition) {
		t.Fatalf("条件意外成立: %s", msg)
	}
}
