// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitForCondition 等待条件满足或超时
//
// 参数：
//   - t: 测试对象
//   - timeout: 超时时间
//   - interval: 检查间隔
//   - condition: 条件函数，返回 true 表示条件满足
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
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
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail 等待条件满足，超时则 fail 测试
func WaitForConditionOrFail(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, timeout, interval, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Eventually 在指定时间内重试条件检查
//
// 使用默认间隔 10ms。
//
// 示例:
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return mgr.State() == types.StateConnected
//	}, "应该建立连接")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	WaitForConditionOrFail(t, timeout, 10*time.Millisecond, condition, msg)
}

// Never 在 d 时间内条件始终不满足，否则 fail 测试
//
// 用于断言"过期结果不会生效"一类的否定性质。
func Never(t *testing.T, d time.Duration, condition func() bool, msg string) {
	t.Helper()
	if WaitForCondition(t, d, 5*time.Millisecond, condition) {
		t.Fatalf("条件不应满足: %s", msg)
	}
}

// ExpectEvent 从订阅通道读取下一条 T 类型事件，超时则 fail 测试
//
// 其它类型的事件被跳过。
//
// 示例:
//
//	evt := testutil.ExpectEvent[types.EvtDeviceConnected](t, sub.Out(), time.Second)
func ExpectEvent[T any](t *testing.T, ch <-chan interface{}, timeout time.Duration) T {
	t.Helper()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				var zero T
				t.Fatalf("订阅已关闭，未收到 %T", zero)
				return zero
			}
			if evt, ok := e.(T); ok {
				return evt
			}
		case <-timer.C:
			var zero T
			t.Fatalf("等待事件 %T 超时", zero)
			return zero
		}
	}
}

// NoEvent 断言 d 时间内通道上没有任何事件
func NoEvent(t *testing.T, ch <-chan interface{}, d time.Duration) {
	t.Helper()
	select {
	case e := <-ch:
		t.Fatalf("不应收到事件: %#v", e)
	case <-time.After(d):
	}
}
