package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-slp/config"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// ============================================================================
// Inline
// ============================================================================

// TestInline_RunsOnCaller 测试同步执行
func TestInline_RunsOnCaller(t *testing.T) {
	ran := false
	require.NoError(t, Inline{}.Execute(func() { ran = true }))
	assert.True(t, ran)
}

// ============================================================================
// Pool
// ============================================================================

// TestPool_ExecutesAll 测试全部任务被执行
func TestPool_ExecutesAll(t *testing.T) {
	p := NewPool(4, 128)

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, p.Execute(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, int32(100), count.Load())
	assert.Equal(t, uint64(100), p.Stats().Executed)
}

// TestPool_QueueFull 测试队列满时拒绝
func TestPool_QueueFull(t *testing.T) {
	p := NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Execute(func() {
		close(started)
		<-release
	}))
	<-started

	// worker 被阻塞，队列容量 1
	require.NoError(t, p.Execute(func() {}))
	assert.ErrorIs(t, p.Execute(func() {}), ErrQueueFull)
	assert.Equal(t, uint64(1), p.Stats().Rejected)

	close(release)
	require.NoError(t, p.Close(context.Background()))
}

// TestPool_Closed 测试关闭后拒绝
func TestPool_Closed(t *testing.T) {
	p := NewPool(1, 4)
	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, p.Close(context.Background()))
	assert.ErrorIs(t, p.Execute(func() {}), ErrClosed)
}

// TestPool_CloseTimeout 测试关闭超时
func TestPool_CloseTimeout(t *testing.T) {
	p := NewPool(1, 1)
	release := make(chan struct{})
	require.NoError(t, p.Execute(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, p.Close(context.Background()))
}

// TestPool_PanicIsolated 测试任务 panic 不影响 worker
func TestPool_PanicIsolated(t *testing.T) {
	p := NewPool(1, 4)
	done := make(chan struct{})

	require.NoError(t, p.Execute(func() { panic("boom") }))
	require.NoError(t, p.Execute(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task after panic did not run")
	}
	err := p.Close(context.Background())
	require.ErrorIs(t, err, ErrTaskPanicked)
	assert.Contains(t, err.Error(), "1 in one worker")
	assert.ErrorIs(t, p.Close(context.Background()), ErrTaskPanicked, "重复关闭返回同一结果")
	assert.Equal(t, uint64(1), p.Stats().Panics)
}

// ============================================================================
// Fx 模块
// ============================================================================

// TestModule_Load 测试 Fx 模块加载
func TestModule_Load(t *testing.T) {
	var exec pkgif.Executor

	app := fxtest.New(t,
		Module(),
		fx.Populate(&exec),
	)
	app.RequireStart()
	_, isPool := exec.(*Pool)
	assert.True(t, isPool)
	app.RequireStop()

	assert.ErrorIs(t, exec.Execute(func() {}), ErrClosed)
}

// TestModule_Inline 测试配置同步执行器
func TestModule_Inline(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Notification.Inline = true

	var exec pkgif.Executor
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&exec),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, Inline{}, exec)
}

// TestModule_InvalidConfig 测试非法配置
func TestModule_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Notification.Workers = 0

	_, err := ProvideExecutor(Params{UnifiedCfg: cfg})
	assert.Error(t, err)
}
