package slp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-slp/internal/core/executor"
	"github.com/dep2p/go-slp/internal/testutil"
)

var (
	httpEU = MustParseServiceURL("service:http://eu.example.com:80/")
	httpUS = MustParseServiceURL("service:http://us.example.com:80/")
)

// startScope 启动作用域并在测试结束时关闭
func startScope(t *testing.T, opts ...Option) *Scope {
	t.Helper()
	s, err := Start(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixedGenerator 按顺序返回预设标识
type fixedGenerator struct {
	ids []uuid.UUID
	n   int
}

func (g *fixedGenerator) Generate() uuid.UUID {
	id := g.ids[g.n%len(g.ids)]
	g.n++
	return id
}

// ============================================================================
//                              生命周期
// ============================================================================

// TestScope_Lifecycle 测试状态转换
func TestScope_Lifecycle(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.Equal(t, StateIdle, s.State())

	assert.ErrorIs(t, s.Stop(context.Background()), ErrNotStarted)
	assert.NoError(t, s.Close(), "未启动时 Close 为空操作")

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateRunning, s.State())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, "closed", s.State().String())

	assert.ErrorIs(t, s.Start(context.Background()), ErrScopeClosed)
	assert.ErrorIs(t, s.Stop(context.Background()), ErrScopeClosed)
	assert.NoError(t, s.Close())

	// 内存存储在关闭后仍可读写
	id, err := s.Register(httpEU, nil)
	require.NoError(t, err)
	s.Unregister(id)
	_, ok := s.GetReference(id)
	assert.False(t, ok)
}

// TestNew_InvalidOptions 测试非法选项
func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil config", WithConfig(nil)},
		{"bad json", WithConfigJSON([]byte("{"))},
		{"unknown preset", WithPreset("nope")},
		{"zero workers", WithWorkers(0, 16)},
		{"nil executor", WithExecutor(nil)},
		{"unknown backend", WithStoreBackend("disk")},
		{"bad namespace", WithMetricsNamespace("has space")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			assert.Error(t, err)
		})
	}
}

// ============================================================================
//                              注册与查询
// ============================================================================

// TestScope_RegisterAndFind 测试注册、查询与注销
func TestScope_RegisterAndFind(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := startScope(t, WithInlineNotification(), WithClock(mock))

	eu, err := s.Register(httpEU, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	_, err = s.Register(httpUS, map[string]string{"zone": "us"})
	require.NoError(t, err)

	ref, ok := s.GetReference(eu)
	require.True(t, ok)
	assert.Equal(t, mock.Now(), ref.RegisteredAt())
	v, _ := ref.Property(ServiceTypeKey)
	assert.Equal(t, "service:http", v)

	refs, err := s.FindAll("service:http", "(zone=eu)")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, eu, refs[0].Registration())

	all, err := s.FindAll("*", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.FindAll("service:http", "(zone=eu")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))

	s.Unregister(eu)
	_, ok = s.GetReference(eu)
	assert.False(t, ok)

	st := s.Stats()
	assert.Equal(t, 1, st.Registry.Registrations)
	assert.EqualValues(t, 3, st.Metrics.Queries.Total)
	assert.EqualValues(t, 1, st.Metrics.QueryErrors)
}

// TestScope_IDGenerator 测试自定义标识生成器
func TestScope_IDGenerator(t *testing.T) {
	want := uuid.MustParse("7b3e8a4c-1d2f-4a5b-9c6d-0e1f2a3b4c5d")
	s := startScope(t, WithInlineNotification(), WithIDGenerator(&fixedGenerator{ids: []uuid.UUID{want}}))

	id, err := s.Register(httpEU, nil)
	require.NoError(t, err)
	assert.Equal(t, want, id)
}

// TestScope_BadgerBackend 测试 badger 存储后端
func TestScope_BadgerBackend(t *testing.T) {
	s := startScope(t, WithInlineNotification(), WithStoreBackend("badger"))

	id, err := s.Register(httpEU, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	s.SetProperties(id, map[string]string{"zone": "ap"})

	refs, err := s.FindAll("service:http", "(zone=ap)")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, id, refs[0].Registration())
}

// ============================================================================
//                              订阅
// ============================================================================

// TestScope_SubscribeWorkers 测试工作池投递
func TestScope_SubscribeWorkers(t *testing.T) {
	s := startScope(t, WithWorkers(2, 64))
	l := testutil.NewRecordingListener()

	existing, err := s.Register(httpEU, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	require.NoError(t, s.Subscribe(l, "(zone=eu)"))
	l.WaitFor(t, 1, time.Second)

	s.SetProperties(existing, map[string]string{"zone": "eu", "weight": "2"})
	s.Unregister(existing)
	l.WaitFor(t, 3, time.Second)

	assert.Equal(t, []EventKind{EventRegistered, EventModified, EventUnregistered}, l.Kinds())

	s.Unsubscribe(l)
	_, err = s.Register(httpEU, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	testutil.Never(t, 50*time.Millisecond, func() bool { return l.Len() > 3 }, "取消订阅后不再投递")
}

// TestScope_WithExecutor 测试调用方提供的执行器
func TestScope_WithExecutor(t *testing.T) {
	pool := executor.NewPool(1, 16)
	t.Cleanup(func() { _ = pool.Close(context.Background()) })

	s := startScope(t, WithExecutor(pool))
	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, ""))

	_, err := s.Register(httpUS, nil)
	require.NoError(t, err)
	l.WaitFor(t, 1, time.Second)

	// 调用方的执行器不随作用域关闭，投递继续
	require.NoError(t, s.Close())
	_, err = s.Register(httpEU, nil)
	require.NoError(t, err)
	l.WaitFor(t, 2, time.Second)
}

// TestScope_UnsubscribeQuery 测试按查询取消订阅
func TestScope_UnsubscribeQuery(t *testing.T) {
	s := startScope(t, WithInlineNotification())
	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, "(zone=eu)"))
	require.NoError(t, s.Subscribe(l, "(zone=us)"))

	require.NoError(t, s.UnsubscribeQuery(l, "(zone=eu)"))
	_, err := s.Register(httpEU, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	_, err = s.Register(httpUS, map[string]string{"zone": "us"})
	require.NoError(t, err)

	require.Equal(t, 1, l.Len())
	assert.Equal(t, "us.example.com", l.Events()[0].Reference.URL().Host())

	assert.ErrorIs(t, s.Subscribe(l, "zone=eu)"), ErrInvalidSyntax)
}

// ============================================================================
//                              观测
// ============================================================================

// TestScope_Gatherer 测试 Prometheus 指标
func TestScope_Gatherer(t *testing.T) {
	s := startScope(t, WithInlineNotification(), WithMetricsNamespace("svc"))
	_, err := s.Register(httpEU, nil)
	require.NoError(t, err)

	families, err := s.Gatherer().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "svc_registrations" {
			found = true
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found)
}

// TestScope_ExportStates 测试导出复制状态
func TestScope_ExportStates(t *testing.T) {
	s := startScope(t, WithInlineNotification())
	id, err := s.Register(httpEU, map[string]string{"zone": "eu"})
	require.NoError(t, err)

	states, err := s.ExportStates()
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, id, states[0].ID)
	assert.True(t, states[0].IsNotifiable())
}

// TestVersionInfo 测试版本信息
func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
}
