package scope

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-slp/internal/core/executor"
	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/internal/core/replication"
	"github.com/dep2p/go-slp/internal/core/subscription"
	"github.com/dep2p/go-slp/internal/filter"
	"github.com/dep2p/go-slp/internal/testutil"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/types"
)

var (
	httpOne = types.MustParseServiceURL("service:http://one.example.com:80/")
	httpTwo = types.MustParseServiceURL("service:http://two.example.com:80/")
	ftpOne  = types.MustParseServiceURL("service:ftp://files.example.com:21/")
)

// newInlineScope 创建使用 Inline 执行器的作用域，回调在调用方同步执行
func newInlineScope(t *testing.T) *LocalScope {
	t.Helper()
	cache := filter.NewCache(0)
	reg := registry.New(registry.NewMemoryStore(4), registry.WithFilterCache(cache))
	subs := subscription.NewManager(executor.Inline{}, cache, false)
	s := New(reg, subs, WithClosers(reg))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func kindsOf(events []pkgif.Event) []pkgif.EventKind {
	out := make([]pkgif.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

// ============================================================================
//                              生命周期事件
// ============================================================================

// TestScope_EventSequence 测试订阅后的完整事件序列
func TestScope_EventSequence(t *testing.T) {
	s := newInlineScope(t)
	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, "(serviceType=service:http)"))

	first, err := s.Register(httpOne, nil)
	require.NoError(t, err)
	second, err := s.Register(httpTwo, nil)
	require.NoError(t, err)
	s.SetProperties(first, map[string]string{"load": "3"})
	s.Unregister(first)

	// 不匹配的类型不产生事件
	_, err = s.Register(ftpOne, nil)
	require.NoError(t, err)

	events := l.Events()
	require.Len(t, events, 4)
	assert.Equal(t, []pkgif.EventKind{
		pkgif.EventRegistered, pkgif.EventRegistered, pkgif.EventModified, pkgif.EventUnregistered,
	}, kindsOf(events))
	assert.Equal(t, []uuid.UUID{first, second, first, first}, l.Registrations())

	v, ok := events[2].Reference.Property("load")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	// 注销事件携带移除前的快照
	v, ok = events[3].Reference.Property("load")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

// TestScope_SetPropertiesUnknown 测试未知标识不变更不通知
func TestScope_SetPropertiesUnknown(t *testing.T) {
	s := newInlineScope(t)
	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, ""))

	s.SetProperties(uuid.New(), map[string]string{"a": "b"})
	s.Unregister(uuid.New())

	assert.Zero(t, l.Len())
	st := s.Stats()
	assert.Zero(t, st.Registry.Modified)
	assert.Zero(t, st.Registry.Unregistered)
}

// TestScope_Unsubscribe 测试取消订阅后不再回调
func TestScope_Unsubscribe(t *testing.T) {
	s := newInlineScope(t)
	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, "(servicetype=service:http)"))
	require.NoError(t, s.Subscribe(l, "(zone=eu)"))

	s.Unsubscribe(l)
	id, err := s.Register(httpOne, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	s.SetProperties(id, map[string]string{"zone": "eu"})
	s.Unregister(id)

	assert.Zero(t, l.Len())
	assert.Zero(t, s.Stats().Subscriptions.Subscriptions)
}

// TestScope_UnsubscribeQuery 测试按查询取消订阅
func TestScope_UnsubscribeQuery(t *testing.T) {
	s := newInlineScope(t)
	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, "(servicetype=service:http)"))
	require.NoError(t, s.Subscribe(l, "(servicetype=service:ftp)"))

	require.NoError(t, s.UnsubscribeQuery(l, "(servicetype=service:http)"))
	assert.ErrorIs(t, s.UnsubscribeQuery(l, "(servicetype="), filter.ErrInvalidSyntax)
	// 不存在的订阅为空操作
	require.NoError(t, s.UnsubscribeQuery(l, "(zone=eu)"))

	_, err := s.Register(httpOne, nil)
	require.NoError(t, err)
	_, err = s.Register(ftpOne, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "service:ftp", l.Events()[0].Reference.URL().ServiceType().String())
}

// TestScope_SubscribeReplaysExisting 测试订阅时补发已有注册
func TestScope_SubscribeReplaysExisting(t *testing.T) {
	s := newInlineScope(t)
	a, err := s.Register(httpOne, nil)
	require.NoError(t, err)
	b, err := s.Register(httpTwo, nil)
	require.NoError(t, err)
	_, err = s.Register(ftpOne, nil)
	require.NoError(t, err)

	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, "(servicetype=service:http)"))
	assert.ElementsMatch(t, []uuid.UUID{a, b}, l.Registrations())
	assert.Equal(t, []pkgif.EventKind{pkgif.EventRegistered, pkgif.EventRegistered}, l.Kinds())

	// 重复订阅不重复补发
	require.NoError(t, s.Subscribe(l, "(SERVICETYPE=service:http)"))
	assert.Equal(t, 2, l.Len())
}

// TestScope_SubscribeInvalid 测试非法查询
func TestScope_SubscribeInvalid(t *testing.T) {
	s := newInlineScope(t)
	l := testutil.NewRecordingListener()

	err := s.Subscribe(l, "(&(a=b)")
	var se *filter.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Zero(t, s.Stats().Subscriptions.Subscriptions)
}

// TestScope_ListenerFailure 测试回调失败不影响变更与其他监听器
func TestScope_ListenerFailure(t *testing.T) {
	s := newInlineScope(t)
	bad := testutil.NewRecordingListener()
	bad.OnEvent = func(pkgif.Event) error { panic("listener bug") }
	failing := testutil.NewRecordingListener()
	failing.OnEvent = func(pkgif.Event) error { return errors.New("rejected") }
	good := testutil.NewRecordingListener()
	for _, l := range []pkgif.Listener{bad, failing, good} {
		require.NoError(t, s.Subscribe(l, ""))
	}

	id, err := s.Register(httpOne, nil)
	require.NoError(t, err)
	_, ok := s.GetReference(id)
	assert.True(t, ok)
	assert.Equal(t, 1, good.Len())

	st := s.Stats().Subscriptions.Dispatch
	assert.EqualValues(t, 1, st.Panics)
	assert.EqualValues(t, 1, st.Failed)
}

// ============================================================================
//                              查询
// ============================================================================

// TestScope_FindAll 测试按类型与过滤器查询
func TestScope_FindAll(t *testing.T) {
	s := newInlineScope(t)
	a, err := s.Register(httpTwo, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	b, err := s.Register(httpOne, map[string]string{"zone": "us"})
	require.NoError(t, err)
	_, err = s.Register(ftpOne, map[string]string{"zone": "eu"})
	require.NoError(t, err)

	refs, err := s.FindAll("service:http", "")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	// 按 URL 排序
	assert.Equal(t, b, refs[0].Registration())
	assert.Equal(t, a, refs[1].Registration())

	refs, err = s.FindAll("*", "(zone=eu)")
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	refs, err = s.FindAll("service:h*", "(zone=eu)")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, a, refs[0].Registration())

	_, err = s.FindAll("service:http", "(zone=eu")
	assert.ErrorIs(t, err, filter.ErrInvalidSyntax)

	s.Unregister(a)
	refs, err = s.FindAll("service:http", "")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, b, refs[0].Registration())

	snap := s.Stats().Metrics
	assert.EqualValues(t, 5, snap.Queries.Total)
	assert.EqualValues(t, 1, snap.QueryErrors)
	assert.EqualValues(t, 3, snap.Mutations[pkgif.EventRegistered].Total)
}

// TestScope_FindOne 测试 FindOne 与 GetReference
func TestScope_FindOne(t *testing.T) {
	s := newInlineScope(t)
	_, ok := s.FindOne("service:http")
	assert.False(t, ok)

	id, err := s.Register(httpOne, nil)
	require.NoError(t, err)

	ref, ok := s.FindOne("service:http")
	require.True(t, ok)
	assert.Equal(t, id, ref.Registration())
	_, ok = s.FindOne("service:ftp")
	assert.False(t, ok)

	_, ok = s.GetReference(uuid.New())
	assert.False(t, ok)

	_, err = s.Register(types.ServiceURL{}, nil)
	assert.ErrorIs(t, err, registry.ErrInvalidRegistration)
}

// ============================================================================
//                              扩展
// ============================================================================

// TestScope_ExportStates 测试导出复制状态
func TestScope_ExportStates(t *testing.T) {
	s := newInlineScope(t)
	id, err := s.Register(httpOne, map[string]string{"zone": "eu"})
	require.NoError(t, err)
	_, err = s.Register(ftpOne, nil)
	require.NoError(t, err)

	states, err := s.ExportStates()
	require.NoError(t, err)
	require.Len(t, states, 2)

	codec := replication.NewCodec()
	var found bool
	for _, st := range states {
		rec, err := codec.Decode(st)
		require.NoError(t, err)
		if rec.Registration() == id {
			found = true
			v, _ := rec.Property("zone")
			assert.Equal(t, "eu", v)
		}
	}
	assert.True(t, found)
}

// countingCloser 记录 Close 调用次数
type countingCloser struct {
	n   int
	err error
}

func (c *countingCloser) Close() error {
	c.n++
	return c.err
}

// TestScope_Stop 测试 Stop 只释放资源，不影响后续变更与订阅
func TestScope_Stop(t *testing.T) {
	ok := &countingCloser{}
	failing := &countingCloser{err: errors.New("close failed")}
	cache := filter.NewCache(0)
	reg := registry.New(registry.NewMemoryStore(4), registry.WithFilterCache(cache))
	s := New(reg, subscription.NewManager(executor.Inline{}, cache, false), WithClosers(ok, failing))
	require.NoError(t, s.Start(context.Background()))

	id, err := s.Register(httpOne, nil)
	require.NoError(t, err)

	err = s.Stop(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.Equal(t, err, s.Stop(context.Background()), "重复调用返回首次结果")
	assert.Equal(t, 1, ok.n)
	assert.Equal(t, 1, failing.n)

	require.NoError(t, s.Start(context.Background()))

	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, ""))
	require.Equal(t, 1, l.Len(), "补发已有注册")

	second, err := s.Register(httpTwo, nil)
	require.NoError(t, err)
	s.SetProperties(second, map[string]string{"zone": "eu"})
	s.Unregister(id)

	_, found := s.GetReference(id)
	assert.False(t, found)
	assert.EqualValues(t, 1, s.Stats().Registry.Unregistered)
	assert.Equal(t, []pkgif.EventKind{
		pkgif.EventRegistered, pkgif.EventRegistered, pkgif.EventModified, pkgif.EventUnregistered,
	}, l.Kinds())
}

// TestScope_PoolExecutor 测试工作池下的异步投递
func TestScope_PoolExecutor(t *testing.T) {
	pool := executor.NewPool(2, 128)
	cache := filter.NewCache(0)
	reg := registry.New(registry.NewMemoryStore(4), registry.WithFilterCache(cache))
	s := New(reg, subscription.NewManager(pool, cache, false), WithClosers(reg))
	t.Cleanup(func() {
		_ = s.Stop(context.Background())
		_ = pool.Close(context.Background())
	})

	l := testutil.NewRecordingListener()
	require.NoError(t, s.Subscribe(l, "(servicetype=service:http)"))

	first, err := s.Register(httpOne, nil)
	require.NoError(t, err)
	s.SetProperties(first, map[string]string{"zone": "eu"})
	s.Unregister(first)

	l.WaitFor(t, 3, 2*time.Second)
	assert.Equal(t, []pkgif.EventKind{
		pkgif.EventRegistered, pkgif.EventModified, pkgif.EventUnregistered,
	}, l.Kinds())
	testutil.Never(t, 50*time.Millisecond, func() bool { return l.Len() > 3 }, "多余事件")
}
