package replication

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/pkg/types"
)

func newRecord(props map[string]string) *registry.Record {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	url := types.MustParseServiceURL("service:http://one.example.com:80/")
	return registry.NewRecord(uuid.New(), url, props, now, now)
}

// ============================================================================
//                              State
// ============================================================================

// TestState_Kinds 测试状态分类
func TestState_Kinds(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		state      State
		heartbeat  bool
		deleted    bool
		notifiable bool
	}{
		{"heartbeat", Heartbeat(), true, false, false},
		{"heartbeat with payload", State{ID: HeartbeatID, Payload: []byte{1}}, true, false, false},
		{"tombstone", Deleted(id), false, true, false},
		{"registration", State{ID: id, Payload: []byte{formatJSON, '{', '}'}}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.heartbeat, tt.state.IsHeartbeat())
			assert.Equal(t, tt.deleted, tt.state.IsDeleted())
			assert.Equal(t, tt.notifiable, tt.state.IsNotifiable())
		})
	}
}

// TestState_Binary 测试二进制编码
func TestState_Binary(t *testing.T) {
	s := State{ID: uuid.New(), Payload: []byte("payload")}
	data, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 16+7)
	assert.Equal(t, s.ID[:], data[:16])

	var back State
	require.NoError(t, back.UnmarshalBinary(data))
	assert.True(t, s.Equal(back))
	assert.Equal(t, s.Digest(), back.Digest())

	tomb := Deleted(uuid.New())
	data, _ = tomb.MarshalBinary()
	require.NoError(t, back.UnmarshalBinary(data))
	assert.True(t, back.IsDeleted())

	assert.ErrorIs(t, back.UnmarshalBinary(make([]byte, 15)), ErrShortState)
}

// TestState_Digest 测试摘要区分标识与负载
func TestState_Digest(t *testing.T) {
	id := uuid.New()
	a := State{ID: id, Payload: []byte("a")}
	b := State{ID: id, Payload: []byte("b")}
	c := State{ID: uuid.New(), Payload: []byte("a")}
	assert.NotEqual(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
	assert.Contains(t, a.String(), id.String())
}

// ============================================================================
//                              Codec
// ============================================================================

// TestCodec_RoundTrip 测试快照编解码，含压缩
func TestCodec_RoundTrip(t *testing.T) {
	small := newRecord(map[string]string{"zone": "eu"})
	large := newRecord(map[string]string{"blob": strings.Repeat("x", 4096)})

	codec := NewCodec()
	for _, rec := range []*registry.Record{small, large} {
		s, err := codec.Encode(rec)
		require.NoError(t, err)
		assert.Equal(t, rec.Registration(), s.ID)
		assert.True(t, s.IsNotifiable())

		back, err := codec.Decode(s)
		require.NoError(t, err)
		assert.Equal(t, rec.Properties(), back.Properties())
		assert.True(t, rec.ModifiedAt().Equal(back.ModifiedAt()))
	}

	s, err := codec.Encode(large)
	require.NoError(t, err)
	assert.Equal(t, formatS2, s.Payload[0])
	assert.Less(t, len(s.Payload), 4096)

	plain, err := NewCodec(WithCompressThreshold(0)).Encode(large)
	require.NoError(t, err)
	assert.Equal(t, formatJSON, plain.Payload[0])
}

// TestCodec_DecodeErrors 测试解码错误
func TestCodec_DecodeErrors(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Decode(Deleted(uuid.New()))
	assert.ErrorIs(t, err, ErrNotNotifiable)
	_, err = codec.Decode(Heartbeat())
	assert.ErrorIs(t, err, ErrNotNotifiable)

	_, err = codec.Decode(State{ID: uuid.New(), Payload: []byte{0x7f, '{', '}'}})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = codec.Decode(State{ID: uuid.New(), Payload: []byte{formatJSON, '{', '}'}})
	assert.ErrorIs(t, err, registry.ErrInvalidRegistration)

	s, err := codec.Encode(newRecord(nil))
	require.NoError(t, err)
	s.ID = uuid.New()
	_, err = codec.Decode(s)
	assert.ErrorIs(t, err, ErrIDMismatch)

	states, err := codec.EncodeAll([]*registry.Record{newRecord(nil), newRecord(nil)})
	require.NoError(t, err)
	assert.Len(t, states, 2)
}
