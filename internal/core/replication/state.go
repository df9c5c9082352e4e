package replication

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"lukechampine.com/blake3"
)

// HeartbeatID 心跳状态使用的保留标识
var HeartbeatID = uuid.Nil

// State 可复制的注册状态
type State struct {
	ID      uuid.UUID
	Payload []byte
}

// Heartbeat 返回心跳状态
func Heartbeat() State {
	return State{ID: HeartbeatID}
}

// Deleted 返回 id 的墓碑状态
func Deleted(id uuid.UUID) State {
	return State{ID: id}
}

// IsHeartbeat 是否为心跳
func (s State) IsHeartbeat() bool {
	return s.ID == HeartbeatID
}

// IsDeleted 是否为墓碑（负载为空且非心跳）
func (s State) IsDeleted() bool {
	return len(s.Payload) == 0 && !s.IsHeartbeat()
}

// IsNotifiable 是否携带注册快照
func (s State) IsNotifiable() bool {
	return len(s.Payload) > 0 && !s.IsHeartbeat()
}

// Equal 按标识与负载比较
func (s State) Equal(o State) bool {
	return s.ID == o.ID && bytes.Equal(s.Payload, o.Payload)
}

// Digest 返回标识与负载的 BLAKE3 摘要
//
// 两端可比较摘要判断同一标识的状态是否一致。
func (s State) Digest() [32]byte {
	h := blake3.New(32, nil)
	_, _ = h.Write(s.ID[:])
	_, _ = h.Write(s.Payload)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// String 返回简要描述
func (s State) String() string {
	return fmt.Sprintf("State[id=%s,size=%d]", s.ID, len(s.Payload))
}

// MarshalBinary 编码为 16 字节标识加负载
func (s State) MarshalBinary() ([]byte, error) {
	out := make([]byte, 16+len(s.Payload))
	copy(out, s.ID[:])
	copy(out[16:], s.Payload)
	return out, nil
}

// UnmarshalBinary 从 MarshalBinary 的输出解码
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return ErrShortState
	}
	copy(s.ID[:], data[:16])
	if len(data) == 16 {
		s.Payload = nil
		return nil
	}
	s.Payload = bytes.Clone(data[16:])
	return nil
}
