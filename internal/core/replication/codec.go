package replication

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/dep2p/go-slp/internal/core/registry"
)

// 负载编码标记
const (
	formatJSON byte = 0x01
	formatS2   byte = 0x02
)

// DefaultCompressThreshold 超过该长度的 JSON 负载使用 s2 压缩
const DefaultCompressThreshold = 512

// Codec 注册快照与 State 的转换
type Codec struct {
	threshold int
}

// CodecOption Codec 选项
type CodecOption func(*Codec)

// WithCompressThreshold 设置压缩阈值，<= 0 关闭压缩
func WithCompressThreshold(n int) CodecOption {
	return func(c *Codec) {
		c.threshold = n
	}
}

// NewCodec 创建 Codec
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{threshold: DefaultCompressThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode 把注册快照编码为 State
func (c *Codec) Encode(rec *registry.Record) (State, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return State{}, fmt.Errorf("encode %s: %w", rec.Registration(), err)
	}

	format := formatJSON
	if c.threshold > 0 && len(body) > c.threshold {
		body = s2.Encode(nil, body)
		format = formatS2
	}

	payload := make([]byte, 1+len(body))
	payload[0] = format
	copy(payload[1:], body)
	return State{ID: rec.Registration(), Payload: payload}, nil
}

// Decode 把携带注册的 State 解码为快照
//
// 墓碑与心跳返回 ErrNotNotifiable。
func (c *Codec) Decode(s State) (*registry.Record, error) {
	if !s.IsNotifiable() {
		return nil, ErrNotNotifiable
	}

	body := s.Payload[1:]
	switch s.Payload[0] {
	case formatJSON:
	case formatS2:
		var err error
		if body, err = s2.Decode(nil, body); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", s.ID, err)
		}
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownFormat, s.Payload[0])
	}

	var rec registry.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.ID, err)
	}
	if rec.Registration() != s.ID {
		return nil, ErrIDMismatch
	}
	return &rec, nil
}

// EncodeAll 编码一组快照
func (c *Codec) EncodeAll(recs []*registry.Record) ([]State, error) {
	out := make([]State, 0, len(recs))
	for _, rec := range recs {
		s, err := c.Encode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
