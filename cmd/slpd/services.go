package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	slp "github.com/dep2p/go-slp"
)

// serviceEntry 服务文件中的一条注册
type serviceEntry struct {
	URL        string            `json:"url"`
	Properties map[string]string `json:"properties,omitempty"`
}

// loadServices 读取服务文件
//
// 文件为 JSON 数组：[{"url": "service:http://host:80/", "properties": {"zone": "eu"}}]
func loadServices(path string) ([]serviceEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading services: %w", err)
	}
	var entries []serviceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding services: %w", err)
	}
	return entries, nil
}

// registerAll 注册全部服务，返回注册标识
func registerAll(s *slp.Scope, entries []serviceEntry) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	for i, e := range entries {
		u, err := slp.ParseServiceURL(e.URL)
		if err != nil {
			return nil, fmt.Errorf("service #%d: %w", i, err)
		}
		id, err := s.Register(u, e.Properties)
		if err != nil {
			return nil, fmt.Errorf("service #%d: %w", i, err)
		}
		ids = append(ids, id)
	}
	cmdLogger.Debug("已注册服务", "count", len(ids))
	return ids, nil
}

// startScope 按当前配置启动作用域
func startScope(ctx context.Context, opts ...slp.Option) (*slp.Scope, error) {
	opts = append([]slp.Option{slp.WithConfig(cfg)}, opts...)
	return slp.Start(ctx, opts...)
}

// referenceView 注册快照的输出格式
type referenceView struct {
	Registration string            `json:"registration"`
	URL          string            `json:"url"`
	Properties   map[string]string `json:"properties"`
}

func viewOf(ref slp.ServiceReference) referenceView {
	return referenceView{
		Registration: ref.Registration().String(),
		URL:          ref.URL().String(),
		Properties:   ref.Properties(),
	}
}
