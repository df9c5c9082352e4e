package logger

import (
	"io"
	"log/slog"

	"github.com/dep2p/go-slp/pkg/lib/log"
)

// NewHandler 根据配置创建 Handler
//
// 内层 Handler 的级别放到最低，由 componentHandler 负责按组件过滤。
func NewHandler(w io.Writer, cfg *Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// 简化时间字段名
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	var inner slog.Handler
	if cfg.Format == FormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	return newComponentHandler(cfg, inner)
}

// Setup 安装进程级默认 logger
//
// 所有通过 log.Logger(component) 获取的 LazyLogger 会立即使用新配置。
func Setup(w io.Writer, cfg *Config) {
	if cfg == nil {
		cfg = ConfigFromEnv()
	}
	log.SetDefault(slog.New(NewHandler(w, cfg)))
}
