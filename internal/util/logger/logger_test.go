package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-slp/pkg/lib/log"
)

func TestParseLevelConfig(t *testing.T) {
	cfg := &Config{DefaultLevel: slog.LevelInfo, ComponentLevels: map[string]slog.Level{}}
	ParseLevelConfig(cfg, "core/registry=debug, core/subscription=warn ,error,bogus=nope")

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelForComponent("core/registry"))
	assert.Equal(t, slog.LevelWarn, cfg.LevelForComponent("core/subscription"))
	assert.Equal(t, slog.LevelError, cfg.LevelForComponent("other"))
	_, ok := cfg.ComponentLevels["bogus"]
	assert.False(t, ok)
}

func TestSetup_ComponentLevels(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	buf := &bytes.Buffer{}
	cfg := &Config{
		DefaultLevel:    slog.LevelWarn,
		ComponentLevels: map[string]slog.Level{"noisy": slog.LevelDebug},
	}
	Setup(buf, cfg)

	log.Logger("quiet").Info("hidden message")
	log.Logger("noisy").Debug("visible message", "key", "value")

	out := buf.String()
	require.NotContains(t, out, "hidden message")
	require.Contains(t, out, "visible message")
	require.Contains(t, out, "component=noisy")
	require.Contains(t, out, "key=value")
}

func TestSetup_JSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	buf := &bytes.Buffer{}
	Setup(buf, &Config{DefaultLevel: slog.LevelInfo, Format: FormatJSON})

	log.Logger("json").Info("hello")
	assert.Contains(t, buf.String(), `"component":"json"`)
	assert.Contains(t, buf.String(), `"ts":`)
}
