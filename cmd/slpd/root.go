package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dep2p/go-slp/config"
	"github.com/dep2p/go-slp/internal/util/logger"
	"github.com/dep2p/go-slp/pkg/lib/log"
)

var cmdLogger = log.Logger("slp/cmd")

var (
	cfgFile string
	preset  string
	cfg     = config.NewConfig()
)

var rootCmd = &cobra.Command{
	Use:   "slpd",
	Short: "进程内服务发现作用域工具",
	Long: `slpd 加载服务注册并在进程内执行查询与订阅。

配置按以下顺序合并：内置默认值、--config 指定的文件（YAML/JSON/TOML）、
SLP_ 前缀的环境变量（例如 SLP_NOTIFICATION_WORKERS=4）、命令行参数。`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "预设配置 (default/inline/throughput)")
	rootCmd.PersistentFlags().String("log-level", "", "默认日志级别 (debug/info/warn/error)")
	rootCmd.PersistentFlags().Bool("case-sensitive", false, "过滤器值比较区分大小写")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("filter.case_sensitive", rootCmd.PersistentFlags().Lookup("case-sensitive"))
}

// initConfig 合并配置并安装日志
func initConfig(_ *cobra.Command, _ []string) error {
	setDefaults(config.NewConfig())

	viper.SetEnvPrefix("SLP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// SLP_LOG_LEVEL 由日志包按组件解析
	_ = viper.BindEnv("log.level", "SLP_DEFAULT_LOG_LEVEL")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := config.ApplyPreset(cfg, preset); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.Log)
	if used := viper.ConfigFileUsed(); used != "" {
		cmdLogger.Debug("已加载配置文件", "path", used)
	}
	return nil
}

// setDefaults 把默认配置登记为 viper 默认值，使环境变量可以覆盖每个字段
func setDefaults(d *config.Config) {
	viper.SetDefault("notification.inline", d.Notification.Inline)
	viper.SetDefault("notification.workers", d.Notification.Workers)
	viper.SetDefault("notification.queue_size", d.Notification.QueueSize)
	viper.SetDefault("store.backend", d.Store.Backend)
	viper.SetDefault("store.shards", d.Store.Shards)
	viper.SetDefault("store.id_generator", d.Store.IDGenerator)
	viper.SetDefault("filter.case_sensitive", d.Filter.CaseSensitive)
	viper.SetDefault("filter.cache_size", d.Filter.CacheSize)
	viper.SetDefault("metrics.enabled", d.Metrics.Enabled)
	viper.SetDefault("metrics.namespace", d.Metrics.Namespace)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("log.fx_events", d.Log.FxEvents)
}

// setupLogging 安装进程日志
//
// SLP_LOG_LEVEL 中的组件级别优先于配置中的默认级别。
func setupLogging(lc config.LogConfig) {
	lcfg := logger.ConfigFromEnv()
	if os.Getenv("SLP_LOG_LEVEL") == "" {
		if level, ok := logger.ParseLevel(lc.Level); ok {
			lcfg.DefaultLevel = level
		}
	}
	if lc.Format == "json" {
		lcfg.Format = logger.FormatJSON
	}
	logger.Setup(os.Stderr, lcfg)
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}
