package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pixels/config"
)

// flags 命令行参数，只有显式设置的参数才会覆盖配置文件
type flags struct {
	configFile    string
	host          string
	port          int
	logLevel      string
	staticDir     string
	deviceAddress string
	deviceTimeout time.Duration
	gridSize      int
	speed         float64
}

// NewRootCommand 创建根命令，未指定子命令时启动编辑器服务
func NewRootCommand() *cobra.Command { return newRootCommand(&flags{}) }

func newRootCommand(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:           "pixels",
		Short:         "像素动画编辑器与 LED 点阵推送服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}
	root.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "配置文件路径 (yaml)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "日志级别 (debug, info, warn, error)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 Web 编辑器服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}
	for _, c := range []*cobra.Command{root, serveCmd} {
		c.Flags().StringVar(&f.host, "host", "0.0.0.0", "监听地址")
		c.Flags().IntVarP(&f.port, "port", "p", 9099, "Web 服务的端口")
		c.Flags().StringVar(&f.staticDir, "static", "./static", "前端静态文件目录")
		c.Flags().StringVar(&f.deviceAddress, "device", "", "启动时连接的 LED 设备地址")
		c.Flags().DurationVar(&f.deviceTimeout, "device-timeout", 5*time.Second, "设备请求超时")
		c.Flags().IntVar(&f.gridSize, "grid-size", 8, "初始网格尺寸")
		c.Flags().Float64Var(&f.speed, "speed", 5, "初始播放速度 (fps)")
	}

	root.AddCommand(serveCmd, newPreviewCommand(f), newPresetsCommand(), newConfigCommand(f))
	return root
}

// Execute 执行根命令
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("❌ 执行失败")
		os.Exit(1)
	}
}

// loadConfig 默认值 -> 配置文件 -> 命令行参数 -> 环境变量
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("host") {
		cfg.Server.Host = f.host
	}
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("log-level") {
		cfg.Server.LogLevel = f.logLevel
	}
	if changed("static") {
		cfg.Server.StaticDir = f.staticDir
	}
	if changed("device") {
		cfg.Device.Address = f.deviceAddress
	}
	if changed("device-timeout") {
		cfg.Device.Timeout = f.deviceTimeout
	}
	if changed("grid-size") {
		cfg.Editor.GridSize = f.gridSize
	}
	if changed("speed") {
		cfg.Editor.Speed = f.speed
	}

	// 环境变量覆盖命令行参数
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger 初始化全局 zerolog
func setupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("无效的日志级别 %q：%w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}
