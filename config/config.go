package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"pixels/define"
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Editor EditorConfig `yaml:"editor"`
	Device DeviceConfig `yaml:"device"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	EnableCORS bool   `yaml:"enable_cors"`
	StaticDir  string `yaml:"static_dir"`
}

// EditorConfig 编辑器初始状态与限制
type EditorConfig struct {
	GridSize       int     `yaml:"grid_size"`
	Speed          float64 `yaml:"speed"`
	MaxGridSize    int     `yaml:"max_grid_size"`
	MaxSpeed       float64 `yaml:"max_speed"`
	ThumbnailScale int     `yaml:"thumbnail_scale"`
}

// DeviceConfig LED 点阵设备配置
type DeviceConfig struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default 获取默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       9099,
			LogLevel:   "info",
			EnableCORS: true,
			StaticDir:  "./static",
		},
		Editor: EditorConfig{
			GridSize:       define.DefaultGridSize,
			Speed:          define.DefaultPlaybackRate,
			MaxGridSize:    64,
			MaxSpeed:       10,
			ThumbnailScale: 4,
		},
		Device: DeviceConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load 从文件加载配置，未设置的字段使用默认值
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开配置文件失败：%w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败：%w", err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save 保存配置到文件
func Save(path string, cfg *Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败：%w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("保存配置文件失败：%w", err)
	}
	return nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Editor.GridSize == 0 {
		c.Editor.GridSize = def.Editor.GridSize
	}
	if c.Editor.Speed == 0 {
		c.Editor.Speed = def.Editor.Speed
	}
	if c.Editor.MaxGridSize == 0 {
		c.Editor.MaxGridSize = def.Editor.MaxGridSize
	}
	if c.Editor.MaxSpeed == 0 {
		c.Editor.MaxSpeed = def.Editor.MaxSpeed
	}
	if c.Editor.ThumbnailScale == 0 {
		c.Editor.ThumbnailScale = def.Editor.ThumbnailScale
	}
	if c.Device.Timeout == 0 {
		c.Device.Timeout = def.Device.Timeout
	}
}

// ApplyEnv 环境变量覆盖配置文件与命令行参数
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PIXELS_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PIXELS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PIXELS_PORT 无效：%w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("PIXELS_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("PIXELS_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("PIXELS_DEVICE_ADDRESS"); v != "" {
		c.Device.Address = v
	}
	if v := os.Getenv("PIXELS_DEVICE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PIXELS_DEVICE_TIMEOUT 无效：%w", err)
		}
		c.Device.Timeout = d
	}
	return nil
}

// Validate 检查配置是否自洽
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("端口无效：%d", c.Server.Port)
	}
	if c.Editor.MaxGridSize < 1 || c.Editor.MaxGridSize > define.MaxGridSize {
		return fmt.Errorf("最大网格尺寸必须在 1-%d 之间，当前为 %d", define.MaxGridSize, c.Editor.MaxGridSize)
	}
	if c.Editor.GridSize < 1 || c.Editor.GridSize > c.Editor.MaxGridSize {
		return fmt.Errorf("网格尺寸必须在 1-%d 之间，当前为 %d", c.Editor.MaxGridSize, c.Editor.GridSize)
	}
	if c.Editor.Speed <= 0 || c.Editor.Speed > c.Editor.MaxSpeed {
		return fmt.Errorf("播放速度必须在 (0, %v] 之间，当前为 %v", c.Editor.MaxSpeed, c.Editor.Speed)
	}
	if c.Editor.ThumbnailScale < 1 {
		return fmt.Errorf("缩略图倍率无效：%d", c.Editor.ThumbnailScale)
	}
	if c.Device.Timeout < 0 {
		return fmt.Errorf("设备超时无效：%s", c.Device.Timeout)
	}
	return nil
}

// Addr 监听地址
func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port) }
