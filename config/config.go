// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 支持从 JSON 加载和保存。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Link.Target = "192.168.4.1:8080"
//	cfg.Link.AutoConnect = true
//
//	// 从 JSON 文件加载
//	cfg, err := config.LoadFile("facelink.json")
//
// 跟踪控制器的阈值（±300 水平、±260 垂直、500/750 宽度）与 150ms 命令间隔
// 是协议常量而非配置项，不出现在这里。
package config

import "errors"

// Config 是 facelink 的完整配置结构
type Config struct {
	// Link 链路配置
	Link LinkConfig `json:"link"`

	// Tracking 跟踪控制配置
	Tracking TrackingConfig `json:"tracking"`

	// Voice 语音命令配置
	Voice VoiceConfig `json:"voice"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Link:     DefaultLinkConfig(),
		Tracking: DefaultTrackingConfig(),
		Voice:    DefaultVoiceConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Link.Validate(); err != nil {
		return err
	}
	if err := c.Tracking.Validate(); err != nil {
		return err
	}
	if err := c.Voice.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
