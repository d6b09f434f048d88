package config

import (
	"fmt"
	"time"
)

// VoiceConfig 语音命令配置
//
// 语音识别本身由宿主完成；这里只配置控制信号到"开始监听"请求的去抖。
type VoiceConfig struct {
	// Enabled 是否启用语音触发
	// 默认值: true
	Enabled bool `json:"enabled"`

	// Marker 触发监听的控制标记
	// 默认值: "PROXIMITY"
	Marker string `json:"marker"`

	// ListenDebounce 两次监听请求的最小间隔
	// 默认值: 5s
	ListenDebounce Duration `json:"listen_debounce"`
}

// DefaultVoiceConfig 返回默认语音配置
func DefaultVoiceConfig() VoiceConfig {
	return VoiceConfig{
		Enabled:        true,
		Marker:         "PROXIMITY",
		ListenDebounce: Duration(5 * time.Second),
	}
}

// Validate 验证语音配置
func (c *VoiceConfig) Validate() error {
	if c.Enabled && c.Marker == "" {
		return fmt.Errorf("voice: marker must not be empty")
	}
	if c.ListenDebounce < 0 {
		return fmt.Errorf("voice: listen_debounce must be >= 0")
	}
	return nil
}
