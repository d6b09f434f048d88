package config

import (
	"fmt"
	"time"
)

// 传输名称
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
	TransportMemory    = "memory"
)

// LinkConfig 链路配置
type LinkConfig struct {
	// Transport 端点不带 scheme 时使用的默认传输
	// 默认值: "tcp"
	Transport string `json:"transport"`

	// Target 启动时自动连接的端点
	Target string `json:"target,omitempty"`

	// AutoConnect 启动时是否自动连接 Target
	// 默认值: false
	AutoConnect bool `json:"auto_connect"`

	// DialTimeout 打开流的超时
	// 默认值: 0（不限，只能通过 Reset 取消）
	DialTimeout Duration `json:"dial_timeout"`

	// KeepAlive TCP keepalive 周期
	// 默认值: 15s
	KeepAlive Duration `json:"keep_alive"`

	// WriteTimeout WebSocket 单次写超时
	// 默认值: 5s
	WriteTimeout Duration `json:"write_timeout"`

	// ControlMarkers 作为控制信号处理的首字段
	// 默认值: ["PROXIMITY"]
	ControlMarkers []string `json:"control_markers"`
}

// DefaultLinkConfig 返回默认链路配置
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		Transport:      TransportTCP,
		KeepAlive:      Duration(15 * time.Second),
		WriteTimeout:   Duration(5 * time.Second),
		ControlMarkers: []string{"PROXIMITY"},
	}
}

// Validate 验证链路配置
func (c *LinkConfig) Validate() error {
	switch c.Transport {
	case TransportTCP, TransportWebSocket, TransportMemory:
	default:
		return fmt.Errorf("link: unknown transport %q", c.Transport)
	}
	if c.AutoConnect && c.Target == "" {
		return fmt.Errorf("link: auto_connect requires target")
	}
	if c.DialTimeout < 0 || c.KeepAlive < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("link: durations must be >= 0")
	}
	return nil
}
