package config

import "fmt"

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enabled 是否采集链路指标
	// 默认值: true
	Enabled bool `json:"enabled"`

	// Namespace Prometheus 指标命名空间
	// 默认值: "facelink"
	Namespace string `json:"namespace"`

	// ListenAddr /metrics 监听地址，为空时不暴露（由宿主决定）
	ListenAddr string `json:"listen_addr,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "facelink",
	}
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if c.Enabled && c.Namespace == "" {
		return fmt.Errorf("metrics: namespace must not be empty")
	}
	return nil
}
