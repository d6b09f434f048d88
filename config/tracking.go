package config

// TrackingConfig 跟踪控制配置
type TrackingConfig struct {
	// Enabled 是否启用跟踪控制器
	// 默认值: true
	Enabled bool `json:"enabled"`
}

// DefaultTrackingConfig 返回默认跟踪配置
func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{Enabled: true}
}

// Validate 验证跟踪配置
func (c *TrackingConfig) Validate() error {
	return nil
}
