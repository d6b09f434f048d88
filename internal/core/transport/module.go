package transport

import (
	"context"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"go.uber.org/fx"
)

// Output Fx 输出
type Output struct {
	fx.Out

	Manager   *Manager
	Transport pkgif.Transport
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(
			ProvideConfig,
			ProvideManager,
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideConfig 从统一配置提供传输配置
func ProvideConfig(cfg *config.Config) Config {
	return ConfigFromUnified(cfg)
}

// ProvideManager 提供 Manager，并以 interfaces.Transport 暴露
func ProvideManager(cfg Config) Output {
	m := NewManager(cfg)
	return Output{Manager: m, Transport: m}
}

// registerLifecycle 停止时关闭所有传输
func registerLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return m.Close()
		},
	})
}
