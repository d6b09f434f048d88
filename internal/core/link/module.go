package link

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Config    *config.Config `optional:"true"`
	Transport pkgif.Transport
	EventBus  pkgif.EventBus
	Clock     clock.Clock `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Manager     *Manager
	LinkManager pkgif.LinkManager
	LineSender  pkgif.LineSender
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("link",
		fx.Provide(ProvideManager),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideManager 提供链路管理器
func ProvideManager(p Params) (Result, error) {
	m, err := NewManager(ConfigFromUnified(p.Config), p.Transport, p.EventBus, p.Clock)
	if err != nil {
		return Result{}, err
	}
	return Result{Manager: m, LinkManager: m, LineSender: m}, nil
}

type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Config  *config.Config `optional:"true"`
	Manager *Manager
}

// registerLifecycle 启动时按配置自动连接，停止时关闭管理器
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			cfg := input.Config
			if cfg == nil || !cfg.Link.AutoConnect {
				return nil
			}
			logger.Info("自动连接", "target", cfg.Link.Target)
			return input.Manager.Connect(cfg.Link.Target)
		},
		OnStop: func(_ context.Context) error {
			return input.Manager.Close()
		},
	})
}
