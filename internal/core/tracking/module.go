package tracking

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Config   *config.Config `optional:"true"`
	Sender   pkgif.LineSender
	EventBus pkgif.EventBus `optional:"true"`
	Clock    clock.Clock    `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Controller *Controller
	Tracker    pkgif.Tracker
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("tracking",
		fx.Provide(ProvideController),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideController 提供跟踪控制器
func ProvideController(p Params) (Result, error) {
	cfg := config.DefaultTrackingConfig()
	if p.Config != nil {
		cfg = p.Config.Tracking
	}
	c, err := NewController(cfg, p.Sender, p.EventBus, p.Clock)
	if err != nil {
		return Result{}, err
	}
	return Result{Controller: c, Tracker: c}, nil
}

func registerLifecycle(lc fx.Lifecycle, c *Controller) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return c.Close()
		},
	})
}
