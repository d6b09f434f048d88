package voice

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
	EventBus pkgif.EventBus
	Clock    clock.Clock `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Trigger    *ListenTrigger
	Dispatcher *Dispatcher
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("voice",
		fx.Provide(ProvideVoice),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideVoice 提供监听触发器与短语分发器
func ProvideVoice(p Params) (Result, error) {
	cfg := config.DefaultVoiceConfig()
	if p.Config != nil {
		cfg = p.Config.Voice
	}
	trigger, err := NewListenTrigger(cfg, p.EventBus, p.Clock)
	if err != nil {
		return Result{}, err
	}
	dispatcher, err := NewDispatcher(p.Sender, p.EventBus, p.Clock)
	if err != nil {
		_ = trigger.Stop()
		return Result{}, err
	}
	return Result{Trigger: trigger, Dispatcher: dispatcher}, nil
}

type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	Config     *config.Config `optional:"true"`
	Trigger    *ListenTrigger
	Dispatcher *Dispatcher
}

// registerLifecycle 启用时订阅控制信号，停止时释放
func registerLifecycle(input lifecycleInput) {
	enabled := input.Config == nil || input.Config.Voice.Enabled
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !enabled {
				return nil
			}
			return input.Trigger.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			_ = input.Dispatcher.Close()
			return input.Trigger.Stop()
		},
	})
}
