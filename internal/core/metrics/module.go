package metrics

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
	Clock      clock.Clock           `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(NewCollectorFromParams),
		fx.Invoke(registerLifecycle),
	)
}

// NewCollectorFromParams 从参数创建 Collector
//
// 指标未启用时返回 nil；未提供 Registerer 时使用 prometheus.DefaultRegisterer。
func NewCollectorFromParams(p Params) (*Collector, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return nil, nil
	}
	reg := p.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return NewCollector(cfg, reg, p.Clock)
}

type lifecycleInput struct {
	fx.In

	LC        fx.Lifecycle
	Collector *Collector
	EventBus  pkgif.EventBus
}

func registerLifecycle(input lifecycleInput) {
	if input.Collector == nil {
		return
	}
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return input.Collector.Start(input.EventBus)
		},
		OnStop: func(_ context.Context) error {
			return input.Collector.Stop()
		},
	})
}
