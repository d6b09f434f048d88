package facelink

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-facelink/internal/core/eventbus"
	"github.com/dep2p/go-facelink/internal/core/link"
	"github.com/dep2p/go-facelink/internal/core/metrics"
	"github.com/dep2p/go-facelink/internal/core/tracking"
	"github.com/dep2p/go-facelink/internal/core/transport"
	"github.com/dep2p/go-facelink/internal/core/voice"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置、时钟、指标注册表
//  2. EventBus
//  3. Transport（或用户提供的传输）
//  4. Link -> Tracking / Voice
//  5. Metrics（条件加载）
func buildFxApp(cfg *nodeConfig, node *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg.config),
		fx.Provide(func() clock.Clock { return cfg.clock }),
		fx.Provide(func() prometheus.Registerer { return cfg.registry }),

		eventbus.Module(),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 传输层
	// ════════════════════════════════════════════════════════════════════════
	if cfg.transport != nil {
		modules = append(modules, fx.Provide(func() pkgif.Transport { return cfg.transport }))
	} else {
		modules = append(modules, transport.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 链路、跟踪、语音
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		link.Module(),
		tracking.Module(),
		voice.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 5. 指标（条件加载）
	// ════════════════════════════════════════════════════════════════════════
	if cfg.config.Metrics.Enabled {
		modules = append(modules, metrics.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 6. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 7. Node 组件注入与 Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		fx.Invoke(injectNodeComponents(node)),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	EventBus   pkgif.EventBus
	Link       *link.Manager
	Tracker    *tracking.Controller
	Trigger    *voice.ListenTrigger
	Dispatcher *voice.Dispatcher
	Transports *transport.Manager `optional:"true"`
}

// injectNodeComponents 把 Fx 构造的组件注入 Node
func injectNodeComponents(node *Node) interface{} {
	return func(p nodeInjectParams) {
		node.eventbus = p.EventBus
		node.link = p.Link
		node.tracker = p.Tracker
		node.trigger = p.Trigger
		node.dispatcher = p.Dispatcher
		node.transports = p.Transports
	}
}
