package facelink

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*nodeConfig) error

// nodeConfig 内部选项结构
type nodeConfig struct {
	config *config.Config

	// transport 非空时替换按 scheme 分发的默认传输
	transport pkgif.Transport

	clock    clock.Clock
	registry *prometheus.Registry

	// userFxOptions 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newNodeConfig 创建默认选项
func newNodeConfig() *nodeConfig {
	return &nodeConfig{
		config:   config.NewConfig(),
		clock:    clock.New(),
		registry: prometheus.NewRegistry(),
	}
}

// WithConfig 使用完整配置
//
// 应放在其它选项之前，之后的选项在此基础上覆盖。
func WithConfig(cfg *config.Config) Option {
	return func(c *nodeConfig) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		cp := *cfg
		cp.Link.ControlMarkers = append([]string(nil), cfg.Link.ControlMarkers...)
		c.config = &cp
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(c *nodeConfig) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
}

// WithTarget 设置启动时自动连接的端点
//
// 示例:
//
//	facelink.New(facelink.WithTarget("ws://robot.local/link"))
func WithTarget(target string) Option {
	return func(c *nodeConfig) error {
		if target == "" {
			return errors.New("empty target")
		}
		c.config.Link.Target = target
		c.config.Link.AutoConnect = true
		return nil
	}
}

// WithDefaultTransport 设置端点不带 scheme 时使用的传输（tcp / ws / memory）
func WithDefaultTransport(name string) Option {
	return func(c *nodeConfig) error {
		switch name {
		case config.TransportTCP, config.TransportWebSocket, config.TransportMemory:
			c.config.Link.Transport = name
			return nil
		default:
			return fmt.Errorf("unknown transport %q", name)
		}
	}
}

// WithTransport 使用自定义传输替换默认传输
func WithTransport(t pkgif.Transport) Option {
	return func(c *nodeConfig) error {
		if t == nil {
			return errors.New("transport is nil")
		}
		c.transport = t
		return nil
	}
}

// WithClock 注入时钟（测试使用 clock.NewMock()）
func WithClock(clk clock.Clock) Option {
	return func(c *nodeConfig) error {
		if clk == nil {
			return errors.New("clock is nil")
		}
		c.clock = clk
		return nil
	}
}

// WithRegistry 使用指定的 Prometheus 注册表
//
// 默认每个 Node 使用独立注册表，通过 Node.Registry() 暴露。
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *nodeConfig) error {
		if reg == nil {
			return errors.New("registry is nil")
		}
		c.registry = reg
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(c *nodeConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}
