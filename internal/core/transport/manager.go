package transport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/transport/memory"
	"github.com/dep2p/go-facelink/internal/core/transport/tcp"
	"github.com/dep2p/go-facelink/internal/core/transport/websocket"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"go.uber.org/multierr"
)

var logger = log.Logger("core/transport")

// Config 传输层配置
type Config struct {
	// Default 端点不带 scheme 时使用的传输
	Default string

	// DialTimeout 打开超时，0 表示只依赖 ctx 取消
	DialTimeout time.Duration

	// KeepAlive TCP keepalive
	KeepAlive time.Duration

	// WriteTimeout WebSocket 写超时
	WriteTimeout time.Duration
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		Default:      cfg.Link.Transport,
		DialTimeout:  cfg.Link.DialTimeout.Duration(),
		KeepAlive:    cfg.Link.KeepAlive.Duration(),
		WriteTimeout: cfg.Link.WriteTimeout.Duration(),
	}
}

// Manager 传输管理器
//
// 持有全部传输实例，Open 时按端点 scheme 分发。
type Manager struct {
	config Config

	tcp    *tcp.Transport
	ws     *websocket.Transport
	memory *memory.Transport

	closed atomic.Bool
}

var _ pkgif.Transport = (*Manager)(nil)

// NewManager 创建传输管理器
func NewManager(cfg Config) *Manager {
	tcpCfg := tcp.DefaultConfig()
	tcpCfg.DialTimeout = cfg.DialTimeout
	if cfg.KeepAlive > 0 {
		tcpCfg.KeepAlive = cfg.KeepAlive
	}

	wsCfg := websocket.DefaultConfig()
	if cfg.WriteTimeout > 0 {
		wsCfg.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.DialTimeout > 0 {
		wsCfg.HandshakeTimeout = cfg.DialTimeout
	}

	if cfg.Default == "" {
		cfg.Default = config.TransportTCP
	}

	m := &Manager{
		config: cfg,
		tcp:    tcp.NewTransport(tcpCfg),
		ws:     websocket.NewTransport(wsCfg),
		memory: memory.NewTransport(),
	}
	logger.Debug("传输管理器已创建", "default", cfg.Default)
	return m
}

// Scheme 返回默认传输名称
func (m *Manager) Scheme() string {
	return m.config.Default
}

// Memory 返回进程内传输，用于注册测试或演示端点
func (m *Manager) Memory() *memory.Transport {
	return m.memory
}

// Select 返回处理 endpoint 的传输
func (m *Manager) Select(endpoint string) (pkgif.Transport, error) {
	scheme := m.config.Default
	if i := strings.Index(endpoint, "://"); i > 0 {
		scheme = endpoint[:i]
	}

	switch scheme {
	case tcp.Scheme:
		return m.tcp, nil
	case "ws", "wss":
		return m.ws, nil
	case memory.Scheme:
		return m.memory, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoTransport, endpoint)
	}
}

// Open 打开到 endpoint 的流
func (m *Manager) Open(ctx context.Context, endpoint string) (pkgif.Stream, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}
	t, err := m.Select(endpoint)
	if err != nil {
		return nil, err
	}
	if m.config.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.DialTimeout)
		defer cancel()
	}
	return t.Open(ctx, endpoint)
}

// Close 关闭所有传输
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	return multierr.Combine(m.tcp.Close(), m.memory.Close())
}
