package tcp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
)

var logger = log.Logger("core/transport/tcp")

// Scheme 端点前缀
const Scheme = "tcp"

// Config TCP 传输配置
type Config struct {
	// DialTimeout 拨号超时，0 表示不限（仅依赖 ctx 取消）
	DialTimeout time.Duration
	// KeepAlive TCP keepalive 周期，0 使用系统默认
	KeepAlive time.Duration
	// NoDelay 禁用 Nagle，命令行很短，默认开启
	NoDelay bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		KeepAlive: 15 * time.Second,
		NoDelay:   true,
	}
}

// ============================================================================
//                              Transport 实现
// ============================================================================

// Transport TCP 传输层实现
type Transport struct {
	config Config

	mu    sync.Mutex
	conns map[*Conn]struct{}

	closed atomic.Bool
}

var _ pkgif.Transport = (*Transport)(nil)

// NewTransport 创建 TCP 传输层
func NewTransport(config Config) *Transport {
	return &Transport{
		config: config,
		conns:  make(map[*Conn]struct{}),
	}
}

// Scheme 返回传输名称
func (t *Transport) Scheme() string {
	return Scheme
}

// Open 拨号到 endpoint
func (t *Transport) Open(ctx context.Context, endpoint string) (pkgif.Stream, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}

	addr, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   t.config.DialTimeout,
		KeepAlive: t.config.KeepAlive,
	}

	logger.Debug("拨号", "addr", addr)
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	tcpConn, ok := raw.(*net.TCPConn)
	if !ok {
		_ = raw.Close()
		return nil, fmt.Errorf("dial %s: not a TCP connection", addr)
	}
	if t.config.NoDelay {
		_ = tcpConn.SetNoDelay(true)
	}

	c := newConn(tcpConn, endpoint, t.untrack)

	t.mu.Lock()
	if t.closed.Load() {
		t.mu.Unlock()
		_ = c.Close()
		return nil, ErrTransportClosed
	}
	t.conns[c] = struct{}{}
	t.mu.Unlock()

	return c, nil
}

// Close 关闭传输层及其打开的所有连接
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	t.mu.Lock()
	conns := make([]*Conn, 0, len(t.conns))
	for c := range t.conns {
		conns = append(conns, c)
	}
	t.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	return nil
}

// IsClosed 检查传输层是否已关闭
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

func (t *Transport) untrack(c *Conn) {
	t.mu.Lock()
	delete(t.conns, c)
	t.mu.Unlock()
}

// ParseEndpoint 将端点标识解析为 "host:port"
func ParseEndpoint(endpoint string) (string, error) {
	addr := strings.TrimPrefix(strings.TrimSpace(endpoint), Scheme+"://")
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	return net.JoinHostPort(host, port), nil
}
