// Package websocket 提供基于 WebSocket 的字节流传输
//
// 端点标识为 ws:// 或 wss:// URL。每次 Write 发送一个文本帧，
// Read 把连续的帧拼接成字节流，行边界由上层 linecodec 负责。
//
// WebSocket 没有真正的半关闭：CloseWrite 解除挂起的写并发送关闭帧，
// CloseRead 把读截止时间设为过去以解除挂起的 Read。
package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
)

var logger = log.Logger("core/transport/websocket")

// Scheme 传输名称
const Scheme = "ws"

// closeFrameTimeout 发送关闭帧的最长等待
const closeFrameTimeout = 250 * time.Millisecond

// ErrInvalidEndpoint 无效端点
var ErrInvalidEndpoint = errors.New("invalid websocket endpoint")

// Config WebSocket 传输配置
type Config struct {
	// HandshakeTimeout 握手超时，0 表示不限
	HandshakeTimeout time.Duration
	// WriteTimeout 单次写超时，0 表示不限
	WriteTimeout time.Duration
	// Header 握手附加请求头
	Header http.Header
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// Transport WebSocket 传输
type Transport struct {
	config Config
	dialer *websocket.Dialer
}

var _ pkgif.Transport = (*Transport)(nil)

// NewTransport 创建 WebSocket 传输
func NewTransport(config Config) *Transport {
	return &Transport{
		config: config,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: config.HandshakeTimeout,
		},
	}
}

// Scheme 返回传输名称
func (t *Transport) Scheme() string {
	return Scheme
}

// IsEndpoint 端点是否为 WebSocket URL
func IsEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://")
}

// Open 建立 WebSocket 连接
func (t *Transport) Open(ctx context.Context, endpoint string) (pkgif.Stream, error) {
	if !IsEndpoint(endpoint) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	conn, resp, err := t.dialer.DialContext(ctx, endpoint, t.config.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	logger.Debug("WebSocket 已连接", "endpoint", endpoint)

	return NewStream(conn, endpoint, t.config.WriteTimeout), nil
}

// ============================================================================
//                              Stream
// ============================================================================

// Stream 以 WebSocket 连接承载的字节流
type Stream struct {
	conn         *websocket.Conn
	name         string
	writeTimeout time.Duration

	rmu sync.Mutex
	cur io.Reader

	wmu       sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

var _ pkgif.Stream = (*Stream)(nil)

// NewStream 包装已建立的 WebSocket 连接
func NewStream(conn *websocket.Conn, name string, writeTimeout time.Duration) *Stream {
	return &Stream{conn: conn, name: name, writeTimeout: writeTimeout}
}

// Read 读取下一段字节，跨帧连续
func (s *Stream) Read(p []byte) (int, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()

	for {
		if s.cur == nil {
			mt, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
					websocket.CloseNoStatusReceived) {
					return 0, io.EOF
				}
				return 0, err
			}
			if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
				continue
			}
			s.cur = r
		}

		n, err := s.cur.Read(p)
		if err == io.EOF {
			s.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write 以一个文本帧发送 p
func (s *Stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// CloseRead 解除挂起的 Read
func (s *Stream) CloseRead() error {
	return s.conn.SetReadDeadline(time.Now())
}

// CloseWrite 解除挂起的 Write 并发送关闭帧
//
// 不获取 wmu：先把底层连接的写截止时间设为过去，使挂起的 Write 立即失败，
// 再以 closeFrameTimeout 为上限发送关闭帧。
func (s *Stream) CloseWrite() error {
	_ = s.conn.NetConn().SetWriteDeadline(time.Now())

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeFrameTimeout))
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}

// Close 关闭底层连接，可重复调用
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// RemoteName 返回端点 URL
func (s *Stream) RemoteName() string {
	return s.name
}
