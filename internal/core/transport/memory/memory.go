// Package memory 提供进程内字节流传输
//
// 每个方向使用一个 io.Pipe，因此读写两端可以独立关闭：
// 关闭读端会解除本端挂起的 Read，关闭写端让对端读到 EOF。
//
// 用于测试与本地回环演示。端点需先通过 Register 注册，
// 远端通过 Peer.Accept 拿到对侧流。
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// Scheme 端点前缀
const Scheme = "memory"

var (
	// ErrUnknownEndpoint 端点未注册
	ErrUnknownEndpoint = errors.New("memory: unknown endpoint")
	// ErrBacklogFull 对端未及时 Accept
	ErrBacklogFull = errors.New("memory: accept backlog full")
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("memory: transport closed")
)

const acceptBacklog = 8

// Transport 进程内传输
type Transport struct {
	mu     sync.Mutex
	peers  map[string]*Peer
	closed bool
}

var _ pkgif.Transport = (*Transport)(nil)

// NewTransport 创建进程内传输
func NewTransport() *Transport {
	return &Transport{peers: make(map[string]*Peer)}
}

// Scheme 返回传输名称
func (t *Transport) Scheme() string {
	return Scheme
}

// Register 注册一个可连接的端点
//
// name 为连接成功后上报的设备显示名，为空时使用 endpoint。
func (t *Transport) Register(endpoint, name string) *Peer {
	if name == "" {
		name = endpoint
	}
	p := &Peer{
		endpoint: normalize(endpoint),
		name:     name,
		conns:    make(chan *Stream, acceptBacklog),
	}
	t.mu.Lock()
	t.peers[p.endpoint] = p
	t.mu.Unlock()
	return p
}

// Unregister 移除端点，后续 Open 返回 ErrUnknownEndpoint
func (t *Transport) Unregister(endpoint string) {
	t.mu.Lock()
	delete(t.peers, normalize(endpoint))
	t.mu.Unlock()
}

// Open 打开到 endpoint 的流
//
// 端点处于 Hold 状态时阻塞，直到 Release 或 ctx 取消。
func (t *Transport) Open(ctx context.Context, endpoint string) (pkgif.Stream, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrTransportClosed
	}
	p, ok := t.peers[normalize(endpoint)]
	t.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	local, remote := newStreamPair(p.name, "local")
	select {
	case p.conns <- remote:
	default:
		_ = local.Close()
		return nil, ErrBacklogFull
	}
	return local, nil
}

// Close 关闭传输，之后 Open 返回 ErrTransportClosed
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

func normalize(endpoint string) string {
	return strings.TrimPrefix(endpoint, Scheme+"://")
}

// ============================================================================
//                              Peer - 远端
// ============================================================================

// Peer 已注册的远端端点
type Peer struct {
	endpoint string
	name     string
	conns    chan *Stream

	mu      sync.Mutex
	failErr error
	gate    chan struct{}
}

// Accept 等待下一条入站流
func (p *Peer) Accept(ctx context.Context) (*Stream, error) {
	select {
	case s := <-p.conns:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FailWith 让后续 Open 以 err 失败；nil 恢复正常
func (p *Peer) FailWith(err error) {
	p.mu.Lock()
	p.failErr = err
	p.mu.Unlock()
}

// Hold 让后续 Open 阻塞，直到 Release
func (p *Peer) Hold() {
	p.mu.Lock()
	if p.gate == nil {
		p.gate = make(chan struct{})
	}
	p.mu.Unlock()
}

// Release 放行所有阻塞中的 Open
func (p *Peer) Release() {
	p.mu.Lock()
	if p.gate != nil {
		close(p.gate)
		p.gate = nil
	}
	p.mu.Unlock()
}

func (p *Peer) wait(ctx context.Context) error {
	p.mu.Lock()
	gate, failErr := p.gate, p.failErr
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
		p.mu.Lock()
		failErr = p.failErr
		p.mu.Unlock()
	}
	if failErr != nil {
		return failErr
	}
	return ctx.Err()
}

// ============================================================================
//                              Stream - 管道流
// ============================================================================

// Stream 进程内字节流的一端
type Stream struct {
	r    *io.PipeReader
	w    *io.PipeWriter
	name string
}

var _ pkgif.Stream = (*Stream)(nil)

func newStreamPair(remoteName, localName string) (*Stream, *Stream) {
	ar, bw := io.Pipe() // b -> a
	br, aw := io.Pipe() // a -> b
	a := &Stream{r: ar, w: aw, name: remoteName}
	b := &Stream{r: br, w: bw, name: localName}
	return a, b
}

// Read 从对端读取
func (s *Stream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Write 写往对端
func (s *Stream) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// CloseRead 关闭读端，挂起的 Read 返回 io.ErrClosedPipe
func (s *Stream) CloseRead() error {
	return s.r.Close()
}

// CloseWrite 关闭写端，对端读到 EOF
func (s *Stream) CloseWrite() error {
	return s.w.Close()
}

// Close 关闭两端
func (s *Stream) Close() error {
	_ = s.r.Close()
	return s.w.Close()
}

// RemoteName 返回对端显示名
func (s *Stream) RemoteName() string {
	return s.name
}
