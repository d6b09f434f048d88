package link

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/linecodec"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"github.com/dep2p/go-facelink/pkg/types"
)

var logger = log.Logger("core/link")

// Config 链路管理器配置
type Config struct {
	// ControlMarkers 作为控制信号处理的首字段
	ControlMarkers []string
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{ControlMarkers: []string{linecodec.DefaultControlMarker}}
}

// ConfigFromUnified 从统一配置创建链路配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}
	return Config{ControlMarkers: append([]string(nil), cfg.Link.ControlMarkers...)}
}

// ============================================================================
//                              Manager 实现
// ============================================================================

// Manager 链路管理器
type Manager struct {
	config    Config
	transport pkgif.Transport
	clock     clock.Clock
	events    *emitters

	// state 只在持有 mu 时写入，可无锁读取
	state atomic.Int32

	mu      sync.Mutex
	attempt *attempt
	conn    *connection
	closed  bool
}

var _ pkgif.LinkManager = (*Manager)(nil)

// NewManager 创建链路管理器
//
// clk 为 nil 时使用系统时钟。
func NewManager(cfg Config, transport pkgif.Transport, bus pkgif.EventBus, clk clock.Clock) (*Manager, error) {
	if clk == nil {
		clk = clock.New()
	}
	events, err := newEmitters(bus)
	if err != nil {
		return nil, err
	}
	return &Manager{
		config:    cfg,
		transport: transport,
		clock:     clk,
		events:    events,
	}, nil
}

// ============================================================================
//                              状态机
// ============================================================================

// State 返回当前状态
func (m *Manager) State() types.ConnectionState {
	return types.ConnectionState(m.state.Load())
}

// Info 返回当前链路快照
func (m *Manager) Info() pkgif.LinkInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := pkgif.LinkInfo{State: m.State()}
	switch {
	case m.conn != nil:
		info.Endpoint = m.conn.endpoint
		info.RemoteName = m.conn.name
		info.ConnID = m.conn.id
		info.ConnectedAt = m.conn.createdAt
	case m.attempt != nil:
		info.Endpoint = m.attempt.endpoint
	}
	return info
}

// Connect 先 Reset，再异步连接 target
//
// 返回时状态已是 Connecting；结果通过事件上报。
func (m *Manager) Connect(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrEmptyTarget
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	old := m.resetLocked()

	a, ctx := newAttempt(target)
	m.attempt = a
	m.setStateLocked(types.StateConnecting)
	m.mu.Unlock()

	m.closeConnection(old)

	logger.Debug("开始连接", "endpoint", target, "attempt", log.TruncateID(a.id, 8))
	go m.runAttempt(ctx, a)
	return nil
}

// Reset 取消进行中的尝试并关闭当前连接，回到 Idle
//
// 幂等：Idle 状态下调用不发布任何事件。
func (m *Manager) Reset() {
	m.mu.Lock()
	old := m.resetLocked()
	m.mu.Unlock()

	m.closeConnection(old)
}

// Close 关闭管理器，之后 Connect 返回 ErrManagerClosed
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	old := m.resetLocked()
	m.mu.Unlock()

	m.closeConnection(old)
	return m.events.close()
}

// resetLocked 作废当前尝试、摘下当前连接并迁移到 Idle
//
// 返回被摘下的连接，由调用方在锁外关闭。调用方必须持有 mu。
func (m *Manager) resetLocked() *connection {
	if m.attempt != nil {
		m.attempt.cancel()
		m.attempt = nil
	}
	old := m.conn
	m.conn = nil
	m.setStateLocked(types.StateIdle)
	return old
}

// setStateLocked 迁移状态，状态确有变化时发布 EvtStateChanged
func (m *Manager) setStateLocked(s types.ConnectionState) {
	old := types.ConnectionState(m.state.Swap(int32(s)))
	if old == s {
		return
	}
	logger.Debug("链路状态变化", "from", old, "to", s)
	emit(m.events.stateChanged, types.EvtStateChanged{
		BaseEvent: m.baseEvent(types.EventStateChanged),
		Old:       old,
		New:       s,
	})
}

func (m *Manager) closeConnection(c *connection) {
	if c == nil {
		return
	}
	if err := c.close(); err != nil {
		logger.Debug("关闭连接出错", "conn", log.TruncateID(c.id, 8), "error", err)
	}
}

func (m *Manager) baseEvent(eventType string) types.BaseEvent {
	return types.BaseEvent{EventType: eventType, Time: m.clock.Now()}
}

// ============================================================================
//                              连接尝试
// ============================================================================

// runAttempt 在独立 goroutine 中打开流并提交结果
func (m *Manager) runAttempt(ctx context.Context, a *attempt) {
	stream, err := m.transport.Open(ctx, a.endpoint)

	m.mu.Lock()
	if m.attempt != a {
		// 已被 Reset 或新的 Connect 取代
		emit(m.events.staleDiscarded, types.EvtStaleDiscarded{
			BaseEvent: m.baseEvent(types.EventStaleDiscarded),
			Endpoint:  a.endpoint,
			AttemptID: a.id,
		})
		m.mu.Unlock()

		if stream != nil {
			_ = stream.Close()
		}
		logger.Debug("丢弃过期连接尝试", "endpoint", a.endpoint, "attempt", log.TruncateID(a.id, 8), "error", err)
		return
	}

	if err != nil {
		emit(m.events.connectionFailed, types.EvtConnectionFailed{
			BaseEvent: m.baseEvent(types.EventConnectionFailed),
			Endpoint:  a.endpoint,
			Message:   types.MsgUnableToConnect,
			Err:       err,
		})
		old := m.resetLocked()
		m.mu.Unlock()

		if stream != nil {
			_ = stream.Close()
		}
		m.closeConnection(old)
		logger.Warn("连接失败", "endpoint", a.endpoint, "error", err)
		return
	}

	m.attempt = nil
	a.cancel()
	c := newConnection(a.endpoint, stream, m.clock.Now())
	m.conn = c
	m.setStateLocked(types.StateConnected)
	emit(m.events.deviceConnected, types.EvtDeviceConnected{
		BaseEvent: m.baseEvent(types.EventDeviceConnected),
		Name:      c.name,
		ConnID:    c.id,
	})
	m.mu.Unlock()

	logger.Info("设备已连接", "endpoint", a.endpoint, "name", c.name, "conn", log.TruncateID(c.id, 8))
	go m.readLoop(c)
}

// ============================================================================
//                              发送
// ============================================================================

// Send 在 Connected 状态下写入 b；其它状态静默丢弃
//
// 写失败只发布 EvtLinkError，不迁移状态；只有读失败会触发重置。
// 连接在写入期间被取代时，写失败只记录日志。
func (m *Manager) Send(b []byte) {
	if len(b) == 0 {
		return
	}

	m.mu.Lock()
	c := m.conn
	connected := m.State() == types.StateConnected
	m.mu.Unlock()

	if !connected || c == nil {
		logger.Debug("未连接，丢弃发送", "bytes", len(b))
		return
	}

	if err := c.write(b); err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.conn != c {
			// 连接已被 Reset 或新的 Connect 取代
			logger.Debug("过期连接写入失败", "conn", log.TruncateID(c.id, 8), "error", err)
			return
		}
		logger.Warn("写入失败", "conn", log.TruncateID(c.id, 8), "error", err)
		emit(m.events.linkError, types.EvtLinkError{
			BaseEvent: m.baseEvent(types.EventLinkError),
			Op:        "write",
			ConnID:    c.id,
			Message:   err.Error(),
			Err:       err,
		})
		return
	}

	emit(m.events.commandSent, types.EvtCommandSent{
		BaseEvent: m.baseEvent(types.EventCommandSent),
		Line:      strings.TrimRight(string(b), "\r\n"),
		ConnID:    c.id,
	})
}

// SendLine 编码一行命令并发送
func (m *Manager) SendLine(line string) {
	m.Send(linecodec.Encode(line))
}

// ============================================================================
//                              接收
// ============================================================================

// readLoop 每个连接一个，直到流出错或关闭
func (m *Manager) readLoop(c *connection) {
	r := linecodec.NewReader(c.stream)
	for {
		line, err := r.ReadLine()
		if err != nil {
			m.handleReadError(c, err)
			return
		}

		m.mu.Lock()
		if m.conn != c {
			m.mu.Unlock()
			return
		}
		m.dispatchLocked(c, line)
		m.mu.Unlock()
	}
}

// dispatchLocked 按首字段区分控制信号与普通遥测行
func (m *Manager) dispatchLocked(c *connection, line string) {
	cl := linecodec.Classify(line, m.config.ControlMarkers)
	if cl.Kind == linecodec.KindControl {
		emit(m.events.controlSignal, types.EvtControlSignal{
			BaseEvent: m.baseEvent(types.EventControlSignal),
			Marker:    cl.Marker,
			Args:      cl.Args,
			Line:      cl.Line,
			ConnID:    c.id,
		})
		return
	}
	emit(m.events.commandReceived, types.EvtCommandReceived{
		BaseEvent: m.baseEvent(types.EventCommandReceived),
		Line:      line,
		ConnID:    c.id,
	})
}

// handleReadError 当前连接读失败时上报并重置；过期连接静默退出
func (m *Manager) handleReadError(c *connection, err error) {
	m.mu.Lock()
	if m.conn != c {
		m.mu.Unlock()
		logger.Debug("过期连接读循环退出", "conn", log.TruncateID(c.id, 8), "error", err)
		return
	}

	emit(m.events.connectionLost, types.EvtConnectionLost{
		BaseEvent: m.baseEvent(types.EventConnectionLost),
		Endpoint:  c.endpoint,
		ConnID:    c.id,
		Message:   types.MsgConnectionLost,
		Err:       err,
	})
	old := m.resetLocked()
	m.mu.Unlock()

	m.closeConnection(old)
	logger.Warn("连接丢失", "endpoint", c.endpoint, "error", err)
}
