package facelink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/link"
	"github.com/dep2p/go-facelink/internal/core/tracking"
	"github.com/dep2p/go-facelink/internal/core/transport"
	"github.com/dep2p/go-facelink/internal/core/transport/memory"
	"github.com/dep2p/go-facelink/internal/core/voice"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"github.com/dep2p/go-facelink/pkg/types"
)

var logger = log.Logger("facelink")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点生命周期状态（与链路状态无关）
type NodeState int

const (
	// NodeIdle 已创建，未启动
	NodeIdle NodeState = iota

	// NodeRunning 运行中
	NodeRunning

	// NodeStopped 已停止
	NodeStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case NodeIdle:
		return "idle"
	case NodeRunning:
		return "running"
	case NodeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// startTimeout Fx App 启动超时
	startTimeout = 15 * time.Second

	// stopTimeout Fx App 停止超时
	stopTimeout = 10 * time.Second
)

// Node facelink 节点
//
// 门面（Facade），聚合链路、跟踪、语音与指标组件。
// 除 Start/Stop/Close 外的方法都可以并发调用。
type Node struct {
	config *nodeConfig
	app    *fx.App

	mu      sync.Mutex
	state   NodeState
	started bool
	closed  bool

	// 由 Fx 注入
	eventbus   pkgif.EventBus
	link       *link.Manager
	tracker    *tracking.Controller
	trigger    *voice.ListenTrigger
	dispatcher *voice.Dispatcher
	transports *transport.Manager
}

// New 创建节点
//
// 组件在此时构造完成；Start 之后才会订阅事件、自动连接。
func New(opts ...Option) (*Node, error) {
	cfg := newNodeConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	node := &Node{config: cfg}

	var err error
	node.app, err = buildFxApp(cfg, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点：订阅事件、启动指标收集，并按配置自动连接
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		logger.Error("节点启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}

	n.started = true
	n.state = NodeRunning
	logger.Info("节点已启动", "version", Version, "transport", n.config.config.Link.Transport)
	return nil
}

// Stop 停止节点，关闭链路
//
// 链路管理器关闭后不能重新连接；Stop 之后节点不可再次 Start。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopLocked(ctx)
}

func (n *Node) stopLocked(ctx context.Context) error {
	if !n.started {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	n.started = false
	n.state = NodeStopped
	if err := n.app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("节点已停止")
	return nil
}

// Close 停止并关闭节点
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	if n.started {
		return n.stopLocked(context.Background())
	}
	// 从未启动：Fx 不会执行 OnStop，按停止顺序逐个释放组件
	n.state = NodeStopped
	return n.closeComponents()
}

// closeComponents 关闭未经 Start 的组件，顺序与 OnStop 相同
func (n *Node) closeComponents() error {
	err := multierr.Combine(
		n.dispatcher.Close(),
		n.trigger.Stop(),
		n.tracker.Close(),
		n.link.Close(),
	)
	if n.transports != nil {
		err = multierr.Append(err, n.transports.Close())
	}
	return multierr.Append(err, n.eventbus.Close())
}

// NodeState 返回节点生命周期状态
func (n *Node) NodeState() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// ════════════════════════════════════════════════════════════════════════════
//                              链路
// ════════════════════════════════════════════════════════════════════════════

// Connect 先重置再连接 target
func (n *Node) Connect(target string) error {
	return n.link.Connect(target)
}

// Reset 断开连接并取消进行中的连接尝试
func (n *Node) Reset() {
	n.link.Reset()
}

// Send 在已连接时写入原始字节
func (n *Node) Send(b []byte) {
	n.link.Send(b)
}

// SendCommand 发送一行命令（自动追加换行符）
func (n *Node) SendCommand(line string) {
	n.link.SendLine(line)
}

// State 返回链路状态
func (n *Node) State() types.ConnectionState {
	return n.link.State()
}

// Info 返回链路快照
func (n *Node) Info() pkgif.LinkInfo {
	return n.link.Info()
}

// StatusText 返回面向用户的链路状态描述
func (n *Node) StatusText() string {
	info := n.link.Info()
	return info.State.StatusText(info.RemoteName)
}

// ════════════════════════════════════════════════════════════════════════════
//                              跟踪与语音
// ════════════════════════════════════════════════════════════════════════════

// Submit 提交一帧人脸检测结果，返回本帧是否发出了命令
func (n *Node) Submit(sample types.FaceSample) (types.Command, bool) {
	return n.tracker.Process(sample)
}

// HandlePhrase 处理宿主识别出的语音短语
func (n *Node) HandlePhrase(phrase string) (types.Command, bool) {
	return n.dispatcher.HandlePhrase(phrase)
}

// RequestListen 手动触发一次监听请求（受去抖限制）
func (n *Node) RequestListen() bool {
	return n.trigger.Trigger(n.config.config.Voice.Marker)
}

// ════════════════════════════════════════════════════════════════════════════
//                              事件与诊断
// ════════════════════════════════════════════════════════════════════════════

// Subscribe 订阅事件，eventType 为事件类型指针，例如 new(types.EvtStateChanged)
func (n *Node) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	return n.eventbus.Subscribe(eventType, opts...)
}

// EventBus 返回事件总线
func (n *Node) EventBus() pkgif.EventBus {
	return n.eventbus
}

// Registry 返回指标注册表
func (n *Node) Registry() *prometheus.Registry {
	return n.config.registry
}

// Config 返回生效的配置
func (n *Node) Config() config.Config {
	return *n.config.config
}

// Memory 返回进程内传输，使用自定义传输时为 nil
func (n *Node) Memory() *memory.Transport {
	if n.transports == nil {
		return nil
	}
	return n.transports.Memory()
}
