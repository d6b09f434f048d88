package voice

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"github.com/dep2p/go-facelink/pkg/types"
)

var logger = log.Logger("core/voice")

// ListenTrigger 把控制信号转换为带去抖的监听请求
type ListenTrigger struct {
	marker   string
	debounce time.Duration
	clock    clock.Clock
	bus      pkgif.EventBus
	emitter  pkgif.Emitter

	mu         sync.Mutex
	lastListen time.Time

	sub    pkgif.Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

// NewListenTrigger 创建监听触发器
func NewListenTrigger(cfg config.VoiceConfig, bus pkgif.EventBus, clk clock.Clock) (*ListenTrigger, error) {
	if clk == nil {
		clk = clock.New()
	}
	em, err := bus.Emitter(new(types.EvtListenRequested))
	if err != nil {
		return nil, err
	}
	return &ListenTrigger{
		marker:   cfg.Marker,
		debounce: cfg.ListenDebounce.Duration(),
		clock:    clk,
		bus:      bus,
		emitter:  em,
	}, nil
}

// Trigger 处理一次控制标记
//
// 标记不匹配或距上次请求不足去抖间隔时返回 false。
func (t *ListenTrigger) Trigger(marker string) bool {
	if marker != t.marker {
		return false
	}

	t.mu.Lock()
	now := t.clock.Now()
	if !t.lastListen.IsZero() && now.Sub(t.lastListen) < t.debounce {
		t.mu.Unlock()
		return false
	}
	t.lastListen = now
	t.mu.Unlock()

	logger.Debug("请求语音监听", "marker", marker)
	if err := t.emitter.Emit(types.EvtListenRequested{
		BaseEvent: types.BaseEvent{EventType: types.EventListenRequested, Time: now},
		Marker:    marker,
	}); err != nil {
		logger.Debug("发布事件失败", "error", err)
	}
	return true
}

// Start 订阅 EvtControlSignal 并在后台处理
func (t *ListenTrigger) Start(_ context.Context) error {
	sub, err := t.bus.Subscribe(new(types.EvtControlSignal), pkgif.SubscriptionName("voice/listen-trigger"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.sub = sub
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.loop(ctx)
	return nil
}

func (t *ListenTrigger) loop(ctx context.Context) {
	defer close(t.done)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-t.sub.Out():
			if !ok {
				return
			}
			if sig, ok := e.(types.EvtControlSignal); ok {
				t.Trigger(sig.Marker)
			}
		}
	}
}

// Stop 停止后台处理并释放订阅
func (t *ListenTrigger) Stop() error {
	if t.cancel != nil {
		t.cancel()
		<-t.done
		_ = t.sub.Close()
		t.cancel = nil
	}
	return t.emitter.Close()
}
