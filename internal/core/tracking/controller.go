package tracking

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"github.com/dep2p/go-facelink/pkg/types"
)

var logger = log.Logger("core/tracking")

// MinInterval 两条命令之间的最小间隔
const MinInterval = 150 * time.Millisecond

// Controller 跟踪控制器
//
// 并发安全；速率限制状态由一把互斥锁保护，发送在锁外进行。
type Controller struct {
	enabled bool
	clock   clock.Clock
	sender  pkgif.LineSender
	emitter pkgif.Emitter

	mu          sync.Mutex
	lastCommand time.Time
}

var _ pkgif.Tracker = (*Controller)(nil)

// NewController 创建跟踪控制器
//
// sender 为 nil 时只计算不发送；bus 为 nil 时不发布 EvtTrackingCommand。
func NewController(cfg config.TrackingConfig, sender pkgif.LineSender, bus pkgif.EventBus, clk clock.Clock) (*Controller, error) {
	if clk == nil {
		clk = clock.New()
	}
	c := &Controller{
		enabled: cfg.Enabled,
		clock:   clk,
		sender:  sender,
	}
	if bus != nil {
		em, err := bus.Emitter(new(types.EvtTrackingCommand))
		if err != nil {
			return nil, err
		}
		c.emitter = em
	}
	return c, nil
}

// Evaluate 对一帧应用速率限制并计算命令
//
// 距上一条命令不足 MinInterval 时返回 false；只有返回 true 时才更新时间戳。
func (c *Controller) Evaluate(sample types.FaceSample) (types.Command, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if !c.lastCommand.IsZero() && now.Sub(c.lastCommand) < MinInterval {
		return types.Command{}, false
	}
	c.lastCommand = now
	return Decide(sample), true
}

// Process 处理一帧并把命令交给发送者
func (c *Controller) Process(sample types.FaceSample) (types.Command, bool) {
	if !c.enabled {
		return types.Command{}, false
	}

	cmd, ok := c.Evaluate(sample)
	if !ok {
		return types.Command{}, false
	}

	line := cmd.String()
	logger.Debug("跟踪命令", "command", line, "faces", len(sample))
	if c.sender != nil {
		c.sender.SendLine(line)
	}
	if c.emitter != nil {
		if err := c.emitter.Emit(types.EvtTrackingCommand{
			BaseEvent: types.BaseEvent{EventType: types.EventTrackingCommand, Time: c.clock.Now()},
			Command:   cmd,
			Faces:     len(sample),
		}); err != nil {
			logger.Debug("发布跟踪事件失败", "error", err)
		}
	}
	return cmd, true
}

// Close 释放事件发射器
func (c *Controller) Close() error {
	if c.emitter == nil {
		return nil
	}
	return c.emitter.Close()
}
