package metrics

import (
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"github.com/dep2p/go-facelink/pkg/types"
)

var logger = log.Logger("core/metrics")

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// Namespace 指标命名空间
	Namespace string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	}
}

// 订阅的事件类型
var observedEvents = []interface{}{
	new(types.EvtStateChanged),
	new(types.EvtCommandSent),
	new(types.EvtCommandReceived),
	new(types.EvtControlSignal),
	new(types.EvtConnectionFailed),
	new(types.EvtConnectionLost),
	new(types.EvtLinkError),
	new(types.EvtStaleDiscarded),
	new(types.EvtTrackingCommand),
	new(types.EvtListenRequested),
}

// Collector 把链路事件转换为 Prometheus 指标
type Collector struct {
	state            prometheus.Gauge
	transitions      *prometheus.CounterVec
	commandsSent     *prometheus.CounterVec
	linesReceived    prometheus.Counter
	controlSignals   *prometheus.CounterVec
	linkErrors       *prometheus.CounterVec
	staleDiscarded   prometheus.Counter
	trackingCommands *prometheus.CounterVec
	listenRequests   prometheus.Counter
	commandRate      *RateMeter

	mu   sync.Mutex
	subs []pkgif.Subscription
	wg   sync.WaitGroup
}

// NewCollector 创建并注册指标
func NewCollector(cfg Config, reg prometheus.Registerer, clk clock.Clock) (*Collector, error) {
	ns := cfg.Namespace
	c := &Collector{
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: "link", Name: "state",
			Help: "Current link state (0 idle, 1 connecting, 2 connected).",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "link", Name: "transitions_total",
			Help: "Link state transitions by target state.",
		}, []string{"to"}),
		commandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "commands_sent_total",
			Help: "Command lines written to the link by verb.",
		}, []string{"verb"}),
		linesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "lines_received_total",
			Help: "Telemetry lines received from the device.",
		}),
		controlSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "control_signals_total",
			Help: "Control marker lines received from the device.",
		}, []string{"marker"}),
		linkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "link", Name: "errors_total",
			Help: "Link errors by operation (connect, read, write).",
		}, []string{"op"}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "stale_attempts_total",
			Help: "Connect attempts discarded after being superseded.",
		}),
		trackingCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "tracking_commands_total",
			Help: "Commands issued by the tracking controller by verb.",
		}, []string{"verb"}),
		listenRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "listen_requests_total",
			Help: "Voice listen requests raised by control signals.",
		}),
		commandRate: NewRateMeter(clk),
	}

	rate := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: ns, Name: "command_rate",
		Help: "Average commands sent per second over the last minute.",
	}, c.commandRate.Rate)

	for _, col := range []prometheus.Collector{
		c.state, c.transitions, c.commandsSent, c.linesReceived, c.controlSignals,
		c.linkErrors, c.staleDiscarded, c.trackingCommands, c.listenRequests, rate,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return c, nil
}

// Observe 把一个事件计入指标
func (c *Collector) Observe(evt interface{}) {
	switch e := evt.(type) {
	case types.EvtStateChanged:
		c.state.Set(float64(e.New))
		c.transitions.WithLabelValues(e.New.String()).Inc()
	case types.EvtCommandSent:
		c.commandsSent.WithLabelValues(verbLabel(types.VerbOf(e.Line))).Inc()
		c.commandRate.Add(1)
	case types.EvtCommandReceived:
		c.linesReceived.Inc()
	case types.EvtControlSignal:
		c.controlSignals.WithLabelValues(e.Marker).Inc()
	case types.EvtConnectionFailed:
		c.linkErrors.WithLabelValues("connect").Inc()
	case types.EvtConnectionLost:
		c.linkErrors.WithLabelValues("read").Inc()
	case types.EvtLinkError:
		c.linkErrors.WithLabelValues(e.Op).Inc()
	case types.EvtStaleDiscarded:
		c.staleDiscarded.Inc()
	case types.EvtTrackingCommand:
		c.trackingCommands.WithLabelValues(verbLabel(e.Command.Verb)).Inc()
	case types.EvtListenRequested:
		c.listenRequests.Inc()
	}
}

// otherVerb 词表外命令的标签值
const otherVerb = "other"

// verbLabel 词表外的动词（自由文本命令）统一记为 other，限制标签基数
func verbLabel(v types.Verb) string {
	if v.Known() {
		return string(v)
	}
	return otherVerb
}

// Start 订阅事件总线
func (c *Collector) Start(bus pkgif.EventBus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, typ := range observedEvents {
		sub, err := bus.Subscribe(typ, pkgif.BufSize(64), pkgif.SubscriptionName("metrics"))
		if err != nil {
			for _, s := range c.subs {
				_ = s.Close()
			}
			c.subs = nil
			return fmt.Errorf("subscribe %T: %w", typ, err)
		}
		c.subs = append(c.subs, sub)

		c.wg.Add(1)
		go func(sub pkgif.Subscription) {
			defer c.wg.Done()
			for evt := range sub.Out() {
				c.Observe(evt)
			}
		}(sub)
	}
	logger.Debug("指标收集已启动", "events", len(observedEvents))
	return nil
}

// Stop 取消订阅并等待消费 goroutine 退出
func (c *Collector) Stop() error {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	var err error
	for _, s := range subs {
		err = multierr.Append(err, s.Close())
	}
	c.wg.Wait()
	return err
}
