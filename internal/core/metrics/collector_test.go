package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/eventbus"
	"github.com/dep2p/go-facelink/pkg/types"
	waitutil "github.com/dep2p/go-facelink/tests/testutil"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewCollector(DefaultConfig(), reg, clock.NewMock())
	require.NoError(t, err)
	return c, reg
}

func TestCollector_Observe(t *testing.T) {
	c, _ := newTestCollector(t)

	c.Observe(types.EvtStateChanged{Old: types.StateIdle, New: types.StateConnecting})
	c.Observe(types.EvtStateChanged{Old: types.StateConnecting, New: types.StateConnected})
	c.Observe(types.EvtCommandSent{Line: "left,-400"})
	c.Observe(types.EvtCommandSent{Line: "left,-350"})
	c.Observe(types.EvtCommandSent{Line: "search"})
	c.Observe(types.EvtCommandReceived{Line: "dist,42"})
	c.Observe(types.EvtControlSignal{Marker: "PROXIMITY"})
	c.Observe(types.EvtConnectionFailed{Err: errors.New("x")})
	c.Observe(types.EvtLinkError{Op: "write"})
	c.Observe(types.EvtStaleDiscarded{})
	c.Observe(types.EvtTrackingCommand{Command: types.NewCommand(types.VerbOkay, 600, 0)})
	c.Observe(types.EvtListenRequested{Marker: "PROXIMITY"})
	c.Observe("ignored")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.state))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("connected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.commandsSent.WithLabelValues("left")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commandsSent.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.linesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.controlSignals.WithLabelValues("PROXIMITY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.linkErrors.WithLabelValues("connect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.linkErrors.WithLabelValues("write")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.staleDiscarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.trackingCommands.WithLabelValues("okay")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.listenRequests))
	assert.InDelta(t, 3.0/60, c.commandRate.Rate(), 1e-9)
}

func TestCollector_FreeTextVerbsShareLabel(t *testing.T) {
	c, _ := newTestCollector(t)

	c.Observe(types.EvtCommandSent{Line: "foobar"})
	c.Observe(types.EvtCommandSent{Line: "hello world"})
	c.Observe(types.EvtCommandSent{Line: "x,1,2"})
	c.Observe(types.EvtCommandSent{Line: "light,"})

	assert.Equal(t, 3.0, testutil.ToFloat64(c.commandsSent.WithLabelValues("other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commandsSent.WithLabelValues("light")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.commandsSent))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(DefaultConfig(), reg, nil)
	require.NoError(t, err)
	_, err = NewCollector(DefaultConfig(), reg, nil)
	assert.Error(t, err)
}

func TestCollector_FromEventBus(t *testing.T) {
	c, _ := newTestCollector(t)
	bus := eventbus.NewBus()
	defer bus.Close()

	require.NoError(t, c.Start(bus))

	em, err := bus.Emitter(new(types.EvtStaleDiscarded))
	require.NoError(t, err)
	defer em.Close()
	require.NoError(t, em.Emit(types.EvtStaleDiscarded{Endpoint: "a"}))

	waitutil.Eventually(t, time.Second, func() bool {
		return testutil.ToFloat64(c.staleDiscarded) == 1
	}, "应该计入过期尝试")

	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
}

func TestModule(t *testing.T) {
	reg := prometheus.NewRegistry()
	var c *Collector
	app := fxtest.New(t,
		fx.Supply(config.NewConfig()),
		fx.Provide(func() prometheus.Registerer { return reg }),
		eventbus.Module(),
		Module(),
		fx.Populate(&c),
	)
	app.RequireStart()
	require.NotNil(t, c)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "facelink_link_state")
	assert.Contains(t, names, "facelink_command_rate")

	app.RequireStop()
}

func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var c *Collector
	app := fxtest.New(t,
		fx.Supply(cfg),
		eventbus.Module(),
		Module(),
		fx.Populate(&c),
	)
	app.RequireStart()
	assert.Nil(t, c)
	app.RequireStop()
}
