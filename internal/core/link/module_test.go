package link

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/eventbus"
	"github.com/dep2p/go-facelink/internal/core/transport/memory"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/types"
	"github.com/dep2p/go-facelink/tests/testutil"
)

func TestModule_AutoConnect(t *testing.T) {
	mem := memory.NewTransport()
	mem.Register("robot", "Robot")

	cfg := config.NewConfig()
	cfg.Link.Target = "memory://robot"
	cfg.Link.AutoConnect = true

	var lm pkgif.LinkManager
	var sender pkgif.LineSender
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(
			func() pkgif.Transport { return mem },
			func() clock.Clock { return clock.NewMock() },
		),
		eventbus.Module(),
		Module(),
		fx.Populate(&lm, &sender),
	)
	app.RequireStart()

	testutil.Eventually(t, 2*time.Second, func() bool {
		return lm.State() == types.StateConnected
	}, "启动后应自动连接")
	assert.Same(t, lm.(*Manager), sender.(*Manager))

	app.RequireStop()
	assert.Equal(t, types.StateIdle, lm.State())
	assert.ErrorIs(t, lm.Connect("memory://robot"), ErrManagerClosed)
}

func TestModule_NoAutoConnect(t *testing.T) {
	var m *Manager
	app := fxtest.New(t,
		fx.Provide(func() pkgif.Transport { return memory.NewTransport() }),
		eventbus.Module(),
		Module(),
		fx.Populate(&m),
	)
	app.RequireStart()
	require.NotNil(t, m)
	assert.Equal(t, types.StateIdle, m.State())
	assert.Equal(t, []string{"PROXIMITY"}, m.config.ControlMarkers)
	app.RequireStop()
}
