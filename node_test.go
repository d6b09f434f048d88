package facelink

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/eventbus"
	"github.com/dep2p/go-facelink/internal/core/linecodec"
	"github.com/dep2p/go-facelink/internal/core/link"
	"github.com/dep2p/go-facelink/internal/core/tracking"
	"github.com/dep2p/go-facelink/internal/core/transport/memory"
	"github.com/dep2p/go-facelink/pkg/types"
	"github.com/dep2p/go-facelink/tests/testutil"
)

// collectLines 在后台逐行读取远端收到的命令
func collectLines(r io.Reader) <-chan string {
	out := make(chan string, 32)
	go func() {
		defer close(out)
		lr := linecodec.NewReader(r)
		for {
			line, err := lr.ReadLine()
			if err != nil {
				return
			}
			out <- line
		}
	}()
	return out
}

func nextLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case l, ok := <-lines:
		require.True(t, ok, "远端流已关闭")
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("等待命令超时")
		return ""
	}
}

func TestNode_EndToEnd(t *testing.T) {
	clk := clock.NewMock()
	node, err := New(
		WithDefaultTransport(config.TransportMemory),
		WithClock(clk),
		WithTarget("robot"),
	)
	require.NoError(t, err)
	defer node.Close()

	peer := node.Memory().Register("robot", "Robot One")

	listens, err := node.Subscribe(new(types.EvtListenRequested))
	require.NoError(t, err)
	defer listens.Close()

	require.NoError(t, node.Start(context.Background()))
	assert.Equal(t, NodeRunning, node.NodeState())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	remote, err := peer.Accept(ctx)
	require.NoError(t, err)
	defer remote.Close()
	lines := collectLines(remote)

	testutil.Eventually(t, 2*time.Second, func() bool {
		return node.State() == types.StateConnected
	}, "启动后应自动连接")
	assert.Equal(t, "Robot One", node.StatusText())

	t.Run("Tracking", func(t *testing.T) {
		cmd, ok := node.Submit(types.FaceSample{{Left: 0, Top: -100, Right: 0, Bottom: 900}})
		require.True(t, ok)
		assert.Equal(t, "left,-400", cmd.String())
		assert.Equal(t, "left,-400", nextLine(t, lines))

		// 速率限制
		_, ok = node.Submit(nil)
		assert.False(t, ok)

		clk.Add(tracking.MinInterval)
		_, ok = node.Submit(nil)
		require.True(t, ok)
		assert.Equal(t, "search", nextLine(t, lines))
	})

	t.Run("Voice", func(t *testing.T) {
		_, ok := node.HandlePhrase("turn the light on")
		require.True(t, ok)
		assert.Equal(t, "light,", nextLine(t, lines))

		_, err := remote.Write([]byte("PROXIMITY,30\n"))
		require.NoError(t, err)
		evt := testutil.ExpectEvent[types.EvtListenRequested](t, listens.Out(), 2*time.Second)
		assert.Equal(t, "PROXIMITY", evt.Marker)

		// 去抖窗口内手动请求被拒绝
		assert.False(t, node.RequestListen())
	})

	t.Run("RawCommand", func(t *testing.T) {
		node.SendCommand("foobar")
		assert.Equal(t, "foobar", nextLine(t, lines))
	})

	t.Run("Metrics", func(t *testing.T) {
		testutil.Eventually(t, 2*time.Second, func() bool {
			n, err := promtestutil.GatherAndCount(node.Registry(), "facelink_commands_sent_total")
			return err == nil && n >= 3
		}, "应该按动词统计发出的命令")
	})

	require.NoError(t, node.Close())
	assert.Equal(t, types.StateIdle, node.State())
	assert.Equal(t, NodeStopped, node.NodeState())
}

func TestNode_Lifecycle(t *testing.T) {
	node, err := New(WithDefaultTransport(config.TransportMemory))
	require.NoError(t, err)
	assert.Equal(t, NodeIdle, node.NodeState())

	require.NoError(t, node.Start(context.Background()))
	assert.ErrorIs(t, node.Start(context.Background()), ErrAlreadyStarted)

	// 未自动连接
	assert.Equal(t, types.StateIdle, node.State())
	assert.Equal(t, "Not connected.", node.StatusText())

	require.NoError(t, node.Close())
	require.NoError(t, node.Close())
	assert.ErrorIs(t, node.Start(context.Background()), ErrNodeClosed)
	assert.ErrorIs(t, node.Connect("memory://robot"), link.ErrManagerClosed)
}

func TestNode_CloseWithoutStart(t *testing.T) {
	node, err := New()
	require.NoError(t, err)
	assert.NotEmpty(t, node.EventBus().GetAllEventTypes())

	require.NoError(t, node.Close())
	assert.ErrorIs(t, node.Connect("127.0.0.1:1"), link.ErrManagerClosed)

	// 所有组件的发射器都已注销
	assert.Empty(t, node.EventBus().GetAllEventTypes())

	// 总线与传输同样被释放
	_, err = node.Subscribe(new(types.EvtStateChanged))
	assert.ErrorIs(t, err, eventbus.ErrClosed)
	_, err = node.Memory().Open(context.Background(), "memory://robot")
	assert.ErrorIs(t, err, memory.ErrTransportClosed)

	require.NoError(t, node.Close())
	assert.Equal(t, NodeStopped, node.NodeState())
}

func TestNode_Options(t *testing.T) {
	_, err := New(WithTarget(""))
	assert.Error(t, err)

	_, err = New(WithDefaultTransport("rfcomm"))
	assert.Error(t, err)

	_, err = New(WithConfig(nil))
	assert.Error(t, err)

	bad := config.NewConfig()
	bad.Voice.Marker = ""
	_, err = New(WithConfig(bad))
	assert.Error(t, err)

	cfg := config.NewConfig()
	cfg.Link.ControlMarkers = []string{"PROXIMITY", "BUTTON"}
	node, err := New(WithConfig(cfg), WithTarget("10.0.0.2:9000"))
	require.NoError(t, err)
	defer node.Close()
	assert.True(t, node.Config().Link.AutoConnect)
	assert.False(t, cfg.Link.AutoConnect, "WithConfig 不修改调用方的配置")
}

func TestNode_CustomTransport(t *testing.T) {
	mem := memory.NewTransport()
	peer := mem.Register("robot", "Robot")

	node, err := New(WithTransport(mem), WithTarget("robot"))
	require.NoError(t, err)
	defer node.Close()
	assert.Nil(t, node.Memory())

	states, err := node.Subscribe(new(types.EvtStateChanged))
	require.NoError(t, err)
	defer states.Close()

	require.NoError(t, node.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	remote, err := peer.Accept(ctx)
	require.NoError(t, err)

	first := testutil.ExpectEvent[types.EvtStateChanged](t, states.Out(), 2*time.Second)
	assert.Equal(t, types.StateConnecting, first.New)
	second := testutil.ExpectEvent[types.EvtStateChanged](t, states.Out(), 2*time.Second)
	assert.Equal(t, types.StateConnected, second.New)

	// 对端断开：链路回到 Idle
	require.NoError(t, remote.Close())
	third := testutil.ExpectEvent[types.EvtStateChanged](t, states.Out(), 2*time.Second)
	assert.Equal(t, types.StateIdle, third.New)
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
}
