package transport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dep2p/go-facelink/config"
	"github.com/dep2p/go-facelink/internal/core/transport/memory"
	"github.com/dep2p/go-facelink/internal/core/transport/tcp"
	"github.com/dep2p/go-facelink/internal/core/transport/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestManager_Select(t *testing.T) {
	m := NewManager(NewConfig())
	defer m.Close()

	tests := []struct {
		endpoint string
		want     string
	}{
		{"127.0.0.1:9000", tcp.Scheme},
		{"tcp://127.0.0.1:9000", tcp.Scheme},
		{"ws://robot.local/link", websocket.Scheme},
		{"wss://robot.local/link", websocket.Scheme},
		{"memory://robot", memory.Scheme},
	}
	for _, tt := range tests {
		tr, err := m.Select(tt.endpoint)
		require.NoError(t, err, tt.endpoint)
		assert.Equal(t, tt.want, tr.Scheme(), tt.endpoint)
	}

	_, err := m.Select("rfcomm://00:11:22")
	assert.ErrorIs(t, err, ErrNoTransport)
}

func TestManager_DefaultMemory(t *testing.T) {
	cfg := NewConfig()
	cfg.Default = config.TransportMemory
	m := NewManager(cfg)
	defer m.Close()

	assert.Equal(t, config.TransportMemory, m.Scheme())

	peer := m.Memory().Register("robot", "Robot One")
	s, err := m.Open(context.Background(), "robot")
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "Robot One", s.RemoteName())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	remote, err := peer.Accept(ctx)
	require.NoError(t, err)
	defer remote.Close()

	_, err = s.Write([]byte("search\n"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := remote.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "search\n", string(buf[:n]))
}

func TestManager_TCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err == nil {
			_ = c.Close()
		}
	}()

	m := NewManager(NewConfig())
	defer m.Close()

	s, err := m.Open(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, ln.Addr().String(), s.RemoteName())
	assert.NoError(t, s.Close())
}

func TestManager_DialTimeout(t *testing.T) {
	cfg := NewConfig()
	cfg.Default = config.TransportMemory
	cfg.DialTimeout = 20 * time.Millisecond
	m := NewManager(cfg)
	defer m.Close()

	peer := m.Memory().Register("slow", "")
	peer.Hold()

	_, err := m.Open(context.Background(), "memory://slow")
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestManager_Close(t *testing.T) {
	m := NewManager(NewConfig())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err := m.Open(context.Background(), "127.0.0.1:1")
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func TestModule(t *testing.T) {
	var m *Manager
	app := fxtest.New(t,
		fx.Supply(config.NewConfig()),
		Module(),
		fx.Populate(&m),
	)
	app.RequireStart()
	require.NotNil(t, m)
	assert.Equal(t, config.TransportTCP, m.Scheme())
	app.RequireStop()

	assert.True(t, m.closed.Load())
}
