package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func TestParseEndpoint(t *testing.T) {
	addr, err := ParseEndpoint("tcp://127.0.0.1:4001")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4001", addr)

	addr, err = ParseEndpoint("localhost:9")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9", addr)

	_, err = ParseEndpoint("00:11:22:33:44:55:66")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)

	_, err = ParseEndpoint("host")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestTransport_OpenReadWrite(t *testing.T) {
	ln := listen(t)
	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	s, err := tr.Open(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, ln.Addr().String(), s.RemoteName())
	assert.Equal(t, Scheme, tr.Scheme())

	remote := <-accepted
	defer remote.Close()

	_, err = s.Write([]byte("search\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(remote).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "search\n", line)
}

// TestConn_CloseReadUnblocks 关闭读端解除挂起的 Read
func TestConn_CloseReadUnblocks(t *testing.T) {
	ln := listen(t)
	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	go func() {
		c, err := ln.Accept()
		if err == nil {
			defer c.Close()
			time.Sleep(2 * time.Second)
		}
	}()

	s, err := tr.Open(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer s.Close()

	readErr := make(chan error, 1)
	go func() {
		_, err := s.Read(make([]byte, 16))
		readErr <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case err := <-readErr:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close 未解除挂起的 Read")
	}
}

func TestConn_RemoteEOF(t *testing.T) {
	ln := listen(t)
	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	go func() {
		c, err := ln.Accept()
		if err == nil {
			_, _ = c.Write([]byte("PROXIMITY,1\n"))
			_ = c.Close()
		}
	}()

	s, err := tr.Open(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer s.Close()

	data, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "PROXIMITY,1\n", string(data))
}

func TestTransport_OpenRefused(t *testing.T) {
	ln := listen(t)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	_, err := tr.Open(context.Background(), addr)
	assert.Error(t, err)
}

func TestTransport_OpenCancelled(t *testing.T) {
	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Open(ctx, "127.0.0.1:1")
	require.Error(t, err)
}

func TestTransport_Closed(t *testing.T) {
	tr := NewTransport(DefaultConfig())
	require.NoError(t, tr.Close())
	assert.True(t, tr.IsClosed())

	_, err := tr.Open(context.Background(), "127.0.0.1:1")
	assert.True(t, errors.Is(err, ErrTransportClosed))
}
