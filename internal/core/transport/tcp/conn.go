package tcp

import (
	"net"
	"sync"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// Conn TCP 字节流
type Conn struct {
	*net.TCPConn

	name      string
	closeOnce sync.Once
	onClose   func(*Conn)
}

var _ pkgif.Stream = (*Conn)(nil)

func newConn(c *net.TCPConn, name string, onClose func(*Conn)) *Conn {
	return &Conn{TCPConn: c, name: name, onClose: onClose}
}

// RemoteName 返回远端显示名（拨号时使用的端点标识）
func (c *Conn) RemoteName() string {
	return c.name
}

// Close 关闭连接，可重复调用
func (c *Conn) Close() error {
	err := net.ErrClosed
	c.closeOnce.Do(func() {
		err = c.TCPConn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
	return err
}
