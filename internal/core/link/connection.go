package link

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
)

// attempt 一次进行中的连接尝试
//
// 同一时刻最多一个；被 Reset 或新的 Connect 取代后只能被丢弃。
type attempt struct {
	id       string
	endpoint string
	cancel   context.CancelFunc
}

func newAttempt(endpoint string) (*attempt, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	return &attempt{
		id:       uuid.NewString(),
		endpoint: endpoint,
		cancel:   cancel,
	}, ctx
}

// connection 一个已建立的流会话
type connection struct {
	id        string
	endpoint  string
	name      string
	stream    pkgif.Stream
	createdAt time.Time

	// writeMu 串行化同一连接上的写入
	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

func newConnection(endpoint string, stream pkgif.Stream, now time.Time) *connection {
	name := stream.RemoteName()
	if name == "" {
		name = endpoint
	}
	return &connection{
		id:        uuid.NewString(),
		endpoint:  endpoint,
		name:      name,
		stream:    stream,
		createdAt: now,
	}
}

func (c *connection) write(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.stream.Write(b)
	return err
}

// close 关闭读写两端；重复调用返回第一次的结果
func (c *connection) close() error {
	c.closeOnce.Do(func() {
		c.closeErr = multierr.Combine(
			c.stream.CloseRead(),
			c.stream.CloseWrite(),
			c.stream.Close(),
		)
	})
	return c.closeErr
}
