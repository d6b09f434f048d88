// Package interfaces 定义 facelink 公共接口
//
// 本文件定义 LinkManager 接口。
package interfaces

import (
	"time"

	"github.com/dep2p/go-facelink/pkg/types"
)

// LinkManager 链路管理器
//
// 拥有唯一的连接状态机：Idle -> Connecting -> Connected -> Idle。
// 所有方法都可以从任意 goroutine 并发调用。
type LinkManager interface {
	// Connect 先 Reset，再异步连接 target
	Connect(target string) error

	// Reset 取消进行中的连接尝试并关闭当前连接，回到 Idle；幂等
	Reset()

	// Send 在 Connected 状态下写入字节；其它状态静默丢弃
	Send(b []byte)

	// SendLine 编码一行命令并发送
	SendLine(line string)

	// State 返回当前状态
	State() types.ConnectionState

	// Info 返回当前链路快照
	Info() LinkInfo

	// Close 关闭管理器
	Close() error
}

// LinkInfo 链路快照
type LinkInfo struct {
	State       types.ConnectionState
	Endpoint    string
	RemoteName  string
	ConnID      string
	ConnectedAt time.Time
}

// LineSender 行命令发送者
//
// TrackingController 与语音分发器只依赖这一能力。
type LineSender interface {
	SendLine(line string)
}
