package types

// ============================================================================
//                              ConnectionState - 链路状态
// ============================================================================

// ConnectionState 链路连接状态
//
// 由 LinkManager 独占持有，只能通过其状态迁移方法修改：
//
//	Idle -> Connecting -> Connected -> (failed/lost) -> Idle
type ConnectionState int32

const (
	// StateIdle 空闲，无连接也无进行中的连接尝试
	StateIdle ConnectionState = iota
	// StateConnecting 正在建立出站连接
	StateConnecting
	// StateConnected 已连接到远端设备
	StateConnected
)

// String 返回状态的字符串表示
func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// StatusText 返回面向用户的状态描述
func (s ConnectionState) StatusText(deviceName string) string {
	switch s {
	case StateConnected:
		return deviceName
	case StateConnecting:
		return "Connecting..."
	default:
		return "Not connected."
	}
}
