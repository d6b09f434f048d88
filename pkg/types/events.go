// Package types 定义 facelink 公共类型
//
// 本文件定义事件相关类型。所有事件以值类型经 EventBus 发布，
// 订阅时使用指针类型占位：bus.Subscribe(new(types.EvtStateChanged))。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// 事件类型名
const (
	EventStateChanged       = "link.state_changed"
	EventDeviceConnected    = "link.device_connected"
	EventCommandReceived    = "link.command_received"
	EventControlSignal      = "link.control_signal"
	EventCommandSent        = "link.command_sent"
	EventConnectionFailed   = "link.connection_failed"
	EventConnectionLost     = "link.connection_lost"
	EventLinkError          = "link.error"
	EventStaleDiscarded     = "link.stale_discarded"
	EventListenRequested    = "voice.listen_requested"
	EventPhraseUnrecognized = "voice.phrase_unrecognized"
	EventTrackingCommand    = "tracking.command"
)

// 面向用户的提示文本
const (
	MsgUnableToConnect = "Unable to connect device"
	MsgConnectionLost  = "Device connection was lost"
)

// ============================================================================
//                              链路事件
// ============================================================================

// EvtStateChanged 链路状态变化事件
//
// 按状态迁移发生的顺序发布。
type EvtStateChanged struct {
	BaseEvent
	Old ConnectionState
	New ConnectionState
}

// EvtDeviceConnected 设备已连接事件，携带远端端点标识（显示名）
type EvtDeviceConnected struct {
	BaseEvent
	Name   string
	ConnID string
}

// EvtCommandReceived 收到一行普通遥测文本
type EvtCommandReceived struct {
	BaseEvent
	Line   string
	ConnID string
}

// EvtControlSignal 收到控制标记行（如 PROXIMITY）
//
// 与普通遥测行区分开，由消费层触发副作用（例如语音监听）。
type EvtControlSignal struct {
	BaseEvent
	Marker string
	Args   []string
	Line   string
	ConnID string
}

// EvtCommandSent 一行命令已写入流
type EvtCommandSent struct {
	BaseEvent
	Line   string
	ConnID string
}

// EvtConnectionFailed 连接建立失败
type EvtConnectionFailed struct {
	BaseEvent
	Endpoint string
	Message  string
	Err      error
}

// EvtConnectionLost 已建立的连接在读取时失败或被对端关闭
type EvtConnectionLost struct {
	BaseEvent
	Endpoint string
	ConnID   string
	Message  string
	Err      error
}

// EvtLinkError 非致命链路错误（例如写失败，不触发状态迁移）
type EvtLinkError struct {
	BaseEvent
	Op      string
	ConnID  string
	Message string
	Err     error
}

// EvtStaleDiscarded 过期的连接尝试结果被丢弃
//
// 不是面向用户的错误，仅用于诊断和指标。
type EvtStaleDiscarded struct {
	BaseEvent
	Endpoint  string
	AttemptID string
}

// ============================================================================
//                              语音 / 跟踪事件
// ============================================================================

// EvtListenRequested 请求宿主启动一次语音识别
type EvtListenRequested struct {
	BaseEvent
	Marker string
}

// EvtPhraseUnrecognized 语音短语无法映射为命令
type EvtPhraseUnrecognized struct {
	BaseEvent
	Phrase string
}

// EvtTrackingCommand 跟踪控制器发出一条命令
type EvtTrackingCommand struct {
	BaseEvent
	Command Command
	Faces   int
}
