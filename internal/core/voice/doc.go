// Package voice 实现语音命令
//
// 语音识别由宿主完成，本包只负责两件事：
//   - ListenTrigger：收到控制标记（默认 PROXIMITY）时请求宿主开始一次识别，带去抖
//   - Dispatcher：把识别出的短语映射为应用命令并经链路发送
package voice
