// Package tcp 提供基于 TCP 的字节流传输
//
// 端点标识为 "host:port"（可带 "tcp://" 前缀）。TCP 连接原生支持半关闭：
// CloseRead/CloseWrite 分别对应 shutdown(SHUT_RD)/shutdown(SHUT_WR)，
// 关闭会解除本端挂起的读写。
//
// 适用场景：串口转 TCP 网关、蓝牙 RFCOMM 桥接、本地调试。
package tcp
