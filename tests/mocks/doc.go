// Package mocks 提供统一的测试 Mock 实现
//
// # 传输 Mock
//
//   - MockTransport: 模拟 interfaces.Transport，记录 Open 调用，可覆盖 OpenFunc
//   - MockStream: 模拟 interfaces.Stream，支持预设读取数据、记录写入与关闭
//
// 需要真实双向字节流时使用 internal/core/transport/memory。
package mocks
