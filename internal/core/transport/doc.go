// Package transport 按端点 scheme 选择字节流传输
//
// 支持的端点形式：
//
//	tcp://host:port   或 host:port（默认传输为 tcp 时）
//	ws://host/path    wss://host/path
//	memory://name     进程内传输，用于测试与演示
//
// Manager 本身实现 interfaces.Transport，LinkManager 只依赖该接口。
package transport
