// Package interfaces 定义 facelink 公共接口
//
// 本文件定义字节流传输接口。
package interfaces

import (
	"context"
	"io"
)

// Transport 字节流传输
//
// 只有"打开到端点的流"一种能力：没有监听角色，没有多路复用。
// 历史上对应蓝牙 RFCOMM，这里抽象为任何可独立关闭读写两端的双向字节流。
type Transport interface {
	// Open 打开到 endpoint 的字节流
	//
	// 可能无限期阻塞；取消 ctx 必须使进行中的打开操作尽快返回并释放底层资源。
	Open(ctx context.Context, endpoint string) (Stream, error)

	// Scheme 返回传输名称（tcp / ws / memory）
	Scheme() string
}

// Stream 双向字节流
//
// 读写两端可独立关闭，关闭必须解除本端挂起的 Read/Write。
type Stream interface {
	io.Reader
	io.Writer

	// CloseRead 关闭读端
	CloseRead() error

	// CloseWrite 关闭写端
	CloseWrite() error

	// Close 同时关闭两端并释放资源
	Close() error

	// RemoteName 返回远端显示名
	RemoteName() string
}
