package tcp

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("transport closed")

	// ErrInvalidEndpoint 无效端点
	ErrInvalidEndpoint = errors.New("invalid tcp endpoint")
)
