package transport

import "errors"

var (
	// ErrNoTransport 没有与端点匹配的传输
	ErrNoTransport = errors.New("no suitable transport for endpoint")

	// ErrManagerClosed 传输管理器已关闭
	ErrManagerClosed = errors.New("transport manager closed")
)
