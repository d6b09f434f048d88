package link

import "errors"

var (
	// ErrManagerClosed 管理器已关闭
	ErrManagerClosed = errors.New("link manager closed")

	// ErrEmptyTarget 连接目标为空
	ErrEmptyTarget = errors.New("empty link target")
)
