// Package interfaces 定义 facelink 公共接口
//
// 本文件定义跟踪控制器接口。
package interfaces

import "github.com/dep2p/go-facelink/pkg/types"

// Tracker 人脸位置到命令的控制器
//
// 每帧调用一次 Process；没有单独的输出接口，输出只有它发送的命令行。
type Tracker interface {
	// Process 处理一帧检测结果，返回本帧是否发出了命令
	Process(sample types.FaceSample) (types.Command, bool)
}
