// Package facelink 把人脸跟踪结果转换为执行器命令，并通过字节流链路发送
//
// Node 是宿主应用的主入口，聚合以下组件：
//   - 链路管理（internal/core/link）：Idle -> Connecting -> Connected 状态机
//   - 跟踪控制（internal/core/tracking）：人脸位置 -> 定位命令，150ms 速率限制
//   - 行编解码（internal/core/linecodec）：换行分帧与 PROXIMITY 控制标记分派
//   - 语音命令（internal/core/voice）：控制信号触发监听请求，短语 -> 应用命令
//   - 指标（internal/core/metrics）：Prometheus 链路指标
//
// # 快速开始
//
//	node, err := facelink.New(
//	    facelink.WithTarget("192.168.4.1:8080"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer node.Close()
//
//	if err := node.Start(ctx); err != nil {
//	    return err
//	}
//
//	sub, _ := node.Subscribe(new(types.EvtStateChanged))
//	defer sub.Close()
//
//	// 每帧检测结果调用一次
//	node.Submit(types.FaceSample{{Left: -120, Top: -80, Right: 140, Bottom: 260}})
//
// # 事件
//
// 全部生命周期事件都通过事件总线推送（见 pkg/types/events.go），
// 不对接收方的执行上下文做任何假设；缓冲区满的订阅者会丢弃事件。
package facelink
