// Package interfaces 定义 facelink 的公共接口
//
// 本包采用扁平命名组织接口定义（一个接口文件 = 一个实现目录）：
//
//   - eventbus.go   - 事件总线（internal/core/eventbus）
//   - transport.go  - 字节流传输（internal/core/transport/...）
//   - link.go       - 链路管理（internal/core/link）
//   - tracking.go   - 跟踪控制（internal/core/tracking）
//
// 依赖关系：仅依赖 pkg/types。
package interfaces
