// Package types 定义 facelink 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 facelink 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - enums.go   - ConnectionState 链路状态
//   - face.go    - FaceRect, FaceSample 人脸检测样本
//   - events.go  - 链路与跟踪相关事件（经 EventBus 发布）
//   - command.go - 命令词汇表与格式化
package types
