// Package lib 包含基础设施工具库
//
// 本目录包含与业务组件无关的通用工具库：
//
//   - log: 基于 log/slog 的日志封装（按组件懒加载 logger）
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 组件公共接口
//   - types/: 公共类型定义（状态、命令、人脸样本、事件）
//   - lib/: 基础设施工具库（本目录）
package lib
