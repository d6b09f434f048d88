// Package link 实现链路管理器
//
// Manager 拥有唯一的连接状态机：
//
//	Idle -> Connecting -> Connected -> (failed/lost) -> Idle
//
// # 并发模型
//
// 所有状态（state、当前连接尝试、当前连接）由同一把互斥锁保护；
// 打开流、写入、阻塞读取都在锁外进行，锁内只判断"该操作是否仍是当前的"。
// 每次连接尝试一个 goroutine，每个已建立的连接一个读循环 goroutine。
//
// # 过期尝试丢弃
//
// Connect 与 Reset 都会先作废当前尝试。作废的尝试即使随后打开成功，
// 也不会进入 Connected，其流被立即关闭；作废连接的读循环出错时
// 也不会重置新的连接。判断依据是尝试/连接对象的指针身份。
//
// # 取消
//
// Reset 是唯一的取消原语：取消 ctx 并关闭流，但不等待工作 goroutine 退出。
// Reset 返回后被取代的 goroutine 可能还会短暂运行，其一切后续效果都会被丢弃。
//
// # 事件
//
// 状态变化事件在持锁期间发布，因此与迁移顺序一致；事件总线从不阻塞。
package link
