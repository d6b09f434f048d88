// Package eventbus 实现进程内事件总线
//
// 链路管理器、跟踪控制器与语音触发器通过它向宿主推送事件，
// 取代平台上的"向 UI 线程投递消息"机制。支持：
//   - 多订阅者
//   - 缓冲区配置（慢消费者丢弃，发射方从不阻塞）
//   - 发射器引用计数
//   - 有状态模式（Stateful，新订阅者立即收到最后一个事件）
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(new(types.EvtStateChanged))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtStateChanged)
//	        // 处理事件
//	    }
//	}()
//
//	em, _ := bus.Emitter(new(types.EvtStateChanged))
//	defer em.Close()
//	em.Emit(types.EvtStateChanged{...})
//
// # 顺序
//
// 同一事件类型内，单个发射方按调用顺序投递；链路管理器在状态锁内发射状态事件，
// 因此订阅者观察到的状态变化顺序与迁移顺序一致。
//
// # 并发安全
//
//   - 订阅/取消订阅：RWMutex 保护
//   - 发射器引用计数：atomic.Int32
//   - 通道关闭：closeOnce 防止重复
package eventbus
