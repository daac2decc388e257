// Package eventbus 实现进程内事件总线
//
// 提供类型安全的事件发布/订阅机制，支持：
//   - 多订阅者
//   - 缓冲区配置
//   - 发射器引用计数
//   - 并发安全
//   - 有状态模式（Stateful）：新订阅者立即收到最近一次事件
//
// 投递语义是本包与一般事件总线的关键差异：事件按发射顺序投递，
// 不丢弃、不合并。连接状态流要求订阅者看到每一次状态转移，
// 因此订阅者消费慢时发射方阻塞（反压），而不是丢弃事件。
//
// # 快速开始
//
//	// 创建总线
//	bus := eventbus.NewBus()
//
//	// 订阅事件
//	sub, _ := bus.Subscribe(new(types.EvtStatusChanged))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtStatusChanged)
//	        // 处理事件
//	    }
//	}()
//
//	// 发射事件
//	em, _ := bus.Emitter(new(types.EvtStatusChanged), eventbus.Stateful())
//	defer em.Close()
//	em.Emit(types.EvtStatusChanged{...})
//
// # 并发安全
//
// EventBus 使用 sync.RWMutex 和 atomic 保证并发安全：
//   - 订阅/取消订阅：RWMutex 保护
//   - 发射器引用计数：atomic.Int32
//   - 通道关闭：closeOnce 防止重复
package eventbus
