// Package interfaces 定义打印机连接核心的公共接口
//
// 本文件定义事件总线接口。
package interfaces

// EventBus 类型化事件总线
//
// 按事件类型分发：Subscribe 与 Emitter 以同一事件类型的指针为键配对。
// 投递保证：同一发射器发出的事件按发射顺序投递给每个订阅者，
// 不丢弃、不合并；订阅者消费慢会反压发射器。
type EventBus interface {
	// Subscribe 订阅指定类型的事件
	//
	// eventType 传入事件结构体的指针，如 new(types.EvtStatusChanged)。
	Subscribe(eventType interface{}, opts ...SubscriptionOpt) (Subscription, error)

	// Emitter 获取指定事件类型的发射器
	Emitter(eventType interface{}, opts ...EmitterOpt) (Emitter, error)
}

// Subscription 事件订阅
type Subscription interface {
	// Out 返回接收事件的通道，订阅关闭时通道关闭
	Out() <-chan interface{}

	// Close 取消订阅（并发安全，可重复调用）
	Close() error
}

// Emitter 事件发射器
type Emitter interface {
	// Emit 发射事件（传值，不传指针）
	Emit(event interface{}) error

	// Close 关闭发射器
	Close() error
}

// SubscriptionOpt 订阅选项
type SubscriptionOpt func(*SubscriptionSettings)

// EmitterOpt 发射器选项
type EmitterOpt func(*EmitterSettings)

// SubscriptionSettings 订阅设置（导出以供实现使用）
type SubscriptionSettings struct {
	// Buffer 订阅通道缓冲区大小
	Buffer int
}

// EmitterSettings 发射器设置（导出以供实现使用）
type EmitterSettings struct {
	// Stateful 有状态模式：新订阅者立即收到最近一次事件
	Stateful bool
}

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Buffer = size
	}
}

// Stateful 设置发射器为有状态模式
func Stateful() EmitterOpt {
	return func(s *EmitterSettings) {
		s.Stateful = true
	}
}
