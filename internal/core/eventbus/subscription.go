// Package eventbus 实现事件总线
package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan interface{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// Out 返回事件通道
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// deliver 投递一个事件
//
// 仅在持有节点锁时调用。关闭流程先启动后台排空、再从节点
// 移除订阅、最后关闭通道，因此这里的阻塞写入总能解除，
// 也不会写入已关闭的通道。
func (s *Subscription) deliver(event interface{}) {
	s.out <- event
}

// Close 取消订阅
//
// Close 是并发安全的，可以多次调用。
// 关闭顺序是投递安全的关键：
//  1. 先启动后台排空（解除可能阻塞在本订阅上的发射者）
//  2. 再从总线移除订阅（与在途 emit 在节点锁上串行化）
//  3. 最后关闭通道（此后不再有发射者能触达本订阅）
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		// 后台排空通道，防止阻塞发射者
		go func() {
			for range s.out {
				// 丢弃剩余事件
			}
		}()

		// 从总线移除；返回时在途 emit 均已完成
		s.bus.removeSub(s)

		// 关闭通道
		close(s.out)
	})

	return nil
}

// ============================================================================
// Emitter 实现
// ============================================================================

// Emitter 事件发射器
type Emitter struct {
	bus       *Bus
	node      *node
	typ       reflect.Type
	closed    atomic.Bool
	closeOnce sync.Once
}

// Emit 发射事件
func (e *Emitter) Emit(event interface{}) error {
	if e.closed.Load() {
		return errors.New("emitter is closed")
	}

	// 发射到节点
	e.node.emit(event)

	return nil
}

// Close 关闭发射器
//
// 关闭后：
//  1. 标记为已关闭
//  2. 减少引用计数
//  3. 如果计数为 0，尝试删除节点
func (e *Emitter) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)

		// 减少引用计数
		if e.node.nEmitters.Add(-1) == 0 {
			e.bus.tryDropNode(e.typ)
		}
	})

	return nil
}
