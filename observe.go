package thermalprinter

import (
	"github.com/samg-hub/thermal-printer/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              事件回调
// ════════════════════════════════════════════════════════════════════════════
//
// 回调是订阅 API 的便捷包装：内部起一个协程消费订阅通道，
// 按事件顺序逐个调用回调。回调阻塞会反压发射器（事件不丢），
// 耗时处理应自行转交其他协程。

// OnStatusChanged 注册状态变更回调
//
// 返回取消函数；取消后回调不再被调用。
func (c *Connector) OnStatusChanged(fn func(StatusChangedEvent)) (func(), error) {
	sub, err := c.SubscribeStatus()
	if err != nil {
		return nil, err
	}

	go func() {
		for raw := range sub.Out() {
			fn(raw.(types.EvtStatusChanged))
		}
	}()

	return func() { _ = sub.Close() }, nil
}

// OnPrinterFound 注册发现打印机回调
//
// 任意一次扫描（批量或流式）发现打印机都会触发。
func (c *Connector) OnPrinterFound(fn func(PrinterFoundEvent)) (func(), error) {
	if err := c.ensureStarted(); err != nil {
		return nil, err
	}

	sub, err := c.bus.Subscribe(new(types.EvtPrinterFound))
	if err != nil {
		return nil, err
	}

	go func() {
		for raw := range sub.Out() {
			fn(raw.(types.EvtPrinterFound))
		}
	}()

	return func() { _ = sub.Close() }, nil
}
