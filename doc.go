// Package thermalprinter 提供网络热敏打印机的发现与连接核心
//
// 核心能力：
//   - 子网扫描：并发探测 /24 网段内监听打印端口（默认 9100）的设备
//   - SSDP 搜索：监听 UPnP 打印机宣告（可选补充来源）
//   - 连接管理：单一 TCP 数据套接字，状态机 NONE ⇄ CONNECTED
//   - 存活探测：连接期间周期性 ICMP 回显（无权限时可回退 TCP 探测）
//   - 状态流：有序、不丢事件的状态变更订阅
//
// 快速开始：
//
//	c, err := thermalprinter.Start(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	printers, err := c.DiscoverPrinters(ctx)
//	if err != nil || len(printers) == 0 {
//		log.Fatal("no printer found")
//	}
//
//	if err := c.Connect(ctx, printers[0].Endpoint.Address); err != nil {
//		log.Fatal(err)
//	}
//	_ = c.Send(ctx, []byte("\x1b@Hello\n"))
//	_ = c.Disconnect(ctx)
//
// 状态订阅：
//
//	c.OnStatusChanged(func(evt thermalprinter.StatusChangedEvent) {
//		fmt.Println(evt.Previous, "->", evt.Current)
//	})
//
// 连接失败返回错误值（ErrConnectTimeout / ErrConnectRefused 等），
// 连接建立后的异步故障（对端关闭、套接字错误、探测失败）不返回错误，
// 只表现为一次到 StatusNone 的状态转移。
package thermalprinter
