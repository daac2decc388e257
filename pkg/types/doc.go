// Package types 定义网络打印机连接核心的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
// 基础类型:
//   - endpoint.go - Endpoint（打印机网络端点）, DiscoveredPrinter（发现结果）
//   - status.go   - ConnectionStatus（连接状态）, DisconnectReason（断开原因）
//   - probe.go    - ProbeOutcome（存活探测结果）
//
// 事件类型:
//   - events.go   - EvtStatusChanged, EvtPrinterFound
//
// # 设计原则
//
//  1. 不可变性：类型创建后不可修改，使用值类型
//  2. 可比较性：Endpoint 可作为 map key
//  3. 零依赖：不依赖任何其他内部包（最底层）
//
// # 使用示例
//
//	import "github.com/samg-hub/thermal-printer/pkg/types"
//
//	// 构造端点
//	ep := types.NewEndpoint("192.168.1.50", 9100)
//	fmt.Println(ep.String()) // "192.168.1.50:9100"
//
//	// 发现结果
//	printer := types.NewDiscoveredPrinter(ep, types.SourceScan)
package types
