// Package types 定义网络打印机连接核心的公共类型
//
// 本文件定义事件类型。所有事件通过事件总线按类型分发。
package types

import "time"

// ============================================================================
//                              状态变更事件
// ============================================================================

// EvtStatusChanged 连接状态变更事件
//
// 连接器每次状态转移时发布一条，订阅者按发生顺序收到全部转移，
// 不跳过、不合并。
type EvtStatusChanged struct {
	// Previous 变更前状态
	Previous ConnectionStatus

	// Current 变更后状态
	Current ConnectionStatus

	// Endpoint 关联端点（变更为 StatusConnected 时为连接目标；
	// 变更为 StatusNone 时为刚断开的目标）
	Endpoint Endpoint

	// Reason 断开原因（仅 Current == StatusNone 时有意义）
	Reason DisconnectReason

	// Timestamp 变更时间
	Timestamp time.Time
}

// ============================================================================
//                              发现事件
// ============================================================================

// EvtPrinterFound 发现候选打印机事件
//
// 扫描过程中每发现一台在目标端口上可连接的设备发布一条。
type EvtPrinterFound struct {
	// Printer 发现结果
	Printer DiscoveredPrinter

	// ScanID 本次扫描的标识（用于日志关联）
	ScanID string

	// Timestamp 发现时间
	Timestamp time.Time
}
