package thermalprinter

import (
	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════
//
// 根包把 pkg/types 与 pkg/interfaces 的核心类型重新导出，
// 使用方通常只需导入根包。

// Endpoint 打印机网络端点（IPv4 地址 + TCP 端口）
type Endpoint = types.Endpoint

// DiscoveredPrinter 发现的候选打印机
type DiscoveredPrinter = types.DiscoveredPrinter

// ConnectionStatus 连接状态
type ConnectionStatus = types.ConnectionStatus

// DisconnectReason 断开原因
type DisconnectReason = types.DisconnectReason

// StatusChangedEvent 状态变更事件
type StatusChangedEvent = types.EvtStatusChanged

// PrinterFoundEvent 发现打印机事件
type PrinterFoundEvent = types.EvtPrinterFound

// ProbeOutcome 存活探测结果
type ProbeOutcome = types.ProbeOutcome

// Subscription 事件订阅
type Subscription = pkgif.Subscription

// HealthStatus 健康状态
type HealthStatus = pkgif.HealthStatus

// 连接状态值
const (
	StatusNone      = types.StatusNone
	StatusConnected = types.StatusConnected
)

// 断开原因值
const (
	ReasonNone        = types.ReasonNone
	ReasonLocal       = types.ReasonLocal
	ReasonWriteFailed = types.ReasonWriteFailed
	ReasonPeerClosed  = types.ReasonPeerClosed
	ReasonSocketError = types.ReasonSocketError
	ReasonProbeFailed = types.ReasonProbeFailed
)

// 发现来源
const (
	SourceScan = types.SourceScan
	SourceSSDP = types.SourceSSDP
)

// DefaultPrinterPort 原始打印默认端口
const DefaultPrinterPort = types.DefaultPrinterPort

// NewEndpoint 创建端点，端口为 0 时使用默认打印端口
func NewEndpoint(address string, port int) Endpoint {
	return types.NewEndpoint(address, port)
}

// ParseEndpoint 从 "host:port" 或纯地址字符串解析端点
func ParseEndpoint(s string) (Endpoint, error) {
	return types.ParseEndpoint(s)
}
