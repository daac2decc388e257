// Package types 定义网络打印机连接核心的公共类型
//
// 本文件定义连接状态与断开原因类型。
package types

// ============================================================================
//                              连接状态
// ============================================================================

// ConnectionStatus 连接器状态
//
// 任意时刻恰好有一个值是当前状态。
// 状态只能由连接器修改；会话和探测器只报告事件，从不直接改状态。
type ConnectionStatus int

const (
	// StatusNone 无连接（初始态/终止态）
	StatusNone ConnectionStatus = iota

	// StatusConnecting 连接中（内部单飞守卫，不对外发布）
	StatusConnecting

	// StatusConnected 已连接（套接字与探测器均活跃）
	StatusConnected
)

// String 返回状态的字符串表示
func (s ConnectionStatus) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// IsConnected 判断是否已连接
func (s ConnectionStatus) IsConnected() bool {
	return s == StatusConnected
}

// ============================================================================
//                              断开原因
// ============================================================================

// DisconnectReason 断开原因
//
// 任何一种原因都触发同一套幂等拆除流程；
// 原因仅用于日志、事件与指标区分。
type DisconnectReason int

const (
	// ReasonNone 无（未断开或原因不适用）
	ReasonNone DisconnectReason = iota

	// ReasonLocal 本地主动断开
	ReasonLocal

	// ReasonWriteFailed 写入失败触发断开
	ReasonWriteFailed

	// ReasonPeerClosed 对端关闭套接字
	ReasonPeerClosed

	// ReasonSocketError 套接字错误
	ReasonSocketError

	// ReasonProbeFailed 存活探测失败
	ReasonProbeFailed
)

// String 返回断开原因的字符串表示
func (r DisconnectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonLocal:
		return "local"
	case ReasonWriteFailed:
		return "write_failed"
	case ReasonPeerClosed:
		return "peer_closed"
	case ReasonSocketError:
		return "socket_error"
	case ReasonProbeFailed:
		return "probe_failed"
	default:
		return "unknown"
	}
}
