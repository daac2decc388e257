// Package types 定义网络打印机连接核心的公共类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              连接建立错误
// ============================================================================

var (
	// ErrConnectTimeout 连接超时
	ErrConnectTimeout = errors.New("connect timeout")

	// ErrConnectRefused 连接被拒绝
	ErrConnectRefused = errors.New("connect refused")

	// ErrNetworkUnreachable 网络不可达
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrAlreadyConnected 已有活跃连接（单飞约束：同一连接器同时最多一个连接）
	ErrAlreadyConnected = errors.New("already connected")

	// ErrInvalidEndpoint 无效端点
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// ============================================================================
//                              数据传输错误
// ============================================================================

var (
	// ErrNotConnected 未连接（无活跃会话时调用 Send 等操作）
	ErrNotConnected = errors.New("not connected")

	// ErrWriteFailure 写入失败
	ErrWriteFailure = errors.New("write failure")

	// ErrPeerClosed 对端关闭连接
	ErrPeerClosed = errors.New("connection closed by peer")

	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session closed")
)

// ============================================================================
//                              存活探测错误
// ============================================================================

var (
	// ErrProbeFailure 存活探测失败
	ErrProbeFailure = errors.New("liveness probe failure")

	// ErrProbeTimeout 单次探测超时
	ErrProbeTimeout = errors.New("probe timeout")

	// ErrProbeUnavailable 探测方式不可用（如无 ICMP 权限且未启用回退）
	ErrProbeUnavailable = errors.New("probe transport unavailable")
)

// ============================================================================
//                              发现相关错误
// ============================================================================

var (
	// ErrInvalidSubnetPrefix 无效的子网前缀
	ErrInvalidSubnetPrefix = errors.New("invalid subnet prefix")

	// ErrNoLocalAddress 无法确定本机 IPv4 地址
	ErrNoLocalAddress = errors.New("no usable local IPv4 address")
)
