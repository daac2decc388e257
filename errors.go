package thermalprinter

import (
	"errors"

	"github.com/samg-hub/thermal-printer/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              错误定义
// ════════════════════════════════════════════════════════════════════════════
//
// 核心错误定义在 pkg/types 中，根包重新导出，
// 使用方用 errors.Is 判断类别。

var (
	// ErrConnectTimeout 连接超时
	ErrConnectTimeout = types.ErrConnectTimeout

	// ErrConnectRefused 连接被拒绝
	ErrConnectRefused = types.ErrConnectRefused

	// ErrNetworkUnreachable 网络不可达
	ErrNetworkUnreachable = types.ErrNetworkUnreachable

	// ErrAlreadyConnected 已有活跃连接
	ErrAlreadyConnected = types.ErrAlreadyConnected

	// ErrInvalidEndpoint 无效端点
	ErrInvalidEndpoint = types.ErrInvalidEndpoint

	// ErrNotConnected 未连接
	ErrNotConnected = types.ErrNotConnected

	// ErrWriteFailure 写入失败
	ErrWriteFailure = types.ErrWriteFailure

	// ErrProbeUnavailable 存活探测方式不可用
	ErrProbeUnavailable = types.ErrProbeUnavailable

	// ErrInvalidSubnetPrefix 无效的子网前缀
	ErrInvalidSubnetPrefix = types.ErrInvalidSubnetPrefix

	// ErrNoLocalAddress 无法确定本机 IPv4 地址
	ErrNoLocalAddress = types.ErrNoLocalAddress
)

// 连接器生命周期错误
var (
	// ErrNotStarted 连接器尚未启动
	ErrNotStarted = errors.New("connector not started")

	// ErrAlreadyStarted 连接器已启动
	ErrAlreadyStarted = errors.New("connector already started")

	// ErrClosed 连接器已关闭
	ErrClosed = errors.New("connector closed")
)
