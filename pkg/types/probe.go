// Package types 定义网络打印机连接核心的公共类型
//
// 本文件定义存活探测结果类型。
package types

import "time"

// ============================================================================
//                              探测结果
// ============================================================================

// ProbeOutcome 单次存活探测的结果
//
// Err 为 nil 表示收到回显应答，RTT 有效；
// 否则表示超时、不可达或主机错误。
type ProbeOutcome struct {
	// Seq 探测序号（从 1 开始单调递增）
	Seq int

	// RTT 往返时延（仅成功时有效）
	RTT time.Duration

	// Err 探测错误（成功时为 nil）
	Err error

	// Timestamp 结果产生时间
	Timestamp time.Time
}

// OK 判断本次探测是否成功
func (o ProbeOutcome) OK() bool {
	return o.Err == nil
}
