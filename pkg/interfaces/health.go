// Package interfaces 定义打印机连接核心的公共接口
//
// 本文件定义健康检查相关类型（被 Connector.Health 方法使用）。
package interfaces

import "context"

// HealthState 健康状态枚举
type HealthState int

const (
	HealthStateHealthy   HealthState = iota // 健康
	HealthStateDegraded                     // 降级
	HealthStateUnhealthy                    // 不健康
)

// String 返回状态字符串
func (s HealthState) String() string {
	switch s {
	case HealthStateHealthy:
		return "healthy"
	case HealthStateDegraded:
		return "degraded"
	case HealthStateUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// HealthStatus 健康状态
type HealthStatus struct {
	Status  HealthState            // 状态
	Message string                 // 描述信息
	Details map[string]interface{} // 详细信息
}

// NewHealthStatusWithDetails 创建带详细信息的健康状态
func NewHealthStatusWithDetails(state HealthState, message string, details map[string]interface{}) HealthStatus {
	return HealthStatus{
		Status:  state,
		Message: message,
		Details: details,
	}
}

// HealthyStatus 创建健康状态
func HealthyStatus(message string) HealthStatus {
	return HealthStatus{Status: HealthStateHealthy, Message: message}
}

// UnhealthyStatus 创建不健康状态
func UnhealthyStatus(message string) HealthStatus {
	return HealthStatus{Status: HealthStateUnhealthy, Message: message}
}

// HealthChecker 健康检查接口
type HealthChecker interface {
	// Check 执行健康检查
	Check(ctx context.Context) HealthStatus
}
