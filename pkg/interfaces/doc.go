// Package interfaces 定义打印机连接核心的公共接口
//
// 本包只包含接口与少量接口配套类型，供内部实现包与用户代码共同引用，
// 避免实现包之间的循环依赖。
//
// # 文件组织
//
//   - eventbus.go - EventBus / Subscription / Emitter（事件总线）
//   - netinfo.go  - NetInfo（本机地址服务）
//   - health.go   - HealthState / HealthStatus / HealthChecker（健康检查）
//
// # 设计原则
//
//  1. 接口最小化：只暴露调用方真正需要的方法
//  2. 实现无关：不依赖任何 internal 包
//  3. 值类型在 pkg/types，接口在本包
package interfaces
