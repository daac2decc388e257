package config

import (
	"errors"
	"time"
)

// LivenessConfig 存活探测配置
//
// 探测器独立于数据套接字运行，通过周期性 ICMP 回显提供
// 早于 TCP 层关闭检测的对端不可达信号。
type LivenessConfig struct {
	// Interval 探测间隔
	Interval Duration `json:"interval"`

	// Timeout 单次探测超时
	Timeout Duration `json:"timeout"`

	// EnableTCPFallback 无 ICMP 权限时回退为 TCP 连接探测
	// 容器等受限环境通常没有 NET_RAW 能力，回退后对打印端口
	// 做短连接探测，保持存活检测可用
	EnableTCPFallback bool `json:"enable_tcp_fallback"`
}

// DefaultLivenessConfig 返回默认存活探测配置
func DefaultLivenessConfig() LivenessConfig {
	return LivenessConfig{
		Interval:          Duration(3 * time.Second), // 探测间隔：3 秒
		Timeout:           Duration(7 * time.Second), // 单次超时：7 秒
		EnableTCPFallback: true,                      // 默认启用 TCP 回退
	}
}

// Validate 验证存活探测配置
func (c LivenessConfig) Validate() error {
	if c.Interval <= 0 {
		return errors.New("probe interval must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	return nil
}
