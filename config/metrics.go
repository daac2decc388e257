package config

import (
	"errors"
	"net"
)

// MetricsConfig 指标配置
//
// 指标采集使用独立的 Prometheus Registry，
// 可选通过 HTTP 暴露 /metrics。
type MetricsConfig struct {
	// Enabled 是否启用指标采集
	// 关闭时所有指标调用为空操作
	Enabled bool `json:"enabled"`

	// ListenAddr HTTP 暴露地址（如 "127.0.0.1:9464"）
	// 为空时不启动 HTTP 服务
	ListenAddr string `json:"listen_addr,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:    false, // 默认关闭
		ListenAddr: "",    // 默认不暴露 HTTP
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return errors.New("metrics listen addr must be host:port")
		}
	}
	return nil
}
