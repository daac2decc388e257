package config

import (
	"errors"
	"time"
)

// ConnectionConfig 连接会话配置
//
// 控制数据套接字的建立与写入行为。
// 一个连接器实例同时最多持有一个活跃会话。
type ConnectionConfig struct {
	// ConnectTimeout 建立连接超时
	ConnectTimeout Duration `json:"connect_timeout"`

	// WriteTimeout 单次写入超时
	// 调用方 context 带截止时间时以 context 为准
	WriteTimeout Duration `json:"write_timeout"`

	// NoDelay 是否禁用 Nagle 算法
	// 打印数据通常为小块命令流，默认禁用以降低延迟
	NoDelay bool `json:"no_delay"`

	// KeepAlive TCP 保活探测间隔
	// 0 表示不启用保活
	KeepAlive Duration `json:"keep_alive,omitempty"`

	// ReadBufferSize 入站读取缓冲区大小
	// 打印机回传数据量极小（状态字节），无需大缓冲
	ReadBufferSize int `json:"read_buffer_size,omitempty"`
}

// DefaultConnectionConfig 返回默认连接配置
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		ConnectTimeout: Duration(5 * time.Second),  // 连接超时：5 秒
		WriteTimeout:   Duration(10 * time.Second), // 写入超时：10 秒
		NoDelay:        true,                       // 禁用 Nagle：小命令流低延迟
		KeepAlive:      Duration(30 * time.Second), // TCP 保活：30 秒
		ReadBufferSize: 512,                        // 读缓冲：512 字节
	}
}

// Validate 验证连接配置
func (c ConnectionConfig) Validate() error {
	if c.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.KeepAlive < 0 {
		return errors.New("keep alive must be non-negative")
	}
	if c.ReadBufferSize <= 0 {
		return errors.New("read buffer size must be positive")
	}
	return nil
}
