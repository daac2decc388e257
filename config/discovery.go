package config

import (
	"errors"
	"time"
)

// DiscoveryConfig 打印机发现配置
//
// 配置两种发现机制与结果增强：
//   - 子网扫描: 对 /24 网段逐地址尝试 TCP 连接
//   - SSDP: 监听 UPnP 打印机宣告（可选补充）
//   - Resolve: 反向 DNS 主机名解析（可选增强）
type DiscoveryConfig struct {
	// Port 扫描的目标 TCP 端口
	// 默认 9100（RAW 打印标准端口）
	Port int `json:"port"`

	// ScanTimeout 单个地址的连接尝试超时
	ScanTimeout Duration `json:"scan_timeout"`

	// EnableSSDP 是否启用 SSDP/UPnP 搜索
	EnableSSDP bool `json:"enable_ssdp"`

	// SSDP SSDP 配置
	SSDP SSDPConfig `json:"ssdp,omitempty"`

	// EnableResolve 是否启用反向 DNS 主机名解析
	EnableResolve bool `json:"enable_resolve"`

	// Resolve 主机名解析配置
	Resolve ResolveConfig `json:"resolve,omitempty"`
}

// SSDPConfig SSDP 搜索配置
type SSDPConfig struct {
	// SearchWait M-SEARCH 响应等待时间
	SearchWait Duration `json:"search_wait,omitempty"`
}

// ResolveConfig 反向 DNS 解析配置
type ResolveConfig struct {
	// Timeout 单次 PTR 查询超时
	Timeout Duration `json:"timeout,omitempty"`

	// CacheSize 解析结果缓存条目数（命中与未命中都缓存）
	CacheSize int `json:"cache_size,omitempty"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Port:        9100,                       // RAW 打印标准端口（JetDirect/AppSocket）
		ScanTimeout: Duration(4 * time.Second),  // 单地址扫描超时：4 秒
		EnableSSDP:  false,                      // SSDP 按需启用
		SSDP: SSDPConfig{
			SearchWait: Duration(3 * time.Second), // M-SEARCH 等待：3 秒
		},
		EnableResolve: false, // 主机名解析按需启用
		Resolve: ResolveConfig{
			Timeout:   Duration(1 * time.Second), // PTR 查询超时：1 秒
			CacheSize: 256,                       // 缓存 256 条
		},
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("scan port must be in range 1-65535")
	}
	if c.ScanTimeout <= 0 {
		return errors.New("scan timeout must be positive")
	}
	if c.EnableSSDP && c.SSDP.SearchWait <= 0 {
		return errors.New("ssdp search wait must be positive")
	}
	if c.EnableResolve {
		if c.Resolve.Timeout <= 0 {
			return errors.New("resolve timeout must be positive")
		}
		if c.Resolve.CacheSize <= 0 {
			return errors.New("resolve cache size must be positive")
		}
	}
	return nil
}
