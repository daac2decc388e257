// Package types 定义网络打印机连接核心的公共类型
//
// 本文件定义端点与发现结果类型。
package types

import (
	"fmt"
	"net"
	"strconv"
)

// ============================================================================
//                              Endpoint - 打印机端点
// ============================================================================

// DefaultPrinterPort 标准 RAW 打印端口（JetDirect/AppSocket）
const DefaultPrinterPort = 9100

// Endpoint 打印机网络端点
//
// 由 IPv4 地址和 TCP 端口唯一标识一台候选打印机或当前连接目标。
// 构造后不可变，可作为 map key。
type Endpoint struct {
	// Address IPv4 点分十进制地址
	Address string `json:"address"`

	// Port TCP 端口
	Port int `json:"port"`
}

// NewEndpoint 创建端点
//
// port 为 0 时使用 DefaultPrinterPort。
func NewEndpoint(address string, port int) Endpoint {
	if port == 0 {
		port = DefaultPrinterPort
	}
	return Endpoint{Address: address, Port: port}
}

// ParseEndpoint 从 "host:port" 或纯地址字符串解析端点
//
// 不含端口时使用 DefaultPrinterPort。
func ParseEndpoint(s string) (Endpoint, error) {
	if s == "" {
		return Endpoint{}, fmt.Errorf("empty endpoint")
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		// 无端口形式，按纯地址处理
		ep := NewEndpoint(s, DefaultPrinterPort)
		if err := ep.Validate(); err != nil {
			return Endpoint{}, err
		}
		return ep, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	ep := NewEndpoint(host, port)
	if err := ep.Validate(); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}

// Validate 校验端点有效性
//
// 地址必须是 IPv4 点分十进制，端口必须在 1-65535 范围内。
func (e Endpoint) Validate() error {
	ip := net.ParseIP(e.Address)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("invalid IPv4 address: %q", e.Address)
	}
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("invalid port: %d", e.Port)
	}
	return nil
}

// IsZero 判断是否为零值端点
func (e Endpoint) IsZero() bool {
	return e.Address == "" && e.Port == 0
}

// String 返回 "address:port" 形式
func (e Endpoint) String() string {
	return e.Address + ":" + strconv.Itoa(e.Port)
}

// Addr 返回可直接用于 net.Dial 的地址
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(e.Port))
}

// ============================================================================
//                              DiscoveredPrinter - 发现结果
// ============================================================================

// DiscoverySource 发现来源
type DiscoverySource string

const (
	// SourceScan 子网 TCP 扫描
	SourceScan DiscoverySource = "scan"
	// SourceSSDP SSDP/UPnP 搜索
	SourceSSDP DiscoverySource = "ssdp"
)

// DiscoveredPrinter 扫描过程中产生的候选打印机
//
// 仅在单次发现过程中存在，扫描结束后不被保留。
type DiscoveredPrinter struct {
	// Name 展示名称，默认为 "address:port"
	Name string `json:"name"`

	// Endpoint 打印机端点
	Endpoint Endpoint `json:"endpoint"`

	// Hostname 反向解析得到的主机名（可选，可能为空）
	Hostname string `json:"hostname,omitempty"`

	// Source 发现来源
	Source DiscoverySource `json:"source"`
}

// NewDiscoveredPrinter 创建发现结果
//
// Name 默认为端点的 "address:port" 形式。
func NewDiscoveredPrinter(ep Endpoint, source DiscoverySource) DiscoveredPrinter {
	return DiscoveredPrinter{
		Name:     ep.String(),
		Endpoint: ep,
		Source:   source,
	}
}

// DisplayName 返回用于展示的名称
//
// 有主机名时返回 "hostname (address:port)"，否则返回 Name。
func (p DiscoveredPrinter) DisplayName() string {
	if p.Hostname != "" {
		return fmt.Sprintf("%s (%s)", p.Hostname, p.Endpoint.String())
	}
	return p.Name
}
