// Package netinfo 提供本机网络地址服务
//
// 为发现层推导默认扫描子网：取本机第一个可用的 IPv4 地址，
// 跳过回环、链路本地、虚拟网桥与 CGNAT 地址。
package netinfo

import (
	"fmt"
	"net"
	"strings"

	"github.com/samg-hub/thermal-printer/internal/util/logger"
	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("netinfo")

// 确保实现了接口
var _ pkgif.NetInfo = (*Service)(nil)

// virtualIfacePrefixes 常见虚拟网卡名前缀
//
// 这些接口上的地址不能代表本机所在的物理子网，
// 用于扫描会探测错误的网段。
var virtualIfacePrefixes = []string{
	"docker", "br-", "veth", "virbr", "vmnet", "tun", "tap", "lo",
}

// Service 本机地址服务
type Service struct {
	// interfaces 可注入的接口枚举函数（测试用）
	interfaces func() ([]net.Interface, error)
	// addrs 可注入的地址枚举函数（测试用）
	addrs func(net.Interface) ([]net.Addr, error)
}

// New 创建本机地址服务
func New() *Service {
	return &Service{
		interfaces: net.Interfaces,
		addrs:      func(iface net.Interface) ([]net.Addr, error) { return iface.Addrs() },
	}
}

// LocalIPv4 返回本机第一个可用的 IPv4 地址
//
// 无可用地址时返回 ("", false)。
func (s *Service) LocalIPv4() (string, bool) {
	ifaces, err := s.interfaces()
	if err != nil {
		log.Warn("enumerate interfaces failed", "err", err)
		return "", false
	}

	for _, iface := range ifaces {
		if !usableInterface(iface) {
			continue
		}

		addrs, err := s.addrs(iface)
		if err != nil {
			log.Debug("enumerate addrs failed", "iface", iface.Name, "err", err)
			continue
		}

		for _, addr := range addrs {
			ip := ipOf(addr)
			if ip == nil {
				continue
			}
			ip4 := ip.To4()
			if ip4 == nil {
				continue
			}
			if !usableIPv4(ip4) {
				continue
			}
			log.Debug("local IPv4 selected", "iface", iface.Name, "addr", ip4.String())
			return ip4.String(), true
		}
	}

	return "", false
}

// usableInterface 判断接口是否可用于子网推导
func usableInterface(iface net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return false
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return false
	}
	name := strings.ToLower(iface.Name)
	for _, prefix := range virtualIfacePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// usableIPv4 判断 IPv4 地址是否可用于子网推导
func usableIPv4(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return false
	}
	// CGNAT 100.64.0.0/10（常见于 VPN 出口，不代表本地子网）
	if ip[0] == 100 && ip[1] >= 64 && ip[1] <= 127 {
		return false
	}
	return true
}

// ipOf 从 net.Addr 提取 IP
func ipOf(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPNet:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}

// SubnetPrefix 从点分十进制 IPv4 地址推导 /24 前缀
//
// "192.168.1.23" -> "192.168.1"。
// 非 IPv4 点分十进制输入返回 ErrInvalidSubnetPrefix。
func SubnetPrefix(addr string) (string, error) {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidSubnetPrefix, addr)
	}

	idx := strings.LastIndex(addr, ".")
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidSubnetPrefix, addr)
	}
	return addr[:idx], nil
}

// ValidatePrefix 校验 /24 子网前缀（"a.b.c" 形式）
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: empty prefix", types.ErrInvalidSubnetPrefix)
	}
	// 补上主机段后必须是合法 IPv4
	if ip := net.ParseIP(prefix + ".1"); ip == nil || ip.To4() == nil {
		return fmt.Errorf("%w: %q", types.ErrInvalidSubnetPrefix, prefix)
	}
	return nil
}
