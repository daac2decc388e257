// Package interfaces 定义打印机连接核心的公共接口
//
// 本文件定义本机地址服务接口。
package interfaces

// NetInfo 本机网络地址服务
//
// 为发现层提供默认扫描子网的推导依据。
// 实现应跳过回环、链路本地、虚拟网桥与 CGNAT 地址。
type NetInfo interface {
	// LocalIPv4 返回本机第一个可用的 IPv4 地址
	//
	// 无可用地址时返回 ("", false)，调用方应将扫描降级为空结果，
	// 不产生任何网络活动。
	LocalIPv4() (string, bool)
}
