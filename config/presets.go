package config

import "time"

// 预设名称常量
const (
	// PresetDesktop 桌面场景：交互式使用，默认值即可
	PresetDesktop = "desktop"
	// PresetKiosk 自助终端场景：快速发现故障，探测更激进
	PresetKiosk = "kiosk"
	// PresetServer 打印服务器场景：长连接，探测保守，开启指标
	PresetServer = "server"
)

// NewDesktopConfig 返回桌面预设配置
//
// 交互式使用场景，全部采用默认值。
func NewDesktopConfig() *Config {
	return NewConfig()
}

// NewKioskConfig 返回自助终端预设配置
//
// 无人值守票据打印场景：探测间隔和扫描超时都更短，
// 尽早发现打印机离线。
func NewKioskConfig() *Config {
	cfg := NewConfig()
	cfg.Discovery.ScanTimeout = Duration(2 * time.Second)
	cfg.Liveness.Interval = Duration(1 * time.Second)
	cfg.Liveness.Timeout = Duration(3 * time.Second)
	cfg.Connection.WriteTimeout = Duration(5 * time.Second)
	return cfg
}

// NewServerConfig 返回打印服务器预设配置
//
// 常驻服务场景：探测间隔放宽以降低网络噪声，启用指标采集。
func NewServerConfig() *Config {
	cfg := NewConfig()
	cfg.Liveness.Interval = Duration(10 * time.Second)
	cfg.Liveness.Timeout = Duration(15 * time.Second)
	cfg.Metrics.Enabled = true
	cfg.Discovery.EnableResolve = true
	return cfg
}

// ApplyPreset 按名称应用预设
//
// 未知名称返回 false，配置不变。
func ApplyPreset(cfg *Config, name string) bool {
	var preset *Config
	switch name {
	case PresetDesktop:
		preset = NewDesktopConfig()
	case PresetKiosk:
		preset = NewKioskConfig()
	case PresetServer:
		preset = NewServerConfig()
	default:
		return false
	}
	*cfg = *preset
	return true
}
