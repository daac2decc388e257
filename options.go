package thermalprinter

import (
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/samg-hub/thermal-printer/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 完整配置（优先级最低，后续选项在其上覆盖）
	config     *config.Config
	configFile string
	preset     string

	// 发现配置
	port          *int
	scanTimeout   *time.Duration
	enableSSDP    *bool
	enableResolve *bool

	// 连接配置
	connectTimeout *time.Duration
	writeTimeout   *time.Duration

	// 存活探测配置
	probeInterval *time.Duration
	probeTimeout  *time.Duration

	// 指标配置
	metricsAddr *string

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// toConfig 组装最终配置
//
// 应用顺序：文件/完整配置 → 预设 → 单项覆盖。
func (o *options) toConfig() (*config.Config, error) {
	cfg := config.NewConfig()

	if o.configFile != "" {
		loaded, err := config.LoadFromFile(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
		cfg = loaded
	}
	if o.config != nil {
		cfg = o.config
	}
	if o.preset != "" {
		if !config.ApplyPreset(cfg, o.preset) {
			return nil, fmt.Errorf("unknown preset: %q", o.preset)
		}
	}

	if o.port != nil {
		cfg.Discovery.Port = *o.port
	}
	if o.scanTimeout != nil {
		cfg.Discovery.ScanTimeout = config.Duration(*o.scanTimeout)
	}
	if o.enableSSDP != nil {
		cfg.Discovery.EnableSSDP = *o.enableSSDP
	}
	if o.enableResolve != nil {
		cfg.Discovery.EnableResolve = *o.enableResolve
	}
	if o.connectTimeout != nil {
		cfg.Connection.ConnectTimeout = config.Duration(*o.connectTimeout)
	}
	if o.writeTimeout != nil {
		cfg.Connection.WriteTimeout = config.Duration(*o.writeTimeout)
	}
	if o.probeInterval != nil {
		cfg.Liveness.Interval = config.Duration(*o.probeInterval)
	}
	if o.probeTimeout != nil {
		cfg.Liveness.Timeout = config.Duration(*o.probeTimeout)
	}
	if o.metricsAddr != nil {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = *o.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置选项
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置对象
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("config must not be nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configFile = path
		return nil
	}
}

// WithPreset 应用命名预设（desktop / kiosk / server）
func WithPreset(name string) Option {
	return func(o *options) error {
		o.preset = name
		return nil
	}
}

// WithPort 设置扫描与连接的目标端口
func WithPort(port int) Option {
	return func(o *options) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		o.port = &port
		return nil
	}
}

// WithScanTimeout 设置扫描单地址超时
func WithScanTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("scan timeout must be positive")
		}
		o.scanTimeout = &d
		return nil
	}
}

// WithConnectTimeout 设置连接建立超时
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("connect timeout must be positive")
		}
		o.connectTimeout = &d
		return nil
	}
}

// WithWriteTimeout 设置单次写入超时
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("write timeout must be positive")
		}
		o.writeTimeout = &d
		return nil
	}
}

// WithProbeInterval 设置存活探测间隔
func WithProbeInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("probe interval must be positive")
		}
		o.probeInterval = &d
		return nil
	}
}

// WithProbeTimeout 设置单次探测超时
func WithProbeTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("probe timeout must be positive")
		}
		o.probeTimeout = &d
		return nil
	}
}

// WithSSDP 启用/禁用 SSDP 搜索
func WithSSDP(enable bool) Option {
	return func(o *options) error {
		o.enableSSDP = &enable
		return nil
	}
}

// WithHostnameResolution 启用/禁用反向 DNS 主机名解析
func WithHostnameResolution(enable bool) Option {
	return func(o *options) error {
		o.enableResolve = &enable
		return nil
	}
}

// WithMetrics 启用 Prometheus 指标并在指定地址暴露 /metrics
//
// addr 为空串时启用采集但不启动 HTTP 暴露。
func WithMetrics(addr string) Option {
	return func(o *options) error {
		o.metricsAddr = &addr
		return nil
	}
}

// WithFxOption 附加用户自定义 Fx 选项（扩展点）
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
