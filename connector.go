package thermalprinter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/core/connector"
	"github.com/samg-hub/thermal-printer/internal/core/metrics"
	"github.com/samg-hub/thermal-printer/internal/core/netinfo"
	"github.com/samg-hub/thermal-printer/internal/discovery/resolve"
	"github.com/samg-hub/thermal-printer/internal/discovery/ssdp"
	"github.com/samg-hub/thermal-printer/internal/discovery/subnet"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
	"github.com/samg-hub/thermal-printer/pkg/types"

	"go.uber.org/fx"
	"go.uber.org/multierr"
)

var log = logger.Logger("thermalprinter")

// 生命周期超时
const (
	startTimeout = 15 * time.Second
	stopTimeout  = 15 * time.Second
)

// Connector 打印机连接器门面
//
// 封装内部 Fx 应用，暴露发现、连接与订阅 API。
// 并发安全；一个进程可以持有多个互不相关的 Connector。
type Connector struct {
	cfg *config.Config
	app *fx.App

	// 由 Fx 注入（见 fx.go injectComponents）
	bus      pkgif.EventBus
	netinfo  pkgif.NetInfo
	core     *connector.Connector
	scanner  *subnet.Scanner
	metrics  metrics.Reporter
	searcher *ssdp.Searcher
	resolver *resolve.Resolver

	mu      sync.Mutex
	started bool
	closed  bool
}

// New 创建连接器（未启动）
//
// 需要调用 Start 启动内部组件后才能使用。
func New(_ context.Context, opts ...Option) (*Connector, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	cfg, err := o.toConfig()
	if err != nil {
		return nil, err
	}

	c := &Connector{cfg: cfg}
	c.app = buildFxApp(cfg, c, o.userFxOptions)
	if err := c.app.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Start 创建并启动连接器（便捷入口）
func Start(ctx context.Context, opts ...Option) (*Connector, error) {
	c, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Start 启动内部组件
func (c *Connector) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}

	sctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := c.app.Start(sctx); err != nil {
		return err
	}

	c.started = true
	log.Info("connector started", "version", Version)
	return nil
}

// Close 关闭连接器
//
// 拆除活跃连接并停止所有内部组件；幂等。
func (c *Connector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	var errs error
	if c.core != nil {
		errs = multierr.Append(errs, c.core.Disconnect(ctx))
	}
	if started {
		errs = multierr.Append(errs, c.app.Stop(ctx))
	}
	if errs != nil {
		log.Warn("connector close finished with errors", "err", errs)
		return errs
	}

	log.Info("connector closed")
	return nil
}

// Config 返回生效的配置
func (c *Connector) Config() *config.Config {
	return c.cfg
}

// ensureStarted 校验可用状态
func (c *Connector) ensureStarted() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.started {
		return ErrNotStarted
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              发现 API
// ════════════════════════════════════════════════════════════════════════════

// DiscoverOptions 发现参数
type DiscoverOptions struct {
	// Subnet /24 子网前缀（"a.b.c"），为空时从本机地址推导
	Subnet string
	// Port 目标端口，为 0 时使用配置端口
	Port int
	// Timeout 单地址连接超时，为 0 时使用配置超时
	Timeout time.Duration
}

// DiscoverPrinters 批量发现局域网打印机
//
// 扫描本机所在 /24 子网并收集全部结果；
// 本机无可用地址时返回空结果，不产生任何网络活动。
func (c *Connector) DiscoverPrinters(ctx context.Context) ([]DiscoveredPrinter, error) {
	return c.DiscoverPrintersWithOptions(ctx, DiscoverOptions{})
}

// DiscoverPrintersWithOptions 按指定参数批量发现打印机
func (c *Connector) DiscoverPrintersWithOptions(ctx context.Context, opts DiscoverOptions) ([]DiscoveredPrinter, error) {
	ch, err := c.DiscoverWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	var printers []DiscoveredPrinter
	for p := range ch {
		printers = append(printers, p)
	}

	if c.resolver != nil {
		c.resolver.Enrich(ctx, printers)
	}
	return printers, nil
}

// Discover 流式发现局域网打印机
//
// 返回的通道按发现顺序产出候选打印机，扫描结束后关闭。
func (c *Connector) Discover(ctx context.Context) (<-chan DiscoveredPrinter, error) {
	return c.DiscoverWithOptions(ctx, DiscoverOptions{})
}

// DiscoverWithOptions 按指定参数流式发现打印机
func (c *Connector) DiscoverWithOptions(ctx context.Context, opts DiscoverOptions) (<-chan DiscoveredPrinter, error) {
	if err := c.ensureStarted(); err != nil {
		return nil, err
	}

	prefix := opts.Subnet
	if prefix == "" {
		addr, ok := c.netinfo.LocalIPv4()
		if !ok {
			// 本机无可用地址：空结果，零网络活动
			log.Warn("no usable local IPv4 address, discovery degraded to empty")
			empty := make(chan DiscoveredPrinter)
			close(empty)
			return empty, nil
		}
		derived, err := netinfo.SubnetPrefix(addr)
		if err != nil {
			return nil, err
		}
		prefix = derived
	} else if err := netinfo.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	port := opts.Port
	if port == 0 {
		port = c.cfg.Discovery.Port
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.cfg.Discovery.ScanTimeout.Duration()
	}

	c.metrics.ScanStarted()
	start := time.Now()

	eps := c.scanner.Scan(ctx, prefix, port, timeout)
	out := make(chan DiscoveredPrinter)
	go func() {
		defer close(out)
		found := 0
		for ep := range eps {
			printer := types.NewDiscoveredPrinter(ep, types.SourceScan)
			if c.resolver != nil {
				if name, ok := c.resolver.Lookup(ctx, ep.Address); ok {
					printer.Hostname = name
				}
			}
			c.metrics.PrinterDiscovered(types.SourceScan)
			found++
			select {
			case out <- printer:
			case <-ctx.Done():
				return
			}
		}
		c.metrics.ScanFinished(time.Since(start), found)
	}()
	return out, nil
}

// DiscoverUPnP 通过 SSDP/UPnP 搜索打印机
//
// 需要在配置中启用 SSDP（WithSSDP(true)），否则返回空结果。
func (c *Connector) DiscoverUPnP(ctx context.Context) ([]DiscoveredPrinter, error) {
	if err := c.ensureStarted(); err != nil {
		return nil, err
	}
	if c.searcher == nil {
		log.Debug("ssdp discovery disabled")
		return nil, nil
	}

	printers, err := c.searcher.Search(ctx, 0)
	if err != nil {
		return nil, err
	}
	for range printers {
		c.metrics.PrinterDiscovered(types.SourceSSDP)
	}
	if c.resolver != nil {
		c.resolver.Enrich(ctx, printers)
	}
	return printers, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              连接 API
// ════════════════════════════════════════════════════════════════════════════

// Connect 连接到打印机地址
//
// address 为纯 IPv4 地址或 "host:port"；未给端口时使用配置端口。
// 已有活跃连接时返回 ErrAlreadyConnected，无任何副作用。
func (c *Connector) Connect(ctx context.Context, address string) error {
	ep, err := ParseEndpoint(address)
	if err != nil {
		return err
	}
	if !strings.Contains(address, ":") {
		// 纯地址输入跟随配置端口
		ep.Port = c.cfg.Discovery.Port
	}
	return c.ConnectEndpoint(ctx, ep, 0)
}

// ConnectEndpoint 连接到指定端点
//
// timeout 为 0 时使用配置的连接超时。
func (c *Connector) ConnectEndpoint(ctx context.Context, ep Endpoint, timeout time.Duration) error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	return c.core.Connect(ctx, ep, timeout)
}

// Send 向打印机发送数据
//
// 仅在 StatusConnected 时有效，否则返回 ErrNotConnected。
func (c *Connector) Send(ctx context.Context, data []byte) error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	return c.core.Send(ctx, data)
}

// Disconnect 断开当前连接
//
// 幂等：无连接时为空操作成功。
func (c *Connector) Disconnect(ctx context.Context) error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	return c.core.Disconnect(ctx)
}

// DisconnectWithDelay 延迟断开当前连接
//
// delay 留给在途数据收尾，到期后销毁套接字。
func (c *Connector) DisconnectWithDelay(ctx context.Context, delay time.Duration) error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	return c.core.DisconnectWithDelay(ctx, delay)
}

// Status 返回当前连接状态
func (c *Connector) Status() ConnectionStatus {
	if err := c.ensureStarted(); err != nil {
		return StatusNone
	}
	return c.core.Status()
}

// ConnectedEndpoint 返回当前连接目标
//
// 未连接时返回零值端点。
func (c *Connector) ConnectedEndpoint() Endpoint {
	if err := c.ensureStarted(); err != nil {
		return Endpoint{}
	}
	return c.core.Endpoint()
}

// SubscribeStatus 订阅状态变更事件
//
// 订阅按发生顺序收到全部状态转移，不跳过、不合并；
// 晚到订阅者立即收到当前状态。
func (c *Connector) SubscribeStatus() (Subscription, error) {
	if err := c.ensureStarted(); err != nil {
		return nil, err
	}
	return c.core.SubscribeStatus()
}

// ════════════════════════════════════════════════════════════════════════════
//                              健康检查
// ════════════════════════════════════════════════════════════════════════════

// Health 返回各组件健康状态快照
func (c *Connector) Health(ctx context.Context) map[string]HealthStatus {
	health := make(map[string]HealthStatus)

	c.mu.Lock()
	switch {
	case c.closed:
		health["connector"] = pkgif.UnhealthyStatus("closed")
	case !c.started:
		health["connector"] = pkgif.UnhealthyStatus("not started")
	default:
		health["connector"] = pkgif.HealthyStatus("running")
	}
	c.mu.Unlock()

	if c.core != nil {
		health["connection"] = c.core.Check(ctx)
	}
	return health
}
