package thermalprinter

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/util/logger"

	// Core Layer
	"github.com/samg-hub/thermal-printer/internal/core/connector"
	"github.com/samg-hub/thermal-printer/internal/core/eventbus"
	"github.com/samg-hub/thermal-printer/internal/core/metrics"
	"github.com/samg-hub/thermal-printer/internal/core/netinfo"
	"github.com/samg-hub/thermal-printer/internal/core/prober"
	"github.com/samg-hub/thermal-printer/internal/core/session"

	// Discovery Layer
	"github.com/samg-hub/thermal-printer/internal/discovery/resolve"
	"github.com/samg-hub/thermal-printer/internal/discovery/ssdp"
	"github.com/samg-hub/thermal-printer/internal/discovery/subnet"

	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
)

var fxLogger = logger.Logger("fx")

// buildFxApp 构建 Fx 应用
//
// 组装所有内部模块，采用条件加载策略：
//   - 核心模块：必须加载（EventBus, NetInfo, Session, Prober, Connector）
//   - 条件模块：根据配置加载（SSDP, Resolve）
//   - 扩展模块：用户自定义 Fx 选项
//
// 加载顺序（按依赖）：
//  1. Core Layer: EventBus → Metrics → NetInfo → Session → Prober → Connector
//  2. Discovery Layer: Subnet → SSDP → Resolve
func buildFxApp(cfg *config.Config, conn *Connector, userOpts []fx.Option) *fx.App {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 核心模块（必须加载）
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),

		// 基础组件（必须）
		eventbus.Module(),  // 事件总线
		metrics.Module(),   // 指标上报（禁用时注入空实现）
		netinfo.Module(),   // 本机地址服务
		session.Module(),   // 会话拨号器
		prober.Module(),    // 存活探测器
		connector.Module(), // 连接状态机
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 发现层（条件加载）
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, subnet.Module()) // 子网扫描（始终加载）

	if cfg.Discovery.EnableSSDP {
		modules = append(modules, ssdp.Module())
	}
	if cfg.Discovery.EnableResolve {
		modules = append(modules, resolve.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(userOpts) > 0 {
		modules = append(modules, userOpts...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 门面组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectComponents(conn)))

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	return fx.New(modules...)
}

// ════════════════════════════════════════════════════════════════════════════
// 组件注入辅助函数
// ════════════════════════════════════════════════════════════════════════════

// injectParams 门面组件注入参数
type injectParams struct {
	fx.In

	// 核心组件（必需）
	EventBus  pkgif.EventBus
	NetInfo   pkgif.NetInfo
	Connector *connector.Connector
	Scanner   *subnet.Scanner
	Metrics   metrics.Reporter

	// 可选组件
	Searcher *ssdp.Searcher    `optional:"true"`
	Resolver *resolve.Resolver `optional:"true"`
}

// injectComponents 创建门面组件注入函数
//
// 可选组件通过 optional:"true" 标签处理，未加载时为 nil。
func injectComponents(conn *Connector) interface{} {
	return func(params injectParams) {
		conn.bus = params.EventBus
		conn.netinfo = params.NetInfo
		conn.core = params.Connector
		conn.scanner = params.Scanner
		conn.metrics = params.Metrics
		conn.searcher = params.Searcher
		conn.resolver = params.Resolver

		fxLogger.Debug("facade components injected",
			"ssdp", params.Searcher != nil,
			"resolve", params.Resolver != nil)
	}
}
