package connector

import (
	"go.uber.org/fx"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/core/metrics"
	"github.com/samg-hub/thermal-printer/internal/core/prober"
	"github.com/samg-hub/thermal-printer/internal/core/session"
	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入依赖
type Params struct {
	fx.In

	Config   *config.Config
	Dialer   *session.Dialer
	Prober   *prober.Prober
	EventBus pkgif.EventBus
	Metrics  metrics.Reporter
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Connector *Connector
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("connector",
		fx.Provide(ProvideConnector),
	)
}

// ProvideConnector 提供连接器
func ProvideConnector(p Params) (Result, error) {
	c, err := New(p.Config.Connection, p.Dialer, p.Prober, p.EventBus, p.Metrics)
	if err != nil {
		return Result{}, err
	}
	return Result{Connector: c}, nil
}
