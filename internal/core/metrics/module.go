package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
)

var log = logger.Logger("metrics")

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入依赖
type Params struct {
	fx.In

	Config    *config.Config
	Lifecycle fx.Lifecycle
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Reporter Reporter
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideReporter),
	)
}

// ProvideReporter 提供指标上报器
//
// 指标关闭时提供空实现；启用且配置了监听地址时
// 随生命周期启动 /metrics 暴露服务。
func ProvideReporter(p Params) Result {
	cfg := p.Config.Metrics
	if !cfg.Enabled {
		return Result{Reporter: NopReporter{}}
	}

	reporter := NewPromReporter()
	if cfg.ListenAddr != "" {
		registerExposition(p.Lifecycle, cfg.ListenAddr, reporter)
	}
	return Result{Reporter: reporter}
}

// registerExposition 注册 /metrics HTTP 暴露服务
func registerExposition(lc fx.Lifecycle, addr string, reporter *PromReporter) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reporter.Registry(), promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			log.Info("metrics exposition started", "addr", ln.Addr().String())
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server failed", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Debug("metrics exposition stopping")
			return server.Shutdown(ctx)
		},
	})
}
