package prober

import (
	"go.uber.org/fx"

	"github.com/samg-hub/thermal-printer/config"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入依赖
type Params struct {
	fx.In

	Config *config.Config
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Prober *Prober
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("prober",
		fx.Provide(ProvideProber),
	)
}

// ProvideProber 提供探测器工厂
func ProvideProber(p Params) Result {
	return Result{
		Prober: New(p.Config.Liveness),
	}
}
