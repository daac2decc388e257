package resolve

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

	Resolver *Resolver
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("resolve",
		fx.Provide(ProvideResolver),
	)
}

// ProvideResolver 提供反向 DNS 解析器
func ProvideResolver(p Params) (Result, error) {
	r, err := New(p.Config.Discovery.Resolve)
	if err != nil {
		return Result{}, err
	}
	return Result{Resolver: r}, nil
}
