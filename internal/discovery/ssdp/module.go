package ssdp

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

	Searcher *Searcher
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("ssdp",
		fx.Provide(ProvideSearcher),
	)
}

// ProvideSearcher 提供 SSDP 搜索器
func ProvideSearcher(p Params) Result {
	return Result{
		Searcher: New(p.Config.Discovery.SSDP),
	}
}
