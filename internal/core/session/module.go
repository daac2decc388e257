package session

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

	Dialer *Dialer
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("session",
		fx.Provide(ProvideDialer),
	)
}

// ProvideDialer 提供会话拨号器
func ProvideDialer(p Params) Result {
	return Result{
		Dialer: NewDialer(p.Config.Connection),
	}
}
