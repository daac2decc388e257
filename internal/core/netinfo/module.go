package netinfo

import (
	"go.uber.org/fx"

	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	NetInfo pkgif.NetInfo
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("netinfo",
		fx.Provide(ProvideNetInfo),
	)
}

// ProvideNetInfo 提供 NetInfo 实例
func ProvideNetInfo() Result {
	return Result{
		NetInfo: New(),
	}
}
