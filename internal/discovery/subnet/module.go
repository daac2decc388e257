package subnet

import (
	"go.uber.org/fx"

	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入依赖
type Params struct {
	fx.In

	EventBus pkgif.EventBus
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Scanner *Scanner
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("subnet",
		fx.Provide(ProvideScanner),
	)
}

// ProvideScanner 提供子网扫描器
func ProvideScanner(p Params) (Result, error) {
	em, err := p.EventBus.Emitter(new(types.EvtPrinterFound))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Scanner: New(WithEmitter(em)),
	}, nil
}
