// Package prober 实现周期性存活探测
//
// 探测器独立于数据套接字，对连接目标周期性发送 ICMP 回显请求，
// 把每次结果作为异步序列上报。无 ICMP 权限的环境可按配置回退
// 为对打印端口的 TCP 连接探测。
package prober

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("prober")

// PingFunc 单次探测函数
//
// 成功返回往返时延；失败返回错误（超时/不可达/主机错误）。
type PingFunc func(ctx context.Context, ep types.Endpoint, seq int, timeout time.Duration) (time.Duration, error)

// ============================================================================
//                              Prober
// ============================================================================

// Prober 探测器工厂
//
// 每次 Start 产生一个独立的 Probe；探测方式在 Start 时决定：
// 优先无特权 ICMP，不可用且启用回退时改用 TCP 连接探测。
type Prober struct {
	cfg   config.LivenessConfig
	clock clock.Clock
	ping  PingFunc
}

// Option Prober 选项
type Option func(*Prober)

// WithClock 注入时钟（测试用）
func WithClock(c clock.Clock) Option {
	return func(p *Prober) {
		p.clock = c
	}
}

// WithPingFunc 注入探测函数（测试用）
func WithPingFunc(ping PingFunc) Option {
	return func(p *Prober) {
		p.ping = ping
	}
}

// New 创建探测器工厂
func New(cfg config.LivenessConfig, opts ...Option) *Prober {
	p := &Prober{
		cfg:   cfg,
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start 对端点启动周期探测
//
// 返回的 Probe 以配置的间隔探测，单次探测受配置超时约束。
// 探测方式不可用（无 ICMP 权限且未启用 TCP 回退）时返回
// ErrProbeUnavailable。
func (p *Prober) Start(ep types.Endpoint) (*Probe, error) {
	ping := p.ping
	if ping == nil {
		var err error
		ping, err = selectPingFunc(p.cfg)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	probe := &Probe{
		endpoint: ep,
		interval: p.cfg.Interval.Duration(),
		timeout:  p.cfg.Timeout.Duration(),
		clock:    p.clock,
		ping:     ping,
		ctx:      ctx,
		cancel:   cancel,
		out:      make(chan types.ProbeOutcome, 16),
	}

	log.Info("probe started",
		"endpoint", ep.String(),
		"interval", probe.interval,
		"timeout", probe.timeout)

	go probe.loop()

	return probe, nil
}

// ============================================================================
//                              Probe
// ============================================================================

// Probe 一次探测任务
//
// Stop 后不再投递任何结果：结果抑制由探测器自身保证
// （每次投递前检查取消状态），消费方无需防御。
type Probe struct {
	endpoint types.Endpoint
	interval time.Duration
	timeout  time.Duration
	clock    clock.Clock
	ping     PingFunc

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	out      chan types.ProbeOutcome
}

// Endpoint 返回探测目标
func (p *Probe) Endpoint() types.Endpoint {
	return p.endpoint
}

// Outcomes 返回探测结果通道
//
// Stop 后通道关闭。
func (p *Probe) Outcomes() <-chan types.ProbeOutcome {
	return p.out
}

// Stop 停止探测
//
// 立即取消待定的定时器与在途探测；幂等。
func (p *Probe) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		log.Debug("probe stopped", "endpoint", p.endpoint.String())
	})
}

// loop 探测循环
//
// 结果通道由本循环独占关闭。
func (p *Probe) loop() {
	defer close(p.out)

	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
		}

		seq++
		pctx, cancel := context.WithTimeout(p.ctx, p.timeout)
		rtt, err := p.ping(pctx, p.endpoint, seq, p.timeout)
		cancel()

		outcome := types.ProbeOutcome{
			Seq:       seq,
			RTT:       rtt,
			Err:       err,
			Timestamp: time.Now(),
		}

		if err != nil {
			log.Debug("probe failed", "endpoint", p.endpoint.String(), "seq", seq, "err", err)
		} else {
			log.Debug("probe ok", "endpoint", p.endpoint.String(), "seq", seq, "rtt", rtt)
		}

		// Stop 后抑制结果投递
		select {
		case <-p.ctx.Done():
			return
		case p.out <- outcome:
		}
	}
}
