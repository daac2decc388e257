// Package connector 实现连接状态机
//
// 连接器是唯一的状态持有者：会话与探测器只报告事件，
// 状态转移全部在这里发生。状态只有 NONE 与 CONNECTED 两个
// 对外可见值；CONNECTING 仅作为并发连接的单飞守卫存在，
// 从不发布。任何断开触发源（主动断开/写失败/对端关闭/
// 套接字错误/探测失败）都收敛到同一条拆除路径，
// 由代次计数保证恰好执行一次。
package connector

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/core/metrics"
	"github.com/samg-hub/thermal-printer/internal/core/prober"
	"github.com/samg-hub/thermal-printer/internal/core/session"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("connector")

// Connector 连接状态机
//
// 所有状态转移持 mu 串行执行；状态事件的发布也在锁内，
// 保证订阅者观察到的顺序与转移顺序一致。
type Connector struct {
	cfg     config.ConnectionConfig
	dialer  *session.Dialer
	prober  *prober.Prober
	bus     pkgif.EventBus
	emitter pkgif.Emitter
	metrics metrics.Reporter

	mu       sync.Mutex
	status   types.ConnectionStatus
	sess     *session.Session
	probe    *prober.Probe
	endpoint types.Endpoint

	// gen 当前连接的代次
	//
	// 每次成功连接与每次拆除都会递增；异步触发源携带自己
	// 观察到的代次，代次不符的拆除请求一律视为过期丢弃，
	// 因此任意组合的并发触发恰好产生一次拆除。
	gen uint64
}

// New 创建连接器
//
// 创建即发布一条当前状态快照（NONE），配合有状态发射器
// 使晚到订阅者总能立即得到当前状态。
func New(cfg config.ConnectionConfig, dialer *session.Dialer, prb *prober.Prober, bus pkgif.EventBus, reporter metrics.Reporter) (*Connector, error) {
	emitter, err := bus.Emitter(new(types.EvtStatusChanged), pkgif.Stateful())
	if err != nil {
		return nil, err
	}

	c := &Connector{
		cfg:     cfg,
		dialer:  dialer,
		prober:  prb,
		bus:     bus,
		emitter: emitter,
		metrics: reporter,
		status:  types.StatusNone,
	}

	if err := emitter.Emit(types.EvtStatusChanged{
		Previous:  types.StatusNone,
		Current:   types.StatusNone,
		Timestamp: time.Now(),
	}); err != nil {
		return nil, err
	}
	return c, nil
}

// Status 返回当前连接状态
//
// 连接尝试进行中报告 NONE：CONNECTING 不对外可见。
func (c *Connector) Status() types.ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == types.StatusConnecting {
		return types.StatusNone
	}
	return c.status
}

// Endpoint 返回当前连接目标
//
// 未连接时返回零值端点。
func (c *Connector) Endpoint() types.Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != types.StatusConnected {
		return types.Endpoint{}
	}
	return c.endpoint
}

// SubscribeStatus 订阅状态变更事件
func (c *Connector) SubscribeStatus(opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	return c.bus.Subscribe(new(types.EvtStatusChanged), opts...)
}

// Connect 建立到端点的连接
//
// 非 NONE 状态直接拒绝（ErrAlreadyConnected，无任何副作用）。
// 成功时转移到 CONNECTED、发布转移、启动存活探测；
// 拨号失败时恢复 NONE、返回映射后的错误、不发布任何事件。
func (c *Connector) Connect(ctx context.Context, ep types.Endpoint, timeout time.Duration) error {
	// 单飞守卫：占住 CONNECTING，其余并发请求直接拒绝
	c.mu.Lock()
	if c.status != types.StatusNone {
		c.mu.Unlock()
		return types.ErrAlreadyConnected
	}
	c.status = types.StatusConnecting
	c.mu.Unlock()

	log.Info("connecting", "endpoint", ep.String(), "timeout", timeout)

	sess, err := c.dialer.Dial(ctx, ep, timeout)
	if err != nil {
		c.mu.Lock()
		c.status = types.StatusNone
		c.mu.Unlock()
		c.metrics.ConnectAttempt(false)
		log.Warn("connect failed", "endpoint", ep.String(), "err", err)
		return err
	}

	// 探测不可用不阻止连接，只失去存活监测
	probe, err := c.prober.Start(ep)
	if err != nil {
		log.Warn("liveness probe unavailable", "endpoint", ep.String(), "err", err)
		probe = nil
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.sess = sess
	c.probe = probe
	c.endpoint = ep
	c.status = types.StatusConnected
	c.publishLocked(types.StatusNone, types.StatusConnected, types.ReasonNone)
	c.mu.Unlock()

	c.metrics.ConnectAttempt(true)
	log.Info("connected", "endpoint", ep.String(), "session", sess.ID())

	go c.watch(gen, sess, probe)
	return nil
}

// Send 向打印机发送数据
//
// 仅在 CONNECTED 状态委托给会话；否则返回 ErrNotConnected
// 且无任何套接字活动。写失败与套接字错误走同一条拆除路径。
func (c *Connector) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	if c.status != types.StatusConnected {
		c.mu.Unlock()
		return types.ErrNotConnected
	}
	sess := c.sess
	gen := c.gen
	c.mu.Unlock()

	err := sess.Send(ctx, data)
	if err != nil {
		c.metrics.SendError()
		if errors.Is(err, types.ErrWriteFailure) {
			c.teardown(gen, types.ReasonWriteFailed)
		}
		return err
	}

	c.metrics.BytesSent(len(data))
	return nil
}

// Disconnect 断开连接
func (c *Connector) Disconnect(ctx context.Context) error {
	return c.DisconnectWithDelay(ctx, 0)
}

// DisconnectWithDelay 延迟断开连接
//
// delay > 0 时会话在销毁套接字前等待该时长（在途数据收尾）。
// 幂等：NONE 状态下为空操作成功。
func (c *Connector) DisconnectWithDelay(ctx context.Context, delay time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != types.StatusConnected {
		// 防御性兜底：清理可能残留的句柄
		if c.sess != nil {
			_ = c.sess.Close(ctx)
			c.sess = nil
		}
		return nil
	}

	c.teardownLocked(ctx, types.ReasonLocal, delay)
	return nil
}

// ============================================================================
//                              拆除路径
// ============================================================================

// teardown 异步触发源的拆除入口
//
// gen 是触发源观察到的代次；代次不符说明该连接已被拆除
// （或已被新连接替换），请求过期丢弃。
func (c *Connector) teardown(gen uint64, reason types.DisconnectReason) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.status != types.StatusConnected {
		log.Debug("stale teardown ignored", "gen", gen, "reason", reason.String())
		return
	}
	c.teardownLocked(context.Background(), reason, 0)
}

// teardownLocked 唯一的拆除序列（须持锁调用）
//
// 停探测、关会话、置 NONE、发布转移，顺序固定。
// 探测器与会话的关闭都幂等，重复进入由代次检查挡在门外。
func (c *Connector) teardownLocked(ctx context.Context, reason types.DisconnectReason, delay time.Duration) {
	ep := c.endpoint

	if c.probe != nil {
		c.probe.Stop()
		c.probe = nil
	}
	if c.sess != nil {
		_ = c.sess.CloseWithDelay(ctx, delay)
		c.sess = nil
	}

	c.gen++
	c.status = types.StatusNone
	// 先发布再清零端点，事件里带刚断开的目标
	c.publishLocked(types.StatusConnected, types.StatusNone, reason)
	c.endpoint = types.Endpoint{}

	c.metrics.Teardown(reason)
	log.Info("disconnected", "endpoint", ep.String(), "reason", reason.String())
}

// publishLocked 发布状态转移（须持锁调用）
//
// 在锁内发布保证事件顺序与转移顺序一致；
// 总线不丢事件，慢订阅者反压在这里体现。
func (c *Connector) publishLocked(prev, cur types.ConnectionStatus, reason types.DisconnectReason) {
	evt := types.EvtStatusChanged{
		Previous:  prev,
		Current:   cur,
		Endpoint:  c.endpoint,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if err := c.emitter.Emit(evt); err != nil {
		log.Error("publish status change failed", "err", err)
	}
	c.metrics.StatusChanged(cur)
}

// ============================================================================
//                              异步事件监视
// ============================================================================

// watch 监视一条连接的会话事件与探测结果
//
// 每条连接一个监视协程，携带自己的代次。任何终止性事件
// 都转交拆除路径后退出；过期代次由拆除路径自行丢弃。
func (c *Connector) watch(gen uint64, sess *session.Session, probe *prober.Probe) {
	var outcomes <-chan types.ProbeOutcome
	if probe != nil {
		outcomes = probe.Outcomes()
	}

	events := sess.Events()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				// 本地关闭：事件通道无事件关闭，无需拆除
				return
			}
			switch evt.Kind {
			case session.EventData:
				log.Debug("printer response", "session", sess.ID(), "n", len(evt.Data))
			case session.EventPeerClosed:
				c.teardown(gen, types.ReasonPeerClosed)
				return
			case session.EventError:
				log.Warn("session error", "session", sess.ID(), "err", evt.Err)
				c.teardown(gen, types.ReasonSocketError)
				return
			}

		case outcome, ok := <-outcomes:
			if !ok {
				// 探测已停止（拆除进行中），继续守会话通道
				outcomes = nil
				continue
			}
			c.metrics.ProbeOutcome(outcome.OK())
			if !outcome.OK() {
				log.Warn("liveness probe failed",
					"session", sess.ID(),
					"seq", outcome.Seq,
					"err", outcome.Err)
				c.teardown(gen, types.ReasonProbeFailed)
				return
			}
		}
	}
}

// ============================================================================
//                              健康检查
// ============================================================================

// Check 连接器健康检查
//
// NONE 是合法稳态，报告健康；CONNECTED 时附带连接详情。
func (c *Connector) Check(_ context.Context) pkgif.HealthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case types.StatusConnected:
		return pkgif.NewHealthStatusWithDetails(pkgif.HealthStateHealthy, "connected", map[string]interface{}{
			"endpoint":   c.endpoint.String(),
			"session":    c.sess.ID(),
			"bytes_sent": c.sess.BytesSent(),
		})
	case types.StatusConnecting:
		return pkgif.NewHealthStatusWithDetails(pkgif.HealthStateDegraded, "connect in flight", nil)
	default:
		return pkgif.HealthyStatus("idle")
	}
}
