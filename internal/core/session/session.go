// Package session 实现与打印机的 TCP 连接会话
//
// 一个 Session 独占一个数据套接字：负责建立、写入、延迟关闭，
// 并把入站数据与套接字关闭/错误作为事件上报。
// 会话只报告，从不决定连接器状态。
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	tec "github.com/jbenet/go-temp-err-catcher"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("session")

// ============================================================================
//                              会话事件
// ============================================================================

// EventKind 会话事件类型
type EventKind int

const (
	// EventData 收到入站数据（打印机状态回传）
	EventData EventKind = iota
	// EventPeerClosed 对端正常关闭套接字
	EventPeerClosed
	// EventError 套接字错误
	EventError
)

// String 返回事件类型的字符串表示
func (k EventKind) String() string {
	switch k {
	case EventData:
		return "data"
	case EventPeerClosed:
		return "peer_closed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event 会话事件
//
// 由读取循环异步产生，经事件通道交给连接器。
type Event struct {
	// Kind 事件类型
	Kind EventKind
	// Data 入站数据（仅 EventData 有效）
	Data []byte
	// Err 错误原因（仅 EventError 有效）
	Err error
}

// ============================================================================
//                              Dialer
// ============================================================================

// DialFunc 可注入的底层拨号函数（测试用）
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Dialer 会话拨号器
//
// 从配置产生 Session；失败时不保留任何套接字。
type Dialer struct {
	cfg  config.ConnectionConfig
	dial DialFunc
}

// DialerOption Dialer 选项
type DialerOption func(*Dialer)

// WithDialFunc 注入底层拨号函数
func WithDialFunc(dial DialFunc) DialerOption {
	return func(d *Dialer) {
		d.dial = dial
	}
}

// NewDialer 创建拨号器
func NewDialer(cfg config.ConnectionConfig, opts ...DialerOption) *Dialer {
	d := &Dialer{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}
	if d.dial == nil {
		nd := &net.Dialer{}
		d.dial = nd.DialContext
	}
	return d
}

// Dial 建立到端点的会话
//
// timeout 为 0 时使用配置的连接超时。
// 失败映射为 ErrConnectTimeout / ErrConnectRefused / ErrNetworkUnreachable。
func (d *Dialer) Dial(ctx context.Context, ep types.Endpoint, timeout time.Duration) (*Session, error) {
	if err := ep.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidEndpoint, err)
	}
	if timeout <= 0 {
		timeout = d.cfg.ConnectTimeout.Duration()
	}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := d.dial(dctx, "tcp4", ep.Addr())
	if err != nil {
		return nil, mapDialError(err)
	}

	// 设置连接选项
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if d.cfg.NoDelay {
			_ = tcpConn.SetNoDelay(true)
		}
		if ka := d.cfg.KeepAlive.Duration(); ka > 0 {
			_ = tcpConn.SetKeepAlive(true)
			_ = tcpConn.SetKeepAlivePeriod(ka)
		}
	}

	s := &Session{
		id:       uuid.NewString(),
		endpoint: ep,
		conn:     conn,
		cfg:      d.cfg,
		events:   make(chan Event, 16),
	}

	log.Info("session established",
		"session", s.id,
		"endpoint", ep.String())

	go s.readLoop()

	return s, nil
}

// mapDialError 把平台拨号错误映射到公共错误分类
func mapDialError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err):
		return fmt.Errorf("%w: %v", types.ErrConnectTimeout, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %v", types.ErrConnectRefused, err)
	case errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH):
		return fmt.Errorf("%w: %v", types.ErrNetworkUnreachable, err)
	default:
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return fmt.Errorf("%w: %v", types.ErrConnectTimeout, err)
		}
		return fmt.Errorf("dial: %w", err)
	}
}

// ============================================================================
//                              Session
// ============================================================================

// Session 打印机连接会话
type Session struct {
	id       string
	endpoint types.Endpoint
	conn     net.Conn
	cfg      config.ConnectionConfig

	// events 由读取循环独占关闭
	events chan Event

	mu        sync.Mutex
	closed    atomic.Bool
	bytesSent atomic.Int64
}

// ID 返回会话标识（用于日志关联）
func (s *Session) ID() string {
	return s.id
}

// Endpoint 返回会话目标端点
func (s *Session) Endpoint() types.Endpoint {
	return s.endpoint
}

// Events 返回会话事件通道
//
// 会话终止后通道关闭。
func (s *Session) Events() <-chan Event {
	return s.events
}

// BytesSent 返回累计发送字节数
func (s *Session) BytesSent() int64 {
	return s.bytesSent.Load()
}

// IsClosed 检查会话是否已关闭
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Send 向套接字写入数据
//
// 会话已关闭时返回 ErrNotConnected。
// 写入失败时会话自行关闭（关闭事件先于错误返回上报），
// 返回包装了底层原因的 ErrWriteFailure。
func (s *Session) Send(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return types.ErrNotConnected
	}

	// 写超时：优先采用调用方 context 的截止时间
	deadline := time.Now().Add(s.cfg.WriteTimeout.Duration())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		log.Debug("set write deadline failed", "session", s.id, "err", err)
	}

	n, err := s.conn.Write(data)
	s.bytesSent.Add(int64(n))
	if err != nil {
		log.Warn("write failed, closing session",
			"session", s.id,
			"written", n,
			"err", err)
		s.shutdown()
		return fmt.Errorf("%w: %v", types.ErrWriteFailure, err)
	}

	log.Debug("bytes sent", "session", s.id, "n", n)
	return nil
}

// Close 关闭会话
//
// 幂等：重复关闭为空操作成功。
func (s *Session) Close(ctx context.Context) error {
	return s.CloseWithDelay(ctx, 0)
}

// CloseWithDelay 延迟关闭会话
//
// delay > 0 时先等待该时长（允许应用层收尾数据在途完成），
// 再销毁套接字上报关闭。等待可被 ctx 取消提前结束。
func (s *Session) CloseWithDelay(ctx context.Context, delay time.Duration) error {
	if s.closed.Load() {
		return nil
	}

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}

	s.shutdown()
	return nil
}

// shutdown 标记关闭并销毁套接字
//
// closed 标志先行置位，读取循环据此区分主动关闭与对端事件。
func (s *Session) shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	_ = s.conn.Close()
	log.Info("session closed",
		"session", s.id,
		"endpoint", s.endpoint.String(),
		"bytes_sent", s.bytesSent.Load())
}

// readLoop 后台读取循环
//
// 排空入站数据（打印机偶尔回传状态字节），把 EOF 和套接字错误
// 转换为事件。临时性网络错误不终止循环。
// 事件通道由本循环独占关闭。
func (s *Session) readLoop() {
	defer close(s.events)

	var catcher tec.TempErrCatcher
	buf := make([]byte, s.cfg.ReadBufferSize)

	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			log.Debug("inbound data", "session", s.id, "n", n)
			s.events <- Event{Kind: EventData, Data: data}
		}
		if err == nil {
			continue
		}

		// 主动关闭：不上报事件，直接退出
		if s.closed.Load() {
			return
		}

		if catcher.IsTemporary(err) {
			continue
		}

		if errors.Is(err, io.EOF) {
			log.Info("peer closed connection", "session", s.id)
			s.shutdown()
			s.events <- Event{Kind: EventPeerClosed}
			return
		}

		log.Warn("socket error", "session", s.id, "err", err)
		s.shutdown()
		s.events <- Event{Kind: EventError, Err: err}
		return
	}
}
