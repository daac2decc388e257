// Package subnet 实现 /24 子网打印机扫描
//
// 对网段内每个主机地址并发尝试一次 TCP 连接，
// 在超时内接受连接的主机作为候选打印机产出。
// 失败的尝试静默丢弃，不是错误。
package subnet

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/samg-hub/thermal-printer/internal/util/logger"
	pkgif "github.com/samg-hub/thermal-printer/pkg/interfaces"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("subnet")

// 扫描参数
const (
	// hostMin /24 网段最小主机号
	hostMin = 1
	// hostMax /24 网段最大主机号
	hostMax = 254
	// DefaultScanTimeout 默认单地址连接超时
	DefaultScanTimeout = 4 * time.Second
)

// DialFunc 可注入的底层拨号函数（测试用）
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Scanner 子网扫描器
//
// 无状态：每次 Scan 都是全新扫描，调用间不缓存任何结果。
type Scanner struct {
	dial    DialFunc
	emitter pkgif.Emitter // EvtPrinterFound 发射器（可为 nil）
}

// Option Scanner 选项
type Option func(*Scanner)

// WithDialFunc 注入底层拨号函数
func WithDialFunc(dial DialFunc) Option {
	return func(s *Scanner) {
		s.dial = dial
	}
}

// WithEmitter 注入发现事件发射器
func WithEmitter(em pkgif.Emitter) Option {
	return func(s *Scanner) {
		s.emitter = em
	}
}

// New 创建扫描器
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	if s.dial == nil {
		d := &net.Dialer{}
		s.dial = d.DialContext
	}
	return s
}

// Scan 扫描 /24 网段
//
// 对 prefix.1 到 prefix.254 共 254 个地址并发尝试 TCP 连接，
// 成功者立即产出端点。输出序列有限、无序（按完成顺序），
// 所有尝试结束后通道关闭。空前缀立即关闭通道且无任何网络活动。
// 取消 ctx 中止未完成的尝试，通道仍会关闭。
func (s *Scanner) Scan(ctx context.Context, prefix string, port int, timeout time.Duration) <-chan types.Endpoint {
	out := make(chan types.Endpoint)

	if prefix == "" {
		close(out)
		return out
	}
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	scanID := uuid.NewString()
	start := time.Now()
	log.Info("scan started",
		"scan", scanID,
		"prefix", prefix,
		"port", port,
		"timeout", timeout)

	g, gctx := errgroup.WithContext(ctx)
	for octet := hostMin; octet <= hostMax; octet++ {
		address := fmt.Sprintf("%s.%d", prefix, octet)
		g.Go(func() error {
			s.attempt(gctx, scanID, address, port, timeout, out)
			return nil
		})
	}

	// 监督协程：全部尝试结束后关闭输出
	go func() {
		_ = g.Wait()
		close(out)
		log.Info("scan finished",
			"scan", scanID,
			"prefix", prefix,
			"elapsed", time.Since(start))
	}()

	return out
}

// attempt 单个地址的连接尝试
//
// 成功立即关闭探测套接字并产出端点；失败静默。
func (s *Scanner) attempt(ctx context.Context, scanID, address string, port int, timeout time.Duration, out chan<- types.Endpoint) {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ep := types.NewEndpoint(address, port)
	conn, err := s.dial(dctx, "tcp4", ep.Addr())
	if err != nil {
		log.Debug("attempt failed", "scan", scanID, "addr", ep.Addr(), "err", err)
		return
	}
	_ = conn.Close()

	log.Info("printer candidate found", "scan", scanID, "endpoint", ep.String())

	select {
	case out <- ep:
		s.emitFound(scanID, ep)
	case <-ctx.Done():
	}
}

// emitFound 发布发现事件
func (s *Scanner) emitFound(scanID string, ep types.Endpoint) {
	if s.emitter == nil {
		return
	}
	err := s.emitter.Emit(types.EvtPrinterFound{
		Printer:   types.NewDiscoveredPrinter(ep, types.SourceScan),
		ScanID:    scanID,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Debug("emit printer-found failed", "scan", scanID, "err", err)
	}
}

// Collect 把一次扫描收集为切片
//
// 批量与流式发现共用同一扫描原语，本函数只是收集适配器。
func Collect(ctx context.Context, ch <-chan types.Endpoint) []types.Endpoint {
	var eps []types.Endpoint
	for {
		select {
		case ep, ok := <-ch:
			if !ok {
				return eps
			}
			eps = append(eps, ep)
		case <-ctx.Done():
			return eps
		}
	}
}
