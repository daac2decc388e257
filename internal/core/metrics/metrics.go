// Package metrics 实现连接核心的指标上报
//
// Reporter 抽象隔离业务代码与 Prometheus：
// 指标关闭时注入空实现，调用方无需判空。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/samg-hub/thermal-printer/pkg/types"
)

// Reporter 指标上报接口
type Reporter interface {
	// ScanStarted 记录一次子网扫描开始
	ScanStarted()
	// ScanFinished 记录扫描耗时与发现数量
	ScanFinished(elapsed time.Duration, found int)
	// PrinterDiscovered 按来源记录一次打印机发现
	PrinterDiscovered(source types.DiscoverySource)
	// ConnectAttempt 按结果记录一次连接尝试
	ConnectAttempt(ok bool)
	// BytesSent 记录发送字节数
	BytesSent(n int)
	// SendError 记录一次发送失败
	SendError()
	// ProbeOutcome 按结果记录一次存活探测
	ProbeOutcome(ok bool)
	// StatusChanged 记录当前连接状态
	StatusChanged(status types.ConnectionStatus)
	// Teardown 按原因记录一次连接拆除
	Teardown(reason types.DisconnectReason)
}

// ============================================================================
//                              空实现
// ============================================================================

// NopReporter 空上报器
type NopReporter struct{}

var _ Reporter = NopReporter{}

func (NopReporter) ScanStarted()                                 {}
func (NopReporter) ScanFinished(time.Duration, int)              {}
func (NopReporter) PrinterDiscovered(types.DiscoverySource)      {}
func (NopReporter) ConnectAttempt(bool)                          {}
func (NopReporter) BytesSent(int)                                {}
func (NopReporter) SendError()                                   {}
func (NopReporter) ProbeOutcome(bool)                            {}
func (NopReporter) StatusChanged(types.ConnectionStatus)         {}
func (NopReporter) Teardown(types.DisconnectReason)              {}

// ============================================================================
//                              Prometheus 实现
// ============================================================================

// PromReporter Prometheus 上报器
//
// 所有指标注册在独立 Registry 上，不污染全局默认注册表。
type PromReporter struct {
	registry *prometheus.Registry

	scansTotal     prometheus.Counter
	scanDuration   prometheus.Histogram
	discovered     *prometheus.CounterVec
	connectTotal   *prometheus.CounterVec
	bytesSent      prometheus.Counter
	sendErrors     prometheus.Counter
	probesTotal    *prometheus.CounterVec
	statusGauge    prometheus.Gauge
	teardownsTotal *prometheus.CounterVec
}

var _ Reporter = (*PromReporter)(nil)

// NewPromReporter 创建 Prometheus 上报器
func NewPromReporter() *PromReporter {
	r := &PromReporter{
		registry: prometheus.NewRegistry(),
		scansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "discovery",
			Name:      "scans_total",
			Help:      "Number of subnet scans started.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "thermalprinter",
			Subsystem: "discovery",
			Name:      "scan_duration_seconds",
			Help:      "Duration of completed subnet scans.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		discovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "discovery",
			Name:      "printers_discovered_total",
			Help:      "Printers discovered, by source.",
		}, []string{"source"}),
		connectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "connection",
			Name:      "connect_attempts_total",
			Help:      "Connection attempts, by result.",
		}, []string{"result"}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "connection",
			Name:      "bytes_sent_total",
			Help:      "Payload bytes written to the printer socket.",
		}),
		sendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "connection",
			Name:      "send_errors_total",
			Help:      "Send operations that failed.",
		}),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "liveness",
			Name:      "probes_total",
			Help:      "Liveness probes, by result.",
		}, []string{"result"}),
		statusGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thermalprinter",
			Subsystem: "connection",
			Name:      "status",
			Help:      "Current connection status (0 none, 1 connecting, 2 connected).",
		}),
		teardownsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thermalprinter",
			Subsystem: "connection",
			Name:      "teardowns_total",
			Help:      "Connection teardowns, by reason.",
		}, []string{"reason"}),
	}

	r.registry.MustRegister(
		r.scansTotal,
		r.scanDuration,
		r.discovered,
		r.connectTotal,
		r.bytesSent,
		r.sendErrors,
		r.probesTotal,
		r.statusGauge,
		r.teardownsTotal,
	)
	return r
}

// Registry 返回指标注册表（供 HTTP 暴露）
func (r *PromReporter) Registry() *prometheus.Registry {
	return r.registry
}

func (r *PromReporter) ScanStarted() {
	r.scansTotal.Inc()
}

func (r *PromReporter) ScanFinished(elapsed time.Duration, found int) {
	r.scanDuration.Observe(elapsed.Seconds())
}

func (r *PromReporter) PrinterDiscovered(source types.DiscoverySource) {
	r.discovered.WithLabelValues(string(source)).Inc()
}

func (r *PromReporter) ConnectAttempt(ok bool) {
	r.connectTotal.WithLabelValues(resultLabel(ok)).Inc()
}

func (r *PromReporter) BytesSent(n int) {
	r.bytesSent.Add(float64(n))
}

func (r *PromReporter) SendError() {
	r.sendErrors.Inc()
}

func (r *PromReporter) ProbeOutcome(ok bool) {
	r.probesTotal.WithLabelValues(resultLabel(ok)).Inc()
}

func (r *PromReporter) StatusChanged(status types.ConnectionStatus) {
	r.statusGauge.Set(float64(status))
}

func (r *PromReporter) Teardown(reason types.DisconnectReason) {
	r.teardownsTotal.WithLabelValues(reason.String()).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
