// Package main 提供 thermal-printer 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	thermalprinter "github.com/samg-hub/thermal-printer"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
)

var log = logger.Logger("cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 设计原则：
//
//	命令行参数：运行时覆盖 / 快速测试（「这次运行」想怎么跑）
//	JSON 配置文件：持久化配置 / 长期运行（「这台终端」的固定配置）
var (
	// ─────────────────────────────────────────────────────────────────────
	// 操作模式
	// ─────────────────────────────────────────────────────────────────────
	discover    = flag.Bool("discover", false, "扫描局域网打印机并输出列表")
	connectAddr = flag.String("connect", "", "连接到指定打印机（IPv4 地址或 host:port）")
	sendFile    = flag.String("send", "", "发送文件内容到打印机（- 表示标准输入，需配合 -connect）")
	watch       = flag.Bool("watch", false, "订阅并打印状态转移，直到 Ctrl+C（需配合 -connect）")

	// ─────────────────────────────────────────────────────────────────────
	// 发现参数
	// ─────────────────────────────────────────────────────────────────────
	subnetFlag  = flag.String("subnet", "", "/24 子网前缀（如 192.168.1），默认从本机地址推导")
	portFlag    = flag.Int("port", 0, "目标端口（默认 9100）")
	timeoutFlag = flag.Duration("timeout", 0, "单地址扫描超时（默认 4s）")
	ssdpFlag    = flag.Bool("ssdp", false, "同时执行 SSDP/UPnP 搜索")
	resolveFlag = flag.Bool("resolve", false, "反向解析打印机主机名")

	// ─────────────────────────────────────────────────────────────────────
	// 运行参数
	// ─────────────────────────────────────────────────────────────────────
	configFile  = flag.String("config", "", "配置文件路径")
	preset      = flag.String("preset", "", "预设配置 (desktop/kiosk/server)")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus /metrics 监听地址（如 :9464）")
	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(thermalprinter.VersionInfo())
		return nil
	}
	if *showHelp {
		printHelp()
		return nil
	}
	if !*discover && *connectAddr == "" {
		printHelp()
		return fmt.Errorf("需要 -discover 或 -connect")
	}

	if *logLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
			return fmt.Errorf("无效日志级别 %q: %w", *logLevel, err)
		}
		logger.SetGlobalLevel(lvl)
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := thermalprinter.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = c.Close() }()

	if *discover {
		return runDiscover(ctx, c)
	}
	return runConnect(ctx, c)
}

// buildOptions 构建选项
//
// 配置优先级（从高到低）：命令行参数 > 预设 > 配置文件。
func buildOptions() ([]thermalprinter.Option, error) {
	var opts []thermalprinter.Option

	if *configFile != "" {
		opts = append(opts, thermalprinter.WithConfigFile(*configFile))
	}
	if *preset != "" {
		opts = append(opts, thermalprinter.WithPreset(*preset))
	}
	if *portFlag != 0 {
		opts = append(opts, thermalprinter.WithPort(*portFlag))
	}
	if *timeoutFlag != 0 {
		opts = append(opts, thermalprinter.WithScanTimeout(*timeoutFlag))
	}
	if *ssdpFlag {
		opts = append(opts, thermalprinter.WithSSDP(true))
	}
	if *resolveFlag {
		opts = append(opts, thermalprinter.WithHostnameResolution(true))
	}
	if *metricsAddr != "" {
		opts = append(opts, thermalprinter.WithMetrics(*metricsAddr))
	}
	return opts, nil
}

// runDiscover 扫描并以表格输出发现结果
func runDiscover(ctx context.Context, c *thermalprinter.Connector) error {
	fmt.Println("正在扫描局域网打印机...")

	printers, err := c.DiscoverPrintersWithOptions(ctx, thermalprinter.DiscoverOptions{
		Subnet:  *subnetFlag,
		Port:    *portFlag,
		Timeout: *timeoutFlag,
	})
	if err != nil {
		return fmt.Errorf("扫描失败: %w", err)
	}

	if *ssdpFlag {
		upnp, err := c.DiscoverUPnP(ctx)
		if err != nil {
			log.Warn("ssdp search failed", "err", err)
		} else {
			printers = append(printers, upnp...)
		}
	}

	if len(printers) == 0 {
		fmt.Println("未发现打印机")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "端点\t主机名\t来源")
	for _, p := range printers {
		hostname := p.Hostname
		if hostname == "" {
			hostname = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Endpoint.String(), hostname, p.Source)
	}
	return w.Flush()
}

// runConnect 连接打印机，按需发送数据与监视状态
func runConnect(ctx context.Context, c *thermalprinter.Connector) error {
	if *watch {
		cancel, err := c.OnStatusChanged(func(evt thermalprinter.StatusChangedEvent) {
			if evt.Previous == evt.Current {
				return
			}
			line := fmt.Sprintf("[%s] %s -> %s",
				evt.Timestamp.Format(time.TimeOnly), evt.Previous, evt.Current)
			if evt.Current == thermalprinter.StatusNone {
				line += fmt.Sprintf(" (%s)", evt.Reason)
			}
			fmt.Println(line)
		})
		if err != nil {
			return err
		}
		defer cancel()
	}

	fmt.Printf("正在连接 %s ...\n", *connectAddr)
	if err := c.Connect(ctx, *connectAddr); err != nil {
		return fmt.Errorf("连接失败: %w", err)
	}
	fmt.Printf("已连接 %s\n", c.ConnectedEndpoint().String())

	if *sendFile != "" {
		data, err := readPayload(*sendFile)
		if err != nil {
			return err
		}
		if err := c.Send(ctx, data); err != nil {
			return fmt.Errorf("发送失败: %w", err)
		}
		fmt.Printf("已发送 %d 字节\n", len(data))
	}

	if *watch {
		fmt.Println("正在监视连接状态，按 Ctrl+C 退出")
		waitForSignal()
	}

	return c.Disconnect(ctx)
}

// readPayload 读取要发送的数据
func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// waitForSignal 阻塞等待退出信号
func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

func printHelp() {
	fmt.Printf(`%s

用法:
  thermal-printer -discover [-subnet 192.168.1] [-port 9100] [-timeout 4s] [-ssdp] [-resolve]
  thermal-printer -connect <地址> [-send <文件|->] [-watch]

示例:
  thermal-printer -discover
  thermal-printer -discover -subnet 10.0.0 -resolve
  thermal-printer -connect 192.168.1.50 -send ticket.bin
  echo hello | thermal-printer -connect 192.168.1.50:9100 -send - -watch

参数:
`, thermalprinter.VersionInfo())
	flag.PrintDefaults()
}
