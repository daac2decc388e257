// Package ssdp 实现 SSDP/UPnP 打印机搜索
//
// 作为子网扫描的补充发现来源：对局域网发起 M-SEARCH，
// 筛选打印机类设备，从响应的 Location 中提取端点。
// 仅做发现，不隐式进入连接路径。
package ssdp

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/koron/go-ssdp"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("ssdp")

// DefaultSearchWait 默认 M-SEARCH 等待时长
const DefaultSearchWait = 3 * time.Second

// printerTypeMarkers 打印机类设备/服务的 URN 标记
var printerTypeMarkers = []string{
	"device:printer",
	"service:printbasic",
	"service:printenhanced",
}

// SearchFunc 可注入的底层 M-SEARCH 函数（测试用）
type SearchFunc func(searchType string, waitSec int, localAddr string) ([]ssdp.Service, error)

// Searcher SSDP 打印机搜索器
type Searcher struct {
	cfg    config.SSDPConfig
	search SearchFunc
}

// Option Searcher 选项
type Option func(*Searcher)

// WithSearchFunc 注入底层搜索函数
func WithSearchFunc(search SearchFunc) Option {
	return func(s *Searcher) {
		s.search = search
	}
}

// New 创建搜索器
func New(cfg config.SSDPConfig, opts ...Option) *Searcher {
	s := &Searcher{
		cfg:    cfg,
		search: ssdp.Search,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search 发起一轮 M-SEARCH 并返回打印机类设备
//
// 搜索目标为 ssdp:all，结果按设备/服务类型筛选并按端点去重。
// wait <= 0 时使用配置等待时长。
func (s *Searcher) Search(ctx context.Context, wait time.Duration) ([]types.DiscoveredPrinter, error) {
	if wait <= 0 {
		wait = s.cfg.SearchWait.Duration()
	}
	if wait <= 0 {
		wait = DefaultSearchWait
	}
	waitSec := int(wait / time.Second)
	if waitSec < 1 {
		waitSec = 1
	}

	type result struct {
		services []ssdp.Service
		err      error
	}
	done := make(chan result, 1)
	go func() {
		services, err := s.search(ssdp.All, waitSec, "")
		done <- result{services, err}
	}()

	var services []ssdp.Service
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		services = r.services
	}

	seen := make(map[types.Endpoint]bool)
	var printers []types.DiscoveredPrinter
	for _, svc := range services {
		if !isPrinterService(svc) {
			continue
		}
		ep, ok := endpointFromLocation(svc.Location)
		if !ok || seen[ep] {
			continue
		}
		seen[ep] = true

		p := types.NewDiscoveredPrinter(ep, types.SourceSSDP)
		if name := friendlyName(svc); name != "" {
			p.Name = name
		}
		printers = append(printers, p)
		log.Debug("ssdp printer found",
			"endpoint", ep.String(),
			"type", svc.Type,
			"usn", svc.USN)
	}

	log.Info("ssdp search finished",
		"responses", len(services),
		"printers", len(printers),
		"wait", wait)
	return printers, nil
}

// isPrinterService 判断响应是否为打印机类设备/服务
func isPrinterService(svc ssdp.Service) bool {
	st := strings.ToLower(svc.Type)
	usn := strings.ToLower(svc.USN)
	for _, marker := range printerTypeMarkers {
		if strings.Contains(st, marker) || strings.Contains(usn, marker) {
			return true
		}
	}
	return false
}

// endpointFromLocation 从 Location URL 提取打印端点
//
// Location 指向设备描述页，其端口是 HTTP 管理端口而非打印端口，
// 因此仅取主机地址，端口一律使用原始打印默认端口。
func endpointFromLocation(location string) (types.Endpoint, bool) {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return types.Endpoint{}, false
	}
	host := u.Hostname()
	if net.ParseIP(host) == nil {
		return types.Endpoint{}, false
	}
	return types.NewEndpoint(host, types.DefaultPrinterPort), true
}

// friendlyName 从响应头提取展示名称
func friendlyName(svc ssdp.Service) string {
	if server := svc.Server; server != "" {
		return server
	}
	return ""
}
