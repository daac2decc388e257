// Package resolve 实现发现结果的反向 DNS 主机名增强
//
// 对扫描到的打印机地址做 PTR 查询，把主机名补充进发现结果。
// 命中与未命中都会缓存，避免重复扫描时反复查询同一地址。
package resolve

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/miekg/dns"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/internal/util/logger"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

var log = logger.Logger("resolve")

// 解析参数
const (
	// DefaultTimeout 默认单次查询超时
	DefaultTimeout = 1 * time.Second
	// DefaultCacheSize 默认缓存条目数
	DefaultCacheSize = 256
	// resolvConfPath 系统解析器配置路径
	resolvConfPath = "/etc/resolv.conf"
)

// ExchangeFunc 可注入的底层 DNS 查询函数（测试用）
type ExchangeFunc func(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error)

// Resolver 反向 DNS 解析器
//
// 缓存键为点分 IPv4 地址，值为主机名；未命中缓存空串，
// 使一次失败的查询在缓存存续期内不再重试。
type Resolver struct {
	cfg      config.ResolveConfig
	servers  []string
	exchange ExchangeFunc
	cache    *lru.Cache[string, string]
}

// Option Resolver 选项
type Option func(*Resolver)

// WithExchangeFunc 注入底层查询函数
func WithExchangeFunc(exchange ExchangeFunc) Option {
	return func(r *Resolver) {
		r.exchange = exchange
	}
}

// WithServers 指定上游解析器地址（host:port）
//
// 不带参数调用表示显式禁用上游（不回落到系统配置）。
func WithServers(servers ...string) Option {
	return func(r *Resolver) {
		r.servers = append([]string{}, servers...)
	}
}

// New 创建解析器
//
// 上游解析器默认取自系统 /etc/resolv.conf；
// 读取失败时解析器仍可用，所有查询未命中。
func New(cfg config.ResolveConfig, opts ...Option) (*Resolver, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		cfg:   cfg,
		cache: cache,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.servers == nil {
		if cc, err := dns.ClientConfigFromFile(resolvConfPath); err == nil {
			for _, s := range cc.Servers {
				r.servers = append(r.servers, s+":"+cc.Port)
			}
		} else {
			log.Warn("system resolver config unavailable", "err", err)
		}
	}
	if r.exchange == nil {
		client := &dns.Client{Timeout: r.timeout()}
		r.exchange = func(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error) {
			reply, _, err := client.ExchangeContext(ctx, msg, server)
			return reply, err
		}
	}
	return r, nil
}

// Lookup 反向解析地址对应的主机名
//
// 命中缓存直接返回；否则做一次 PTR 查询并缓存结果
// （查询失败也缓存未命中）。无可用上游或查询失败返回 false。
func (r *Resolver) Lookup(ctx context.Context, ip string) (string, bool) {
	if name, ok := r.cache.Get(ip); ok {
		return name, name != ""
	}

	name := r.query(ctx, ip)
	r.cache.Add(ip, name)
	return name, name != ""
}

// Enrich 为发现结果补充主机名
//
// 就地修改，仅填充尚无主机名的条目。
func (r *Resolver) Enrich(ctx context.Context, printers []types.DiscoveredPrinter) {
	for i := range printers {
		if printers[i].Hostname != "" {
			continue
		}
		if name, ok := r.Lookup(ctx, printers[i].Endpoint.Address); ok {
			printers[i].Hostname = name
		}
	}
}

// query 执行一次 PTR 查询
func (r *Resolver) query(ctx context.Context, ip string) string {
	if len(r.servers) == 0 {
		return ""
	}

	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		log.Debug("reverse addr failed", "ip", ip, "err", err)
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(arpa, dns.TypePTR)

	qctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	for _, server := range r.servers {
		reply, err := r.exchange(qctx, msg, server)
		if err != nil {
			log.Debug("ptr query failed", "ip", ip, "server", server, "err", err)
			continue
		}
		for _, rr := range reply.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				return strings.TrimSuffix(ptr.Ptr, ".")
			}
		}
		// 权威空应答无需再问下一个上游
		if reply.Rcode == dns.RcodeSuccess || reply.Rcode == dns.RcodeNameError {
			return ""
		}
	}
	return ""
}

// timeout 单次查询超时
func (r *Resolver) timeout() time.Duration {
	if d := r.cfg.Timeout.Duration(); d > 0 {
		return d
	}
	return DefaultTimeout
}
