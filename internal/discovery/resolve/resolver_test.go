package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

func testConfig() config.ResolveConfig {
	return config.ResolveConfig{
		Timeout:   config.Duration(time.Second),
		CacheSize: 16,
	}
}

// ptrReply 构造一条 PTR 应答
func ptrReply(msg *dns.Msg, name string) *dns.Msg {
	reply := new(dns.Msg)
	reply.SetReply(msg)
	if name != "" {
		reply.Answer = append(reply.Answer, &dns.PTR{
			Hdr: dns.RR_Header{
				Name:   msg.Question[0].Name,
				Rrtype: dns.TypePTR,
				Class:  dns.ClassINET,
				Ttl:    60,
			},
			Ptr: name,
		})
	}
	return reply
}

func newTestResolver(t *testing.T, exchange ExchangeFunc) *Resolver {
	t.Helper()
	r, err := New(testConfig(), WithServers("127.0.0.1:53"), WithExchangeFunc(exchange))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func TestLookupResolvesPTR(t *testing.T) {
	r := newTestResolver(t, func(_ context.Context, msg *dns.Msg, _ string) (*dns.Msg, error) {
		if want := "10.1.168.192.in-addr.arpa."; msg.Question[0].Name != want {
			t.Errorf("question = %q, want %q", msg.Question[0].Name, want)
		}
		return ptrReply(msg, "printer-lobby.local."), nil
	})

	name, ok := r.Lookup(context.Background(), "192.168.1.10")
	if !ok {
		t.Fatal("lookup should succeed")
	}
	if name != "printer-lobby.local" {
		t.Errorf("name = %q, want %q (trailing dot stripped)", name, "printer-lobby.local")
	}
}

func TestLookupCachesHits(t *testing.T) {
	calls := 0
	r := newTestResolver(t, func(_ context.Context, msg *dns.Msg, _ string) (*dns.Msg, error) {
		calls++
		return ptrReply(msg, "cached.local."), nil
	})

	for i := 0; i < 3; i++ {
		if _, ok := r.Lookup(context.Background(), "10.0.0.1"); !ok {
			t.Fatal("lookup should succeed")
		}
	}
	if calls != 1 {
		t.Errorf("exchange called %d times, want 1 (cached)", calls)
	}
}

func TestLookupCachesMisses(t *testing.T) {
	calls := 0
	r := newTestResolver(t, func(context.Context, *dns.Msg, string) (*dns.Msg, error) {
		calls++
		return nil, errors.New("server unreachable")
	})

	for i := 0; i < 3; i++ {
		if _, ok := r.Lookup(context.Background(), "10.0.0.2"); ok {
			t.Fatal("lookup should fail")
		}
	}
	if calls != 1 {
		t.Errorf("exchange called %d times, want 1 (negative cached)", calls)
	}
}

func TestLookupNoServers(t *testing.T) {
	r, err := New(testConfig(), WithServers(), WithExchangeFunc(func(context.Context, *dns.Msg, string) (*dns.Msg, error) {
		t.Fatal("exchange should not be called without servers")
		return nil, nil
	}))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	if _, ok := r.Lookup(context.Background(), "10.0.0.3"); ok {
		t.Error("lookup without upstream should miss")
	}
}

func TestEnrichFillsHostnames(t *testing.T) {
	r := newTestResolver(t, func(_ context.Context, msg *dns.Msg, _ string) (*dns.Msg, error) {
		return ptrReply(msg, "front-desk.local."), nil
	})

	printers := []types.DiscoveredPrinter{
		types.NewDiscoveredPrinter(types.NewEndpoint("192.168.1.50", 9100), types.SourceScan),
		{
			Name:     "already named",
			Endpoint: types.NewEndpoint("192.168.1.51", 9100),
			Hostname: "keep-me.local",
			Source:   types.SourceScan,
		},
	}
	r.Enrich(context.Background(), printers)

	if printers[0].Hostname != "front-desk.local" {
		t.Errorf("hostname = %q, want enrichment", printers[0].Hostname)
	}
	if printers[1].Hostname != "keep-me.local" {
		t.Errorf("hostname = %q, existing value must be kept", printers[1].Hostname)
	}
}
