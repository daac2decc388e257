package subnet

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samg-hub/thermal-printer/pkg/types"
)

// fakeConn 满足 net.Conn 的空实现
type fakeConn struct {
	net.Conn
}

func (fakeConn) Close() error { return nil }

// dialOnly 只让给定地址集合的拨号成功
func dialOnly(addrs ...string) DialFunc {
	ok := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		ok[a] = true
	}
	return func(_ context.Context, _, addr string) (net.Conn, error) {
		if ok[addr] {
			return fakeConn{}, nil
		}
		return nil, fmt.Errorf("connection refused")
	}
}

func TestScanFindsResponders(t *testing.T) {
	s := New(WithDialFunc(dialOnly("192.168.1.50:9100", "192.168.1.200:9100")))

	found := map[string]bool{}
	for ep := range s.Scan(context.Background(), "192.168.1", 9100, time.Second) {
		found[ep.String()] = true
	}

	if len(found) != 2 {
		t.Fatalf("found %d endpoints, want 2: %v", len(found), found)
	}
	if !found["192.168.1.50:9100"] || !found["192.168.1.200:9100"] {
		t.Errorf("missing expected endpoints: %v", found)
	}
}

func TestScanAttemptsAllHosts(t *testing.T) {
	var attempts atomic.Int32
	dial := func(_ context.Context, _, _ string) (net.Conn, error) {
		attempts.Add(1)
		return nil, fmt.Errorf("connection refused")
	}

	s := New(WithDialFunc(dial))
	for range s.Scan(context.Background(), "10.0.0", 9100, time.Second) {
	}

	if got := attempts.Load(); got != 254 {
		t.Errorf("attempts = %d, want 254", got)
	}
}

func TestScanEmptyPrefixClosesImmediately(t *testing.T) {
	var attempts atomic.Int32
	dial := func(_ context.Context, _, _ string) (net.Conn, error) {
		attempts.Add(1)
		return nil, fmt.Errorf("unexpected dial")
	}

	s := New(WithDialFunc(dial))
	ch := s.Scan(context.Background(), "", 9100, time.Second)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("empty prefix should produce no endpoints")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed for empty prefix")
	}
	if attempts.Load() != 0 {
		t.Errorf("empty prefix triggered %d dials, want 0", attempts.Load())
	}
}

func TestScanCancel(t *testing.T) {
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done() // 挂起直到取消
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := New(WithDialFunc(dial))
	ch := s.Scan(ctx, "172.16.0", 9100, 30*time.Second)

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("cancelled scan should produce no endpoints")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestScanDefaultTimeout(t *testing.T) {
	var sawDeadline atomic.Bool
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		if _, ok := ctx.Deadline(); ok {
			sawDeadline.Store(true)
		}
		return nil, fmt.Errorf("connection refused")
	}

	s := New(WithDialFunc(dial))
	for range s.Scan(context.Background(), "10.1.2", 9100, 0) {
	}

	if !sawDeadline.Load() {
		t.Error("zero timeout should fall back to the default deadline")
	}
}

func TestCollect(t *testing.T) {
	s := New(WithDialFunc(dialOnly("10.9.8.7:9100")))
	eps := Collect(context.Background(), s.Scan(context.Background(), "10.9.8", 9100, time.Second))
	if len(eps) != 1 || eps[0] != types.NewEndpoint("10.9.8.7", 9100) {
		t.Errorf("collect = %v, want one endpoint 10.9.8.7:9100", eps)
	}
}
