package thermalprinter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

// startPrinter 在回环地址上模拟一台打印机
func startPrinter(t *testing.T) (net.Listener, Endpoint) {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				buf := make([]byte, 4096)
				for {
					if _, err := c.Read(buf); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return ln, NewEndpoint(addr.IP.String(), addr.Port)
}

func startedConnector(t *testing.T, opts ...Option) *Connector {
	t.Helper()
	c, err := Start(context.Background(), opts...)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// ============================================================================
//                              生命周期
// ============================================================================

func TestStartAndClose(t *testing.T) {
	c := startedConnector(t)

	if got := c.Status(); got != StatusNone {
		t.Errorf("initial status = %v, want none", got)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second close: %v, want nil", err)
	}
}

func TestLifecycleGuards(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := c.Send(context.Background(), []byte("x")); !errors.Is(err, ErrNotStarted) {
		t.Errorf("send before start err = %v, want ErrNotStarted", err)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second start err = %v, want ErrAlreadyStarted", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Send(context.Background(), []byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("send after close err = %v, want ErrClosed", err)
	}
}

func TestInvalidOptionRejected(t *testing.T) {
	if _, err := New(context.Background(), WithPort(0)); err == nil {
		t.Error("invalid port should be rejected")
	}
	if _, err := New(context.Background(), WithPreset("mainframe")); err == nil {
		t.Error("unknown preset should be rejected")
	}
}

// ============================================================================
//                              发现
// ============================================================================

func TestDiscoverLoopbackPrinter(t *testing.T) {
	_, ep := startPrinter(t)
	c := startedConnector(t)

	printers, err := c.DiscoverPrintersWithOptions(context.Background(), DiscoverOptions{
		Subnet:  "127.0.0",
		Port:    ep.Port,
		Timeout: time.Second,
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	if len(printers) != 1 {
		t.Fatalf("printers = %d, want 1: %+v", len(printers), printers)
	}
	if printers[0].Endpoint != ep {
		t.Errorf("endpoint = %v, want %v", printers[0].Endpoint, ep)
	}
	if printers[0].Source != SourceScan {
		t.Errorf("source = %q, want scan", printers[0].Source)
	}
}

func TestDiscoverInvalidSubnetRejected(t *testing.T) {
	c := startedConnector(t)
	_, err := c.DiscoverWithOptions(context.Background(), DiscoverOptions{Subnet: "not.a.subnet"})
	if !errors.Is(err, ErrInvalidSubnetPrefix) {
		t.Errorf("err = %v, want ErrInvalidSubnetPrefix", err)
	}
}

func TestDiscoverStreaming(t *testing.T) {
	_, ep := startPrinter(t)
	c := startedConnector(t)

	ch, err := c.DiscoverWithOptions(context.Background(), DiscoverOptions{
		Subnet:  "127.0.0",
		Port:    ep.Port,
		Timeout: time.Second,
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	var got []DiscoveredPrinter
	for p := range ch {
		got = append(got, p)
	}
	if len(got) != 1 || got[0].Endpoint != ep {
		t.Errorf("streamed = %+v, want one printer at %v", got, ep)
	}
}

func TestOnPrinterFound(t *testing.T) {
	_, ep := startPrinter(t)
	c := startedConnector(t)

	found := make(chan PrinterFoundEvent, 4)
	cancel, err := c.OnPrinterFound(func(evt PrinterFoundEvent) {
		found <- evt
	})
	if err != nil {
		t.Fatalf("on printer found: %v", err)
	}
	defer cancel()

	if _, err := c.DiscoverPrintersWithOptions(context.Background(), DiscoverOptions{
		Subnet:  "127.0.0",
		Port:    ep.Port,
		Timeout: time.Second,
	}); err != nil {
		t.Fatalf("discover: %v", err)
	}

	select {
	case evt := <-found:
		if evt.Printer.Endpoint != ep {
			t.Errorf("event endpoint = %v, want %v", evt.Printer.Endpoint, ep)
		}
		if evt.ScanID == "" {
			t.Error("event scan id should be set")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("printer-found event never delivered")
	}
}

// ============================================================================
//                              连接
// ============================================================================

func TestConnectSendDisconnect(t *testing.T) {
	_, ep := startPrinter(t)
	c := startedConnector(t)

	if err := c.Connect(context.Background(), ep.Addr()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if got := c.Status(); got != StatusConnected {
		t.Errorf("status = %v, want connected", got)
	}
	if got := c.ConnectedEndpoint(); got != ep {
		t.Errorf("connected endpoint = %v, want %v", got, ep)
	}

	if err := c.Send(context.Background(), []byte("\x1b@receipt\n")); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if got := c.Status(); got != StatusNone {
		t.Errorf("status = %v, want none", got)
	}
}

func TestConnectBareAddressUsesConfiguredPort(t *testing.T) {
	_, ep := startPrinter(t)
	c := startedConnector(t, WithPort(ep.Port))

	if err := c.Connect(context.Background(), ep.Address); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Disconnect(context.Background())

	if got := c.ConnectedEndpoint(); got != ep {
		t.Errorf("connected endpoint = %v, want %v", got, ep)
	}
}

func TestConnectInvalidAddress(t *testing.T) {
	c := startedConnector(t)
	if err := c.Connect(context.Background(), "printer.local"); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("err = %v, want ErrInvalidEndpoint", err)
	}
}

func TestOnStatusChanged(t *testing.T) {
	_, ep := startPrinter(t)
	c := startedConnector(t)

	events := make(chan StatusChangedEvent, 8)
	cancel, err := c.OnStatusChanged(func(evt StatusChangedEvent) {
		events <- evt
	})
	if err != nil {
		t.Fatalf("on status changed: %v", err)
	}
	defer cancel()

	if err := c.Connect(context.Background(), ep.Addr()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	var transitions []StatusChangedEvent
	timeout := time.After(3 * time.Second)
	for len(transitions) < 2 {
		select {
		case evt := <-events:
			if evt.Previous == evt.Current {
				continue // 初始快照
			}
			transitions = append(transitions, evt)
		case <-timeout:
			t.Fatalf("got %d transitions, want 2", len(transitions))
		}
	}

	if transitions[0].Current != StatusConnected {
		t.Errorf("first transition = %+v, want connected", transitions[0])
	}
	if transitions[1].Current != StatusNone || transitions[1].Reason != ReasonLocal {
		t.Errorf("second transition = %+v, want none/local", transitions[1])
	}
}

// ============================================================================
//                              健康检查
// ============================================================================

func TestHealthSnapshot(t *testing.T) {
	c := startedConnector(t)

	health := c.Health(context.Background())
	if health["connector"].Message != "running" {
		t.Errorf("connector health = %+v, want running", health["connector"])
	}
	if _, ok := health["connection"]; !ok {
		t.Error("connection health missing from snapshot")
	}
}

func TestVersionInfo(t *testing.T) {
	if VersionInfo() != fmt.Sprintf("thermal-printer %s", Version) {
		t.Errorf("version info = %q", VersionInfo())
	}
}
