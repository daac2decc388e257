package prober

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

// icmpPayloadSize 回显请求负载大小
const icmpPayloadSize = 16

// selectPingFunc 选择可用的探测方式
//
// 优先无特权 ICMP（udp4 套接字，无需 NET_RAW）；
// 平台拒绝时按配置回退为 TCP 连接探测。
func selectPingFunc(cfg config.LivenessConfig) (PingFunc, error) {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err == nil {
		_ = conn.Close()
		return icmpPing, nil
	}

	if cfg.EnableTCPFallback {
		log.Warn("unprivileged ICMP unavailable, falling back to TCP probe", "err", err)
		return tcpPing, nil
	}

	return nil, fmt.Errorf("%w: %v", types.ErrProbeUnavailable, err)
}

// icmpPing 发送一次 ICMP 回显请求并等待应答
//
// 使用无特权 udp4 ICMP 套接字。内核会改写回显标识，
// 因此应答匹配依据序号与负载回显，不依据标识。
func icmpPing(ctx context.Context, ep types.Endpoint, seq int, timeout time.Duration) (time.Duration, error) {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		return 0, fmt.Errorf("icmp listen: %w", err)
	}
	defer conn.Close()

	payload := make([]byte, icmpPayloadSize)
	if _, err := rand.Read(payload); err != nil {
		return 0, fmt.Errorf("probe payload: %w", err)
	}

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  seq,
			Data: payload,
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("marshal echo: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, fmt.Errorf("set deadline: %w", err)
	}

	dst := &net.UDPAddr{IP: net.ParseIP(ep.Address)}
	start := time.Now()
	if _, err := conn.WriteTo(wire, dst); err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrProbeFailure, err)
	}

	buf := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if os.IsTimeout(err) {
				return 0, fmt.Errorf("%w: seq %d", types.ErrProbeTimeout, seq)
			}
			return 0, fmt.Errorf("%w: %v", types.ErrProbeFailure, err)
		}

		reply, err := icmp.ParseMessage(ipv4.ICMPTypeEchoReply.Protocol(), buf[:n])
		if err != nil {
			continue
		}
		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		// 匹配序号与负载，排除串台的应答
		if echo.Seq != seq || !bytes.Equal(echo.Data, payload) {
			continue
		}
		return time.Since(start), nil
	}
}

// tcpPing 对打印端口做一次短连接探测
//
// ICMP 不可用时的回退方式：能建立 TCP 连接视为对端存活。
func tcpPing(ctx context.Context, ep types.Endpoint, _ int, timeout time.Duration) (time.Duration, error) {
	d := &net.Dialer{}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conn, err := d.DialContext(dctx, "tcp4", ep.Addr())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrProbeFailure, err)
	}
	_ = conn.Close()
	return time.Since(start), nil
}
