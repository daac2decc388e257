package netinfo

import (
	"errors"
	"net"
	"testing"

	"github.com/samg-hub/thermal-printer/pkg/types"
)

// ============================================================================
//                              SubnetPrefix 测试
// ============================================================================

func TestSubnetPrefix(t *testing.T) {
	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{"192.168.1.23", "192.168.1", false},
		{"10.0.0.5", "10.0.0", false},
		{"172.16.254.1", "172.16.254", false},
		{"", "", true},
		{"not-an-ip", "", true},
		{"192.168.1", "", true},          // 缺主机段
		{"fe80::1", "", true},            // IPv6
		{"999.168.1.1", "", true},        // 越界
		{"192.168.1.1.1", "", true},      // 多段
	}

	for _, tt := range tests {
		got, err := SubnetPrefix(tt.addr)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SubnetPrefix(%q) expected error", tt.addr)
			} else if !errors.Is(err, types.ErrInvalidSubnetPrefix) {
				t.Errorf("SubnetPrefix(%q) error = %v, want ErrInvalidSubnetPrefix", tt.addr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("SubnetPrefix(%q) unexpected error: %v", tt.addr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SubnetPrefix(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestValidatePrefix(t *testing.T) {
	if err := ValidatePrefix("192.168.1"); err != nil {
		t.Errorf("valid prefix rejected: %v", err)
	}
	for _, bad := range []string{"", "192.168", "192.168.1.0", "abc.def.ghi"} {
		if err := ValidatePrefix(bad); err == nil {
			t.Errorf("ValidatePrefix(%q) expected error", bad)
		}
	}
}

// ============================================================================
//                              LocalIPv4 测试
// ============================================================================

// fakeIface 构造一个启用状态的物理网卡描述
func fakeIface(name string, flags net.Flags) net.Interface {
	return net.Interface{Name: name, Flags: flags}
}

func TestLocalIPv4PicksFirstUsable(t *testing.T) {
	s := New()
	s.interfaces = func() ([]net.Interface, error) {
		return []net.Interface{
			fakeIface("lo", net.FlagUp|net.FlagLoopback),
			fakeIface("docker0", net.FlagUp),
			fakeIface("eth0", net.FlagUp),
		}, nil
	}
	s.addrs = func(iface net.Interface) ([]net.Addr, error) {
		switch iface.Name {
		case "docker0":
			return []net.Addr{&net.IPNet{IP: net.ParseIP("172.17.0.1"), Mask: net.CIDRMask(16, 32)}}, nil
		case "eth0":
			return []net.Addr{
				&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
				&net.IPNet{IP: net.ParseIP("192.168.1.23"), Mask: net.CIDRMask(24, 32)},
			}, nil
		default:
			return nil, nil
		}
	}

	addr, ok := s.LocalIPv4()
	if !ok {
		t.Fatal("expected a usable local address")
	}
	if addr != "192.168.1.23" {
		t.Errorf("LocalIPv4 = %q, want 192.168.1.23", addr)
	}
}

func TestLocalIPv4SkipsCGNATAndLinkLocal(t *testing.T) {
	s := New()
	s.interfaces = func() ([]net.Interface, error) {
		return []net.Interface{fakeIface("wg0", net.FlagUp)}, nil
	}
	s.addrs = func(net.Interface) ([]net.Addr, error) {
		return []net.Addr{
			&net.IPNet{IP: net.ParseIP("100.100.0.5"), Mask: net.CIDRMask(10, 32)},  // CGNAT
			&net.IPNet{IP: net.ParseIP("169.254.10.1"), Mask: net.CIDRMask(16, 32)}, // 链路本地
		}, nil
	}

	if addr, ok := s.LocalIPv4(); ok {
		t.Errorf("expected no usable address, got %q", addr)
	}
}

func TestLocalIPv4NoInterfaces(t *testing.T) {
	s := New()
	s.interfaces = func() ([]net.Interface, error) {
		return nil, errors.New("boom")
	}
	if _, ok := s.LocalIPv4(); ok {
		t.Error("expected failure when interface enumeration fails")
	}
}
