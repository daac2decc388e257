package types

import "testing"

func TestNewEndpoint(t *testing.T) {
	ep := NewEndpoint("192.168.1.50", 9100)
	if ep.Address != "192.168.1.50" {
		t.Errorf("Address = %q, want %q", ep.Address, "192.168.1.50")
	}
	if ep.Port != 9100 {
		t.Errorf("Port = %d, want %d", ep.Port, 9100)
	}
}

func TestNewEndpointDefaultPort(t *testing.T) {
	ep := NewEndpoint("10.0.0.5", 0)
	if ep.Port != DefaultPrinterPort {
		t.Errorf("Port = %d, want %d", ep.Port, DefaultPrinterPort)
	}
}

func TestEndpointString(t *testing.T) {
	ep := NewEndpoint("192.168.1.50", 9100)
	if got := ep.String(); got != "192.168.1.50:9100" {
		t.Errorf("String() = %q, want %q", got, "192.168.1.50:9100")
	}
	if got := ep.Addr(); got != "192.168.1.50:9100" {
		t.Errorf("Addr() = %q, want %q", got, "192.168.1.50:9100")
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantAddr string
		wantPort int
		wantErr  bool
	}{
		{"host_port", "192.168.1.50:9100", "192.168.1.50", 9100, false},
		{"custom_port", "10.0.0.5:6001", "10.0.0.5", 6001, false},
		{"bare_address", "192.168.1.50", "192.168.1.50", DefaultPrinterPort, false},
		{"empty", "", "", 0, true},
		{"not_ip", "printer.local:9100", "", 0, true},
		{"ipv6", "::1", "", 0, true},
		{"bad_port", "192.168.1.50:abc", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := ParseEndpoint(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseEndpoint(%q) expected error, got %v", tt.input, ep)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEndpoint(%q) unexpected error: %v", tt.input, err)
			}
			if ep.Address != tt.wantAddr || ep.Port != tt.wantPort {
				t.Errorf("ParseEndpoint(%q) = %v, want %s:%d", tt.input, ep, tt.wantAddr, tt.wantPort)
			}
		})
	}
}

func TestEndpointValidate(t *testing.T) {
	tests := []struct {
		name    string
		ep      Endpoint
		wantErr bool
	}{
		{"valid", Endpoint{Address: "192.168.1.1", Port: 9100}, false},
		{"bad_address", Endpoint{Address: "999.1.1.1", Port: 9100}, true},
		{"hostname", Endpoint{Address: "printer", Port: 9100}, true},
		{"port_zero", Endpoint{Address: "192.168.1.1", Port: 0}, true},
		{"port_too_big", Endpoint{Address: "192.168.1.1", Port: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ep.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestEndpointIsZero(t *testing.T) {
	if !(Endpoint{}).IsZero() {
		t.Error("zero endpoint should report IsZero")
	}
	if NewEndpoint("1.2.3.4", 9100).IsZero() {
		t.Error("non-zero endpoint should not report IsZero")
	}
}

func TestDiscoveredPrinterDisplayName(t *testing.T) {
	ep := NewEndpoint("192.168.1.50", 9100)

	p := NewDiscoveredPrinter(ep, SourceScan)
	if p.Name != "192.168.1.50:9100" {
		t.Errorf("Name = %q, want %q", p.Name, "192.168.1.50:9100")
	}
	if got := p.DisplayName(); got != "192.168.1.50:9100" {
		t.Errorf("DisplayName() = %q, want %q", got, "192.168.1.50:9100")
	}

	p.Hostname = "kitchen-printer"
	want := "kitchen-printer (192.168.1.50:9100)"
	if got := p.DisplayName(); got != want {
		t.Errorf("DisplayName() = %q, want %q", got, want)
	}
}
