package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ============================================================================
//                              默认配置测试
// ============================================================================

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if cfg.Discovery.Port != 9100 {
		t.Errorf("default scan port = %d, want 9100", cfg.Discovery.Port)
	}
	if cfg.Discovery.ScanTimeout.Duration() != 4*time.Second {
		t.Errorf("default scan timeout = %v, want 4s", cfg.Discovery.ScanTimeout)
	}
	if cfg.Connection.ConnectTimeout.Duration() != 5*time.Second {
		t.Errorf("default connect timeout = %v, want 5s", cfg.Connection.ConnectTimeout)
	}
	if cfg.Liveness.Interval.Duration() != 3*time.Second {
		t.Errorf("default probe interval = %v, want 3s", cfg.Liveness.Interval)
	}
	if cfg.Liveness.Timeout.Duration() != 7*time.Second {
		t.Errorf("default probe timeout = %v, want 7s", cfg.Liveness.Timeout)
	}
}

// ============================================================================
//                              验证测试
// ============================================================================

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero scan port", func(c *Config) { c.Discovery.Port = 0 }},
		{"port too large", func(c *Config) { c.Discovery.Port = 70000 }},
		{"zero scan timeout", func(c *Config) { c.Discovery.ScanTimeout = 0 }},
		{"negative scan timeout", func(c *Config) { c.Discovery.ScanTimeout = Duration(-time.Second) }},
		{"zero connect timeout", func(c *Config) { c.Connection.ConnectTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.Connection.WriteTimeout = 0 }},
		{"zero probe interval", func(c *Config) { c.Liveness.Interval = 0 }},
		{"zero probe timeout", func(c *Config) { c.Liveness.Timeout = 0 }},
		{"ssdp enabled without wait", func(c *Config) {
			c.Discovery.EnableSSDP = true
			c.Discovery.SSDP.SearchWait = 0
		}},
		{"resolve enabled without cache", func(c *Config) {
			c.Discovery.EnableResolve = true
			c.Discovery.Resolve.CacheSize = 0
		}},
		{"bad metrics addr", func(c *Config) { c.Metrics.ListenAddr = "no-port" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// ============================================================================
//                              Duration 测试
// ============================================================================

func TestDurationUnmarshalString(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"1h30m"`), &d); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if d.Duration() != 90*time.Minute {
		t.Errorf("got %v, want 1h30m", d)
	}
}

func TestDurationUnmarshalNumber(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`3000000000`), &d); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if d.Duration() != 3*time.Second {
		t.Errorf("got %v, want 3s", d)
	}
}

func TestDurationUnmarshalInvalid(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"not a duration"`), &d); err == nil {
		t.Error("expected error for invalid duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Error("expected error for boolean")
	}
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(4 * time.Second)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"4s"` {
		t.Errorf("marshal = %s, want \"4s\"", data)
	}

	var back Duration
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip: got %v, want %v", back, d)
	}
}

// ============================================================================
//                              JSON 加载测试
// ============================================================================

func TestFromJSONOverridesDefaults(t *testing.T) {
	data := []byte(`{
		"discovery": {"port": 9101, "scan_timeout": "2s"},
		"liveness": {"interval": "1s", "timeout": "3s", "enable_tcp_fallback": false}
	}`)

	cfg, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if cfg.Discovery.Port != 9101 {
		t.Errorf("port = %d, want 9101", cfg.Discovery.Port)
	}
	if cfg.Discovery.ScanTimeout.Duration() != 2*time.Second {
		t.Errorf("scan timeout = %v, want 2s", cfg.Discovery.ScanTimeout)
	}
	if cfg.Liveness.EnableTCPFallback {
		t.Error("tcp fallback should be disabled")
	}
	// 未出现的字段保持默认
	if cfg.Connection.ConnectTimeout.Duration() != 5*time.Second {
		t.Errorf("connect timeout = %v, want default 5s", cfg.Connection.ConnectTimeout)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewKioskConfig()
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Liveness.Interval != cfg.Liveness.Interval {
		t.Errorf("probe interval = %v, want %v", loaded.Liveness.Interval, cfg.Liveness.Interval)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(os.TempDir(), "does-not-exist-tp.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

// ============================================================================
//                              预设测试
// ============================================================================

func TestPresets(t *testing.T) {
	kiosk := NewKioskConfig()
	if err := kiosk.Validate(); err != nil {
		t.Errorf("kiosk preset invalid: %v", err)
	}
	if kiosk.Liveness.Interval.Duration() != 1*time.Second {
		t.Errorf("kiosk probe interval = %v, want 1s", kiosk.Liveness.Interval)
	}

	server := NewServerConfig()
	if err := server.Validate(); err != nil {
		t.Errorf("server preset invalid: %v", err)
	}
	if !server.Metrics.Enabled {
		t.Error("server preset should enable metrics")
	}

	cfg := NewConfig()
	if !ApplyPreset(cfg, PresetServer) {
		t.Error("ApplyPreset(server) should succeed")
	}
	if !cfg.Metrics.Enabled {
		t.Error("applied server preset should enable metrics")
	}
	if ApplyPreset(cfg, "bogus") {
		t.Error("ApplyPreset(bogus) should fail")
	}
}
